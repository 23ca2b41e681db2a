package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldType(t *testing.T) {
	for _, ft := range fieldTypes {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}

	parsed, err := ParseFieldType("datetime")
	require.NoError(t, err)
	assert.Equal(t, TypeDateTime, parsed)

	_, err = ParseFieldType("varchar")
	assert.EqualError(t, err, "unknown field type: varchar")
}

func TestFieldTypeKinds(t *testing.T) {
	assert.True(t, TypeDecimal.IsNumeric())
	assert.False(t, TypeString.IsNumeric())
	assert.True(t, TypeGeometryMultiPolygon.IsGeometry())
	assert.False(t, TypeJSON.IsGeometry())
}

func TestParseOnDeleteAction(t *testing.T) {
	action, err := ParseOnDeleteAction("SET NULL")
	require.NoError(t, err)
	assert.Equal(t, OnDeleteSetNull, action)

	_, err = ParseOnDeleteAction("set_null")
	assert.Error(t, err)
}

func TestParseStamps(t *testing.T) {
	for _, s := range []string{"uuid", "user", "role"} {
		kind, err := ParseCreateStamp(s)
		require.NoError(t, err)
		assert.Equal(t, StampKind(s), kind)
	}
	_, err := ParseCreateStamp("users")
	assert.EqualError(t, err, "unknown on_create stamp: users (use uuid, user or role)")

	kind, err := ParseUpdateStamp("role")
	require.NoError(t, err)
	assert.Equal(t, StampRole, kind)
	_, err = ParseUpdateStamp("uuid")
	assert.EqualError(t, err, "unknown on_update stamp: uuid (use user or role)")
}

func TestOptional(t *testing.T) {
	t.Run("states", func(t *testing.T) {
		var unset Optional[string]
		assert.True(t, unset.IsZero())
		assert.False(t, unset.IsNull())
		assert.Equal(t, "unset", unset.String())

		null := Null[string]()
		assert.False(t, null.IsZero())
		assert.True(t, null.IsNull())
		_, ok := null.Get()
		assert.False(t, ok)

		value := Some("draft")
		v, ok := value.Get()
		assert.True(t, ok)
		assert.Equal(t, "draft", v)
	})

	t.Run("json", func(t *testing.T) {
		type doc struct {
			A Optional[string] `json:"a,omitzero"`
			B Optional[string] `json:"b,omitzero"`
			C Optional[string] `json:"c,omitzero"`
		}

		data, err := json.Marshal(doc{B: Null[string](), C: Some("x")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"b": null, "c": "x"}`, string(data))
	})
}
