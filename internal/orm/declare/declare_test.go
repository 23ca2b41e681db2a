package declare

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/conduit-lang/collections/internal/orm/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlesYAML = `
collections:
  - name: categories
    fields:
      - {name: id, kind: primary_key, type: integer}
      - {name: name, kind: string, max_length: 120, required: true}
  - name: articles
    meta:
      sort: sort
      accountability: all
      archive: {field: status, value: null, unarchive: published, app_filter: false}
      translations:
        - {language: en-US, translation: Articles, singular: Article}
        - {language: de-DE, translation: Artikel}
    fields:
      - {name: id, kind: primary_key, type: uuid}
      - {name: status, kind: string}
      - {name: sort, kind: integer, hidden: true}
      - {name: owner, kind: uuid, on_create: user, on_update: role}
      - {name: user_created, kind: user_created}
      - {name: date_created, kind: date_created}
      - {name: cover, kind: image}
      - {name: price, kind: decimal, precision: 12, scale: 2}
      - name: category
        kind: integer
        relation: categories
        on_delete: CASCADE
        interface: select-dropdown-m2o
        options: {template: "{{name}}"}
      - {name: origin, kind: geometry_point}
`

func TestLoad(t *testing.T) {
	registry := schema.NewRegistry()
	require.NoError(t, Load(strings.NewReader(articlesYAML), registry))

	assert.Equal(t, []string{"categories", "articles"}, registry.List())

	articles, ok := registry.Get("articles")
	require.True(t, ok)
	out := articles.Render()

	require.Len(t, out.Fields, 10)
	assert.Equal(t, "id", out.Fields[0].Field)
	assert.Equal(t, []schema.SpecialKind{schema.SpecialUUID}, out.Fields[0].Meta.Special)
	assert.Equal(t, []schema.SpecialKind{schema.SpecialUserCreated, schema.SpecialRoleUpdated}, out.Fields[3].Meta.Special)
	assert.Equal(t, schema.Some(12), out.Fields[7].Schema.NumericPrecision)
	assert.Equal(t, schema.TypeGeometryPoint, out.Fields[9].Type)

	meta, err := json.Marshal(out.Meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sort_field": "sort",
		"archive_field": "status",
		"archive_value": null,
		"unarchive_value": "published",
		"archive_app_filter": false,
		"accountability": "all",
		"translations": [
			{"language": "en-US", "translation": "Articles", "singular": "Article"},
			{"language": "de-DE", "translation": "Artikel"}
		]
	}`, string(meta))

	relations := registry.RelationsFor("articles")
	require.Len(t, relations, 3)
	assert.Equal(t, schema.CollectionUsers, relations[0].RelatedCollection)
	assert.Equal(t, schema.CollectionFiles, relations[1].RelatedCollection)
	assert.Equal(t, "categories", relations[2].RelatedCollection)
	assert.Equal(t, schema.OnDeleteCascade, relations[2].OnDelete)

	assert.NoError(t, registry.Validate())
}

func TestLoadAccountabilityNull(t *testing.T) {
	registry := schema.NewRegistry()
	doc := `
collections:
  - name: logs
    meta: {accountability: null}
`
	require.NoError(t, Load(strings.NewReader(doc), registry))

	logs, _ := registry.Get("logs")
	assert.True(t, logs.Meta().Accountability.IsNull())
}

func TestLoadArchiveDefaults(t *testing.T) {
	registry := schema.NewRegistry()
	doc := `
collections:
  - name: posts
    meta: {archive: {field: status}}
`
	require.NoError(t, Load(strings.NewReader(doc), registry))

	posts, _ := registry.Get("posts")
	meta := posts.Meta()
	assert.Equal(t, schema.Some(schema.DefaultArchiveValue), meta.ArchiveValue)
	assert.Equal(t, schema.Some(schema.DefaultUnarchiveValue), meta.UnarchiveValue)
	assert.Equal(t, schema.Some(true), meta.ArchiveAppFilter)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{
			name: "unknown kind",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: title, kind: varchar}\n",
			err:  `collection posts field title: unknown field kind: "varchar"`,
		},
		{
			name: "primary key without type",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: id, kind: primary_key}\n",
			err:  "kind primary_key requires a type",
		},
		{
			name: "unknown on_delete",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: a, kind: integer, relation: authors, on_delete: explode}\n",
			err:  "unknown on_delete action: explode",
		},
		{
			name: "missing collection name",
			doc:  "collections:\n  - fields: []\n",
			err:  "collection without name",
		},
		{
			name: "unknown key",
			doc:  "collections:\n  - name: posts\n    colour: red\n",
			err:  "failed to parse declarations",
		},
		{
			name: "unknown create stamp",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: owner, kind: uuid, on_create: users}\n",
			err:  "collection posts field owner: unknown on_create stamp: users",
		},
		{
			name: "uuid update stamp",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: owner, kind: uuid, on_update: uuid}\n",
			err:  "unknown on_update stamp: uuid",
		},
		{
			name: "stamp on non uuid kind",
			doc:  "collections:\n  - name: posts\n    fields:\n      - {name: title, kind: string, on_create: user}\n",
			err:  "on_create and on_update require kind uuid, got string",
		},
		{
			name: "archive without field",
			doc:  "collections:\n  - name: posts\n    meta: {archive: {value: gone}}\n",
			err:  "archive: field is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Load(strings.NewReader(tt.doc), schema.NewRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestLoadCollectionSchema(t *testing.T) {
	registry := schema.NewRegistry()
	doc := `
collections:
  - name: posts
    schema: {name: posts, comment: blog entries}
  - name: tags
`
	require.NoError(t, Load(strings.NewReader(doc), registry))

	posts, _ := registry.Get("posts")
	assert.Equal(t, map[string]any{"name": "posts", "comment": "blog entries"}, posts.Render().Schema)

	tags, _ := registry.Get("tags")
	assert.Empty(t, tags.Render().Schema)
}

func TestLoadEmptyDocument(t *testing.T) {
	registry := schema.NewRegistry()
	require.NoError(t, Load(strings.NewReader(""), registry))
	assert.Equal(t, 0, registry.Count())
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Contains(t, kinds, KindPrimaryKey)
	assert.Contains(t, kinds, KindImage)
	assert.IsIncreasing(t, kinds)
}
