// Package schema provides type definitions for the collection schema DSL.
// It defines the field type enumeration, special field tags, delete policies and the
// tri-state Optional value used by rendered collection and field metadata.
package schema

import (
	"encoding/json"
	"fmt"
)

// FieldType represents the storage type of a field
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeText       FieldType = "text"
	TypeBoolean    FieldType = "boolean"
	TypeInteger    FieldType = "integer"
	TypeBigInteger FieldType = "bigInteger"
	TypeFloat      FieldType = "float"
	TypeDecimal    FieldType = "decimal"

	// Time types
	TypeDateTime  FieldType = "dateTime"
	TypeTimestamp FieldType = "timestamp"
	TypeDate      FieldType = "date"
	TypeTime      FieldType = "time"

	TypeJSON FieldType = "json"
	TypeCSV  FieldType = "csv"
	TypeUUID FieldType = "uuid"
	TypeHash FieldType = "hash"

	// Geometry types
	TypeGeometry                FieldType = "geometry"
	TypeGeometryPoint           FieldType = "geometry.Point"
	TypeGeometryLineString      FieldType = "geometry.LineString"
	TypeGeometryPolygon         FieldType = "geometry.Polygon"
	TypeGeometryMultiPoint      FieldType = "geometry.MultiPoint"
	TypeGeometryMultiLineString FieldType = "geometry.MultiLineString"
	TypeGeometryMultiPolygon    FieldType = "geometry.MultiPolygon"
)

var fieldTypes = []FieldType{
	TypeString, TypeText, TypeBoolean, TypeInteger, TypeBigInteger, TypeFloat, TypeDecimal,
	TypeDateTime, TypeTimestamp, TypeDate, TypeTime,
	TypeJSON, TypeCSV, TypeUUID, TypeHash,
	TypeGeometry, TypeGeometryPoint, TypeGeometryLineString, TypeGeometryPolygon,
	TypeGeometryMultiPoint, TypeGeometryMultiLineString, TypeGeometryMultiPolygon,
}

// String returns the wire value of the field type
func (t FieldType) String() string {
	return string(t)
}

// IsNumeric returns true if the type is a numeric type
func (t FieldType) IsNumeric() bool {
	return t == TypeInteger ||
		t == TypeBigInteger ||
		t == TypeFloat ||
		t == TypeDecimal
}

// IsGeometry returns true for the generic geometry type and all of its subtypes
func (t FieldType) IsGeometry() bool {
	switch t {
	case TypeGeometry, TypeGeometryPoint, TypeGeometryLineString, TypeGeometryPolygon,
		TypeGeometryMultiPoint, TypeGeometryMultiLineString, TypeGeometryMultiPolygon:
		return true
	}
	return false
}

// ParseFieldType converts a wire value to a FieldType.
// "datetime" is accepted as an alias of "dateTime".
func ParseFieldType(s string) (FieldType, error) {
	if s == "datetime" {
		return TypeDateTime, nil
	}
	for _, t := range fieldTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown field type: %s", s)
}

// SpecialKind is a behavioral tag interpreted by the schema consumer
type SpecialKind string

const (
	SpecialUUID        SpecialKind = "uuid"
	SpecialUserCreated SpecialKind = "user-created"
	SpecialRoleCreated SpecialKind = "role-created"
	SpecialUserUpdated SpecialKind = "user-updated"
	SpecialRoleUpdated SpecialKind = "role-updated"
	SpecialDateCreated SpecialKind = "date-created"
	SpecialDateUpdated SpecialKind = "date-updated"
	SpecialBoolean     SpecialKind = "boolean"
	SpecialJSON        SpecialKind = "json"
	SpecialCSV         SpecialKind = "csv"
	SpecialHash        SpecialKind = "hash"
	SpecialFile        SpecialKind = "file"
)

// OnDeleteAction represents the delete policy of a relation
type OnDeleteAction string

const (
	OnDeleteSetNull    OnDeleteAction = "SET NULL"
	OnDeleteCascade    OnDeleteAction = "CASCADE"
	OnDeleteRestrict   OnDeleteAction = "RESTRICT"
	OnDeleteNoAction   OnDeleteAction = "NO ACTION"
	OnDeleteSetDefault OnDeleteAction = "SET DEFAULT"
)

// ParseOnDeleteAction converts a string to an OnDeleteAction
func ParseOnDeleteAction(s string) (OnDeleteAction, error) {
	switch OnDeleteAction(s) {
	case OnDeleteSetNull, OnDeleteCascade, OnDeleteRestrict, OnDeleteNoAction, OnDeleteSetDefault:
		return OnDeleteAction(s), nil
	default:
		return "", fmt.Errorf("unknown on_delete action: %s", s)
	}
}

// System collections owned by the schema consumer
const (
	CollectionUsers = "directus_users"
	CollectionRoles = "directus_roles"
	CollectionFiles = "directus_files"
)

// Options holds opaque interface or display options
type Options map[string]any

type optionalState uint8

const (
	optionalUnset optionalState = iota
	optionalNull
	optionalValue
)

// Optional is a tri-state value: unset, explicitly null, or set to a value.
// Unset values are omitted from rendered output through the omitzero tag option.
type Optional[T any] struct {
	state optionalState
	value T
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{state: optionalValue, value: v}
}

// Null returns an Optional explicitly set to no value
func Null[T any]() Optional[T] {
	return Optional[T]{state: optionalNull}
}

// IsZero reports whether the value is unset
func (o Optional[T]) IsZero() bool {
	return o.state == optionalUnset
}

// IsNull reports whether the value was explicitly set to null
func (o Optional[T]) IsNull() bool {
	return o.state == optionalNull
}

// Get returns the value and whether one is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalValue
}

// MarshalJSON encodes null for both unset and null states
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalValue {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// String returns a human readable representation
func (o Optional[T]) String() string {
	switch o.state {
	case optionalNull:
		return "null"
	case optionalValue:
		return fmt.Sprint(o.value)
	default:
		return "unset"
	}
}
