package schema

import "slices"

// FieldSchema holds the storage constraints of a field
type FieldSchema struct {
	MaxLength        Optional[int]  `json:"max_length,omitzero"`
	NumericPrecision Optional[int]  `json:"numeric_precision,omitzero"`
	NumericScale     Optional[int]  `json:"numeric_scale,omitzero"`
	IsNullable       Optional[bool] `json:"is_nullable,omitzero"`
	IsPrimaryKey     Optional[bool] `json:"is_primary_key,omitzero"`
	HasAutoIncrement Optional[bool] `json:"has_auto_increment,omitzero"`
	IsUnique         Optional[bool] `json:"is_unique,omitzero"`
	DefaultValue     Optional[any]  `json:"default_value,omitzero"`
}

// FieldMeta holds the presentation metadata and special tags of a field
type FieldMeta struct {
	Interface      Optional[string] `json:"interface,omitzero"`
	Options        Options          `json:"options,omitzero"`
	Display        Optional[string] `json:"display,omitzero"`
	DisplayOptions Options          `json:"display_options,omitzero"`
	Special        []SpecialKind    `json:"special,omitzero"`
	Readonly       Optional[bool]   `json:"readonly,omitzero"`
	Hidden         Optional[bool]   `json:"hidden,omitzero"`
	Required       Optional[bool]   `json:"required,omitzero"`
	Width          Optional[string] `json:"width,omitzero"`
	Note           Optional[string] `json:"note,omitzero"`
}

// Field describes one column of a collection. Fields are created through a
// Collection's declaration methods and configured through chained calls.
type Field struct {
	name       string
	collection string
	fieldType  FieldType
	schema     FieldSchema
	meta       FieldMeta

	registrar RelationRegistrar
	relation  *Relation
}

// FieldOption configures a field at declaration time
type FieldOption func(*Field)

func newField(name string, collection string, t FieldType, registrar RelationRegistrar) *Field {
	return &Field{
		name:       name,
		collection: collection,
		fieldType:  t,
		registrar:  registrar,
	}
}

// Name returns the field name
func (f *Field) Name() string {
	return f.name
}

// Collection returns the name of the owning collection
func (f *Field) Collection() string {
	return f.collection
}

// Type returns the storage type of the field
func (f *Field) Type() FieldType {
	return f.fieldType
}

// Specials returns a copy of the special tags in declaration order
func (f *Field) Specials() []SpecialKind {
	return slices.Clone(f.meta.Special)
}

// HasSpecial returns true if the field carries the given special tag
func (f *Field) HasSpecial(kind SpecialKind) bool {
	return slices.Contains(f.meta.Special, kind)
}

// IsPrimaryKey returns true if the field is flagged as primary key
func (f *Field) IsPrimaryKey() bool {
	v, ok := f.schema.IsPrimaryKey.Get()
	return ok && v
}

// IsNullable returns false only when the field was explicitly made non-nullable
func (f *Field) IsNullable() bool {
	v, ok := f.schema.IsNullable.Get()
	return !ok || v
}

// RelatedCollection returns the target of the last relation declared through this field
func (f *Field) RelatedCollection() (string, bool) {
	if f.relation == nil {
		return "", false
	}
	return f.relation.RelatedCollection, true
}

// NotNullable marks the field as not nullable
func (f *Field) NotNullable() *Field {
	f.schema.IsNullable = Some(false)
	return f
}

// Nullable marks the field as nullable
func (f *Field) Nullable() *Field {
	f.schema.IsNullable = Some(true)
	return f
}

// PK flags the field as primary key
func (f *Field) PK() *Field {
	f.schema.IsPrimaryKey = Some(true)
	return f
}

// AutoIncrement flags the field as auto incrementing
func (f *Field) AutoIncrement() *Field {
	f.schema.HasAutoIncrement = Some(true)
	return f
}

// Unique flags the field as unique
func (f *Field) Unique() *Field {
	f.schema.IsUnique = Some(true)
	return f
}

// MaxLength sets the maximum length of the stored value
func (f *Field) MaxLength(n int) *Field {
	f.schema.MaxLength = Some(n)
	return f
}

// Precision sets the numeric precision and scale
func (f *Field) Precision(precision, scale int) *Field {
	f.schema.NumericPrecision = Some(precision)
	f.schema.NumericScale = Some(scale)
	return f
}

// Default sets the default value
func (f *Field) Default(v any) *Field {
	f.schema.DefaultValue = Some(v)
	return f
}

// Special appends special tags. Tags already present are skipped.
func (f *Field) Special(kinds ...SpecialKind) *Field {
	for _, kind := range kinds {
		if !slices.Contains(f.meta.Special, kind) {
			f.meta.Special = append(f.meta.Special, kind)
		}
	}
	return f
}

// Interface sets the input interface and its options. Nil options leave the key out.
func (f *Field) Interface(name string, options Options) *Field {
	f.meta.Interface = Some(name)
	f.meta.Options = options
	return f
}

// Display sets the display renderer and its options
func (f *Field) Display(name string, options Options) *Field {
	f.meta.Display = Some(name)
	f.meta.DisplayOptions = options
	return f
}

// Readonly makes the field read-only in the app
func (f *Field) Readonly() *Field {
	f.meta.Readonly = Some(true)
	return f
}

// Hidden hides the field in the app
func (f *Field) Hidden() *Field {
	f.meta.Hidden = Some(true)
	return f
}

// Required marks the field as required in forms
func (f *Field) Required() *Field {
	f.meta.Required = Some(true)
	return f
}

// Width sets the form width ("half", "full", "fill")
func (f *Field) Width(width string) *Field {
	f.meta.Width = Some(width)
	return f
}

// Note sets the help text shown under the field
func (f *Field) Note(note string) *Field {
	f.meta.Note = Some(note)
	return f
}

// Relation registers a relation from this field to relatedCollection.
// An empty relatedCollection leaves the target for the registry consumer to resolve.
func (f *Field) Relation(relatedCollection string) *Field {
	f.relation = f.registrar.RegisterRelation(f.collection, f.name, relatedCollection)
	return f
}

// OnDelete sets the delete policy of the relation last registered through this field.
// Without a relation it does nothing.
func (f *Field) OnDelete(action OnDeleteAction) *Field {
	if f.relation != nil {
		f.relation.SetOnDelete(action)
	}
	return f
}
