package schema

import "slices"

// CollectionOutput is the canonical descriptor of a collection
type CollectionOutput struct {
	Collection string         `json:"collection"`
	Schema     map[string]any `json:"schema"`
	Meta       CollectionMeta `json:"meta"`
	Fields     []FieldOutput  `json:"fields"`
}

// FieldOutput is the canonical descriptor of a field
type FieldOutput struct {
	Field  string      `json:"field"`
	Type   FieldType   `json:"type"`
	Schema FieldSchema `json:"schema"`
	Meta   FieldMeta   `json:"meta"`
}

// Render produces the descriptor of the collection and its fields in declaration order.
// The result shares no mutable state with the collection.
func (c *Collection) Render() CollectionOutput {
	out := CollectionOutput{
		Collection: c.name,
		Schema:     cloneMap(c.schema),
		Meta:       c.meta,
		Fields:     make([]FieldOutput, 0, len(c.fields)),
	}
	if out.Schema == nil {
		out.Schema = make(map[string]any)
	}
	out.Meta.Translations = slices.Clone(c.meta.Translations)

	for _, f := range c.fields {
		out.Fields = append(out.Fields, f.Render())
	}
	return out
}

// Render produces the descriptor of the field
func (f *Field) Render() FieldOutput {
	meta := f.meta
	meta.Special = slices.Clone(f.meta.Special)
	meta.Options = Options(cloneMap(f.meta.Options))
	meta.DisplayOptions = Options(cloneMap(f.meta.DisplayOptions))

	schema := f.schema
	if v, ok := schema.DefaultValue.Get(); ok {
		schema.DefaultValue = Some(cloneValue(v))
	}

	return FieldOutput{
		Field:  f.name,
		Type:   f.fieldType,
		Schema: schema,
		Meta:   meta,
	}
}

func cloneMap[M ~map[string]any](m M) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = cloneValue(v)
	}
	return result
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Options:
		return Options(cloneMap(val))
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = cloneValue(item)
		}
		return result
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}
