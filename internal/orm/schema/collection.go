package schema

import "slices"

// Collection accountability modes
var (
	AccountabilityAll      = Some("all")
	AccountabilityActivity = Some("activity")
	AccountabilityNone     = Null[string]()
)

// Default archive lifecycle values
const (
	DefaultArchiveValue   = "archived"
	DefaultUnarchiveValue = "draft"
)

// Translation is one entry of a collection's translated names
type Translation struct {
	Language    string           `json:"language"`
	Translation string           `json:"translation"`
	Singular    Optional[string] `json:"singular,omitzero"`
	Plural      Optional[string] `json:"plural,omitzero"`
}

// CollectionMeta holds collection-level behavioral metadata.
// Every key is optional; unset keys are left out of the rendered output.
type CollectionMeta struct {
	SortField        Optional[string] `json:"sort_field,omitzero"`
	ArchiveField     Optional[string] `json:"archive_field,omitzero"`
	ArchiveValue     Optional[string] `json:"archive_value,omitzero"`
	UnarchiveValue   Optional[string] `json:"unarchive_value,omitzero"`
	ArchiveAppFilter Optional[bool]   `json:"archive_app_filter,omitzero"`
	Accountability   Optional[string] `json:"accountability,omitzero"`
	Hidden           Optional[bool]   `json:"hidden,omitzero"`
	Singleton        Optional[bool]   `json:"singleton,omitzero"`
	Translations     []Translation    `json:"translations,omitzero"`
	Icon             Optional[string] `json:"icon,omitzero"`
	Note             Optional[string] `json:"note,omitzero"`
	Color            Optional[string] `json:"color,omitzero"`
	DisplayTemplate  Optional[string] `json:"display_template,omitzero"`
}

// Collection accumulates the fields and metadata of one logical table.
//
// Collection-level setters return the collection so configuration calls chain;
// field-declaring methods return the new *Field so per-field calls chain.
// Nothing is validated here: references such as sort or archive field names are
// recorded as given. Use Registry.Validate for optional consistency checks.
type Collection struct {
	name      string
	schema    map[string]any
	meta      CollectionMeta
	fields    []*Field
	registrar RelationRegistrar
}

// CollectionOption configures a collection at creation time
type CollectionOption func(*Collection)

// WithSchema sets the opaque collection schema passthrough
func WithSchema(schema map[string]any) CollectionOption {
	return func(c *Collection) {
		c.schema = schema
	}
}

// WithMeta sets the initial collection metadata
func WithMeta(meta CollectionMeta) CollectionOption {
	return func(c *Collection) {
		c.meta = meta
	}
}

// WithField declares an initial field
func WithField(name string, t FieldType, opts ...FieldOption) CollectionOption {
	return func(c *Collection) {
		c.Field(name, t, opts...)
	}
}

// NewCollection creates a collection whose relations are registered with registrar.
// A nil registrar keeps relations on the fields only.
func NewCollection(name string, registrar RelationRegistrar, opts ...CollectionOption) *Collection {
	if registrar == nil {
		registrar = detachedRegistrar{}
	}
	c := &Collection{
		name:      name,
		schema:    make(map[string]any),
		fields:    make([]*Field, 0),
		registrar: registrar,
	}
	c.apply(opts)
	return c
}

func (c *Collection) apply(opts []CollectionOption) {
	for _, opt := range opts {
		opt(c)
	}
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// Meta returns a copy of the current collection metadata
func (c *Collection) Meta() CollectionMeta {
	meta := c.meta
	meta.Translations = slices.Clone(c.meta.Translations)
	return meta
}

// Fields returns the declared fields in declaration order
func (c *Collection) Fields() []*Field {
	result := make([]*Field, len(c.fields))
	copy(result, c.fields)
	return result
}

// GetField returns the first field declared with the given name
func (c *Collection) GetField(name string) (*Field, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// HasField returns true if a field with the given name was declared
func (c *Collection) HasField(name string) bool {
	_, ok := c.GetField(name)
	return ok
}

// PrimaryKeys returns every field flagged as primary key
func (c *Collection) PrimaryKeys() []*Field {
	var keys []*Field
	for _, f := range c.fields {
		if f.IsPrimaryKey() {
			keys = append(keys, f)
		}
	}
	return keys
}

// Hidden hides the collection in the app
func (c *Collection) Hidden(value bool) *Collection {
	c.meta.Hidden = Some(value)
	return c
}

// Singleton marks the collection as holding a single item
func (c *Collection) Singleton(value bool) *Collection {
	c.meta.Singleton = Some(value)
	return c
}

// Sort sets the manual sort field
func (c *Collection) Sort(field string) *Collection {
	c.meta.SortField = Some(field)
	return c
}

// Accountability sets the audit mode: AccountabilityAll, AccountabilityActivity or AccountabilityNone
func (c *Collection) Accountability(value Optional[string]) *Collection {
	c.meta.Accountability = value
	return c
}

// Icon sets the collection icon
func (c *Collection) Icon(icon string) *Collection {
	c.meta.Icon = Some(icon)
	return c
}

// Note sets the help text shown for the collection
func (c *Collection) Note(note string) *Collection {
	c.meta.Note = Some(note)
	return c
}

// Color sets the accent color of the collection
func (c *Collection) Color(color string) *Collection {
	c.meta.Color = Some(color)
	return c
}

// DisplayTemplate sets the template used to display items in relational interfaces
func (c *Collection) DisplayTemplate(template string) *Collection {
	c.meta.DisplayTemplate = Some(template)
	return c
}

type archiveConfig struct {
	value     Optional[string]
	unarchive Optional[string]
	appFilter bool
}

// ArchiveOption overrides one of the archive defaults
type ArchiveOption func(*archiveConfig)

// ArchiveValue sets the value written when an item is archived. Null[string]() means no value.
func ArchiveValue(v Optional[string]) ArchiveOption {
	return func(a *archiveConfig) {
		a.value = v
	}
}

// UnarchiveValue sets the value written when an item is unarchived. Null[string]() means no value.
func UnarchiveValue(v Optional[string]) ArchiveOption {
	return func(a *archiveConfig) {
		a.unarchive = v
	}
}

// ArchiveAppFilter toggles hiding archived items in the app
func ArchiveAppFilter(enabled bool) ArchiveOption {
	return func(a *archiveConfig) {
		a.appFilter = enabled
	}
}

// Archive sets the archive lifecycle on field.
// Defaults: archive value "archived", unarchive value "draft", app filter enabled.
func (c *Collection) Archive(field string, opts ...ArchiveOption) *Collection {
	cfg := archiveConfig{
		value:     Some(DefaultArchiveValue),
		unarchive: Some(DefaultUnarchiveValue),
		appFilter: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.meta.ArchiveField = Some(field)
	c.meta.ArchiveValue = cfg.value
	c.meta.UnarchiveValue = cfg.unarchive
	c.meta.ArchiveAppFilter = Some(cfg.appFilter)
	return c
}

// TranslationOption sets an optional part of a translation
type TranslationOption func(*Translation)

// Singular sets the singular form of a translation
func Singular(s string) TranslationOption {
	return func(t *Translation) {
		t.Singular = Some(s)
	}
}

// Plural sets the plural form of a translation
func Plural(s string) TranslationOption {
	return func(t *Translation) {
		t.Plural = Some(s)
	}
}

// Translation appends a translated collection name
func (c *Collection) Translation(language, translation string, opts ...TranslationOption) *Collection {
	t := Translation{
		Language:    language,
		Translation: translation,
	}
	for _, opt := range opts {
		opt(&t)
	}

	if c.meta.Translations == nil {
		c.meta.Translations = make([]Translation, 0, 1)
	}
	c.meta.Translations = append(c.meta.Translations, t)
	return c
}

// Field declares a field of type t and appends it to the collection
func (c *Collection) Field(name string, t FieldType, opts ...FieldOption) *Field {
	f := newField(name, c.name, t, c.registrar)
	for _, opt := range opts {
		opt(f)
	}
	c.fields = append(c.fields, f)
	return f
}

// Relation registers a relation from field to relatedCollection with the registry.
// An empty relatedCollection is passed through for the registry consumer to interpret.
func (c *Collection) Relation(field, relatedCollection string) *Relation {
	return c.registrar.RegisterRelation(c.name, field, relatedCollection)
}
