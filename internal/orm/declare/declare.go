// Package declare loads YAML collection declarations and compiles them through the
// schema Collection compiler.
package declare

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/collections/internal/orm/schema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Document is the root of a declaration file
type Document struct {
	Collections []CollectionNode `yaml:"collections"`
}

// CollectionNode declares one collection
type CollectionNode struct {
	Name   string         `yaml:"name"`
	Schema map[string]any `yaml:"schema"`
	Meta   MetaNode       `yaml:"meta"`
	Fields []FieldNode    `yaml:"fields"`
}

// MetaNode declares collection metadata
type MetaNode struct {
	Hidden          *bool             `yaml:"hidden"`
	Singleton       *bool             `yaml:"singleton"`
	Sort            string            `yaml:"sort"`
	Accountability  yaml.Node         `yaml:"accountability"`
	Archive         *ArchiveNode      `yaml:"archive"`
	Translations    []TranslationNode `yaml:"translations"`
	Icon            string            `yaml:"icon"`
	Note            string            `yaml:"note"`
	Color           string            `yaml:"color"`
	DisplayTemplate string            `yaml:"display_template"`
}

// ArchiveNode declares the archive lifecycle. Omitted values keep the defaults,
// explicit nulls map to no value.
type ArchiveNode struct {
	Field     string    `yaml:"field"`
	Value     yaml.Node `yaml:"value"`
	Unarchive yaml.Node `yaml:"unarchive"`
	AppFilter *bool     `yaml:"app_filter"`
}

// TranslationNode declares one translated collection name
type TranslationNode struct {
	Language    string `yaml:"language"`
	Translation string `yaml:"translation"`
	Singular    string `yaml:"singular"`
	Plural      string `yaml:"plural"`
}

// FieldNode declares one field. Kind selects the compiler helper.
type FieldNode struct {
	Name           string         `yaml:"name"`
	Kind           string         `yaml:"kind"`
	Type           string         `yaml:"type"`
	MaxLength      *int           `yaml:"max_length"`
	Precision      *int           `yaml:"precision"`
	Scale          *int           `yaml:"scale"`
	OnCreate       string         `yaml:"on_create"`
	OnUpdate       string         `yaml:"on_update"`
	Nullable       *bool          `yaml:"nullable"`
	Unique         bool           `yaml:"unique"`
	Default        any            `yaml:"default"`
	Required       bool           `yaml:"required"`
	Readonly       bool           `yaml:"readonly"`
	Hidden         bool           `yaml:"hidden"`
	Width          string         `yaml:"width"`
	Note           string         `yaml:"note"`
	Special        []string       `yaml:"special"`
	Interface      string         `yaml:"interface"`
	Options        map[string]any `yaml:"options"`
	Display        string         `yaml:"display"`
	DisplayOptions map[string]any `yaml:"display_options"`
	Relation       *string        `yaml:"relation"`
	OnDelete       string         `yaml:"on_delete"`
}

// Loader compiles declaration documents into a registry
type Loader struct {
	registry *schema.Registry
	logger   *zap.Logger
}

// NewLoader creates a loader that declares collections in registry
func NewLoader(registry *schema.Registry, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{registry: registry, logger: logger}
}

// Load reads a YAML declaration document from r into registry
func Load(r io.Reader, registry *schema.Registry) error {
	return NewLoader(registry, nil).Load(r)
}

// Load reads a YAML declaration document and compiles every collection in it
func (l *Loader) Load(r io.Reader) error {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse declarations: %w", err)
	}
	return l.Compile(&doc)
}

// Compile declares the collections of doc. Errors from every collection are collected.
func (l *Loader) Compile(doc *Document) error {
	var errs []error
	for i := range doc.Collections {
		node := &doc.Collections[i]
		if err := l.compileCollection(node); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		var errMsgs []string
		for _, err := range errs {
			errMsgs = append(errMsgs, err.Error())
		}
		return fmt.Errorf("declaration failed with %d errors:\n%s", len(errs), strings.Join(errMsgs, "\n"))
	}
	return nil
}

func (l *Loader) compileCollection(node *CollectionNode) error {
	if node.Name == "" {
		return fmt.Errorf("collection without name")
	}

	var opts []schema.CollectionOption
	if node.Schema != nil {
		opts = append(opts, schema.WithSchema(node.Schema))
	}
	c := l.registry.Collection(node.Name, opts...)
	if err := applyMeta(c, &node.Meta); err != nil {
		return fmt.Errorf("collection %s: %w", node.Name, err)
	}

	for i := range node.Fields {
		fn := &node.Fields[i]
		if err := compileField(c, fn); err != nil {
			return fmt.Errorf("collection %s field %s: %w", node.Name, fn.Name, err)
		}
	}

	l.logger.Debug("collection declared",
		zap.String("collection", node.Name),
		zap.Int("fields", len(node.Fields)))
	return nil
}

func applyMeta(c *schema.Collection, meta *MetaNode) error {
	if meta.Hidden != nil {
		c.Hidden(*meta.Hidden)
	}
	if meta.Singleton != nil {
		c.Singleton(*meta.Singleton)
	}
	if meta.Sort != "" {
		c.Sort(meta.Sort)
	}
	if !isAbsent(&meta.Accountability) {
		value, err := optionalString(&meta.Accountability)
		if err != nil {
			return fmt.Errorf("accountability: %w", err)
		}
		c.Accountability(value)
	}
	if meta.Archive != nil {
		opts, err := archiveOptions(meta.Archive)
		if err != nil {
			return err
		}
		c.Archive(meta.Archive.Field, opts...)
	}
	for _, t := range meta.Translations {
		var opts []schema.TranslationOption
		if t.Singular != "" {
			opts = append(opts, schema.Singular(t.Singular))
		}
		if t.Plural != "" {
			opts = append(opts, schema.Plural(t.Plural))
		}
		c.Translation(t.Language, t.Translation, opts...)
	}
	if meta.Icon != "" {
		c.Icon(meta.Icon)
	}
	if meta.Note != "" {
		c.Note(meta.Note)
	}
	if meta.Color != "" {
		c.Color(meta.Color)
	}
	if meta.DisplayTemplate != "" {
		c.DisplayTemplate(meta.DisplayTemplate)
	}
	return nil
}

func archiveOptions(node *ArchiveNode) ([]schema.ArchiveOption, error) {
	if node.Field == "" {
		return nil, fmt.Errorf("archive: field is required")
	}

	var opts []schema.ArchiveOption
	if !isAbsent(&node.Value) {
		v, err := optionalString(&node.Value)
		if err != nil {
			return nil, fmt.Errorf("archive value: %w", err)
		}
		opts = append(opts, schema.ArchiveValue(v))
	}
	if !isAbsent(&node.Unarchive) {
		v, err := optionalString(&node.Unarchive)
		if err != nil {
			return nil, fmt.Errorf("unarchive value: %w", err)
		}
		opts = append(opts, schema.UnarchiveValue(v))
	}
	if node.AppFilter != nil {
		opts = append(opts, schema.ArchiveAppFilter(*node.AppFilter))
	}
	return opts, nil
}

// isAbsent reports whether the key was missing from the document
func isAbsent(n *yaml.Node) bool {
	return n.Kind == 0
}

func optionalString(n *yaml.Node) (schema.Optional[string], error) {
	if n.Kind != yaml.ScalarNode {
		return schema.Optional[string]{}, fmt.Errorf("expected a string or null")
	}
	if n.ShortTag() == "!!null" {
		return schema.Null[string](), nil
	}
	return schema.Some(n.Value), nil
}
