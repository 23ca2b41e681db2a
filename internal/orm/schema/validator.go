// Package schema provides optional consistency checks for collections
package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error with context
type ValidationError struct {
	Collection string
	Field      string
	Message    string
	Hint       string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Collection != "" {
		b.WriteString(e.Collection)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// ValidationErrors aggregates every problem found in one validation run
type ValidationErrors []*ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("schema validation failed with %d errors:\n%s", len(e), strings.Join(msgs, "\n"))
}

// SchemaValidator checks collections for references and flags that the compiler
// records without checking
type SchemaValidator struct {
	errors ValidationErrors
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate checks the collections and the relations they declared.
// It returns ValidationErrors or nil.
func (v *SchemaValidator) Validate(collections []*Collection, relations []*Relation) error {
	v.errors = nil

	byName := make(map[string]*Collection, len(collections))
	for _, c := range collections {
		byName[c.name] = c
		v.validateCollection(c)
	}

	for _, rel := range relations {
		v.validateRelation(rel, byName)
	}

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// ValidateCollection checks a single collection without cross-collection checks
func (v *SchemaValidator) ValidateCollection(c *Collection) error {
	v.errors = nil
	v.validateCollection(c)
	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *SchemaValidator) addError(collection, field, message, hint string) {
	v.errors = append(v.errors, &ValidationError{
		Collection: collection,
		Field:      field,
		Message:    message,
		Hint:       hint,
	})
}

func (v *SchemaValidator) validateCollection(c *Collection) {
	if c.name == "" {
		v.addError("", "", "collection name must not be empty", "")
	}

	v.validateFields(c)
	v.validatePrimaryKey(c)
	v.validateMeta(c)
}

func (v *SchemaValidator) validateFields(c *Collection) {
	seen := make(map[string]bool, len(c.fields))
	for _, f := range c.fields {
		if f.name == "" {
			v.addError(c.name, "", "field name must not be empty", "")
			continue
		}
		if seen[f.name] {
			v.addError(c.name, f.name, "field is declared more than once",
				"remove the duplicate declaration or rename one of the fields")
		}
		seen[f.name] = true
	}
}

func (v *SchemaValidator) validatePrimaryKey(c *Collection) {
	keys := c.PrimaryKeys()
	if len(keys) > 1 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.name)
		}
		v.addError(c.name, "", fmt.Sprintf("collection has %d primary keys (%s)", len(keys), strings.Join(names, ", ")),
			"declare exactly one primary key per collection")
	}

	for _, k := range keys {
		if k.IsNullable() {
			v.addError(c.name, k.name, "primary key must not be nullable",
				"call NotNullable() or declare the key with PrimaryKey()")
		}
	}
}

func (v *SchemaValidator) validateMeta(c *Collection) {
	if field, ok := c.meta.SortField.Get(); ok && !c.HasField(field) {
		v.addError(c.name, field, "sort field is not declared",
			fmt.Sprintf("declare an integer field named %q", field))
	}

	if field, ok := c.meta.ArchiveField.Get(); ok && !c.HasField(field) {
		v.addError(c.name, field, "archive field is not declared",
			fmt.Sprintf("declare a field named %q", field))
	}

	if mode, ok := c.meta.Accountability.Get(); ok && mode != "all" && mode != "activity" {
		v.addError(c.name, "", fmt.Sprintf("unknown accountability mode %q", mode),
			`use "all", "activity" or null`)
	}
}

func (v *SchemaValidator) validateRelation(rel *Relation, collections map[string]*Collection) {
	source, ok := collections[rel.Collection]
	if !ok {
		v.addError(rel.Collection, rel.Field, "relation declared by an unknown collection", "")
		return
	}
	if !source.HasField(rel.Field) {
		v.addError(rel.Collection, rel.Field, "relation field is not declared",
			fmt.Sprintf("declare a field named %q before relating it", rel.Field))
	}
}
