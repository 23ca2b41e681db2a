package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogDeclarations = `collections:
  - name: authors
    fields:
      - {name: id, kind: primary_key, type: integer}
      - {name: name, kind: string}
  - name: articles
    meta: {sort: sort}
    fields:
      - {name: id, kind: primary_key, type: integer}
      - {name: sort, kind: integer}
      - {name: author, kind: integer, relation: authors, on_delete: CASCADE}
      - {name: cover, kind: image}
`

// setupProject writes the declarations to a temp dir and changes into it
func setupProject(t *testing.T, declarations string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	if declarations != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "collections.schema.yaml"), []byte(declarations), 0644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "collections", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "render", "validate", "inspect", "new"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	GoVersion = "go1.24"

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Collections version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Go version: go1.24")
}

func TestRender(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		out, _, err := execute(t, "render")
		require.NoError(t, err)

		var snap struct {
			Collections []struct {
				Collection string            `json:"collection"`
				Fields     []json.RawMessage `json:"fields"`
			} `json:"collections"`
			Relations []map[string]any `json:"relations"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &snap))
		require.Len(t, snap.Collections, 2)
		assert.Equal(t, "authors", snap.Collections[0].Collection)
		assert.Equal(t, "articles", snap.Collections[1].Collection)
		assert.Len(t, snap.Collections[1].Fields, 4)

		require.Len(t, snap.Relations, 2)
		assert.Equal(t, "authors", snap.Relations[0]["related_collection"])
		assert.Equal(t, map[string]any{"on_delete": "CASCADE"}, snap.Relations[0]["schema"])
		assert.Equal(t, "directus_files", snap.Relations[1]["related_collection"])
	})

	t.Run("single collection to file", func(t *testing.T) {
		dir := setupProject(t, blogDeclarations)
		path := filepath.Join(dir, "build", "authors.json")

		_, stderr, err := execute(t, "render", "--collection", "authors", "-o", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "✓ Rendered 2 collections to "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"collection": "authors",
			"schema": {},
			"meta": {},
			"fields": [
				{"field": "id", "type": "integer", "schema": {"is_nullable": false, "is_primary_key": true, "has_auto_increment": true}, "meta": {}},
				{"field": "name", "type": "string", "schema": {"max_length": 255}, "meta": {}}
			]
		}`, string(data))
	})

	t.Run("unknown collection suggests", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		_, stderr, err := execute(t, "render", "--collection", "artcles")
		require.Error(t, err)
		assert.Contains(t, stderr, "Did you mean: articles?")
	})

	t.Run("missing declarations", func(t *testing.T) {
		setupProject(t, "")

		_, _, err := execute(t, "render")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open declarations")
	})

	t.Run("declaration errors", func(t *testing.T) {
		setupProject(t, "collections:\n  - name: posts\n    fields:\n      - {name: body, kind: markdown}\n")

		_, _, err := execute(t, "render")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown field kind: "markdown"`)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		out, _, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ 2 collections, 2 relations valid")
	})

	t.Run("problems", func(t *testing.T) {
		setupProject(t, `collections:
  - name: posts
    meta: {sort: position}
    fields:
      - {name: id, kind: primary_key, type: integer}
      - {name: uuid, kind: primary_key, type: uuid}
`)

		out, _, err := execute(t, "validate")
		require.Error(t, err)
		assert.Contains(t, out, "VALIDATION FAILED: 2 problem(s) found")
		assert.Contains(t, out, "posts: collection has 2 primary keys (id, uuid)")
		assert.Contains(t, out, "posts.position: sort field is not declared")
	})

	cyclic := `collections:
  - name: authors
    fields:
      - {name: favorite, kind: integer, relation: books}
  - name: books
    fields:
      - {name: author, kind: integer, relation: authors}
`

	t.Run("cycles warn", func(t *testing.T) {
		setupProject(t, cyclic)

		out, _, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "! relation cycle: authors -> books -> authors")
	})

	t.Run("cycles fail when strict", func(t *testing.T) {
		setupProject(t, cyclic)

		out, _, err := execute(t, "validate", "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 relation cycles")
		assert.Contains(t, out, "✗ relation cycle: authors -> books -> authors")
	})
}

func TestInspect(t *testing.T) {
	t.Run("registry", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		out, _, err := execute(t, "inspect")
		require.NoError(t, err)
		assert.Contains(t, out, "Collection")
		assert.Contains(t, out, "Dependency order\n  1. authors\n  2. articles\n")
		assert.Contains(t, out, "2 collections, 6 fields, 2 relations (1 to system collections, 0 unresolved)")
	})

	t.Run("collection", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		out, _, err := execute(t, "inspect", "articles")
		require.NoError(t, err)
		assert.Regexp(t, `id\s+integer\s+PK\s+no\s+-\s+-`, out)
		assert.Regexp(t, `author\s+integer\s+-\s+yes\s+-\s+authors`, out)
		assert.Regexp(t, `cover\s+uuid\s+-\s+yes\s+file\s+directus_files`, out)
	})

	t.Run("project from subdirectory", func(t *testing.T) {
		dir := setupProject(t, "")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "schema", "drafts"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "schema", "blog.yaml"), []byte(blogDeclarations), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "collections.yml"),
			[]byte("project_name: blog\ndeclarations: schema/blog.yaml\n"), 0644))
		t.Chdir(filepath.Join(dir, "schema", "drafts"))

		out, _, err := execute(t, "inspect")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Project: blog\n\n"), out)
		assert.Contains(t, out, "2 collections, 6 fields")
	})

	t.Run("unknown collection", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		_, stderr, err := execute(t, "inspect", "author")
		require.Error(t, err)
		assert.Contains(t, stderr, "COLLECTION NOT FOUND: author")
		assert.Contains(t, stderr, "Did you mean: authors?")
	})
}

func TestNew(t *testing.T) {
	t.Run("scaffold renders", func(t *testing.T) {
		dir := setupProject(t, "")

		out, _, err := execute(t, "new", "BlogArticles",
			"--primary-key", "uuid", "--sort", "--archive", "--stamp", "user_created,date_created")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ Created collections.schema.yaml")
		assert.Contains(t, out, "✓ Created collections.yml")

		_, _, err = execute(t, "validate")
		require.NoError(t, err)

		_, _, err = execute(t, "render")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "build", "schema.json"))
		require.NoError(t, err)

		var snap struct {
			Collections []struct {
				Collection string         `json:"collection"`
				Meta       map[string]any `json:"meta"`
				Fields     []struct {
					Field string `json:"field"`
				} `json:"fields"`
			} `json:"collections"`
		}
		require.NoError(t, json.Unmarshal(data, &snap))
		require.Len(t, snap.Collections, 1)

		c := snap.Collections[0]
		assert.Equal(t, "blog_articles", c.Collection)
		assert.Equal(t, []any{map[string]any{"language": "en-US", "translation": "Blog Articles"}}, c.Meta["translations"])
		assert.Equal(t, "sort", c.Meta["sort_field"])
		assert.Equal(t, "status", c.Meta["archive_field"])
		assert.Equal(t, "archived", c.Meta["archive_value"])

		var fields []string
		for _, f := range c.Fields {
			fields = append(fields, f.Field)
		}
		assert.Equal(t, []string{"id", "status", "sort", "user_created", "date_created"}, fields)
	})

	t.Run("existing file", func(t *testing.T) {
		setupProject(t, blogDeclarations)

		_, _, err := execute(t, "new", "articles")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("unknown stamp", func(t *testing.T) {
		setupProject(t, "")

		_, _, err := execute(t, "new", "articles", "--stamp", "user_create")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did you mean user_created?")
	})
}

func TestValidateCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		errorMsg string
	}{
		{name: "valid", input: "articles"},
		{name: "valid with digits and underscores", input: "blog_posts_2"},
		{name: "empty", input: "  ", errorMsg: "must be 1-64 characters"},
		{name: "system prefix", input: "directus_users", errorMsg: "reserved directus_ prefix"},
		{name: "uppercase", input: "Articles", errorMsg: "must start with a lowercase letter"},
		{name: "leading digit", input: "2posts", errorMsg: "must start with a lowercase letter"},
		{name: "path", input: "../posts", errorMsg: "must start with a lowercase letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCollectionName(tt.input)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
