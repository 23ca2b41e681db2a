package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "collection not found",
		Problem:      "artcles",
		Details:      []string{"posts.id: primary key must not be nullable\n  hint: call NotNullable()"},
		Suggestions:  []string{"articles"},
		HelpCommands: []string{"List collections: collections inspect"},
		NoColor:      true,
	})

	assert.Contains(t, out, "✗ COLLECTION NOT FOUND: artcles")
	assert.Contains(t, out, "   posts.id: primary key must not be nullable\n     hint: call NotNullable()")
	assert.Contains(t, out, "Did you mean: articles?")
	assert.Contains(t, out, "→ List collections: collections inspect")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: "relation cycle: a -> b -> a",
		NoColor: true,
	})
	assert.Equal(t, "i relation cycle: a -> b -> a\n", buf.String())
}

func TestFormatLevels(t *testing.T) {
	assert.True(t, strings.HasPrefix(Warning("careful", true), "! careful"))
	assert.Equal(t, "✓ done", FormatSuccess("done", true))

	out := ValidationFailed([]string{"a", "b"}, true)
	assert.Contains(t, out, "VALIDATION FAILED: 2 problem(s) found")

	var buf bytes.Buffer
	WriteSuccess(&buf, "rendered", true)
	assert.Equal(t, "✓ rendered\n", buf.String())
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"articles", "authors", "comments", "Article_tags"}

	assert.Equal(t, []string{"articles"}, FindSimilar("artcles", candidates))
	assert.Equal(t, []string{"comments"}, FindSimilar("COMMENT", candidates))
	assert.Empty(t, FindSimilar("zzzzzzzz", candidates))
	assert.Empty(t, FindSimilar("articles", nil))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"posts", "posts", 0},
		{"größe", "grosse", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%s -> %s", tt.a, tt.b)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Field", "Type"}, true)
	table.AddRow("id", "integer")
	table.AddRow("title", "string")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Field  Type",
		"─────  ───────",
		"id     integer",
		"title  string",
	}, lines)
}

func TestTableEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, true).Render()
	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	s := NewSection(&buf, "Dependency order", true)
	s.AddLine("1. authors")
	s.AddLine("2. posts")
	s.Render()

	assert.Equal(t, "Dependency order\n  1. authors\n  2. posts\n\n", buf.String())
}
