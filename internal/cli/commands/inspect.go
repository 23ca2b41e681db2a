package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conduit-lang/collections/internal/cli/ui"
	"github.com/conduit-lang/collections/internal/orm/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectDeclarations string

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [collection]",
		Short: "Show declared collections and fields",
		Long: `Without arguments, list every collection with its field count, primary key
and relations, followed by the dependency order.

With a collection name, list that collection's fields.

Examples:
  collections inspect
  collections inspect articles
  collections inspect articles -f schema/blog.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().StringVarP(&inspectDeclarations, "file", "f", "", "Declarations file (default from config)")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := loadProject(inspectDeclarations)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if p.config.ProjectName != "" {
			title := color.New(color.Bold)
			if noColor {
				title.DisableColor()
			}
			title.Fprintf(out, "Project: %s\n\n", p.config.ProjectName)
		}
		return inspectRegistry(out, p.registry)
	}

	name := args[0]
	c, ok := p.registry.Get(name)
	if !ok {
		fmt.Fprint(cmd.ErrOrStderr(), ui.CollectionNotFoundError(name, ui.FindSimilar(name, p.registry.List()), noColor))
		return fmt.Errorf("collection %s not found", name)
	}
	inspectCollection(out, c)
	return nil
}

func inspectRegistry(w io.Writer, registry *schema.Registry) error {
	table := ui.NewTable(w, []string{"Collection", "Fields", "Primary key", "Relations"}, noColor)
	for _, c := range registry.All() {
		var keys []string
		for _, k := range c.PrimaryKeys() {
			keys = append(keys, k.Name())
		}
		table.AddRow(
			c.Name(),
			strconv.Itoa(len(c.Fields())),
			orDash(strings.Join(keys, ", ")),
			strconv.Itoa(len(registry.RelationsFor(c.Name()))),
		)
	}
	table.Render()
	fmt.Fprintln(w)

	section := ui.NewSection(w, "Dependency order", noColor)
	order, err := registry.DependencyOrder()
	if err != nil {
		for _, cycle := range registry.DetectCycles() {
			section.AddLine("cycle: " + strings.Join(append(cycle, cycle[0]), " -> "))
		}
	} else {
		for i, name := range order {
			section.AddLine(fmt.Sprintf("%d. %s", i+1, name))
		}
	}
	section.Render()

	stats := registry.GetStats()
	fmt.Fprintf(w, "%d collections, %d fields, %d relations (%d to system collections, %d unresolved)\n",
		stats.TotalCollections, stats.TotalFields, stats.TotalRelations, stats.SystemRelations, stats.UnresolvedRelations)
	return nil
}

func inspectCollection(w io.Writer, c *schema.Collection) {
	table := ui.NewTable(w, []string{"Field", "Type", "Key", "Nullable", "Special", "Related"}, noColor)
	for _, f := range c.Fields() {
		key := ""
		if f.IsPrimaryKey() {
			key = "PK"
		}
		nullable := "yes"
		if !f.IsNullable() {
			nullable = "no"
		}
		specials := make([]string, 0, len(f.Specials()))
		for _, s := range f.Specials() {
			specials = append(specials, string(s))
		}
		related, _ := f.RelatedCollection()

		table.AddRow(
			f.Name(),
			string(f.Type()),
			orDash(key),
			nullable,
			orDash(strings.Join(specials, ",")),
			orDash(related),
		)
	}
	table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
