package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conduit-lang/collections/internal/cli/ui"
	"github.com/spf13/cobra"
)

var (
	renderOutput     string
	renderCollection string
)

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [declarations]",
		Short: "Render declared collections as JSON",
		Long: `Compile the declarations file and write the collection documents and the
relation log as one JSON snapshot.

The snapshot is written to stdout unless --output or output.path is set.

Examples:
  collections render
  collections render schema/blog.yaml -o build/schema.json
  collections render --collection articles`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}

	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the snapshot to this file")
	cmd.Flags().StringVar(&renderCollection, "collection", "", "Render a single collection")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := loadProject(argOrEmpty(args))
	if err != nil {
		return err
	}

	var doc any = p.registry.Snapshot()
	if renderCollection != "" {
		c, ok := p.registry.Get(renderCollection)
		if !ok {
			fmt.Fprint(cmd.ErrOrStderr(), ui.CollectionNotFoundError(renderCollection,
				ui.FindSimilar(renderCollection, p.registry.List()), noColor))
			return fmt.Errorf("collection %s not found", renderCollection)
		}
		doc = c.Render()
	}

	data, err := marshalIndent(doc, p.config.Output.Indent)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := renderOutput
	if path == "" {
		path = p.config.Resolve(p.config.Output.Path)
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	ui.WriteSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Rendered %d collections to %s", p.registry.Count(), path), noColor)
	return nil
}

func marshalIndent(v any, indent int) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent == 0 {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
