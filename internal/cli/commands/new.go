package commands

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/conduit-lang/collections/internal/cli/ui"
	"github.com/conduit-lang/collections/internal/orm/schema"
	strutil "github.com/conduit-lang/collections/internal/util/strings"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	newInteractive bool
	newFile        string
	newPrimaryKey  string
	newIcon        string
	newSort        bool
	newArchive     bool
	newStamps      []string
)

// Stamp kinds the scaffold can add, in the order they are declared
var stampKinds = []string{"user_created", "date_created", "user_updated", "date_updated"}

var collectionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// scaffold holds the values rendered into the declaration templates
type scaffold struct {
	Name         string
	Title        string
	Project      string
	Declarations string
	PrimaryKey   string
	Icon         string
	Sort         bool
	Archive      bool
	Stamps       []string
}

// validateCollectionName checks that name can be used as a collection name
func validateCollectionName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 64 {
		return fmt.Errorf("collection name must be 1-64 characters")
	}

	if schema.IsSystemCollection(name) {
		return fmt.Errorf("collection name cannot use the reserved directus_ prefix")
	}

	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("collection name must start with a lowercase letter and contain only lowercase letters, numbers, and underscores")
	}

	return nil
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [collection]",
		Short: "Scaffold a declaration file",
		Long: `Create a declaration file with one collection and a collections.yml
pointing at it.

If no collection name is provided, you will be prompted for one. Names are
converted to snake_case (BlogPosts becomes blog_posts).

Examples:
  collections new articles
  collections new BlogPosts --icon article
  collections new articles --primary-key uuid --sort --stamp user_created,date_created
  collections new --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	cmd.Flags().BoolVarP(&newInteractive, "interactive", "i", false, "Interactive setup with prompts")
	cmd.Flags().StringVarP(&newFile, "file", "f", "collections.schema.yaml", "Declaration file to create")
	cmd.Flags().StringVar(&newPrimaryKey, "primary-key", "integer", "Primary key type (integer, uuid)")
	cmd.Flags().StringVar(&newIcon, "icon", "box", "Collection icon")
	cmd.Flags().BoolVar(&newSort, "sort", false, "Add a manual sort field")
	cmd.Flags().BoolVar(&newArchive, "archive", false, "Add a status field used for archiving")
	cmd.Flags().StringSliceVar(&newStamps, "stamp", nil, "Accountability fields ("+strings.Join(stampKinds, ", ")+")")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	s := &scaffold{
		Name:         argOrEmpty(args),
		Declarations: newFile,
		PrimaryKey:   newPrimaryKey,
		Icon:         newIcon,
		Sort:         newSort,
		Archive:      newArchive,
		Stamps:       newStamps,
	}

	if s.Name == "" || newInteractive {
		if err := askScaffold(s); err != nil {
			return err
		}
	}

	s.Name = strutil.ToSnakeCase(s.Name)
	if err := validateScaffold(s); err != nil {
		return err
	}
	s.Title = strutil.Humanize(s.Name)

	if _, err := os.Stat(s.Declarations); err == nil {
		return fmt.Errorf("file %s already exists", s.Declarations)
	}

	if cwd, err := os.Getwd(); err == nil {
		s.Project = filepath.Base(cwd)
	}

	out := cmd.OutOrStdout()
	if err := writeTemplate("templates/collections.schema.yaml.tmpl", s.Declarations, s); err != nil {
		return err
	}
	ui.WriteSuccess(out, "Created "+s.Declarations, noColor)

	if _, err := os.Stat("collections.yml"); os.IsNotExist(err) {
		if err := writeTemplate("templates/collections.yml.tmpl", "collections.yml", s); err != nil {
			return err
		}
		ui.WriteSuccess(out, "Created collections.yml", noColor)
	}

	infoColor := color.New(color.FgCyan)
	if noColor {
		infoColor.DisableColor()
	}
	fmt.Fprintln(out)
	infoColor.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  collections inspect %s\n", s.Name)
	fmt.Fprintln(out, "  collections render")
	return nil
}

func askScaffold(s *scaffold) error {
	if s.Name == "" {
		prompt := &survey.Input{
			Message: "Collection name:",
		}
		validate := func(ans interface{}) error {
			return validateCollectionName(strutil.ToSnakeCase(fmt.Sprint(ans)))
		}
		if err := survey.AskOne(prompt, &s.Name, survey.WithValidator(survey.ComposeValidators(survey.Required, validate))); err != nil {
			return err
		}
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Primary key type:",
		Options: []string{"integer", "uuid"},
		Default: s.PrimaryKey,
	}, &s.PrimaryKey); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Add a manual sort field?",
		Default: s.Sort,
	}, &s.Sort); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Add a status field for archiving?",
		Default: s.Archive,
	}, &s.Archive); err != nil {
		return err
	}

	return survey.AskOne(&survey.MultiSelect{
		Message: "Accountability fields:",
		Options: stampKinds,
		Default: s.Stamps,
	}, &s.Stamps)
}

func validateScaffold(s *scaffold) error {
	if err := validateCollectionName(s.Name); err != nil {
		return err
	}

	if s.PrimaryKey != "integer" && s.PrimaryKey != "uuid" {
		return fmt.Errorf("unsupported primary key type: %s (use integer or uuid)", s.PrimaryKey)
	}

	for _, stamp := range s.Stamps {
		if !contains(stampKinds, stamp) {
			suggestions := ui.FindSimilar(stamp, stampKinds)
			if len(suggestions) > 0 {
				return fmt.Errorf("unknown stamp %q, did you mean %s?", stamp, suggestions[0])
			}
			return fmt.Errorf("unknown stamp %q", stamp)
		}
	}
	return nil
}

func writeTemplate(name, path string, data any) error {
	tmpl, err := template.ParseFS(templatesFS, name)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
