package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/conduit-lang/collections/internal/cli/config"
	"github.com/conduit-lang/collections/internal/orm/declare"
	"github.com/conduit-lang/collections/internal/orm/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "collections",
		Short: "Code-first collection schemas for headless CMS backends",
		Long: color.CyanString(`Collections - code-first schema definitions

Declare collections, fields and relations once and render them as the
collection, field and relation documents a headless CMS backend consumes.

Commands:
  • render    write the JSON snapshot of every declared collection
  • validate  check declarations for dangling references
  • inspect   list collections, fields and dependency order
  • new       scaffold a declaration file`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default collections.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log registry activity")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewNewCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the collections version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(out, "Collections version: ")
			fmt.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// project is the loaded state every schema command works on
type project struct {
	config   *config.Config
	registry *schema.Registry
	logger   *zap.Logger
}

func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// loadProject reads the config and compiles the declarations file into a fresh
// registry. A non-empty path overrides the configured declarations file.
func loadProject(path string) (*project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.NoColor {
		noColor = true
		color.NoColor = true
	}
	if path == "" {
		path = cfg.Resolve(cfg.Declarations)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open declarations: %w", err)
	}
	defer f.Close()

	registry := schema.NewRegistry(schema.WithLogger(logger))
	if err := declare.NewLoader(registry, logger).Load(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("declarations loaded",
		zap.String("path", path),
		zap.Int("collections", registry.Count()),
		zap.Int("relations", len(registry.Relations())))

	return &project{config: cfg, registry: registry, logger: logger}, nil
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
