package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conduit-lang/collections/internal/cli/ui"
	"github.com/conduit-lang/collections/internal/orm/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateStrict bool

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [declarations]",
		Short: "Check declarations for dangling references",
		Long: `Compile the declarations file and check it for problems the compiler
records without rejecting: duplicate fields, several or nullable primary keys,
sort and archive fields that are not declared, unknown accountability modes and
relations on undeclared fields.

Relation cycles are reported as warnings, or as errors with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat relation cycles as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := loadProject(argOrEmpty(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if err := p.registry.Validate(); err != nil {
		var verrs schema.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		problems := make([]string, 0, len(verrs))
		for _, v := range verrs {
			problems = append(problems, v.Error())
		}
		fmt.Fprint(out, ui.ValidationFailed(problems, noColor))
		return fmt.Errorf("%d validation errors", len(verrs))
	}

	if cycles := p.registry.DetectCycles(); len(cycles) > 0 {
		p.logger.Debug("relation cycles found", zap.Int("cycles", len(cycles)))
		for _, cycle := range cycles {
			msg := "relation cycle: " + strings.Join(append(cycle, cycle[0]), " -> ")
			if validateStrict {
				ui.WriteError(out, ui.ErrorOptions{Problem: msg, NoColor: noColor})
			} else {
				fmt.Fprint(out, ui.Warning(msg, noColor))
			}
		}
		if validateStrict {
			return fmt.Errorf("%d relation cycles", len(cycles))
		}
	}

	ui.WriteSuccess(out, fmt.Sprintf("%d collections, %d relations valid",
		p.registry.Count(), len(p.registry.Relations())), noColor)
	return nil
}
