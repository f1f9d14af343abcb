package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
)

// CatalogValidationResult holds catalog validation results.
type CatalogValidationResult struct {
	Valid      bool                        `json:"valid"`
	Milestones int                         `json:"milestones"`
	Errors     []milestone.ValidationError `json:"errors,omitempty"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect milestone catalogs",
	}
	cmd.AddCommand(newCatalogValidateCommand(rootOpts))
	cmd.AddCommand(newCatalogListCommand(rootOpts))
	return cmd
}

func newCatalogValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file.cue]",
		Short: "Validate a milestone catalog",
		Long: `Compile a CUE milestone catalog and check it for empty ids, unknown
kinds, non-positive thresholds, duplicates and missing titles.

Without an argument the configured catalog (or the built-in one) is checked.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Config.Catalog
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalogValidate(rootOpts, path, cmd)
		},
	}
}

func runCatalogValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	rules := milestone.DefaultCatalog()
	if path != "" {
		formatter.VerboseLog("Compiling catalog %s", path)
		loaded, err := milestone.LoadCatalogFile(path)
		if err != nil {
			var cErr *milestone.CompileError
			if errors.As(err, &cErr) {
				return outputValidationErrors(formatter, []milestone.ValidationError{{
					Field:   cErr.Field,
					Message: cErr.Message,
					Code:    ErrCodeValidation,
				}})
			}
			var vErrs milestone.ValidationErrors
			if errors.As(err, &vErrs) {
				return outputValidationErrors(formatter, vErrs)
			}
			return outputCommandError(formatter, ErrCodeNotFound, err)
		}
		rules = loaded
	}

	if errs := milestone.Validate(rules); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	return formatter.Success(CatalogValidationResult{Valid: true, Milestones: len(rules)})
}

func (r CatalogValidationResult) String() string {
	return fmt.Sprintf("✓ Catalog valid (%d milestones)", r.Milestones)
}

// outputValidationErrors prints every validation error and returns exit 1.
func outputValidationErrors(formatter *OutputFormatter, errs []milestone.ValidationError) error {
	if formatter.Format == "json" {
		formatter.Error(ErrCodeValidation, fmt.Sprintf("%d validation error(s)", len(errs)), CatalogValidationResult{
			Valid:  false,
			Errors: errs,
		})
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "✗ Catalog invalid (%d error(s))\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(errs)))
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List milestones and their unlock state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			unlocked, err := st.Unlocked(cmd.Context())
			if err != nil {
				return outputStoreError(formatter, err)
			}
			return formatter.Success(MilestoneList{
				Rules:    eng.Catalog(),
				Unlocked: milestone.UnlockedSet(unlocked),
			})
		},
	}
}

// MilestoneList is the output of catalog list.
type MilestoneList struct {
	Rules    []milestone.Rule `json:"milestones"`
	Unlocked map[string]bool  `json:"unlocked"`
}

func (l MilestoneList) String() string {
	var b strings.Builder
	for i, r := range l.Rules {
		mark := " "
		if l.Unlocked[r.ID] {
			mark = "✓"
		}
		fmt.Fprintf(&b, "%s %-12s %-18s %s >= %d", mark, r.ID, r.Title, r.Kind, r.Threshold)
		if i < len(l.Rules)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
