package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/store"
)

// GoalAddOptions holds flags for the goal add command.
type GoalAddOptions struct {
	*RootOptions
	ID       string
	Target   string
	Created  string
	Category string
	Primary  bool
}

// NewGoalCommand creates the goal command group.
func NewGoalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(newGoalAddCommand(rootOpts))
	cmd.AddCommand(newGoalArchiveCommand(rootOpts))
	return cmd
}

func newGoalAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GoalAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Long: `Add a goal. A goal with a target date reports time progress: the
elapsed fraction of the span from creation to target.

Examples:
  horizon goal add "Run a marathon" --target 2024-10-01
  horizon goal add "Read more" --category upcoming`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "goal id (default: generated)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target date (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Created, "created", "", "creation time (default now)")
	cmd.Flags().StringVar(&opts.Category, "category", string(record.GoalActive), "active|upcoming|completed")
	cmd.Flags().BoolVar(&opts.Primary, "primary", false, "mark as the primary goal")

	return cmd
}

// GoalResult is the output of goal commands.
type GoalResult struct {
	Goal record.Goal `json:"goal"`
}

func (r GoalResult) String() string {
	return fmt.Sprintf("Added goal %s (%s)", r.Goal.ID, r.Goal.Title)
}

func runGoalAdd(opts *GoalAddOptions, title string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loc, err := opts.Config.Location()
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	created, err := opts.parseWhen(opts.Created, loc)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err)
	}
	g := record.Goal{
		ID:        opts.ID,
		Title:     title,
		CreatedAt: created,
		Category:  record.GoalCategory(opts.Category),
		IsPrimary: opts.Primary,
	}
	if opts.Target != "" {
		target, err := opts.parseWhen(opts.Target, loc)
		if err != nil {
			return outputCommandError(formatter, ErrCodeBadInput, err)
		}
		g.TargetDate = &target
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	saved, err := st.AddGoal(cmd.Context(), g)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	return formatter.Success(GoalResult{Goal: saved})
}

func newGoalArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a goal",
		Long: `Archive a goal. Archived goals stop counting as active and drop out of
time progress, but their streak history is still reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.ArchiveGoal(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					formatter.Error(ErrCodeNotFound, fmt.Sprintf("goal %q not found", args[0]), nil)
					return NewExitError(ExitFailure, fmt.Sprintf("goal %q not found", args[0]))
				}
				return outputStoreError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("Archived goal %s", args[0]))
		},
	}
}
