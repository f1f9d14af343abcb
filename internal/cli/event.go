package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// EventAddOptions holds flags for the event add command.
type EventAddOptions struct {
	*RootOptions
	ID      string
	At      string
	Goals   []string
	Skipped bool
}

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record alignment events",
	}
	cmd.AddCommand(newEventAddCommand(rootOpts))
	return cmd
}

func newEventAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an alignment event",
		Long: `Append an alignment event to the log.

Adding the same event twice (same id, or same time, completion flag and
goals) is a no-op.

Examples:
  horizon event add
  horizon event add --at 2024-07-03T09:00:00Z --goal g1 --goal g2
  horizon event add --skipped`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "event id (default: generated)")
	cmd.Flags().StringVar(&opts.At, "at", "", "when it happened (RFC 3339 or YYYY-MM-DD, default now)")
	cmd.Flags().StringArrayVar(&opts.Goals, "goal", nil, "goal id the event contributes to (repeatable)")
	cmd.Flags().BoolVar(&opts.Skipped, "skipped", false, "record a skipped (not completed) event")

	return cmd
}

// EventAddResult is the output of event add.
type EventAddResult struct {
	Event    record.AlignmentEvent `json:"event"`
	Inserted bool                  `json:"inserted"`
}

func (r EventAddResult) String() string {
	if !r.Inserted {
		return fmt.Sprintf("Event %s already recorded", r.Event.ID)
	}
	return fmt.Sprintf("Recorded event %s at %s", r.Event.ID, record.FormatTime(r.Event.OccurredAt))
}

func runEventAdd(opts *EventAddOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loc, err := opts.Config.Location()
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	at, err := opts.parseWhen(opts.At, loc)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	saved, inserted, err := st.AddEvent(cmd.Context(), record.AlignmentEvent{
		ID:         opts.ID,
		OccurredAt: at,
		Completed:  !opts.Skipped,
		GoalIDs:    opts.Goals,
	})
	if err != nil {
		return outputStoreError(formatter, err)
	}
	formatter.VerboseLog("event %s inserted=%t", saved.ID, inserted)

	return formatter.Success(EventAddResult{Event: saved, Inserted: inserted})
}
