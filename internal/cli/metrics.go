package cli

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
)

// MetricsOptions holds flags for the metrics command.
type MetricsOptions struct {
	*RootOptions
	Now    string
	DryRun bool
}

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MetricsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Evaluate streaks, consistency, progress and milestones",
		Long: `Evaluate the stored records and print the derived metrics.

Newly unlocked milestones and level-ups are persisted unless --dry-run is
given, so running the command twice reports each milestone once.

Exit codes:
  0 - Evaluated
  1 - Evaluation failed (e.g. clock skew)
  2 - Command error (bad config, database not found)

Examples:
  horizon metrics
  horizon metrics --now 2024-07-03T20:00:00Z --dry-run --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Now, "now", "", "evaluation time (RFC 3339 or YYYY-MM-DD, default now)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "do not persist unlocks and level-ups")

	return cmd
}

// MetricsResult wraps an evaluation for text output.
type MetricsResult struct {
	*engine.Result
	Persisted bool `json:"persisted"`
}

func (r MetricsResult) String() string {
	m := r.Metrics
	var b strings.Builder
	fmt.Fprintf(&b, "Today:               %s\n", m.Today)
	fmt.Fprintf(&b, "Current streak:      %d (grace %d)\n", m.CurrentStreak, m.GraceStreak)
	fmt.Fprintf(&b, "Longest streak:      %d\n", m.LongestStreak)
	fmt.Fprintf(&b, "Active days:         %d\n", m.TotalEvents)
	fmt.Fprintf(&b, "Active goals:        %d\n", m.ActiveGoals)
	fmt.Fprintf(&b, "Consistency:         %.0f%%\n", m.Consistency*100)
	fmt.Fprintf(&b, "Journal consistency: %.0f%%\n", m.JournalConsistency*100)
	fmt.Fprintf(&b, "Time progress:       %.0f%%\n", m.AggregateTimeProgress*100)

	ids := slices.Sorted(maps.Keys(m.PerGoalProgress))
	for _, id := range ids {
		fmt.Fprintf(&b, "  %-18s %.0f%%\n", id, m.PerGoalProgress[id]*100)
	}

	if len(r.NewlyUnlocked) > 0 {
		fmt.Fprintf(&b, "Unlocked:            %s\n", strings.Join(r.NewlyUnlocked, ", "))
	}
	for _, up := range r.LevelUps {
		fmt.Fprintf(&b, "Level up:            %s %d -> %d\n", up.InterestID, up.From, up.To)
	}
	return strings.TrimRight(b.String(), "\n")
}

func runMetrics(opts *MetricsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, err := newEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	at, err := opts.parseWhen(opts.Now, eng.Config().Location)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	in, err := st.Snapshot(cmd.Context())
	if err != nil {
		return outputStoreError(formatter, err)
	}
	formatter.VerboseLog("loaded %d events, %d goals, %d journal sessions", len(in.Events), len(in.Goals), len(in.Journal))

	res, err := eng.Evaluate(at, in)
	if err != nil {
		return outputEngineError(formatter, err)
	}

	out := MetricsResult{Result: res}
	if !opts.DryRun {
		if err := st.Persist(cmd.Context(), res); err != nil {
			return outputStoreError(formatter, err)
		}
		out.Persisted = true
		slog.Info("evaluation persisted", "unlocked", len(res.Unlocks), "level_ups", len(res.LevelUps))
	}

	return formatter.Success(out)
}
