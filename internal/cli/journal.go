package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// JournalAddOptions holds flags for the journal add command.
type JournalAddOptions struct {
	*RootOptions
	ID         string
	At         string
	Category   string
	Interest   string
	Score      int
	Incomplete bool
}

// NewJournalCommand creates the journal command group.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record journal sessions",
	}
	cmd.AddCommand(newJournalAddCommand(rootOpts))
	return cmd
}

func newJournalAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal session",
		Long: `Add a journal session. A completed session with --interest and --score
pushes the score into that interest's seven-score window.

Examples:
  horizon journal add --category evening --interest reading --score 7
  horizon journal add --category morning`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "session id (default: generated)")
	cmd.Flags().StringVar(&opts.At, "at", "", "session time (RFC 3339 or YYYY-MM-DD, default now)")
	cmd.Flags().StringVar(&opts.Category, "category", string(record.SessionEvening), "baseline|morning|evening")
	cmd.Flags().StringVar(&opts.Interest, "interest", "", "tracked interest id")
	cmd.Flags().IntVar(&opts.Score, "score", -1, "self-rated progress score")
	cmd.Flags().BoolVar(&opts.Incomplete, "incomplete", false, "record an unfinished session")

	return cmd
}

// JournalResult is the output of journal add.
type JournalResult struct {
	Session record.JournalSession `json:"session"`
}

func (r JournalResult) String() string {
	return fmt.Sprintf("Recorded %s session %s", r.Session.Category, r.Session.ID)
}

func runJournalAdd(opts *JournalAddOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	category := record.SessionCategory(opts.Category)
	if !category.Valid() {
		return outputCommandError(formatter, ErrCodeBadInput, fmt.Errorf("invalid category %q", opts.Category))
	}
	loc, err := opts.Config.Location()
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err)
	}
	at, err := opts.parseWhen(opts.At, loc)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err)
	}

	js := record.JournalSession{
		ID:         opts.ID,
		Date:       at,
		Category:   category,
		InterestID: opts.Interest,
		Completed:  !opts.Incomplete,
	}
	if cmd.Flags().Changed("score") {
		score := opts.Score
		js.ProgressScore = &score
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	saved, err := st.AddJournalSession(cmd.Context(), js)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	return formatter.Success(JournalResult{Session: saved})
}
