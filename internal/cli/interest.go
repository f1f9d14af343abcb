package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/level"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// NewInterestCommand creates the interest command group.
func NewInterestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Manage tracked interests",
	}
	cmd.AddCommand(newInterestAddCommand(rootOpts))
	return cmd
}

func newInterestAddCommand(rootOpts *RootOptions) *cobra.Command {
	var id string
	var lvl int

	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add a tracked interest",
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

			saved, err := st.AddInterest(cmd.Context(), record.TrackedInterest{
				ID:           id,
				Name:         args[0],
				CurrentLevel: lvl,
			})
			if err != nil {
				return outputStoreError(formatter, err)
			}
			return formatter.Success(InterestResult{Interest: saved})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "interest id (default: generated)")
	cmd.Flags().IntVar(&lvl, "level", level.MinLevel, "starting level (1-10)")

	return cmd
}

// InterestResult is the output of interest add.
type InterestResult struct {
	Interest record.TrackedInterest `json:"interest"`
}

func (r InterestResult) String() string {
	return fmt.Sprintf("Added interest %s (%s) at level %d", r.Interest.ID, r.Interest.Name, r.Interest.CurrentLevel)
}
