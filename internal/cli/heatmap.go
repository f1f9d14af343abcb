package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
)

var (
	heatColors = []lipgloss.Color{
		lipgloss.Color("#313244"),
		lipgloss.Color("#40634a"),
		lipgloss.Color("#5a8f5e"),
		lipgloss.Color("#7fbf75"),
		lipgloss.Color("#a6e3a1"),
	}

	// Glyphs keep levels distinguishable without colour.
	heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

	heatLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	heatTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true)
)

// NewHeatmapCommand creates the heatmap command.
func NewHeatmapCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show the calendar intensity map",
		Long: `Show one cell per day for the configured number of weeks, one column per
week starting on Sunday. Intensity counts alignment events plus completed
journal sessions.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}
			now, err := rootOpts.parseWhen(at, eng.Config().Location)
			if err != nil {
				return outputCommandError(formatter, ErrCodeBadInput, err)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			in, err := st.Snapshot(cmd.Context())
			if err != nil {
				return outputStoreError(formatter, err)
			}
			cells, err := eng.Heatmap(now, in)
			if err != nil {
				return outputEngineError(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{"cells": cells})
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderHeatmap(cells))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "now", "", "last day shown (RFC 3339 or YYYY-MM-DD, default now)")

	return cmd
}

// RenderHeatmap lays cells out as seven weekday rows. Cells must start on a
// Sunday, as engine.Heatmap returns them.
func RenderHeatmap(cells []engine.HeatCell) string {
	if len(cells) == 0 {
		return ""
	}
	weeks := (len(cells) + 6) / 7

	var b strings.Builder
	first, last := cells[0].Day, cells[len(cells)-1].Day
	b.WriteString(heatTitleStyle.Render(fmt.Sprintf("%s to %s", first, last)))
	b.WriteByte('\n')

	for wd := range 7 {
		b.WriteString(heatLabelStyle.Render(time.Weekday(wd).String()[:3]))
		for w := range weeks {
			i := w*7 + wd
			b.WriteByte(' ')
			if i >= len(cells) {
				b.WriteByte(' ')
				continue
			}
			lvl := min(max(cells[i].Level, 0), len(heatGlyphs)-1)
			b.WriteString(lipgloss.NewStyle().Foreground(heatColors[lvl]).Render(heatGlyphs[lvl]))
		}
		if wd < 6 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
