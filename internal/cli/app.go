package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/store"
)

// Error codes used in CLI JSON responses.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeStore      = "E_STORE"
	ErrCodeConfig     = "E_CONFIG"
	ErrCodeNotFound   = "E_NOT_FOUND"
	ErrCodeBadInput   = "E_BAD_INPUT"
	ErrCodeValidation = "E_VALIDATION"
)

func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock.Now()
	}
	return time.Now()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openStore opens the configured database. The caller closes it.
func openStore(opts *RootOptions) (*store.Store, error) {
	slog.Debug("opening database", "path", opts.Config.Database)
	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func newEngine(opts *RootOptions) (*engine.Engine, error) {
	eng, err := opts.Config.NewEngine()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return eng, nil
}

// parseWhen parses an optional --at/--now flag. Accepted forms are RFC 3339
// and YYYY-MM-DD (midnight in loc). Empty means now.
func (o *RootOptions) parseWhen(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return o.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
