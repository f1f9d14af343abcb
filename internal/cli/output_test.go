package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
)

type streakLine int

func (s streakLine) String() string { return fmt.Sprintf("current streak: %d day(s)", int(s)) }

func jsonFormatter() (*OutputFormatter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &OutputFormatter{Format: "json", Writer: buf}, buf
}

func decodeResponse(t *testing.T, buf *bytes.Buffer) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

func TestSuccess_TextUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(streakLine(4)))
	assert.Equal(t, "current streak: 4 day(s)\n", buf.String())
}

func TestSuccess_JSONOmitsError(t *testing.T) {
	f, buf := jsonFormatter()

	require.NoError(t, f.Success(map[string]int{"current_streak": 4}))
	assert.JSONEq(t, `{"status":"ok","data":{"current_streak":4}}`, buf.String())
}

func TestOutputEngineError_KeepsRuntimeCode(t *testing.T) {
	f, buf := jsonFormatter()
	skew := engine.NewClockSkewError(dayString("2024-07-03"), dayString("2024-07-05"))

	err := outputEngineError(f, fmt.Errorf("evaluate: %w", skew))

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, engine.IsClockSkew(err))

	resp := decodeResponse(t, buf)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CLOCK_SKEW", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "2024-07-05")
	assert.Equal(t, map[string]any{"today": "2024-07-03", "earliest": "2024-07-05"}, resp.Error.Details)
}

func TestOutputEngineError_PlainError(t *testing.T) {
	f, buf := jsonFormatter()

	err := outputEngineError(f, errors.New("catalog vanished"))

	assert.Equal(t, ExitFailure, GetExitCode(err))
	resp := decodeResponse(t, buf)
	assert.Equal(t, ErrCodeGeneric, resp.Error.Code)
	assert.Equal(t, "catalog vanished", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputStoreError(t *testing.T) {
	f, buf := jsonFormatter()
	cause := errors.New("database is locked")

	err := outputStoreError(f, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeStore, decodeResponse(t, buf).Error.Code)
}

func TestOutputCommandError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := outputCommandError(f, ErrCodeBadInput, errors.New(`invalid category "hobby"`))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "Error [E_BAD_INPUT]: invalid category \"hobby\"\n", buf.String())
}

func TestError_TextDetailsOnlyWhenVerbose(t *testing.T) {
	details := map[string]string{"timezone": "Mars/Olympus"}

	quiet := &bytes.Buffer{}
	(&OutputFormatter{Format: "text", Writer: quiet}).Error("INVALID_TIMEZONE", "unknown zone", details)
	assert.NotContains(t, quiet.String(), "Details")

	loud := &bytes.Buffer{}
	(&OutputFormatter{Format: "text", Writer: loud, Verbose: true}).Error("INVALID_TIMEZONE", "unknown zone", details)
	assert.Contains(t, loud.String(), "Error [INVALID_TIMEZONE]: unknown zone")
	assert.Contains(t, loud.String(), "Mars/Olympus")
}

func TestVerboseLog_PrefersErrWriter(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: true}

	f.VerboseLog("loaded %d events", 12)
	assert.Empty(t, out.String())
	assert.Equal(t, "loaded 12 events\n", diag.String())

	f.Verbose = false
	f.VerboseLog("dropped")
	assert.NotContains(t, diag.String(), "dropped")

	assert.Same(t, out, (&OutputFormatter{Writer: out}).GetErrWriter())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "no such database"), ExitCommandError},
		{"wrapped twice", fmt.Errorf("serve: %w", WrapExitError(ExitCommandError, "bind", errors.New("in use"))), ExitCommandError},
		{"success code", NewExitError(ExitSuccess, "nothing to do"), ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "store error: disk full", WrapExitError(ExitFailure, "store error", errors.New("disk full")).Error())
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
}

type dayString string

func (d dayString) String() string { return string(d) }
