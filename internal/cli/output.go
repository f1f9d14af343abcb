package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // evaluation, store or scenario failure
	ExitCommandError = 2 // bad flags, unreadable config, missing files
)

// ExitError carries the process exit code out of a RunE. main reads it back
// with GetExitCode.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return WrapExitError(code, message, nil)
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that never passed
// through an ExitError count as ExitFailure.
func GetExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as one CLIResponse
// JSON document per call.
type OutputFormatter struct {
	Format    string // "text" or "json"
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; nil means Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

type CLIError struct {
	Code    string `json:"code"`              // "E_STORE", "CLOCK_SKEW", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success prints data. Text mode relies on the payload's String method.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error prints a coded failure. Details are shown in text mode only when
// verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if details == nil || !f.Verbose {
		return nil
	}
	_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
	return err
}

// VerboseLog writes a diagnostic line when --verbose is set. It never
// touches Writer when ErrWriter is configured, so JSON stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter == nil {
		return f.Writer
	}
	return f.ErrWriter
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// outputCommandError reports a usage problem (bad flag value, missing file)
// and exits with ExitCommandError.
func outputCommandError(formatter *OutputFormatter, code string, err error) error {
	formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

// outputStoreError reports a database failure.
func outputStoreError(formatter *OutputFormatter, err error) error {
	formatter.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitFailure, "store error", err)
}

// outputEngineError reports an evaluation failure. Runtime errors keep
// their code (CLOCK_SKEW, INVALID_TIMEZONE, ...) and details.
func outputEngineError(formatter *OutputFormatter, err error) error {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		formatter.Error(string(rtErr.Code), rtErr.Message, rtErr.Details)
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}
	formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, "evaluation failed", err)
}
