package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/EquorumProtocol/equorum-gov/internal/gov"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitRejected     = 1 // the engine rejected the operation
	ExitCommandError = 2 // command error (bad flags, missing journal, etc.)
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitRejected if the error carries no code of its own.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitRejected
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response envelope.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"` // engine rejection code or command error name
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt; commands usually pass a
// pre-formatted string.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only when verbose mode is enabled. Goes to
// ErrWriter so JSON output on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// printer renders token quantities with grouping separators ("1,050,000").
var printer = message.NewPrinter(language.English)

// FormatTokens renders a base-unit amount as a grouped whole-token string.
// Sub-token dust is truncated; governance arithmetic never produces any.
func FormatTokens(baseUnits *uint256.Int) string {
	whole := new(uint256.Int).Div(baseUnits, gov.Scale)
	if whole.IsUint64() {
		return printer.Sprintf("%d", whole.Uint64())
	}
	return whole.Dec()
}

// FormatWeight renders a vote weight with grouping separators.
func FormatWeight(weight *uint256.Int) string {
	if weight.IsUint64() {
		return printer.Sprintf("%d", weight.Uint64())
	}
	return weight.Dec()
}
