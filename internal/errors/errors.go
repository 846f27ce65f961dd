package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UnparsableReference indicates text with no recognizable specifier
	UnparsableReference ErrorCode = "UNPARSABLE_REFERENCE"
	// InvalidArgument indicates a caller supplied an unusable value
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// UnsupportedConversion indicates a name with no code reference form
	UnsupportedConversion ErrorCode = "UNSUPPORTED_CONVERSION"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CatalogUnavailable indicates the reference catalog could not be opened
	CatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	// ScanFailed indicates a source scan aborted
	ScanFailed ErrorCode = "SCAN_FAILED"
	// ExportFailed indicates an export could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditConfig suggests changing a configuration key
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Key         string        `json:"key,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// CoderefError represents an error with code, message, and suggestions
type CoderefError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewCoderefError creates a new CoderefError
func NewCoderefError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *CoderefError {
	return &CoderefError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// New creates an error carrying the default fixes for its code
func New(code ErrorCode, message string, cause error) *CoderefError {
	return NewCoderefError(code, message, cause, GetSuggestedFixes(code))
}

// Error implements the error interface
func (e *CoderefError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CoderefError) Unwrap() error {
	return e.cause
}

// Is matches any CoderefError with the same code, so
// errors.Is(err, &CoderefError{Code: ScanFailed}) works.
func (e *CoderefError) Is(target error) bool {
	var other *CoderefError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithDetails adds details to the error
func (e *CoderefError) WithDetails(details interface{}) *CoderefError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first CoderefError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ce *CoderefError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	UnparsableReference: {
		{
			Type:        RunCommand,
			Command:     "coderef parse --help",
			Safe:        true,
			Description: "References start with a specifier such as T:, M: or P:",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "coderef config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
		{
			Type:        RunCommand,
			Command:     "coderef config init --force",
			Description: "Rewrite the configuration with defaults",
		},
	},
	CatalogUnavailable: {
		{
			Type:        RunCommand,
			Command:     "coderef scan .",
			Safe:        true,
			Description: "Populate the reference catalog",
		},
		{
			Type:        EditConfig,
			Key:         "catalog.path",
			Description: "Point the catalog at a writable location",
		},
	},
	ExportFailed: {
		{
			Type:        EditConfig,
			Key:         "export.format",
			Description: "Use one of jsonl, yaml or scip",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// As is the standard library errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
