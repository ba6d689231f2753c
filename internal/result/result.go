// package result defines the uniform outcome returned by every service
// operation
package result

// Code identifies the kind of outcome. The zero value is not a valid code and
// is never produced by the constructors below
type Code uint8

const (
	codeUnset Code = iota
	CodeSuccess
	CodeCreated
	CodeNoContent
	CodeNotFound
	CodeDuplicateEntry
	CodeValidationError
	CodeInternalError
	CodeDefault
)

var codeNames = [...]string{
	codeUnset:           "",
	CodeSuccess:         "SUCCESS",
	CodeCreated:         "CREATED",
	CodeNoContent:       "NO_CONTENT",
	CodeNotFound:        "NOT_FOUND",
	CodeDuplicateEntry:  "DUPLICATE_ENTRY",
	CodeValidationError: "VALIDATION_ERROR",
	CodeInternalError:   "INTERNAL_ERROR",
	CodeDefault:         "DEFAULT",
}

// Codes lists every recognized code
var Codes = []Code{
	CodeSuccess,
	CodeCreated,
	CodeNoContent,
	CodeNotFound,
	CodeDuplicateEntry,
	CodeValidationError,
	CodeInternalError,
	CodeDefault,
}

// String returns the canonical upper-case name, or "" for unknown codes
func (c Code) String() string {
	if int(c) >= len(codeNames) {
		return ""
	}
	return codeNames[c]
}

// Valid reports whether c is one of the recognized codes
func (c Code) Valid() bool {
	return c > codeUnset && int(c) < len(codeNames)
}

// IsSuccess reports whether c belongs to the success family
func (c Code) IsSuccess() bool {
	switch c {
	case CodeSuccess, CodeCreated, CodeNoContent:
		return true
	}
	return false
}

// Result is the outcome of a service operation. Success is derived from the
// code so the two can never disagree
type Result struct {
	code    Code
	data    any
	message string
}

// Success wraps a successful read or update
func Success(data any, message string) Result {
	return Result{code: CodeSuccess, data: data, message: message}
}

// Created wraps a successful creation
func Created(data any, message string) Result {
	return Result{code: CodeCreated, data: data, message: message}
}

// NoContent is a success without a payload
func NoContent(message string) Result {
	return Result{code: CodeNoContent, message: message}
}

// NotFound reports a missing entity
func NotFound(message string) Result {
	return Result{code: CodeNotFound, message: message}
}

// DuplicateEntry reports a uniqueness violation
func DuplicateEntry(message string) Result {
	return Result{code: CodeDuplicateEntry, message: message}
}

// ValidationError reports input the service refuses to act on
func ValidationError(message string) Result {
	return Result{code: CodeValidationError, message: message}
}

// InternalError reports an unexpected failure
func InternalError(message string) Result {
	return Result{code: CodeInternalError, message: message}
}

// Default is the catch-all failure
func Default(message string) Result {
	return Result{code: CodeDefault, message: message}
}

// Code returns the outcome code
func (r Result) Code() Code { return r.code }

// Success reports whether the outcome is in the success family
func (r Result) Success() bool { return r.code.IsSuccess() }

// Data returns the payload; always nil for failures
func (r Result) Data() any {
	if !r.Success() {
		return nil
	}
	return r.data
}

// Message returns the human-readable description
func (r Result) Message() string { return r.message }
