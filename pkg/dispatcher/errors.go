package dispatcher

import "fmt"

// Recoverable error codes. These are the only failures the router converts to
// a reported outcome; anything else escalates as a handler fault.
const (
	CodeInvalidAction    = "INVALID_ACTION"
	CodeUnrecognizedType = "UNRECOGNIZED_TYPE"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
)

// Error is a recoverable dispatch error: a caller/input mistake. Handlers may
// return one to have the router report a failure outcome instead of
// escalating. Any other error returned by a handler is treated as a fault in
// the handler itself and is not masked.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a recoverable dispatch error.
func NewError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorDetail is the serializable error description carried in a failure
// outcome under the "exception" key.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Outcome is the result of routing one envelope: code 0 with no detail on
// success, code -1 with the error detail on failure. Created once per
// envelope, consumed exactly once by the reporter.
type Outcome struct {
	Code      int          `json:"code"`
	Exception *ErrorDetail `json:"exception,omitempty"`
}

// SuccessOutcome returns the success outcome.
func SuccessOutcome() *Outcome {
	return &Outcome{Code: SuccessCode}
}

// FailureOutcome returns a failure outcome carrying the given error's detail.
func FailureOutcome(err *Error) *Outcome {
	return &Outcome{
		Code:      ExceptionOccurredCode,
		Exception: &ErrorDetail{Code: err.Code, Message: err.Message},
	}
}
