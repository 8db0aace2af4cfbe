package tablepick

import (
	"errors"
	"fmt"
)

// Application error codes. These map directly to the failure modes a user
// can hit: bad input, network trouble, unparseable HTML, or output problems.
const (
	EINTERNAL         = "internal"           // unclassified failure
	EINVALIDURL       = "invalid_url"        // URL missing scheme/host or non-http(s)
	EFETCHFAILED      = "fetch_failed"       // network/timeout retries exhausted
	ETOOMANYREDIRECTS = "too_many_redirects" // redirect limit exceeded or loop detected
	EPARSEFAILED      = "parse_failed"       // document could not be parsed as HTML
	ENOOUTPUTTARGET   = "no_output_target"   // both stdout and file output disabled
	EWRITEFAILED      = "write_failed"       // filesystem error writing output
)

// Error represents an application error with a machine-readable code and a
// human-readable message. Err, when set, carries the underlying cause chain
// surfaced by --debug.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tablepick error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("tablepick error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf is like Errorf but attaches an underlying cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the first *Error in err's chain, EINTERNAL
// for non-application errors, or the empty string if err is nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the first *Error in err's chain, a
// generic message for non-application errors, or the empty string if err
// is nil.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error has occurred."
}
