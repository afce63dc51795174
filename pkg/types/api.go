package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat   ErrKind = iota // malformed document (missing attribute, XML syntax)
	ErrKindNotFound                // missing section/param/path
	ErrKindType                    // param exists with a different kind
	ErrKindState                   // invalid operation for current state (released handle, duplicate)
	ErrKindRange                   // value outside allowed bounds or enumeration
	ErrKindIO                      // file system or sink failure
)

// String implements fmt.Stringer.
func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindType:
		return "type"
	case ErrKindState:
		return "state"
	case ErrKindRange:
		return "range"
	case ErrKindIO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by identity and any *Error by kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Wrap returns a copy of sentinel carrying err as its cause.
func Wrap(sentinel *Error, err error) error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: err}
}

// Wrapf returns a copy of sentinel whose cause is a formatted message.
func Wrapf(sentinel *Error, format string, args ...any) error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: fmt.Errorf(format, args...)}
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing section, param or file.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrDuplicate indicates a section already exists at the requested path.
	ErrDuplicate = &Error{Kind: ErrKindState, Msg: "duplicate section"}
	// ErrInvalidPath indicates an empty or malformed path or name.
	ErrInvalidPath = &Error{Kind: ErrKindFormat, Msg: "invalid path"}
	// ErrTypeMismatch indicates the param exists with a different kind.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "param has different kind"}
	// ErrInvalidHandle indicates use of a released or foreign handle.
	ErrInvalidHandle = &Error{Kind: ErrKindState, Msg: "invalid or released handle"}
	// ErrTruncated indicates an output line did not fit the destination.
	ErrTruncated = &Error{Kind: ErrKindIO, Msg: "output truncated"}
	// ErrParse indicates a structural load error.
	ErrParse = &Error{Kind: ErrKindFormat, Msg: "parse error"}
	// ErrEndOfList indicates a list cursor moved past the last element.
	ErrEndOfList = &Error{Kind: ErrKindNotFound, Msg: "end of list"}
	// ErrCheckFailed indicates a target document violates its reference.
	ErrCheckFailed = &Error{Kind: ErrKindRange, Msg: "document does not match reference"}
	// ErrInvalidValue indicates a value the document cannot hold, such as
	// NaN or an enumeration entry that cannot be written back.
	ErrInvalidValue = &Error{Kind: ErrKindRange, Msg: "invalid value"}
	// ErrFormula indicates a formula failed to parse or evaluate.
	ErrFormula = &Error{Kind: ErrKindFormat, Msg: "formula error"}
)

// -----------------------------------------------------------------------------
// Parameter kinds
// -----------------------------------------------------------------------------

// ParamKind enumerates the leaf payload types a section can hold.
type ParamKind uint8

const (
	KindNone    ParamKind = iota // no such param
	KindNumber                   // numeric value with bounds and optional unit
	KindString                   // string value with optional enumeration
	KindFormula                  // formula text evaluated on read
)

// String implements the Stringer interface for ParamKind.
func (k ParamKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "num"
	case KindString:
		return "str"
	case KindFormula:
		return "form"
	default:
		return fmt.Sprintf("UNKNOWN_KIND_%d", uint8(k))
	}
}
