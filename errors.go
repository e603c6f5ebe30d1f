package spectra

import (
	"errors"
	"fmt"
)

// Kind classifies why a spectrum could not be produced.
type Kind int

const (
	// KindUnknown is reported for errors that carry no classification.
	KindUnknown Kind = iota
	// UnsupportedFormat: the extension is not recognized, or the loader for
	// it is unavailable in this build or configuration.
	UnsupportedFormat
	// ParseFailure: the file exists but its content is malformed for the
	// format.
	ParseFailure
	// EmptyResult: the file parsed but yielded no usable columns or points.
	EmptyResult
	// PreconditionViolation: an analysis operation was called with invalid
	// parameters.
	PreconditionViolation
)

// String returns the string representation of k.
func (k Kind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported format"
	case ParseFailure:
		return "parse failure"
	case EmptyResult:
		return "empty result"
	case PreconditionViolation:
		return "precondition violation"
	default:
		return "unknown"
	}
}

var (
	// ErrNoPoints is returned when a spectrum would have no y values.
	ErrNoPoints = errors.New("spectra: no data points")
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("spectra: x and y length mismatch")
	// ErrPrecondition is wrapped by the dsp packages when a caller passes
	// invalid parameters.
	ErrPrecondition = errors.New("precondition violation")
)

// Error wraps a load failure with its classification.
type Error struct {
	Kind   Kind
	Format string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Format != "" {
		msg = e.Format + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error for the given format.
func Errorf(kind Kind, format, msg string, args ...any) *Error {
	return &Error{Kind: kind, Format: format, Err: fmt.Errorf(msg, args...)}
}

// Wrap classifies err. A nil err yields nil. An err that is already an
// *Error keeps its kind unless it is KindUnknown.
func Wrap(kind Kind, format string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnknown {
		return err
	}
	return &Error{Kind: kind, Format: format, Err: err}
}

// KindOf returns the classification carried by err.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrPrecondition) {
		return PreconditionViolation
	}
	if errors.Is(err, ErrNoPoints) {
		return EmptyResult
	}
	return KindUnknown
}

// IsUnsupported reports whether err is an UnsupportedFormat failure.
func IsUnsupported(err error) bool { return KindOf(err) == UnsupportedFormat }

// IsParseFailure reports whether err is a ParseFailure.
func IsParseFailure(err error) bool { return KindOf(err) == ParseFailure }

// IsEmpty reports whether err is an EmptyResult failure.
func IsEmpty(err error) bool { return KindOf(err) == EmptyResult }

// IsPrecondition reports whether err is a PreconditionViolation.
func IsPrecondition(err error) bool { return KindOf(err) == PreconditionViolation }
