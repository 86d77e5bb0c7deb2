// Package failure defines the tagged errors returned at the extraction and
// merge boundaries.
package failure

import (
	"errors"
	"fmt"
)

// Kind represents the category of a pipeline failure
type Kind int

const (
	KindUnknown Kind = iota
	KindExtraction
	KindMerge
	KindInput
	KindIO
)

// Sentinels matched by errors.Is against any Failure of the same kind.
var (
	ErrExtraction = errors.New("pdf extraction failed")
	ErrMerge      = errors.New("document merge failed")
	ErrInput      = errors.New("invalid input")
	ErrIO         = errors.New("file access failed")
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindExtraction:
		return "EXTRACTION"
	case KindMerge:
		return "MERGE"
	case KindInput:
		return "INPUT"
	case KindIO:
		return "IO"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindExtraction:
		return ErrExtraction
	case KindMerge:
		return ErrMerge
	case KindInput:
		return ErrInput
	case KindIO:
		return ErrIO
	default:
		return nil
	}
}

// Failure carries the kind, the failing operation and the underlying cause
type Failure struct {
	Kind    Kind
	Op      string
	Context string
	Err     error
}

// Error implements the error interface
func (f *Failure) Error() string {
	msg := fmt.Sprintf("[%s] %s", f.Kind, f.Op)
	if f.Context != "" {
		msg += " (" + f.Context + ")"
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is reports whether target is the sentinel for this failure's kind
func (f *Failure) Is(target error) bool {
	s := f.Kind.sentinel()
	return s != nil && target == s
}

// WithContext adds context to an existing Failure
func (f *Failure) WithContext(context string) *Failure {
	f.Context = context
	return f
}

// New creates a Failure from a message
func New(kind Kind, op, message string) *Failure {
	return &Failure{Kind: kind, Op: op, Err: errors.New(message)}
}

// Wrap wraps err as a Failure of the given kind. A nil err yields nil.
func Wrap(kind Kind, op string, err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first Failure in err's chain
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
