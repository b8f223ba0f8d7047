package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced by the core packages.
type Kind int

const (
	Unknown Kind = iota
	// Path: the root is not a directory, or a referenced path vanished.
	Path
	// NodeNotFound: an operation referenced an id absent from the tree.
	NodeNotFound
	// CacheFormat: persisted selection data is structurally invalid.
	CacheFormat
	// InvalidParameter: a caller-supplied parameter is out of range.
	InvalidParameter
	// PartialIO: some file reads/writes failed while the rest completed.
	PartialIO
	// NothingSelected: the operation needs at least one selected node.
	NothingSelected
)

func (k Kind) String() string {
	switch k {
	case Path:
		return "path error"
	case NodeNotFound:
		return "node not found"
	case CacheFormat:
		return "cache format error"
	case InvalidParameter:
		return "invalid parameter"
	case PartialIO:
		return "partial I/O failure"
	case NothingSelected:
		return "nothing selected"
	default:
		return "unknown error"
	}
}

// Error carries a Kind plus the offending path or parameter so the shell can
// render a message without parsing strings.
type Error struct {
	Kind  Kind
	Path  string
	Param string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch {
	case e.Param != "" && e.Path != "":
		msg = fmt.Sprintf("%s: %s (%s)", msg, e.Param, e.Path)
	case e.Param != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Param)
	case e.Path != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrPath) works
// regardless of the path or cause attached.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrPath             = &Error{Kind: Path}
	ErrNodeNotFound     = &Error{Kind: NodeNotFound}
	ErrCacheFormat      = &Error{Kind: CacheFormat}
	ErrInvalidParameter = &Error{Kind: InvalidParameter}
	ErrPartialIO        = &Error{Kind: PartialIO}
	ErrNothingSelected  = &Error{Kind: NothingSelected}
)

// New builds an *Error for path with an optional cause.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Param builds an InvalidParameter error naming the parameter and its value.
func Param(name string, value any) *Error {
	return &Error{Kind: InvalidParameter, Param: fmt.Sprintf("%s=%v", name, value)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
