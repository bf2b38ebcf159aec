package topology

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them; match with errors.Is.
var (
	// ErrConfiguration marks a malformed or missing source property.
	ErrConfiguration = errors.New("configuration error")
	// ErrProtocolInvariant marks a signal or port whose role is impossible
	// to determine or structurally contradictory.
	ErrProtocolInvariant = errors.New("protocol invariant violated")
	// ErrNoAdapterPath marks two protocols that cannot be bridged within two
	// adapters.
	ErrNoAdapterPath = errors.New("no adapter path")
	// ErrUnresolvedPortPath marks a user-declared port path with no match.
	ErrUnresolvedPortPath = errors.New("unresolved port path")
	// ErrMixedProtocol marks an interconnect asked to join different
	// protocols.
	ErrMixedProtocol = errors.New("mixed protocols")
	// ErrCardinality marks a count mismatch, e.g. an adapter without exactly
	// one slave port.
	ErrCardinality = errors.New("cardinality mismatch")
	// ErrSignalNotFound marks a signal reference that resolves to nothing.
	ErrSignalNotFound = errors.New("signal not found")
)

// Error carries the context needed to fix the description: where the
// problem is and, where it applies, what was expected against what was
// found.
type Error struct {
	Kind     error
	Path     string
	Expected string
	Found    string
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&sb, " (expected %s, found %s)", e.Expected, e.Found)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}

func configErr(path, format string, args ...any) *Error {
	return newError(ErrConfiguration, path, format, args...)
}

func invariantErr(path, format string, args ...any) *Error {
	return newError(ErrProtocolInvariant, path, format, args...)
}

func cardinalityErr(path, expected, found, format string, args ...any) *Error {
	e := newError(ErrCardinality, path, format, args...)
	e.Expected, e.Found = expected, found
	return e
}
