package cyd

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnsupportedRoot   = errors.New("unsupported root value")
	ErrUnsupportedValue  = errors.New("unsupported value")
	ErrInvalidKey        = errors.New("invalid mapping key")
)

// DecodeError reports input that does not parse as a valid document of the
// source format. It carries whichever position the underlying parser could
// supply: Line/Column (1-based) when known, otherwise a byte Offset. An
// unknown position is Line 0 and Offset -1.
type DecodeError struct {
	Format  Format
	Line    int
	Column  int
	Offset  int64
	Message string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("decode %s: line %d, column %d: %s", e.Format, e.Line, e.Column, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("decode %s: offset %d: %s", e.Format, e.Offset, e.Message)
	default:
		return fmt.Sprintf("decode %s: %s", e.Format, e.Message)
	}
}

// EncodeError reports a well-formed Value tree that the target format cannot
// represent. Path locates the offending node from the root and Kind names
// its variant. EncodeError unwraps to one of [ErrUnsupportedRoot],
// [ErrUnsupportedValue], or [ErrInvalidKey].
type EncodeError struct {
	Format  Format
	Path    Path
	Kind    Kind
	Message string

	err error
}

func (e *EncodeError) Error() string {
	switch {
	case errors.Is(e.err, ErrUnsupportedRoot):
		return fmt.Sprintf("encode %s: %v: document root is %s", e.Format, e.err, e.Kind)
	case errors.Is(e.err, ErrInvalidKey):
		return fmt.Sprintf("encode %s: %v at %s: %s", e.Format, e.err, e.Path, e.Message)
	default:
		if e.Message != "" {
			return fmt.Sprintf("encode %s: %v at %s: %s: %s", e.Format, e.err, e.Path, e.Kind, e.Message)
		}
		return fmt.Sprintf("encode %s: %v at %s: %s", e.Format, e.err, e.Path, e.Kind)
	}
}

func (e *EncodeError) Unwrap() error { return e.err }

// Phase names the pipeline stage a conversion failed in.
type Phase int

const (
	PhaseDecode Phase = iota
	PhaseEncode
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDecode:
		return "decode"
	case PhaseEncode:
		return "encode"
	default:
		return "<unknown phase>"
	}
}

// ConversionError wraps a decode or encode failure with the phase it
// occurred in, so diagnostics can say which side of the conversion failed.
// It unwraps to the underlying *DecodeError or *EncodeError.
type ConversionError struct {
	Phase Phase
	Err   error
}

func (e *ConversionError) Error() string { return e.Err.Error() }

func (e *ConversionError) Unwrap() error { return e.Err }
