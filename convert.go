package cyd

import (
	"fmt"
	"io"
)

// Decode parses a complete document in format f into a Value tree. The tree
// preserves source order: mapping members appear in document order.
func Decode(data []byte, f Format) (*Value, error) {
	switch f {
	case JSON:
		return decodeJSON(data)
	case TOML:
		return decodeTOML(data)
	case YAML:
		return decodeYAML(data)
	default:
		return nil, newUnsupportedFormatErr(f)
	}
}

// Encode serializes a Value tree as a complete document in format f. The
// tree is validated against the format's [Capability] before any bytes are
// produced, so Encode returns either a full valid document or no output.
func Encode(v *Value, f Format) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("encode %s: nil value", f)
	}
	c, err := CapabilityOf(f)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(v); err != nil {
		return nil, err
	}
	switch f {
	case JSON:
		return encodeJSON(v)
	case TOML:
		return encodeTOML(v)
	default:
		return encodeYAML(v)
	}
}

// Convert decodes data as the from format and re-encodes it as the to
// format. The encoder runs only when decoding succeeded; failures come back
// as a *ConversionError naming the phase that failed.
func Convert(data []byte, from, to Format) ([]byte, error) {
	v, err := Decode(data, from)
	if err != nil {
		return nil, &ConversionError{Phase: PhaseDecode, Err: err}
	}
	out, err := Encode(v, to)
	if err != nil {
		return nil, &ConversionError{Phase: PhaseEncode, Err: err}
	}
	return out, nil
}

// Copy reads a complete document from r, converts it from one format to the
// other, and writes the result to w. Nothing is written to w unless the
// whole conversion succeeds.
func Copy(w io.Writer, r io.Reader, from, to Format) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	out, err := Convert(data, from, to)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
