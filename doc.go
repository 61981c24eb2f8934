// Package cyd converts documents between JSON, TOML, and YAML.
//
// Every conversion passes through a format-neutral [Value] tree: a decoder
// parses the complete input document into the tree, and an encoder
// serializes the tree into the target format. The central entry points are
// [Convert] and [Copy]; [Decode] and [Encode] expose the two halves for
// callers that want to inspect or build trees themselves.
//
// # Value Model
//
// [Value] is a tagged union of Null, Bool, Integer, Float, String, Datetime,
// Sequence, and Mapping, selected by [Kind]. Mappings are ordered slices of
// [Member], so key order survives from decode through encode:
//
//	v, err := cyd.Decode(data, cyd.JSON)
//	out, err := cyd.Encode(v, cyd.YAML)
//
// # Capabilities and Narrowing
//
// The three formats are not equally expressive. Each format's fixed
// [Capability] table records which variants it holds natively, which are
// narrowed deterministically (JSON renders a Datetime as its ISO-8601
// string), and which are rejected. Encoders validate the whole tree against
// their capability before producing any output, so a conversion yields
// either a complete valid document or no bytes at all:
//
//   - a non-Mapping root targeting TOML fails with [ErrUnsupportedRoot]
//   - a Null targeting TOML fails with [ErrUnsupportedValue], and the
//     returned [EncodeError] carries the [Path] to the offending node
//
// # Format Selection
//
// Use [ParseFormat] to convert a CLI flag string into a [Format]; matching
// is case-insensitive:
//
//	f, err := cyd.ParseFormat(flagValue)
//
// # Errors
//
// Decode failures come back as *[DecodeError] with the format and position;
// encode failures as *[EncodeError] with the path and variant. [Convert]
// wraps both in *[ConversionError] naming the phase that failed. The
// sentinel errors [ErrUnsupportedFormat], [ErrUnsupportedRoot],
// [ErrUnsupportedValue], and [ErrInvalidKey] support errors.Is checks.
package cyd
