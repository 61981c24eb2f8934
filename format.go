package cyd

import (
	"fmt"
	"strings"
)

// Format identifies one of the supported document formats.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

var formats = []Format{JSON, TOML, YAML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported formats.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", newUnsupportedFormatErr(Format(s))
}

func newUnsupportedFormatErr(f Format) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}
