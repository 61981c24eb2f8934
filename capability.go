package cyd

import "math"

// Capability records what a format can represent: which Value variants it
// holds natively, which are narrowed to another variant on encode, and the
// constraints it places on the document as a whole. Encoders validate the
// full tree against their capability before emitting any bytes, so a
// conversion either produces a complete document or nothing.
type Capability struct {
	Format Format

	// Native marks the variants the format represents directly.
	Native map[Kind]bool
	// Narrowed maps variants the format cannot hold to the variant they
	// are deterministically downgraded to (e.g. Datetime to String for
	// JSON). Variants in neither map are rejected.
	Narrowed map[Kind]Kind
	// MappingRoot requires the document root to be a Mapping.
	MappingRoot bool
	// NonFinite marks support for NaN and infinite floats.
	NonFinite bool
}

var capabilities = map[Format]Capability{
	JSON: {
		Format: JSON,
		Native: map[Kind]bool{
			KindNull: true, KindBool: true, KindInteger: true, KindFloat: true,
			KindString: true, KindSequence: true, KindMapping: true,
		},
		Narrowed: map[Kind]Kind{KindDatetime: KindString},
	},
	TOML: {
		Format: TOML,
		Native: map[Kind]bool{
			KindBool: true, KindInteger: true, KindFloat: true, KindString: true,
			KindDatetime: true, KindSequence: true, KindMapping: true,
		},
		Narrowed:    map[Kind]Kind{},
		MappingRoot: true,
		NonFinite:   true,
	},
	YAML: {
		Format: YAML,
		Native: map[Kind]bool{
			KindNull: true, KindBool: true, KindInteger: true, KindFloat: true,
			KindString: true, KindDatetime: true, KindSequence: true, KindMapping: true,
		},
		Narrowed:  map[Kind]Kind{},
		NonFinite: true,
	},
}

// CapabilityOf returns the fixed capability table for f.
func CapabilityOf(f Format) (Capability, error) {
	c, ok := capabilities[f]
	if !ok {
		return Capability{}, newUnsupportedFormatErr(f)
	}
	return c, nil
}

// Validate walks the tree and reports the first node the format cannot
// represent, before any output is produced. A nil error means every node is
// either native or covered by a documented narrowing rule.
func (c Capability) Validate(root *Value) error {
	if c.MappingRoot && root.Kind != KindMapping {
		return &EncodeError{Format: c.Format, Kind: root.Kind, err: ErrUnsupportedRoot}
	}
	return c.validate(Path{}, root)
}

func (c Capability) validate(p Path, v *Value) error {
	if !c.Native[v.Kind] {
		if _, ok := c.Narrowed[v.Kind]; !ok {
			return &EncodeError{Format: c.Format, Path: p, Kind: v.Kind, err: ErrUnsupportedValue}
		}
	}
	switch v.Kind {
	case KindFloat:
		if !c.NonFinite && (math.IsNaN(v.Float) || math.IsInf(v.Float, 0)) {
			return &EncodeError{
				Format: c.Format, Path: p, Kind: v.Kind,
				Message: "non-finite number", err: ErrUnsupportedValue,
			}
		}
	case KindSequence:
		for i, item := range v.Items {
			if err := c.validate(p.withIndex(i), item); err != nil {
				return err
			}
		}
	case KindMapping:
		seen := make(map[string]struct{}, len(v.Members))
		for _, m := range v.Members {
			if _, dup := seen[m.Key]; dup {
				return &EncodeError{
					Format: c.Format, Path: p.withKey(m.Key), Kind: KindString,
					Message: "duplicate key", err: ErrInvalidKey,
				}
			}
			seen[m.Key] = struct{}{}
			if err := c.validate(p.withKey(m.Key), m.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
