package cyd

import "math"

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindDatetime
	KindSequence
	KindMapping
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindDatetime:
		return "Datetime"
	case KindSequence:
		return "Sequence"
	case KindMapping:
		return "Mapping"
	default:
		return "<unknown kind>"
	}
}

// Kinds returns all Value variants.
func Kinds() []Kind {
	return []Kind{
		KindNull,
		KindBool,
		KindInteger,
		KindFloat,
		KindString,
		KindDatetime,
		KindSequence,
		KindMapping,
	}
}

// Member is a single entry of a Mapping: a string key and its value.
type Member struct {
	Key   string
	Value *Value
}

// Value is one node of the format-neutral document tree that every
// conversion passes through. Exactly one variant is meaningful, selected by
// Kind; the other fields hold their zero values.
//
// A Value tree is built fully by one decoder call, read by one encoder call,
// and then discarded. It is never mutated after construction and never
// shared between conversions. Sequence and Mapping order is the source
// document order.
type Value struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string
	Time  Timestamp

	// Items holds the elements of a Sequence.
	Items []*Value
	// Members holds the ordered entries of a Mapping. Keys are unique.
	Members []Member
}

// NullValue returns the Null value.
func NullValue() *Value { return &Value{Kind: KindNull} }

// BoolValue returns a Bool value.
func BoolValue(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// IntegerValue returns an Integer value.
func IntegerValue(i int64) *Value { return &Value{Kind: KindInteger, Int: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }

// StringValue returns a String value.
func StringValue(s string) *Value { return &Value{Kind: KindString, Str: s} }

// DatetimeValue returns a Datetime value.
func DatetimeValue(ts Timestamp) *Value { return &Value{Kind: KindDatetime, Time: ts} }

// SequenceValue returns a Sequence holding items in order.
func SequenceValue(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Items: items}
}

// MappingValue returns a Mapping holding members in order.
func MappingValue(members ...Member) *Value {
	return &Value{Kind: KindMapping, Members: members}
}

// Get returns the value for key in a Mapping, or false when the key is
// absent or v is not a Mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindMapping {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Equal reports structural equality. Two NaN floats compare equal so that
// Equal remains an equivalence relation.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float || (math.IsNaN(v.Float) && math.IsNaN(o.Float))
	case KindString:
		return v.Str == o.Str
	case KindDatetime:
		return v.Time.Equal(o.Time)
	case KindSequence:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.Members) != len(o.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != o.Members[i].Key {
				return false
			}
			if !v.Members[i].Value.Equal(o.Members[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
