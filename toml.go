package cyd

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// decodeTOML parses data in two passes. A toml.Unmarshal probe validates
// the document first, because it reports syntax and duplicate-key errors
// with line/column positions. The validated document is then re-read with
// the low-level parser, which yields expressions in source order, so the
// Value tree keeps document order that a Go map would lose.
func decodeTOML(data []byte) (*Value, error) {
	var probe map[string]any
	if err := toml.Unmarshal(data, &probe); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, &DecodeError{
				Format: TOML, Line: row, Column: col, Offset: -1,
				Message: strings.TrimPrefix(de.Error(), "toml: "),
			}
		}
		return nil, &DecodeError{
			Format: TOML, Offset: -1,
			Message: strings.TrimPrefix(err.Error(), "toml: "),
		}
	}
	return buildTOMLTree(data)
}

func buildTOMLTree(data []byte) (*Value, error) {
	root := MappingValue()
	cur := root
	p := unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		e := p.Expression()
		var err error
		switch e.Kind {
		case unstable.KeyValue:
			err = tomlAssign(cur, e)
		case unstable.Table:
			cur, err = tomlOpenTable(root, e)
		case unstable.ArrayTable:
			cur, err = tomlOpenArrayTable(root, e)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.Error(); err != nil {
		return nil, &DecodeError{Format: TOML, Offset: -1, Message: err.Error()}
	}
	return root, nil
}

func tomlKeyParts(e *unstable.Node) []string {
	var parts []string
	it := e.Key()
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// tomlOpenTable descends to (or creates) the table named by a [a.b.c]
// header. Descending through an array of tables enters its last element.
func tomlOpenTable(root *Value, e *unstable.Node) (*Value, error) {
	cur := root
	for _, part := range tomlKeyParts(e) {
		next, ok := cur.Get(part)
		if !ok {
			next = MappingValue()
			cur.Members = append(cur.Members, Member{Key: part, Value: next})
		}
		switch next.Kind {
		case KindMapping:
			cur = next
		case KindSequence:
			if len(next.Items) == 0 || next.Items[len(next.Items)-1].Kind != KindMapping {
				return nil, tomlTreeErr("cannot extend %q as a table", part)
			}
			cur = next.Items[len(next.Items)-1]
		default:
			return nil, tomlTreeErr("cannot redefine %q as a table", part)
		}
	}
	return cur, nil
}

// tomlOpenArrayTable appends a fresh table to the array named by a [[a.b]]
// header and returns it.
func tomlOpenArrayTable(root *Value, e *unstable.Node) (*Value, error) {
	parts := tomlKeyParts(e)
	cur := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.Get(part)
		if !ok {
			next = MappingValue()
			cur.Members = append(cur.Members, Member{Key: part, Value: next})
		}
		switch next.Kind {
		case KindMapping:
			cur = next
		case KindSequence:
			if len(next.Items) == 0 || next.Items[len(next.Items)-1].Kind != KindMapping {
				return nil, tomlTreeErr("cannot extend %q as a table", part)
			}
			cur = next.Items[len(next.Items)-1]
		default:
			return nil, tomlTreeErr("cannot redefine %q as a table", part)
		}
	}
	last := parts[len(parts)-1]
	arr, ok := cur.Get(last)
	if !ok {
		arr = SequenceValue()
		cur.Members = append(cur.Members, Member{Key: last, Value: arr})
	}
	if arr.Kind != KindSequence {
		return nil, tomlTreeErr("cannot redefine %q as an array of tables", last)
	}
	table := MappingValue()
	arr.Items = append(arr.Items, table)
	return table, nil
}

// tomlAssign materializes one key = value expression into table, creating
// intermediate tables for dotted keys.
func tomlAssign(table *Value, e *unstable.Node) error {
	parts := tomlKeyParts(e)
	cur := table
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.Get(part)
		if !ok {
			next = MappingValue()
			cur.Members = append(cur.Members, Member{Key: part, Value: next})
		}
		if next.Kind != KindMapping {
			return tomlTreeErr("cannot redefine %q as a table", part)
		}
		cur = next
	}
	last := parts[len(parts)-1]
	if _, dup := cur.Get(last); dup {
		return tomlTreeErr("duplicate key %q", last)
	}
	v, err := tomlValue(e.Value())
	if err != nil {
		return err
	}
	cur.Members = append(cur.Members, Member{Key: last, Value: v})
	return nil
}

func tomlValue(n *unstable.Node) (*Value, error) {
	switch n.Kind {
	case unstable.String:
		return StringValue(string(n.Data)), nil
	case unstable.Bool:
		return BoolValue(string(n.Data) == "true"), nil
	case unstable.Integer:
		return tomlInt(string(n.Data))
	case unstable.Float:
		return tomlFloat(string(n.Data))
	case unstable.DateTime:
		return tomlTime(string(n.Data), offsetDateTimeFormat, OffsetDateTime)
	case unstable.LocalDateTime:
		return tomlTime(string(n.Data), localDateTimeFormat, LocalDateTime)
	case unstable.LocalDate:
		return tomlTime(string(n.Data), localDateFormat, LocalDate)
	case unstable.LocalTime:
		return tomlTime(string(n.Data), localTimeFormat, LocalTime)
	case unstable.Array:
		seq := SequenceValue()
		it := n.Children()
		for it.Next() {
			item, err := tomlValue(it.Node())
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil
	case unstable.InlineTable:
		obj := MappingValue()
		it := n.Children()
		for it.Next() {
			if err := tomlAssign(obj, it.Node()); err != nil {
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, tomlTreeErr("unexpected node kind %s", n.Kind)
	}
}

func tomlInt(s string) (*Value, error) {
	i, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, 64)
	if err != nil {
		return nil, tomlTreeErr("invalid integer %q", s)
	}
	return IntegerValue(i), nil
}

func tomlFloat(s string) (*Value, error) {
	s = strings.ReplaceAll(s, "_", "")
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return FloatValue(math.Inf(1)), nil
	case "-inf":
		return FloatValue(math.Inf(-1)), nil
	case "nan", "+nan", "-nan":
		return FloatValue(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, tomlTreeErr("invalid float %q", s)
	}
	return FloatValue(f), nil
}

// tomlTime parses one of the four TOML date-time shapes. The grammar allows
// a lowercase t or a space as the date/time separator and a lowercase z
// offset; those normalize before parsing.
func tomlTime(s, layout string, shape TimeLayout) (*Value, error) {
	b := []byte(s)
	if len(b) > 10 && (b[10] == 't' || b[10] == ' ') {
		b[10] = 'T'
	}
	if len(b) > 0 && b[len(b)-1] == 'z' {
		b[len(b)-1] = 'Z'
	}
	t, err := time.Parse(layout, string(b))
	if err != nil {
		return nil, tomlTreeErr("invalid date-time %q", s)
	}
	return DatetimeValue(Timestamp{Time: t, Layout: shape}), nil
}

func tomlTreeErr(format string, args ...any) error {
	return &DecodeError{Format: TOML, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

// encodeTOML emits the tree as a TOML document. Capability validation has
// already rejected non-Mapping roots and Null values, so emission cannot
// fail halfway. Within each table, scalar and inline members keep document
// order and emit before subtable headers (TOML requires it); subtables and
// arrays of tables keep their order relative to each other.
func encodeTOML(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTOMLTable(&buf, v, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTOMLTable(buf *bytes.Buffer, table *Value, prefix []string) error {
	var tables []Member
	for _, m := range table.Members {
		if isTOMLTableMember(m.Value) {
			tables = append(tables, m)
			continue
		}
		writeTOMLKey(buf, m.Key)
		buf.WriteString(" = ")
		if err := writeTOMLValue(buf, m.Value); err != nil {
			return err
		}
		buf.WriteByte('\n')
	}
	for _, m := range tables {
		key := append(append([]string{}, prefix...), m.Key)
		if m.Value.Kind == KindMapping {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteByte('[')
			writeTOMLDottedKey(buf, key)
			buf.WriteString("]\n")
			if err := writeTOMLTable(buf, m.Value, key); err != nil {
				return err
			}
			continue
		}
		for _, elem := range m.Value.Items {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString("[[")
			writeTOMLDottedKey(buf, key)
			buf.WriteString("]]\n")
			if err := writeTOMLTable(buf, elem, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// isTOMLTableMember reports whether a member emits as a [table] or
// [[array of tables]] header rather than an inline key = value line.
func isTOMLTableMember(v *Value) bool {
	switch v.Kind {
	case KindMapping:
		return true
	case KindSequence:
		if len(v.Items) == 0 {
			return false
		}
		for _, item := range v.Items {
			if item.Kind != KindMapping {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func writeTOMLValue(buf *bytes.Buffer, v *Value) error {
	switch v.Kind {
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		buf.WriteString(tomlFloatText(v.Float))
	case KindString:
		writeTOMLString(buf, v.Str)
	case KindDatetime:
		buf.WriteString(v.Time.String())
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeTOMLValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeTOMLKey(buf, m.Key)
			buf.WriteString(" = ")
			if err := writeTOMLValue(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("encode toml: unencodable kind %v", v.Kind)
	}
	return nil
}

func tomlFloatText(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeTOMLKey(buf *bytes.Buffer, key string) {
	if isBareTOMLKey(key) {
		buf.WriteString(key)
		return
	}
	writeTOMLString(buf, key)
}

func writeTOMLDottedKey(buf *bytes.Buffer, parts []string) {
	for i, part := range parts {
		if i > 0 {
			buf.WriteByte('.')
		}
		writeTOMLKey(buf, part)
	}
}

func isBareTOMLKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

func writeTOMLString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\t':
			buf.WriteString(`\t`)
		case '\n':
			buf.WriteString(`\n`)
		case '\f':
			buf.WriteString(`\f`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(buf, `\u%04X`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
