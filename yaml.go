package cyd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlTimestampLayouts are the plain-scalar shapes the yaml resolver tags
// as !!timestamp, paired with the model layout they decode to.
var yamlTimestampLayouts = []struct {
	layout string
	shape  TimeLayout
}{
	{"2006-1-2T15:4:5.999999999Z07:00", OffsetDateTime},
	{"2006-1-2t15:4:5.999999999Z07:00", OffsetDateTime},
	{"2006-1-2 15:4:5.999999999", LocalDateTime},
	{"2006-1-2", LocalDate},
}

// decodeYAML parses a single-document YAML stream through the node API so
// mapping order survives. Aliases are expanded by copying the anchored
// subtree (a recursive alias fails: the model is a tree), merge keys are
// flattened into the containing mapping with explicit keys winning, and
// explicit tags outside the core schema are rejected.
func decodeYAML(data []byte) (*Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty stream decodes as a null document.
			return NullValue(), nil
		}
		return nil, asYAMLDecodeError(err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, &DecodeError{
			Format: YAML, Line: extra.Line, Column: extra.Column, Offset: -1,
			Message: "multiple documents in stream",
		}
	} else if !errors.Is(err, io.EOF) {
		return nil, asYAMLDecodeError(err)
	}
	w := &yamlWalker{active: make(map[*yaml.Node]bool)}
	return w.value(&doc)
}

type yamlWalker struct {
	// active tracks anchors currently being expanded, to catch cycles.
	active map[*yaml.Node]bool
}

func (w *yamlWalker) value(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue(), nil
		}
		return w.value(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, yamlNodeErr(n, fmt.Sprintf("unresolved alias *%s", n.Value))
		}
		if w.active[n.Alias] {
			return nil, yamlNodeErr(n, fmt.Sprintf("recursive alias *%s", n.Value))
		}
		w.active[n.Alias] = true
		v, err := w.value(n.Alias)
		delete(w.active, n.Alias)
		return v, err
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		seq := SequenceValue()
		for _, c := range n.Content {
			item, err := w.value(c)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil
	case yaml.MappingNode:
		return w.mapping(n)
	default:
		return nil, yamlNodeErr(n, fmt.Sprintf("unexpected node kind %d", n.Kind))
	}
}

func yamlScalar(n *yaml.Node) (*Value, error) {
	switch n.Tag {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, yamlNodeErr(n, fmt.Sprintf("invalid bool %q", n.Value))
		}
		return BoolValue(b), nil
	case "!!int":
		return yamlInt(n)
	case "!!float":
		return yamlFloat(n)
	case "!!str":
		return StringValue(n.Value), nil
	case "!!timestamp":
		return yamlTimestamp(n)
	default:
		return nil, yamlNodeErr(n, fmt.Sprintf("unsupported tag %s", n.Tag))
	}
}

func yamlInt(n *yaml.Node) (*Value, error) {
	s := strings.ReplaceAll(n.Value, "_", "")
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return IntegerValue(i), nil
	}
	// Out of int64 range: fall back to float rather than truncate.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f), nil
	}
	return nil, yamlNodeErr(n, fmt.Sprintf("invalid integer %q", n.Value))
}

func yamlFloat(n *yaml.Node) (*Value, error) {
	switch strings.ToLower(n.Value) {
	case ".inf", "+.inf":
		return FloatValue(math.Inf(1)), nil
	case "-.inf":
		return FloatValue(math.Inf(-1)), nil
	case ".nan":
		return FloatValue(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
	if err != nil {
		return nil, yamlNodeErr(n, fmt.Sprintf("invalid float %q", n.Value))
	}
	return FloatValue(f), nil
}

func yamlTimestamp(n *yaml.Node) (*Value, error) {
	for _, l := range yamlTimestampLayouts {
		if t, err := time.Parse(l.layout, n.Value); err == nil {
			return DatetimeValue(Timestamp{Time: t, Layout: l.shape}), nil
		}
	}
	return nil, yamlNodeErr(n, fmt.Sprintf("invalid timestamp %q", n.Value))
}

func (w *yamlWalker) mapping(n *yaml.Node) (*Value, error) {
	obj := MappingValue()
	seen := make(map[string]struct{})
	var merged []*Value
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if isYAMLMergeKey(key) {
			mvs, err := w.mergeSources(val)
			if err != nil {
				return nil, err
			}
			merged = append(merged, mvs...)
			continue
		}
		if key.Kind == yaml.AliasNode && key.Alias != nil {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return nil, yamlNodeErr(key, "mapping key is not a scalar")
		}
		// Scalar keys are taken as their literal text, so integer or
		// boolean keys become strings.
		k := key.Value
		if _, dup := seen[k]; dup {
			return nil, yamlNodeErr(key, fmt.Sprintf("duplicate mapping key %q", k))
		}
		seen[k] = struct{}{}
		v, err := w.value(val)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: k, Value: v})
	}
	// Merge-key members come after explicit members; explicit keys win,
	// and earlier merge sources win over later ones.
	for _, mv := range merged {
		for _, m := range mv.Members {
			if _, ok := seen[m.Key]; ok {
				continue
			}
			seen[m.Key] = struct{}{}
			obj.Members = append(obj.Members, m)
		}
	}
	return obj, nil
}

// isYAMLMergeKey matches the yaml decoder's own notion of a merge key: a
// plain << scalar. A quoted "<<" carries the !!str tag and is an ordinary
// key.
func isYAMLMergeKey(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode || n.Value != "<<" {
		return false
	}
	return n.Tag == "" || n.Tag == "!" || n.Tag == "!!merge"
}

func (w *yamlWalker) mergeSources(val *yaml.Node) ([]*Value, error) {
	srcs := []*yaml.Node{val}
	target := val
	if target.Kind == yaml.AliasNode && target.Alias != nil {
		target = target.Alias
	}
	if target.Kind == yaml.SequenceNode {
		srcs = target.Content
	}
	out := make([]*Value, 0, len(srcs))
	for _, s := range srcs {
		mv, err := w.value(s)
		if err != nil {
			return nil, err
		}
		if mv.Kind != KindMapping {
			return nil, yamlNodeErr(s, "merge key value is not a mapping")
		}
		out = append(out, mv)
	}
	return out, nil
}

func yamlNodeErr(n *yaml.Node, msg string) error {
	return &DecodeError{Format: YAML, Line: n.Line, Column: n.Column, Offset: -1, Message: msg}
}

func asYAMLDecodeError(err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	e := &DecodeError{Format: YAML, Offset: -1, Message: msg}
	var line int
	if n, _ := fmt.Sscanf(msg, "line %d:", &line); n == 1 {
		e.Line = line
		if i := strings.Index(msg, ": "); i >= 0 {
			e.Message = msg[i+2:]
		}
	}
	return e
}

// encodeYAML builds a yaml.Node tree mirroring the Value tree and lets the
// yaml encoder emit it. Explicit !!str tags force quoting of strings that
// would otherwise resolve as numbers, booleans, or timestamps.
func encodeYAML(v *Value) ([]byte, error) {
	node, err := yamlTree(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlTree(v *Value) (*yaml.Node, error) {
	switch v.Kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}, nil
	case KindInteger:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int, 10)}, nil
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloatText(v.Float)}, nil
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}, nil
	case KindDatetime:
		// No explicit tag: the resolver re-tags the text on decode, so
		// offset/local date-times round-trip; a local time has no YAML
		// timestamp shape and comes back as a string.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: yamlTimestampText(v.Time)}, nil
	case KindSequence:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			c, err := yamlTree(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, c)
		}
		return seq, nil
	case KindMapping:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, member := range v.Members {
			c, err := yamlTree(member.Value)
			if err != nil {
				return nil, err
			}
			k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: member.Key}
			m.Content = append(m.Content, k, c)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("encode yaml: unknown kind %v", v.Kind)
	}
}

func yamlFloatText(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func yamlTimestampText(t Timestamp) string {
	switch t.Layout {
	case LocalDateTime:
		// Space-separated: the only offset-free date-time shape the
		// resolver recognizes.
		return t.Time.Format("2006-01-02 15:04:05.999999999")
	case LocalDate:
		return t.Time.Format(localDateFormat)
	case LocalTime:
		return t.Time.Format(localTimeFormat)
	default:
		return t.Time.Format(offsetDateTimeFormat)
	}
}
