package cyd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeJSON parses data with the token API so object member order survives
// into the Value tree. Numbers in the int64 range decode as Integer, the
// rest as Float. Duplicate object keys are rejected: the model requires
// unique mapping keys.
func decodeJSON(data []byte) (*Value, error) {
	// encoding/json coerces invalid UTF-8 to U+FFFD; it has to be caught
	// here or bad bytes would slip through as replacement characters.
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, &DecodeError{Format: JSON, Offset: int64(i), Message: "invalid UTF-8"}
		}
		i += size
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return nil, asJSONDecodeError(dec, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, asJSONDecodeError(dec, err)
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of input")
		}
		return nil, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return parseJSONNumber(t)
	case json.Delim:
		switch t {
		case '{':
			return parseJSONObject(dec)
		case '[':
			return parseJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected %q", t.String())
		}
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseJSONNumber(n json.Number) (*Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return IntegerValue(i), nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("number %s out of range", n)
	}
	return FloatValue(f), nil
}

func parseJSONObject(dec *json.Decoder) (*Value, error) {
	obj := MappingValue()
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate object key %q", key)
		}
		seen[key] = struct{}{}
		val, err := parseJSONValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func parseJSONArray(dec *json.Decoder) (*Value, error) {
	arr := SequenceValue()
	for dec.More() {
		item, err := parseJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

func asJSONDecodeError(dec *json.Decoder, err error) error {
	offset := dec.InputOffset()
	msg := err.Error()
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		offset = syn.Offset
		msg = syn.Error()
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		msg = "unexpected end of input"
	}
	return &DecodeError{Format: JSON, Offset: offset, Message: msg}
}

// encodeJSON writes the tree as a compact JSON document, assembling object
// and array syntax by hand so member order is preserved, with leaf values
// marshaled by encoding/json. Datetime narrows to its ISO-8601 string.
func encodeJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v *Value) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		buf.WriteString(jsonFloatText(v.Float))
	case KindString:
		return writeJSONLeaf(buf, v.Str)
	case KindDatetime:
		return writeJSONLeaf(buf, v.Time.String())
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONLeaf(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSONValue(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("encode json: unknown kind %v", v.Kind)
	}
	return nil
}

// jsonFloatText formats a finite float so it reads back as a Float: a
// whole value keeps a ".0" suffix, which json.Marshal would drop. Non-finite
// values never reach here; capability validation rejects them.
func jsonFloatText(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeJSONLeaf(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	buf.Write(data)
	return nil
}
