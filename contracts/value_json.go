package contracts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// ValueFromJSON parses a JSON document into a Value, preserving object key
// order. Numbers without a fraction or exponent that fit in int64 become
// integers; all other numbers become floats.
func ValueFromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("parse json: %w: trailing data after document", ErrInvalidArgument)
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Field(key, val))
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return Value{}, err
			}
			return Map(members...), nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return Value{}, err
			}
			return Array(items...), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v (%T)", tok, tok)
	}
}

// MarshalJSON renders the value as JSON with map member order preserved.
// Byte-strings are encoded as base64 text.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(w *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		w.WriteString("null")
	case KindBool:
		w.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		w.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("%w: %v has no JSON representation", ErrInvalidArgument, v.f)
		}
		w.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		return writeJSONString(w, v.s)
	case KindBytes:
		return writeJSONString(w, base64.StdEncoding.EncodeToString(v.raw))
	case KindArray:
		w.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				w.WriteByte(',')
			}
			if err := item.writeJSON(w); err != nil {
				return err
			}
		}
		w.WriteByte(']')
	case KindMap:
		w.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				w.WriteByte(',')
			}
			if err := writeJSONString(w, m.Key); err != nil {
				return err
			}
			w.WriteByte(':')
			if err := m.Value.writeJSON(w); err != nil {
				return err
			}
		}
		w.WriteByte('}')
	default:
		return fmt.Errorf("%w: cannot marshal %s", ErrInvalidArgument, v.kind)
	}
	return nil
}

func writeJSONString(w io.Writer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(quoted)
	return err
}
