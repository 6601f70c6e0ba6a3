package intermodal

import (
	"bytes"
	"context"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// EncodeJSON serializes one envelope as a compact JSON object with the same
// two-section shape and the same determinism guarantees as EncodeBlock. JSON
// carries single envelopes only; the `---` boundary is a YAML stream concept.
func EncodeJSON(ctx context.Context, e Envelope) ([]byte, error) {
	if err := e.Manifest.validateAt("/manifest"); err != nil {
		return nil, err
	}
	v := Mapping(
		Entry("manifest", manifestToValue(e.Manifest)),
		Entry("content", e.Content),
	)
	return v.MarshalJSON()
}

// DecodeJSON parses a JSON-encoded envelope with the same validation rules as
// DecodeBlock.
func DecodeJSON(ctx context.Context, data []byte) (Envelope, error) {
	v, err := valueFromJSON(data)
	if err != nil {
		return Envelope{}, err
	}
	return envelopeFromValue(v)
}

// DecodeHeaderJSON parses only the manifest-only view of a JSON envelope.
func DecodeHeaderJSON(ctx context.Context, data []byte) (Header, error) {
	v, err := valueFromJSON(data)
	if err != nil {
		return Header{}, err
	}
	return headerFromValue(v)
}

// MarshalJSON renders the value as compact JSON, preserving mapping entry
// order. Numbers whose YAML text is not valid JSON (hex literals and the like)
// are re-rendered through float64.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the value with the parsed tree. Duplicate object keys
// are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := valueFromJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		b, _ := v.Bool()
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		text, _ := v.NumberText()
		if gojson.Valid([]byte(text)) {
			buf.WriteString(text)
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return singleIssue("/", CodeTypeMismatch, "number not representable in JSON", map[string]any{"got": text})
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindString:
		text, _ := v.Text()
		esc, err := gojson.Marshal(text)
		if err != nil {
			return err
		}
		buf.Write(esc)
	case KindSequence:
		items, _ := v.Items()
		buf.WriteByte('[')
		for i, it := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		entries, _ := v.Entries()
		buf.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			esc, err := gojson.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(esc)
			buf.WriteByte(':')
			if err := appendJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func valueFromJSON(data []byte) (Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, iss := readJSONValue(dec, "")
	if iss != nil {
		return Value{}, iss
	}
	if dec.More() {
		return Value{}, singleIssue("/", CodeSyntaxError, "trailing data after JSON value", nil)
	}
	return v, nil
}

func readJSONValue(dec *gojson.Decoder, path string) (Value, Issues) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, singleIssueCause(path, CodeSyntaxError, "invalid JSON", err)
	}
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			var entries []MapEntry
			seen := make(map[string]struct{})
			var iss Issues
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, append(iss, issueAt(path, CodeSyntaxError, "invalid JSON", nil))
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, append(iss, issueAt(path, CodeSyntaxError, "object key must be a string", nil))
				}
				kp := path + "/" + escapePointer(key)
				if _, dup := seen[key]; dup {
					iss = AppendIssues(iss, issueAt(kp, CodeDuplicateKey, "duplicate object key", map[string]any{"key": key}))
				}
				seen[key] = struct{}{}
				val, more := readJSONValue(dec, kp)
				iss = append(iss, more...)
				entries = append(entries, Entry(key, val))
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, append(iss, issueAt(path, CodeSyntaxError, "invalid JSON", nil))
			}
			if iss != nil {
				return Value{}, iss
			}
			return Mapping(entries...), nil
		case '[':
			var items []Value
			var iss Issues
			for i := 0; dec.More(); i++ {
				val, more := readJSONValue(dec, path+"/"+strconv.Itoa(i))
				iss = append(iss, more...)
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, append(iss, issueAt(path, CodeSyntaxError, "invalid JSON", nil))
			}
			if iss != nil {
				return Value{}, iss
			}
			return Sequence(items...), nil
		}
		return Value{}, singleIssue(path, CodeSyntaxError, "unexpected delimiter", nil)
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case gojson.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	}
	return Value{}, singleIssue(path, CodeSyntaxError, "unexpected JSON token", nil)
}
