package intermodal

import "strconv"

// Kind enumerates the shapes a Value can take.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "unknown"
}

// Value is an opaque structured-data tree: the content side of an envelope.
// It is a tagged union over null/bool/number/string/sequence/mapping rather
// than a bare any, so codecs can round-trip payloads without reinterpreting
// them. Numbers are carried as text to avoid precision loss (the same policy
// as NumberJSONNumber mode in JSON decoding). The zero Value is the null
// value. Values are immutable once constructed.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	seq  []Value
	ent  []MapEntry
}

// MapEntry is one key/value pair of a mapping Value. Entry order is the order
// reported by the parser and is preserved on encode.
type MapEntry struct {
	Key   string
	Value Value
}

// ---- constructors ----

// Null returns the null Value. Equivalent to the zero Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value carrying the given textual representation.
// The text is trusted as-is; use Int or Float for values originating in Go.
func Number(text string) Value { return Value{kind: KindNumber, num: text} }

// Int returns a numeric Value for an integer.
func Int(i int64) Value { return Value{kind: KindNumber, num: strconv.FormatInt(i, 10)} }

// Float returns a numeric Value for a float, rendered with minimal digits.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence returns a sequence Value over the given items.
func Sequence(items ...Value) Value { return Value{kind: KindSequence, seq: items} }

// Mapping returns a mapping Value over the given entries, preserving their
// order. Duplicate keys are not checked here; decoders reject them.
func Mapping(entries ...MapEntry) Value { return Value{kind: KindMapping, ent: entries} }

// Entry pairs a key with a Value for use with Mapping.
func Entry(key string, v Value) MapEntry { return MapEntry{Key: key, Value: v} }

// ---- accessors ----

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload when the value is a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// NumberText returns the textual form of a numeric value.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.num, true
}

// Int64 converts a numeric value to int64 when it is an exact integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.num, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Float64 converts a numeric value to float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text returns the payload of a string value.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Items returns the elements of a sequence value. The returned slice must not
// be mutated.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// Entries returns the entries of a mapping value in preserved order. The
// returned slice must not be mutated.
func (v Value) Entries() ([]MapEntry, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.ent, true
}

// Get looks up a mapping key. The second result is false when the value is not
// a mapping or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, e := range v.ent {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Len returns the element count for sequences and mappings, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.ent)
	}
	return 0
}

// Equal reports structural equality. Numbers compare by their textual form;
// mapping entry order is significant (it is part of what the codec preserves).
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == w.b
	case KindNumber:
		return v.num == w.num
	case KindString:
		return v.str == w.str
	case KindSequence:
		if len(v.seq) != len(w.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(w.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.ent) != len(w.ent) {
			return false
		}
		for i := range v.ent {
			if v.ent[i].Key != w.ent[i].Key || !v.ent[i].Value.Equal(w.ent[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
