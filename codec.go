package intermodal

import (
	"bytes"
	"context"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// The codec is stateless and side-effect-free per call; concurrent encode and
// decode calls on independent inputs need no synchronization.

// EncodeBlock serializes one envelope as a YAML block with the two top-level
// sections `manifest` and `content`. The manifest is validated first; output
// is deterministic: manifest keys in fixed order (domain, scope, kind,
// version, origin, ctime, labels), labels sorted by key, content in the order
// the Value itself preserves.
func EncodeBlock(ctx context.Context, e Envelope) ([]byte, error) {
	if err := e.Manifest.validateAt("/manifest"); err != nil {
		return nil, err
	}
	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "manifest"},
			manifestToNode(e.Manifest),
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "content"},
			nodeFromValue(e.Content),
		},
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, singleIssueCause("/", CodeSyntaxError, "YAML encoding failed", err)
	}
	if err := enc.Close(); err != nil {
		return nil, singleIssueCause("/", CodeSyntaxError, "YAML encoding failed", err)
	}
	return buf.Bytes(), nil
}

// DecodeBlock parses one YAML block into a validated Envelope. Decode is not
// merely syntactic: manifest constraints (domain syntax, non-empty fields,
// timestamp validity) are re-checked, so a malformed-but-well-typed manifest
// is still rejected. There is no partial success; either the whole envelope is
// valid or an error describes every offending field.
func DecodeBlock(ctx context.Context, block []byte) (Envelope, error) {
	v, err := valueFromYAML(block)
	if err != nil {
		return Envelope{}, err
	}
	return envelopeFromValue(v)
}

// DecodeHeader parses only the manifest-only view of a block. The content
// section, and any other top-level key, is ignored entirely; generic handlers
// use this to route a message before deciding whether its content is worth
// interpreting.
func DecodeHeader(ctx context.Context, block []byte) (Header, error) {
	v, err := valueFromYAML(block)
	if err != nil {
		return Header{}, err
	}
	return headerFromValue(v)
}

// ---- value-level conversion (shared by the YAML and JSON codecs) ----

func envelopeFromValue(v Value) (Envelope, error) {
	if v.Kind() != KindMapping {
		return Envelope{}, singleIssue("/", CodeMalformedBlock, "block must be a mapping", map[string]any{"got": v.Kind().String()})
	}
	var iss Issues
	mv, ok := v.Get("manifest")
	if !ok {
		iss = AppendIssues(iss, issueAt("/manifest", CodeMalformedBlock, "missing manifest section", nil))
	}
	cv, ok := v.Get("content")
	if !ok {
		iss = AppendIssues(iss, issueAt("/content", CodeMalformedBlock, "missing content section", nil))
	}
	entries, _ := v.Entries()
	for _, e := range entries {
		if e.Key != "manifest" && e.Key != "content" {
			iss = AppendIssues(iss, issueAt("/"+escapePointer(e.Key), CodeMalformedBlock, "unexpected top-level key", map[string]any{"key": e.Key}))
		}
	}
	if iss != nil {
		return Envelope{}, iss
	}
	m, err := manifestFromValue(mv, "/manifest")
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Manifest: m, Content: cv}, nil
}

func headerFromValue(v Value) (Header, error) {
	if v.Kind() != KindMapping {
		return Header{}, singleIssue("/", CodeMalformedBlock, "block must be a mapping", map[string]any{"got": v.Kind().String()})
	}
	mv, ok := v.Get("manifest")
	if !ok {
		return Header{}, singleIssue("/manifest", CodeMalformedBlock, "missing manifest section", nil)
	}
	m, err := manifestFromValue(mv, "/manifest")
	if err != nil {
		return Header{}, err
	}
	return Header{Manifest: m}, nil
}

// manifestFromValue extracts and validates a Manifest from its mapping form.
// Shape errors (wrong field types) are collected first; field constraints run
// only on a well-shaped manifest. Unknown keys inside the manifest are
// tolerated for forward compatibility.
func manifestFromValue(v Value, base string) (Manifest, error) {
	if v.Kind() != KindMapping {
		return Manifest{}, singleIssue(base, CodeTypeMismatch, "manifest must be a mapping", map[string]any{"got": v.Kind().String()})
	}
	var m Manifest
	var iss Issues

	str := func(field string) string {
		fv, ok := v.Get(field)
		if !ok {
			return ""
		}
		s, ok := fv.Text()
		if !ok {
			iss = AppendIssues(iss, issueAt(base+"/"+field, CodeTypeMismatch, "expected string", map[string]any{"got": fv.Kind().String()}))
			return ""
		}
		return s
	}
	m.Domain = str("domain")
	m.Scope = str("scope")
	m.Kind = str("kind")
	m.Origin = str("origin")

	// version needs an explicit presence check: absence must not decode as the
	// perfectly legal version 0. The other required fields fall out of
	// validateAt (missing strings arrive empty, missing ctime stays zero).
	if fv, ok := v.Get("version"); ok {
		text, isNum := fv.NumberText()
		if !isNum {
			iss = AppendIssues(iss, issueAt(base+"/version", CodeTypeMismatch, "expected non-negative integer", map[string]any{"got": fv.Kind().String()}))
		} else if ver, err := strconv.ParseUint(text, 10, 64); err != nil {
			iss = AppendIssues(iss, issueAt(base+"/version", CodeTypeMismatch, "expected non-negative integer", map[string]any{"got": text}))
		} else {
			m.Version = ver
		}
	} else {
		iss = AppendIssues(iss, issueAt(base+"/version", CodeEmptyField, "missing required field", nil))
	}

	if fv, ok := v.Get("ctime"); ok {
		text, isStr := fv.Text()
		if !isStr {
			iss = AppendIssues(iss, issueAt(base+"/ctime", CodeTypeMismatch, "expected RFC3339 timestamp", map[string]any{"got": fv.Kind().String()}))
		} else if t, err := parseRFC3339(text); err != nil {
			it := issueAt(base+"/ctime", CodeInvalidTimestamp, "not a valid RFC3339 timestamp", map[string]any{"got": text})
			it.Cause = err
			iss = AppendIssues(iss, it)
		} else {
			m.CTime = t.UTC()
		}
	}

	if fv, ok := v.Get("labels"); ok {
		entries, isMap := fv.Entries()
		if !isMap {
			iss = AppendIssues(iss, issueAt(base+"/labels", CodeTypeMismatch, "expected mapping of string to string", map[string]any{"got": fv.Kind().String()}))
		} else {
			m.Labels = make(map[string]string, len(entries))
			for _, e := range entries {
				s, isStr := e.Value.Text()
				if !isStr {
					iss = AppendIssues(iss, issueAt(base+"/labels/"+escapePointer(e.Key), CodeTypeMismatch, "expected string", map[string]any{"got": e.Value.Kind().String()}))
					continue
				}
				m.Labels[e.Key] = s
			}
		}
	}

	if iss != nil {
		return Manifest{}, iss
	}
	if err := m.validateAt(base); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// manifestToValue renders a manifest in the fixed wire order with labels
// sorted by key; an empty label set is omitted entirely.
func manifestToValue(m Manifest) Value {
	entries := []MapEntry{
		Entry("domain", String(m.Domain)),
		Entry("scope", String(m.Scope)),
		Entry("kind", String(m.Kind)),
		Entry("version", Number(strconv.FormatUint(m.Version, 10))),
		Entry("origin", String(m.Origin)),
		Entry("ctime", String(formatRFC3339UTC(m.CTime))),
	}
	if len(m.Labels) > 0 {
		keys := make([]string, 0, len(m.Labels))
		for k := range m.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lab := make([]MapEntry, 0, len(keys))
		for _, k := range keys {
			lab = append(lab, Entry(k, String(m.Labels[k])))
		}
		entries = append(entries, Entry("labels", Mapping(lab...)))
	}
	return Mapping(entries...)
}

// manifestToNode is the YAML rendering of manifestToValue. version and ctime
// are emitted as plain scalars so the wire form matches the conventional
// unquoted style.
func manifestToNode(m Manifest) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, vn *yaml.Node) {
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, vn)
	}
	add("domain", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Domain})
	add("scope", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Scope})
	add("kind", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Kind})
	add("version", plainScalar(strconv.FormatUint(m.Version, 10)))
	add("origin", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Origin})
	add("ctime", plainScalar(formatRFC3339UTC(m.CTime)))
	if len(m.Labels) > 0 {
		keys := make([]string, 0, len(m.Labels))
		for k := range m.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lab := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			lab.Content = append(lab.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Labels[k]})
		}
		add("labels", lab)
	}
	return out
}
