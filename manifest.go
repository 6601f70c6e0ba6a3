package intermodal

import (
	"time"
)

// Manifest identifies a message's schema, origin and creation time. It is the
// metadata half of an Envelope; application code routes, stores and processes
// content based on these fields alone.
type Manifest struct {
	// Domain is a DNS name identifying the organization that defines the
	// type's schema.
	Domain string
	// Scope is an arbitrary namespace element, conventionally formatted as a
	// slash-separated path.
	Scope string
	// Kind is the name of the type.
	Kind string
	// Version is the version of the type's schema.
	Version uint64
	// Origin identifies the source of the content.
	Origin string
	// CTime is the UTC timestamp at which the message was created. This is not
	// necessarily when the data itself was sourced; types needing that degree
	// of precision carry it in their own content.
	CTime time.Time
	// Labels are arbitrary key-value string pairs providing additional
	// context. Optional; order is not significant and not preserved.
	Labels map[string]string
}

// NewManifest builds a validated Manifest. CTime is normalized to UTC. The
// labels map is used as given; nil means no labels.
func NewManifest(domain, scope, kind string, version uint64, origin string, ctime time.Time, labels map[string]string) (Manifest, error) {
	m := Manifest{
		Domain:  domain,
		Scope:   scope,
		Kind:    kind,
		Version: version,
		Origin:  origin,
		CTime:   ctime.UTC(),
		Labels:  labels,
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate enforces the field invariants: Domain must be a syntactically valid
// DNS name, Scope/Kind/Origin must be non-empty, CTime must be a real point in
// time. Version has no constraint beyond being unsigned; 0 is legal.
func (m Manifest) Validate() error {
	return m.validateAt("")
}

func (m Manifest) validateAt(base string) error {
	var iss Issues
	if m.Domain == "" {
		iss = AppendIssues(iss, issueAt(base+"/domain", CodeEmptyField, "domain must not be empty", nil))
	} else if !validDomain(m.Domain) {
		iss = AppendIssues(iss, issueAt(base+"/domain", CodeInvalidDomain, "not a valid DNS name", map[string]any{"got": m.Domain}))
	}
	if m.Scope == "" {
		iss = AppendIssues(iss, issueAt(base+"/scope", CodeEmptyField, "scope must not be empty", nil))
	}
	if m.Kind == "" {
		iss = AppendIssues(iss, issueAt(base+"/kind", CodeEmptyField, "kind must not be empty", nil))
	}
	if m.Origin == "" {
		iss = AppendIssues(iss, issueAt(base+"/origin", CodeEmptyField, "origin must not be empty", nil))
	}
	// A zero CTime is treated as unset. This also rejects an explicit
	// 0001-01-01T00:00:00Z, which RFC 3339 can represent; the conflation is
	// deliberate so construction, decode and encode agree on what is valid.
	if m.CTime.IsZero() {
		iss = AppendIssues(iss, issueAt(base+"/ctime", CodeInvalidTimestamp, "ctime is not set", nil))
	}
	if iss != nil {
		return iss
	}
	return nil
}

// Label looks up a label by key. Absence is not an error; the second result is
// false when the key (or the whole label set) is missing.
func (m Manifest) Label(key string) (string, bool) {
	v, ok := m.Labels[key]
	return v, ok
}

// Equal reports structural equality over all fields. CTime compares as an
// instant; labels compare as an unordered set.
func (m Manifest) Equal(o Manifest) bool {
	if m.Domain != o.Domain || m.Scope != o.Scope || m.Kind != o.Kind ||
		m.Version != o.Version || m.Origin != o.Origin || !m.CTime.Equal(o.CTime) {
		return false
	}
	if len(m.Labels) != len(o.Labels) {
		return false
	}
	for k, v := range m.Labels {
		if ov, ok := o.Labels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// validDomain checks DNS hostname syntax: dot-separated labels of 1-63
// characters from [a-zA-Z0-9-], no leading or trailing hyphen per label, at
// most 253 characters overall.
func validDomain(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '.' {
			continue
		}
		label := s[start:i]
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for j := 0; j < len(label); j++ {
			c := label[j]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
		start = i + 1
	}
	return true
}

// parseRFC3339 accepts RFC3339 with optional fractional seconds.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// formatRFC3339UTC renders the canonical wire form: UTC with a Z suffix,
// seconds precision when the sub-second part is zero (Go trims trailing
// zeros under RFC3339Nano).
func formatRFC3339UTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
