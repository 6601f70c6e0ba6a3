package intermodal_test

import (
	"strings"
	"testing"
	"time"

	intermodal "github.com/reoring/intermodal"
)

func validManifest() intermodal.Manifest {
	return intermodal.Manifest{
		Domain:  "example.org",
		Scope:   "metrics/applications/some-app",
		Kind:    "useractions",
		Version: 2,
		Origin:  "some-app-03.example.org",
		CTime:   time.Date(2020, 8, 25, 14, 41, 40, 0, time.UTC),
		Labels:  map[string]string{"app-version": "2.3.1"},
	}
}

func TestManifest_DomainValidation(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		code   string // "" means valid
	}{
		{"simple", "foo.org", ""},
		{"single label", "localhost", ""},
		{"digits and hyphens", "a-1.b-2.c", ""},
		{"empty", "", intermodal.CodeEmptyField},
		{"leading hyphen", "-bad.org", intermodal.CodeInvalidDomain},
		{"trailing hyphen", "bad-.org", intermodal.CodeInvalidDomain},
		{"empty label", "foo..org", intermodal.CodeInvalidDomain},
		{"underscore", "foo_bar.org", intermodal.CodeInvalidDomain},
		{"too long", strings.Repeat("a.", 149) + "aa", intermodal.CodeInvalidDomain},
		{"label too long", strings.Repeat("a", 64) + ".org", intermodal.CodeInvalidDomain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validManifest()
			m.Domain = tc.domain
			err := m.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			iss, ok := intermodal.AsIssues(err)
			if !ok {
				t.Fatalf("expected Issues, got %v", err)
			}
			if !iss.HasCode(tc.code) {
				t.Fatalf("expected code %q, got %v", tc.code, iss)
			}
		})
	}
}

func TestManifest_EmptyFields(t *testing.T) {
	for _, field := range []string{"scope", "kind", "origin"} {
		m := validManifest()
		switch field {
		case "scope":
			m.Scope = ""
		case "kind":
			m.Kind = ""
		case "origin":
			m.Origin = ""
		}
		iss, ok := intermodal.AsIssues(m.Validate())
		if !ok || !iss.HasCode(intermodal.CodeEmptyField) {
			t.Fatalf("%s: expected empty_field, got %v", field, iss)
		}
		if !strings.Contains(iss[0].Path, field) {
			t.Fatalf("%s: issue should name the field, got path %q", field, iss[0].Path)
		}
	}
}

func TestManifest_ZeroCTimeRejected(t *testing.T) {
	m := validManifest()
	m.CTime = time.Time{}
	iss, ok := intermodal.AsIssues(m.Validate())
	if !ok || !iss.HasCode(intermodal.CodeInvalidTimestamp) {
		t.Fatalf("expected invalid_timestamp, got %v", iss)
	}
}

func TestNewManifest_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	m, err := intermodal.NewManifest("example.org", "metrics", "cpu", 0, "host-1.example.org",
		time.Date(2020, 8, 26, 1, 2, 20, 0, loc), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CTime.Location() != time.UTC {
		t.Fatalf("ctime not normalized to UTC: %v", m.CTime)
	}
	// version 0 is legal; there is no monotonic-from-1 rule
	if m.Version != 0 {
		t.Fatalf("version changed: %d", m.Version)
	}
}

func TestManifest_LabelAccess(t *testing.T) {
	m := validManifest()
	if v, ok := m.Label("app-version"); !ok || v != "2.3.1" {
		t.Fatalf("expected app-version=2.3.1, got %q ok=%v", v, ok)
	}
	if _, ok := m.Label("missing"); ok {
		t.Fatalf("absent key must report ok=false, not an error")
	}
	var empty intermodal.Manifest
	if _, ok := empty.Label("anything"); ok {
		t.Fatalf("nil label set must behave as empty")
	}
}

func TestManifest_Equal(t *testing.T) {
	a := validManifest()
	b := validManifest()
	if !a.Equal(b) {
		t.Fatalf("identical manifests must be equal")
	}
	// label comparison is set-wise
	b.Labels = map[string]string{"app-version": "2.3.1"}
	if !a.Equal(b) {
		t.Fatalf("label maps with equal contents must compare equal")
	}
	b.Labels["extra"] = "x"
	if a.Equal(b) {
		t.Fatalf("differing label sets must not compare equal")
	}
	c := validManifest()
	c.CTime = c.CTime.In(time.FixedZone("JST", 9*3600))
	if !a.Equal(c) {
		t.Fatalf("ctime must compare as an instant, not by location")
	}
	d := validManifest()
	d.Version = 99
	if a.Equal(d) {
		t.Fatalf("differing versions must not compare equal")
	}
}
