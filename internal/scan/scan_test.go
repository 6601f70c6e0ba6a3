package scan

import (
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, input string) []string {
	t.Helper()
	s := NewScanner(strings.NewReader(input))
	var out []string
	for {
		b, err := s.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, string(b))
	}
}

func TestScanner_Splitting(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"single block no boundary", "a: 1\n", []string{"a: 1\n"}},
		{"two blocks", "a: 1\n---\nb: 2\n", []string{"a: 1\n", "b: 2\n"}},
		{"leading boundary", "---\na: 1\n", []string{"a: 1\n"}},
		{"trailing boundary", "a: 1\n---\n", []string{"a: 1\n"}},
		{"no trailing newline", "a: 1\n---\nb: 2", []string{"a: 1\n", "b: 2"}},
		{"doubled boundary", "a: 1\n---\n---\nb: 2\n", []string{"a: 1\n", "b: 2\n"}},
		{"crlf", "a: 1\r\n---\r\nb: 2\r\n", []string{"a: 1\r\n", "b: 2\r\n"}},
		{"boundary with trailing spaces", "a: 1\n---  \nb: 2\n", []string{"a: 1\n", "b: 2\n"}},
		{"empty input", "", nil},
		{"only boundaries", "---\n---\n", nil},
		{"whitespace only block", "---\n   \n---\na: 1\n", []string{"a: 1\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collect(t, tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d blocks %q, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("block %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestScanner_IndentedDashesAreNotBoundaries(t *testing.T) {
	// a "---" inside indented block content is data, not a separator
	input := "a: |\n  ---\nb: 2\n"
	got := collect(t, input)
	if len(got) != 1 {
		t.Fatalf("indented dashes split the block: %q", got)
	}
}

func TestScanner_EOFIsSticky(t *testing.T) {
	s := NewScanner(strings.NewReader("a: 1\n"))
	if _, err := s.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Next(); err != io.EOF {
			t.Fatalf("expected io.EOF, got %v", err)
		}
	}
}
