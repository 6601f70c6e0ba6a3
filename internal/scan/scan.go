// Package scan splits a continuous text source into raw blocks separated by
// document boundary lines. It knows nothing about what a block contains;
// interpreting block bytes is the codec's job.
package scan

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Boundary is the document separator: a line containing exactly "---"
// (trailing whitespace and CR tolerated).
const Boundary = "---"

// Scanner yields one raw block at a time from an io.Reader. It reads line by
// line and never buffers more than the current block, so arbitrarily long
// streams are bounded by per-block memory only. A Scanner is not safe for
// concurrent use; each instance is owned by one consumer.
type Scanner struct {
	br   *bufio.Reader
	done bool
	err  error
}

// NewScanner wraps r. The Scanner does not close r; resource release belongs
// to whoever opened it.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{br: bufio.NewReader(r)}
}

// Next returns the next non-empty block, or io.EOF when the source is
// exhausted. A boundary at the very start of the stream and a missing
// trailing boundary are both tolerated: neither produces an empty block.
// Read errors are sticky.
func (s *Scanner) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, io.EOF
	}
	var buf bytes.Buffer
	for {
		line, err := s.br.ReadString('\n')
		if len(line) > 0 {
			if isBoundary(line) {
				if blockHasContent(buf.Bytes()) {
					return buf.Bytes(), nil
				}
				buf.Reset()
			} else {
				buf.WriteString(line)
			}
		}
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
				return nil, err
			}
			if blockHasContent(buf.Bytes()) {
				return buf.Bytes(), nil
			}
			s.err = io.EOF
			return nil, io.EOF
		}
	}
}

func isBoundary(line string) bool {
	return strings.TrimRight(line, " \t\r\n") == Boundary
}

func blockHasContent(b []byte) bool {
	return len(bytes.TrimSpace(b)) > 0
}
