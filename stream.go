package intermodal

import (
	"context"
	"io"

	"github.com/reoring/intermodal/internal/scan"
)

// StreamReader yields the raw blocks of a `---`-separated stream one at a
// time. It is lazy and non-restartable: each block is read on demand and the
// underlying source is consumed exactly once. Splitting is the reader's sole
// contract; whether a block holds a valid envelope is decided by DecodeBlock,
// so one malformed block never prevents the reader from yielding the next.
//
// A StreamReader is owned by a single goroutine; it is not safe for concurrent
// use against the same stream instance.
type StreamReader struct {
	sc     *scan.Scanner
	closer io.Closer
}

// NewStreamReader wraps r. When r is also an io.Closer (a file, a socket),
// Close releases it, so abandoning iteration early cannot leak the source:
//
//	r := intermodal.NewStreamReader(f)
//	defer r.Close()
func NewStreamReader(r io.Reader) *StreamReader {
	sr := &StreamReader{sc: scan.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		sr.closer = c
	}
	return sr
}

// Next returns the next raw block, or io.EOF when the stream is exhausted.
func (r *StreamReader) Next() ([]byte, error) {
	return r.sc.Next()
}

// NextEnvelope pulls the next block and decodes it. On a decode failure the
// block is still consumed: callers choose between aborting and
// skip-and-continue, and the reader stays usable either way. io.EOF signals
// exhaustion.
func (r *StreamReader) NextEnvelope(ctx context.Context) (Envelope, error) {
	block, err := r.Next()
	if err != nil {
		return Envelope{}, err
	}
	return DecodeBlock(ctx, block)
}

// Close releases the underlying source when it is closable. Safe to call
// regardless of how iteration ended.
func (r *StreamReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// StreamWriter emits envelopes as a `---`-separated stream. The boundary is
// written between blocks, not after the last one; readers accept both forms.
// Like StreamReader, an instance is owned by a single goroutine.
type StreamWriter struct {
	w     io.Writer
	wrote bool
}

// NewStreamWriter wraps w. The writer does not close w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Write encodes one envelope and appends it to the stream.
func (w *StreamWriter) Write(ctx context.Context, e Envelope) error {
	block, err := EncodeBlock(ctx, e)
	if err != nil {
		return err
	}
	return w.WriteBlock(block)
}

// WriteBlock appends an already-encoded block, managing the boundary. A block
// without a trailing newline gets one so the next boundary starts its own
// line.
func (w *StreamWriter) WriteBlock(block []byte) error {
	if w.wrote {
		if _, err := io.WriteString(w.w, scan.Boundary+"\n"); err != nil {
			return err
		}
	}
	if _, err := w.w.Write(block); err != nil {
		return err
	}
	if len(block) > 0 && block[len(block)-1] != '\n' {
		if _, err := io.WriteString(w.w, "\n"); err != nil {
			return err
		}
	}
	w.wrote = true
	return nil
}
