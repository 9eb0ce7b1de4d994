// Package chunk splits byte streams into fixed-size chunks and reassembles
// them. It is pure stream plumbing: it never buffers more than one chunk and
// knows nothing about where chunks are persisted.
package chunk

import (
	"errors"
	"fmt"
	"io"
)

// ErrCorruptSequence is returned when a chunk sequence has a gap, a
// duplicate, or arrives out of order during reassembly.
var ErrCorruptSequence = errors.New("corrupt chunk sequence")

// Chunk is one bounded-size segment of a blob's bytes.
type Chunk struct {
	Seq  int
	Data []byte
}

// Source yields the chunks of one blob in storage order. Next returns io.EOF
// after the last chunk; Close releases whatever backs the iteration.
type Source interface {
	Next() (Chunk, error)
	Close() error
}

// Encoder consumes an io.Reader incrementally and produces chunks of exactly
// size bytes, except possibly the last, which may be shorter. An empty input
// produces zero chunks. The source reader is consumed once and cannot be
// rewound.
type Encoder struct {
	r    io.Reader
	size int
	seq  int
	done bool
}

// NewEncoder returns an Encoder cutting r into size-byte chunks.
// size must be at least 1.
func NewEncoder(r io.Reader, size int) (*Encoder, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be >= 1, got %d", size)
	}
	return &Encoder{r: r, size: size}, nil
}

// Next returns the next chunk of the stream, or io.EOF when the source is
// exhausted. Each call allocates a fresh payload slice, so callers may retain
// chunk data across calls.
func (e *Encoder) Next() (Chunk, error) {
	if e.done {
		return Chunk{}, io.EOF
	}
	buf := make([]byte, e.size)
	n, err := io.ReadFull(e.r, buf)
	switch {
	case err == io.EOF:
		e.done = true
		return Chunk{}, io.EOF
	case err == io.ErrUnexpectedEOF && n > 0:
		// Short final chunk.
		e.done = true
	case err != nil:
		e.done = true
		return Chunk{}, fmt.Errorf("read chunk %d: %w", e.seq, err)
	}
	c := Chunk{Seq: e.seq, Data: buf[:n]}
	e.seq++
	return c, nil
}

// reader reassembles a Source into a forward-only byte stream, validating
// that sequence numbers run exactly 0..want-1 without gaps or duplicates.
type reader struct {
	src     Source
	pending []byte
	next    int
	want    int
	err     error
}

// NewReader returns an io.ReadCloser that concatenates the payloads of src in
// sequence order. want is the expected number of chunks; reading fails with
// ErrCorruptSequence if the sequence is broken, runs past want, or the
// source ends short of it — a missing trailing chunk must not pass for a
// clean EOF. Closing early releases the source without draining it.
func NewReader(src Source, want int) io.ReadCloser {
	return &reader{src: src, want: want}
}

func (r *reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	for len(r.pending) == 0 {
		c, err := r.src.Next()
		if err == io.EOF {
			if r.next != r.want {
				r.err = fmt.Errorf("%w: got %d chunks, want %d", ErrCorruptSequence, r.next, r.want)
				return 0, r.err
			}
			r.err = io.EOF
			return 0, io.EOF
		}
		if err != nil {
			r.err = err
			return 0, err
		}
		if r.next >= r.want || c.Seq != r.next {
			r.err = fmt.Errorf("%w: want seq %d of %d, got %d", ErrCorruptSequence, r.next, r.want, c.Seq)
			return 0, r.err
		}
		r.next++
		r.pending = c.Data
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *reader) Close() error {
	if r.err == nil {
		r.err = errors.New("chunk reader closed")
	}
	return r.src.Close()
}

// SliceSource adapts an in-memory chunk slice to a Source. Used by backends
// that fetch chunks eagerly and by tests.
type SliceSource struct {
	chunks []Chunk
	pos    int
}

// NewSliceSource returns a Source over chunks in the given order.
func NewSliceSource(chunks []Chunk) *SliceSource {
	return &SliceSource{chunks: chunks}
}

// Next returns the next chunk or io.EOF.
func (s *SliceSource) Next() (Chunk, error) {
	if s.pos >= len(s.chunks) {
		return Chunk{}, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

// Close implements Source.
func (s *SliceSource) Close() error { return nil }
