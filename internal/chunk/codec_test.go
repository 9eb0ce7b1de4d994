package chunk

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, e *Encoder) []Chunk {
	t.Helper()
	var out []Chunk
	for {
		c, err := e.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, c)
	}
}

func TestEncoderSplitsIntoFixedChunks(t *testing.T) {
	e, err := NewEncoder(strings.NewReader("0123456789"), 4)
	require.NoError(t, err)

	chunks := collect(t, e)
	require.Len(t, chunks, 3)
	assert.Equal(t, []byte("0123"), chunks[0].Data)
	assert.Equal(t, []byte("4567"), chunks[1].Data)
	assert.Equal(t, []byte("89"), chunks[2].Data)
	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
	}
}

func TestEncoderExactMultiple(t *testing.T) {
	e, err := NewEncoder(strings.NewReader("abcdef"), 3)
	require.NoError(t, err)

	chunks := collect(t, e)
	require.Len(t, chunks, 2)
	assert.Equal(t, []byte("abc"), chunks[0].Data)
	assert.Equal(t, []byte("def"), chunks[1].Data)
}

func TestEncoderEmptyInput(t *testing.T) {
	e, err := NewEncoder(strings.NewReader(""), 4)
	require.NoError(t, err)

	assert.Empty(t, collect(t, e))
}

func TestEncoderRejectsZeroSize(t *testing.T) {
	_, err := NewEncoder(strings.NewReader("x"), 0)
	assert.Error(t, err)
}

func TestEncoderPropagatesReadError(t *testing.T) {
	e, err := NewEncoder(io.MultiReader(strings.NewReader("abcd"), iotest{}), 4)
	require.NoError(t, err)

	_, err = e.Next()
	require.NoError(t, err)
	_, err = e.Next()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

// iotest always fails; stand-in for a dropped client connection.
type iotest struct{}

func (iotest) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("a"),
		[]byte("0123456789"),
		bytes.Repeat([]byte{0xAB}, 1<<16),
	}
	sizes := []int{1, 3, 255 * 1024}

	for _, payload := range payloads {
		for _, size := range sizes {
			e, err := NewEncoder(bytes.NewReader(payload), size)
			require.NoError(t, err)

			chunks := collect(t, e)
			r := NewReader(NewSliceSource(chunks), len(chunks))
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, string(payload), string(got), "len=%d size=%d", len(payload), size)
		}
	}
}

func TestReaderDetectsGap(t *testing.T) {
	r := NewReader(NewSliceSource([]Chunk{
		{Seq: 0, Data: []byte("aa")},
		{Seq: 2, Data: []byte("cc")},
	}), 3)
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, ErrCorruptSequence)
}

func TestReaderDetectsDuplicate(t *testing.T) {
	r := NewReader(NewSliceSource([]Chunk{
		{Seq: 0, Data: []byte("aa")},
		{Seq: 0, Data: []byte("aa")},
	}), 2)
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, ErrCorruptSequence)
}

func TestReaderDetectsOutOfOrder(t *testing.T) {
	r := NewReader(NewSliceSource([]Chunk{
		{Seq: 1, Data: []byte("bb")},
		{Seq: 0, Data: []byte("aa")},
	}), 2)
	var buf [1]byte
	_, err := r.Read(buf[:])
	assert.ErrorIs(t, err, ErrCorruptSequence)
}

func TestReaderDetectsMissingTrailingChunk(t *testing.T) {
	// A source that ends one chunk early must not read as a clean EOF.
	r := NewReader(NewSliceSource([]Chunk{
		{Seq: 0, Data: []byte("0123")},
	}), 2)
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, ErrCorruptSequence)
}

func TestReaderDetectsExtraChunk(t *testing.T) {
	r := NewReader(NewSliceSource([]Chunk{
		{Seq: 0, Data: []byte("0123")},
		{Seq: 1, Data: []byte("4567")},
	}), 1)
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, ErrCorruptSequence)
}

func TestReaderPartialConsumptionAndClose(t *testing.T) {
	src := &closeTrackingSource{SliceSource: NewSliceSource([]Chunk{
		{Seq: 0, Data: []byte("0123")},
		{Seq: 1, Data: []byte("4567")},
	})}
	r := NewReader(src, 2)

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "01", string(buf[:n]))

	require.NoError(t, r.Close())
	assert.True(t, src.closed)

	_, err = r.Read(buf)
	assert.Error(t, err)
}

type closeTrackingSource struct {
	*SliceSource
	closed bool
}

func (s *closeTrackingSource) Close() error {
	s.closed = true
	return s.SliceSource.Close()
}
