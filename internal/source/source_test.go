package source_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcm "github.com/mycophonic/saprobe-pcm"
	"github.com/mycophonic/saprobe-pcm/flac"
	"github.com/mycophonic/saprobe-pcm/internal/source"
	"github.com/mycophonic/saprobe-pcm/wav"
)

// seekOnly hides io.ReaderAt.
type seekOnly struct {
	io.ReadSeeker
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]source.Kind{
		"raw":   source.Raw,
		"PCM":   source.Raw,
		" wav ": source.WAV,
		"flac":  source.FLAC,
		"mp3":   source.MP3,
		"wave":  source.WAV,
	} {
		got, err := source.ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := source.ParseKind("ogg")
	require.ErrorIs(t, err, source.ErrUnknownKind)
}

func TestKindFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, source.WAV, source.KindFromPath("a/b/take.WAV"))
	assert.Equal(t, source.FLAC, source.KindFromPath("song.flac"))
	assert.Equal(t, source.MP3, source.KindFromPath("song.mp3"))
	assert.Equal(t, source.Raw, source.KindFromPath("dump.bin"))
	assert.Equal(t, source.Raw, source.KindFromPath("-"))
	assert.Equal(t, "flac", source.FLAC.String())
}

func TestOpenRaw(t *testing.T) {
	t.Parallel()

	params := source.RawParams{
		Format:     pcm.SampleFormat{Representation: pcm.Int24, Order: pcm.BigEndian},
		Channels:   2,
		SampleRate: 96000,
	}

	src, err := source.Open(source.Raw, bytes.NewReader(make([]byte, 6*10+4)), params)
	require.NoError(t, err)
	assert.Len(t, src.Data, 60)
	assert.Equal(t, 10, src.Frames())
	assert.Equal(t, params.Format, src.Format)
	assert.Equal(t, 96000, src.SampleRate)

	_, err = source.Open(source.Raw, bytes.NewReader(nil), source.RawParams{Channels: 2, SampleRate: 8000})
	require.ErrorIs(t, err, source.ErrRawParams)
}

func TestOpenWAV(t *testing.T) {
	t.Parallel()

	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}

	var buf bytes.Buffer
	require.NoError(t, wav.Encode(&buf, data, pcm.SampleFormat{Representation: pcm.Int16}, 2, 22050))

	for name, r := range map[string]io.ReadSeeker{
		"reader at": bytes.NewReader(buf.Bytes()),
		"seek only": seekOnly{bytes.NewReader(buf.Bytes())},
	} {
		src, err := source.Open(source.WAV, r, source.RawParams{})
		require.NoError(t, err, name)
		assert.Equal(t, data, src.Data, name)
		assert.Equal(t, 2, src.Channels, name)
		assert.Equal(t, 22050, src.SampleRate, name)
		assert.True(t, src.Format.Equal(pcm.SampleFormat{Representation: pcm.Int16}), name)
	}
}

func TestOpenFLAC(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3*2*64)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, flac.Encode(&buf, data, flac.PCMFormat{SampleRate: 48000, BitDepth: flac.Depth24, Channels: 2}))

	src, err := source.Open(source.FLAC, bytes.NewReader(buf.Bytes()), source.RawParams{})
	require.NoError(t, err)
	assert.Equal(t, data, src.Data)
	assert.Equal(t, 64, src.Frames())
	assert.True(t, src.Format.Equal(pcm.SampleFormat{Representation: pcm.Int24}))
}

func TestOpenFLACNarrowDepthFillsContainer(t *testing.T) {
	t.Parallel()

	// 12-bit samples: full scale, negative full scale, one step.
	data := make([]byte, 3*2)
	for i, v := range []int16{2047, -2048, 1} {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v)) //nolint:gosec // reinterpretation.
	}

	var buf bytes.Buffer
	require.NoError(t, flac.Encode(&buf, data, flac.PCMFormat{SampleRate: 8000, BitDepth: flac.Depth12, Channels: 1}))

	src, err := source.Open(source.FLAC, bytes.NewReader(buf.Bytes()), source.RawParams{})
	require.NoError(t, err)
	require.Len(t, src.Data, 6)

	for i, want := range []int16{2047 << 4, -2048 << 4, 1 << 4} {
		assert.Equal(t, want, int16(binary.LittleEndian.Uint16(src.Data[i*2:])), "sample %d", i) //nolint:gosec // reinterpretation.
	}

	// Converted to float, full scale stays near full scale.
	reader := pcm.NewCursor(src.Data, src.Format, pcm.ReadOnly)
	assert.InDelta(t, 2047.0/2048, float64(reader.Float()), 1e-6)
}

func TestOpenDecodeFailures(t *testing.T) {
	t.Parallel()

	for _, kind := range []source.Kind{source.WAV, source.FLAC, source.MP3} {
		_, err := source.Open(kind, bytes.NewReader(nil), source.RawParams{})
		require.ErrorIs(t, err, source.ErrDecode, kind.String())
	}

	_, err := source.Open(source.Kind(42), bytes.NewReader(nil), source.RawParams{})
	require.ErrorIs(t, err, source.ErrUnknownKind)
}
