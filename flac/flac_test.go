package flac_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/mycophonic/agar/pkg/agar"
	"gotest.tools/assert"

	pcm "github.com/mycophonic/saprobe-pcm"
	"github.com/mycophonic/saprobe-pcm/flac"
)

// All encodable FLAC bit depths (4-bit excluded: no frame header bit pattern in FLAC).
//
//nolint:gochecknoglobals
var encodableDepths = []flac.BitDepth{
	flac.Depth8, flac.Depth12, flac.Depth16, flac.Depth20, flac.Depth24, flac.Depth32,
}

// whiteNoise returns little-endian container PCM whose samples stay within depth.
func whiteNoise(depth flac.BitDepth, channels, frames int) []byte {
	bytesPerSample := depth.BytesPerSample()
	numSamples := channels * frames
	buf := make([]byte, numSamples*bytesPerSample)
	span := uint64(1)<<(uint(depth)-1) - 1

	seed := uint64(0x12345678)

	for i := range numSamples {
		// xorshift64
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17

		val := int64(seed%(2*span+1)) - int64(span) //nolint:gosec // bounded by span.
		off := i * bytesPerSample

		for b := range bytesPerSample {
			buf[off+b] = byte(val >> (8 * b))
		}
	}

	return buf
}

func encode(t *testing.T, data []byte, format flac.PCMFormat) []byte {
	t.Helper()

	var buf bytes.Buffer

	assert.NilError(t, flac.Encode(&buf, data, format))

	return buf.Bytes()
}

func TestBitDepthContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		depth flac.BitDepth
		want  pcm.Representation
		bytes int
	}{
		{flac.Depth4, pcm.Int8, 1},
		{flac.Depth8, pcm.Int8, 1},
		{flac.Depth12, pcm.Int16, 2},
		{flac.Depth16, pcm.Int16, 2},
		{flac.Depth20, pcm.Int24, 3},
		{flac.Depth24, pcm.Int24, 3},
		{flac.Depth32, pcm.Int32, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.depth.Container(), tt.want)
		assert.Equal(t, tt.depth.BytesPerSample(), tt.bytes)
	}

	assert.Assert(t, func() (panicked bool) {
		defer func() { panicked = recover() != nil }()

		flac.BitDepth(10).Container()

		return false
	}())
}

func TestRoundTripNative(t *testing.T) {
	t.Parallel()

	for _, depth := range encodableDepths {
		for _, channels := range []int{1, 2, 3, 6} {
			t.Run(fmt.Sprintf("%dbit_%dch", depth, channels), func(t *testing.T) {
				t.Parallel()

				// Spans more than one 4096-sample block.
				src := whiteNoise(depth, channels, 5000)
				format := flac.PCMFormat{SampleRate: 44100, BitDepth: depth, Channels: uint(channels)} //nolint:gosec // small.

				decoded, got, err := flac.Decode(bytes.NewReader(encode(t, src, format)))
				assert.NilError(t, err)
				assert.Equal(t, got.SampleRate, 44100)
				assert.Equal(t, got.BitDepth, depth)
				assert.Equal(t, got.Channels, uint(channels)) //nolint:gosec // small.
				assert.Equal(t, got.Sample, depth.NativeSampleFormat())
				assert.Assert(t, bytes.Equal(decoded, src), "decoded PCM differs from source")
			})
		}
	}
}

func TestDecodeAsFloat(t *testing.T) {
	t.Parallel()

	src := make([]byte, 4*2)
	for i, v := range []int16{16384, -16384, 8192, -32768} {
		binary.LittleEndian.PutUint16(src[i*2:], uint16(v)) //nolint:gosec // reinterpretation.
	}

	encoded := encode(t, src, flac.PCMFormat{SampleRate: 48000, BitDepth: flac.Depth16, Channels: 2})

	f32 := pcm.SampleFormat{Representation: pcm.Float32, Order: pcm.LittleEndian}

	decoded, format, err := flac.DecodeAs(bytes.NewReader(encoded), f32)
	assert.NilError(t, err)
	assert.Equal(t, format.Sample, f32)
	assert.Equal(t, format.FrameSize(), 8)
	assert.Equal(t, len(decoded), 16)

	for i, want := range []float32{0.5, -0.5, 0.25, -1} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(decoded[i*4:]))
		assert.Equal(t, got, want, "sample %d", i)
	}
}

func TestStreamingDecoderSmallReads(t *testing.T) {
	t.Parallel()

	src := whiteNoise(flac.Depth24, 2, 4100)
	encoded := encode(t, src, flac.PCMFormat{SampleRate: 96000, BitDepth: flac.Depth24, Channels: 2})

	s24be := pcm.SampleFormat{Representation: pcm.Int24, Order: pcm.BigEndian}

	dec, err := flac.NewDecoderAs(bytes.NewReader(encoded), s24be)
	assert.NilError(t, err)

	defer dec.Close()

	var out bytes.Buffer

	chunk := make([]byte, 7)

	for {
		n, readErr := dec.Read(chunk)
		out.Write(chunk[:n])

		if readErr != nil {
			break
		}
	}

	got := out.Bytes()
	assert.Equal(t, len(got), len(src))

	for i := 0; i < len(src); i += 3 {
		assert.Equal(t, got[i], src[i+2])
		assert.Equal(t, got[i+1], src[i+1])
		assert.Equal(t, got[i+2], src[i])
	}
}

func TestEncodeForeignLayout(t *testing.T) {
	t.Parallel()

	// The same signal as big-endian int16 and as float32 encodes to the same stream.
	native := whiteNoise(flac.Depth16, 2, 1000)
	format := flac.PCMFormat{SampleRate: 22050, BitDepth: flac.Depth16, Channels: 2}

	bigEndian := make([]byte, len(native))
	for i := 0; i < len(native); i += 2 {
		bigEndian[i], bigEndian[i+1] = native[i+1], native[i]
	}

	beFormat := format
	beFormat.Sample = pcm.SampleFormat{Representation: pcm.Int16, Order: pcm.BigEndian}

	floats := make([]byte, len(native)*2)
	pcm.NewConverter(format.BitDepth.NativeSampleFormat(), pcm.SampleFormat{Representation: pcm.Float32}, 1, 1).
		Convert(floats, native, len(native)/2)

	floatFormat := format
	floatFormat.Sample = pcm.SampleFormat{Representation: pcm.Float32}

	want := encode(t, native, format)
	assert.Assert(t, bytes.Equal(encode(t, bigEndian, beFormat), want))
	assert.Assert(t, bytes.Equal(encode(t, floats, floatFormat), want))
}

func TestEncodeClampsNarrowDepth(t *testing.T) {
	t.Parallel()

	// Full-scale float at 12 bits saturates to the 12-bit range.
	floats := make([]byte, 8)
	binary.LittleEndian.PutUint32(floats, math.Float32bits(1))
	binary.LittleEndian.PutUint32(floats[4:], math.Float32bits(-1))

	format := flac.PCMFormat{
		SampleRate: 8000,
		BitDepth:   flac.Depth12,
		Channels:   1,
		Sample:     pcm.SampleFormat{Representation: pcm.Float32},
	}

	decoded, _, err := flac.Decode(bytes.NewReader(encode(t, floats, format)))
	assert.NilError(t, err)

	assert.Equal(t, int16(binary.LittleEndian.Uint16(decoded)), int16(2047))     //nolint:gosec // reinterpretation.
	assert.Equal(t, int16(binary.LittleEndian.Uint16(decoded[2:])), int16(-2048)) //nolint:gosec // reinterpretation.
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := flac.Encode(&buf, make([]byte, 5), flac.PCMFormat{SampleRate: 44100, BitDepth: flac.Depth16, Channels: 2})
	assert.Assert(t, errors.Is(err, flac.ErrPCMLength))

	err = flac.Encode(&buf, make([]byte, 4), flac.PCMFormat{SampleRate: 44100, BitDepth: 10, Channels: 2})
	assert.Assert(t, errors.Is(err, flac.ErrBitDepth))

	_, _, err = flac.Decode(bytes.NewReader([]byte("not a flac stream")))
	assert.Assert(t, errors.Is(err, flac.ErrReadFailure))
}

// TestReferenceDecoderAgrees decodes our output with the reference flac binary.
func TestReferenceDecoderAgrees(t *testing.T) {
	t.Parallel()

	flacBin, err := agar.LookFor("flac")
	if err != nil {
		t.Skip("standalone flac binary not found")
	}

	for _, depth := range []int{16, 24} {
		t.Run(fmt.Sprintf("%dbit", depth), func(t *testing.T) {
			t.Parallel()

			src := agar.GenerateWhiteNoise(44100, depth, 2, 1)
			encPath := filepath.Join(t.TempDir(), "encoded.flac")
			encoded := encode(t, src, flac.PCMFormat{SampleRate: 44100, BitDepth: flac.BitDepth(depth), Channels: 2})
			assert.NilError(t, os.WriteFile(encPath, encoded, 0o600))

			var stdout, stderr bytes.Buffer

			cmd := exec.Command(flacBin,
				"-d", "-f",
				"--force-raw-format",
				"--sign=signed",
				"--endian=little",
				"-o", "-",
				encPath,
			)
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			assert.NilError(t, cmd.Run(), stderr.String())
			assert.Assert(t, bytes.Equal(stdout.Bytes(), src), "reference decoder output differs")
		})
	}
}
