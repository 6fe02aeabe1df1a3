package flac_test

import (
	"bytes"
	"testing"

	"github.com/mycophonic/agar/pkg/agar"

	pcm "github.com/mycophonic/saprobe-pcm"
	"github.com/mycophonic/saprobe-pcm/flac"
)

type benchFormat struct {
	Name       string
	SampleRate int
	BitDepth   int
	Channels   int
}

//nolint:gochecknoglobals
var benchFormats = []benchFormat{
	{"CD 44.1kHz/16bit", 44100, 16, 2},
	{"HiRes 96kHz/24bit", 96000, 24, 2},
	{"Studio 192kHz/32bit", 192000, 32, 2},
}

func benchStream(b *testing.B, bf benchFormat) ([]byte, flac.PCMFormat) {
	b.Helper()

	format := flac.PCMFormat{
		SampleRate: bf.SampleRate,
		BitDepth:   flac.BitDepth(bf.BitDepth),
		Channels:   uint(bf.Channels), //nolint:gosec // channels is 1-8.
	}

	var buf bytes.Buffer
	if err := flac.Encode(&buf, agar.GenerateWhiteNoise(bf.SampleRate, bf.BitDepth, bf.Channels, 2), format); err != nil {
		b.Fatalf("encode: %v", err)
	}

	return buf.Bytes(), format
}

func BenchmarkDecode(b *testing.B) {
	for _, bf := range benchFormats {
		encoded, _ := benchStream(b, bf)

		for _, target := range []struct {
			name   string
			sample pcm.SampleFormat
		}{
			{"native", pcm.SampleFormat{}},
			{"float32", pcm.SampleFormat{Representation: pcm.Float32, Order: pcm.NativeEndian}},
		} {
			b.Run(bf.Name+"/"+target.name, func(b *testing.B) {
				for b.Loop() {
					if _, _, err := flac.DecodeAs(bytes.NewReader(encoded), target.sample); err != nil {
						b.Fatalf("decode: %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	for _, bf := range benchFormats {
		srcPCM := agar.GenerateWhiteNoise(bf.SampleRate, bf.BitDepth, bf.Channels, 2)
		_, format := benchStream(b, bf)

		b.Run(bf.Name, func(b *testing.B) {
			b.SetBytes(int64(len(srcPCM)))

			for b.Loop() {
				var buf bytes.Buffer
				if err := flac.Encode(&buf, srcPCM, format); err != nil {
					b.Fatalf("encode: %v", err)
				}
			}
		})
	}
}
