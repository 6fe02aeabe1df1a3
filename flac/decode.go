/*
   Copyright Mycophonic.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package flac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	pcm "github.com/mycophonic/saprobe-pcm"
)

//nolint:gochecknoglobals
var flacBitDepths = []BitDepth{
	Depth4,
	Depth8,
	Depth12,
	Depth16,
	Depth20,
	Depth24,
	Depth32,
}

//nolint:gochecknoglobals
var scratchFormat = pcm.SampleFormat{Representation: pcm.Int32, Order: pcm.NativeEndian}

var (
	// ErrBitDepth is returned when a FLAC stream has an unsupported bit depth.
	ErrBitDepth = errors.New("unsupported bit depth")

	// ErrReadFailure is returned when reading from the FLAC stream fails.
	ErrReadFailure = errors.New("read failure")
)

// Decoder streams decoded PCM from a FLAC source.
type Decoder struct {
	stream    *goflac.Stream
	format    PCMFormat
	nChannels int
	frameSize int
	shift     uint
	conv      pcm.Converter

	// One channel of the current frame, left-justified int32 in host order.
	scratch []byte

	// Per-frame buffer: filled by ParseNext + interleave, drained by Read.
	buf    []byte
	bufOff int
	eof    bool
}

// NewDecoder opens a FLAC stream and returns a streaming decoder producing interleaved
// little-endian signed PCM in the container of the stream bit depth.
// The caller should call Close when done.
func NewDecoder(rs io.ReadSeeker) (*Decoder, error) {
	return NewDecoderAs(rs, pcm.SampleFormat{})
}

// NewDecoderAs is like NewDecoder but produces samples in the given format.
// A zero format selects the little-endian container of the stream bit depth.
func NewDecoderAs(rs io.ReadSeeker, sample pcm.SampleFormat) (*Decoder, error) {
	stream, err := goflac.New(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	info := stream.Info
	nChannels := int(info.NChannels)

	bitDepth := BitDepth(info.BitsPerSample)
	if !slices.Contains(flacBitDepths, bitDepth) {
		_ = stream.Close()

		return nil, ErrBitDepth
	}

	format := PCMFormat{
		SampleRate: int(info.SampleRate),
		BitDepth:   bitDepth,
		Channels:   uint(nChannels), //nolint:gosec // nChannels comes from uint8, always fits in uint.
		Sample:     sample,
	}
	format.Sample = format.sampleFormat()

	return &Decoder{
		stream:    stream,
		format:    format,
		nChannels: nChannels,
		frameSize: format.FrameSize(),
		shift:     bitDepth.containerShift(),
		conv:      pcm.NewConverter(scratchFormat, format.Sample, 1, nChannels),
	}, nil
}

// Format returns the PCM output format.
func (d *Decoder) Format() PCMFormat { return d.format }

// Read reads decoded PCM bytes from the FLAC stream.
func (d *Decoder) Read(p []byte) (int, error) { //nolint:varnamelen // p is idiomatic for io.Reader.Read
	total := 0

	for len(p) > 0 {
		// Drain buffered frame data.
		if d.bufOff < len(d.buf) {
			n := copy(p, d.buf[d.bufOff:])
			d.bufOff += n
			total += n
			p = p[n:]

			continue
		}

		if d.eof {
			if total > 0 {
				return total, nil
			}

			return 0, io.EOF
		}

		// Decode next frame.
		audioFrame, parseErr := d.stream.ParseNext()
		if errors.Is(parseErr, io.EOF) {
			d.eof = true

			if total > 0 {
				return total, nil
			}

			return 0, io.EOF
		}

		if parseErr != nil {
			return total, fmt.Errorf("%w: %w", ErrReadFailure, parseErr)
		}

		blockSize := int(audioFrame.BlockSize)
		frameBytes := blockSize * d.frameSize

		// Grow frame buffer if needed.
		if cap(d.buf) < frameBytes {
			d.buf = make([]byte, frameBytes)
		} else {
			d.buf = d.buf[:frameBytes]
		}

		d.interleave(audioFrame.Subframes, blockSize)
		d.bufOff = 0
	}

	return total, nil
}

// Close releases resources held by the FLAC stream.
func (d *Decoder) Close() error {
	if err := d.stream.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}

	return nil
}

// Decode reads a FLAC stream and decodes it to interleaved little-endian signed PCM bytes.
// Native bit depth is preserved (16-bit FLAC produces s16le, 24-bit produces s24le, etc.).
func Decode(rs io.ReadSeeker) ([]byte, PCMFormat, error) {
	return DecodeAs(rs, pcm.SampleFormat{})
}

// DecodeAs reads a whole FLAC stream into interleaved PCM of the given sample format.
func DecodeAs(rs io.ReadSeeker, sample pcm.SampleFormat) ([]byte, PCMFormat, error) {
	dec, err := NewDecoderAs(rs, sample)
	if err != nil {
		return nil, PCMFormat{}, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, PCMFormat{}, fmt.Errorf("decoding flac: %w", err)
	}

	return data, dec.Format(), nil
}

// interleave writes each subframe into its channel slot of d.buf.
// Samples are placed in the container at the top of an int32, so converting to the container
// representation gives back the right-justified value unchanged.
func (d *Decoder) interleave(subframes []*frame.Subframe, blockSize int) {
	need := blockSize * scratchFormat.BytesPerSample()
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}

	scratch := d.scratch[:need]

	for ch, sub := range subframes[:d.nChannels] {
		for i, s := range sub.Samples[:blockSize] {
			binary.NativeEndian.PutUint32(scratch[i*4:], uint32(s<<d.shift)) //nolint:gosec // reinterpretation.
		}

		d.conv.ConvertChannel(d.buf, ch, scratch, 0, blockSize)
	}
}
