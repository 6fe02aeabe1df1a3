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
	"github.com/mewkiz/flac/meta"

	pcm "github.com/mycophonic/saprobe-pcm"
)

// ErrPCMLength is returned when the PCM input does not hold a whole number of frames.
var ErrPCMLength = errors.New("pcm length is not a multiple of frame size")

const defaultBlockSize = 4096

// Encode writes interleaved PCM bytes as a FLAC stream to writer.
// format.Sample describes the input layout; the zero value means little-endian signed PCM in
// the container of format.BitDepth, which makes Encode the inverse of Decode.
func Encode(writer io.Writer, data []byte, format PCMFormat) error {
	if !slices.Contains(flacBitDepths, format.BitDepth) {
		return fmt.Errorf("%w: %d", ErrBitDepth, format.BitDepth)
	}

	nChannels := int(format.Channels) //nolint:gosec // Channels is 1-8, fits int.
	frameSize := format.FrameSize()

	if frameSize == 0 || len(data)%frameSize != 0 {
		return fmt.Errorf("%w: pcm=%d, frame=%d", ErrPCMLength, len(data), frameSize)
	}

	totalSamples := len(data) / frameSize

	info := &meta.StreamInfo{
		BlockSizeMin:  defaultBlockSize,
		BlockSizeMax:  defaultBlockSize,
		SampleRate:    uint32(format.SampleRate), //nolint:gosec // SampleRate is always positive and fits uint32.
		NChannels:     uint8(nChannels),          //nolint:gosec // Channels is 1-8, fits uint8.
		BitsPerSample: uint8(format.BitDepth),    //nolint:gosec // BitDepth is 4-32, fits uint8.
		NSamples:      uint64(totalSamples),      //nolint:gosec // totalSamples is always positive.
	}

	enc, err := goflac.NewEncoder(writer, info)
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}

	// Pre-allocate per-channel buffers at max block size; reused across frames.
	channels := make([][]int32, nChannels)
	for ch := range channels {
		channels[ch] = make([]int32, defaultBlockSize)
	}

	d := &deinterleaver{
		conv:    pcm.NewConverter(format.sampleFormat(), scratchFormat, nChannels, 1),
		scratch: make([]byte, defaultBlockSize*scratchFormat.BytesPerSample()),
		shift:   format.BitDepth.containerShift(),
		depth:   uint(format.BitDepth),
		padded:  uint(format.BitDepth) < uint(8*format.BitDepth.BytesPerSample()), //nolint:gosec // at most 32.
	}

	remaining := totalSamples
	offset := 0

	for remaining > 0 {
		blockSamples := min(remaining, defaultBlockSize)

		d.deinterleave(channels, data[offset:], blockSamples)
		offset += blockSamples * frameSize
		remaining -= blockSamples

		f := buildFrame(channels, blockSamples, format)

		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	return nil
}

// deinterleaver splits interleaved PCM of any sample format into per-channel int32 samples
// right-justified at the stream bit depth. It is the inverse of Decoder.interleave.
type deinterleaver struct {
	conv    pcm.Converter
	scratch []byte
	shift   uint
	depth   uint
	// Set when the container is wider than the stream depth (4, 12 and 20 bits).
	padded  bool
}

func (d *deinterleaver) deinterleave(channels [][]int32, data []byte, blockSize int) {
	scratch := d.scratch[:blockSize*scratchFormat.BytesPerSample()]

	for ch := range channels {
		// Reslice to exact block size (channels were allocated at max block size).
		channels[ch] = channels[ch][:blockSize]

		d.conv.ConvertChannel(scratch, 0, data, ch, blockSize)

		for i := range blockSize {
			s := int32(binary.NativeEndian.Uint32(scratch[i*4:])) //nolint:gosec // reinterpretation.
			s >>= d.shift

			if d.padded {
				s = clampDepth(s, d.depth)
			}

			channels[ch][i] = s
		}
	}
}

// clampDepth keeps a container value within the signed range of a narrower stream depth.
func clampDepth(s int32, depth uint) int32 {
	limit := int32(1)<<(depth-1) - 1

	return max(min(s, limit), -limit-1)
}

// buildFrame constructs a FLAC frame from per-channel int32 samples.
func buildFrame(channels [][]int32, blockSize int, format PCMFormat) *frame.Frame {
	nChannels := len(channels)
	chanAssignment := frame.Channels(nChannels - 1) //nolint:gosec // nChannels is 1-8, always >= 1.

	subframes := make([]*frame.Subframe, nChannels)
	for ch := range nChannels {
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred: frame.PredVerbatim,
			},
			Samples:  channels[ch],
			NSamples: blockSize,
		}
	}

	return &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(blockSize),         //nolint:gosec // blockSize <= 4096, fits uint16.
			SampleRate:        uint32(format.SampleRate), //nolint:gosec // SampleRate is always positive.
			Channels:          chanAssignment,
			BitsPerSample:     uint8(format.BitDepth), //nolint:gosec // BitDepth is 4-32, fits uint8.
		},
		Subframes: subframes,
	}
}
