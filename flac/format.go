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
	"fmt"

	pcm "github.com/mycophonic/saprobe-pcm"
)

// BitDepth represents the bit depth of a FLAC stream.
type BitDepth uint

// Standard PCM bit depths.
const (
	Depth4  BitDepth = 4
	Depth8  BitDepth = 8
	Depth12 BitDepth = 12
	Depth16 BitDepth = 16
	Depth20 BitDepth = 20
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// Container returns the sample representation that holds one sample of this depth.
// Samples keep their value: a 12-bit sample is stored sign-extended in an int16, not
// shifted up to full scale.
func (d BitDepth) Container() pcm.Representation {
	switch d {
	case Depth4, Depth8:
		return pcm.Int8
	case Depth12, Depth16:
		return pcm.Int16
	case Depth20, Depth24:
		return pcm.Int24
	case Depth32:
		return pcm.Int32
	default:
		panic(fmt.Sprintf("flac: Container called with unsupported bit depth %d", d))
	}
}

// BytesPerSample returns the number of bytes needed to store one sample.
func (d BitDepth) BytesPerSample() int {
	return d.Container().BytesPerSample()
}

// containerShift is the left shift placing a container value at the top of an int32.
func (d BitDepth) containerShift() uint {
	return uint(32 - 8*d.BytesPerSample()) //nolint:gosec // at most 24.
}

// NativeSampleFormat is the little-endian container layout of d, which is what Decode
// produces and Encode expects by default.
func (d BitDepth) NativeSampleFormat() pcm.SampleFormat {
	return pcm.SampleFormat{Representation: d.Container(), Order: pcm.LittleEndian}
}

// PCMFormat describes raw interleaved PCM audio on the decoded side of a FLAC stream.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
	// Sample is the layout of each sample in the PCM bytes. The zero value selects the
	// little-endian container of BitDepth.
	Sample pcm.SampleFormat
}

// sampleFormat returns Sample, defaulting to the native container layout.
func (f PCMFormat) sampleFormat() pcm.SampleFormat {
	if f.Sample.Representation == 0 {
		return f.BitDepth.NativeSampleFormat()
	}

	return f.Sample
}

// FrameSize returns the number of bytes in one interleaved frame.
func (f PCMFormat) FrameSize() int {
	return int(f.Channels) * f.sampleFormat().BytesPerSample() //nolint:gosec // Channels is 1-8.
}
