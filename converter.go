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

package pcm

import "fmt"

// Converter converts runs of samples between two formats chosen at construction time.
type Converter interface {
	// Convert converts n samples from the start of src into the start of dst.
	Convert(dst, src []byte, n int)

	// ConvertChannel converts n samples of one interleaved sub-channel of src into one
	// sub-channel of dst. Other channels in either buffer are left untouched.
	ConvertChannel(dst []byte, dstChannel int, src []byte, srcChannel int, n int)
}

type converter struct {
	src, dst                 SampleFormat
	srcChannels, dstChannels int
}

// NewConverter returns a Converter reading src-formatted samples interleaved over
// srcChannels channels and writing dst-formatted samples interleaved over dstChannels.
// A channel count of 1 means contiguous samples.
func NewConverter(src, dst SampleFormat, srcChannels, dstChannels int) Converter {
	if srcChannels < 1 || dstChannels < 1 {
		panic(fmt.Sprintf("pcm: invalid converter channel counts %d -> %d", srcChannels, dstChannels))
	}

	// Validates both representations.
	_ = src.BytesPerSample() + dst.BytesPerSample()

	return &converter{
		src:         src.Resolved(),
		dst:         dst.Resolved(),
		srcChannels: srcChannels,
		dstChannels: dstChannels,
	}
}

func (c *converter) Convert(dst, src []byte, n int) {
	Convert(
		NewInterleavedCursor(dst, c.dst, c.dstChannels, ReadWrite),
		NewInterleavedCursor(src, c.src, c.srcChannels, ReadOnly),
		n,
	)
}

func (c *converter) ConvertChannel(dst []byte, dstChannel int, src []byte, srcChannel int, n int) {
	if dstChannel < 0 || dstChannel >= c.dstChannels || srcChannel < 0 || srcChannel >= c.srcChannels {
		panic(fmt.Sprintf("pcm: sub-channel out of range: dst %d of %d, src %d of %d",
			dstChannel, c.dstChannels, srcChannel, c.srcChannels))
	}

	c.Convert(dst[dstChannel*c.dst.BytesPerSample():], src[srcChannel*c.src.BytesPerSample():], n)
}
