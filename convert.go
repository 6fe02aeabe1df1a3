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

// Convert copies n samples from src into dst, converting between their formats.
//
// Samples whose format matches exactly are copied byte for byte. Everything else goes
// through a single numeric pivot: float when dst stores floats, left-justified int32
// otherwise.
//
// When both cursors start at the same address and each destination sample occupies at
// least as many bytes as a source sample, the copy runs from the last sample down to the
// first so that widening in place never overwrites source data that has not been read yet.
// Other partial overlaps are not supported.
//
// dst must be writable. The cursors are taken by value and the caller's copies do not move.
func Convert(dst, src Cursor, n int) {
	dst.mustWrite("Convert")

	if n <= 0 {
		return
	}

	step := dst.convertFrom
	if dst.format == src.format {
		step = dst.CopySample
	}

	if !dst.startsAt(&src) || dst.stride < src.stride {
		for range n {
			step(&src)
			dst.Advance()
			src.Advance()
		}

		return
	}

	dst.Skip(n)
	src.Skip(n)

	for range n {
		dst.Skip(-1)
		src.Skip(-1)
		step(&src)
	}
}

func (c *Cursor) convertFrom(src *Cursor) {
	if c.format.Representation.IsFloat() {
		c.SetFloat(src.Float())

		return
	}

	c.SetInt32(src.Int32())
}
