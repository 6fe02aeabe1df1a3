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

// Interleave writes n frames into dst from one planar buffer per channel, so that
// dst[i*len(src)+ch] = src[ch][i]. Values are copied unchanged.
func Interleave(dst []float32, src [][]float32, n int) {
	channels := len(src)

	for ch, plane := range src {
		for i := range n {
			dst[i*channels+ch] = plane[i]
		}
	}
}

// Deinterleave is the inverse of Interleave: dst[ch][i] = src[i*len(dst)+ch].
func Deinterleave(dst [][]float32, src []float32, n int) {
	channels := len(dst)

	for ch, plane := range dst {
		for i := range n {
			plane[i] = src[i*channels+ch]
		}
	}
}
