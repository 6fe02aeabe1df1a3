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

// Package pcm converts runs of PCM audio samples between encodings.
//
// A sample format is a Representation (8-bit signed or unsigned, 16, 24 and 32-bit signed
// integers, 32-bit float) paired with a ByteOrder. A Cursor binds a format to a caller-owned
// byte slice, optionally walking one channel of interleaved frames, and reads or writes the
// current sample either as a normalized float or as a left-justified int32.
//
// Convert moves samples between any two cursors, including in-place widening where source
// and destination share the same memory. Converter wraps a fixed pair of formats behind an
// interface, and FloatToFormat / FormatToFloat bridge native float slices to the
// StandardFormat layouts used by external codecs.
//
// Example:
//
//	src := []byte{0x00, 0x00, 0xff, 0x7f} // int16le: 0, 32767
//	dst := make([]float32, 2)
//	pcm.FormatToFloat(pcm.Int16LE, dst, src, 2)
//
// Nothing in this package allocates, locks or performs I/O. Misuse, such as writing
// through a ReadOnly cursor, panics.
package pcm
