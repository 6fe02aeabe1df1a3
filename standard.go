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

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"
)

// ErrUnknownFormat is returned when a format name does not match any StandardFormat.
var ErrUnknownFormat = errors.New("unknown sample format")

// StandardFormat is one of the common packed PCM layouts exchanged with external encoders
// and decoders. Integers are signed two's complement, floats are IEEE-754.
type StandardFormat uint8

// Standard formats.
const (
	Int16LE StandardFormat = iota
	Int16BE
	Int24LE
	Int24BE
	Int32LE
	Int32BE
	Float32LE
	Float32BE
)

// StandardFormats returns every StandardFormat in declaration order.
func StandardFormats() []StandardFormat {
	return []StandardFormat{Int16LE, Int16BE, Int24LE, Int24BE, Int32LE, Int32BE, Float32LE, Float32BE}
}

// SampleFormat returns the representation and byte order of f.
func (f StandardFormat) SampleFormat() SampleFormat {
	switch f {
	case Int16LE:
		return SampleFormat{Int16, LittleEndian}
	case Int16BE:
		return SampleFormat{Int16, BigEndian}
	case Int24LE:
		return SampleFormat{Int24, LittleEndian}
	case Int24BE:
		return SampleFormat{Int24, BigEndian}
	case Int32LE:
		return SampleFormat{Int32, LittleEndian}
	case Int32BE:
		return SampleFormat{Int32, BigEndian}
	case Float32LE:
		return SampleFormat{Float32, LittleEndian}
	case Float32BE:
		return SampleFormat{Float32, BigEndian}
	}
	panic(fmt.Sprintf("pcm: invalid standard format %d", f))
}

// BytesPerSample returns the natural width of one sample.
func (f StandardFormat) BytesPerSample() int { return f.SampleFormat().BytesPerSample() }

func (f StandardFormat) String() string {
	if f > Float32BE {
		return fmt.Sprintf("StandardFormat(%d)", f)
	}

	return f.SampleFormat().String()
}

// StandardFormatOf returns the StandardFormat storing samples exactly like sf.
func StandardFormatOf(sf SampleFormat) (StandardFormat, bool) {
	for _, f := range StandardFormats() {
		if f.SampleFormat().Equal(sf) {
			return f, true
		}
	}

	return 0, false
}

// ParseStandardFormat parses names such as "int16le", "s24be" or "f32le".
func ParseStandardFormat(name string) (StandardFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int16le", "s16le", "s16":
		return Int16LE, nil
	case "int16be", "s16be":
		return Int16BE, nil
	case "int24le", "s24le", "s24":
		return Int24LE, nil
	case "int24be", "s24be":
		return Int24BE, nil
	case "int32le", "s32le", "s32":
		return Int32LE, nil
	case "int32be", "s32be":
		return Int32BE, nil
	case "float32le", "f32le", "f32", "float":
		return Float32LE, nil
	case "float32be", "f32be":
		return Float32BE, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FloatToFormat encodes n native floats from src into dst using format.
func FloatToFormat(format StandardFormat, dst []byte, src []float32, n int) {
	FloatToFormatStride(format, dst, src, n, 0)
}

// FloatToFormatStride is FloatToFormat with encoded samples placed bytesPerSample apart.
// Bytes past the sample width in each slot are left as they are. Zero selects the natural
// width.
func FloatToFormatStride(format StandardFormat, dst []byte, src []float32, n int, bytesPerSample int) {
	Convert(
		newStridedCursor(dst, format.SampleFormat(), bytesPerSample, ReadWrite),
		NewCursor(floatBytes(src), nativeFloat, ReadOnly),
		n,
	)
}

// FormatToFloat decodes n samples of format from src into native floats in dst.
func FormatToFloat(format StandardFormat, dst []float32, src []byte, n int) {
	FormatToFloatStride(format, dst, src, n, 0)
}

// FormatToFloatStride is FormatToFloat reading samples that sit bytesPerSample apart.
// Zero selects the natural width.
func FormatToFloatStride(format StandardFormat, dst []float32, src []byte, n int, bytesPerSample int) {
	Convert(
		NewCursor(floatBytes(dst), nativeFloat, ReadWrite),
		newStridedCursor(src, format.SampleFormat(), bytesPerSample, ReadOnly),
		n,
	)
}

//nolint:gochecknoglobals
var nativeFloat = SampleFormat{Float32, NativeEndian}

// floatBytes views a float slice as its native in-memory bytes.
func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(f))), len(f)*int(unsafe.Sizeof(f[0])))
}
