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
	"fmt"
	"math"
)

const (
	fullScale32 = 1 << 31
	uint8Bias   = 128
	sign24Bit   = 0x800000
	mask24Bit   = 0xFFFFFF
)

// Cursor reads and writes samples of one format inside a caller-owned byte slice.
//
// A cursor never allocates or retains ownership of its buffer. Moving it only changes the
// offset of the current sample. Interleaved cursors step over the other channels of each
// frame, so a cursor always walks a single logical channel.
type Cursor struct {
	buf      []byte
	off      int
	format   SampleFormat
	channels int
	stride   int
	access   Access
}

// NewCursor returns a cursor over contiguous (non-interleaved) samples starting at buf[0].
func NewCursor(buf []byte, format SampleFormat, access Access) Cursor {
	return Cursor{
		buf:      buf,
		format:   format.Resolved(),
		channels: 1,
		stride:   format.BytesPerSample(),
		access:   access,
	}
}

// NewInterleavedCursor returns a cursor over one channel of interleaved frames starting at
// buf[0]. The cursor advances channels samples at a time.
func NewInterleavedCursor(buf []byte, format SampleFormat, channels int, access Access) Cursor {
	if channels < 1 {
		panic(fmt.Sprintf("pcm: invalid interleaved channel count %d", channels))
	}

	return Cursor{
		buf:      buf,
		format:   format.Resolved(),
		channels: channels,
		stride:   channels * format.BytesPerSample(),
		access:   access,
	}
}

// newStridedCursor returns a single-channel cursor whose samples sit bytesPerSample apart,
// leaving any trailing bytes of each slot untouched.
func newStridedCursor(buf []byte, format SampleFormat, bytesPerSample int, access Access) Cursor {
	c := NewCursor(buf, format, access)

	if bytesPerSample == 0 {
		return c
	}

	if bytesPerSample < c.stride {
		panic(fmt.Sprintf("pcm: bytes per sample %d is narrower than %s", bytesPerSample, format))
	}

	c.stride = bytesPerSample

	return c
}

// Format returns the sample format with its byte order resolved.
func (c Cursor) Format() SampleFormat { return c.format }

// Channels returns the number of interleaved channels (1 for contiguous data).
func (c Cursor) Channels() int { return c.channels }

// Access returns whether the cursor may write.
func (c Cursor) Access() Access { return c.access }

// BytesBetweenSamples returns the distance between the start of consecutive samples.
func (c Cursor) BytesBetweenSamples() int { return c.stride }

// Bytes returns the underlying buffer from the current sample onwards.
func (c *Cursor) Bytes() []byte { return c.buf[c.off:] }

// Advance moves to the next sample.
func (c *Cursor) Advance() { c.off += c.stride }

// Skip moves by n samples; n may be negative.
func (c *Cursor) Skip(n int) { c.off += n * c.stride }

func (c *Cursor) raw() []byte {
	return c.buf[c.off : c.off+c.format.BytesPerSample()]
}

func (c *Cursor) mustWrite(op string) {
	if c.access != ReadWrite {
		panic("pcm: " + op + " on read-only cursor")
	}
}

// startsAt reports whether both cursors currently point at the same byte.
func (c *Cursor) startsAt(other *Cursor) bool {
	if c.off < 0 || c.off >= len(c.buf) || other.off < 0 || other.off >= len(other.buf) {
		return false
	}

	return &c.buf[c.off] == &other.buf[other.off]
}

// Int32 returns the current sample left-justified into the full int32 range.
// Float samples beyond ±1.0 are clipped to ±(2^31-1).
func (c *Cursor) Int32() int32 {
	b := c.raw()
	order := c.format.Order.codec()

	switch c.format.Representation {
	case Int8:
		return int32(int8(b[0])) << 24 //nolint:gosec // G115: intentional reinterpretation.
	case UInt8:
		return (int32(b[0]) - uint8Bias) << 24
	case Int16:
		return int32(int16(order.Uint16(b))) << 16 //nolint:gosec // G115: intentional reinterpretation.
	case Int24:
		return read24(b, c.format.Order) << 8
	case Int32:
		return int32(order.Uint32(b)) //nolint:gosec // G115: intentional reinterpretation.
	case Float32:
		return floatToInt32(c.Float())
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", c.format.Representation))
	}
}

// SetInt32 stores a left-justified int32 value, dropping the bits the format cannot hold.
func (c *Cursor) SetInt32(v int32) {
	c.mustWrite("SetInt32")

	b := c.raw()
	order := c.format.Order.codec()

	switch c.format.Representation {
	case Int8:
		b[0] = byte(v >> 24)
	case UInt8:
		b[0] = byte(uint8Bias + v>>24)
	case Int16:
		order.PutUint16(b, uint16(v>>16)) //nolint:gosec // G115: intentional truncation.
	case Int24:
		write24(b, c.format.Order, v>>8)
	case Int32:
		order.PutUint32(b, uint32(v)) //nolint:gosec // G115: intentional reinterpretation.
	case Float32:
		c.putFloat(b, float32(float64(v)/fullScale32))
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", c.format.Representation))
	}
}

// Float returns the current sample normalized to [-1, 1) for integer formats.
// Float samples are returned as stored and may exceed ±1.0.
func (c *Cursor) Float() float32 {
	if c.format.Representation == Float32 {
		return math.Float32frombits(c.format.Order.codec().Uint32(c.raw()))
	}

	return float32(float64(c.Int32()) / fullScale32)
}

// SetFloat stores a normalized value. Integer formats round to nearest and clip to full
// scale; float formats store v unchanged.
func (c *Cursor) SetFloat(v float32) {
	c.mustWrite("SetFloat")

	b := c.raw()
	rep := c.format.Representation

	switch rep {
	case Float32:
		c.putFloat(b, v)
	case UInt8:
		// Unsigned storage reaches -1.0 exactly; only the biased byte range is enforced.
		b[0] = byte(uint8Bias + int64(max(min(scale(v, rep.MaxValue()), uint8Bias-1), -uint8Bias)))
	case Int8:
		b[0] = byte(quantize(v, rep.MaxValue()))
	case Int16:
		c.format.Order.codec().PutUint16(b, uint16(quantize(v, rep.MaxValue()))) //nolint:gosec // G115: value is within int16.
	case Int24:
		write24(b, c.format.Order, int32(quantize(v, rep.MaxValue()))) //nolint:gosec // G115: value is within int24.
	case Int32:
		c.format.Order.codec().PutUint32(b, uint32(quantize(v, rep.MaxValue()))) //nolint:gosec // G115: value is within int32.
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", rep))
	}
}

// Clear writes n silent samples from the current position without moving the cursor.
func (c *Cursor) Clear(n int) {
	c.mustWrite("Clear")

	silence := byte(0)
	if c.format.Representation == UInt8 {
		silence = uint8Bias
	}

	width := c.format.BytesPerSample()

	for i := range max(n, 0) {
		start := c.off + i*c.stride
		clear(c.buf[start : start+width])

		if silence != 0 {
			c.buf[start] = silence
		}
	}
}

// CopySample copies the current sample of src verbatim. Both cursors must share a format.
func (c *Cursor) CopySample(src *Cursor) {
	c.mustWrite("CopySample")

	if c.format != src.format {
		panic(fmt.Sprintf("pcm: CopySample from %s into %s", src.format, c.format))
	}

	copy(c.raw(), src.raw())
}

func (c *Cursor) putFloat(b []byte, v float32) {
	c.format.Order.codec().PutUint32(b, math.Float32bits(v))
}

func read24(b []byte, order ByteOrder) int32 {
	var s int32
	if order.Resolve() == BigEndian {
		s = int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	} else {
		s = int32(b[2])<<16 | int32(b[1])<<8 | int32(b[0])
	}

	if s&sign24Bit != 0 {
		s |= ^mask24Bit
	}

	return s
}

func write24(b []byte, order ByteOrder, v int32) {
	if order.Resolve() == BigEndian {
		b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	}
}

// scale multiplies v by maxValue+1 and rounds half to even. NaN maps to silence.
func scale(v float32, maxValue int64) float64 {
	if math.IsNaN(float64(v)) {
		return 0
	}

	return math.RoundToEven(float64(v) * float64(maxValue+1))
}

// quantize scales v and clips the result to [-maxValue, maxValue].
func quantize(v float32, maxValue int64) int64 {
	return int64(max(min(scale(v, maxValue), float64(maxValue)), float64(-maxValue)))
}

func floatToInt32(v float32) int32 {
	return int32(quantize(max(min(v, 1), -1), math.MaxInt32)) //nolint:gosec // G115: clipped to int32 above.
}
