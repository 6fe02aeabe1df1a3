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
	"encoding/binary"
	"fmt"
)

// Representation identifies how a single sample is stored.
type Representation uint8

// Supported sample representations.
const (
	Int8 Representation = iota + 1
	UInt8
	Int16
	Int24
	Int32
	Float32
)

// BytesPerSample returns the storage width of one sample.
func (r Representation) BytesPerSample() int {
	switch r {
	case Int8, UInt8:
		return 1
	case Int16:
		return 2
	case Int24:
		return 3
	case Int32, Float32:
		return 4
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", r))
	}
}

// IsFloat reports whether samples are IEEE-754 floats.
func (r Representation) IsFloat() bool {
	switch r {
	case Int8, UInt8, Int16, Int24, Int32:
		return false
	case Float32:
		return true
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", r))
	}
}

// MaxValue returns the signed full-scale magnitude of the representation.
// UInt8 is reported after removing its 128 bias.
func (r Representation) MaxValue() int64 {
	switch r {
	case Int8, UInt8:
		return 0x7f
	case Int16:
		return 0x7fff
	case Int24:
		return 0x7fffff
	case Int32, Float32:
		return 0x7fffffff
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", r))
	}
}

// Resolution returns the smallest step above zero once a sample is projected onto the
// 32-bit signed integer range, e.g. 1<<24 for 8-bit data and 1<<8 for 24-bit data.
func (r Representation) Resolution() int32 {
	switch r {
	case Int8, UInt8:
		return 1 << 24
	case Int16:
		return 1 << 16
	case Int24, Float32:
		return 1 << 8
	case Int32:
		return 1
	default:
		panic(fmt.Sprintf("pcm: invalid representation %d", r))
	}
}

func (r Representation) String() string {
	switch r {
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Representation(%d)", r)
	}
}

// ByteOrder selects how multi-byte samples are laid out in memory.
type ByteOrder uint8

// Byte orders. NativeEndian resolves to whichever of the two the host uses.
const (
	LittleEndian ByteOrder = iota
	BigEndian
	NativeEndian
)

//nolint:gochecknoglobals
var hostOrder = detectHostOrder()

func detectHostOrder() ByteOrder {
	var probe [2]byte

	binary.NativeEndian.PutUint16(probe[:], 1)

	if probe[0] == 1 {
		return LittleEndian
	}

	return BigEndian
}

// Resolve maps NativeEndian to the host byte order and returns any other value unchanged.
func (o ByteOrder) Resolve() ByteOrder {
	if o == NativeEndian {
		return hostOrder
	}

	return o
}

func (o ByteOrder) codec() binary.ByteOrder {
	if o.Resolve() == BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "le"
	case BigEndian:
		return "be"
	case NativeEndian:
		return "native"
	default:
		return fmt.Sprintf("ByteOrder(%d)", o)
	}
}

// SampleFormat pairs a representation with a byte order.
type SampleFormat struct {
	Representation Representation
	Order          ByteOrder
}

// BytesPerSample returns the storage width of one sample.
func (f SampleFormat) BytesPerSample() int { return f.Representation.BytesPerSample() }

// Resolved returns f with NativeEndian replaced by the host order.
func (f SampleFormat) Resolved() SampleFormat {
	return SampleFormat{Representation: f.Representation, Order: f.Order.Resolve()}
}

// Equal reports whether both formats store samples with identical bytes.
func (f SampleFormat) Equal(other SampleFormat) bool {
	return f.Resolved() == other.Resolved()
}

func (f SampleFormat) String() string {
	if f.Representation.BytesPerSample() == 1 {
		return f.Representation.String()
	}

	return f.Representation.String() + f.Order.Resolve().String()
}

// Access states whether a cursor may write through to its buffer.
type Access uint8

// Cursor access modes.
const (
	ReadOnly Access = iota
	ReadWrite
)

func (a Access) String() string {
	if a == ReadWrite {
		return "read-write"
	}

	return "read-only"
}
