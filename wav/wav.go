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

// Package wav reads and writes RIFF/WAVE files holding samples in the layouts of the pcm package.
package wav

import (
	"errors"
	"fmt"

	pcm "github.com/mycophonic/saprobe-pcm"
)

// Audio format codes of the fmt chunk.
const (
	AudioFormatPCM        = 1
	AudioFormatIEEEFloat  = 3
	AudioFormatALaw       = 6
	AudioFormatMULaw      = 7
	AudioFormatExtensible = 0xFFFE
)

const headerSize = 44

var (
	// ErrNoFormat is returned when the file has no fmt chunk, or an unusable one.
	ErrNoFormat = errors.New("format chunk is not found")

	// ErrNoData is returned when the file has no data chunk.
	ErrNoData = errors.New("data chunk is not found")

	// ErrUnsupported is returned for sample layouts WAVE cannot carry.
	ErrUnsupported = errors.New("unsupported wav layout")
)

// Format is the canonical 16-byte body of the fmt chunk.
type Format struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// extension follows Format when AudioFormat is AudioFormatExtensible.
type extension struct {
	Size               uint16
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// SampleFormat maps the stored sample layout to a pcm sample format. Companded formats map to
// the Int16 layout they expand into.
func (f Format) SampleFormat() (pcm.SampleFormat, error) {
	switch f.AudioFormat {
	case AudioFormatALaw, AudioFormatMULaw:
		if f.BitsPerSample != 8 {
			break
		}

		return pcm.SampleFormat{Representation: pcm.Int16, Order: pcm.LittleEndian}, nil
	case AudioFormatIEEEFloat:
		if f.BitsPerSample != 32 {
			break
		}

		return pcm.SampleFormat{Representation: pcm.Float32, Order: pcm.LittleEndian}, nil
	case AudioFormatPCM:
		rep, ok := intRepresentations[f.BitsPerSample]
		if !ok {
			break
		}

		return pcm.SampleFormat{Representation: rep, Order: pcm.LittleEndian}, nil
	default:
	}

	return pcm.SampleFormat{}, errFormat(f)
}

//nolint:gochecknoglobals
var intRepresentations = map[uint16]pcm.Representation{
	8:  pcm.UInt8,
	16: pcm.Int16,
	24: pcm.Int24,
	32: pcm.Int32,
}

func errFormat(f Format) error {
	return fmt.Errorf("%w: format %#x, %d bits", ErrUnsupported, f.AudioFormat, f.BitsPerSample)
}
