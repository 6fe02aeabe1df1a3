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

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	pcm "github.com/mycophonic/saprobe-pcm"
)

// Encode writes a canonical 44-byte header followed by data, which holds interleaved frames of
// channels samples in the given sample format. WAVE is little-endian only, so big-endian layouts
// are rejected; convert them first.
//
//nolint:gosec // Header fields are bounded by the WAVE format.
func Encode(writer io.Writer, data []byte, sample pcm.SampleFormat, channels, sampleRate int) error {
	if channels < 1 || sampleRate < 1 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupported, channels, sampleRate)
	}

	code, err := formatCode(sample)
	if err != nil {
		return err
	}

	bytesPerSample := sample.BytesPerSample()
	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign
	dataSize := len(data) - len(data)%blockAlign

	var hdr [headerSize]byte

	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(headerSize-8+dataSize))
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], code)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(8*bytesPerSample))

	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))

	if _, err := writer.Write(hdr[:]); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}

	if _, err := writer.Write(data[:dataSize]); err != nil {
		return fmt.Errorf("writing WAV data: %w", err)
	}

	return nil
}

// formatCode returns the fmt chunk code able to carry sample.
func formatCode(sample pcm.SampleFormat) (uint16, error) {
	sample = sample.Resolved()

	switch {
	case sample.Representation == pcm.Int8:
		// 8-bit WAVE is unsigned.
		return 0, fmt.Errorf("%w: %s (use uint8)", ErrUnsupported, sample)
	case sample.BytesPerSample() > 1 && sample.Order != pcm.LittleEndian:
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, sample)
	case sample.Representation.IsFloat():
		return AudioFormatIEEEFloat, nil
	default:
		return AudioFormatPCM, nil
	}
}
