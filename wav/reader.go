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
	"time"

	"github.com/youpy/go-riff"
	"github.com/zaf/g711"

	pcm "github.com/mycophonic/saprobe-pcm"
)

// Reader reads the fmt and data chunks of a WAVE file.
type Reader struct {
	r         *riff.Reader
	riffChunk *riff.RIFFChunk
	format    *Format
}

// NewReader returns a Reader over r. Nothing is read until Format or ReadAll is called.
func NewReader(r riff.RIFFReader) *Reader {
	return &Reader{r: riff.NewReader(r)}
}

// Format returns the fmt chunk. For WAVE_FORMAT_EXTENSIBLE files AudioFormat holds the
// sub-format code.
func (r *Reader) Format() (*Format, error) {
	if r.format != nil {
		return r.format, nil
	}

	format, err := r.readFormat()
	if err != nil {
		return nil, err
	}

	r.format = format

	return format, nil
}

// Duration returns the playing time of the data chunk.
func (r *Reader) Duration() (time.Duration, error) {
	format, err := r.Format()
	if err != nil {
		return 0, err
	}

	dataChunk, err := r.chunk("data")
	if err != nil {
		return 0, err
	}

	frames := uint64(dataChunk.ChunkSize) / uint64(format.BlockAlign)

	return time.Duration(frames) * time.Second / time.Duration(format.SampleRate), nil
}

// ReadAll returns the contents of the data chunk and their sample layout.
// A-law and mu-law data is expanded to 16-bit signed little-endian samples.
func (r *Reader) ReadAll() ([]byte, pcm.SampleFormat, error) {
	format, err := r.Format()
	if err != nil {
		return nil, pcm.SampleFormat{}, err
	}

	sample, err := format.SampleFormat()
	if err != nil {
		return nil, pcm.SampleFormat{}, err
	}

	dataChunk, err := r.chunk("data")
	if err != nil {
		return nil, pcm.SampleFormat{}, err
	}

	data, err := io.ReadAll(dataChunk)
	if err != nil {
		return nil, pcm.SampleFormat{}, fmt.Errorf("reading data chunk: %w", err)
	}

	// Drop a trailing partial frame.
	if align := int(format.BlockAlign); align > 0 {
		data = data[:len(data)-len(data)%align]
	}

	switch format.AudioFormat {
	case AudioFormatALaw:
		data = expand(data, g711.DecodeAlawFrame)
	case AudioFormatMULaw:
		data = expand(data, g711.DecodeUlawFrame)
	default:
	}

	return data, sample, nil
}

func expand(companded []byte, decode func(byte) int16) []byte {
	out := make([]byte, 2*len(companded))
	for i, b := range companded {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(decode(b))) //nolint:gosec // reinterpretation.
	}

	return out
}

func (r *Reader) readFormat() (*Format, error) {
	fmtChunk, err := r.chunk("fmt ")
	if err != nil {
		return nil, err
	}

	format := new(Format)
	if err := binary.Read(fmtChunk, binary.LittleEndian, format); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFormat, err)
	}

	if format.AudioFormat == AudioFormatExtensible {
		var ext extension
		if err := binary.Read(fmtChunk, binary.LittleEndian, &ext); err != nil {
			return nil, fmt.Errorf("%w: extensible: %w", ErrNoFormat, err)
		}

		format.AudioFormat = binary.LittleEndian.Uint16(ext.SubFormat[:2])
	}

	if format.BitsPerSample == 0 || format.NumChannels == 0 || format.BlockAlign == 0 {
		return nil, fmt.Errorf("%w: %d channels, %d bits", ErrNoFormat, format.NumChannels, format.BitsPerSample)
	}

	return format, nil
}

func (r *Reader) chunk(id string) (*riff.Chunk, error) {
	if r.riffChunk == nil {
		riffChunk, err := r.readRIFF()
		if err != nil {
			return nil, err
		}

		r.riffChunk = riffChunk
	}

	for _, ch := range r.riffChunk.Chunks {
		if string(ch.ChunkID[:]) == id {
			return ch, nil
		}
	}

	if id == "data" {
		return nil, ErrNoData
	}

	return nil, ErrNoFormat
}

// readRIFF parses the chunk list. go-riff panics instead of returning an error when the input
// ends early, so the panic is turned into ErrNoFormat.
func (r *Reader) readRIFF() (riffChunk *riff.RIFFChunk, err error) {
	defer func() {
		if p := recover(); p != nil {
			riffChunk = nil
			err = fmt.Errorf("%w: truncated riff: %v", ErrNoFormat, p)
		}
	}()

	riffChunk, err = r.r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading riff: %w", ErrNoFormat, err)
	}

	return riffChunk, nil
}
