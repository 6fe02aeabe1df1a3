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

// Package source loads audio inputs of several container kinds into interleaved PCM.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/youpy/go-riff"

	pcm "github.com/mycophonic/saprobe-pcm"
	"github.com/mycophonic/saprobe-pcm/flac"
	"github.com/mycophonic/saprobe-pcm/wav"
)

// Kind is an input container.
type Kind uint8

// Input kinds.
const (
	Raw Kind = iota
	WAV
	FLAC
	MP3
)

var (
	// ErrUnknownKind is returned for an unrecognized input kind name.
	ErrUnknownKind = errors.New("unknown input kind")

	// ErrRawParams is returned when raw input lacks a usable layout.
	ErrRawParams = errors.New("raw input needs a format, channel count and sample rate")

	// ErrDecode is returned when a container fails to decode.
	ErrDecode = errors.New("decode failure")
)

//nolint:gochecknoglobals
var kindNames = map[string]Kind{
	"raw":  Raw,
	"pcm":  Raw,
	"wav":  WAV,
	"wave": WAV,
	"flac": FLAC,
	"mp3":  MP3,
}

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case WAV:
		return "wav"
	case FLAC:
		return "flac"
	case MP3:
		return "mp3"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	return kind, nil
}

// KindFromPath guesses the kind from a file extension. Unknown extensions are Raw.
func KindFromPath(path string) Kind {
	kind, ok := kindNames[strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))]
	if !ok {
		return Raw
	}

	return kind
}

// RawParams describes headerless input.
type RawParams struct {
	Format     pcm.SampleFormat
	Channels   int
	SampleRate int
}

// Source is a fully loaded input.
type Source struct {
	Data       []byte
	Format     pcm.SampleFormat
	Channels   int
	SampleRate int
}

// Frames returns the number of whole interleaved frames in Data.
func (s *Source) Frames() int {
	return len(s.Data) / (s.Channels * s.Format.BytesPerSample())
}

// Open reads all of r as the given kind. raw is only consulted for Raw input.
func Open(kind Kind, r io.ReadSeeker, raw RawParams) (*Source, error) {
	switch kind {
	case Raw:
		return openRaw(r, raw)
	case WAV:
		return openWAV(r)
	case FLAC:
		return openFLAC(r)
	case MP3:
		return openMP3(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func openRaw(r io.Reader, raw RawParams) (*Source, error) {
	if raw.Format.Representation == 0 || raw.Channels < 1 || raw.SampleRate < 1 {
		return nil, ErrRawParams
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading raw input: %w", err)
	}

	frame := raw.Channels * raw.Format.BytesPerSample()

	return &Source{
		Data:       data[:len(data)-len(data)%frame],
		Format:     raw.Format,
		Channels:   raw.Channels,
		SampleRate: raw.SampleRate,
	}, nil
}

func openWAV(r io.ReadSeeker) (*Source, error) {
	rr, ok := r.(riff.RIFFReader)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav input: %w", err)
		}

		rr = bytes.NewReader(data)
	}

	reader := wav.NewReader(rr)

	format, err := reader.Format()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	data, sample, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &Source{
		Data:       data,
		Format:     sample,
		Channels:   int(format.NumChannels),
		SampleRate: int(format.SampleRate),
	}, nil
}

func openFLAC(r io.ReadSeeker) (*Source, error) {
	data, format, err := flac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	justify(data, format.Sample, 8*format.BitDepth.BytesPerSample()-int(format.BitDepth)) //nolint:gosec // depth <= 32.

	return &Source{
		Data:       data,
		Format:     format.Sample,
		Channels:   int(format.Channels), //nolint:gosec // 1-8.
		SampleRate: format.SampleRate,
	}, nil
}

// justify shifts every sample up by pad bits so that 4, 12 and 20-bit audio fills its
// container and keeps its level once converted to another format.
func justify(data []byte, sample pcm.SampleFormat, pad int) {
	if pad == 0 || len(data) == 0 {
		return
	}

	cur := pcm.NewCursor(data, sample, pcm.ReadWrite)
	for range len(data) / sample.BytesPerSample() {
		cur.SetInt32(cur.Int32() << pad)
		cur.Advance()
	}
}

// go-mp3 always produces 16-bit little-endian stereo.
const mp3Channels = 2

func openMP3(r io.Reader) (*Source, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	format := pcm.SampleFormat{Representation: pcm.Int16, Order: pcm.LittleEndian}

	return &Source{
		Data:       data[:len(data)-len(data)%(mp3Channels*format.BytesPerSample())],
		Format:     format,
		Channels:   mp3Channels,
		SampleRate: decoder.SampleRate(),
	}, nil
}
