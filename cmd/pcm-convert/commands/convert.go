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

package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	pcm "github.com/mycophonic/saprobe-pcm"
	"github.com/mycophonic/saprobe-pcm/internal/source"
	"github.com/mycophonic/saprobe-pcm/wav"
)

const (
	containerWAV = "wav"
	containerPCM = "pcm"
	stdio        = "-"
	allChannels  = -1
)

var (
	errContainer = errors.New("unknown container (use wav or pcm)")
	errChannel   = errors.New("channel out of range")
	errStride    = errors.New("invalid bytes-per-sample")
)

type convertOptions struct {
	output         string
	format         string
	container      string
	channel        int
	bytesPerSample int
	inputKind      string
	inputFormat    string
	channels       int
	rate           int
	configPath     string
	logLevel       string
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <input | ->",
		Short: "Convert an audio input to another sample format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", stdio, "output path, - for stdout")
	flags.StringVarP(&opts.format, "format", "f", "float32le", "output sample format (see 'formats')")
	flags.StringVar(&opts.container, "container", containerWAV, "output container: wav or pcm")
	flags.IntVar(&opts.channel, "channel", allChannels, "extract a single channel (0-based) to mono")
	flags.IntVar(&opts.bytesPerSample, "bytes-per-sample", 0, "raw mono output slot width, 0 for packed")
	flags.StringVar(&opts.inputKind, "input-kind", "", "input kind: raw, wav, flac or mp3 (default: from extension)")
	flags.StringVar(&opts.inputFormat, "input-format", "", "raw input sample format")
	flags.IntVar(&opts.channels, "channels", 2, "raw input channel count")
	flags.IntVar(&opts.rate, "rate", 44100, "raw input sample rate")
	flags.StringVar(&opts.configPath, "config", "", "YAML file with output and log defaults")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	return cmd
}

// applyConfig fills options the user did not set explicitly from the config file.
func (o *convertOptions) applyConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if !flags.Changed("format") {
		o.format = cfg.Output.Format
	}

	if !flags.Changed("container") {
		o.container = cfg.Output.Container
	}

	if !flags.Changed("bytes-per-sample") {
		o.bytesPerSample = cfg.Output.BytesPerSample
	}

	if !flags.Changed("log-level") {
		o.logLevel = cfg.Log.Level
	}

	return nil
}

//nolint:cyclop // Linear pipeline: configure, load, convert, write.
func runConvert(cmd *cobra.Command, opts *convertOptions, inputPath string) error {
	if err := opts.applyConfig(cmd); err != nil {
		return err
	}

	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	out, err := pcm.ParseStandardFormat(opts.format)
	if err != nil {
		return err
	}

	if opts.container != containerWAV && opts.container != containerPCM {
		return fmt.Errorf("%w: %q", errContainer, opts.container)
	}

	if opts.bytesPerSample != 0 {
		if opts.container != containerPCM || opts.bytesPerSample < out.BytesPerSample() {
			return fmt.Errorf("%w: %d for %s in %s output", errStride, opts.bytesPerSample, out, opts.container)
		}
	}

	src, err := loadSource(cmd.InOrStdin(), opts, inputPath)
	if err != nil {
		return err
	}

	logger.Debug("loaded input",
		"path", inputPath,
		"format", src.Format.String(),
		"channels", src.Channels,
		"rate", src.SampleRate,
		"frames", src.Frames(),
	)

	data, channels, err := convertSource(src, out, opts.channel, opts.bytesPerSample)
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}

	if opts.container == containerWAV {
		err = wav.Encode(writer, data, out.SampleFormat(), channels, src.SampleRate)
	} else if _, writeErr := writer.Write(data); writeErr != nil {
		err = fmt.Errorf("writing output: %w", writeErr)
	}

	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}

	if err != nil {
		return err
	}

	logger.Info("converted",
		"from", src.Format.String(),
		"to", out.String(),
		"container", opts.container,
		"channels", channels,
		"rate", src.SampleRate,
		"bytes", len(data),
	)

	return nil
}

// convertSource converts src to out, either as a whole or as one extracted channel. It returns
// the converted bytes and their channel count.
func convertSource(src *source.Source, out pcm.StandardFormat, channel, bytesPerSample int) ([]byte, int, error) {
	frames := src.Frames()

	if channel == allChannels {
		if bytesPerSample != 0 && src.Channels != 1 {
			return nil, 0, fmt.Errorf("%w: %d-channel input needs --channel", errStride, src.Channels)
		}

		if bytesPerSample != 0 {
			return strided(src, 0, out, bytesPerSample), 1, nil
		}

		dst := make([]byte, frames*src.Channels*out.BytesPerSample())
		pcm.NewConverter(src.Format, out.SampleFormat(), 1, 1).Convert(dst, src.Data, frames*src.Channels)

		return dst, src.Channels, nil
	}

	if channel < 0 || channel >= src.Channels {
		return nil, 0, fmt.Errorf("%w: %d of %d", errChannel, channel, src.Channels)
	}

	if bytesPerSample != 0 {
		return strided(src, channel, out, bytesPerSample), 1, nil
	}

	dst := make([]byte, frames*out.BytesPerSample())
	pcm.NewConverter(src.Format, out.SampleFormat(), src.Channels, 1).ConvertChannel(dst, 0, src.Data, channel, frames)

	return dst, 1, nil
}

// strided writes one channel of src into slots of bytesPerSample bytes.
func strided(src *source.Source, channel int, out pcm.StandardFormat, bytesPerSample int) []byte {
	frames := src.Frames()
	floats := make([]float32, frames)

	if frames > 0 {
		reader := pcm.NewInterleavedCursor(src.Data[channel*src.Format.BytesPerSample():], src.Format, src.Channels, pcm.ReadOnly)
		for i := range floats {
			floats[i] = reader.Float()
			reader.Advance()
		}
	}

	dst := make([]byte, frames*bytesPerSample)
	pcm.FloatToFormatStride(out, dst, floats, frames, bytesPerSample)

	return dst
}

func loadSource(stdin io.Reader, opts *convertOptions, inputPath string) (*source.Source, error) {
	kind := source.KindFromPath(inputPath)

	if opts.inputKind != "" {
		var err error

		kind, err = source.ParseKind(opts.inputKind)
		if err != nil {
			return nil, err
		}
	}

	raw := source.RawParams{Channels: opts.channels, SampleRate: opts.rate}

	if kind == source.Raw {
		format, err := pcm.ParseStandardFormat(opts.inputFormat)
		if err != nil {
			return nil, fmt.Errorf("raw input: %w", err)
		}

		raw.Format = format.SampleFormat()
	}

	reader, cleanup, err := openInput(stdin, inputPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	src, err := source.Open(kind, reader, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}

	return src, nil
}

// openInput returns a ReadSeeker for the given path, or buffers stdin when path is "-".
func openInput(stdin io.Reader, path string) (io.ReadSeeker, func(), error) {
	if path == stdio {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, func() {}, fmt.Errorf("reading stdin: %w", err)
		}

		return bytes.NewReader(data), func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening %s: %w", path, err)
	}

	return file, func() { _ = file.Close() }, nil
}

func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == stdio {
		return stdout, func() error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return file, func() error {
		if err := file.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}

		return nil
	}, nil
}
