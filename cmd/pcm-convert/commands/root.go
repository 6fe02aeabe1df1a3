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

// Package commands implements the pcm-convert command tree.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the pcm-convert command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pcm-convert",
		Short: "Convert audio between PCM sample formats",
		Long: `pcm-convert reads raw PCM, WAV, FLAC or MP3 input and writes it in any of
the standard sample formats (int16/int24/int32/float32, little or big endian),
either as raw PCM or wrapped in a WAV header.

Examples:
  # FLAC to 32-bit float WAV
  pcm-convert convert -f float32le -o out.wav song.flac

  # Right channel of a big-endian raw stream as mono int16
  pcm-convert convert --input-format s24be --channels 2 --rate 48000 \
    --channel 1 -f int16le --container pcm -o right.raw capture.raw`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newConvertCommand(), newFormatsCommand(), newVersionCommand())

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
