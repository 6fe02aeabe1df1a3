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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pcm "github.com/mycophonic/saprobe-pcm"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output sample formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBYTES\tTYPE\tORDER")

			for _, format := range pcm.StandardFormats() {
				sample := format.SampleFormat()
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
					format, format.BytesPerSample(), sample.Representation, sample.Order)
			}

			if err := tw.Flush(); err != nil {
				return fmt.Errorf("writing format list: %w", err)
			}

			return nil
		},
	}
}
