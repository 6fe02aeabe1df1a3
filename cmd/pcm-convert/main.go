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

// pcm-convert converts audio between PCM sample formats.
//
// Usage:
//
//	pcm-convert convert [-f float32le] [--container wav|pcm] [-o out] <input | ->
//	pcm-convert formats
//	pcm-convert version
package main

import (
	"fmt"
	"os"

	"github.com/mycophonic/saprobe-pcm/cmd/pcm-convert/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
