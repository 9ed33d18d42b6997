// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"
	"gvisor.dev/xlat/pkg/xlat"
)

// Granule implements subcommands.Command for the "granule" command.
type Granule struct {
	size uint64
	host bool
}

// Name implements subcommands.Command.Name.
func (*Granule) Name() string {
	return "granule"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Granule) Synopsis() string {
	return "report supported translation granules"
}

// Usage implements subcommands.Command.Usage.
func (*Granule) Usage() string {
	return `granule [-size bytes] [-host]

Prints the largest supported granule. With -size, also checks the given
granule and fails if it is unsupported. With -host, checks the page size of
the machine running xlatcfg, which is useful when images are generated on
the target.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (g *Granule) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&g.size, "size", 0, "granule size in bytes to check.")
	f.BoolVar(&g.host, "host", false, "check the host page size.")
}

// Execute implements subcommands.Command.Execute.
func (g *Granule) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	fmt.Fprintf(Output, "max granule: %d\n", xlat.MaxSupportedGranuleSize())

	status := subcommands.ExitSuccess
	check := func(what string, size xlat.GranuleSize) {
		if xlat.IsGranuleSizeSupported(size) {
			fmt.Fprintf(Output, "%s %d: supported\n", what, size)
			return
		}
		fmt.Fprintf(Output, "%s %d: unsupported\n", what, size)
		status = subcommands.ExitFailure
	}
	if g.size != 0 {
		check("granule", xlat.GranuleSize(g.size))
	}
	if g.host {
		check("host page size", xlat.GranuleSize(unix.Getpagesize()))
	}
	return status
}
