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
	"io"

	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/xlat"
)

// Decode implements subcommands.Command for the "decode" command.
type Decode struct {
	mair  hexFlag
	ttbcr hexFlag
	ttbr0 hexFlag
}

// Name implements subcommands.Command.Name.
func (*Decode) Name() string {
	return "decode"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Decode) Synopsis() string {
	return "decode MAIR0, TTBCR and TTBR0 values"
}

// Usage implements subcommands.Command.Usage.
func (*Decode) Usage() string {
	return `decode [-mair value] [-ttbcr value] [-ttbr0 value]

Prints the fields of a register image, e.g. one read back from a target.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (d *Decode) SetFlags(f *flag.FlagSet) {
	f.Var(&d.mair, "mair", "MAIR0 value.")
	f.Var(&d.ttbcr, "ttbcr", "TTBCR value.")
	f.Var(&d.ttbr0, "ttbr0", "TTBR0 value.")
}

// Execute implements subcommands.Command.Execute.
func (d *Decode) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	decodeImage(Output, xlat.MMUConfig{
		MAIR:  uint64(d.mair),
		TTBCR: uint64(d.ttbcr),
		TTBR0: uint64(d.ttbr0),
	})
	return subcommands.ExitSuccess
}

func decodeImage(w io.Writer, c xlat.MMUConfig) {
	fmt.Fprintf(w, "MAIR0 %#x\n", c.MAIR)
	for mt := xlat.MemoryType(0); mt < xlat.NumMemoryTypes; mt++ {
		got := c.Attr(mt)
		state := "ok"
		if got != mt.Encoding() {
			state = fmt.Sprintf("expected %#02x", mt.Encoding())
		}
		fmt.Fprintf(w, "  attr%d %-12s %#02x %s\n", mt.AttrIndex(), mt, got, state)
	}

	t := xlat.DecodeTTBCR(c.TTBCR)
	fmt.Fprintf(w, "TTBCR %#x\n", c.TTBCR)
	fmt.Fprintf(w, "  EAE=%t EPD0=%t EPD1=%t\n", t.EAE, t.EPD0, t.EPD1)
	fmt.Fprintf(w, "  T0SZ=%d SH0=%s ORGN0=%s IRGN0=%s\n", t.T0SZ, t.SH0, t.ORGN0, t.IRGN0)
	fmt.Fprintf(w, "  T1SZ=%d SH1=%s ORGN1=%s IRGN1=%s\n", t.T1SZ, t.SH1, t.ORGN1, t.IRGN1)
	if t.EAE {
		fmt.Fprintf(w, "  TTBR0 space: %#x bytes\n", c.VirtAddrSpaceSize())
	}

	fmt.Fprintf(w, "TTBR0 %#x\n", c.TTBR0)
	fmt.Fprintf(w, "  base=%#x CnP=%t\n", c.TableBase(), c.CommonTables())
}
