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
	"gvisor.dev/xlat/pkg/xlat"
	"gvisor.dev/xlat/pkg/xlat/xlattest"
	"gvisor.dev/xlat/xlatcfg/profile"
)

// TLBI implements subcommands.Command for the "tlbi" command.
type TLBI struct {
	regime string
}

// Name implements subcommands.Command.Name.
func (*TLBI) Name() string {
	return "tlbi"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*TLBI) Synopsis() string {
	return "print the instruction sequence invalidating a batch of addresses"
}

// Usage implements subcommands.Command.Usage.
func (*TLBI) Usage() string {
	return `tlbi [-regime name] <address>...

Replays TLB maintenance for the given virtual addresses, as issued after
changing their table entries, and prints the instructions in order.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (t *TLBI) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.regime, "regime", "el1&0", "translation regime: el1&0, el2 or el3.")
}

// Execute implements subcommands.Command.Execute.
func (t *TLBI) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	addrs, err := parseAddrs(f.Args())
	if err != nil {
		return Errorf("%v", err)
	}
	r, err := profile.ParseRegime(t.regime)
	if err != nil {
		return Errorf("%v", err)
	}
	fmt.Fprint(Output, traceInvalidation(addrs, r))
	return subcommands.ExitSuccess
}

func traceInvalidation(addrs []uintptr, r xlat.Regime) string {
	var tr xlattest.Trace
	tlb := xlat.NewTLB(&tr)
	for _, va := range addrs {
		tlb.InvalidateVA(va, r)
	}
	tlb.Sync()
	return tr.String()
}
