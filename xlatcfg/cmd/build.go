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
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/google/subcommands"
	"gvisor.dev/xlat/pkg/log"
	"gvisor.dev/xlat/pkg/xlat"
	"gvisor.dev/xlat/pkg/xlat/xlattest"
	"gvisor.dev/xlat/xlatcfg/profile"
)

// Build implements subcommands.Command for the "build" command.
type Build struct {
	base   hexFlag
	maxPA  hexFlag
	maxVA  hexFlag
	nc     bool
	regime string
	format string
}

// Name implements subcommands.Command.Name.
func (*Build) Name() string {
	return "build"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Build) Synopsis() string {
	return "compute the MAIR0/TTBCR/TTBR0 image for a translation table"
}

// Usage implements subcommands.Command.Usage.
func (*Build) Usage() string {
	return `build [flags]

Computes the register image the enabling routine loads for a table at -base
on the platform described by the global -profile. The computation runs
offline against a Secure-state register file.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (b *Build) SetFlags(f *flag.FlagSet) {
	b.maxPA = math.MaxUint32
	b.maxVA = math.MaxUint32
	f.Var(&b.base, "base", "physical address of the base translation table.")
	f.Var(&b.maxPA, "max-pa", "highest physical address mapped by the table.")
	f.Var(&b.maxVA, "max-va", "highest virtual address translated; max-va+1 must be a power of two.")
	f.BoolVar(&b.nc, "nc", false, "make table walks non-cacheable, in addition to the profile setting.")
	f.StringVar(&b.regime, "regime", "el1&0", "translation regime: el1&0, el2 or el3.")
	f.StringVar(&b.format, "format", "text", "output format: text or json.")
}

// Execute implements subcommands.Command.Execute.
func (b *Build) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	p := profileArg(args)

	req := buildRequest{
		base:  uintptr(b.base),
		maxPA: uint64(b.maxPA),
		maxVA: uint64(b.maxVA),
	}
	if b.nc {
		req.flags |= xlat.TableNonCacheable
	}
	var err error
	if req.regime, err = profile.ParseRegime(b.regime); err != nil {
		return Errorf("%v", err)
	}

	c, err := buildImage(p, req)
	if err != nil {
		return Errorf("%v", err)
	}
	if err := writeImage(Output, b.format, c, req.flags|p.Flags()); err != nil {
		return Errorf("%v", err)
	}
	return subcommands.ExitSuccess
}

// maxPhysAddr is the long-descriptor output address limit. It mirrors
// xlat.MaxSupportedPA, which is absent from builds without assertions.
const maxPhysAddr = 1<<40 - 1

type buildRequest struct {
	base   uintptr
	flags  xlat.Flags
	maxPA  uint64
	maxVA  uint64
	regime xlat.Regime
}

// buildImage checks the request against the builder preconditions, so that
// bad input is reported instead of tripping an assertion, and builds the
// image.
func buildImage(p *profile.Profile, req buildRequest) (xlat.MMUConfig, error) {
	opts, err := p.BuilderOpts()
	if err != nil {
		return xlat.MMUConfig{}, err
	}
	if uint64(req.base) > maxPhysAddr {
		return xlat.MMUConfig{}, fmt.Errorf("base table %#x exceeds 40 bits", req.base)
	}
	if req.maxVA > math.MaxUint32 {
		return xlat.MMUConfig{}, fmt.Errorf("max VA %#x exceeds %d bits", req.maxVA, xlat.VirtAddrBits)
	}
	if req.maxVA != math.MaxUint32 && !xlat.CheckVirtAddrSpaceSize(req.maxVA+1) {
		return xlat.MMUConfig{}, fmt.Errorf("max VA %#x: space size must be a power of two between %#x and %#x",
			req.maxVA, xlat.MinVirtAddrSpaceSize, xlat.MaxVirtAddrSpaceSize)
	}
	if req.maxPA > maxPhysAddr {
		return xlat.MMUConfig{}, fmt.Errorf("max PA %#x exceeds 40 bits", req.maxPA)
	}

	regs := &xlattest.Registers{}
	log.Debugf("Building image with %+v for %v", opts, req.regime)
	b := xlat.NewBuilder(regs, opts)
	return b.Build(req.base, req.flags|p.Flags(), req.maxPA, req.maxVA, req.regime), nil
}

type jsonImage struct {
	MAIR          string `json:"mair"`
	TTBCR         string `json:"ttbcr"`
	TTBR0         string `json:"ttbr0"`
	T0SZ          uint32 `json:"t0sz"`
	WalkCacheable bool   `json:"walk_cacheable"`
	CommonTables  bool   `json:"cnp"`
	DisableDCache bool   `json:"disable_dcache"`
}

func writeImage(w io.Writer, format string, c xlat.MMUConfig, flags xlat.Flags) error {
	switch format {
	case "text":
		p := c.Params()
		_, err := fmt.Fprintf(w, "mair\t%#016x\nttbcr\t%#08x\nttbr0\t%#016x\n# %v\n",
			p[xlat.MMUCfgMAIR], p[xlat.MMUCfgTCR], p[xlat.MMUCfgTTBR0], c)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonImage{
			MAIR:          fmt.Sprintf("%#x", c.MAIR),
			TTBCR:         fmt.Sprintf("%#x", c.TTBCR),
			TTBR0:         fmt.Sprintf("%#x", c.TTBR0),
			T0SZ:          c.T0SZ(),
			WalkCacheable: !c.WalkNonCacheable(),
			CommonTables:  c.CommonTables(),
			DisableDCache: flags&xlat.DisableDCache != 0,
		})
	default:
		return fmt.Errorf("invalid format %q, must be 'text' or 'json'", format)
	}
}
