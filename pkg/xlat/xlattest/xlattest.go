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

// Package xlattest provides deterministic stand-ins for the hardware
// interfaces of package xlat.
package xlattest

import (
	"fmt"
	"strings"

	"gvisor.dev/xlat/pkg/xlat"
)

// Registers is an in-memory register file. The zero value is a PE in the
// Secure state with the MMU off.
type Registers struct {
	SCTLR uint32
	SCR   uint32
}

var _ xlat.Registers = (*Registers)(nil)

// ReadSCTLR implements xlat.Registers.ReadSCTLR.
func (r *Registers) ReadSCTLR() uint32 {
	return r.SCTLR
}

// ReadSCR implements xlat.Registers.ReadSCR.
func (r *Registers) ReadSCR() uint32 {
	return r.SCR
}

// SetMMU sets or clears SCTLR.M.
func (r *Registers) SetMMU(enabled bool) {
	if enabled {
		r.SCTLR |= xlat.SCTLRMBit
	} else {
		r.SCTLR &^= xlat.SCTLRMBit
	}
}

// SetNonSecure sets or clears SCR.NS.
func (r *Registers) SetNonSecure(ns bool) {
	if ns {
		r.SCR |= xlat.SCRNSBit
	} else {
		r.SCR &^= xlat.SCRNSBit
	}
}

// Names of recorded instructions.
const (
	OpDSBISHST   = "dsb ishst"
	OpDSBISH     = "dsb ish"
	OpISB        = "isb"
	OpTLBIMVAAIS = "tlbimvaais"
	OpBPIALLIS   = "bpiallis"
)

// Op is one recorded instruction.
type Op struct {
	Name string
	Arg  uint32
}

func (o Op) String() string {
	if o.Name == OpTLBIMVAAIS {
		return fmt.Sprintf("%s %#08x", o.Name, o.Arg)
	}
	return o.Name
}

// Trace records instructions instead of executing them. It is not safe for
// concurrent use.
type Trace struct {
	Ops []Op
}

var _ xlat.Primitives = (*Trace)(nil)

func (t *Trace) record(name string, arg uint32) {
	t.Ops = append(t.Ops, Op{Name: name, Arg: arg})
}

// DSBISHST implements xlat.Primitives.DSBISHST.
func (t *Trace) DSBISHST() { t.record(OpDSBISHST, 0) }

// DSBISH implements xlat.Primitives.DSBISH.
func (t *Trace) DSBISH() { t.record(OpDSBISH, 0) }

// ISB implements xlat.Primitives.ISB.
func (t *Trace) ISB() { t.record(OpISB, 0) }

// TLBIMVAAIS implements xlat.Primitives.TLBIMVAAIS.
func (t *Trace) TLBIMVAAIS(mva uint32) { t.record(OpTLBIMVAAIS, mva) }

// BPIALLIS implements xlat.Primitives.BPIALLIS.
func (t *Trace) BPIALLIS() { t.record(OpBPIALLIS, 0) }

// Reset discards recorded instructions.
func (t *Trace) Reset() {
	t.Ops = t.Ops[:0]
}

// String returns the recorded instructions, one per line.
func (t *Trace) String() string {
	var b strings.Builder
	for _, op := range t.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}
