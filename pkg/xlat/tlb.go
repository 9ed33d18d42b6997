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

package xlat

import (
	"time"

	"gvisor.dev/xlat/pkg/log"
)

// Primitives are the barrier and maintenance instructions TLB invalidation
// is made of. Each method is exactly one instruction.
type Primitives interface {
	// DSBISHST waits for prior stores to complete in the inner
	// shareable domain.
	DSBISHST()

	// DSBISH waits for prior memory accesses and maintenance operations
	// to complete in the inner shareable domain.
	DSBISH()

	// ISB flushes the pipeline of the issuing PE.
	ISB()

	// TLBIMVAAIS invalidates entries for mva in all ASIDs, broadcast to
	// the inner shareable domain.
	TLBIMVAAIS(mva uint32)

	// BPIALLIS invalidates all branch predictors, broadcast to the inner
	// shareable domain.
	BPIALLIS()
}

// tlbiAddrMask selects the MVA bits of a TLBIMVAA operand. The low bits are
// ignored by the all-ASID operations.
const tlbiAddrMask = 0xfffff000

// TLBIAddr returns the TLBIMVAAIS operand for va.
func TLBIAddr(va uintptr) uint32 {
	return uint32(va) & tlbiAddrMask
}

// TLB performs TLB maintenance after live translation tables change.
//
// Call InvalidateVA for every modified entry and then Sync once for the
// whole batch. The broadcast operations and the barriers in Sync are what
// makes the change visible to other PEs; TLB takes no locks, and callers
// must serialize structural changes to a table region themselves.
type TLB struct {
	p   Primitives
	log log.Logger
}

// NewTLB returns a TLB issuing instructions through p.
func NewTLB(p Primitives) *TLB {
	return &TLB{
		p: p,
		// InvalidateVA runs once per modified entry.
		log: log.BurstRateLimitedLogger(log.Log(), time.Second, 16),
	}
}

// InvalidateVA invalidates cached translations of va in all ASIDs on every
// PE in the inner shareable domain. The invalidation is only guaranteed to
// be complete after Sync.
func (t *TLB) InvalidateVA(va uintptr, r Regime) {
	// Ensure the translation table write has drained into memory before
	// invalidating the TLB entry, or a walk could refill the stale entry.
	t.p.DSBISHST()
	t.p.TLBIMVAAIS(TLBIAddr(va))
	t.log.Debugf("xlat: tlbi %v va %#x", r, va)
}

// Sync completes all invalidations issued by this PE.
func (t *TLB) Sync() {
	// Branch predictors may hold targets resolved through the old
	// translations.
	t.p.BPIALLIS()

	// A TLB maintenance instruction is only guaranteed to be complete,
	// for every observer in the domain, after a DSB on the PE that issued
	// it.
	t.p.DSBISH()

	// The completed invalidation is only visible to instruction fetch on
	// this PE after an ISB.
	t.p.ISB()
}
