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

import "fmt"

// Regime identifies a translation regime.
//
// On this backend every regime shares one SCTLR enable bit and one XN
// encoding, but callers pass the regime everywhere so that backends where
// the regimes differ can use the same call sites.
type Regime int

const (
	// RegimeEL1EL0 is the secure PL1&0 regime. All secure PL1 modes
	// (Monitor, System, SVC, Abort, UND, IRQ and FIQ) execute in it when
	// EL3 is AArch32.
	RegimeEL1EL0 Regime = iota + 1

	// RegimeEL2 is the Hyp mode regime.
	RegimeEL2

	// RegimeEL3 is the EL3 regime.
	RegimeEL3
)

// Valid returns true if r names a known regime.
func (r Regime) Valid() bool {
	return r >= RegimeEL1EL0 && r <= RegimeEL3
}

// String implements fmt.Stringer.
func (r Regime) String() string {
	switch r {
	case RegimeEL1EL0:
		return "EL1&0"
	case RegimeEL2:
		return "EL2"
	case RegimeEL3:
		return "EL3"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// CurrentEL returns the exception level the library runs at.
//
// The PL1&0 regime behaves like the EL1&0 regime in AArch64 except for the
// XN bits, which are always set and cleared together, so it is reported as
// EL1.
func CurrentEL() uint {
	return 1
}
