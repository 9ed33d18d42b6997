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

// System control and secure configuration register bits.
const (
	// SCTLRMBit enables the stage 1 MMU.
	SCTLRMBit = 1 << 0

	// SCRNSBit is set when the PE is in the Non-secure state.
	SCRNSBit = 1 << 0
)

// Registers gives read access to the CP15 registers the backend inspects.
//
// The hardware implementation is HardwareRegisters on arm; tests and host
// tools use xlattest.Registers.
type Registers interface {
	// ReadSCTLR returns the System Control Register.
	ReadSCTLR() uint32

	// ReadSCR returns the Secure Configuration Register.
	ReadSCR() uint32
}

// IsTranslationEnabled returns true if the MMU is enabled for the regime.
//
// AArch32 has a single SCTLR.M bit for the PL1&0 regime, so the regime does
// not change the answer.
func IsTranslationEnabled(regs Registers, _ Regime) bool {
	return regs.ReadSCTLR()&SCTLRMBit != 0
}

// IsInSecure returns true if the PE executes in the Secure state.
func IsInSecure(regs Registers) bool {
	return regs.ReadSCR()&SCRNSBit == 0
}
