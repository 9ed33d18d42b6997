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

//go:build arm
// +build arm

package xlat

// HardwareRegisters reads CP15 registers of the executing PE. It is only
// meaningful at PL1 or above.
type HardwareRegisters struct{}

// ReadSCTLR implements Registers.ReadSCTLR.
//
//go:nosplit
func (HardwareRegisters) ReadSCTLR() uint32 {
	return readSCTLR()
}

// ReadSCR implements Registers.ReadSCR.
//
//go:nosplit
func (HardwareRegisters) ReadSCR() uint32 {
	return readSCR()
}

// HardwarePrimitives issues the instructions on the executing PE.
type HardwarePrimitives struct{}

// DSBISHST implements Primitives.DSBISHST.
//
//go:nosplit
func (HardwarePrimitives) DSBISHST() {
	dsbishst()
}

// DSBISH implements Primitives.DSBISH.
//
//go:nosplit
func (HardwarePrimitives) DSBISH() {
	dsbish()
}

// ISB implements Primitives.ISB.
//
//go:nosplit
func (HardwarePrimitives) ISB() {
	isb()
}

// TLBIMVAAIS implements Primitives.TLBIMVAAIS.
//
//go:nosplit
func (HardwarePrimitives) TLBIMVAAIS(mva uint32) {
	tlbimvaais(mva)
}

// BPIALLIS implements Primitives.BPIALLIS.
//
//go:nosplit
func (HardwarePrimitives) BPIALLIS() {
	bpiallis()
}

// The following are implemented in hw_arm.s.

func readSCTLR() uint32
func readSCR() uint32
func dsbishst()
func dsbish()
func isb()
func tlbimvaais(mva uint32)
func bpiallis()
