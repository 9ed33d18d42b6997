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

package xlattest

import "testing"

func TestRegisters(t *testing.T) {
	var r Registers
	r.SCTLR = 0x00c50078
	r.SetMMU(true)
	if r.ReadSCTLR() != 0x00c50079 {
		t.Errorf("SetMMU(true) gave SCTLR %#x", r.ReadSCTLR())
	}
	r.SetMMU(false)
	if r.ReadSCTLR() != 0x00c50078 {
		t.Errorf("SetMMU(false) gave SCTLR %#x", r.ReadSCTLR())
	}
	r.SetNonSecure(true)
	if r.ReadSCR() != 1 {
		t.Errorf("SetNonSecure(true) gave SCR %#x", r.ReadSCR())
	}
}

func TestTrace(t *testing.T) {
	var tr Trace
	tr.DSBISHST()
	tr.TLBIMVAAIS(0x2000)
	tr.BPIALLIS()
	tr.DSBISH()
	tr.ISB()
	want := "dsb ishst\ntlbimvaais 0x00002000\nbpiallis\ndsb ish\nisb\n"
	if got := tr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	tr.Reset()
	if len(tr.Ops) != 0 {
		t.Errorf("Reset() left %d ops", len(tr.Ops))
	}
}
