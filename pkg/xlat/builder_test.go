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

package xlat_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gvisor.dev/xlat/pkg/xlat"
	"gvisor.dev/xlat/pkg/xlat/xlattest"
)

const (
	baseTable = 0x80000000
	maxPA32   = 1<<32 - 1
	maxVA32   = 0xffffffff

	// mairImage holds WBWA at index 0, Device at 1 and NC at 2.
	mairImage = 0x4404ff

	ttbcrWBAShareable = 0x80803500
	ttbcrNonCacheable = 0x80800000
)

func newBuilder(t *testing.T, opts xlat.BuilderOpts) xlat.Builder {
	t.Helper()
	return xlat.NewBuilder(&xlattest.Registers{}, opts)
}

func TestBuild(t *testing.T) {
	for _, tc := range []struct {
		name  string
		opts  xlat.BuilderOpts
		flags xlat.Flags
		maxVA uint64
		want  xlat.MMUConfig
	}{
		{
			name:  "full space",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_0},
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable, TTBR0: baseTable},
		},
		{
			name:  "1GiB space",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_0},
			maxVA: 0x3fffffff,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable | 2, TTBR0: baseTable},
		},
		{
			name:  "non-cacheable walks",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_0},
			flags: xlat.TableNonCacheable,
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrNonCacheable, TTBR0: baseTable},
		},
		{
			name:  "dcache flag leaves image alone",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_0},
			flags: xlat.DisableDCache,
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable, TTBR0: baseTable},
		},
		{
			name:  "smallest space",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_0},
			maxVA: 1<<25 - 1,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable | 7, TTBR0: baseTable},
		},
		{
			name:  "ARMv7 LPAE",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv7, LargePageAddressing: true},
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable, TTBR0: baseTable},
		},
		{
			name:  "ARMv8.2 sets CnP",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_2},
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable, TTBR0: baseTable | xlat.TTBRCnPBit},
		},
		{
			name:  "ARMv8.2 without CnP",
			opts:  xlat.BuilderOpts{Revision: xlat.ARMv8_2, CommonTables: xlat.CommonTablesNever},
			maxVA: maxVA32,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrWBAShareable, TTBR0: baseTable},
		},
		{
			name:  "ARMv9 forced CnP",
			opts:  xlat.BuilderOpts{Revision: xlat.Revision{Major: 9}, CommonTables: xlat.CommonTablesAlways},
			flags: xlat.TableNonCacheable,
			maxVA: 0x7fffffff,
			want:  xlat.MMUConfig{MAIR: mairImage, TTBCR: ttbcrNonCacheable | 1, TTBR0: baseTable | xlat.TTBRCnPBit},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := newBuilder(t, tc.opts)
			got := b.Build(baseTable, tc.flags, maxPA32, tc.maxVA, xlat.RegimeEL1EL0)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildScenarioFields(t *testing.T) {
	b := newBuilder(t, xlat.BuilderOpts{Revision: xlat.ARMv8_0})

	a := b.Build(baseTable, 0, maxPA32, maxVA32, xlat.RegimeEL1EL0)
	if got := a.T0SZ(); got != 0 {
		t.Errorf("full space T0SZ = %d, want 0", got)
	}
	if a.WalkNonCacheable() {
		t.Errorf("cacheable build reports non-cacheable walks: %v", a)
	}
	if got := a.TableBase(); got != baseTable {
		t.Errorf("TableBase() = %#x, want %#x", got, baseTable)
	}
	if a.CommonTables() {
		t.Errorf("CnP set before ARMv8.2: %v", a)
	}
	if !a.LongDescriptor() || !a.TTBR1Disabled() {
		t.Errorf("EAE/EPD1 missing: %v", a)
	}

	bb := b.Build(baseTable, 0, maxPA32, 0x3fffffff, xlat.RegimeEL1EL0)
	if got := bb.T0SZ(); got != 2 {
		t.Errorf("1GiB T0SZ = %d, want 2", got)
	}
	if got := bb.VirtAddrSpaceSize(); got != 1<<30 {
		t.Errorf("VirtAddrSpaceSize() = %#x, want %#x", got, 1<<30)
	}

	c := b.Build(baseTable, xlat.TableNonCacheable, maxPA32, maxVA32, xlat.RegimeEL1EL0)
	if !c.WalkNonCacheable() {
		t.Errorf("non-cacheable build has walk attributes %#x", c.WalkAttrs())
	}
	if a.WalkAttrs()&c.WalkAttrs() != 0 {
		t.Errorf("walk attributes overlap: %#x and %#x", a.WalkAttrs(), c.WalkAttrs())
	}
}

func TestBuildTruncation(t *testing.T) {
	b := newBuilder(t, xlat.BuilderOpts{Revision: xlat.ARMv8_0})
	for shift := 25; shift <= 32; shift++ {
		size := uint64(1) << shift
		got := b.Build(baseTable, 0, maxPA32, size-1, xlat.RegimeEL1EL0)
		if want := uint32(32 - shift); got.T0SZ() != want {
			t.Errorf("space 2^%d: T0SZ = %d, want %d", shift, got.T0SZ(), want)
		}
		if got.VirtAddrSpaceSize() != size {
			t.Errorf("space 2^%d: VirtAddrSpaceSize() = %#x", shift, got.VirtAddrSpaceSize())
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := newBuilder(t, xlat.BuilderOpts{Revision: xlat.ARMv8_2})
	first := b.Build(baseTable, xlat.TableNonCacheable, maxPA32, 0x0fffffff, xlat.RegimeEL1EL0)
	// Interleave a different request to catch retained state.
	b.Build(0x1000, 0, maxPA32, maxVA32, xlat.RegimeEL1EL0)
	second := b.Build(baseTable, xlat.TableNonCacheable, maxPA32, 0x0fffffff, xlat.RegimeEL1EL0)
	if first != second {
		t.Errorf("Build() not deterministic: %v vs %v", first, second)
	}
}

func TestBuildRegimeIndependent(t *testing.T) {
	b := newBuilder(t, xlat.BuilderOpts{Revision: xlat.ARMv8_0})
	want := b.Build(baseTable, 0, maxPA32, maxVA32, xlat.RegimeEL1EL0)
	for _, r := range []xlat.Regime{xlat.RegimeEL2, xlat.RegimeEL3} {
		if got := b.Build(baseTable, 0, maxPA32, maxVA32, r); got != want {
			t.Errorf("Build(%v) = %v, want %v", r, got, want)
		}
	}
}

func TestParams(t *testing.T) {
	c := xlat.MMUConfig{MAIR: 1, TTBCR: 2, TTBR0: 3}
	p := c.Params()
	if p[xlat.MMUCfgMAIR] != 1 || p[xlat.MMUCfgTCR] != 2 || p[xlat.MMUCfgTTBR0] != 3 {
		t.Errorf("Params() = %v, want [1 2 3]", p)
	}
}

func TestConfigString(t *testing.T) {
	b := newBuilder(t, xlat.BuilderOpts{Revision: xlat.ARMv8_2})
	s := b.Build(baseTable, 0, maxPA32, 0x3fffffff, xlat.RegimeEL1EL0).String()
	for _, want := range []string{"TTBCR=0x80803502", "T0SZ=2", "SH0=ISH", "ORGN0=WBWA", "CnP=true"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestRevision(t *testing.T) {
	for _, tc := range []struct {
		r            xlat.Revision
		major, minor uint8
		want         bool
	}{
		{xlat.ARMv7, 8, 2, false},
		{xlat.ARMv8_0, 8, 2, false},
		{xlat.Revision{Major: 8, Minor: 1}, 8, 2, false},
		{xlat.ARMv8_2, 8, 2, true},
		{xlat.Revision{Major: 8, Minor: 4}, 8, 2, true},
		{xlat.Revision{Major: 9}, 8, 2, true},
	} {
		if got := tc.r.AtLeast(tc.major, tc.minor); got != tc.want {
			t.Errorf("%v.AtLeast(%d, %d) = %v, want %v", tc.r, tc.major, tc.minor, got, tc.want)
		}
	}
	if got, want := fmt.Sprint(xlat.ARMv8_2), "ARMv8.2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
