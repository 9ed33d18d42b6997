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
	"fmt"
	"math"

	"gvisor.dev/xlat/pkg/log"
)

// Revision is an ARM architecture revision, e.g. {8, 2} for ARMv8.2.
type Revision struct {
	Major uint8
	Minor uint8
}

// Well-known revisions.
var (
	ARMv7   = Revision{Major: 7}
	ARMv8_0 = Revision{Major: 8}
	ARMv8_2 = Revision{Major: 8, Minor: 2}
)

// AtLeast returns true if r is major.minor or newer.
func (r Revision) AtLeast(major, minor uint8) bool {
	return r.Major > major || (r.Major == major && r.Minor >= minor)
}

func (r Revision) String() string {
	return fmt.Sprintf("ARMv%d.%d", r.Major, r.Minor)
}

// CommonTables selects whether TTBR0 advertises translation tables shared
// by all PEs (the CnP bit).
type CommonTables int

const (
	// CommonTablesDefault sets CnP on ARMv8.2 and later, where it is
	// mandatory for tables shared between PEs.
	CommonTablesDefault CommonTables = iota

	// CommonTablesAlways sets CnP. It requires ARMv8.2.
	CommonTablesAlways

	// CommonTablesNever leaves CnP clear.
	CommonTablesNever
)

func (c CommonTables) String() string {
	switch c {
	case CommonTablesDefault:
		return "default"
	case CommonTablesAlways:
		return "always"
	case CommonTablesNever:
		return "never"
	default:
		return fmt.Sprintf("CommonTables(%d)", int(c))
	}
}

// BuilderOpts select the register image strategy.
type BuilderOpts struct {
	// Revision is the architecture revision of the target.
	Revision Revision

	// LargePageAddressing reports that an ARMv7 target implements the
	// Large Physical Address Extension. It is implied on ARMv8.
	LargePageAddressing bool

	// CommonTables is the CnP policy.
	CommonTables CommonTables
}

// Builder computes the register image for a translation table.
type Builder interface {
	// Build returns the MAIR0, TTBCR and TTBR0 values for the table at
	// baseTable, translating virtual addresses up to maxVA onto physical
	// addresses up to maxPA.
	//
	// The caller must run in the Secure state and maxVA+1 must be a
	// valid TTBR0 region size (or maxVA must be 0xFFFFFFFF). Violations
	// panic.
	Build(baseTable uintptr, flags Flags, maxPA, maxVA uint64, r Regime) MMUConfig
}

// NewBuilder returns the Builder for the target described by opts. regs is
// consulted on every Build to check the security state.
func NewBuilder(regs Registers, opts BuilderOpts) Builder {
	rev := opts.Revision
	if rev.Major < 7 {
		panic(fmt.Sprintf("unsupported architecture revision %v", rev))
	}
	if rev.Major == 7 && !opts.LargePageAddressing {
		panic(fmt.Sprintf("%v target does not support large page addressing", rev))
	}

	base := lpaeBuilder{regs: regs}
	switch opts.CommonTables {
	case CommonTablesDefault:
		if rev.AtLeast(8, 2) {
			return commonTableBuilder{base}
		}
		return base
	case CommonTablesAlways:
		if !rev.AtLeast(8, 2) {
			panic(fmt.Sprintf("CnP requested but %v predates ARMv8.2", rev))
		}
		return commonTableBuilder{base}
	case CommonTablesNever:
		return base
	default:
		panic(fmt.Sprintf("invalid common tables policy %v", opts.CommonTables))
	}
}

// lpaeBuilder builds images for the Secure PL1&0 regime on targets without
// CnP.
type lpaeBuilder struct {
	regs Registers
}

// Build implements Builder.Build.
func (b lpaeBuilder) Build(baseTable uintptr, flags Flags, maxPA, maxVA uint64, r Regime) MMUConfig {
	c := b.image(baseTable, flags, maxPA, maxVA, r)
	logImage(r, baseTable, flags, c)
	return c
}

func (b lpaeBuilder) image(baseTable uintptr, flags Flags, maxPA, maxVA uint64, r Regime) MMUConfig {
	assert(IsInSecure(b.regs), "MMU configuration outside of the Secure state")
	assert(r.Valid(), "invalid translation regime %v", r)
	checkMaxPA(maxPA)

	// Set attributes in the right indices of MAIR0.
	mair := mairImage()

	// Use the long-descriptor format, and disable walks through TTBR1 so
	// that only TTBR0 is used.
	ttbcr := uint64(ttbcrEAEBit | ttbcrEPD1Bit)

	// Limit the input address range translated through TTBR0 if it is
	// smaller than 32 bits.
	if maxVA != math.MaxUint32 {
		assert(maxVA < math.MaxUint32, "max VA %#x exceeds %d bits", maxVA, VirtAddrBits)
		size := maxVA + 1
		assert(CheckVirtAddrSpaceSize(size), "invalid virtual address space size %#x", size)
		ttbcr |= uint64(T0SZForSize(size)) << ttbcrT0SZShift
	}

	// Cacheability and shareability of memory used by table walks.
	if flags&TableNonCacheable != 0 {
		ttbcr |= walkAttrsNonCacheable
	} else {
		ttbcr |= walkAttrsWBAShareable
	}

	return MMUConfig{
		MAIR:  mair,
		TTBCR: ttbcr,
		TTBR0: uint64(baseTable),
	}
}

// commonTableBuilder builds images for ARMv8.2 and later targets, which must
// set CnP so that all PEs share the tables.
type commonTableBuilder struct {
	lpaeBuilder
}

// Build implements Builder.Build.
func (b commonTableBuilder) Build(baseTable uintptr, flags Flags, maxPA, maxVA uint64, r Regime) MMUConfig {
	c := b.image(baseTable, flags, maxPA, maxVA, r)
	c.TTBR0 |= TTBRCnPBit
	logImage(r, baseTable, flags, c)
	return c
}

func logImage(r Regime, baseTable uintptr, flags Flags, c MMUConfig) {
	if log.IsLogging(log.Debug) {
		log.Debugf("xlat: %v image for table %#x, flags %#x: %v", r, baseTable, flags, c)
	}
}
