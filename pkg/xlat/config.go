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

	"gvisor.dev/xlat/pkg/bits"
)

// Flags are options for Build.
type Flags uint32

const (
	// DisableDCache asks the enabling routine to leave the data cache
	// off. It does not change the register image.
	DisableDCache Flags = 1 << 0

	// TableNonCacheable marks translation table memory as inner and
	// outer non-cacheable and non-shareable for table walks.
	TableNonCacheable Flags = 1 << 1
)

// TTBCR fields for the long-descriptor format.
const (
	ttbcrEAEBit  = 1 << 31
	ttbcrEPD1Bit = 1 << 23
	ttbcrEPD0Bit = 1 << 7

	ttbcrSH1Shift   = 28
	ttbcrORGN1Shift = 26
	ttbcrIRGN1Shift = 24
	ttbcrT1SZShift  = 16
	ttbcrSH0Shift   = 12
	ttbcrORGN0Shift = 10
	ttbcrIRGN0Shift = 8
	ttbcrT0SZShift  = 0

	ttbcrSHWidth   = 2
	ttbcrRGNWidth  = 2
	ttbcrTxSZWidth = 3

	// ttbcrTxSZMax is the largest T0SZ/T1SZ the format allows.
	ttbcrTxSZMax = 7
)

// Shareability and cacheability encodings for the SHx and xRGNx fields.
const (
	shNonShareable   = 0
	shOuterShareable = 2
	shInnerShareable = 3

	rgnNC   = 0
	rgnWBA  = 1
	rgnWT   = 2
	rgnWBNA = 3
)

// Table walk attributes selected by TableNonCacheable.
const (
	walkAttrsNonCacheable = shNonShareable<<ttbcrSH0Shift |
		rgnNC<<ttbcrORGN0Shift |
		rgnNC<<ttbcrIRGN0Shift

	walkAttrsWBAShareable = shInnerShareable<<ttbcrSH0Shift |
		rgnWBA<<ttbcrORGN0Shift |
		rgnWBA<<ttbcrIRGN0Shift

	walkAttrsMask = (1<<ttbcrSHWidth-1)<<ttbcrSH0Shift |
		(1<<ttbcrRGNWidth-1)<<ttbcrORGN0Shift |
		(1<<ttbcrRGNWidth-1)<<ttbcrIRGN0Shift
)

// TTBRCnPBit is the Common not Private bit of TTBR0/TTBR1 (ARMv8.2).
const TTBRCnPBit = 1 << 0

// Virtual address space limits for TTBR0.
const (
	// VirtAddrBits is the native input address width.
	VirtAddrBits = 32

	// MaxVirtAddrSpaceSize is the largest space TTBR0 can translate.
	MaxVirtAddrSpaceSize = uint64(1) << VirtAddrBits

	// MinVirtAddrSpaceSize is the smallest space T0SZ can express.
	MinVirtAddrSpaceSize = uint64(1) << (VirtAddrBits - ttbcrTxSZMax)
)

// CheckVirtAddrSpaceSize returns true if a TTBR0 region of size bytes can be
// described by T0SZ.
func CheckVirtAddrSpaceSize(size uint64) bool {
	return size >= MinVirtAddrSpaceSize &&
		size <= MaxVirtAddrSpaceSize &&
		bits.IsPowerOfTwo64(size)
}

// T0SZForSize returns the T0SZ value limiting TTBR0 to size bytes. size must
// satisfy CheckVirtAddrSpaceSize; the full 4 GiB space gives 0.
func T0SZForSize(size uint64) uint32 {
	return uint32(VirtAddrBits - bits.TrailingZeros64(size))
}

// Indices into MMUConfig.Params, in the order the enabling routine loads
// them.
const (
	MMUCfgMAIR = iota
	MMUCfgTCR
	MMUCfgTTBR0
	MMUCfgParamMax
)

// MMUConfig is the register image for one translation regime.
//
// It is produced by a Builder and consumed by the routine that writes the
// registers and enables the MMU.
type MMUConfig struct {
	// MAIR is the memory attribute table (MAIR0).
	MAIR uint64

	// TTBCR is the translation table base control register. Only the low
	// 32 bits are significant.
	TTBCR uint64

	// TTBR0 is the 64-bit translation table base register 0.
	TTBR0 uint64
}

// Params returns the image as the array the enabling routine consumes.
func (c MMUConfig) Params() [MMUCfgParamMax]uint64 {
	var p [MMUCfgParamMax]uint64
	p[MMUCfgMAIR] = c.MAIR
	p[MMUCfgTCR] = c.TTBCR
	p[MMUCfgTTBR0] = c.TTBR0
	return p
}

// Attr returns the MAIR attribute encoding programmed for mt.
func (c MMUConfig) Attr(mt MemoryType) uint8 {
	return uint8(bits.Field64(c.MAIR, mt.AttrIndex()<<3, 8))
}

// LongDescriptor returns true if TTBCR.EAE selects the long-descriptor
// format.
func (c MMUConfig) LongDescriptor() bool {
	return bits.IsOn64(c.TTBCR, ttbcrEAEBit)
}

// TTBR1Disabled returns true if table walks through TTBR1 are disabled.
func (c MMUConfig) TTBR1Disabled() bool {
	return bits.IsOn64(c.TTBCR, ttbcrEPD1Bit)
}

// T0SZ returns the TTBR0 region size field.
func (c MMUConfig) T0SZ() uint32 {
	return uint32(bits.Field64(c.TTBCR, ttbcrT0SZShift, ttbcrTxSZWidth))
}

// VirtAddrSpaceSize returns the size of the region TTBR0 translates.
func (c MMUConfig) VirtAddrSpaceSize() uint64 {
	return uint64(1) << (VirtAddrBits - c.T0SZ())
}

// WalkAttrs returns the SH0, ORGN0 and IRGN0 bits of TTBCR.
func (c MMUConfig) WalkAttrs() uint64 {
	return c.TTBCR & walkAttrsMask
}

// WalkNonCacheable returns true if table walks use non-cacheable,
// non-shareable memory.
func (c MMUConfig) WalkNonCacheable() bool {
	return c.WalkAttrs() == walkAttrsNonCacheable
}

// CommonTables returns true if TTBR0 has the CnP bit set.
func (c MMUConfig) CommonTables() bool {
	return bits.IsOn64(c.TTBR0, TTBRCnPBit)
}

// TableBase returns the base table address held in TTBR0.
func (c MMUConfig) TableBase() uint64 {
	return c.TTBR0 &^ TTBRCnPBit
}

func (c MMUConfig) String() string {
	f := DecodeTTBCR(c.TTBCR)
	return fmt.Sprintf("MAIR=%#016x TTBCR=%#08x TTBR0=%#016x (T0SZ=%d SH0=%s ORGN0=%s IRGN0=%s CnP=%t)",
		c.MAIR, c.TTBCR&math.MaxUint32, c.TTBR0, f.T0SZ, f.SH0, f.ORGN0, f.IRGN0, c.CommonTables())
}

// TTBCRFields is a decoded long-descriptor TTBCR.
type TTBCRFields struct {
	EAE   bool
	SH1   string
	ORGN1 string
	IRGN1 string
	EPD1  bool
	T1SZ  uint32
	SH0   string
	ORGN0 string
	IRGN0 string
	EPD0  bool
	T0SZ  uint32
}

// DecodeTTBCR splits a TTBCR value into its fields.
func DecodeTTBCR(v uint64) TTBCRFields {
	return TTBCRFields{
		EAE:   bits.IsOn64(v, ttbcrEAEBit),
		SH1:   shareabilityString(bits.Field64(v, ttbcrSH1Shift, ttbcrSHWidth)),
		ORGN1: cacheabilityString(bits.Field64(v, ttbcrORGN1Shift, ttbcrRGNWidth)),
		IRGN1: cacheabilityString(bits.Field64(v, ttbcrIRGN1Shift, ttbcrRGNWidth)),
		EPD1:  bits.IsOn64(v, ttbcrEPD1Bit),
		T1SZ:  uint32(bits.Field64(v, ttbcrT1SZShift, ttbcrTxSZWidth)),
		SH0:   shareabilityString(bits.Field64(v, ttbcrSH0Shift, ttbcrSHWidth)),
		ORGN0: cacheabilityString(bits.Field64(v, ttbcrORGN0Shift, ttbcrRGNWidth)),
		IRGN0: cacheabilityString(bits.Field64(v, ttbcrIRGN0Shift, ttbcrRGNWidth)),
		EPD0:  bits.IsOn64(v, ttbcrEPD0Bit),
		T0SZ:  uint32(bits.Field64(v, ttbcrT0SZShift, ttbcrTxSZWidth)),
	}
}

func shareabilityString(sh uint64) string {
	switch sh {
	case shNonShareable:
		return "NSH"
	case shOuterShareable:
		return "OSH"
	case shInnerShareable:
		return "ISH"
	default:
		return "RES"
	}
}

func cacheabilityString(rgn uint64) string {
	switch rgn {
	case rgnNC:
		return "NC"
	case rgnWBA:
		return "WBWA"
	case rgnWT:
		return "WT"
	case rgnWBNA:
		return "WBnWA"
	default:
		return "?"
	}
}
