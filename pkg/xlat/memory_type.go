// Copyright 2021 The gVisor Authors.
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

// MemoryType selects one of the memory attribute slots programmed into
// MAIR0. The value is the attribute index that table entries carry in their
// AttrIndx field, so the order below is a contract with table builders.
type MemoryType uint8

const (
	// MemoryTypeWriteBack is Normal memory, inner and outer write-back
	// write-allocate non-transient. It is the zero value.
	MemoryTypeWriteBack MemoryType = iota

	// MemoryTypeDevice is Device-nGnRE memory.
	MemoryTypeDevice

	// MemoryTypeNonCacheable is Normal memory, inner and outer
	// non-cacheable.
	MemoryTypeNonCacheable

	// NumMemoryTypes is the number of memory types.
	NumMemoryTypes
)

// MAIR attribute encodings.
const (
	attrIWBWAOWBWANTR = 0xff
	attrDevice        = 0x04
	attrNonCacheable  = 0x44
)

// AttrIndex returns the MAIR index of mt.
func (mt MemoryType) AttrIndex() uint {
	return uint(mt)
}

// Encoding returns the 8-bit MAIR attribute for mt.
func (mt MemoryType) Encoding() uint8 {
	switch mt {
	case MemoryTypeWriteBack:
		return attrIWBWAOWBWANTR
	case MemoryTypeDevice:
		return attrDevice
	case MemoryTypeNonCacheable:
		return attrNonCacheable
	default:
		panic(fmt.Sprintf("invalid memory type %d", mt))
	}
}

func (mt MemoryType) String() string {
	switch mt {
	case MemoryTypeWriteBack:
		return "WriteBack"
	case MemoryTypeDevice:
		return "Device"
	case MemoryTypeNonCacheable:
		return "NonCacheable"
	default:
		return fmt.Sprintf("%d", mt)
	}
}

// ShortString returns a two-character string describing mt.
func (mt MemoryType) ShortString() string {
	switch mt {
	case MemoryTypeWriteBack:
		return "WB"
	case MemoryTypeDevice:
		return "DV"
	case MemoryTypeNonCacheable:
		return "NC"
	default:
		return fmt.Sprintf("%02d", mt)
	}
}

// MAIRAttrSet places an attribute encoding at index in a MAIR0/MAIR1 image.
func MAIRAttrSet(attr uint8, index uint) uint64 {
	return uint64(attr) << (index << 3)
}

// mairImage returns MAIR0 with every MemoryType at its index.
func mairImage() uint64 {
	var mair uint64
	for mt := MemoryType(0); mt < NumMemoryTypes; mt++ {
		mair |= MAIRAttrSet(mt.Encoding(), mt.AttrIndex())
	}
	return mair
}
