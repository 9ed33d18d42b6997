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

// Long-descriptor block and page attribute fields.
const (
	upperAttrsShift = 52
	upperAttrsMask  = 0x7

	attrIndxShift = 2
	attrIndxMask  = 0x7

	// XN is the execute-never upper attribute.
	XN = 1 << 2

	// PXN is the privileged execute-never upper attribute. The library
	// never sets it on its own: in PL1&0 XN covers privileged execution.
	PXN = 1 << 1
)

// UpperAttrs places upper attribute bits at their descriptor position.
func UpperAttrs(x uint64) uint64 {
	return (x & upperAttrsMask) << upperAttrsShift
}

// AttrIndx returns the lower attribute bits selecting mt in MAIR0.
func AttrIndx(mt MemoryType) uint64 {
	return (uint64(mt.AttrIndex()) & attrIndxMask) << attrIndxShift
}

// XNDescriptorBits returns the bits to OR into a descriptor to make it
// execute-never in the given regime. The encoding is the same for every
// regime on AArch32.
func XNDescriptorBits(_ Regime) uint64 {
	return UpperAttrs(XN)
}
