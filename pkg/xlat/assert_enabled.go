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

//go:build !xlat_noassert
// +build !xlat_noassert

package xlat

const assertionsEnabled = true

// PhysAddrBits is the output address width of the long-descriptor format.
const PhysAddrBits = 40

// MaxSupportedPA returns the largest physical address a table can map.
//
// It only exists in builds with assertions, where table builders use it to
// check that a requested range is representable.
func MaxSupportedPA() uint64 {
	return (uint64(1) << PhysAddrBits) - 1
}

func checkMaxPA(maxPA uint64) {
	assert(maxPA <= MaxSupportedPA(), "max PA %#x exceeds %#x", maxPA, MaxSupportedPA())
}
