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

// Package xlat is the AArch32 backend of the translation table library.
//
// It turns an architecture-independent description of a translation table
// into the register image the long-descriptor (LPAE) format requires, and
// performs TLB maintenance with the barriers the ARM weak memory model
// demands. Table construction, walking and the assembly that programs the
// registers and sets SCTLR.M live elsewhere; this package only answers
// capability queries and computes values.
//
// Lifecycle, as driven by a table builder:
//
//	if !xlat.IsGranuleSizeSupported(size) { ... }
//	desc |= xlat.XNDescriptorBits(regime)      // while building entries
//	cfg := b.Build(base, flags, maxPA, maxVA, regime)
//	enable(cfg.Params())                       // external
//	...
//	tlb.InvalidateVA(va, regime)               // per modified entry
//	tlb.Sync()                                 // once per batch
//
// Preconditions are checked with assertions which panic. They are compiled
// out with the xlat_noassert build tag.
package xlat
