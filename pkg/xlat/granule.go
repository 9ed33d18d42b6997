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

// GranuleSize is a translation granule (page) size in bytes.
type GranuleSize uint64

const (
	// PageShift is the binary log of the only supported granule.
	PageShift = 12

	// PageSize4K is the only granule defined by the long-descriptor
	// format.
	PageSize4K GranuleSize = 1 << PageShift
)

// IsGranuleSizeSupported returns true if tables may use the given granule.
func IsGranuleSizeSupported(size GranuleSize) bool {
	return size == PageSize4K
}

// MaxSupportedGranuleSize returns the largest supported granule.
func MaxSupportedGranuleSize() GranuleSize {
	return PageSize4K
}
