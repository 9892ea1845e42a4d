// SPDX-License-Identifier: MPL-2.0

package ndk

import "fmt"

// DefaultPageSize is the load-segment alignment the produced shared object
// is linked with, in bytes. Android 15 requires 16 KiB alignment for
// libraries on 16 KiB page-size devices; the linker default of 4 KiB would
// produce an artifact the platform loader rejects or penalizes there.
const DefaultPageSize = 16384

// LegacyPageSize is the linker's own default alignment on arm64 (4 KiB).
const LegacyPageSize = 4096

// PageSizeLinkerFlags returns the rustc flag pair that aligns the shared
// object's load segments to pageSize bytes. Both the maximum and the common
// page-size knobs must be set to the same value, otherwise the loader can
// still see under-aligned segments.
func PageSizeLinkerFlags(pageSize int) []string {
	return []string{
		fmt.Sprintf("-C link-arg=-Wl,-z,max-page-size=%d", pageSize),
		fmt.Sprintf("-C link-arg=-Wl,-z,common-page-size=%d", pageSize),
	}
}
