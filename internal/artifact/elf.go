// SPDX-License-Identifier: MPL-2.0

// Package artifact handles the output side of a cross-compile invocation:
// locating the shared object cargo produced, checking its program headers,
// and publishing it into the ABI-namespaced jniLibs layout without ever
// leaving a half-written file where the Android build would pick it up.
package artifact

import (
	"debug/elf"
	"errors"
	"fmt"
	"sort"
)

// ErrVerifyFailed is the sentinel error wrapped by AlignmentError.
var ErrVerifyFailed = errors.New("artifact verification failed")

type (
	// Info describes the load-relevant properties of a shared object.
	Info struct {
		// Path is the inspected file.
		Path string
		// Machine is the ELF machine type (EM_AARCH64 for arm64-v8a).
		Machine elf.Machine
		// LoadAlignment is the largest p_align across PT_LOAD segments.
		// This is the value the platform loader compares against its page size.
		LoadAlignment uint64
		// ExportedSymbols lists the defined dynamic symbols, sorted.
		// Empty when the object exports nothing or carries no dynamic table.
		ExportedSymbols []string
	}

	// AlignmentError is returned when a shared object's load segments are
	// not aligned to the expected page size. It wraps ErrVerifyFailed.
	AlignmentError struct {
		Path string
		Got  uint64
		Want uint64
	}
)

// Inspect opens an ELF shared object and extracts its load-segment
// alignment and exported dynamic symbols.
func Inspect(path string) (*Info, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ELF file %s: %w", path, err)
	}
	defer f.Close()

	info := &Info{
		Path:    path,
		Machine: f.Machine,
	}

	for _, prog := range f.Progs {
		if prog.Type == elf.PT_LOAD && prog.Align > info.LoadAlignment {
			info.LoadAlignment = prog.Align
		}
	}

	// A stripped object without a dynamic symbol table is still valid;
	// only hard read errors are surfaced.
	syms, err := f.DynamicSymbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, fmt.Errorf("failed to read dynamic symbols of %s: %w", path, err)
	}
	for _, sym := range syms {
		if sym.Section == elf.SHN_UNDEF || sym.Name == "" {
			continue
		}
		info.ExportedSymbols = append(info.ExportedSymbols, sym.Name)
	}
	sort.Strings(info.ExportedSymbols)

	return info, nil
}

// VerifyAlignment fails unless every load segment is aligned to at least
// pageSize bytes.
func (i *Info) VerifyAlignment(pageSize uint64) error {
	if i.LoadAlignment < pageSize {
		return &AlignmentError{Path: i.Path, Got: i.LoadAlignment, Want: pageSize}
	}
	return nil
}

// Error implements the error interface for AlignmentError.
func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s: load-segment alignment is %d bytes, want at least %d", e.Path, e.Got, e.Want)
}

// Unwrap returns ErrVerifyFailed for errors.Is() compatibility.
func (e *AlignmentError) Unwrap() error { return ErrVerifyFailed }
