// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test fixtures: synthetic ELF shared
// objects and fake cargo binaries for exercising the orchestrator without
// a Rust toolchain.
package testutil

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// FakeSharedObject synthesizes a minimal ELF64 shared object at path with
// two PT_LOAD segments, the larger aligned to align bytes. It carries no
// section headers or symbols; just enough structure for program-header
// inspection.
func FakeSharedObject(t *testing.T, path string, align uint64) {
	t.Helper()

	const (
		ehSize = 64
		phSize = 56
		phNum  = 2
	)

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* little-endian */, 1 /* EV_CURRENT */}
	buf.Write(ident[:])

	le := binary.LittleEndian
	write := func(v any) {
		if err := binary.Write(&buf, le, v); err != nil {
			t.Fatalf("failed to encode ELF fixture: %v", err)
		}
	}

	write(uint16(elf.ET_DYN))
	write(uint16(elf.EM_AARCH64))
	write(uint32(1))      // e_version
	write(uint64(0))      // e_entry
	write(uint64(ehSize)) // e_phoff
	write(uint64(0))      // e_shoff (no sections)
	write(uint32(0))      // e_flags
	write(uint16(ehSize)) // e_ehsize
	write(uint16(phSize)) // e_phentsize
	write(uint16(phNum))  // e_phnum
	write(uint16(0))      // e_shentsize
	write(uint16(0))      // e_shnum
	write(uint16(0))      // e_shstrndx

	for i, segAlign := range []uint64{0x1000, align} {
		write(uint32(elf.PT_LOAD))
		write(uint32(elf.PF_R | elf.PF_X))
		write(uint64(0))                    // p_offset
		write(uint64(uint64(i) * segAlign)) // p_vaddr
		write(uint64(uint64(i) * segAlign)) // p_paddr
		write(uint64(0x100))                // p_filesz
		write(uint64(0x100))                // p_memsz
		write(segAlign)                     // p_align
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture dirs: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o755); err != nil {
		t.Fatalf("failed to write ELF fixture: %v", err)
	}
}

// FakeCargo writes an executable POSIX shell script named cargo into dir
// and returns its path. The script body decides the fake toolchain's
// behavior (producing artifacts, emitting diagnostics, exit codes).
func FakeCargo(t *testing.T, dir, script string) string {
	t.Helper()

	path := filepath.Join(dir, "cargo")
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write fake cargo: %v", err)
	}
	return path
}
