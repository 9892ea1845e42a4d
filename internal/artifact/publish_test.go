// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"droidforge/internal/ndk"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	targetDir := t.TempDir()
	soDir := filepath.Join(targetDir, "aarch64-linux-android", "release")
	if err := os.MkdirAll(soDir, 0o755); err != nil {
		t.Fatalf("failed to create fixture dirs: %v", err)
	}
	soPath := filepath.Join(soDir, "librenderer.so")
	if err := os.WriteFile(soPath, []byte("elf"), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := Locate(targetDir, "aarch64-linux-android", "release", "librenderer.so")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got != soPath {
		t.Errorf("Locate() = %q, want %q", got, soPath)
	}
}

func TestLocate_Missing(t *testing.T) {
	t.Parallel()

	_, err := Locate(t.TempDir(), "aarch64-linux-android", "release", "librenderer.so")
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Locate() error should wrap ErrArtifactNotFound, got %v", err)
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "librenderer.so")
	if err := os.WriteFile(src, []byte("shared object bytes"), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	outRoot := filepath.Join(t.TempDir(), "jniLibs")
	p := &Publisher{OutputRoot: outRoot}

	final, err := p.Publish(src, ndk.ABIArm64)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := filepath.Join(outRoot, "arm64-v8a", "librenderer.so")
	if final != want {
		t.Errorf("Publish() = %q, want %q", final, want)
	}

	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("failed to read published artifact: %v", err)
	}
	if string(data) != "shared object bytes" {
		t.Errorf("published content = %q", data)
	}

	// no staging leftovers
	entries, err := os.ReadDir(outRoot)
	if err != nil {
		t.Fatalf("failed to list output root: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".stage-") {
			t.Errorf("staging directory %q left behind", e.Name())
		}
	}
}

func TestPublisher_Publish_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "librenderer.so")
	if err := os.WriteFile(src, []byte("v1"), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p := &Publisher{OutputRoot: filepath.Join(dir, "out")}

	if _, err := p.Publish(src, ndk.ABIArm64); err != nil {
		t.Fatalf("first Publish() error = %v", err)
	}

	// second run replaces the artifact in place
	if err := os.WriteFile(src, []byte("v2"), 0o755); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}
	final, err := p.Publish(src, ndk.ABIArm64)
	if err != nil {
		t.Fatalf("second Publish() error = %v", err)
	}

	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("failed to read published artifact: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("re-publish should replace the artifact, got %q", data)
	}
}

func TestPublisher_Publish_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := &Publisher{OutputRoot: filepath.Join(dir, "out")}

	_, err := p.Publish(filepath.Join(dir, "no-such.so"), ndk.ABIArm64)
	if !errors.Is(err, ErrOutputPath) {
		t.Errorf("Publish() error should wrap ErrOutputPath, got %v", err)
	}

	// the ABI directory may exist but must hold no artifact
	if _, statErr := os.Stat(filepath.Join(dir, "out", "arm64-v8a", "no-such.so")); statErr == nil {
		t.Error("failed Publish() must not leave an artifact in place")
	}
}

func TestPublisher_Publish_UnwritableRoot(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	src := filepath.Join(t.TempDir(), "librenderer.so")
	if err := os.WriteFile(src, []byte("x"), 0o755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p := &Publisher{OutputRoot: filepath.Join(dir, "out")}
	_, err := p.Publish(src, ndk.ABIArm64)
	if !errors.Is(err, ErrOutputPath) {
		t.Errorf("Publish() error should wrap ErrOutputPath, got %v", err)
	}
}
