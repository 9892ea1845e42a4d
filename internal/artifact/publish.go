// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"droidforge/internal/ndk"
)

var (
	// ErrArtifactNotFound is the sentinel error wrapped by NotFoundError.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrOutputPath is the sentinel error wrapped by OutputPathError.
	ErrOutputPath = errors.New("output path error")
)

type (
	// NotFoundError is returned when the expected shared object is missing
	// from cargo's target directory after a reported success.
	NotFoundError struct {
		Path string
	}

	// OutputPathError is returned when the output root or the ABI
	// subdirectory cannot be created or written.
	OutputPathError struct {
		Path  string
		Cause error
	}

	// Publisher moves a built shared object into the ABI-namespaced output
	// layout. The copy goes through a staging directory under the output
	// root and is renamed into place last, so a failure at any earlier
	// point leaves no file the Android build could mistake for a valid
	// artifact.
	Publisher struct {
		// OutputRoot is the jniLibs-style directory the artifact lands under.
		OutputRoot string
	}
)

// Locate returns the path of the shared object cargo wrote for the given
// target triple and profile directory (e.g. "release").
func Locate(targetDir, rustTriple, profileDir, soFile string) (string, error) {
	path := filepath.Join(targetDir, rustTriple, profileDir, soFile)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &NotFoundError{Path: path}
	}
	return path, nil
}

// Publish copies the shared object at srcPath into <OutputRoot>/<abi>/ and
// returns the final path. Re-publishing over an existing artifact replaces
// it atomically.
func (p *Publisher) Publish(srcPath string, abi ndk.ABI) (string, error) {
	if err := os.MkdirAll(p.OutputRoot, 0o755); err != nil {
		return "", &OutputPathError{Path: p.OutputRoot, Cause: err}
	}

	abiDir := filepath.Join(p.OutputRoot, abi.String())
	if err := os.MkdirAll(abiDir, 0o755); err != nil {
		return "", &OutputPathError{Path: abiDir, Cause: err}
	}

	// Stage under the output root so the final rename stays on one filesystem.
	stageDir := filepath.Join(p.OutputRoot, ".stage-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return "", &OutputPathError{Path: stageDir, Cause: err}
	}
	defer os.RemoveAll(stageDir)

	staged := filepath.Join(stageDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, staged); err != nil {
		return "", &OutputPathError{Path: staged, Cause: err}
	}

	final := filepath.Join(abiDir, filepath.Base(srcPath))
	if err := os.Rename(staged, final); err != nil {
		return "", &OutputPathError{Path: final, Cause: err}
	}

	return final, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.Path)
}

// Unwrap returns ErrArtifactNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrArtifactNotFound }

// Error implements the error interface for OutputPathError.
func (e *OutputPathError) Error() string {
	return fmt.Sprintf("output path error at %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrOutputPath for errors.Is() compatibility.
func (e *OutputPathError) Unwrap() error { return ErrOutputPath }
