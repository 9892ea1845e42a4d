// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"droidforge/internal/artifact"
	"droidforge/pkg/types"
)

type (
	// Orchestrator runs build requests end to end. The zero value is not
	// usable; construct it with New.
	Orchestrator struct {
		// Stdout and Stderr receive the child process output as it happens.
		// Stderr is additionally captured for failure classification.
		Stdout io.Writer
		Stderr io.Writer

		// Logger reports build progress. Never nil after New.
		Logger *log.Logger

		// Environ supplies the base environment for the child process. Nil
		// means os.Environ.
		Environ func() []string
	}

	// Result describes a finished cargo run. It is returned for failed runs
	// too, so callers always have the exit code and captured diagnostics.
	Result struct {
		ExitCode types.ExitCode

		// ArtifactPath is the final published location of the shared object.
		// Empty unless the whole pipeline succeeded.
		ArtifactPath string

		// Diagnostics is the captured stderr of the cargo invocation.
		Diagnostics string

		Duration time.Duration
	}
)

// New returns an Orchestrator writing child output to the standard streams.
func New(logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

func (o *Orchestrator) environ() []string {
	if o.Environ != nil {
		return o.Environ()
	}
	return os.Environ()
}

// Run executes one build request: plan, invoke cargo, collect the shared
// object, optionally verify its alignment, and publish it under the output
// root. On a cargo failure the returned Result still carries the exit code
// and diagnostics alongside the classified error.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	plan, err := o.Plan(opts)
	if err != nil {
		return nil, err
	}

	o.Logger.Info("compiling",
		"crate", plan.Manifest.Package.Name,
		"target", opts.Target.String(),
		"profile", opts.Profile.String(),
		"features", joinFeatures(opts.Features))

	start := time.Now()
	result, err := o.invoke(ctx, plan.Invocation, opts.Target.RustTriple())
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	srcPath, err := artifact.Locate(
		plan.TargetDir, opts.Target.RustTriple(), opts.Profile.Dir(), plan.SharedObject)
	if err != nil {
		return result, err
	}

	if opts.Verify {
		info, err := artifact.Inspect(srcPath)
		if err != nil {
			return result, err
		}
		if err := info.VerifyAlignment(uint64(opts.PageSize)); err != nil {
			return result, err
		}
		o.Logger.Debug("alignment verified", "path", srcPath, "align", info.LoadAlignment)
	}

	publisher := artifact.Publisher{OutputRoot: opts.OutputRoot}
	final, err := publisher.Publish(srcPath, opts.Target)
	if err != nil {
		return result, err
	}

	result.ArtifactPath = final
	o.Logger.Info("published",
		"artifact", final,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// invoke runs the composed cargo command, streaming its output while
// capturing stderr for classification. The returned Result is never nil.
func (o *Orchestrator) invoke(ctx context.Context, inv Invocation, triple string) (*Result, error) {
	var diagnostics bytes.Buffer

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(o.environ(), inv.Env...)
	cmd.Stdout = o.Stdout
	cmd.Stderr = io.MultiWriter(o.Stderr, &diagnostics)

	runErr := cmd.Run()

	result := &Result{Diagnostics: diagnostics.String()}
	if runErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		return result, classifyFailure(result.ExitCode, result.Diagnostics, triple)
	}

	// cargo never started (or was killed before exiting cleanly).
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	return result, &ToolchainInvocationError{Cause: runErr}
}
