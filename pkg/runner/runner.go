// Package runner provides process execution for the installation engine.
// All external tools (python, pip, git) are invoked through the Runner
// interface so the engine stays testable with a fake runner.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command describes a single external process invocation.
type Command struct {
	// Name is the binary to invoke (absolute path or PATH-resolvable name).
	Name string

	// Args are the command arguments, not including the binary name.
	Args []string

	// Dir is the working directory. Empty means the process inherits the
	// caller's working directory.
	Dir string

	// Env are additional environment variables layered over the ambient
	// process environment.
	Env map[string]string
}

// Result captures the outcome of a completed process invocation.
type Result struct {
	// ExitCode is the process exit status. Zero means success.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Duration is the wall-clock execution time in seconds.
	Duration float64
}

// Succeeded returns true for a zero exit status.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner executes external processes and resolves binaries on the search
// path. Implementations must block until the process exits; the engine has
// no timeout layer of its own.
type Runner interface {
	// Run executes the command and returns its captured outcome. A non-zero
	// exit status is reported through Result.ExitCode, not through the error;
	// the error is reserved for failures to start the process at all.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath resolves a binary name on the execution search path.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Stream mirrors child stdout/stderr to the parent process in addition
	// to capturing it, so long pip runs remain observable.
	Stream bool
}

// NewExecRunner creates a runner that streams child output to the terminal.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stream: true}
}

// Run executes the command, capturing stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, fmt.Errorf("command name is required")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	// Layer the overlay over the ambient environment.
	if len(cmd.Env) > 0 {
		env := os.Environ()
		for k, v := range cmd.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		c.Env = env
	}

	var stdout, stderr bytes.Buffer
	if r.Stream {
		c.Stdout = io.MultiWriter(&stdout, os.Stdout)
		c.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Seconds()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
	}

	return result, nil
}

// LookPath resolves a binary on the ambient PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
