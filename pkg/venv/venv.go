// Package venv provisions the isolated Python environment the packages are
// installed into, and bootstraps the package manager inside it.
package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fixstrap/fixstrap/pkg/engine"
	"github.com/fixstrap/fixstrap/pkg/runner"
	"github.com/fixstrap/fixstrap/pkg/telemetry"
)

// Context is the provisioned execution context for all subsequent package
// operations. With isolation enabled it points at the virtual environment's
// interpreter and carries the activation environment; with isolation
// disabled it simply wraps the ambient runtime.
type Context struct {
	// Root is the installation root directory.
	Root string

	// Python is the interpreter binary used for every package operation.
	Python string

	// Isolated is true when a virtual environment is in use.
	Isolated bool

	// Reused is true when an existing environment was found and kept.
	Reused bool

	env map[string]string
}

// Env returns the activation environment overlay for child processes. It is
// empty when isolation is disabled.
func (c *Context) Env() map[string]string {
	return c.env
}

// VenvPath returns the virtual environment directory, or an empty string
// when isolation is disabled.
func (c *Context) VenvPath() string {
	if !c.Isolated {
		return ""
	}
	return filepath.Join(c.Root, engine.VenvDir)
}

// PythonCommand builds an interpreter invocation (python -m ...) carrying
// the activation environment.
func (c *Context) PythonCommand(args ...string) runner.Command {
	return runner.Command{
		Name: c.Python,
		Args: append([]string{"-m"}, args...),
		Env:  c.env,
	}
}

// Provisioner creates or reuses the virtual environment.
type Provisioner struct {
	runner runner.Runner
	log    *telemetry.Logger
}

// NewProvisioner creates a provisioner using the given process runner.
func NewProvisioner(r runner.Runner, log *telemetry.Logger) *Provisioner {
	return &Provisioner{runner: r, log: log.NewComponentLogger("venv")}
}

// Provision ensures the execution context for package operations.
//
// Provisioning is idempotent: an environment already present at root/venv is
// reused and a notice is surfaced, never an error. Recreation requires the
// operator to delete the directory manually. With enabled=false no isolation
// layer is created and the ambient runtime is used directly.
func (p *Provisioner) Provision(ctx context.Context, root string, rt engine.RuntimeHandle, enabled bool) (*Context, error) {
	if !enabled {
		p.log.Debug("virtual environment disabled, using ambient runtime")
		return &Context{Root: root, Python: rt.Path}, nil
	}

	venvPath := filepath.Join(root, engine.VenvDir)
	binDir := filepath.Join(venvPath, "bin")

	if _, err := os.Stat(venvPath); err == nil {
		p.log.Infof("reusing existing virtual environment at %s (delete it manually to recreate)", venvPath)
		return p.activated(root, venvPath, binDir, true), nil
	}

	p.log.Infof("creating virtual environment at %s", venvPath)
	result, err := p.runner.Run(ctx, runner.Command{
		Name: rt.Path,
		Args: []string{"-m", "venv", venvPath},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual environment: %w", err)
	}
	if !result.Succeeded() {
		return nil, fmt.Errorf("failed to create virtual environment (exit %d): %s",
			result.ExitCode, result.Stderr)
	}

	return p.activated(root, venvPath, binDir, false), nil
}

// activated builds the context equivalent of sourcing bin/activate: the
// environment's interpreter, VIRTUAL_ENV, and a PATH with the environment's
// bin directory in front.
func (p *Provisioner) activated(root, venvPath, binDir string, reused bool) *Context {
	return &Context{
		Root:     root,
		Python:   filepath.Join(binDir, "python"),
		Isolated: true,
		Reused:   reused,
		env: map[string]string{
			"VIRTUAL_ENV": venvPath,
			"PATH":        binDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		},
	}
}

// EnsurePip makes sure the package manager inside the context is present and
// current: check availability, bootstrap via ensurepip when absent, then
// upgrade pip and wheel to latest. Any failure is fatal.
func (p *Provisioner) EnsurePip(ctx context.Context, c *Context) error {
	check, err := p.runner.Run(ctx, c.PythonCommand("pip", "--version"))
	if err != nil || !check.Succeeded() {
		p.log.Info("pip not found, bootstrapping via ensurepip")
		boot, bootErr := p.runner.Run(ctx, c.PythonCommand("ensurepip", "--upgrade"))
		if bootErr != nil {
			return engine.NewPackageManagerUnavailableError("pip bootstrap failed", bootErr)
		}
		if !boot.Succeeded() {
			return engine.NewPackageManagerUnavailableError(
				fmt.Sprintf("pip bootstrap failed (exit %d): %s", boot.ExitCode, boot.Stderr), nil)
		}
	}

	p.log.Debug("upgrading pip and wheel")
	upgrade, err := p.runner.Run(ctx, c.PythonCommand("pip", "install", "-U", "pip", "wheel"))
	if err != nil {
		return engine.NewPackageManagerUnavailableError("pip upgrade failed", err)
	}
	if !upgrade.Succeeded() {
		return engine.NewPackageManagerUnavailableError(
			fmt.Sprintf("pip upgrade failed (exit %d): %s", upgrade.ExitCode, upgrade.Stderr), nil)
	}

	return nil
}
