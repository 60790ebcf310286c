package engine

import "fmt"

// Phase represents a state of the linear installation workflow. The machine
// has no back-edges: every run walks the phases in order and either reaches
// PhaseDone or jumps to PhaseAborted on the first error.
type Phase string

const (
	// PhaseStart is the initial state before any work has been done.
	PhaseStart Phase = "start"

	// PhaseRuntimeSelected indicates a compatible interpreter was found.
	PhaseRuntimeSelected Phase = "runtime_selected"

	// PhaseEnvironmentReady indicates the virtual environment exists (or
	// isolation was disabled).
	PhaseEnvironmentReady Phase = "environment_ready"

	// PhasePipEnsured indicates the package manager is present and current.
	PhasePipEnsured Phase = "pip_ensured"

	// PhaseDevDepsInstalled indicates the development dependency manifest was
	// installed. Entered only in dev mode.
	PhaseDevDepsInstalled Phase = "dev_deps_installed"

	// PhaseCoreInstalled indicates all core components were installed.
	PhaseCoreInstalled Phase = "core_installed"

	// PhasePluginsInstalled indicates all enabled plugins were installed.
	// Entered only when plugin installation is enabled.
	PhasePluginsInstalled Phase = "plugins_installed"

	// PhaseDone is the successful terminal state.
	PhaseDone Phase = "done"

	// PhaseAborted is the failing terminal state. No cleanup of partially
	// created environment or install state is performed.
	PhaseAborted Phase = "aborted"
)

// IsTerminal returns true if the phase represents a final state.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseAborted
}

// RunStatus represents the overall status of an installation run as recorded
// in the history store.
type RunStatus string

const (
	// RunStatusRunning indicates the run is currently executing.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded indicates the run reached the Done phase.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed indicates the run aborted on a fatal error.
	RunStatusFailed RunStatus = "failed"
)

// IsTerminal returns true if the run status represents a final state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// Validate checks if the run status is valid.
func (s RunStatus) Validate() error {
	switch s {
	case RunStatusRunning, RunStatusSucceeded, RunStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid run status: %s", s)
	}
}
