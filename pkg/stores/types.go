package stores

import (
	"time"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

// InstallRun represents one recorded installation run.
type InstallRun struct {
	ID          string           `json:"id"`
	InstallPath string           `json:"install_path"`
	Branch      string           `json:"branch"`
	Runtime     string           `json:"runtime"`
	Status      engine.RunStatus `json:"status"`
	Error       *string          `json:"error,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// PackageResult is the recorded outcome of a single package install within a
// run.
type PackageResult string

const (
	// PackageResultInstalled indicates pip succeeded for the package.
	PackageResultInstalled PackageResult = "installed"

	// PackageResultFailed indicates pip returned a failure for the package.
	PackageResultFailed PackageResult = "failed"
)

// PackageInstall represents one package install attempt within a run.
type PackageInstall struct {
	ID          int64             `json:"id"`
	RunID       string            `json:"run_id"`
	Package     string            `json:"package"`
	Plugin      bool              `json:"plugin"`
	Target      engine.TargetKind `json:"target"`
	Source      string            `json:"source"`
	Result      PackageResult     `json:"result"`
	InstalledAt time.Time         `json:"installed_at"`
}
