// Package resolver decides, per package, whether to install from a local
// editable source tree or from a remote versioned git locator. Resolution is
// a pure function of the package spec, the install configuration, and two
// injectable capabilities (path existence, binary lookup), so it is testable
// without a filesystem or a real PATH.
package resolver

import (
	"os"
	"path/filepath"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

// ExistsFunc reports whether a path exists on disk. Only presence is
// checked, never content.
type ExistsFunc func(path string) bool

// LookPathFunc resolves a binary name on the execution search path.
type LookPathFunc func(name string) (string, error)

// Resolver constructs install targets for logical package names.
type Resolver struct {
	exists   ExistsFunc
	lookPath LookPathFunc

	// git availability is checked lazily on the first remote resolution and
	// memoized for the rest of the run.
	gitChecked bool
	gitErr     error
}

// New creates a resolver with the given capabilities.
func New(exists ExistsFunc, lookPath LookPathFunc) *Resolver {
	return &Resolver{exists: exists, lookPath: lookPath}
}

// DefaultExists is the production existence check.
func DefaultExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve decides the install target for spec.
//
// The local editable path is used iff it exists under the install root AND
// the configuration does not force remote installs. Otherwise the package is
// installed from the source repository at the configured branch. Remote
// resolution requires a git client; its absence is detected lazily here, on
// first need, and is fatal.
func (r *Resolver) Resolve(spec engine.PackageSpec, cfg *engine.InstallConfig) (engine.InstallTarget, error) {
	relPath := spec.RelPath()

	if !cfg.GitInstall && r.exists(filepath.Join(cfg.InstallPath, relPath)) {
		return engine.LocalTarget(spec, relPath), nil
	}

	if err := r.ensureGit(); err != nil {
		return engine.InstallTarget{}, err
	}

	return engine.RemoteTarget(spec, spec.RemoteLocator(cfg.Branch)), nil
}

// ensureGit verifies a git client is available, once per run.
func (r *Resolver) ensureGit() error {
	if !r.gitChecked {
		r.gitChecked = true
		if _, err := r.lookPath("git"); err != nil {
			r.gitErr = engine.NewVersionControlUnavailableError(err)
		}
	}
	return r.gitErr
}
