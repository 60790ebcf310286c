package engine

import (
	"fmt"
	"path"
	"strings"
)

// Repository and naming constants. These mirror the layout of the Fix
// Inventory monorepo that fixstrap installs from.
const (
	// SourceRepository is the git repository holding all installable packages.
	SourceRepository = "https://github.com/someengineering/fixinventory.git"

	// DefaultBranch is the repository's default branch. The requirements
	// manifest fallback URLs are pinned to it regardless of the configured
	// install branch.
	DefaultBranch = "main"

	// PluginPrefix is prepended to plugin package names to form the
	// installable distribution name.
	PluginPrefix = "fixinventory-plugin-"

	// PluginDir is the monorepo subdirectory holding all plugin packages.
	PluginDir = "plugins"

	// VenvDir is the virtual environment directory under the install root.
	VenvDir = "venv"
)

// InstallConfig holds the per-run configuration of the installation engine.
// It is created once from command-line input, validated before any side
// effect, and immutable for the remainder of the run.
type InstallConfig struct {
	// InstallPath is the absolute root directory of the installation.
	InstallPath string `validate:"required"`

	// Branch is the remote revision used for git-based package installs.
	Branch string `validate:"required"`

	// RuntimeOverride, when non-empty, bypasses interpreter selection and
	// uses the named binary directly.
	RuntimeOverride string

	// UseVenv controls whether an isolated virtual environment is created.
	UseVenv bool

	// DevMode additionally installs the full development dependency manifest.
	DevMode bool

	// InstallPlugins controls whether the optional plugin set is installed.
	InstallPlugins bool

	// GitInstall forces remote resolution even when a local source tree
	// exists under InstallPath.
	GitInstall bool

	// Unattended suppresses the interactive confirmation prompt.
	Unattended bool
}

// RuntimeHandle identifies a selected interpreter binary.
type RuntimeHandle struct {
	// Name is the candidate name as listed in the manifest (e.g. "python3.11")
	// or the operator-supplied override.
	Name string `json:"name"`

	// Path is the resolved absolute path of the binary.
	Path string `json:"path"`
}

// PackageSpec is a logical package to install: a bare package name plus a
// flag marking it as an optional plugin. All derived forms (display name,
// repository-relative path, remote locator) are deterministic functions of
// these two fields.
type PackageSpec struct {
	// Name is the bare package name (e.g. "fixcore", "cleanup_untagged").
	Name string `json:"name"`

	// IsPlugin marks the package as an optional collector plugin.
	IsPlugin bool `json:"is_plugin"`
}

// DisplayName returns the installable distribution name. Plugins get the
// fixed plugin prefix and underscores are normalized to hyphens.
func (s PackageSpec) DisplayName() string {
	name := strings.ReplaceAll(s.Name, "_", "-")
	if s.IsPlugin {
		return PluginPrefix + name
	}
	return name
}

// RelPath returns the package's path relative to the repository root. Core
// components live at the root; plugins live under the plugin subdirectory
// keyed by the bare name.
func (s PackageSpec) RelPath() string {
	if s.IsPlugin {
		return path.Join(PluginDir, s.Name)
	}
	return s.Name
}

// RemoteLocator builds a pip-installable git reference for the package at
// the given branch, rooted at the package's subdirectory within the source
// repository.
func (s PackageSpec) RemoteLocator(branch string) string {
	return fmt.Sprintf("git+%s@%s#egg=%s&subdirectory=%s",
		SourceRepository, branch, s.DisplayName(), s.RelPath())
}

// TargetKind discriminates the two install target shapes.
type TargetKind string

const (
	// TargetLocal installs editable from a local source tree.
	TargetLocal TargetKind = "local"

	// TargetRemote installs from a versioned git locator.
	TargetRemote TargetKind = "remote"
)

// InstallTarget is the resolved source for a single package install. Exactly
// one of Path or Locator is set, discriminated by Kind.
type InstallTarget struct {
	// Spec is the package this target was resolved for.
	Spec PackageSpec `json:"spec"`

	// Kind tags the target as local-editable or remote.
	Kind TargetKind `json:"kind"`

	// Path is the repository-relative local path (Kind == TargetLocal).
	Path string `json:"path,omitempty"`

	// Locator is the versioned remote reference (Kind == TargetRemote).
	Locator string `json:"locator,omitempty"`
}

// LocalTarget constructs a local-editable install target.
func LocalTarget(spec PackageSpec, relPath string) InstallTarget {
	return InstallTarget{Spec: spec, Kind: TargetLocal, Path: relPath}
}

// RemoteTarget constructs a remote install target.
func RemoteTarget(spec PackageSpec, locator string) InstallTarget {
	return InstallTarget{Spec: spec, Kind: TargetRemote, Locator: locator}
}

// IsLocal returns true for local-editable targets.
func (t InstallTarget) IsLocal() bool {
	return t.Kind == TargetLocal
}

// String renders the target for logs and diagnostics.
func (t InstallTarget) String() string {
	if t.IsLocal() {
		return fmt.Sprintf("%s (editable: %s)", t.Spec.DisplayName(), t.Path)
	}
	return fmt.Sprintf("%s (%s)", t.Spec.DisplayName(), t.Locator)
}
