// Package engine provides the core types and interfaces for the fixstrap
// installation engine.
//
// # Overview
//
// fixstrap installs the Fix Inventory product (core components plus optional
// collector plugins) into an isolated Python environment. The engine operates
// through a strictly linear workflow:
//
//  1. Runtime   - Select a compatible Python interpreter (runtimes.Selector)
//  2. Environ   - Create or reuse the virtual environment (venv.Provisioner)
//  3. Pip       - Bootstrap and upgrade the package manager (venv.Provisioner)
//  4. Resolve   - Decide local-editable vs. remote-git per package (resolver.Resolver)
//  5. Install   - Drive pip for every core component and plugin (installer.Installer)
//
// There is no concurrency and no retry: the run either reaches Done or aborts
// on the first error.
//
// # Core Domain Types
//
//   - InstallConfig: The immutable, validated per-run configuration
//   - PackageSpec: A logical package name plus its plugin flag
//   - InstallTarget: The resolved source for a package (local path or remote locator)
//   - RuntimeHandle: A selected interpreter binary
//   - Phase / RunStatus: Workflow and run state tracking
//
// # Error Classification
//
// Every failure is permanent: the engine performs no retries and no
// partial-success continuation. Errors carry a SetupError code identifying
// which boundary failed (runtime, package manager, version control, or a
// specific package install). Use the helper predicates to inspect them:
//
//	if engine.IsInstallFailed(err) {
//	    // a pip invocation failed for a named package
//	}
//
// # Immutability
//
// InstallConfig is created once from command-line input and passed by
// read-only reference. PackageSpec values are constructed per install call
// and discarded; none are persisted.
package engine
