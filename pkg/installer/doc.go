// Package installer sequences a complete installation run: runtime
// selection, environment provisioning, package manager bootstrap, and the
// ordered core-component and plugin installs.
//
// The workflow is a linear state machine with no back-edges:
//
//	Start -> RuntimeSelected -> EnvironmentReady -> PipEnsured
//	      -> [DevDepsInstalled] -> CoreInstalled -> [PluginsInstalled] -> Done
//
// The bracketed phases are entered only when the corresponding mode flag is
// set. Any fatal condition transitions directly to Aborted: there are no
// retries, no partial-success continuation, and no cleanup of partially
// created state.
package installer
