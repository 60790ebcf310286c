package installer

import (
	"github.com/fixstrap/fixstrap/pkg/runner"
	"github.com/fixstrap/fixstrap/pkg/venv"
)

// ExecutionContext is the explicit process-execution state every install
// phase runs against: the provisioned environment (interpreter plus
// activation variables) and the working directory for package operations.
//
// Editable installs resolve their relative paths against the install root,
// so every pip invocation is pinned to it via the command's working
// directory. The parent process never chdirs: each phase sees the caller's
// working directory untouched.
type ExecutionContext struct {
	env     *venv.Context
	workDir string
}

// newExecutionContext pins package operations to the install root.
func newExecutionContext(env *venv.Context, installPath string) *ExecutionContext {
	return &ExecutionContext{env: env, workDir: installPath}
}

// Pip builds a `python -m pip` invocation running in the install root with
// the environment's activation variables applied.
func (e *ExecutionContext) Pip(args ...string) runner.Command {
	cmd := e.env.PythonCommand(append([]string{"pip"}, args...)...)
	cmd.Dir = e.workDir
	return cmd
}

// Env exposes the provisioned environment.
func (e *ExecutionContext) Env() *venv.Context {
	return e.env
}
