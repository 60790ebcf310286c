package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/fixstrap/fixstrap/pkg/engine"
	"github.com/fixstrap/fixstrap/pkg/manifest"
	"github.com/fixstrap/fixstrap/pkg/resolver"
	"github.com/fixstrap/fixstrap/pkg/runner"
	"github.com/fixstrap/fixstrap/pkg/runtimes"
	"github.com/fixstrap/fixstrap/pkg/stores"
	"github.com/fixstrap/fixstrap/pkg/telemetry"
	"github.com/fixstrap/fixstrap/pkg/venv"
)

// Fixed requirements manifests installed ahead of the components. The remote
// fallback URLs are pinned to the repository default branch, NOT the
// configured install branch. That asymmetry is long-standing behavior and is
// preserved deliberately.
const (
	requirementsAll   = "requirements-all.txt"
	requirementsExtra = "requirements-extra.txt"

	rawManifestBase = "https://raw.githubusercontent.com/someengineering/fixinventory/" + engine.DefaultBranch
)

// Options configures an Installer.
type Options struct {
	// Config is the validated per-run configuration.
	Config *engine.InstallConfig

	// Manifest supplies the runtime candidates and package lists.
	Manifest *manifest.Manifest

	// Runner executes external processes.
	Runner runner.Runner

	// History records run outcomes. Optional; nil disables recording.
	History *stores.SQLiteStore

	// Logger is the structured logger. Required.
	Logger *telemetry.Logger

	// Tracer emits a span per phase and per package. Optional.
	Tracer *telemetry.Tracer
}

// Installer drives the installation workflow. It is single-threaded: one
// logical worker walks the phases sequentially and every external invocation
// blocks until the underlying tool returns.
type Installer struct {
	cfg     *engine.InstallConfig
	man     *manifest.Manifest
	runner  runner.Runner
	history *stores.SQLiteStore
	log     *telemetry.Logger
	tracer  *telemetry.Tracer

	selector    *runtimes.Selector
	provisioner *venv.Provisioner
	resolver    *resolver.Resolver

	phase engine.Phase
	runID string
}

// New creates an installer from options.
func New(opts Options) *Installer {
	return &Installer{
		cfg:         opts.Config,
		man:         opts.Manifest,
		runner:      opts.Runner,
		history:     opts.History,
		log:         opts.Logger.NewComponentLogger("installer"),
		tracer:      opts.Tracer,
		selector:    runtimes.NewSelector(opts.Runner.LookPath),
		provisioner: venv.NewProvisioner(opts.Runner, opts.Logger),
		resolver:    resolver.New(resolver.DefaultExists, opts.Runner.LookPath),
		phase:       engine.PhaseStart,
	}
}

// ValidateConfig checks the install configuration before any side effect.
func ValidateConfig(cfg *engine.InstallConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return engine.NewConfigValidationError("install path and branch must be non-empty", err)
	}
	if !filepath.IsAbs(cfg.InstallPath) {
		return engine.NewConfigValidationError(
			fmt.Sprintf("install path must be absolute, got %q", cfg.InstallPath), nil)
	}
	return nil
}

// Phase returns the current workflow phase.
func (inst *Installer) Phase() engine.Phase {
	return inst.phase
}

// RunID returns the identifier of the current (or last) run.
func (inst *Installer) RunID() string {
	return inst.runID
}

// Run executes the full installation workflow. On error the workflow is in
// the Aborted phase and the returned error describes the first (and only)
// failure; partially created environment and install state is left in place.
func (inst *Installer) Run(ctx context.Context) error {
	if err := ValidateConfig(inst.cfg); err != nil {
		inst.phase = engine.PhaseAborted
		return err
	}

	inst.runID = uuid.NewString()
	inst.log = inst.log.WithRunID(inst.runID)

	err := inst.walk(ctx)
	inst.finishHistory(ctx, err)

	if err != nil {
		inst.phase = engine.PhaseAborted
		inst.log.WithError(err).Error("installation aborted")
		return err
	}

	inst.phase = engine.PhaseDone
	inst.printGuidance()
	return nil
}

// walk advances through every phase in order.
func (inst *Installer) walk(ctx context.Context) error {
	rt, err := inst.selectRuntime(ctx)
	if err != nil {
		return err
	}

	env, err := inst.provision(ctx, rt)
	if err != nil {
		return err
	}
	execCtx := newExecutionContext(env, inst.cfg.InstallPath)

	if err := inst.ensurePip(ctx, env); err != nil {
		return err
	}

	inst.startHistory(ctx, rt)

	if inst.cfg.DevMode {
		if err := inst.installDevDeps(ctx, execCtx); err != nil {
			return err
		}
	}

	if err := inst.installCore(ctx, execCtx); err != nil {
		return err
	}

	if inst.cfg.InstallPlugins {
		if err := inst.installPlugins(ctx, execCtx); err != nil {
			return err
		}
	}

	return nil
}

func (inst *Installer) selectRuntime(ctx context.Context) (engine.RuntimeHandle, error) {
	_, span := inst.startPhaseSpan(ctx, "runtime")
	rt, err := inst.selector.Select(inst.man.Runtimes, inst.cfg.RuntimeOverride)
	inst.endSpan(span, err)
	if err != nil {
		return engine.RuntimeHandle{}, err
	}

	inst.phase = engine.PhaseRuntimeSelected
	inst.log.Infof("using runtime %s (%s)", rt.Name, rt.Path)
	return rt, nil
}

func (inst *Installer) provision(ctx context.Context, rt engine.RuntimeHandle) (*venv.Context, error) {
	spanCtx, span := inst.startPhaseSpan(ctx, "environment")
	env, err := inst.provisioner.Provision(spanCtx, inst.cfg.InstallPath, rt, inst.cfg.UseVenv)
	inst.endSpan(span, err)
	if err != nil {
		return nil, err
	}

	inst.phase = engine.PhaseEnvironmentReady
	return env, nil
}

func (inst *Installer) ensurePip(ctx context.Context, env *venv.Context) error {
	spanCtx, span := inst.startPhaseSpan(ctx, "pip")
	err := inst.provisioner.EnsurePip(spanCtx, env)
	inst.endSpan(span, err)
	if err != nil {
		return err
	}

	inst.phase = engine.PhasePipEnsured
	return nil
}

func (inst *Installer) installDevDeps(ctx context.Context, execCtx *ExecutionContext) error {
	spanCtx, span := inst.startPhaseSpan(ctx, "dev_deps")
	err := inst.installRequirements(spanCtx, execCtx, requirementsAll)
	inst.endSpan(span, err)
	if err != nil {
		return err
	}

	inst.phase = engine.PhaseDevDepsInstalled
	return nil
}

func (inst *Installer) installCore(ctx context.Context, execCtx *ExecutionContext) error {
	spanCtx, span := inst.startPhaseSpan(ctx, "core")
	err := inst.installCoreInner(spanCtx, execCtx)
	inst.endSpan(span, err)
	if err != nil {
		return err
	}

	inst.phase = engine.PhaseCoreInstalled
	return nil
}

func (inst *Installer) installCoreInner(ctx context.Context, execCtx *ExecutionContext) error {
	if err := inst.installRequirements(ctx, execCtx, requirementsExtra); err != nil {
		return err
	}
	for _, spec := range inst.man.CoreSpecs() {
		if err := inst.installPackage(ctx, execCtx, spec); err != nil {
			return err
		}
	}
	return nil
}

func (inst *Installer) installPlugins(ctx context.Context, execCtx *ExecutionContext) error {
	spanCtx, span := inst.startPhaseSpan(ctx, "plugins")
	err := inst.installPluginsInner(spanCtx, execCtx)
	inst.endSpan(span, err)
	if err != nil {
		return err
	}

	inst.phase = engine.PhasePluginsInstalled
	return nil
}

func (inst *Installer) installPluginsInner(ctx context.Context, execCtx *ExecutionContext) error {
	for _, spec := range inst.man.PluginSpecs() {
		if err := inst.installPackage(ctx, execCtx, spec); err != nil {
			return err
		}
	}
	return nil
}

// installRequirements installs one of the fixed requirements manifests,
// preferring a local file under the install root and falling back to the
// pinned remote URL on the default branch.
func (inst *Installer) installRequirements(ctx context.Context, execCtx *ExecutionContext, name string) error {
	source := rawManifestBase + "/" + name
	if local := filepath.Join(inst.cfg.InstallPath, name); fileExists(local) {
		source = local
	}

	inst.log.Infof("installing requirements from %s", source)
	result, err := inst.runner.Run(ctx, execCtx.Pip("install", "-r", source))
	if err != nil {
		return engine.NewInstallFailedError(name, err)
	}
	if !result.Succeeded() {
		return engine.NewInstallFailedError(name,
			fmt.Errorf("pip exited %d: %s", result.ExitCode, result.Stderr))
	}
	return nil
}

// installPackage resolves one package and drives pip for it, recording the
// outcome in the history store.
func (inst *Installer) installPackage(ctx context.Context, execCtx *ExecutionContext, spec engine.PackageSpec) error {
	target, err := inst.resolver.Resolve(spec, inst.cfg)
	if err != nil {
		return err
	}

	spanCtx, span := inst.startPackageSpan(ctx, spec)
	log := inst.log.WithPackage(spec.DisplayName())

	var cmd runner.Command
	if target.IsLocal() {
		log.Infof("installing editable from %s", target.Path)
		cmd = execCtx.Pip("install", "--editable", target.Path)
	} else {
		log.Infof("installing from %s", target.Locator)
		cmd = execCtx.Pip("install", target.Locator)
	}

	result, runErr := inst.runner.Run(spanCtx, cmd)
	var instErr error
	switch {
	case runErr != nil:
		instErr = engine.NewInstallFailedError(spec.DisplayName(), runErr)
	case !result.Succeeded():
		instErr = engine.NewInstallFailedError(spec.DisplayName(),
			fmt.Errorf("pip exited %d: %s", result.ExitCode, result.Stderr))
	}
	inst.endSpan(span, instErr)
	inst.recordPackage(ctx, target, instErr)

	return instErr
}

// startHistory opens the run record. History failures are logged and
// otherwise ignored: recording must never abort an installation.
func (inst *Installer) startHistory(ctx context.Context, rt engine.RuntimeHandle) {
	if inst.history == nil {
		return
	}
	err := inst.history.CreateRun(ctx, &stores.InstallRun{
		ID:          inst.runID,
		InstallPath: inst.cfg.InstallPath,
		Branch:      inst.cfg.Branch,
		Runtime:     rt.Name,
		Status:      engine.RunStatusRunning,
		StartedAt:   time.Now(),
	})
	if err != nil {
		inst.log.WithError(err).Warn("failed to record run start")
	}
}

func (inst *Installer) recordPackage(ctx context.Context, target engine.InstallTarget, installErr error) {
	if inst.history == nil {
		return
	}
	result := stores.PackageResultInstalled
	if installErr != nil {
		result = stores.PackageResultFailed
	}
	source := target.Locator
	if target.IsLocal() {
		source = target.Path
	}
	err := inst.history.RecordPackage(ctx, &stores.PackageInstall{
		RunID:       inst.runID,
		Package:     target.Spec.Name,
		Plugin:      target.Spec.IsPlugin,
		Target:      target.Kind,
		Source:      source,
		Result:      result,
		InstalledAt: time.Now(),
	})
	if err != nil {
		inst.log.WithError(err).Warn("failed to record package install")
	}
}

func (inst *Installer) finishHistory(ctx context.Context, runErr error) {
	if inst.history == nil || inst.runID == "" {
		return
	}
	status := engine.RunStatusSucceeded
	var msg *string
	if runErr != nil {
		status = engine.RunStatusFailed
		s := runErr.Error()
		msg = &s
	}
	if err := inst.history.CompleteRun(ctx, inst.runID, status, msg); err != nil {
		inst.log.WithError(err).Warn("failed to record run completion")
	}
}

// printGuidance tells the operator how to use and manage the installation.
func (inst *Installer) printGuidance() {
	fmt.Println("Installation complete.")
	if inst.cfg.UseVenv {
		fmt.Printf("Activate the environment with:\n\n    source %s\n\n",
			filepath.Join(inst.cfg.InstallPath, engine.VenvDir, "bin", "activate"))
		fmt.Printf("The environment is never removed automatically; delete %s manually to start over.\n",
			filepath.Join(inst.cfg.InstallPath, engine.VenvDir))
	}
}

func (inst *Installer) startPhaseSpan(ctx context.Context, phase string) (context.Context, trace.Span) {
	if inst.tracer == nil {
		return ctx, nil
	}
	return inst.tracer.StartPhaseSpan(ctx, phase)
}

func (inst *Installer) startPackageSpan(ctx context.Context, spec engine.PackageSpec) (context.Context, trace.Span) {
	if inst.tracer == nil {
		return ctx, nil
	}
	return inst.tracer.StartPackageSpan(ctx, spec.DisplayName(), spec.IsPlugin)
}

func (inst *Installer) endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		telemetry.RecordSuccess(span)
	}
	span.End()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
