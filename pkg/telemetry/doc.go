// Package telemetry provides observability instrumentation for fixstrap.
//
// It integrates structured logging (zerolog) and optional tracing
// (OpenTelemetry with a stdout exporter) behind a small wrapper so the
// installation engine never touches the underlying libraries directly.
//
// Initialize telemetry at startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	logger, err := telemetry.NewLogger(cfg.Logging)
//	tracer, err := telemetry.NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
//	defer tracer.Shutdown(ctx)
//
// Component loggers carry structured fields through the install workflow:
//
//	log := logger.NewComponentLogger("installer").WithRunID(runID)
//	log.WithPackage("fixcore").Info("installing package")
//
// When tracing is enabled (--trace), each workflow phase and each package
// install produces a span, pretty-printed to stdout at the end of the run.
package telemetry
