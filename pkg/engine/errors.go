package engine

import (
	"errors"
	"fmt"
)

// ErrorCode identifies which boundary of the installation engine failed.
type ErrorCode string

const (
	// ErrCodeConfigValidation indicates the install configuration failed
	// validation before any side effect was performed.
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// ErrCodeNoCompatibleRuntime indicates no candidate interpreter was
	// found on the search path.
	ErrCodeNoCompatibleRuntime ErrorCode = "NO_COMPATIBLE_RUNTIME"

	// ErrCodeRuntimeNotExecutable indicates an operator-supplied interpreter
	// override could not be invoked.
	ErrCodeRuntimeNotExecutable ErrorCode = "RUNTIME_NOT_EXECUTABLE"

	// ErrCodePackageManagerUnavailable indicates pip could not be
	// bootstrapped or upgraded inside the provisioned environment.
	ErrCodePackageManagerUnavailable ErrorCode = "PACKAGE_MANAGER_UNAVAILABLE"

	// ErrCodeVersionControlUnavailable indicates a remote install was needed
	// but no git client is available.
	ErrCodeVersionControlUnavailable ErrorCode = "VERSION_CONTROL_UNAVAILABLE"

	// ErrCodeInstallFailed indicates the package manager returned a failure
	// for a specific package.
	ErrCodeInstallFailed ErrorCode = "INSTALL_FAILED"
)

// SetupError represents a fatal installation engine error. Every error in
// this system is permanent: there are no retries and no partial-failure
// continuation, so SetupError carries no retry classification, only the
// failed boundary and optional package context.
type SetupError struct {
	// Code identifies the failed boundary.
	Code ErrorCode `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Package is the package name that caused the error, if applicable.
	Package string `json:"package,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *SetupError) Error() string {
	switch {
	case e.Package != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s (package=%s): %v", e.Code, e.Message, e.Package, e.Err)
	case e.Package != "":
		return fmt.Sprintf("[%s] %s (package=%s)", e.Code, e.Message, e.Package)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *SetupError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *SetupError) Is(target error) bool {
	t, ok := target.(*SetupError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewConfigValidationError reports an invalid install configuration.
func NewConfigValidationError(message string, err error) *SetupError {
	return &SetupError{Code: ErrCodeConfigValidation, Message: message, Err: err}
}

// NewNoCompatibleRuntimeError reports that none of the candidate interpreters
// resolved on the search path. The candidate list is included for operator
// diagnosis.
func NewNoCompatibleRuntimeError(candidates []string) *SetupError {
	return &SetupError{
		Code:    ErrCodeNoCompatibleRuntime,
		Message: fmt.Sprintf("no compatible runtime found, tried: %v", candidates),
	}
}

// NewRuntimeNotExecutableError reports an unusable interpreter override.
func NewRuntimeNotExecutableError(name string, err error) *SetupError {
	return &SetupError{
		Code:    ErrCodeRuntimeNotExecutable,
		Message: fmt.Sprintf("runtime override %q is not executable", name),
		Err:     err,
	}
}

// NewPackageManagerUnavailableError reports a pip bootstrap/upgrade failure.
func NewPackageManagerUnavailableError(message string, err error) *SetupError {
	return &SetupError{Code: ErrCodePackageManagerUnavailable, Message: message, Err: err}
}

// NewVersionControlUnavailableError reports a missing git client on a remote
// resolution path.
func NewVersionControlUnavailableError(err error) *SetupError {
	return &SetupError{
		Code:    ErrCodeVersionControlUnavailable,
		Message: "git is required for remote package installs but was not found",
		Err:     err,
	}
}

// NewInstallFailedError reports a failed package manager invocation for a
// specific package.
func NewInstallFailedError(pkg string, err error) *SetupError {
	return &SetupError{
		Code:    ErrCodeInstallFailed,
		Message: "package installation failed",
		Package: pkg,
		Err:     err,
	}
}

// CodeOf extracts the error code from an error chain. It returns an empty
// code when the chain contains no SetupError.
func CodeOf(err error) ErrorCode {
	var e *SetupError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfigValidation returns true if the error is a configuration validation failure.
func IsConfigValidation(err error) bool {
	return CodeOf(err) == ErrCodeConfigValidation
}

// IsNoCompatibleRuntime returns true if no candidate interpreter resolved.
func IsNoCompatibleRuntime(err error) bool {
	return CodeOf(err) == ErrCodeNoCompatibleRuntime
}

// IsRuntimeNotExecutable returns true if an interpreter override was unusable.
func IsRuntimeNotExecutable(err error) bool {
	return CodeOf(err) == ErrCodeRuntimeNotExecutable
}

// IsPackageManagerUnavailable returns true if pip could not be bootstrapped or upgraded.
func IsPackageManagerUnavailable(err error) bool {
	return CodeOf(err) == ErrCodePackageManagerUnavailable
}

// IsVersionControlUnavailable returns true if git was needed but missing.
func IsVersionControlUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeVersionControlUnavailable
}

// IsInstallFailed returns true if a pip invocation failed for a package.
func IsInstallFailed(err error) bool {
	return CodeOf(err) == ErrCodeInstallFailed
}

// FailedPackage returns the package name attached to an install failure, or
// an empty string when the error carries no package context.
func FailedPackage(err error) string {
	var e *SetupError
	if errors.As(err, &e) {
		return e.Package
	}
	return ""
}
