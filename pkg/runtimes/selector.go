// Package runtimes selects a compatible Python interpreter for the
// installation engine. Selection is a pure PATH scan: no side effects, and
// deterministic given identical PATH contents.
package runtimes

import (
	"github.com/fixstrap/fixstrap/pkg/engine"
)

// LookPathFunc resolves a binary name on the execution search path. It is
// injectable so selection can be tested without touching the real PATH.
type LookPathFunc func(name string) (string, error)

// Selector picks an interpreter binary from a preference-ordered candidate
// list.
type Selector struct {
	lookPath LookPathFunc
}

// NewSelector creates a selector using the given PATH lookup.
func NewSelector(lookPath LookPathFunc) *Selector {
	return &Selector{lookPath: lookPath}
}

// Select returns a handle for the interpreter to use.
//
// When override is non-empty it takes precedence over the candidate list,
// provided it is invokable; otherwise selection fails with
// RuntimeNotExecutable. Without an override the first candidate resolvable
// on the search path wins, in list order. When none resolve, selection fails
// with NoCompatibleRuntime reporting the full candidate list.
func (s *Selector) Select(candidates []string, override string) (engine.RuntimeHandle, error) {
	if override != "" {
		path, err := s.lookPath(override)
		if err != nil {
			return engine.RuntimeHandle{}, engine.NewRuntimeNotExecutableError(override, err)
		}
		return engine.RuntimeHandle{Name: override, Path: path}, nil
	}

	for _, candidate := range candidates {
		path, err := s.lookPath(candidate)
		if err != nil {
			continue
		}
		return engine.RuntimeHandle{Name: candidate, Path: path}, nil
	}

	return engine.RuntimeHandle{}, engine.NewNoCompatibleRuntimeError(candidates)
}
