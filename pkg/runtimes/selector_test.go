package runtimes

import (
	"fmt"
	"testing"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

// fakeLookPath resolves only the names it knows about.
func fakeLookPath(known map[string]string) LookPathFunc {
	return func(name string) (string, error) {
		if path, ok := known[name]; ok {
			return path, nil
		}
		return "", fmt.Errorf("%s: executable file not found in $PATH", name)
	}
}

func TestSelector_FirstCandidateWins(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		known      map[string]string
		wantName   string
	}{
		{
			name:       "most preferred present",
			candidates: []string{"python3.12", "python3.11", "python3"},
			known:      map[string]string{"python3.12": "/usr/bin/python3.12", "python3": "/usr/bin/python3"},
			wantName:   "python3.12",
		},
		{
			name:       "falls through to later candidate",
			candidates: []string{"python3.12", "python3.11", "python3"},
			known:      map[string]string{"python3": "/usr/bin/python3"},
			wantName:   "python3",
		},
		{
			name:       "first match wins even when all are present",
			candidates: []string{"python3.12", "python3.11", "python3.10", "python3"},
			known: map[string]string{
				"python3.12": "/usr/bin/python3.12",
				"python3.11": "/usr/bin/python3.11",
				"python3.10": "/usr/bin/python3.10",
				"python3":    "/usr/bin/python3",
			},
			wantName: "python3.12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(fakeLookPath(tt.known))

			handle, err := s.Select(tt.candidates, "")
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if handle.Name != tt.wantName {
				t.Errorf("selected %q, want %q", handle.Name, tt.wantName)
			}
			if handle.Path != tt.known[tt.wantName] {
				t.Errorf("path = %q, want %q", handle.Path, tt.known[tt.wantName])
			}
		})
	}
}

func TestSelector_NoCompatibleRuntime(t *testing.T) {
	s := NewSelector(fakeLookPath(nil))

	_, err := s.Select([]string{"python3.12", "python3"}, "")
	if !engine.IsNoCompatibleRuntime(err) {
		t.Fatalf("expected NoCompatibleRuntime, got %v", err)
	}
}

func TestSelector_OverrideBypassesCandidates(t *testing.T) {
	// The override is not in the preference list but is invokable.
	s := NewSelector(fakeLookPath(map[string]string{"pypy3": "/opt/pypy/bin/pypy3"}))

	handle, err := s.Select([]string{"python3.12", "python3"}, "pypy3")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if handle.Name != "pypy3" || handle.Path != "/opt/pypy/bin/pypy3" {
		t.Errorf("got %+v, want pypy3 handle", handle)
	}
}

func TestSelector_OverrideNotExecutable(t *testing.T) {
	// Candidates resolve fine, but the override does not: the override must
	// fail rather than fall back.
	s := NewSelector(fakeLookPath(map[string]string{"python3": "/usr/bin/python3"}))

	_, err := s.Select([]string{"python3"}, "python9")
	if !engine.IsRuntimeNotExecutable(err) {
		t.Fatalf("expected RuntimeNotExecutable, got %v", err)
	}
}
