package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader()
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}
	return l
}

func TestLoader_Default(t *testing.T) {
	l := newTestLoader(t)

	m, err := l.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if len(m.Runtimes) == 0 {
		t.Fatal("default manifest has no runtime candidates")
	}
	if m.Runtimes[0] != "python3.12" {
		t.Errorf("most preferred runtime = %q, want python3.12", m.Runtimes[0])
	}
	if m.Runtimes[len(m.Runtimes)-1] != "python3" {
		t.Error("unversioned python3 should be the last-resort candidate")
	}

	// Core install order matters: fixlib is a dependency of everything else.
	wantCore := []string{"fixlib", "fixcore", "fixworker", "fixmetrics", "fixshell"}
	if len(m.Core) != len(wantCore) {
		t.Fatalf("core = %v, want %v", m.Core, wantCore)
	}
	for i, name := range wantCore {
		if m.Core[i] != name {
			t.Errorf("core[%d] = %q, want %q", i, m.Core[i], name)
		}
	}

	if len(m.Plugins) == 0 {
		t.Fatal("default manifest has no plugins")
	}
}

func TestLoader_DefaultIsStable(t *testing.T) {
	l := newTestLoader(t)

	a, err := l.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	b, err := l.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	for i := range a.Plugins {
		if a.Plugins[i] != b.Plugins[i] {
			t.Fatalf("plugin order is not stable: %v vs %v", a.Plugins, b.Plugins)
		}
	}
}

func TestLoader_LoadFile(t *testing.T) {
	l := newTestLoader(t)

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	content := `
runtimes: ["python3.11", "python3"]
core: ["fixlib", "fixcore"]
plugins: ["aws"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(m.Core) != 2 || m.Core[0] != "fixlib" {
		t.Errorf("core = %v, want [fixlib fixcore]", m.Core)
	}
	if len(m.Plugins) != 1 || m.Plugins[0] != "aws" {
		t.Errorf("plugins = %v, want [aws]", m.Plugins)
	}
}

func TestLoader_LoadFileRejectsInvalid(t *testing.T) {
	l := newTestLoader(t)

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing core list",
			content: `runtimes: ["python3"]`,
		},
		{
			name:    "empty runtimes",
			content: "runtimes: []\ncore: [\"fixlib\"]\n",
		},
		{
			name:    "not yaml",
			content: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write manifest: %v", err)
			}
			if _, err := l.LoadFile(path); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestLoader_LoadFileMissing(t *testing.T) {
	l := newTestLoader(t)

	if _, err := l.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing manifest file")
	}
}

func TestManifest_Specs(t *testing.T) {
	m := &Manifest{
		Core:    []string{"fixlib", "fixcore"},
		Plugins: []string{"aws", "cleanup_untagged"},
	}

	core := m.CoreSpecs()
	if len(core) != 2 || core[0].Name != "fixlib" || core[0].IsPlugin {
		t.Errorf("unexpected core specs: %+v", core)
	}

	plugins := m.PluginSpecs()
	if len(plugins) != 2 {
		t.Fatalf("unexpected plugin specs: %+v", plugins)
	}
	for _, p := range plugins {
		if !p.IsPlugin {
			t.Errorf("plugin spec %s not marked as plugin", p.Name)
		}
	}
}
