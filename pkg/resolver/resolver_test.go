package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

func gitOnPath(name string) (string, error) {
	if name == "git" {
		return "/usr/bin/git", nil
	}
	return "", fmt.Errorf("%s not found", name)
}

func noGit(name string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

// existing builds an ExistsFunc that knows the given absolute paths.
func existing(paths ...string) ExistsFunc {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(path string) bool { return set[path] }
}

func testConfig(gitInstall bool) *engine.InstallConfig {
	return &engine.InstallConfig{
		InstallPath: "/tmp/x",
		Branch:      "main",
		GitInstall:  gitInstall,
	}
}

func TestResolve_LocalIffExistsAndNotForced(t *testing.T) {
	spec := engine.PackageSpec{Name: "fixcore"}
	localPath := filepath.Join("/tmp/x", "fixcore")

	tests := []struct {
		name       string
		exists     ExistsFunc
		gitInstall bool
		wantLocal  bool
	}{
		{"exists, not forced -> local", existing(localPath), false, true},
		{"exists, forced remote -> remote", existing(localPath), true, false},
		{"missing, not forced -> remote", existing(), false, false},
		{"missing, forced remote -> remote", existing(), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.exists, gitOnPath)

			target, err := r.Resolve(spec, testConfig(tt.gitInstall))
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if target.IsLocal() != tt.wantLocal {
				t.Errorf("IsLocal() = %v, want %v", target.IsLocal(), tt.wantLocal)
			}
		})
	}
}

func TestResolve_AllRemoteWhenNothingLocal(t *testing.T) {
	// Config {path: /tmp/x, branch: main, gitInstall: false} with no local
	// directories: every component must resolve remote, referencing main.
	r := New(existing(), gitOnPath)
	cfg := testConfig(false)

	for _, name := range []string{"fixlib", "fixcore", "fixworker", "fixmetrics", "fixshell"} {
		target, err := r.Resolve(engine.PackageSpec{Name: name}, cfg)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", name, err)
		}
		if target.IsLocal() {
			t.Errorf("%s resolved local, want remote", name)
		}
		if !strings.Contains(target.Locator, "@main#") {
			t.Errorf("%s locator %q does not reference branch main", name, target.Locator)
		}
	}
}

func TestResolve_PerPackageExistenceCheck(t *testing.T) {
	// Only fixcore has a local tree: it alone resolves local, the rest keep
	// their own existence result.
	r := New(existing(filepath.Join("/tmp/x", "fixcore")), gitOnPath)
	cfg := testConfig(false)

	for _, tt := range []struct {
		name      string
		wantLocal bool
	}{
		{"fixlib", false},
		{"fixcore", true},
		{"fixworker", false},
	} {
		target, err := r.Resolve(engine.PackageSpec{Name: tt.name}, cfg)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", tt.name, err)
		}
		if target.IsLocal() != tt.wantLocal {
			t.Errorf("%s IsLocal() = %v, want %v", tt.name, target.IsLocal(), tt.wantLocal)
		}
	}
}

func TestResolve_PluginPaths(t *testing.T) {
	r := New(existing(filepath.Join("/tmp/x", "plugins", "aws")), gitOnPath)
	cfg := testConfig(false)

	target, err := r.Resolve(engine.PackageSpec{Name: "aws", IsPlugin: true}, cfg)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !target.IsLocal() {
		t.Fatal("plugin with local tree should resolve local")
	}
	if target.Path != filepath.Join("plugins", "aws") {
		t.Errorf("path = %q, want plugins/aws", target.Path)
	}
}

func TestResolve_GitRequiredOnlyForRemote(t *testing.T) {
	// Local resolution must succeed without git.
	r := New(existing(filepath.Join("/tmp/x", "fixcore")), noGit)

	if _, err := r.Resolve(engine.PackageSpec{Name: "fixcore"}, testConfig(false)); err != nil {
		t.Fatalf("local resolution should not need git: %v", err)
	}

	// First remote need surfaces the missing client.
	_, err := r.Resolve(engine.PackageSpec{Name: "fixlib"}, testConfig(false))
	if !engine.IsVersionControlUnavailable(err) {
		t.Fatalf("expected VersionControlUnavailable, got %v", err)
	}
}

func TestResolve_GitCheckIsMemoized(t *testing.T) {
	calls := 0
	lookPath := func(name string) (string, error) {
		calls++
		return "/usr/bin/" + name, nil
	}
	r := New(existing(), lookPath)
	cfg := testConfig(false)

	for _, name := range []string{"fixlib", "fixcore", "fixworker"} {
		if _, err := r.Resolve(engine.PackageSpec{Name: name}, cfg); err != nil {
			t.Fatalf("Resolve(%s) error: %v", name, err)
		}
	}
	if calls != 1 {
		t.Errorf("git lookup ran %d times, want 1", calls)
	}
}

func TestResolve_ForcedRemoteUsesConfiguredBranch(t *testing.T) {
	r := New(existing(filepath.Join("/tmp/x", "fixcore")), gitOnPath)
	cfg := &engine.InstallConfig{InstallPath: "/tmp/x", Branch: "release-4.0", GitInstall: true}

	target, err := r.Resolve(engine.PackageSpec{Name: "fixcore"}, cfg)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !strings.Contains(target.Locator, "@release-4.0#") {
		t.Errorf("locator %q does not reference release-4.0", target.Locator)
	}
}
