package stores

import (
	"context"
	"testing"
	"time"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

// setupTestStore creates an in-memory SQLite store for testing
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	return store
}

func testRun(id string) *InstallRun {
	return &InstallRun{
		ID:          id,
		InstallPath: "/opt/fix",
		Branch:      "main",
		Runtime:     "python3.11",
		Status:      engine.RunStatusRunning,
		StartedAt:   time.Now(),
	}
}

// TestStoreLifecycle tests database initialization and closure
func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

// TestStoreMigrations tests database migrations
func TestStoreMigrations(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Check that tables exist by querying them
	tables := []string{"install_runs", "package_installs"}
	for _, table := range tables {
		query := "SELECT COUNT(*) FROM " + table
		var count int
		if err := store.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			t.Errorf("table %s does not exist or is not accessible: %v", table, err)
		}
	}
}

func TestRunLifecycle(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	run := testRun("run-1")

	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.Status != engine.RunStatusRunning {
		t.Errorf("status = %s, want running", got.Status)
	}
	if got.CompletedAt != nil {
		t.Error("fresh run should not be completed")
	}

	errMsg := "install failed"
	if err := store.CompleteRun(ctx, "run-1", engine.RunStatusFailed, &errMsg); err != nil {
		t.Fatalf("failed to complete run: %v", err)
	}

	got, err = store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.Status != engine.RunStatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Error == nil || *got.Error != errMsg {
		t.Errorf("error = %v, want %q", got.Error, errMsg)
	}
	if got.CompletedAt == nil {
		t.Error("completed run should have a completion time")
	}
}

func TestCompleteRun_Missing(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	if err := store.CompleteRun(context.Background(), "nope", engine.RunStatusSucceeded, nil); err == nil {
		t.Error("expected an error completing an unknown run")
	}
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := testRun(id)
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Errorf("unexpected order: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestRecordAndListPackages(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateRun(ctx, testRun("run-1")); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	installs := []*PackageInstall{
		{RunID: "run-1", Package: "fixlib", Target: engine.TargetLocal, Source: "fixlib", Result: PackageResultInstalled, InstalledAt: time.Now()},
		{RunID: "run-1", Package: "fixcore", Target: engine.TargetRemote, Source: "git+...", Result: PackageResultInstalled, InstalledAt: time.Now()},
		{RunID: "run-1", Package: "aws", Plugin: true, Target: engine.TargetRemote, Source: "git+...", Result: PackageResultFailed, InstalledAt: time.Now()},
	}
	for _, pkg := range installs {
		if err := store.RecordPackage(ctx, pkg); err != nil {
			t.Fatalf("failed to record package %s: %v", pkg.Package, err)
		}
	}

	got, err := store.ListPackagesByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to list packages: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d packages, want 3", len(got))
	}
	// Install order is preserved.
	for i, want := range []string{"fixlib", "fixcore", "aws"} {
		if got[i].Package != want {
			t.Errorf("package[%d] = %s, want %s", i, got[i].Package, want)
		}
	}
	if !got[2].Plugin || got[2].Result != PackageResultFailed {
		t.Errorf("unexpected plugin record: %+v", got[2])
	}
}
