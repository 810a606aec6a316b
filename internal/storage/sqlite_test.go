package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testGeneration(id, repo string, variant int, fallback bool, at time.Time) Generation {
	return Generation{
		ID:        id,
		Repo:      repo,
		Variant:   variant,
		Seed:      "0123456789abcdef0123456789abcdef",
		Fallback:  fallback,
		SpecJSON:  `{"mood":"calm"}`,
		CreatedAt: at,
	}
}

func TestSaveAndLatestGeneration(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	older := testGeneration("gen-1", "acme/widgets", 0, false, base)
	newer := testGeneration("gen-2", "acme/widgets", 0, true, base.Add(time.Hour))
	if err := s.SaveGeneration(older); err != nil {
		t.Fatalf("saving older: %v", err)
	}
	if err := s.SaveGeneration(newer); err != nil {
		t.Fatalf("saving newer: %v", err)
	}

	got, err := s.LatestGeneration("acme/widgets", 0)
	if err != nil {
		t.Fatalf("LatestGeneration: %v", err)
	}
	if got.ID != "gen-2" {
		t.Errorf("latest ID = %q, want gen-2", got.ID)
	}
	if !got.Fallback {
		t.Error("fallback flag lost on round trip")
	}
	if got.SpecJSON != `{"mood":"calm"}` {
		t.Errorf("spec JSON = %q", got.SpecJSON)
	}
}

func TestLatestGeneration_VariantIsPartOfKey(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := s.SaveGeneration(testGeneration("gen-1", "acme/widgets", 0, false, base)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LatestGeneration("acme/widgets", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unseen variant", err)
	}
}

func TestLatestGeneration_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LatestGeneration("nobody/nothing", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentGenerations(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		g := testGeneration(fmt.Sprintf("gen-%d", i), fmt.Sprintf("acme/repo-%d", i), 0, false, base.Add(time.Duration(i)*time.Minute))
		if err := s.SaveGeneration(g); err != nil {
			t.Fatal(err)
		}
	}

	gens, err := s.RecentGenerations(3)
	if err != nil {
		t.Fatalf("RecentGenerations: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("got %d generations, want 3", len(gens))
	}
	// Newest first.
	if gens[0].ID != "gen-4" || gens[2].ID != "gen-2" {
		t.Errorf("order = [%s %s %s], want newest first", gens[0].ID, gens[1].ID, gens[2].ID)
	}
}

func TestRecentGenerations_Empty(t *testing.T) {
	s := openTestStore(t)

	gens, err := s.RecentGenerations(10)
	if err != nil {
		t.Fatalf("RecentGenerations: %v", err)
	}
	if len(gens) != 0 {
		t.Errorf("got %d generations from empty store", len(gens))
	}
}

func TestGetStats(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	records := []Generation{
		testGeneration("gen-1", "acme/widgets", 0, false, base),
		testGeneration("gen-2", "acme/widgets", 1, true, base.Add(time.Minute)),
		testGeneration("gen-3", "other/repo", 0, true, base.Add(2*time.Minute)),
	}
	for _, g := range records {
		if err := s.SaveGeneration(g); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Fallbacks != 2 {
		t.Errorf("fallbacks = %d, want 2", stats.Fallbacks)
	}
	if stats.UniqueRepos != 2 {
		t.Errorf("unique repos = %d, want 2", stats.UniqueRepos)
	}
}

func TestGetStats_Empty(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := openTestStore(t)

	// Re-running against an already-migrated schema must be a no-op.
	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate pass: %v", err)
	}
}

func TestParseMigrationVersion(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"0001_init.sql", 1, false},
		{"0042_add_index.sql", 42, false},
		{"init.sql", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMigrationVersion(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: version = %d, want %d", tt.name, got, tt.want)
		}
	}
}
