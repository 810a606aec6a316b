package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding the avatar generation history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "kura.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

// parseMigrationVersion extracts the numeric prefix from a migration
// filename like "0001_init.sql".
func parseMigrationVersion(name string) (int, error) {
	base := strings.TrimSuffix(name, ".sql")
	idx := strings.Index(base, "_")
	if idx < 0 {
		idx = len(base)
	}
	version, err := strconv.Atoi(base[:idx])
	if err != nil {
		return 0, fmt.Errorf("migration %s has no numeric prefix: %w", name, err)
	}
	return version, nil
}

// SaveGeneration records one synthesized spec.
func (s *Store) SaveGeneration(g Generation) error {
	_, err := s.db.Exec(
		`INSERT INTO generations (id, repo, variant, seed, fallback, spec_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Repo, g.Variant, g.Seed, boolToInt(g.Fallback), g.SpecJSON, g.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving generation: %w", err)
	}
	return nil
}

// LatestGeneration returns the most recent record for (repo, variant).
func (s *Store) LatestGeneration(repo string, variant int) (Generation, error) {
	row := s.db.QueryRow(
		`SELECT id, repo, variant, seed, fallback, spec_json, created_at
		 FROM generations WHERE repo = ? AND variant = ?
		 ORDER BY created_at DESC LIMIT 1`,
		repo, variant,
	)
	return scanGeneration(row)
}

// RecentGenerations returns up to limit records, newest first.
func (s *Store) RecentGenerations(limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, repo, variant, seed, fallback, spec_json, created_at
		 FROM generations ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		var fallback int
		if err := rows.Scan(&g.ID, &g.Repo, &g.Variant, &g.Seed, &fallback, &g.SpecJSON, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		g.Fallback = fallback != 0
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// GetStats summarizes the generation history.
func (s *Store) GetStats() (Stats, error) {
	var st Stats
	row := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(fallback), 0),
		        COUNT(DISTINCT repo)
		 FROM generations`,
	)
	if err := row.Scan(&st.Total, &st.Fallbacks, &st.UniqueRepos); err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	return st, nil
}

func scanGeneration(row *sql.Row) (Generation, error) {
	var g Generation
	var fallback int
	err := row.Scan(&g.ID, &g.Repo, &g.Variant, &g.Seed, &fallback, &g.SpecJSON, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return Generation{}, ErrNotFound
	}
	if err != nil {
		return Generation{}, fmt.Errorf("scanning generation: %w", err)
	}
	g.Fallback = fallback != 0
	return g, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
