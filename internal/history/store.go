// Package history implements the optional run-history/audit store of
// SPEC_FULL §2.1: an embedder convenience that records one row per
// completed interpreter run, never consulted by language semantics.
//
// Grounded on sentra/internal/database.DatabaseModule's pattern of sitting
// several drivers behind a single database/sql facade, chosen here by DSN
// scheme rather than an explicit Type field.
package history

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pdlvm/internal/perrors"
)

// Record is one completed run/step session (SPEC_FULL §2.1).
type Record struct {
	RunID          uuid.UUID
	SourceHash     string
	StartedAt      time.Time
	EndedAt        time.Time
	Steps          int
	FinalOpDepth   int
	ErrorKind      string // empty if the run completed without error
	BoundingBox    [4]float64
	HasBoundingBox bool
}

// Store wraps database/sql, driver selected by the DSN's scheme.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, picking the driver from its URL scheme:
// sqlite://, postgres://, mysql://, sqlserver://.
func Open(dsn string) (*Store, error) {
	driver, dataSource, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.IOError, "history: opening %s store", driver)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func driverFor(dsn string) (driver, dataSource string, err error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "postgres://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://"), nil
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver", dsn, nil
	default:
		return "", "", perrors.New(perrors.UndefinedFilename, "history: unrecognized DSN scheme in %q", dsn)
	}
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	source_hash      TEXT NOT NULL,
	started_at       TIMESTAMP NOT NULL,
	ended_at         TIMESTAMP NOT NULL,
	steps            INTEGER NOT NULL,
	final_op_depth   INTEGER NOT NULL,
	error_kind       TEXT NOT NULL DEFAULT '',
	bbox_llx         REAL,
	bbox_lly         REAL,
	bbox_urx         REAL,
	bbox_ury         REAL,
	has_bbox         INTEGER NOT NULL DEFAULT 0
)`)
	if err != nil {
		return perrors.Wrap(err, perrors.IOError, "history: creating runs table")
	}
	return nil
}

// Record inserts one completed run (SPEC_FULL §2.1).
func (s *Store) Record(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, source_hash, started_at, ended_at, steps, final_op_depth, error_kind, bbox_llx, bbox_lly, bbox_urx, bbox_ury, has_bbox)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.SourceHash, r.StartedAt, r.EndedAt, r.Steps, r.FinalOpDepth, r.ErrorKind,
		r.BoundingBox[0], r.BoundingBox[1], r.BoundingBox[2], r.BoundingBox[3], boolToInt(r.HasBoundingBox),
	)
	if err != nil {
		return perrors.Wrap(err, perrors.IOError, "history: recording run %s", r.RunID)
	}
	return nil
}

// Close releases the underlying database/sql handle.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
