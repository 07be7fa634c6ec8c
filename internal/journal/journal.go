package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"
)

// Journal records program runs and the outcome of every unit they spawn.
type Journal struct {
	db      *sql.DB
	dialect dialect
}

type dialect struct {
	driver   string
	idColumn string
	dollar   bool // $1 placeholders instead of ?
}

var dialects = map[string]dialect{
	"sqlite3":    {driver: "sqlite3", idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT"},
	"mysql":      {driver: "mysql", idColumn: "BIGINT AUTO_INCREMENT PRIMARY KEY"},
	"postgres":   {driver: "postgres", idColumn: "BIGSERIAL PRIMARY KEY", dollar: true},
	"postgresql": {driver: "postgres", idColumn: "BIGSERIAL PRIMARY KEY", dollar: true},
}

// splitDSN maps scheme://rest onto a driver name and its data source.
// Postgres keeps the whole URL since lib/pq parses it itself.
func splitDSN(dsn string) (dialect, string, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dialect{}, "", fmt.Errorf("journal: %q has no scheme, want sqlite3://, mysql:// or postgres://", dsn)
	}
	d, ok := dialects[scheme]
	if !ok {
		return dialect{}, "", fmt.Errorf("journal: unsupported scheme %q", scheme)
	}
	if d.driver == "postgres" {
		return d, dsn, nil
	}
	if rest == "" {
		return dialect{}, "", fmt.Errorf("journal: %q names no database", dsn)
	}
	return d, rest, nil
}

// Open connects to dsn and creates the journal tables when missing.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	d, source, err := splitDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", d.driver, err)
	}
	if d.driver == "sqlite3" {
		// every pooled connection to :memory: would be a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: connect %s: %w", d.driver, err)
	}

	j := &Journal{db: db, dialect: d}
	if err := j.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("journal opened", slog.String("driver", d.driver))
	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id ` + j.dialect.idColumn + `,
			program VARCHAR(1024) NOT NULL,
			digest CHAR(64) NOT NULL,
			started_at BIGINT NOT NULL,
			finished_at BIGINT,
			status INTEGER,
			error_kind VARCHAR(64),
			error_message TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			run_id BIGINT NOT NULL,
			label VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			state VARCHAR(16) NOT NULL,
			outcome TEXT,
			error_kind VARCHAR(64),
			error_message TEXT,
			finished_at BIGINT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("journal: migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders for drivers that number them.
func (j *Journal) rebind(query string) string {
	if !j.dialect.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Digest is the hex blake3 hash of a program's source.
func Digest(source string) string {
	h := blake3.New()
	_, _ = io.WriteString(h, source)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func millis(t time.Time) int64 { return t.UnixMilli() }

// BeginRun inserts a run row for program and returns the handle that
// records its units.
func (j *Journal) BeginRun(ctx context.Context, program, source string) (*Run, error) {
	started := time.Now()
	digest := Digest(source)

	var id int64
	if j.dialect.dollar {
		err := j.db.QueryRowContext(ctx,
			j.rebind(`INSERT INTO runs (program, digest, started_at) VALUES (?, ?, ?) RETURNING id`),
			program, digest, millis(started)).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("journal: begin run: %w", err)
		}
	} else {
		res, err := j.db.ExecContext(ctx,
			`INSERT INTO runs (program, digest, started_at) VALUES (?, ?, ?)`,
			program, digest, millis(started))
		if err != nil {
			return nil, fmt.Errorf("journal: begin run: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("journal: begin run: %w", err)
		}
	}

	slog.Debug("journal run started",
		slog.Int64("run", id),
		slog.String("program", program),
		slog.String("digest", digest))

	return &Run{ID: id, Digest: digest, journal: j, ctx: ctx}, nil
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID           int64
	Program      string
	Digest       string
	StartedAt    time.Time
	FinishedAt   time.Time // zero while the run is unfinished
	Status       int
	ErrorKind    string
	ErrorMessage string
}

// Recent returns up to n runs, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]RunRecord, error) {
	rows, err := j.db.QueryContext(ctx, j.rebind(
		`SELECT id, program, digest, started_at, finished_at, status, error_kind, error_message
		 FROM runs ORDER BY id DESC LIMIT ?`), n)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r                  RunRecord
			started            int64
			finished, status   sql.NullInt64
			errKind, errString sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Program, &r.Digest, &started, &finished, &status, &errKind, &errString); err != nil {
			return nil, fmt.Errorf("journal: recent: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			r.FinishedAt = time.UnixMilli(finished.Int64)
		}
		r.Status = int(status.Int64)
		r.ErrorKind = errKind.String
		r.ErrorMessage = errString.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// UnitRecord is one row of the units table.
type UnitRecord struct {
	Label        string
	Kind         string
	State        string
	Outcome      string
	ErrorKind    string
	ErrorMessage string
	FinishedAt   time.Time
}

// Units lists the units recorded for a run in the order they settled.
func (j *Journal) Units(ctx context.Context, runID int64) ([]UnitRecord, error) {
	rows, err := j.db.QueryContext(ctx, j.rebind(
		`SELECT label, kind, state, outcome, error_kind, error_message, finished_at
		 FROM units WHERE run_id = ? ORDER BY finished_at, label`), runID)
	if err != nil {
		return nil, fmt.Errorf("journal: units: %w", err)
	}
	defer rows.Close()

	var out []UnitRecord
	for rows.Next() {
		var (
			u                           UnitRecord
			outcome, errKind, errString sql.NullString
			finished                    int64
		)
		if err := rows.Scan(&u.Label, &u.Kind, &u.State, &outcome, &errKind, &errString, &finished); err != nil {
			return nil, fmt.Errorf("journal: units: %w", err)
		}
		u.Outcome = outcome.String
		u.ErrorKind = errKind.String
		u.ErrorMessage = errString.String
		u.FinishedAt = time.UnixMilli(finished)
		out = append(out, u)
	}
	return out, rows.Err()
}
