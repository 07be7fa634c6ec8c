package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"murlang/internal/object"
	"time"
)

// Run is one journalled execution. It satisfies evaluator.Observer and is
// safe for concurrent use.
type Run struct {
	ID     int64
	Digest string

	journal *Journal
	ctx     context.Context
}

func errorColumns(err error) (sql.NullString, sql.NullString) {
	if err == nil {
		return sql.NullString{}, sql.NullString{}
	}
	kind := "Error"
	msg := err.Error()
	var rtErr *object.RuntimeError
	if errors.As(err, &rtErr) {
		kind = string(rtErr.Kind)
		msg = rtErr.Message
	}
	return sql.NullString{String: kind, Valid: true}, sql.NullString{String: msg, Valid: true}
}

// UnitSettled records a terminal unit or task. Write failures are logged,
// never returned, so journalling cannot fail a program.
func (r *Run) UnitSettled(label string, kind string, value object.Object, err error) {
	state := "completed"
	var outcome sql.NullString
	if err != nil {
		state = "failed"
	} else if value != nil {
		outcome = sql.NullString{String: value.Inspect(), Valid: true}
	}
	errKind, errMsg := errorColumns(err)

	_, dbErr := r.journal.db.ExecContext(r.ctx, r.journal.rebind(
		`INSERT INTO units (run_id, label, kind, state, outcome, error_kind, error_message, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, label, kind, state, outcome, errKind, errMsg, millis(time.Now()))
	if dbErr != nil {
		slog.Warn("journal unit write failed",
			slog.Int64("run", r.ID),
			slog.String("label", label),
			slog.Any("error", dbErr))
	}
}

// Finish stamps the run with its exit status and uncaught error, if any.
func (r *Run) Finish(ctx context.Context, status int, runErr error) error {
	errKind, errMsg := errorColumns(runErr)
	_, err := r.journal.db.ExecContext(ctx, r.journal.rebind(
		`UPDATE runs SET finished_at = ?, status = ?, error_kind = ?, error_message = ? WHERE id = ?`),
		millis(time.Now()), status, errKind, errMsg, r.ID)
	if err != nil {
		return fmt.Errorf("journal: finish run %d: %w", r.ID, err)
	}
	return nil
}
