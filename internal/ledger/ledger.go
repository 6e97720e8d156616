// internal/ledger/ledger.go
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"guidance/internal/dispatch"
)

var ErrNoRuns = errors.New("ledger: no runs recorded")

// Ledger records, per run, how every task ended and which artifacts it left
// behind. It survives across runs so a partial rerun can be audited.
type Ledger struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started TEXT NOT NULL,
	finished TEXT,
	wf_deep TEXT NOT NULL,
	imputation_tool TEXT NOT NULL,
	out_dir TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	run_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	class TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	recorded_at TEXT NOT NULL,
	PRIMARY KEY (run_id, task_id)
);
CREATE TABLE IF NOT EXISTS artifacts (
	run_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	path TEXT NOT NULL,
	placeholder INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, path)
);
CREATE INDEX IF NOT EXISTS idx_tasks_stage ON tasks(run_id, stage);
`

// Open creates or opens the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	// One writer at a time; the dispatcher records from many goroutines.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create tables: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) Path() string { return l.path }

// Run identifies one dispatch.
type Run struct {
	ID             string
	Started        time.Time
	Finished       time.Time
	WfDeep         string
	ImputationTool string
	OutDir         string
}

// stampLayout has fixed-width fractions so stamps sort as text.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func stamp(t time.Time) string { return t.UTC().Format(stampLayout) }

func (l *Ledger) BeginRun(ctx context.Context, r Run) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started, wf_deep, imputation_tool, out_dir) VALUES (?, ?, ?, ?, ?)`,
		r.ID, stamp(r.Started), r.WfDeep, r.ImputationTool, r.OutDir)
	if err != nil {
		return fmt.Errorf("ledger: begin run %s: %w", r.ID, err)
	}
	return nil
}

func (l *Ledger) FinishRun(ctx context.Context, id string, finished time.Time) error {
	_, err := l.db.ExecContext(ctx, `UPDATE runs SET finished = ? WHERE run_id = ?`, stamp(finished), id)
	return err
}

// Recorder returns a dispatch.Recorder writing into run id.
func (l *Ledger) Recorder(id string) dispatch.Recorder { return &recorder{l: l, run: id} }

type recorder struct {
	l   *Ledger
	run string
}

func (r *recorder) Record(ctx context.Context, res dispatch.Result) error {
	tx, err := r.l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var msg sql.NullString
	if res.Err != nil {
		msg = sql.NullString{String: res.Err.Error(), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO tasks (run_id, task_id, stage, class, outcome, error, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.run, res.TaskID, res.Stage.String(), res.Class.String(), string(res.Outcome), msg,
		res.Duration.Milliseconds(), stamp(time.Now())); err != nil {
		return fmt.Errorf("ledger: record %s: %w", res.TaskID, err)
	}
	placeholder := make(map[string]bool, len(res.Placeholders))
	for _, p := range res.Placeholders {
		placeholder[string(p)] = true
	}
	for _, o := range res.Outputs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO artifacts (run_id, task_id, path, placeholder) VALUES (?, ?, ?, ?)`,
			r.run, res.TaskID, string(o), placeholder[string(o)]); err != nil {
			return fmt.Errorf("ledger: record %s: %w", o, err)
		}
	}
	return tx.Commit()
}

// TaskStatus is one recorded task.
type TaskStatus struct {
	TaskID       string
	Stage        string
	Class        string
	Outcome      string
	Error        string
	Duration     time.Duration
	Placeholders int
}

// Latest returns the most recently started run.
func (l *Ledger) Latest(ctx context.Context) (Run, error) {
	runs, err := l.Runs(ctx)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[len(runs)-1], nil
}

// Runs lists every run, oldest first.
func (l *Ledger) Runs(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, started, COALESCE(finished, ''), wf_deep, imputation_tool, out_dir FROM runs ORDER BY started, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.WfDeep, &r.ImputationTool, &r.OutDir); err != nil {
			return nil, err
		}
		r.Started, _ = time.Parse(stampLayout, started)
		if finished != "" {
			r.Finished, _ = time.Parse(stampLayout, finished)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Status returns the tasks of run id in stage then task order. stage, when
// non-empty, restricts the result to one stage.
func (l *Ledger) Status(ctx context.Context, id, stage string) ([]TaskStatus, error) {
	q := strings.Builder{}
	q.WriteString(`SELECT t.task_id, t.stage, t.class, t.outcome, COALESCE(t.error, ''), t.duration_ms,
		(SELECT COUNT(*) FROM artifacts a WHERE a.run_id = t.run_id AND a.task_id = t.task_id AND a.placeholder = 1)
		FROM tasks t WHERE t.run_id = ?`)
	args := []any{id}
	if stage != "" {
		q.WriteString(` AND t.stage = ?`)
		args = append(args, stage)
	}
	q.WriteString(` ORDER BY t.recorded_at, t.task_id`)
	rows, err := l.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []TaskStatus
	for rows.Next() {
		var s TaskStatus
		var ms int64
		if err := rows.Scan(&s.TaskID, &s.Stage, &s.Class, &s.Outcome, &s.Error, &ms, &s.Placeholders); err != nil {
			return nil, err
		}
		s.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, s)
	}
	return out, rows.Err()
}

// Placeholders lists the placeholder artifacts of run id.
func (l *Ledger) Placeholders(ctx context.Context, id string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path FROM artifacts WHERE run_id = ? AND placeholder = 1 ORDER BY path`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
