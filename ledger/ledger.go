/*
 * ledger.go, part of fraggrow.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package ledger keeps a SQLite record of growing runs and their iterations, so the
//history of many runs in a project can be queried.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rmera/fraggrow/growing"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	workdir     TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	state       TEXT NOT NULL,
	iterations  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS iterations (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	idx         INTEGER NOT NULL,
	template    TEXT NOT NULL,
	input       TEXT NOT NULL,
	results     TEXT NOT NULL,
	control     TEXT NOT NULL,
	report      TEXT NOT NULL,
	frame       INTEGER NOT NULL,
	value       REAL NOT NULL,
	mean        REAL NOT NULL,
	std         REAL NOT NULL,
	steps       INTEGER NOT NULL,
	contact     REAL,
	elapsed_s   REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

//ErrNoRun is returned, wrapped, when a run is not in the ledger.
var ErrNoRun = errors.New("ledger: run not found")

//Ledger is a SQLite database of runs.
type Ledger struct {
	db   *sql.DB
	path string
}

//Open opens, or creates, the ledger in the file path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}
	return &Ledger{db: db, path: path}, nil
}

//Close closes the database.
func (L *Ledger) Close() error {
	return L.db.Close()
}

//Path returns the database file.
func (L *Ledger) Path() string {
	return L.path
}

//Run is a run as recorded.
type Run struct {
	ID         string
	WorkDir    string
	Started    time.Time
	Finished   time.Time //zero if the run never finished
	State      string
	Iterations int
}

//Iteration is an iteration as recorded.
type Iteration struct {
	Index    int
	Template string
	Input    string
	Results  string
	Control  string
	Report   string
	Frame    int
	Value    float64
	Mean     float64
	Std      float64
	Steps    int
	Contact  sql.NullFloat64
	Elapsed  time.Duration
}

func (L *Ledger) startRun(ctx context.Context, run *growing.RunContext, state string) error {
	_, err := L.db.ExecContext(ctx, `INSERT OR IGNORE INTO runs (id, workdir, started_at, state) VALUES (?, ?, ?, ?)`,
		run.ID, run.WorkDir, run.Start.UTC().Format(time.RFC3339Nano), state)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

//Observe records the iteration it of run.
func (L *Ledger) Observe(ctx context.Context, run *growing.RunContext, it *growing.Iteration) error {
	if err := L.startRun(ctx, run, growing.Iterating.String()); err != nil {
		return err
	}
	var contact sql.NullFloat64
	if it.HasContact {
		contact = sql.NullFloat64{Float64: it.Contact, Valid: true}
	}
	_, err := L.db.ExecContext(ctx, `INSERT OR REPLACE INTO iterations
		(run_id, idx, template, input, results, control, report, frame, value, mean, std, steps, contact, elapsed_s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, it.Index, it.Template, it.Input, it.Results, it.Control, it.Best.Report, it.Best.Frame, it.Best.Value,
		it.Summary.Mean, it.Summary.Std, it.Summary.N, contact, it.Elapsed.Seconds())
	if err != nil {
		return fmt.Errorf("recording iteration %d: %w", it.Index, err)
	}
	_, err = L.db.ExecContext(ctx, `UPDATE runs SET iterations = (SELECT COUNT(*) FROM iterations WHERE run_id = ?) WHERE id = ?`, run.ID, run.ID)
	return err
}

//Finish records the end of run, in the given state.
func (L *Ledger) Finish(ctx context.Context, run *growing.RunContext, state growing.State, its []*growing.Iteration) error {
	if err := L.startRun(ctx, run, state.String()); err != nil {
		return err
	}
	_, err := L.db.ExecContext(ctx, `UPDATE runs SET state = ?, finished_at = ?, iterations = ? WHERE id = ?`,
		state.String(), time.Now().UTC().Format(time.RFC3339Nano), len(its), run.ID)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}
	return nil
}

func parseTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}

//Run returns the run with the given id.
func (L *Ledger) Run(ctx context.Context, id string) (*Run, error) {
	R := &Run{}
	var started, finished sql.NullString
	err := L.db.QueryRowContext(ctx, `SELECT id, workdir, started_at, finished_at, state, iterations FROM runs WHERE id = ?`, id).
		Scan(&R.ID, &R.WorkDir, &started, &finished, &R.State, &R.Iterations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", id, err)
	}
	if R.Started, err = parseTime(started); err != nil {
		return nil, err
	}
	if R.Finished, err = parseTime(finished); err != nil {
		return nil, err
	}
	return R, nil
}

//Runs returns every run, the most recent first.
func (L *Ledger) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := L.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	ids := make([]string, 0, 10)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ret := make([]*Run, 0, len(ids))
	for _, id := range ids {
		R, err := L.Run(ctx, id)
		if err != nil {
			return nil, err
		}
		ret = append(ret, R)
	}
	return ret, nil
}

//Iterations returns the iterations of the run id, in order.
func (L *Ledger) Iterations(ctx context.Context, id string) ([]*Iteration, error) {
	rows, err := L.db.QueryContext(ctx, `SELECT idx, template, input, results, control, report, frame, value, mean, std, steps, contact, elapsed_s
		FROM iterations WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("reading iterations of %s: %w", id, err)
	}
	defer rows.Close()
	ret := make([]*Iteration, 0, 10)
	for rows.Next() {
		I := &Iteration{}
		var elapsed float64
		if err := rows.Scan(&I.Index, &I.Template, &I.Input, &I.Results, &I.Control, &I.Report, &I.Frame, &I.Value,
			&I.Mean, &I.Std, &I.Steps, &I.Contact, &elapsed); err != nil {
			return nil, err
		}
		I.Elapsed = time.Duration(elapsed * float64(time.Second))
		ret = append(ret, I)
	}
	return ret, rows.Err()
}
