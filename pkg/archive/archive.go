// Package archive keeps every discovery run in a SQLite database so totals
// can be computed across runs without rescanning result files.
package archive

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/bastiangx/wordmine/pkg/report"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	_ "modernc.org/sqlite"
)

const (
	sectionNew   = "new"
	sectionKnown = "known"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_words (
	run_id TEXT NOT NULL,
	section TEXT NOT NULL CHECK (section IN ('new', 'known')),
	word TEXT NOT NULL,
	freq INTEGER NOT NULL,
	PRIMARY KEY(run_id, section, word),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_words_word ON run_words(section, word);
`

// Run describes one archived result.
type Run struct {
	ID         string
	Source     string
	CreatedAt  time.Time
	NewWords   int
	KnownWords int
}

// Archive is safe for concurrent use.
type Archive struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the archive at path.
func Open(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure archive: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	return &Archive{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) newID(now time.Time) ulid.ULID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), a.entropy)
}

// SaveRun stores rep as a new run from source and returns it.
func (a *Archive) SaveRun(ctx context.Context, source string, rep *report.Report) (Run, error) {
	now := time.Now().UTC()
	run := Run{
		ID:         a.newID(now).String(),
		Source:     source,
		CreatedAt:  now,
		NewWords:   len(rep.New),
		KnownWords: len(rep.Known),
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Source, now.Format(time.RFC3339Nano)); err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_words (run_id, section, word, freq) VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, section, word) DO UPDATE SET freq = freq + excluded.freq`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	insert := func(section string, entries []report.Entry) error {
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, run.ID, section, e.Word, e.Freq); err != nil {
				return fmt.Errorf("failed to insert %s word %q: %w", section, e.Word, err)
			}
		}
		return nil
	}
	if err := insert(sectionNew, rep.New); err != nil {
		return Run{}, err
	}
	if err := insert(sectionKnown, rep.Known); err != nil {
		return Run{}, err
	}
	if err := tx.Commit(); err != nil {
		return Run{}, err
	}

	log.Debugf("Archived run %s from %s: %d new, %d known", run.ID, source, run.NewWords, run.KnownWords)
	return run, nil
}

// Runs lists archived runs, oldest first.
func (a *Archive) Runs(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.created_at,
			COALESCE(SUM(CASE WHEN w.section = 'new' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN w.section = 'known' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN run_words w ON w.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err := rows.Scan(&run.ID, &run.Source, &created, &run.NewWords, &run.KnownWords); err != nil {
			return nil, err
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("run %s has bad timestamp %q: %w", run.ID, created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Totals sums every archived run into one report, each section ordered by
// total descending then word.
func (a *Archive) Totals(ctx context.Context) (*report.Report, error) {
	newWords, err := a.totals(ctx, sectionNew)
	if err != nil {
		return nil, err
	}
	known, err := a.totals(ctx, sectionKnown)
	if err != nil {
		return nil, err
	}
	return &report.Report{New: newWords, Known: known}, nil
}

func (a *Archive) totals(ctx context.Context, section string) ([]report.Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT word, SUM(freq) AS total
		FROM run_words
		WHERE section = ?
		GROUP BY word
		ORDER BY total DESC, word ASC`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Entry
	for rows.Next() {
		var e report.Entry
		if err := rows.Scan(&e.Word, &e.Freq); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its words.
func (a *Archive) DeleteRun(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}
