// Package catalog keeps snapshots of every named query as rendered at a
// point in time, so that changes to query text show up between releases.
package catalog

import (
	"context"
	"database/sql"
	"groqkit/common"
	"groqkit/tx"
	"groqkit/utils"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Entry is one named query rendered with its example arguments.
type Entry struct {
	Id          common.EntryId
	RunId       common.RunId
	Name        string
	ContentType common.ContentType
	UseCase     string
	Options     string
	Query       string
	Params      utils.JSONMap
}

// Run is one export of the whole catalog.
type Run struct {
	Id        common.RunId
	Label     string
	CreatedAt time.Time
	Entries   int
}

type Config struct {
	Logger zerolog.Logger
	// Now overrides the clock used to stamp runs.
	Now func() time.Time
}

type Store struct {
	lock   *sync.Mutex
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS export_runs (
	run_id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS query_entries (
	entry_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	content_type TEXT NOT NULL,
	use_case TEXT NOT NULL,
	options TEXT NOT NULL,
	query_text TEXT NOT NULL,
	params TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES export_runs(run_id) ON DELETE CASCADE,
	UNIQUE (run_id, name)
);`

// timeLayout is fixed width so that created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens or creates the catalog database at path.
func Open(ctx context.Context, path string, cfg Config) (s *Store, err error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s = &Store{
		lock:   &sync.Mutex{},
		db:     db,
		logger: cfg.Logger,
		now:    now,
	}
	s.logger.Debug().Str("path", path).Msg("catalog opened")
	return s, nil
}

func (s *Store) ReadTx(ctx context.Context) (rtx tx.ReadTx, err error) {
	t, err := s.db.BeginTx(ctx, &sql.TxOptions{
		ReadOnly: true,
	})
	if err != nil {
		return
	}
	rtx = &sqliteReadTx{ctx: ctx, tx: t}
	return
}

func (s *Store) WriteTx(ctx context.Context) (wtx tx.WriteTx, err error) {
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	wtx = &sqliteWriteTx{sqliteReadTx{ctx: ctx, tx: t}}
	return
}

// SaveRun stores entries as a new run. Entry and run ids are assigned here.
func (s *Store) SaveRun(ctx context.Context, label string, entries []Entry) (run Run, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	runId, err := common.NewRunId()
	if err != nil {
		return
	}
	run = Run{Id: runId, Label: label, CreatedAt: s.now().UTC(), Entries: len(entries)}

	wtx, err := s.WriteTx(ctx)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			wtx.Rollback()
		} else {
			err = wtx.Commit()
		}
	}()
	insertRun := `
	INSERT INTO export_runs
	(run_id, label, created_at)
	VALUES
	(?, ?, ?)`
	if _, err = wtx.Exec(insertRun, run.Id, run.Label, run.CreatedAt.Format(timeLayout)); err != nil {
		err = errors.Wrap(err, "insert run")
		return
	}
	insertEntry, err := wtx.Prepare(`
	INSERT INTO query_entries
	(entry_id, run_id, name, content_type, use_case, options, query_text, params)
	VALUES
	(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return
	}
	defer insertEntry.Close()
	for _, e := range entries {
		var id common.EntryId
		if id, err = common.NewEntryId(); err != nil {
			return
		}
		params := e.Params
		if params == nil {
			params = utils.JSONMap{}
		}
		if _, err = insertEntry.Exec(id, run.Id, e.Name, string(e.ContentType), e.UseCase, e.Options, e.Query, params); err != nil {
			err = errors.Wrapf(err, "insert entry %s", e.Name)
			return
		}
	}
	s.logger.Info().Str("run", run.Id.String()).Str("label", label).Int("entries", len(entries)).Msg("catalog run saved")
	return
}

// Runs lists runs, newest first.
func (s *Store) Runs(ctx context.Context) (runs []Run, err error) {
	rtx, err := s.ReadTx(ctx)
	if err != nil {
		return
	}
	defer rtx.Commit()
	rows, err := rtx.Query(`
	SELECT r.run_id, r.label, r.created_at, COUNT(e.entry_id)
	FROM export_runs r
	LEFT JOIN query_entries e ON e.run_id = r.run_id
	GROUP BY r.run_id
	ORDER BY r.created_at DESC, r.rowid DESC`)
	if err != nil {
		return
	}
	defer rows.Close()
	runs = []Run{}
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err = rows.Scan(&run.Id, &run.Label, &created, &run.Entries); err != nil {
			return
		}
		if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return
		}
		runs = append(runs, run)
	}
	err = rows.Err()
	return
}

// Entries returns the entries of a run ordered by name.
func (s *Store) Entries(ctx context.Context, runId common.RunId) (entries []Entry, err error) {
	rtx, err := s.ReadTx(ctx)
	if err != nil {
		return
	}
	defer rtx.Commit()
	var exists int
	if err = rtx.QueryRow(`SELECT COUNT(*) FROM export_runs WHERE run_id = ?`, runId).Scan(&exists); err != nil {
		return
	}
	if exists == 0 {
		err = errors.Wrapf(common.ErrRunNotFound, "%s", runId)
		return
	}
	rows, err := rtx.Query(`
	SELECT entry_id, run_id, name, content_type, use_case, options, query_text, params
	FROM query_entries
	WHERE run_id = ?
	ORDER BY name`, runId)
	if err != nil {
		return
	}
	defer rows.Close()
	entries = []Entry{}
	for rows.Next() {
		var (
			e           Entry
			contentType string
		)
		if err = rows.Scan(&e.Id, &e.RunId, &e.Name, &contentType, &e.UseCase, &e.Options, &e.Query, &e.Params); err != nil {
			return
		}
		e.ContentType = common.ContentType(contentType)
		entries = append(entries, e)
	}
	err = rows.Err()
	return
}

// ChangeKind classifies a difference between two runs.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Change is one named query that differs between two runs.
type Change struct {
	Name string
	Kind ChangeKind
	From string
	To   string
}

// Diff compares the query text and parameters of two runs.
func (s *Store) Diff(ctx context.Context, from, to common.RunId) (changes []Change, err error) {
	before, err := s.Entries(ctx, from)
	if err != nil {
		return
	}
	after, err := s.Entries(ctx, to)
	if err != nil {
		return
	}
	old := map[string]Entry{}
	for _, e := range before {
		old[e.Name] = e
	}
	changes = []Change{}
	for _, e := range after {
		prev, ok := old[e.Name]
		delete(old, e.Name)
		if !ok {
			changes = append(changes, Change{Name: e.Name, Kind: Added, To: render(e)})
			continue
		}
		if render(prev) != render(e) {
			changes = append(changes, Change{Name: e.Name, Kind: Changed, From: render(prev), To: render(e)})
		}
	}
	for name, e := range old {
		changes = append(changes, Change{Name: name, Kind: Removed, From: render(e)})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return
}

func render(e Entry) string {
	return common.Descriptor{Query: e.Query, Params: e.Params.Params()}.String()
}

func (s *Store) Close(ctx context.Context) error {
	s.logger.Debug().Msg("catalog closed")
	return s.db.Close()
}
