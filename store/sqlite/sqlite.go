/*
Package sqlite provides the SQLite-backed store.

PURPOSE:
  Persists the reference data (partners, sub-activities, rate cards,
  limit rules) and the assignment records (tasks, memberships), and
  assembles the engine.Snapshot a validation or preview call runs
  over. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

SNAPSHOT ASSEMBLY:
  LoadSnapshot reads every table in one pass and hands the slices to
  engine.NewSnapshot. The engine never touches the database; all
  staleness concerns live at this boundary.

COMMIT SAFETY:
  WithTx wraps a database transaction. importer.Committer uses it to
  re-validate against a freshly loaded snapshot immediately before
  inserting membership rows, so two nearly-simultaneous submissions
  cannot both pass validation and jointly exceed a limit.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, a single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/mitra.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - importer/commit.go: The transaction consumer
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
)

const dateFormat = "2006-01-02"

// Store implements importer.Store plus the reference-data writers the
// API layer needs.
type Store struct {
	db *sql.DB
}

var _ importer.Store = (*Store)(nil)

// New opens (or creates) the database. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS partners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		national_id TEXT
	);

	CREATE TABLE IF NOT EXISTS sub_activities (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		activity TEXT NOT NULL,
		start_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rate_cards (
		sub_activity_id INTEGER NOT NULL,
		position TEXT NOT NULL,
		tariff TEXT NOT NULL,
		unit TEXT,
		target_volume INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (sub_activity_id, position)
	);

	CREATE TABLE IF NOT EXISTS limit_rules (
		year INTEGER PRIMARY KEY,
		ceiling TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		sub_activity_id INTEGER NOT NULL,
		name TEXT,
		start_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memberships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		partner_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		position TEXT NOT NULL,
		volume INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_memberships_partner ON memberships(partner_id);
	CREATE INDEX IF NOT EXISTS idx_memberships_task_position ON memberships(task_id, position);
	CREATE INDEX IF NOT EXISTS idx_tasks_sub_activity ON tasks(sub_activity_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// querier abstracts *sql.DB and *sql.Tx so snapshot loading and writes
// run identically inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

func (s *Store) LoadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	return loadSnapshot(ctx, s.db)
}

func loadSnapshot(ctx context.Context, q querier) (*engine.Snapshot, error) {
	var in engine.SnapshotInput

	rows, err := q.QueryContext(ctx, `SELECT id, name, COALESCE(national_id, '') FROM partners`)
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	for rows.Next() {
		var p engine.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.NationalID); err != nil {
			rows.Close()
			return nil, err
		}
		in.Partners = append(in.Partners, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `SELECT id, name, activity, start_date FROM sub_activities`)
	if err != nil {
		return nil, fmt.Errorf("load sub_activities: %w", err)
	}
	for rows.Next() {
		var sa engine.SubActivity
		var start string
		if err := rows.Scan(&sa.ID, &sa.Name, &sa.Activity, &start); err != nil {
			rows.Close()
			return nil, err
		}
		if sa.Start, err = time.Parse(dateFormat, start); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sub_activity %d start: %w", sa.ID, err)
		}
		in.SubActivities = append(in.SubActivities, sa)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `SELECT sub_activity_id, position, tariff, COALESCE(unit, ''), target_volume FROM rate_cards`)
	if err != nil {
		return nil, fmt.Errorf("load rate_cards: %w", err)
	}
	for rows.Next() {
		var rc engine.RateCard
		var tariff string
		if err := rows.Scan(&rc.SubActivityID, &rc.Position, &tariff, &rc.Unit, &rc.TargetVolume); err != nil {
			rows.Close()
			return nil, err
		}
		rc.Tariff = engine.MustParseMoney(tariff)
		in.RateCards = append(in.RateCards, rc)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `SELECT year, ceiling FROM limit_rules`)
	if err != nil {
		return nil, fmt.Errorf("load limit_rules: %w", err)
	}
	for rows.Next() {
		var lr engine.LimitRule
		var ceiling string
		if err := rows.Scan(&lr.Year, &ceiling); err != nil {
			rows.Close()
			return nil, err
		}
		lr.Ceiling = engine.MustParseMoney(ceiling)
		in.LimitRules = append(in.LimitRules, lr)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `SELECT id, sub_activity_id, COALESCE(name, ''), start_date FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for rows.Next() {
		var t engine.AssignmentTask
		var start string
		if err := rows.Scan(&t.ID, &t.SubActivityID, &t.Name, &start); err != nil {
			rows.Close()
			return nil, err
		}
		if t.Start, err = time.Parse(dateFormat, start); err != nil {
			rows.Close()
			return nil, fmt.Errorf("task %s start: %w", t.ID, err)
		}
		in.Tasks = append(in.Tasks, t)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `SELECT partner_id, task_id, position, volume FROM memberships ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	for rows.Next() {
		var m engine.AssignmentMembership
		if err := rows.Scan(&m.PartnerID, &m.TaskID, &m.Position, &m.Volume); err != nil {
			rows.Close()
			return nil, err
		}
		in.Memberships = append(in.Memberships, m)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return engine.NewSnapshot(in), nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// =============================================================================
// WRITERS
// =============================================================================

func (s *Store) SavePartner(ctx context.Context, p engine.Partner) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO partners (id, name, national_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, national_id=excluded.national_id`,
		p.ID, p.Name, p.NationalID)
	return err
}

func (s *Store) SaveSubActivity(ctx context.Context, sa engine.SubActivity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sub_activities (id, name, activity, start_date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, activity=excluded.activity, start_date=excluded.start_date`,
		sa.ID, sa.Name, sa.Activity, sa.Start.Format(dateFormat))
	return err
}

func (s *Store) SaveRateCard(ctx context.Context, rc engine.RateCard) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_cards (sub_activity_id, position, tariff, unit, target_volume) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(sub_activity_id, position) DO UPDATE SET tariff=excluded.tariff, unit=excluded.unit, target_volume=excluded.target_volume`,
		rc.SubActivityID, rc.Position, rc.Tariff.String(), rc.Unit, rc.TargetVolume)
	return err
}

func (s *Store) SaveLimitRule(ctx context.Context, lr engine.LimitRule) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO limit_rules (year, ceiling) VALUES (?, ?)
		 ON CONFLICT(year) DO UPDATE SET ceiling=excluded.ceiling`,
		lr.Year, lr.Ceiling.String())
	return err
}

func (s *Store) SaveTask(ctx context.Context, t engine.AssignmentTask) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, sub_activity_id, name, start_date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET sub_activity_id=excluded.sub_activity_id, name=excluded.name, start_date=excluded.start_date`,
		t.ID, t.SubActivityID, t.Name, t.Start.Format(dateFormat))
	return err
}

func (s *Store) AppendMemberships(ctx context.Context, ms []engine.AssignmentMembership) error {
	return appendMemberships(ctx, s.db, ms)
}

func appendMemberships(ctx context.Context, q querier, ms []engine.AssignmentMembership) error {
	for _, m := range ms {
		_, err := q.ExecContext(ctx,
			`INSERT INTO memberships (partner_id, task_id, position, volume) VALUES (?, ?, ?, ?)`,
			m.PartnerID, m.TaskID, m.Position, m.Volume)
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every table. Dev/demo only.
func (s *Store) Reset(ctx context.Context) error {
	stmts := []string{
		`DELETE FROM memberships`,
		`DELETE FROM tasks`,
		`DELETE FROM rate_cards`,
		`DELETE FROM limit_rules`,
		`DELETE FROM sub_activities`,
		`DELETE FROM partners`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx runs fn inside a database transaction. The Store passed to fn
// is bound to that transaction, so the committer's fresh snapshot and
// its inserts are atomic against concurrent submissions.
func (s *Store) WithTx(ctx context.Context, fn func(importer.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txStore is the transaction-bound view handed to WithTx callbacks.
type txStore struct {
	tx *sql.Tx
}

var _ importer.Store = (*txStore)(nil)

func (t *txStore) LoadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	return loadSnapshot(ctx, t.tx)
}

func (t *txStore) WithTx(ctx context.Context, fn func(importer.Store) error) error {
	// Already inside a transaction.
	return fn(t)
}

func (t *txStore) AppendMemberships(ctx context.Context, ms []engine.AssignmentMembership) error {
	return appendMemberships(ctx, t.tx, ms)
}
