package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/pkg/metrics"
)

// Driver names a supported SQL backend.
type Driver string

// Supported drivers.
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const (
	defaultSQLiteDSN   = "file:partyrock.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	defaultPostgresDSN = "postgres://localhost:5432/partyrock?sslmode=disable"
)

var projectColumns = []string{
	"id", "title", "school", "description", "grade", "owner_id", "owner_name",
	"originality", "usefulness", "technology", "creativity",
	"created_at", "updated_at",
}

// Open opens a database for driver and ensures the schema exists.
// An empty dsn selects a local default.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// a single connection keeps in-memory databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	stmts := schemaSQLite
	if driver == DriverPostgres {
		stmts = schemaPostgres
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS projects (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  school TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  grade TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL,
  owner_name TEXT NOT NULL DEFAULT '',
  originality INTEGER,
  usefulness INTEGER,
  technology INTEGER,
  creativity INTEGER,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS projects (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  school TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  grade TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL,
  owner_name TEXT NOT NULL DEFAULT '',
  originality INTEGER,
  usefulness INTEGER,
  technology INTEGER,
  creativity INTEGER,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,
}

// SQLStore persists projects in a SQL database. Rows keep insertion order
// through an auto-incrementing sequence column.
type SQLStore struct {
	db   *sql.DB
	sb   sq.StatementBuilderType
	opts storeOptions
}

// NewSQLStore wraps an opened database. The driver selects the placeholder style.
func NewSQLStore(db *sql.DB, driver Driver, opts ...Option) *SQLStore {
	var ph sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		ph = sq.Dollar
	}
	s := &SQLStore{
		db:   db,
		sb:   sq.StatementBuilder.PlaceholderFormat(ph),
		opts: defaultStoreOptions(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) selectProjects() sq.SelectBuilder {
	return s.sb.Select(projectColumns...).From("projects").OrderBy("seq")
}

// List returns every project in insertion order.
func (s *SQLStore) List(ctx context.Context) ([]model.Project, error) {
	defer observe("list", time.Now())
	return s.query(ctx, "list", s.selectProjects())
}

// ListByOwner returns the projects created by ownerID.
func (s *SQLStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	defer observe("list_by_owner", time.Now())
	return s.query(ctx, "list_by_owner", s.selectProjects().Where(sq.Eq{"owner_id": ownerID}))
}

// Get returns one project by id.
func (s *SQLStore) Get(ctx context.Context, id string) (model.Project, error) {
	defer observe("get", time.Now())
	projects, err := s.query(ctx, "get", s.selectProjects().Where(sq.Eq{"id": id}))
	if err != nil {
		return model.Project{}, err
	}
	if len(projects) == 0 {
		metrics.RecordStoreError("get")
		return model.Project{}, ErrNotFound
	}
	return projects[0], nil
}

// Add inserts a new unscored project.
func (s *SQLStore) Add(ctx context.Context, np model.NewProject) (model.Project, error) {
	defer observe("add", time.Now())
	now := s.opts.now()
	p := model.Project{
		ID:          s.opts.newID(),
		Title:       np.Title,
		School:      np.School,
		Description: np.Description,
		Grade:       np.Grade,
		OwnerID:     np.OwnerID,
		OwnerName:   np.OwnerName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	query, args, err := s.sb.Insert("projects").
		Columns("id", "title", "school", "description", "grade", "owner_id", "owner_name", "created_at", "updated_at").
		Values(p.ID, p.Title, p.School, p.Description, string(p.Grade), p.OwnerID, p.OwnerName,
			now.UnixNano(), now.UnixNano()).
		ToSql()
	if err != nil {
		return model.Project{}, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		metrics.RecordStoreError("add")
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// UpdateScores replaces the scores of a project.
func (s *SQLStore) UpdateScores(ctx context.Context, id string, sc model.Scores) (model.Project, error) {
	defer observe("update_scores", time.Now())
	query, args, err := s.sb.Update("projects").
		Set("originality", sc.Originality).
		Set("usefulness", sc.Usefulness).
		Set("technology", sc.Technology).
		Set("creativity", sc.Creativity).
		Set("updated_at", s.opts.now().UnixNano()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Project{}, err
	}
	if err := s.execOne(ctx, "update_scores", query, args); err != nil {
		return model.Project{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a project.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	query, args, err := s.sb.Delete("projects").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, "delete", query, args)
}

// Count returns the number of stored projects.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From("projects").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		metrics.RecordStoreError("count")
		return 0, err
	}
	return n, nil
}

// execOne runs a statement that must touch exactly one row.
func (s *SQLStore) execOne(ctx context.Context, op, query string, args []interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreError(op)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		metrics.RecordStoreError(op)
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) query(ctx context.Context, op string, b sq.SelectBuilder) ([]model.Project, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			metrics.RecordStoreError(op)
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError(op)
		return nil, err
	}
	return out, nil
}

func scanProject(rows *sql.Rows) (model.Project, error) {
	var (
		p                model.Project
		grade            string
		o, u, t, c       sql.NullInt64
		created, updated int64
	)
	if err := rows.Scan(&p.ID, &p.Title, &p.School, &p.Description, &grade, &p.OwnerID, &p.OwnerName,
		&o, &u, &t, &c, &created, &updated); err != nil {
		return model.Project{}, err
	}
	p.Grade = model.Grade(grade)
	if o.Valid && u.Valid && t.Valid && c.Valid {
		p.Scores = &model.Scores{
			Originality: int(o.Int64),
			Usefulness:  int(u.Int64),
			Technology:  int(t.Int64),
			Creativity:  int(c.Int64),
		}
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return p, nil
}
