package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"FinCast/internal/domain/repository"
	"FinCast/internal/statement"
	pkgdb "FinCast/pkg/db"
	applogger "FinCast/pkg/logger"
)

// identPattern is the only shape of table and column names accepted for
// interpolation. Values never go through it; they are always bound as
// query parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// SQLRecordStore implements RecordStore on database/sql. SQLite and
// ClickHouse differ only in DDL and in the update statement shape, so the
// driver is branched on in exactly those two places.
type SQLRecordStore struct {
	db     *sql.DB
	driver string
	l      *applogger.Logger
}

// NewSQLRecordStore creates a record store over an opened client.
func NewSQLRecordStore(client *pkgdb.Client) *SQLRecordStore {
	return &SQLRecordStore{db: client.DB(), driver: client.Driver()}
}

// SetLogger injects a structured logger.
func (s *SQLRecordStore) SetLogger(l *applogger.Logger) { s.l = l }

// InitSchema creates the statement tables when missing.
func (s *SQLRecordStore) InitSchema(ctx context.Context, schemas ...*statement.Schema) error {
	for _, schema := range schemas {
		ddl, err := s.createTableDDL(schema)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", schema.Table, err)
		}
	}
	return nil
}

func (s *SQLRecordStore) createTableDDL(schema *statement.Schema) (string, error) {
	if err := checkIdent(schema.Table); err != nil {
		return "", err
	}
	cols := make([]string, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		if err := checkIdent(c.Key); err != nil {
			return "", err
		}
		if s.driver == pkgdb.DriverClickHouse {
			cols = append(cols, fmt.Sprintf("%s String", c.Key))
		} else {
			cols = append(cols, fmt.Sprintf("%s %s", c.Key, c.Spec))
		}
	}
	if s.driver == pkgdb.DriverClickHouse {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree ORDER BY ticker",
			schema.Table, strings.Join(cols, ", ")), nil
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		schema.Table, strings.Join(cols, ", ")), nil
}

func (s *SQLRecordStore) FindByKey(ctx context.Context, collection, column, key string) ([]repository.Record, error) {
	start := time.Now()
	if err := checkIdent(collection); err != nil {
		return nil, err
	}
	if err := checkIdent(column); err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", collection, column)
	rows, err := s.db.QueryContext(ctx, q, key)
	if err != nil {
		if s.l != nil {
			s.l.Error("record find query error",
				applogger.String("table", collection),
				applogger.String("column", column),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("find %s by %s: %w", collection, column, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", collection, err)
	}

	var out []repository.Record
	for rows.Next() {
		rec := make(repository.Record, len(cols))
		dest := make([]any, len(cols))
		for i := range rec {
			dest[i] = &rec[i]
		}
		if err := rows.Scan(dest...); err != nil {
			if s.l != nil {
				s.l.Error("record scan error",
					applogger.String("table", collection),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan %s record: %w", collection, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("record find ok",
			applogger.String("table", collection),
			applogger.String("column", column),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *SQLRecordStore) Insert(ctx context.Context, collection string, rec repository.Record) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	placeholders := make([]string, len(rec))
	args := make([]any, len(rec))
	for i, field := range rec {
		placeholders[i] = "?"
		args[i] = field
	}
	q := fmt.Sprintf("INSERT INTO %s VALUES (%s)", collection, strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("record insert error",
				applogger.String("table", collection),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (s *SQLRecordStore) UpdateByKey(ctx context.Context, collection, column, key string, sets []repository.ColumnValue) error {
	if err := checkIdent(collection); err != nil {
		return err
	}
	if err := checkIdent(column); err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}

	assigns := make([]string, len(sets))
	args := make([]any, 0, len(sets)+1)
	for i, set := range sets {
		if err := checkIdent(set.Column); err != nil {
			return err
		}
		assigns[i] = fmt.Sprintf("%s = ?", set.Column)
		args = append(args, set.Value)
	}
	args = append(args, key)

	// ClickHouse has no standard UPDATE; mutations go through ALTER TABLE.
	var q string
	if s.driver == pkgdb.DriverClickHouse {
		q = fmt.Sprintf("ALTER TABLE %s UPDATE %s WHERE %s = ?", collection, strings.Join(assigns, ", "), column)
	} else {
		q = fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", collection, strings.Join(assigns, ", "), column)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("record update error",
				applogger.String("table", collection),
				applogger.String("column", column),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("update %s by %s: %w", collection, column, err)
	}
	return nil
}
