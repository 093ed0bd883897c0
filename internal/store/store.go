// Package store writes loosely shaped rows with overwrite-by-primary-key semantics.
// Tables, columns and join tables are created the first time a write needs them,
// so a new field in a record widens the schema instead of failing the write.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Row maps column names to values. Values are strings, integers, times or pointers to them;
// a nil pointer is stored as NULL.
type Row map[string]any

// ForeignKey declares that Column references the References column of Table.
type ForeignKey struct {
	Column     string
	Table      string
	References string
}

// Table describes the keys of an entity table.
type Table struct {
	Name        string
	PrimaryKey  string
	ForeignKeys []ForeignKey
}

func (t Table) isKey(column string) bool {
	if column == t.PrimaryKey {
		return true
	}
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return true
		}
	}
	return false
}

// Store is bound to either a database or a transaction. It caches the columns of the tables
// it has seen, so a Store must not outlive the transaction it was created for.
type Store struct {
	ext     sqlx.ExtContext
	dialect Dialect
	columns map[string]map[string]bool
}

// New returns a Store that reads rows into structs even when the table has more columns than the struct.
func New(ext sqlx.ExtContext, dialect Dialect) *Store {
	switch e := ext.(type) {
	case *sqlx.DB:
		ext = e.Unsafe()
	case *sqlx.Tx:
		ext = e.Unsafe()
	}
	return &Store{
		ext:     ext,
		dialect: dialect,
		columns: make(map[string]map[string]bool),
	}
}

// Columns returns the columns of a table. A table that does not exist has none.
func (s *Store) Columns(ctx context.Context, table string) (map[string]bool, error) {
	if columns, ok := s.columns[table]; ok {
		return columns, nil
	}
	var names []string
	if err := sqlx.SelectContext(ctx, s.ext, &names, s.dialect.ColumnsQuery(), table); err != nil {
		return nil, fmt.Errorf("sqlx.SelectContext(columns of %s) > %w", table, err)
	}
	columns := make(map[string]bool, len(names))
	for _, name := range names {
		columns[name] = true
	}
	if len(columns) > 0 {
		s.columns[table] = columns
	}
	return columns, nil
}

// Upsert writes rows into the table, overwriting any row with the same primary key.
// Every row is written with the union of the columns of all rows; absent values are NULL.
func (s *Store) Upsert(ctx context.Context, table Table, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}
	columns, kinds := shape(table, rows)
	if err := s.ensureTable(ctx, table, columns, kinds); err != nil {
		return err
	}

	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = s.dialect.Quote(column)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) %s",
		s.dialect.Quote(table.Name),
		strings.Join(quoted, ", "),
		strings.Join(columns, ", :"),
		s.dialect.OnConflict(table.PrimaryKey, columns),
	)
	for _, row := range rows {
		id, ok := row[table.PrimaryKey]
		if !ok {
			return fmt.Errorf("row of %s has no %s", table.Name, table.PrimaryKey)
		}
		args := make(map[string]any, len(columns))
		for _, column := range columns {
			args[column] = row[column]
		}
		if _, err := sqlx.NamedExecContext(ctx, s.ext, query, args); err != nil {
			return fmt.Errorf("upsert %s %v > %w", table.Name, id, err)
		}
	}
	return nil
}

// JoinTable returns the name and columns of the table relating rows of a and b.
// The name is independent of the argument order.
func JoinTable(a, b Table) (name, aColumn, bColumn string) {
	names := []string{a.Name, b.Name}
	sort.Strings(names)
	return names[0] + "_" + names[1], a.Name + "_id", b.Name + "_id"
}

// AttachMany writes the related rows into to and relates them to the row fromID of from.
// Relations the from row had before are replaced.
func (s *Store) AttachMany(ctx context.Context, from Table, fromID any, to Table, related []Row) error {
	if err := s.Upsert(ctx, to, related...); err != nil {
		return err
	}
	join, fromColumn, toColumn := JoinTable(from, to)
	if err := s.ensureJoinTable(ctx, join, from, to); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.dialect.Quote(join), s.dialect.Quote(fromColumn))
	if _, err := s.ext.ExecContext(ctx, query, fromID); err != nil {
		return fmt.Errorf("delete %s of %v > %w", join, fromID, err)
	}
	query = fmt.Sprintf("%s %s (%s, %s) VALUES (?, ?)",
		s.dialect.InsertIgnore(),
		s.dialect.Quote(join),
		s.dialect.Quote(fromColumn),
		s.dialect.Quote(toColumn),
	)
	for _, row := range related {
		if _, err := s.ext.ExecContext(ctx, query, fromID, row[to.PrimaryKey]); err != nil {
			return fmt.Errorf("insert %s (%v, %v) > %w", join, fromID, row[to.PrimaryKey], err)
		}
	}
	return nil
}

// Get loads the first row whose column equals value into dest.
// It reports false when there is no such row, column or table.
func (s *Store) Get(ctx context.Context, dest any, table, column string, value any) (bool, error) {
	columns, err := s.Columns(ctx, table)
	if err != nil {
		return false, err
	}
	if !columns[column] {
		return false, nil
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? LIMIT 1", s.dialect.Quote(table), s.dialect.Quote(column))
	err = sqlx.GetContext(ctx, s.ext, dest, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlx.GetContext(%s.%s) > %w", table, column, err)
	}
	return true, nil
}

// Select loads every row matching all equality conditions in where into dest, a pointer to a slice.
// Rows are ordered by the orderBy columns. A table that does not exist yields no rows.
func (s *Store) Select(ctx context.Context, dest any, table string, where Row, orderBy ...string) error {
	columns, err := s.Columns(ctx, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}

	query := "SELECT * FROM " + s.dialect.Quote(table)
	var conditions []string
	var args []any
	for _, column := range sortedKeys(where) {
		conditions = append(conditions, s.dialect.Quote(column)+" = ?")
		args = append(args, where[column])
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if len(orderBy) > 0 {
		quoted := make([]string, len(orderBy))
		for i, column := range orderBy {
			quoted[i] = s.dialect.Quote(column)
		}
		query += " ORDER BY " + strings.Join(quoted, ", ")
	}
	if err := sqlx.SelectContext(ctx, s.ext, dest, query, args...); err != nil {
		return fmt.Errorf("sqlx.SelectContext(%s) > %w", table, err)
	}
	return nil
}

func (s *Store) ensureTable(ctx context.Context, table Table, columns []string, kinds map[string]Kind) error {
	existing, err := s.Columns(ctx, table.Name)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return s.createTable(ctx, table, columns, kinds)
	}

	for _, column := range columns {
		if existing[column] {
			continue
		}
		statement := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			s.dialect.Quote(table.Name),
			s.dialect.Quote(column),
			s.dialect.ColumnType(kinds[column], table.isKey(column)),
		)
		if _, err := s.ext.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("add column %s.%s > %w", table.Name, column, err)
		}
		existing[column] = true
	}
	return nil
}

func (s *Store) createTable(ctx context.Context, table Table, columns []string, kinds map[string]Kind) error {
	definitions := make([]string, 0, len(columns)+len(table.ForeignKeys))
	for _, column := range columns {
		definition := s.dialect.Quote(column) + " " + s.dialect.ColumnType(kinds[column], table.isKey(column))
		if column == table.PrimaryKey {
			definition += " PRIMARY KEY"
		}
		definitions = append(definitions, definition)
	}
	for _, fk := range table.ForeignKeys {
		definitions = append(definitions, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			s.dialect.Quote(fk.Column), s.dialect.Quote(fk.Table), s.dialect.Quote(fk.References)))
	}

	statement := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", s.dialect.Quote(table.Name), strings.Join(definitions, ",\n\t"))
	if _, err := s.ext.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("create table %s > %w", table.Name, err)
	}
	created := make(map[string]bool, len(columns))
	for _, column := range columns {
		created[column] = true
	}
	s.columns[table.Name] = created
	return nil
}

func (s *Store) ensureJoinTable(ctx context.Context, join string, from, to Table) error {
	existing, err := s.Columns(ctx, join)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, fromColumn, toColumn := JoinTable(from, to)
	keyType := s.dialect.ColumnType(KindText, true)
	statement := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	%[2]s %[4]s NOT NULL,
	%[3]s %[4]s NOT NULL,
	PRIMARY KEY (%[2]s, %[3]s),
	FOREIGN KEY (%[2]s) REFERENCES %[5]s(%[6]s),
	FOREIGN KEY (%[3]s) REFERENCES %[7]s(%[8]s)
)`,
		s.dialect.Quote(join),
		s.dialect.Quote(fromColumn),
		s.dialect.Quote(toColumn),
		keyType,
		s.dialect.Quote(from.Name), s.dialect.Quote(from.PrimaryKey),
		s.dialect.Quote(to.Name), s.dialect.Quote(to.PrimaryKey),
	)
	if _, err := s.ext.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("create table %s > %w", join, err)
	}
	s.columns[join] = map[string]bool{fromColumn: true, toColumn: true}
	return nil
}

// shape returns the union of the columns of rows, primary key first and the rest sorted,
// together with the kind inferred for each column.
func shape(table Table, rows []Row) ([]string, map[string]Kind) {
	kinds := make(map[string]Kind)
	known := make(map[string]bool)
	for _, row := range rows {
		for column, value := range row {
			if known[column] {
				continue
			}
			kind, ok := kindOf(value)
			kinds[column] = kind
			if ok {
				known[column] = true
			}
		}
	}

	columns := make([]string, 0, len(kinds))
	for column := range kinds {
		if column != table.PrimaryKey {
			columns = append(columns, column)
		}
	}
	sort.Strings(columns)
	return append([]string{table.PrimaryKey}, columns...), kinds
}

func kindOf(value any) (Kind, bool) {
	switch value.(type) {
	case string, *string:
		return KindText, true
	case int, int32, int64, *int, *int32, *int64:
		return KindInteger, true
	case time.Time, *time.Time:
		return KindTime, true
	}
	return KindText, false
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
