package store

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Kind is the storage class of a column, inferred from the Go value written to it.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindTime
)

// Dialect holds what differs between the supported SQL engines.
type Dialect interface {
	Name() string
	Quote(identifier string) string
	// ColumnType returns the column definition for a kind. Key columns take part in
	// primary or foreign keys and may need a bounded type.
	ColumnType(kind Kind, key bool) string
	// ColumnsQuery lists the column names of the table bound to its single placeholder.
	ColumnsQuery() string
	// OnConflict is appended to an INSERT to overwrite the row sharing the primary key.
	OnConflict(primaryKey string, columns []string) string
	InsertIgnore() string
}

// DialectFor returns the dialect of a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return SQLite{}, nil
	case "mysql":
		return MySQL{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func (SQLite) ColumnType(kind Kind, _ bool) string {
	switch kind {
	case KindInteger:
		return "INTEGER"
	case KindTime:
		return "TIMESTAMP"
	}
	return "TEXT"
}

func (SQLite) ColumnsQuery() string {
	return "SELECT name FROM pragma_table_info(?)"
}

func (d SQLite) OnConflict(primaryKey string, columns []string) string {
	var updates []string
	for _, column := range columns {
		if column == primaryKey {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", d.Quote(column), d.Quote(column)))
	}
	if len(updates) == 0 {
		return fmt.Sprintf("ON CONFLICT(%s) DO NOTHING", d.Quote(primaryKey))
	}
	return fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET %s", d.Quote(primaryKey), strings.Join(updates, ", "))
}

func (SQLite) InsertIgnore() string { return "INSERT OR IGNORE INTO" }

type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Quote(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

func (MySQL) ColumnType(kind Kind, key bool) string {
	switch kind {
	case KindInteger:
		return "BIGINT"
	case KindTime:
		return "DATETIME"
	}
	if key {
		return "VARCHAR(64)"
	}
	return "TEXT"
}

func (MySQL) ColumnsQuery() string {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
}

func (d MySQL) OnConflict(primaryKey string, columns []string) string {
	var updates []string
	for _, column := range columns {
		if column == primaryKey {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", d.Quote(column), d.Quote(column)))
	}
	if len(updates) == 0 {
		updates = append(updates, fmt.Sprintf("%s = %s", d.Quote(primaryKey), d.Quote(primaryKey)))
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
}

func (MySQL) InsertIgnore() string { return "INSERT IGNORE INTO" }
