package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Dialect carries the per-driver differences in the generated SQL.
type Dialect struct {
	Driver string
	// TextType is the CAST target used to search non-text columns.
	TextType string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
		return Dialect{Driver: driver, TextType: "TEXT"}, nil
	case DriverMySQL:
		return Dialect{Driver: driver, TextType: "CHAR"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Rebind rewrites ? placeholders into the driver's bindvar style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(sqlx.BindType(d.Driver), query)
}
