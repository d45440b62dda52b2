package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/internal/config"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "100!%", escapeLike("100%"))
	assert.Equal(t, "a!_b", escapeLike("a_b"))
	assert.Equal(t, "hey!!", escapeLike("hey!"))
	assert.Equal(t, "an", escapeLike("an"))
}

func TestFormatValue(t *testing.T) {
	day := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-12-31", formatValue(schema.KindDate, day))
	assert.Equal(t, "09:30", formatValue(schema.KindTime, clock))
	assert.Equal(t, "09:30", formatValue(schema.KindTime, []byte("09:30:00")))
	assert.Equal(t, "2024-12-31", formatValue(schema.KindDate, "2024-12-31T00:00:00Z"))
	assert.Equal(t, "7", formatValue(schema.KindInt, int64(7)))
	assert.Equal(t, "", formatValue(schema.KindText, nil))
	assert.Equal(t, "Diana", formatValue(schema.KindText, []byte("Diana")))
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, "CHAR", d.TextType)
	assert.Equal(t, "SELECT 1 WHERE a = ?", d.Rebind("SELECT 1 WHERE a = ?"))

	d, err = DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "TEXT", d.TextType)
	assert.Equal(t, "UPDATE T SET a = $1 WHERE b = $2", d.Rebind("UPDATE T SET a = ? WHERE b = ?"))

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:hospital.db?_foreign_keys=on",
		DSN(config.DatabaseConfig{Driver: "sqlite3", Path: "hospital.db"}))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on",
		DSN(config.DatabaseConfig{Driver: "sqlite3", Path: "x?mode=memory"}))

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=hospital sslmode=disable",
		DSN(config.DatabaseConfig{Driver: "postgres", Host: "db", User: "u", Password: "p", Name: "hospital", SSLMode: "disable"}))

	mysqlDSN := DSN(config.DatabaseConfig{Driver: "mysql", Host: "db", User: "root", Password: "pw", Name: "hospital"})
	parsed, err := mysql.ParseDSN(mysqlDSN)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "hospital", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}

func TestStoreErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"pq unique", &pq.Error{Code: "23505"}, apperrors.ErrDuplicate},
		{"pq fk", &pq.Error{Code: "23503"}, apperrors.ErrConstraint},
		{"pq other", &pq.Error{Code: "08006"}, apperrors.ErrStore},
		{"mysql dup", &mysql.MySQLError{Number: 1062}, apperrors.ErrDuplicate},
		{"mysql fk child", &mysql.MySQLError{Number: 1452}, apperrors.ErrConstraint},
		{"mysql fk parent", &mysql.MySQLError{Number: 1451}, apperrors.ErrConstraint},
		{"sqlite pk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, apperrors.ErrDuplicate},
		{"sqlite fk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, apperrors.ErrConstraint},
		{"plain", errors.New("connection reset"), apperrors.ErrStore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := storeError(schema.Patient, opCreate, tc.err)
			assert.Equal(t, tc.want, apperrors.CodeOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	nf := apperrors.NotFound("Patient 1", nil)
	assert.Same(t, nf, storeError(schema.Patient, opDelete, nf))
	assert.Equal(t, "error adding patient: connection reset",
		storeError(schema.Patient, opCreate, errors.New("connection reset")).Error())
}

func TestInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   "tx_rollback?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	insert := store.dialect.Rebind("INSERT INTO DEPT (DepID, D_NAME, FLOOR, TELEPHONE) VALUES (?, ?, ?, ?)")
	boom := errors.New("boom")

	err = store.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insert, 1, "Radiology", 3, "9822233344"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = store.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, insert, 2, "Oncology", 4, "9822233345"); err != nil {
				return err
			}
			panic("half way")
		})
	})

	var n int
	require.NoError(t, store.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM DEPT"))
	assert.Zero(t, n)
}
