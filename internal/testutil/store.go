package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/internal/config"
	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/repository/sqlstore"
	"github.com/jwalitptl/hospital-admin/internal/schema"
)

// NewStore opens a private in-memory SQLite store with the tables created.
// It is closed when the test ends.
func NewStore(t *testing.T, opts ...sqlstore.Option) *sqlstore.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DatabaseConfig{
		Driver: sqlstore.DriverSQLite,
		Path:   fmt.Sprintf("%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano()),
	}

	store, err := sqlstore.Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Seed inserts rows straight through the entity's repository.
func Seed(t *testing.T, store *sqlstore.Store, e *schema.Entity, rows ...model.Row) {
	t.Helper()
	for _, row := range rows {
		require.NoError(t, store.Table(e).Create(context.Background(), row))
	}
}

// Fixture rows shared by the store, panel and handler tests.
var (
	PatientDiana = model.Row{"1", "Diana", "Prince", "1990-05-17", "9876543210", "diana@example.com"}
	PatientRohan = model.Row{"2", "Rohan", "Mehta", "1985-11-02", "9123456789", ""}
	PatientPriya = model.Row{"3", "Priya", "Shah", "2001-01-30", "9988776655", "priya.shah@example.in"}
	PatientKarl  = model.Row{"4", "Karl", "Berg", "1979-08-09", "9000000001", ""}

	DoctorMeera = model.Row{"10", "Meera", "Iyer", "Cardiology", "9811122233", "meera@hospital.in"}
	DoctorJoe   = model.Row{"11", "Joe", "Ortiz", "Neurology", "9811122244", ""}

	DepartmentCardio = model.Row{"100", "Cardiology", "2", "9822233344"}
)

// SeedHospital loads the fixture patients, doctors and department.
func SeedHospital(t *testing.T, store *sqlstore.Store) {
	t.Helper()
	Seed(t, store, schema.Patient, PatientDiana, PatientRohan, PatientPriya, PatientKarl)
	Seed(t, store, schema.Doctor, DoctorMeera, DoctorJoe)
	Seed(t, store, schema.Department, DepartmentCardio)
}
