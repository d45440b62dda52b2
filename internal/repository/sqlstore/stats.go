package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
	"github.com/jwalitptl/hospital-admin/pkg/validator"
)

type statsRepository struct {
	store *Store
}

func (r *statsRepository) Dashboard(ctx context.Context, day time.Time) (stats *model.DashboardStats, err error) {
	start := time.Now()
	defer func() { r.store.metrics.ObserveStore("Dashboard", "stats", start, err) }()

	query := r.store.dialect.Rebind(fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s) AS patients,
			(SELECT COUNT(*) FROM %s) AS doctors,
			(SELECT COUNT(*) FROM %s) AS departments,
			(SELECT COUNT(*) FROM %s WHERE %s = ?) AS appointments_today`,
		schema.Patient.Table,
		schema.Doctor.Table,
		schema.Department.Table,
		schema.Appointment.Table, schema.Appointment.MustColumn("A_DATE").Name(),
	))

	var out model.DashboardStats
	if err := r.store.db.GetContext(ctx, &out, query, day.Format(validator.DateLayout)); err != nil {
		return nil, apperrors.Store("error loading dashboard", err)
	}
	return &out, nil
}
