package panel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/internal/service/panel"
	"github.com/jwalitptl/hospital-admin/internal/testutil"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

type recorded struct {
	entity, action, key, oldKey string
}

type fakeRecorder struct {
	events []recorded
}

func (f *fakeRecorder) Record(_ context.Context, e *schema.Entity, action, key, oldKey string) model.AuditEvent {
	f.events = append(f.events, recorded{e.Name, action, key, oldKey})
	return model.AuditEvent{Entity: e.Name, Action: action, Key: key, OldKey: oldKey}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	store := testutil.NewStore(t)
	svc := panel.NewService(store, schema.Patient, nil, nil)

	_, err := svc.Validate(model.Row{"0", "John3", "", "31-12-2024", "12345", "not-an-email"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Len(t, appErr.Details, 6)
	assert.Contains(t, appErr.Details, "Last Name is required")
	assert.Contains(t, appErr.Details, "Patient ID must be a positive number")
}

func TestValidateCanonicalizes(t *testing.T) {
	store := testutil.NewStore(t)
	svc := panel.NewService(store, schema.Patient, nil, nil)

	row, err := svc.Validate(model.Row{" 07 ", " John Smith ", "Doe", "2024-12-31", "+91-9876543210", ""})
	require.NoError(t, err)
	assert.Equal(t, model.Row{"7", "John Smith", "Doe", "2024-12-31", "9876543210", ""}, row)
}

func TestCreateDuplicateKeyLeavesStoreUntouched(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedHospital(t, store)
	rec := &fakeRecorder{}
	svc := panel.NewService(store, schema.Patient, rec, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Row{"1", "Other", "Person", "2000-01-01", "9000000000", ""})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))
	assert.Equal(t, "Patient ID already exists", err.Error())

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.PatientDiana, rows[0])
	assert.Empty(t, rec.events)
}

func TestCreateDuplicateKeyForEveryEntity(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedHospital(t, store)
	svc := panel.NewService(store, schema.Department, nil, nil)

	_, err := svc.Create(context.Background(), model.Row{"100", "Surgery", "3", "9822233345"})
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))
}

func TestCreateAppointmentChecksReferences(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedHospital(t, store)
	rec := &fakeRecorder{}
	svc := panel.NewService(store, schema.Appointment, rec, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Row{"500", "99", "10", "2024-12-31", "09:30", "100"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "Patient ID not found", err.Error())

	_, err = svc.Create(ctx, model.Row{"500", "1", "77", "2024-12-31", "09:30", "100"})
	assert.Equal(t, "Doctor ID not found", err.Error())

	_, err = svc.Create(ctx, model.Row{"500", "1", "10", "2024-12-31", "09:30", "7"})
	assert.Equal(t, "Department ID not found", err.Error())

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rec.events)

	row, err := svc.Create(ctx, model.Row{"500", "1", "10", "2024-12-31", "09:30", "100"})
	require.NoError(t, err)
	assert.Equal(t, "500", row.Key())
	assert.Equal(t, []recorded{{"Appointment", "create", "500", ""}}, rec.events)
}

func TestUpdateRenameChecksNewKey(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedHospital(t, store)
	rec := &fakeRecorder{}
	svc := panel.NewService(store, schema.Patient, rec, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, "2", model.Row{"1", "Rohan", "Mehta", "1985-11-02", "9123456789", ""})
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))

	_, err = svc.Update(ctx, "2", model.Row{"20", "Rohan", "Mehta", "1985-11-02", "9123456789", "rohan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []recorded{{"Patient", "update", "20", "2"}}, rec.events)

	rows, err := svc.Search(ctx, "pid", "20")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "rohan@example.com", rows[0][5])
}

func TestSearchRequiresColumnAndTerm(t *testing.T) {
	store := testutil.NewStore(t)
	svc := panel.NewService(store, schema.Doctor, nil, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, "", "an")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	_, err = svc.Search(ctx, "F_NAME", "  ")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	_, err = svc.Search(ctx, "F_NAME; DROP TABLE DOCTOR", "an")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestFormFromFields(t *testing.T) {
	store := testutil.NewStore(t)
	svc := panel.NewService(store, schema.Department, nil, nil)

	form, err := svc.FormFromFields(map[string]string{"depid": "5", "D_NAME": "Radiology"})
	require.NoError(t, err)
	assert.Equal(t, model.Row{"5", "Radiology", "", ""}, form)

	_, err = svc.FormFromFields(map[string]string{"BUDGET": "1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	assert.Equal(t, map[string]string{"DepID": "5", "D_NAME": "Radiology", "FLOOR": "", "TELEPHONE": ""},
		svc.FieldsFromRow(form))
}

func TestNewServices(t *testing.T) {
	store := testutil.NewStore(t)
	services := panel.NewServices(store, nil, nil)
	assert.Len(t, services, 5)
	assert.Same(t, schema.MedicalRecord, services["medical-records"].Entity())
}
