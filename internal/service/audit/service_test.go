package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/pkg/metrics"
	redisbroker "github.com/jwalitptl/hospital-admin/pkg/messaging/redis"
)

func fixedClock() time.Time {
	return time.Date(2024, 12, 31, 9, 30, 0, 0, time.UTC)
}

func TestRecordPublishesEvent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	m := metrics.New("hospital", prometheus.NewRegistry())
	svc := NewService(redisbroker.NewRedisBrokerFromClient(db, nil), "hospital.audit", nil, m)
	svc.now = fixedClock

	mock.Regexp().ExpectPublish("hospital.audit",
		`"entity":"Patient","action":"update","key":"12","old_key":"11","at":"2024-12-31T09:30:00Z"`).SetVal(1)

	event := svc.Record(context.Background(), schema.Patient, model.AuditActionUpdate, "12", "11")

	assert.Equal(t, "Patient", event.Entity)
	assert.Equal(t, "11", event.OldKey)
	assert.NotEmpty(t, event.ID.String())
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditPublished.WithLabelValues("success")))
}

func TestRecordSwallowsPublishFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	m := metrics.New("hospital", prometheus.NewRegistry())
	svc := NewService(redisbroker.NewRedisBrokerFromClient(db, nil), "hospital.audit", nil, m)

	mock.Regexp().ExpectPublish("hospital.audit", `"action":"delete"`).SetErr(errors.New("connection refused"))

	event := svc.Record(context.Background(), schema.Doctor, model.AuditActionDelete, "10", "10")

	assert.Equal(t, "10", event.Key)
	assert.Empty(t, event.OldKey)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditPublished.WithLabelValues("error")))
}

func TestRecordWithoutBroker(t *testing.T) {
	svc := NewService(nil, "", nil, nil)
	svc.now = fixedClock

	event := svc.Record(context.Background(), schema.Department, model.AuditActionCreate, "100", "")

	assert.Equal(t, fixedClock(), event.At)
	assert.Equal(t, "create", event.Action)
}
