package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/pkg/circuitbreaker"
)

type event struct {
	Entity string `json:"entity"`
	Key    string `json:"key"`
}

func TestPublishMarshalsJSON(t *testing.T) {
	db, mock := redismock.NewClientMock()
	broker := NewRedisBrokerFromClient(db, nil)

	mock.ExpectPublish("hospital.audit", `{"entity":"Patient","key":"1"}`).SetVal(1)

	err := broker.Publish(context.Background(), "hospital.audit", event{Entity: "Patient", Key: "1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishErrorOpensBreaker(t *testing.T) {
	db, mock := redismock.NewClientMock()
	broker := NewRedisBrokerFromClient(db, nil)

	for i := 0; i < 5; i++ {
		mock.ExpectPublish("hospital.audit", `{"entity":"Doctor","key":"2"}`).SetErr(errors.New("connection refused"))
	}

	for i := 0; i < 5; i++ {
		err := broker.Publish(context.Background(), "hospital.audit", event{Entity: "Doctor", Key: "2"})
		assert.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, broker.cb.State())

	err := broker.Publish(context.Background(), "hospital.audit", event{Entity: "Doctor", Key: "2"})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishRejectsUnmarshalable(t *testing.T) {
	db, _ := redismock.NewClientMock()
	broker := NewRedisBrokerFromClient(db, nil)

	err := broker.Publish(context.Background(), "c", make(chan int))
	assert.Error(t, err)
}
