package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-admin/internal/repository/sqlstore"
)

type fakeStore struct {
	err error
}

func (f fakeStore) Ping(context.Context) error { return f.err }

func (f fakeStore) Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{Driver: sqlstore.DriverSQLite, TextType: "TEXT"}
}

func probe(t *testing.T, store Store, path string) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestLive(t *testing.T) {
	code, body := probe(t, fakeStore{err: errors.New("down")}, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}

func TestReady(t *testing.T) {
	code, body := probe(t, fakeStore{}, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "sqlite3", body["driver"])

	code, body = probe(t, fakeStore{err: errors.New("connection refused")}, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "DOWN", body["status"])
	assert.Equal(t, "database unreachable: connection refused", body["reason"])
}
