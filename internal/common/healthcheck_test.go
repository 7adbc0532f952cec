package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/khanghh/kattend/internal/config"
	"github.com/khanghh/kattend/internal/database"
	_ "github.com/khanghh/kattend/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, handler http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHealthCheckHandler(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Dsn: ":memory:"})
	require.NoError(t, err)
	handler := NewHealthCheckHandler(db, nil)

	status, _ := get(t, handler, "/livez")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(t, handler, "/readyz")
	assert.Equal(t, http.StatusOK, status)

	status, body := get(t, handler, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "kattend_tokens_issued_total")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	status, _ = get(t, handler, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHealthCheckHandler_RedisDown(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Dsn: ":memory:"})
	require.NoError(t, err)
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer rdb.Close()

	status, _ := get(t, NewHealthCheckHandler(db, rdb), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
