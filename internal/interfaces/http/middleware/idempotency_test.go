package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"escrow-broker.backend/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := redis.GetClient()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		redis.SetClient(prev)
		_ = client.Close()
	})
	return mr
}

func idempotentRouter(status *int, calls *int) *gin.Engine {
	r := gin.New()
	r.POST("/fund", IdempotencyMiddleware(), func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"call": *calls})
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/fund", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	useMiniredis(t)
	status, calls := http.StatusCreated, 0
	r := idempotentRouter(&status, &calls)

	first := postWithKey(r, "k1")
	second := postWithKey(r, "k1")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyHitHeader))

	postWithKey(r, "k2")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_FailedRequestCanBeRetried(t *testing.T) {
	mr := useMiniredis(t)
	status, calls := http.StatusBadRequest, 0
	r := idempotentRouter(&status, &calls)

	postWithKey(r, "k1")
	postWithKey(r, "k1")

	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestIdempotency_InProgressConflict(t *testing.T) {
	mr := useMiniredis(t)
	status, calls := http.StatusOK, 0
	r := idempotentRouter(&status, &calls)

	require.NoError(t, mr.Set("idempotency:"+uuid.Nil.String()+":/fund:busy", processingMarker))
	rec := postWithKey(r, "busy")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, calls)
}

func TestIdempotency_WithoutKeyOrRedis(t *testing.T) {
	prev := redis.GetClient()
	redis.SetClient(nil)
	t.Cleanup(func() { redis.SetClient(prev) })

	status, calls := http.StatusOK, 0
	r := idempotentRouter(&status, &calls)

	postWithKey(r, "")
	postWithKey(r, "k1")
	postWithKey(r, "k1")
	assert.Equal(t, 3, calls)

	rec := postWithKey(r, strings.Repeat("x", 300))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdempotency_LockErrorRunsHandler(t *testing.T) {
	origGet, origSetNX := redisGet, redisSetNX
	t.Cleanup(func() { redisGet, redisSetNX = origGet, origSetNX })
	redisGet = func(context.Context, string) (string, error) { return "", goredis.Nil }
	redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) {
		return false, errors.New("connection reset")
	}

	status, calls := http.StatusOK, 0
	r := idempotentRouter(&status, &calls)
	rec := postWithKey(r, "k1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}
