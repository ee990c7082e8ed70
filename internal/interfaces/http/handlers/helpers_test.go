package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/interfaces/http/middleware"
	"escrow-broker.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	clientActor = entities.Actor{UserID: uuid.New(), Email: "client@escrow.io", Role: entities.UserRoleClient}
	adminActor  = entities.Actor{UserID: uuid.New(), Email: "admin@escrow.io", Role: entities.UserRoleAdmin}
)

// as stands in for the JWT middleware.
func as(a entities.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, a.UserID)
		c.Set(middleware.UserEmailKey, a.Email)
		c.Set(middleware.UserRoleKey, string(a.Role))
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func dataMap(t *testing.T, env response.Envelope) map[string]interface{} {
	t.Helper()
	m, ok := env.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", env.Data)
	return m
}

var errDBDown = errors.New("database unavailable")
