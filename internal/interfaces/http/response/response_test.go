package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newContext()

	Success(c, http.StatusOK, gin.H{"ok": true})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"ok": true}, body["data"])
}

func TestSuccessMessageAndPaginated(t *testing.T) {
	c, w := newContext()
	SuccessMessage(c, http.StatusCreated, "created", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", decode(t, w)["message"])

	c, w = newContext()
	Paginated(c, []int{1, 2}, 12, utils.GetPaginationParams(2, 5))
	data := decode(t, w)["data"].(map[string]interface{})
	meta := data["meta"].(map[string]interface{})
	assert.Len(t, data["items"], 2)
	assert.EqualValues(t, 12, meta["totalCount"])
	assert.EqualValues(t, 3, meta["totalPages"])
}

func TestError_AppError(t *testing.T) {
	c, w := newContext()

	Error(c, domainerrors.NotFound("missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, domainerrors.CodeNotFound, body["code"])
	assert.Equal(t, "missing", body["message"])
}

func TestError_WrappedSentinel(t *testing.T) {
	c, w := newContext()

	Error(c, fmt.Errorf("fund: %w", domainerrors.ErrAlreadyFunded))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domainerrors.CodeAlreadyFunded, decode(t, w)["code"])
}

func TestError_GenericErrorHidesDetail(t *testing.T) {
	ExposeErrorDetails(false)
	c, w := newContext()

	Error(c, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, domainerrors.CodeInternalError, body["code"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestError_DevelopmentExposesDetail(t *testing.T) {
	ExposeErrorDetails(true)
	t.Cleanup(func() { ExposeErrorDetails(false) })
	c, w := newContext()

	Error(c, errors.New("pq: connection refused"))
	assert.Equal(t, "pq: connection refused", decode(t, w)["error"])
}

func TestAbort(t *testing.T) {
	c, w := newContext()
	Abort(c, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "slow down")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
