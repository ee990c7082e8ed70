package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	conflict := Conflict("stale")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)

	exists := AlreadyExists("exists")
	assert.Equal(t, CodeAlreadyExists, exists.Code)

	transition := InvalidTransition("released")
	assert.Equal(t, http.StatusUnprocessableEntity, transition.Status)
	assert.ErrorIs(t, transition, ErrInvalidTransition)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)
}

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("escrow: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{ErrAlreadyFunded, http.StatusConflict, CodeAlreadyFunded},
		{fmt.Errorf("save: %w", ErrConflict), http.StatusConflict, CodeConflict},
		{ErrInvalidTransition, http.StatusUnprocessableEntity, CodeInvalidTransition},
		{ErrDeadlinePassed, http.StatusUnprocessableEntity, CodeDeadlinePassed},
		{ErrKYCRequired, http.StatusForbidden, CodeKYCRequired},
		{ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{ErrTokenExpired, http.StatusUnauthorized, CodeUnauthorized},
		{ErrInvalidInput, http.StatusBadRequest, CodeBadRequest},
		{stderrors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		assert.Equal(t, tc.status, got.Status, tc.err.Error())
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
	}

	wrapped := fmt.Errorf("outer: %w", Forbidden("not yours"))
	got := FromError(wrapped)
	assert.Equal(t, http.StatusForbidden, got.Status)
	assert.Equal(t, "not yours", got.Message)
}
