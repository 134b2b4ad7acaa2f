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

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)

	custom := NewError("custom", ErrForbidden)
	assert.Equal(t, ErrForbidden.Error(), custom.Error())

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)
	assert.Equal(t, CodeUnauthorized, unauth.Code)

	internalMsg := InternalServerError("boom")
	assert.Equal(t, "boom", internalMsg.Error())
}

func TestFromVerificationError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrInvalidWalletFormat, http.StatusBadRequest, CodeInvalidWalletFormat},
		{ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
		{fmt.Errorf("verify: %w", ErrSessionExpired), http.StatusGone, CodeSessionExpired},
		{ErrSessionAlreadyCompleted, http.StatusConflict, CodeSessionAlreadyCompleted},
		{ErrInvalidSignature, http.StatusUnauthorized, CodeInvalidSignature},
		{ErrWalletMismatch, http.StatusBadRequest, CodeWalletMismatch},
		{ErrSourceUnavailable, http.StatusServiceUnavailable, CodeSourceUnavailable},
		{ErrSchedulerBusy, http.StatusConflict, CodeSchedulerBusy},
		{stderrors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tc := range cases {
		appErr := FromVerificationError(tc.err)
		assert.Equal(t, tc.status, appErr.Status, tc.err.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.err.Error())
		assert.NotEmpty(t, appErr.Message)
	}

	existing := Forbidden("nope")
	assert.Same(t, existing, FromVerificationError(existing))
	assert.ErrorIs(t, FromVerificationError(ErrSessionExpired), ErrSessionExpired)
}
