package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestAppErrorKindsAndStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		kind   Kind
		status int
		code   codes.Code
	}{
		{BadRequest("bad"), KindBadRequest, http.StatusBadRequest, codes.InvalidArgument},
		{Conflict("conflict"), KindConflict, http.StatusConflict, codes.AlreadyExists},
		{NotFound("missing"), KindNotFound, http.StatusNotFound, codes.NotFound},
		{Unprocessable("invalid"), KindUnprocessableEntity, http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("boom"), KindInternal, http.StatusInternalServerError, codes.Internal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.err.Kind())
		assert.Equal(t, tc.status, tc.err.StatusCode())
		assert.Equal(t, tc.code, tc.err.GRPCCode())
	}
}

func TestAppErrorCauseAndDetails(t *testing.T) {
	cause := errors.New("underlying")
	err := Unprocessable("insufficient inventory",
		WithCause(cause),
		WithDetail("product_id", int64(2)),
	)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insufficient inventory: underlying", err.Error())
	assert.Equal(t, int64(2), err.Details()["product_id"])
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("placing order: %w", Conflict("order cannot be placed"))

	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestFrom(t *testing.T) {
	appErr := NotFound("missing")
	require.Same(t, appErr, From(appErr))

	wrapped := From(errors.New("plain"))
	assert.Equal(t, KindInternal, wrapped.Kind())

	assert.Nil(t, From(nil))
}
