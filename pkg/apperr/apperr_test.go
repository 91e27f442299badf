package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Validation(map[string]string{"name": "required"}), http.StatusUnprocessableEntity},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Error())
	}
}

func TestFromPassesThroughAppErrors(t *testing.T) {
	original := NotFound("user not found")
	assert.Same(t, original, From(original))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	e := From(errors.New("driver exploded"))
	assert.Equal(t, http.StatusInternalServerError, e.Status())
	assert.NotContains(t, e.Error(), "driver exploded")
}

func TestFromUnwrapsWrappedAppError(t *testing.T) {
	wrapped := Conflict("email already registered")
	e := From(wrapErr{wrapped})
	assert.Equal(t, http.StatusConflict, e.Status())
}

func TestIsKind(t *testing.T) {
	err := Conflict("duplicate")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestValidationCarriesFields(t *testing.T) {
	fields := map[string]string{"email": "The email field is required."}
	e := Validation(fields)
	assert.Equal(t, fields, e.Fields)
}

type wrapErr struct{ inner error }

func (w wrapErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w wrapErr) Unwrap() error { return w.inner }
