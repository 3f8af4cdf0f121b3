package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("extracts code from direct error", func(t *testing.T) {
		err := New(CodeForbidden, "no access")
		assert.Equal(t, CodeForbidden, CodeOf(err))
	})

	t.Run("extracts code through wrapping", func(t *testing.T) {
		inner := New(CodeNotFound, "case not found")
		err := fmt.Errorf("loading case: %w", inner)
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("unclassified errors collapse to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestHasCode(t *testing.T) {
	err := Wrap(CodeConflict, "case number taken", errors.New("unique_violation"))
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeConflict))
}

func TestMessageOf_HidesUnclassifiedDetail(t *testing.T) {
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection reset")))
	assert.Equal(t, "case not found", MessageOf(New(CodeNotFound, "case not found")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, CodeUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, CodeForbidden.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeConflict.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, CodeInvariantViolation.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
}
