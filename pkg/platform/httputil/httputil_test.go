package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gavel/pkg/domain-errors"
)

type echoRequest struct {
	Name string `json:"name"`
}

func (r *echoRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("decodes and validates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))

		parsed, ok := DecodeAndPrepare[echoRequest](rec, req, testLogger(), context.Background(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "ok", parsed.Name)
	})

	t.Run("empty body returns bad_request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		_, ok := DecodeAndPrepare[echoRequest](rec, req, testLogger(), context.Background(), "req-2")
		require.False(t, ok)
		assert.Equal(t, 400, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(dErrors.CodeBadRequest), body.Error)
	})

	t.Run("malformed JSON returns bad_request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		_, ok := DecodeAndPrepare[echoRequest](rec, req, testLogger(), context.Background(), "req-3")
		require.False(t, ok)
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("validation failure writes coded error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"  "}`))

		_, ok := DecodeAndPrepare[echoRequest](rec, req, testLogger(), context.Background(), "req-4")
		require.False(t, ok)
		assert.Equal(t, 400, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(dErrors.CodeValidation), body.Error)
		assert.Equal(t, "name is required", body.ErrorDescription)
	})
}

func TestWriteError(t *testing.T) {
	t.Run("maps domain codes to status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, dErrors.New(dErrors.CodeForbidden, "judge role required"))
		assert.Equal(t, 403, rec.Code)
	})

	t.Run("hides unclassified errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("pq: duplicate key"))
		assert.Equal(t, 500, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:")
	})
}
