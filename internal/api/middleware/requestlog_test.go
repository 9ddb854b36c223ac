package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveLogged(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, echo.Context, string) {
	t.Helper()

	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return rec, c, buf.String()
}

func TestRequestLog_MintsRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/ads/ads/", http.NoBody)
	rec, c, logged := serveLogged(t, req)

	assert.Contains(t, logged, "method=GET")
	assert.Contains(t, logged, "path=/api/ads/ads/")
	assert.Contains(t, logged, "status=200")
	assert.Contains(t, logged, "duration_ms=")

	respID := rec.Header().Get(requestIDHeader)
	_, err := uuid.Parse(respID)
	require.NoError(t, err, "minted request ID must be a UUID")
	assert.Equal(t, respID, c.Get(requestIDKey))
	assert.Contains(t, logged, "request_id="+respID)
}

func TestRequestLog_HonorsCallerRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/content/categories/", http.NoBody)
	req.Header.Set(requestIDHeader, "custom-req-id-123")
	rec, c, logged := serveLogged(t, req)

	assert.Equal(t, "custom-req-id-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "custom-req-id-123", c.Get(requestIDKey))
	assert.Contains(t, logged, "request_id=custom-req-id-123")
}
