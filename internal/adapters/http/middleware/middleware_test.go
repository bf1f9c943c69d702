package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
	}{
		{"request id", RequestID(), HeaderRequestID, GetRequestID, RequestIDFromContext},
		{"correlation id", CorrelationID(), HeaderCorrelationID, GetCorrelationID, CorrelationIDFromContext},
	}

	for _, tt := range tests {
		t.Run(tt.name+" generated", func(t *testing.T) {
			var fromGin, fromCtx string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/", func(c *gin.Context) {
				fromGin = tt.fromGin(c)
				fromCtx = tt.fromCtx(c.Request.Context())
			})

			w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

			_, err := uuid.Parse(fromGin)
			require.NoError(t, err)
			assert.Equal(t, fromGin, fromCtx)
			assert.Equal(t, fromGin, w.Header().Get(tt.header))
		})

		t.Run(tt.name+" propagated", func(t *testing.T) {
			var got string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/", func(c *gin.Context) { got = tt.fromGin(c) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, "upstream-1")

			w := serve(router, req)

			assert.Equal(t, "upstream-1", got)
			assert.Equal(t, "upstream-1", w.Header().Get(tt.header))
		})
	}
}

func TestIDsEnrichContextLogger(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(ContextLogger(slog.New(slog.NewJSONHandler(&buf, nil))), RequestID(), CorrelationID())
	router.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	serve(router, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
}

func TestRequireDevice(t *testing.T) {
	deviceUUID := uuid.NewString()

	tests := []struct {
		name       string
		cfg        DeviceConfig
		header     string
		value      string
		wantStatus int
	}{
		{name: "present", value: "device-1", header: DefaultDeviceHeader, wantStatus: http.StatusOK},
		{name: "missing", wantStatus: http.StatusBadRequest},
		{name: "too long", header: DefaultDeviceHeader, value: strings.Repeat("a", 200), wantStatus: http.StatusBadRequest},
		{
			name:       "uuid required and given",
			cfg:        DeviceConfig{RequireUUID: true},
			header:     DefaultDeviceHeader,
			value:      deviceUUID,
			wantStatus: http.StatusOK,
		},
		{
			name:       "uuid required but not given",
			cfg:        DeviceConfig{RequireUUID: true},
			header:     DefaultDeviceHeader,
			value:      "device-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "custom header",
			cfg:        DeviceConfig{Header: "X-Install-ID"},
			header:     "X-Install-ID",
			value:      "install-9",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromGin, fromCtx string

			router := gin.New()
			router.Use(RequireDevice(tt.cfg))
			router.GET("/", func(c *gin.Context) {
				fromGin = GetDeviceID(c)
				fromCtx = DeviceIDFromContext(c.Request.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			w := serve(router, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.value, fromGin)
				assert.Equal(t, tt.value, fromCtx)
				return
			}

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.ErrorCodeBadRequest, resp.Error.Code)
			assert.Empty(t, fromGin)
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		skipped   bool
	}{
		{name: "success", path: "/api/v1/quotes", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", path: "/api/v1/quotes", status: http.StatusBadRequest, wantLevel: "WARN"},
		{name: "server error", path: "/api/v1/quotes", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "probe", path: "/-/ready", status: http.StatusOK, skipped: true},
		{name: "skip path", path: "/favicon.ico", status: http.StatusOK, skipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(ContextLogger(slog.New(slog.NewJSONHandler(&buf, nil))), Logging("/favicon.ico"))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			serve(router, httptest.NewRequest(http.MethodGet, tt.path+"?feed=app", nil))

			if tt.skipped {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path, entry["route"])
			assert.Equal(t, "feed=app", entry["query"])
			assert.InDelta(t, tt.status, entry["status"], 0)
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(ContextLogger(slog.New(slog.NewJSONHandler(&buf, nil))), Recovery())
	router.GET("/panic", func(*gin.Context) { panic("slot registry corrupted") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrorCodeInternal)
	assert.NotContains(t, w.Body.String(), "slot registry corrupted")
	assert.Contains(t, buf.String(), "slot registry corrupted")
}

func TestTimeout(t *testing.T) {
	var deadline time.Time

	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/", func(c *gin.Context) { deadline, hasDeadline = c.Request.Context().Deadline() })

	serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestTimeout_Disabled(t *testing.T) {
	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(0))
	router.GET("/", func(c *gin.Context) { _, hasDeadline = c.Request.Context().Deadline() })

	serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, hasDeadline)
}

func TestContextIDs(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithDeviceID(ctx, "device-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
	assert.Equal(t, "device-1", DeviceIDFromContext(ctx))

	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, DeviceIDFromContext(context.Background()))
}
