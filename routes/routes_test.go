package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"socialnet/handlers"
	"socialnet/middleware"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts.Logger = logger
	return SetupRouter(handlers.New(nil, okPinger{}, logger, time.Second), opts)
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouterBasics(t *testing.T) {
	r := newTestRouter(Options{Registry: prometheus.NewRegistry()})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)

	w := serve(r, http.MethodGet, "/mongo/nothing-here")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Endpoint not found")

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/mongo/users/not-an-id/summary").Code)

	w = serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "socialnet_http_requests_total")
}

func TestWriteRoutesRequireTokenWhenSecretSet(t *testing.T) {
	r := newTestRouter(Options{JWTSecret: "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/mongo/posts").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodDelete, "/mongo/users/abc/best-friends").Code)
	// Reads stay open.
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/mongo/users/abc/best-friends").Code)
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	r := newTestRouter(Options{RateLimiter: middleware.NewIPRateLimiter(1, time.Minute)})

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/mongo/users/x/summary").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/mongo/users/x/summary").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)
}
