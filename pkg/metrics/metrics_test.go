package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestComputeApproximateRequestSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/promo/subscribe",
		strings.NewReader("imsi=001010000000001&keyword=SAKTO10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	size := computeApproximateRequestSize(req)

	// Path + method + proto + header + host + body all count
	min := len(req.URL.Path) + len(req.Method) + int(req.ContentLength)
	require.GreaterOrEqual(t, size, min)
}

func TestMillisecondsSince(t *testing.T) {
	require.InDelta(t, 250.0, MillisecondsSince(time.Now().Add(-250*time.Millisecond)), 100.0)
	require.GreaterOrEqual(t, MillisecondsSince(time.Now()), 0.0)
}

func TestPrometheusHandler_ServesExposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", prometheusHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}
