package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBillingHandlers_MissingArgs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterBillingRoutes(r.Group("/api"), nil)

	// Field validation happens before the engine is touched
	paths := []string{
		"/api/transaction/type",
		"/api/promo/getminbal",
		"/api/promo/gettariff",
		"/api/promo/getsec",
		"/api/promo/deduct",
		"/api/billing/resolve",
	}
	for _, path := range paths {
		w := postForm(t, r, path, url.Values{})
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		require.Equal(t, "Missing Args", w.Body.String(), path)
	}
}

func TestServiceTypeHandler_RejectsUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterBillingRoutes(r.Group("/api"), nil)

	w := postForm(t, r, "/api/transaction/type", url.Values{
		"imsi":  {"001010000000001"},
		"trans": {"roaming_call"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Unknown transaction", w.Body.String())
}

func TestQuotaDeductHandler_RejectsBadAmount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterBillingRoutes(r.Group("/api"), nil)

	w := postForm(t, r, "/api/promo/deduct", url.Values{
		"imsi":   {"001010000000001"},
		"trans":  {"B_local_sms"},
		"amount": {"-1"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing Args", w.Body.String())
}
