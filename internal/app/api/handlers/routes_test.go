package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func routeSet(r *gin.Engine) map[string]bool {
	out := make(map[string]bool)
	for _, rt := range r.Routes() {
		out[rt.Method+" "+rt.Path] = true
	}
	return out
}

func TestRegisterBillingRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterBillingRoutes(r.Group("/api"), nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/transaction/type"])
	require.True(t, routes["POST /api/promo/getminbal"])
	require.True(t, routes["POST /api/promo/gettariff"])
	require.True(t, routes["POST /api/promo/getsec"])
	require.True(t, routes["POST /api/promo/deduct"])
	require.True(t, routes["POST /api/billing/resolve"])
}

func TestRegisterPromoRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPromoRoutes(r.Group("/api"), nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/promo/subscribe"])
	require.True(t, routes["POST /api/promo/unsubscribe"])
	require.True(t, routes["POST /api/promo/status"])
	require.True(t, routes["POST /api/promo/info"])
}

func TestRegisterServiceRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterServiceRoutes(r.Group("/api"), nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/service/subscribe"])
	require.True(t, routes["POST /api/service/unsubscribe"])
	require.True(t, routes["POST /api/service/status"])
	require.True(t, routes["POST /api/service/price"])
	require.True(t, routes["POST /api/service/event"])
	require.True(t, routes["POST /api/service/announce"])
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/admin/list_subscriptions"])
	require.True(t, routes["POST /api/v1/admin/list_promos"])
	require.True(t, routes["POST /api/v1/admin/create_promo"])
	require.True(t, routes["POST /api/v1/admin/update_promo"])
	require.True(t, routes["POST /api/v1/admin/delete_promo"])
	require.True(t, routes["POST /api/v1/admin/list_services"])
	require.True(t, routes["POST /api/v1/admin/create_service"])
	require.True(t, routes["POST /api/v1/admin/get_statistics"])
	require.True(t, routes["GET /api/v1/admin/config"])
	require.True(t, routes["POST /api/v1/admin/config"])
}

func TestRegisterReportAndContactRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterReportRoutes(r.Group("/api"), nil)
	RegisterContactRoutes(r.Group("/api"), nil, nil)
	RegisterHealthRoutes(r)

	routes := routeSet(r)
	require.True(t, routes["POST /api/report/submit"])
	require.True(t, routes["POST /api/contact/register"])
	require.True(t, routes["GET /healthz"])
}
