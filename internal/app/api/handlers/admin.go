package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/app/service/statistics"
	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/internal/store"
	"github.com/pcarivbts/vbts-billing/pkg/response"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

type ListResponse[T any] struct {
	Items []*T  `json:"items"`
	Total int64 `json:"total"`
}

// @Summary      List promo subscriptions (Admin)
// @Description  Paginated and filterable listing over live and expired subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body store.ScanRequest true "Filters, pagination, sorting"
// @Success      200 {object} handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := st.ScanSubscriptions(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListResponse[models.PromoSubscription]{Items: items, Total: total}))
	}
}

// @Summary      List promo definitions (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body store.ScanRequest true "Filters, pagination, sorting"
// @Success      200 {object} handlers.RespListPromos
// @Router       /api/v1/admin/list_promos [post]
func ApiListPromos(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := st.ScanPromos(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListResponse[models.Promo]{Items: items, Total: total}))
	}
}

type PromoRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Keyword     string            `json:"keyword"`
	Number      string            `json:"number"`
	Price       int64             `json:"price"`
	PromoType   types.PromoType   `json:"promo_type"`
	Allocation  models.Allocation `json:"allocation"`
	Validity    int               `json:"validity"`
}

func (r *PromoRequest) toModel() *models.Promo {
	validity := r.Validity
	if validity < 1 {
		validity = 1
	}
	number := r.Number
	if number == "" {
		number = "555"
	}
	return &models.Promo{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Keyword:     types.NormalizeKeyword(r.Keyword),
		Number:      number,
		Price:       r.Price,
		PromoType:   r.PromoType,
		Allocation:  r.Allocation,
		Validity:    validity,
	}
}

// @Summary      Create a promo (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body PromoRequest true "Promo definition"
// @Success      200 {object} handlers.RespPromo
// @Router       /api/v1/admin/create_promo [post]
func ApiCreatePromo(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PromoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Name == "" || req.Keyword == "" || !req.PromoType.Valid() || req.Price < 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid promo definition"))
			return
		}
		p := req.toModel()
		p.ID = tool.GenerateUUIDV7()
		if err := st.CreatePromo(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Update a promo (Admin)
// @Description  Edits the definition only; existing subscriptions keep
// their snapshot.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body PromoRequest true "Promo definition with id"
// @Success      200 {object} handlers.RespPromo
// @Router       /api/v1/admin/update_promo [post]
func ApiUpdatePromo(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PromoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" || !req.PromoType.Valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id or type"))
			return
		}
		existing, err := st.PromoByID(c.Request.Context(), req.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if existing == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "promo not found"))
			return
		}
		p := req.toModel()
		if err := st.UpdatePromo(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Delete a promo (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.DeletePromoRequest true "Promo id"
// @Success      200 {object} handlers.RespEmpty
// @Router       /api/v1/admin/delete_promo [post]
func ApiDeletePromo(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeletePromoRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if err := st.DeletePromo(c.Request.Context(), req.ID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type DeletePromoRequest struct {
	ID string `json:"id"`
}

// @Summary      List value-added services (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body store.ScanRequest true "Filters, pagination, sorting"
// @Success      200 {object} handlers.RespListServices
// @Router       /api/v1/admin/list_services [post]
func ApiListServices(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := st.ScanServices(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListResponse[models.Service]{Items: items, Total: total}))
	}
}

type ServiceRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Keyword     string              `json:"keyword"`
	Number      string              `json:"number"`
	Price       int64               `json:"price"`
	ServiceType types.ServiceType   `json:"service_type"`
	Status      types.ServiceStatus `json:"status"`
}

func (r *ServiceRequest) toModel() *models.Service {
	number := r.Number
	if number == "" {
		number = "555"
	}
	status := r.Status
	if status == "" {
		status = types.ServiceStatusUnpublished
	}
	return &models.Service{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Keyword:     types.NormalizeKeyword(r.Keyword),
		Number:      number,
		Price:       r.Price,
		ServiceType: r.ServiceType,
		Status:      status,
	}
}

func (r *ServiceRequest) valid() bool {
	if r.Name == "" || r.Keyword == "" || r.Price < 0 {
		return false
	}
	return r.ServiceType == types.ServiceTypePush || r.ServiceType == types.ServiceTypeInfo
}

// @Summary      Create a value-added service (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ServiceRequest true "Service definition"
// @Success      200 {object} handlers.RespService
// @Router       /api/v1/admin/create_service [post]
func ApiCreateService(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ServiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if !req.valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid service definition"))
			return
		}
		svc := req.toModel()
		svc.ID = tool.GenerateUUIDV7()
		if err := st.CreateService(c.Request.Context(), svc); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(svc))
	}
}

// @Summary      Update a value-added service (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ServiceRequest true "Service definition with id"
// @Success      200 {object} handlers.RespService
// @Router       /api/v1/admin/update_service [post]
func ApiUpdateService(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ServiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" || !req.valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id or invalid definition"))
			return
		}
		existing, err := st.ServiceByID(c.Request.Context(), req.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if existing == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "service not found"))
			return
		}
		svc := req.toModel()
		if err := st.UpdateService(c.Request.Context(), svc); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(svc))
	}
}

// @Summary      Delete a value-added service (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.DeleteServiceRequest true "Service id"
// @Success      200 {object} handlers.RespEmpty
// @Router       /api/v1/admin/delete_service [post]
func ApiDeleteService(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteServiceRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if err := st.DeleteService(c.Request.Context(), req.ID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type DeleteServiceRequest struct {
	ID string `json:"id"`
}

// @Summary      Get billing statistics (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Requested data items and filters"
// @Success      200 {object} handlers.RespStatistics
// @Router       /api/v1/admin/get_statistics [post]
func ApiGetStatistics(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := stats.GetStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List runtime config (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200 {object} handlers.RespConfigEntries
// @Router       /api/v1/admin/config [get]
func ApiListConfig(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := st.AllConfigEntries(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entries))
	}
}

type SetConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// @Summary      Set a runtime config value (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body SetConfigRequest true "Key and value"
// @Success      200 {object} handlers.RespEmpty
// @Router       /api/v1/admin/config [post]
func ApiSetConfig(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetConfigRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing key"))
			return
		}
		if err := st.UpsertConfigValue(c.Request.Context(), req.Key, req.Value); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List contacts (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body store.ScanRequest true "Filters, pagination, sorting"
// @Success      200 {object} handlers.RespListContacts
// @Router       /api/v1/admin/list_contacts [post]
func ApiListContacts(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := st.ScanContacts(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListResponse[models.Contact]{Items: items, Total: total}))
	}
}

// @Summary      List outbound SMS log (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body store.ScanRequest true "Filters, pagination, sorting"
// @Success      200 {object} handlers.RespListMessageLogs
// @Router       /api/v1/admin/list_message_logs [post]
func ApiListMessageLogs(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req store.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := st.ScanMessageLogs(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListResponse[models.MessageLog]{Items: items, Total: total}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, st *store.Store, stats *statistics.Service) {
	r.POST("/list_subscriptions", ApiListSubscriptions(st))
	r.POST("/list_promos", ApiListPromos(st))
	r.POST("/create_promo", ApiCreatePromo(st))
	r.POST("/update_promo", ApiUpdatePromo(st))
	r.POST("/delete_promo", ApiDeletePromo(st))
	r.POST("/list_services", ApiListServices(st))
	r.POST("/create_service", ApiCreateService(st))
	r.POST("/update_service", ApiUpdateService(st))
	r.POST("/delete_service", ApiDeleteService(st))
	r.POST("/get_statistics", ApiGetStatistics(stats))
	r.GET("/config", ApiListConfig(st))
	r.POST("/config", ApiSetConfig(st))
	r.POST("/list_contacts", ApiListContacts(st))
	r.POST("/list_message_logs", ApiListMessageLogs(st))
}
