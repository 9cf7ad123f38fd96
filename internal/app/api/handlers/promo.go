package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/app/service/promo"
)

// @Summary      Subscribe to a promo
// @Tags         Promo
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Promo keyword"
// @Success      200 {string} string "OK SUBSCRIBE"
// @Failure      402 {string} string "Insufficient balance"
// @Failure      403 {string} string "Too Many Subscriptions"
// @Failure      404 {string} string "Not Found"
// @Router       /api/promo/subscribe [post]
func ApiPromoSubscribe(svc *promo.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		keyword := c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		_, err := svc.Subscribe(c.Request.Context(), imsi, keyword)
		switch {
		case err == nil:
			c.String(http.StatusOK, "OK SUBSCRIBE")
		case errors.Is(err, promo.ErrNotFound):
			c.String(http.StatusNotFound, "Not Found")
		case errors.Is(err, promo.ErrTooManySubscriptions):
			c.String(http.StatusForbidden, "Too Many Subscriptions")
		case errors.Is(err, promo.ErrBadKeyword):
			c.String(http.StatusBadRequest, "Bad promo request")
		case errors.Is(err, promo.ErrInsufficientBalance):
			c.String(http.StatusPaymentRequired, "Insufficient balance")
		default:
			c.String(http.StatusInternalServerError, "Server Error")
		}
	}
}

// @Summary      Unsubscribe from a promo
// @Description  Removing nothing is not an error to the switch: the
// subscriber outcome is reported in the body.
// @Tags         Promo
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Promo keyword"
// @Success      200 {string} string "OK UNSUBSCRIBE or FAIL UNSUBSCRIBE"
// @Router       /api/promo/unsubscribe [post]
func ApiPromoUnsubscribe(svc *promo.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		keyword := c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		err := svc.Unsubscribe(c.Request.Context(), imsi, keyword)
		switch {
		case err == nil:
			c.String(http.StatusOK, "OK UNSUBSCRIBE")
		case errors.Is(err, promo.ErrNoSubscription):
			c.String(http.StatusOK, "FAIL UNSUBSCRIBE")
		default:
			c.String(http.StatusInternalServerError, "Server Error")
		}
	}
}

// @Summary      Promo status
// @Description  Sends the remaining-quota summary by SMS and echoes it.
// @Tags         Promo
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string false "Promo keyword; empty covers every subscription"
// @Success      200 {string} string
// @Router       /api/promo/status [post]
func ApiPromoStatus(svc *promo.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		keyword := c.PostForm("keyword")
		if imsi == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		msg, err := svc.Status(c.Request.Context(), imsi, keyword)
		switch {
		case err == nil:
			c.String(http.StatusOK, msg)
		case errors.Is(err, promo.ErrNotFound):
			c.String(http.StatusNotFound, "Not Found")
		case errors.Is(err, promo.ErrNoSubscription):
			c.String(http.StatusOK, "No active subscription.")
		default:
			c.String(http.StatusInternalServerError, "Server Error")
		}
	}
}

// @Summary      Promo info
// @Tags         Promo
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Requester IMSI"
// @Param        keyword formData string true "Promo keyword"
// @Success      200 {string} string
// @Router       /api/promo/info [post]
func ApiPromoInfo(svc *promo.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		keyword := c.PostForm("keyword")
		if keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		msg, err := svc.Info(c.Request.Context(), imsi, keyword)
		switch {
		case err == nil:
			c.String(http.StatusOK, msg)
		case errors.Is(err, promo.ErrBadKeyword):
			c.String(http.StatusBadRequest, "Bad promo request")
		default:
			c.String(http.StatusInternalServerError, "Server Error")
		}
	}
}

func RegisterPromoRoutes(r gin.IRouter, svc *promo.Service) {
	r.POST("/promo/subscribe", ApiPromoSubscribe(svc))
	r.POST("/promo/unsubscribe", ApiPromoUnsubscribe(svc))
	r.POST("/promo/status", ApiPromoStatus(svc))
	r.POST("/promo/info", ApiPromoInfo(svc))
}
