package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/app/service/vas"
)

func vasError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vas.ErrNotFound):
		c.String(http.StatusNotFound, "Not Found")
	case errors.Is(err, vas.ErrBadKeyword):
		c.String(http.StatusBadRequest, "Bad service request")
	case errors.Is(err, vas.ErrAlreadySubscribed):
		c.String(http.StatusOK, "FAIL SUBSCRIBE")
	case errors.Is(err, vas.ErrNoSubscription):
		c.String(http.StatusOK, "FAIL UNSUBSCRIBE")
	case errors.Is(err, vas.ErrNotManager):
		c.String(http.StatusForbidden, "Not a manager")
	case errors.Is(err, vas.ErrInsufficientBalance):
		c.String(http.StatusPaymentRequired, "Insufficient balance")
	default:
		c.String(http.StatusInternalServerError, "Server Error")
	}
}

// @Summary      Subscribe to a value-added service
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Service keyword"
// @Success      200 {string} string "OK SUBSCRIBE"
// @Router       /api/service/subscribe [post]
func ApiServiceSubscribe(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword := c.PostForm("imsi"), c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		if err := svc.Subscribe(c.Request.Context(), imsi, keyword); err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, "OK SUBSCRIBE")
	}
}

// @Summary      Unsubscribe from a value-added service
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Service keyword"
// @Success      200 {string} string "OK UNSUBSCRIBE"
// @Router       /api/service/unsubscribe [post]
func ApiServiceUnsubscribe(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword := c.PostForm("imsi"), c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		if err := svc.Unsubscribe(c.Request.Context(), imsi, keyword); err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, "OK UNSUBSCRIBE")
	}
}

// @Summary      Service subscription status
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Service keyword"
// @Success      200 {string} string
// @Router       /api/service/status [post]
func ApiServiceStatus(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword := c.PostForm("imsi"), c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		msg, err := svc.Status(c.Request.Context(), imsi, keyword)
		if err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, msg)
	}
}

// @Summary      Service price
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Service keyword"
// @Success      200 {string} string
// @Router       /api/service/price [post]
func ApiServicePrice(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword := c.PostForm("imsi"), c.PostForm("keyword")
		if imsi == "" || keyword == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		msg, err := svc.Price(c.Request.Context(), imsi, keyword)
		if err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, msg)
	}
}

// @Summary      Record a billed service event
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Subscriber IMSI"
// @Param        keyword formData string true "Service keyword"
// @Param        event formData string true "Event text"
// @Success      200 {string} string "OK"
// @Router       /api/service/event [post]
func ApiServiceEvent(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword, event := c.PostForm("imsi"), c.PostForm("keyword"), c.PostForm("event")
		if imsi == "" || keyword == "" || event == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		if err := svc.RecordEvent(c.Request.Context(), imsi, keyword, event); err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, "OK")
	}
}

// @Summary      Push an announcement to service subscribers
// @Tags         Service
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Manager IMSI"
// @Param        keyword formData string true "Service keyword"
// @Param        message formData string true "Content to push"
// @Success      200 {string} string "Delivered count"
// @Router       /api/service/announce [post]
func ApiServiceAnnounce(svc *vas.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi, keyword, message := c.PostForm("imsi"), c.PostForm("keyword"), c.PostForm("message")
		if imsi == "" || keyword == "" || message == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		delivered, err := svc.Announce(c.Request.Context(), imsi, keyword, message)
		if err != nil {
			vasError(c, err)
			return
		}
		c.String(http.StatusOK, "OK "+strconv.Itoa(delivered))
	}
}

func RegisterServiceRoutes(r gin.IRouter, svc *vas.Service) {
	r.POST("/service/subscribe", ApiServiceSubscribe(svc))
	r.POST("/service/unsubscribe", ApiServiceUnsubscribe(svc))
	r.POST("/service/status", ApiServiceStatus(svc))
	r.POST("/service/price", ApiServicePrice(svc))
	r.POST("/service/event", ApiServiceEvent(svc))
	r.POST("/service/announce", ApiServiceAnnounce(svc))
}
