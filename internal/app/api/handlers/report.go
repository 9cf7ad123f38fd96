package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/app/service/report"
)

// @Summary      Submit a report message
// @Description  Stores the message and relays it to the report managers.
// @Tags         Report
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Sender IMSI"
// @Param        keyword formData string true "Report keyword"
// @Param        message formData string true "Free-form message"
// @Success      200 {string} string "OK"
// @Router       /api/report/submit [post]
func ApiReportSubmit(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		keyword := c.PostForm("keyword")
		message := c.PostForm("message")
		if imsi == "" || keyword == "" || message == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		err := svc.Submit(c.Request.Context(), imsi, keyword, message)
		switch {
		case err == nil:
			c.String(http.StatusOK, "OK")
		case errors.Is(err, report.ErrNotFound):
			c.String(http.StatusNotFound, "Not Found")
		case errors.Is(err, report.ErrBadKeyword):
			c.String(http.StatusBadRequest, "Bad report request")
		default:
			c.String(http.StatusInternalServerError, "Server Error")
		}
	}
}

func RegisterReportRoutes(r gin.IRouter, svc *report.Service) {
	r.POST("/report/submit", ApiReportSubmit(svc))
}
