package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	"github.com/pcarivbts/vbts-billing/internal/store"
)

// @Summary      Register a SIM contact
// @Description  Provisioning hook called when a SIM first attaches.
// Registration is idempotent per IMSI.
// @Tags         Contact
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "SIM IMSI"
// @Param        callerid formData string true "Dialable number"
// @Success      200 {string} string "OK"
// @Router       /api/contact/register [post]
func ApiContactRegister(st *store.Store, notifier sms.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		callerid := c.PostForm("callerid")
		if imsi == "" || callerid == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		existing, err := st.ContactByIMSI(c.Request.Context(), imsi)
		if err != nil {
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if existing != nil {
			c.String(http.StatusOK, "OK")
			return
		}
		if err := st.CreateContact(c.Request.Context(), &models.Contact{IMSI: imsi, CallerID: callerid}); err != nil {
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if notifier != nil {
			notifier.Send(c.Request.Context(),
				callerid, "Welcome! Your number is now registered on the community network.")
		}
		c.String(http.StatusOK, "OK")
	}
}

func RegisterContactRoutes(r gin.IRouter, st *store.Store, notifier sms.Sender) {
	r.POST("/contact/register", ApiContactRegister(st, notifier))
}
