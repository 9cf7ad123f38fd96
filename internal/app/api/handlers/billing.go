// Package handlers wires the HTTP surface. Switch-facing routes accept
// form fields and answer bare strings because the dialplan scripts
// consume raw response bodies; the admin API uses the JSON envelope.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pcarivbts/vbts-billing/internal/app/service/billing"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

const missingArgs = "Missing Args"

// @Summary      Classify transaction
// @Description  Returns the effective charging tag for a call/SMS attempt.
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Caller IMSI"
// @Param        trans formData string true "Transaction kind"
// @Param        dest formData string false "Destination number"
// @Success      200 {string} string "Effective tag, e.g. U_local_call"
// @Router       /api/transaction/type [post]
func ApiServiceType(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		kind := types.TransactionKind(c.PostForm("trans"))
		dest := c.PostForm("dest")
		if imsi == "" || kind == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		if !kind.Valid() {
			c.String(http.StatusBadRequest, "Unknown transaction")
			return
		}
		tag := engine.Classify(c.Request.Context(), imsi, kind, dest)
		c.String(http.StatusOK, tag.String())
	}
}

// @Summary      Required minimum balance
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        trans formData string true "Effective tag"
// @Param        tariff formData string true "Tariff-derived balance floor"
// @Success      200 {string} string
// @Router       /api/promo/getminbal [post]
func ApiMinimumBalance(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		trans := c.PostForm("trans")
		tariffFloor := c.PostForm("tariff")
		if trans == "" || tariffFloor == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		tag := types.ParseEffectiveTag(trans)
		c.String(http.StatusOK, engine.RequiredMinimumBalance(c.Request.Context(), tag, tariffFloor))
	}
}

// @Summary      Per-unit tariff
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Caller IMSI"
// @Param        trans formData string true "Effective tag"
// @Param        dest formData string false "Destination number"
// @Success      200 {string} string "Price in millicents"
// @Router       /api/promo/gettariff [post]
func ApiServiceTariff(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		trans := c.PostForm("trans")
		dest := c.PostForm("dest")
		if imsi == "" || trans == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		tag := types.ParseEffectiveTag(trans)
		rate := engine.ServiceTariff(c.Request.Context(), imsi, tag, dest)
		c.String(http.StatusOK, strconv.FormatInt(rate, 10))
	}
}

// @Summary      Affordable call seconds
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Caller IMSI"
// @Param        trans formData string true "Effective tag"
// @Param        balance formData string true "Balance in millicents"
// @Param        dest formData string false "Destination number"
// @Success      200 {string} string "Seconds"
// @Router       /api/promo/getsec [post]
func ApiSecondsAvailable(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		trans := c.PostForm("trans")
		balanceStr := c.PostForm("balance")
		dest := c.PostForm("dest")
		if imsi == "" || trans == "" || balanceStr == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		balance, err := strconv.ParseInt(balanceStr, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		tag := types.ParseEffectiveTag(trans)
		sec := engine.SecondsAvailable(c.Request.Context(), imsi, tag, balance, dest)
		c.String(http.StatusOK, strconv.FormatInt(sec, 10))
	}
}

// @Summary      Deduct bulk quota
// @Description  Consumes quota after a completed bulk transaction. Always
// answers OK when the tag is bulk, even if nothing matched.
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        imsi formData string true "Caller IMSI"
// @Param        trans formData string true "Effective tag"
// @Param        amount formData string true "Units to deduct"
// @Success      200 {string} string "OK"
// @Router       /api/promo/deduct [post]
func ApiQuotaDeduct(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		trans := c.PostForm("trans")
		amountStr := c.PostForm("amount")
		if imsi == "" || trans == "" || amountStr == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		amount, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil || amount < 0 {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		tag := types.ParseEffectiveTag(trans)
		if err := engine.Deduct(c.Request.Context(), imsi, tag, amount); err != nil {
			if errors.Is(err, billing.ErrNotBulkPromo) {
				c.String(http.StatusBadRequest, "Not Bulk promo")
				return
			}
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.String(http.StatusOK, "OK")
	}
}

// @Summary      Resolve all billing parameters at once
// @Tags         Billing
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        imsi formData string true "Caller IMSI"
// @Param        trans formData string true "Transaction kind"
// @Param        balance formData string true "Balance in millicents"
// @Param        dest formData string false "Destination number"
// @Success      200 {object} billing.Resolution
// @Router       /api/billing/resolve [post]
func ApiResolve(engine *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		imsi := c.PostForm("imsi")
		kind := types.TransactionKind(c.PostForm("trans"))
		balanceStr := c.PostForm("balance")
		dest := c.PostForm("dest")
		if imsi == "" || kind == "" || balanceStr == "" {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		if !kind.Valid() {
			c.String(http.StatusBadRequest, "Unknown transaction")
			return
		}
		balance, err := strconv.ParseInt(balanceStr, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, missingArgs)
			return
		}
		res := engine.Resolve(c.Request.Context(), imsi, kind, dest, balance)
		c.JSON(http.StatusOK, res)
	}
}

func RegisterBillingRoutes(r gin.IRouter, engine *billing.Service) {
	r.POST("/transaction/type", ApiServiceType(engine))
	r.POST("/promo/getminbal", ApiMinimumBalance(engine))
	r.POST("/promo/gettariff", ApiServiceTariff(engine))
	r.POST("/promo/getsec", ApiSecondsAvailable(engine))
	r.POST("/promo/deduct", ApiQuotaDeduct(engine))
	r.POST("/billing/resolve", ApiResolve(engine))
}
