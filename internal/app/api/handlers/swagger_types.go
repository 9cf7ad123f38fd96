package handlers

import (
	"github.com/pcarivbts/vbts-billing/internal/app/service/statistics"
	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/response"
)

// RespEmpty is a generic OK envelope for endpoints returning no specific data.
type RespEmpty struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespListSubscriptions wraps the subscription listing in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode               `json:"code"`
	Message string                                 `json:"message"`
	Data    ListResponse[models.PromoSubscription] `json:"data"`
}

// RespListPromos wraps the promo listing in the standard envelope.
type RespListPromos struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    ListResponse[models.Promo] `json:"data"`
}

// RespPromo wraps a single promo definition in the standard envelope.
type RespPromo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Promo             `json:"data"`
}

// RespListServices wraps the service listing in the standard envelope.
type RespListServices struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    ListResponse[models.Service] `json:"data"`
}

// RespService wraps a single service definition in the standard envelope.
type RespService struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Service           `json:"data"`
}

// RespStatistics wraps StatisticResponse in the standard envelope.
type RespStatistics struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}

// RespConfigEntries wraps the config listing in the standard envelope.
type RespConfigEntries struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.ConfigEntry     `json:"data"`
}

// RespListContacts wraps the contact listing in the standard envelope.
type RespListContacts struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    ListResponse[models.Contact] `json:"data"`
}

// RespListMessageLogs wraps the SMS log listing in the standard envelope.
type RespListMessageLogs struct {
	Code    response.APIResponseCode        `json:"code"`
	Message string                          `json:"message"`
	Data    ListResponse[models.MessageLog] `json:"data"`
}
