// Package sms delivers subscriber notifications through the switch's
// SMS gateway. Delivery is best-effort: billing outcomes never depend on
// whether the notification made it out.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/models"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
)

// Sender sends one logical message to a subscriber, chopping it into
// SMS-sized parts as needed.
type Sender interface {
	Send(ctx context.Context, callerid, msg string)
}

// MessageLogStore persists the outbound audit row.
type MessageLogStore interface {
	CreateMessageLog(ctx context.Context, m *models.MessageLog) error
}

type GatewaySender struct {
	gatewayURL string
	origin     string
	httpClient *http.Client
	logs       MessageLogStore
	log        *zap.SugaredLogger
}

func NewGatewaySender(cfg *cfgpkg.Config, logs MessageLogStore, log *zap.SugaredLogger) *GatewaySender {
	return &GatewaySender{
		gatewayURL: cfg.SMS.GatewayURL,
		origin:     cfg.SMS.Origin,
		httpClient: &http.Client{Timeout: cfg.SMS.Timeout},
		logs:       logs,
		log:        log,
	}
}

func (s *GatewaySender) Send(ctx context.Context, callerid, msg string) {
	blocks := ChopMessage(msg)
	var sendErr error
	for _, block := range blocks {
		if err := s.deliver(ctx, callerid, block); err != nil {
			sendErr = err
			s.log.Errorw("sms delivery failed", "callerid", callerid, "err", err)
			break
		}
	}

	logRow := &models.MessageLog{
		ID:       tool.GenerateUUIDV7(),
		CallerID: callerid,
		Origin:   s.origin,
		Message:  msg,
		Parts:    len(blocks),
	}
	if sendErr != nil {
		logRow.Error = sendErr.Error()
	}
	if err := s.logs.CreateMessageLog(ctx, logRow); err != nil {
		s.log.Errorw("message log write failed", "callerid", callerid, "err", err)
	}
}

var Module = fx.Options(
	fx.Provide(func(cfg *cfgpkg.Config, logs MessageLogStore, log *zap.SugaredLogger) Sender {
		return NewGatewaySender(cfg, logs, log)
	}),
)

func (s *GatewaySender) deliver(ctx context.Context, callerid, block string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      callerid,
		"from":    s.origin,
		"message": block,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}
	return nil
}
