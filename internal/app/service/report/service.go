// Package report relays free-form subscriber messages (outage reports,
// complaints) sent to a report keyword: the message is stored and fanned
// out to the report's managers by SMS.
package report

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

var (
	ErrNotFound   = errors.New("contact not registered")
	ErrBadKeyword = errors.New("unknown report keyword")
)

type Store interface {
	ContactByIMSI(ctx context.Context, imsi string) (*models.Contact, error)
	PublishedReportByKeyword(ctx context.Context, keyword string) (*models.Report, error)
	ReportManagers(ctx context.Context, reportID string) ([]*models.ReportManager, error)
	CreateReportMessage(ctx context.Context, msg *models.ReportMessage) error
}

type Service struct {
	store    Store
	notifier sms.Sender
	log      *zap.SugaredLogger
}

func NewService(store Store, notifier sms.Sender, log *zap.SugaredLogger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

// Submit stores one report message and relays it to every manager. The
// sender gets an acknowledgement; relay failures are logged per manager
// and never fail the submission.
func (s *Service) Submit(ctx context.Context, imsi, keyword, message string) error {
	contact, err := s.store.ContactByIMSI(ctx, imsi)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrNotFound
	}
	rep, err := s.store.PublishedReportByKeyword(ctx, types.NormalizeKeyword(keyword))
	if err != nil {
		return err
	}
	if rep == nil {
		return ErrBadKeyword
	}

	if err := s.store.CreateReportMessage(ctx, &models.ReportMessage{
		ID:         tool.GenerateUUIDV7(),
		ReportID:   rep.ID,
		SenderIMSI: imsi,
		Message:    message,
	}); err != nil {
		return err
	}

	managers, err := s.store.ReportManagers(ctx, rep.ID)
	if err != nil {
		s.log.Errorw("manager lookup failed", "report", rep.Keyword, "err", err)
	}
	for _, mgr := range managers {
		s.notifier.Send(ctx, mgr.CallerID,
			fmt.Sprintf("[%s] from %s: %s", rep.Keyword, contact.CallerID, message))
	}
	s.notifier.Send(ctx, contact.CallerID,
		fmt.Sprintf("Your %s report has been received. Thank you.", rep.Name))
	return nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
