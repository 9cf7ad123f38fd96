// Package vas manages value-added services: keyword services that
// subscribers join for pushed content or query per-use, separate from
// promos because they never touch call or SMS tariffs.
package vas

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/internal/platform/sms"
	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/money"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

var (
	ErrNotFound            = errors.New("contact not registered")
	ErrBadKeyword          = errors.New("unknown service keyword")
	ErrAlreadySubscribed   = errors.New("already subscribed")
	ErrNoSubscription      = errors.New("not subscribed")
	ErrNotManager          = errors.New("not a service manager")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Store interface {
	ContactByIMSI(ctx context.Context, imsi string) (*models.Contact, error)
	ServiceByKeyword(ctx context.Context, keyword string, svcType types.ServiceType, publishedOnly bool) (*models.Service, error)
	IsServiceSubscriber(ctx context.Context, serviceID, imsi string) (bool, error)
	CreateServiceSubscriber(ctx context.Context, sub *models.ServiceSubscriber) error
	DeleteServiceSubscriber(ctx context.Context, serviceID, imsi string) (bool, error)
	ServiceSubscribers(ctx context.Context, serviceID string) ([]*models.ServiceSubscriber, error)
	IsServiceManager(ctx context.Context, serviceID, imsi string) (bool, error)
	CreateServiceEvent(ctx context.Context, ev *models.ServiceEvent) error
}

// Ledger covers the per-use and per-push charging.
type Ledger interface {
	Balance(ctx context.Context, imsi string) (int64, error)
	SubtractCredit(ctx context.Context, imsi string, amount int64) error
	CreateSMSEvent(ctx context.Context, imsi string, balanceBefore, amount int64, reason, shortCode string) error
}

type Service struct {
	store    Store
	ledger   Ledger
	notifier sms.Sender
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
}

func NewService(store Store, ledger Ledger, notifier sms.Sender, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{store: store, ledger: ledger, notifier: notifier, cfg: cfg, log: log}
}

// Subscribe joins a published service. Joining is free; charging happens
// per pushed announcement or per query.
func (s *Service) Subscribe(ctx context.Context, imsi, keyword string) error {
	contact, svc, err := s.contactAndService(ctx, imsi, keyword)
	if err != nil {
		return err
	}
	already, err := s.store.IsServiceSubscriber(ctx, svc.ID, imsi)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadySubscribed
	}
	sub := &models.ServiceSubscriber{
		ID:        tool.GenerateUUIDV7(),
		ServiceID: svc.ID,
		IMSI:      imsi,
	}
	if err := s.store.CreateServiceSubscriber(ctx, sub); err != nil {
		return err
	}
	s.notifier.Send(ctx, contact.CallerID,
		fmt.Sprintf("You are now subscribed to %s. Each message costs %s.",
			svc.Name, money.FormatAmount(svc.Price)))
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, imsi, keyword string) error {
	contact, svc, err := s.contactAndService(ctx, imsi, keyword)
	if err != nil {
		return err
	}
	removed, err := s.store.DeleteServiceSubscriber(ctx, svc.ID, imsi)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNoSubscription
	}
	s.notifier.Send(ctx, contact.CallerID,
		fmt.Sprintf("You have been unsubscribed from %s.", svc.Name))
	return nil
}

// Status replies whether the contact is subscribed to the service.
func (s *Service) Status(ctx context.Context, imsi, keyword string) (string, error) {
	contact, svc, err := s.contactAndService(ctx, imsi, keyword)
	if err != nil {
		return "", err
	}
	subscribed, err := s.store.IsServiceSubscriber(ctx, svc.ID, imsi)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("You are not subscribed to %s.", svc.Name)
	if subscribed {
		msg = fmt.Sprintf("You are subscribed to %s.", svc.Name)
	}
	s.notifier.Send(ctx, contact.CallerID, msg)
	return msg, nil
}

// Price replies the per-message price of a service.
func (s *Service) Price(ctx context.Context, imsi, keyword string) (string, error) {
	contact, svc, err := s.contactAndService(ctx, imsi, keyword)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("%s costs %s per message.", svc.Name, money.FormatAmount(svc.Price))
	s.notifier.Send(ctx, contact.CallerID, msg)
	return msg, nil
}

// RecordEvent charges one use of an info service and logs the query.
func (s *Service) RecordEvent(ctx context.Context, imsi, keyword, event string) error {
	_, svc, err := s.contactAndService(ctx, imsi, keyword)
	if err != nil {
		return err
	}
	if err := s.charge(ctx, imsi, svc, event); err != nil {
		return err
	}
	return s.store.CreateServiceEvent(ctx, &models.ServiceEvent{
		ID:        tool.GenerateUUIDV7(),
		ServiceID: svc.ID,
		IMSI:      imsi,
		Event:     event,
	})
}

// Announce pushes content from a service manager to every subscriber.
// Each subscriber is charged the service price; accounts that cannot
// cover it are skipped, not disconnected.
func (s *Service) Announce(ctx context.Context, managerIMSI, keyword, message string) (int, error) {
	svc, err := s.store.ServiceByKeyword(ctx, types.NormalizeKeyword(keyword), types.ServiceTypePush, true)
	if err != nil {
		return 0, err
	}
	if svc == nil {
		return 0, ErrBadKeyword
	}
	isManager, err := s.store.IsServiceManager(ctx, svc.ID, managerIMSI)
	if err != nil {
		return 0, err
	}
	if !isManager {
		return 0, ErrNotManager
	}

	subs, err := s.store.ServiceSubscribers(ctx, svc.ID)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, sub := range subs {
		contact, err := s.store.ContactByIMSI(ctx, sub.IMSI)
		if err != nil || contact == nil {
			continue
		}
		if err := s.charge(ctx, sub.IMSI, svc, "push: "+svc.Keyword); err != nil {
			s.log.Infow("push skipped", "imsi", sub.IMSI, "service", svc.Keyword, "err", err)
			continue
		}
		s.notifier.Send(ctx, contact.CallerID, fmt.Sprintf("%s: %s", svc.Name, message))
		delivered++
	}
	return delivered, nil
}

func (s *Service) contactAndService(ctx context.Context, imsi, keyword string) (*models.Contact, *models.Service, error) {
	contact, err := s.store.ContactByIMSI(ctx, imsi)
	if err != nil {
		return nil, nil, err
	}
	if contact == nil {
		return nil, nil, ErrNotFound
	}
	svc, err := s.store.ServiceByKeyword(ctx, types.NormalizeKeyword(keyword), "", true)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil {
		return nil, nil, ErrBadKeyword
	}
	return contact, svc, nil
}

func (s *Service) charge(ctx context.Context, imsi string, svc *models.Service, reason string) error {
	if svc.Price <= 0 {
		return nil
	}
	balance, err := s.ledger.Balance(ctx, imsi)
	if err != nil {
		return err
	}
	if balance < svc.Price {
		return ErrInsufficientBalance
	}
	if err := s.ledger.SubtractCredit(ctx, imsi, svc.Price); err != nil {
		return err
	}
	if err := s.ledger.CreateSMSEvent(ctx, imsi, balance, svc.Price, reason, s.cfg.EventShortCode); err != nil {
		s.log.Errorw("service event write failed", "imsi", imsi, "err", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
