package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/pcarivbts/vbts-billing/internal/app/service/settings"
	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/metrics"
	"github.com/pcarivbts/vbts-billing/pkg/money"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Subscribe activates the promo behind keyword for a registered
// contact. The account is gated twice before any money moves: the
// operator's subscription limit policy, then a balance check that the
// price still leaves the required minimum behind. On success the debit,
// the accounting event, the purge timer and the confirmation SMS all
// happen here.
func (s *Service) Subscribe(ctx context.Context, imsi, keyword string) (*models.PromoSubscription, error) {
	keyword = types.NormalizeKeyword(keyword)

	contact, err := s.store.ContactByIMSI(ctx, imsi)
	if err != nil {
		metrics.PromoSubscriptions.WithLabelValues("error").Inc()
		return nil, err
	}
	if contact == nil {
		metrics.PromoSubscriptions.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	promo, err := s.store.PromoByKeyword(ctx, keyword)
	if err != nil {
		metrics.PromoSubscriptions.WithLabelValues("error").Inc()
		return nil, err
	}
	if promo == nil {
		metrics.PromoSubscriptions.WithLabelValues("bad_keyword").Inc()
		return nil, ErrBadKeyword
	}

	if err := s.checkLimit(ctx, imsi, keyword); err != nil {
		metrics.PromoSubscriptions.WithLabelValues("limit").Inc()
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, imsi)
	if err != nil {
		metrics.PromoSubscriptions.WithLabelValues("error").Inc()
		return nil, err
	}
	minBalance := s.settings.Int64(ctx, settings.KeyMinBalanceRequired, 0)
	if balance-promo.Price < minBalance {
		metrics.PromoSubscriptions.WithLabelValues("insufficient_balance").Inc()
		return nil, ErrInsufficientBalance
	}

	validity := promo.Validity
	if validity < 1 {
		validity = 1
	}
	sub := &models.PromoSubscription{
		ID:             tool.GenerateUUIDV7(),
		PromoID:        promo.ID,
		IMSI:           imsi,
		PromoType:      promo.PromoType,
		Allocation:     promo.Allocation,
		DateExpiration: time.Now().Add(time.Duration(validity) * 24 * time.Hour),
	}
	sub.Extra = datatypes.NewJSONType(promo.Snapshot())

	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		metrics.PromoSubscriptions.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := s.ledger.SubtractCredit(ctx, imsi, promo.Price); err != nil {
		// Roll the row back so a failed debit never leaves a free promo.
		if delErr := s.store.DeleteSubscription(ctx, sub.ID); delErr != nil {
			s.log.Errorw("orphan subscription after failed debit",
				"subscription", sub.ID, "err", delErr)
		}
		metrics.PromoSubscriptions.WithLabelValues("error").Inc()
		return nil, err
	}

	s.scheduler.Schedule(sub.ID, sub.DateExpiration)

	reason := fmt.Sprintf("Promo subscription: %s", promo.Keyword)
	if err := s.ledger.CreateSMSEvent(ctx, imsi, balance, promo.Price, reason, s.cfg.EventShortCode); err != nil {
		s.log.Errorw("subscription event write failed", "imsi", imsi, "err", err)
	}

	s.notifier.Send(ctx, contact.CallerID, fmt.Sprintf(
		"You are now subscribed to %s. This is valid until %s.",
		promo.Name, s.expiryText(ctx, sub.DateExpiration)))

	metrics.PromoSubscriptions.WithLabelValues("ok").Inc()
	return sub, nil
}

// checkLimit enforces the operator's subscription cap. Policy A counts
// only copies of the requested promo; policy B counts every live
// subscription the contact holds.
func (s *Service) checkLimit(ctx context.Context, imsi, keyword string) error {
	limitType := s.settings.String(ctx, settings.KeyPromoLimitType, settings.LimitPerPromo)
	maxSubs := s.settings.Int64(ctx, settings.KeyMaxPromoSubscription, settings.DefaultMaxPromoSubscription)

	countKeyword := keyword
	if limitType == settings.LimitAggregate {
		countKeyword = ""
	}
	count, err := s.store.CountActiveSubscriptions(ctx, imsi, countKeyword)
	if err != nil {
		return err
	}
	if count >= maxSubs {
		return ErrTooManySubscriptions
	}
	return nil
}

// Unsubscribe removes every live subscription matching keyword; a
// subscriber can hold several copies of the same promo. There is no
// refund; the zero-amount event only marks the transition in the
// account history.
func (s *Service) Unsubscribe(ctx context.Context, imsi, keyword string) error {
	keyword = types.NormalizeKeyword(keyword)

	subs, err := s.store.SubscriptionsByKeyword(ctx, imsi, keyword)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		if contact, err := s.store.ContactByIMSI(ctx, imsi); err == nil && contact != nil {
			s.notifier.Send(ctx, contact.CallerID,
				fmt.Sprintf("You have no %s subscriptions.", keyword))
		}
		return ErrNoSubscription
	}

	name := keyword
	removed := 0
	for _, sub := range subs {
		s.scheduler.Cancel(sub.ID)
		taken, err := s.store.TakeSubscription(ctx, sub.ID)
		if err != nil {
			return err
		}
		if taken == nil {
			// Purge won the race on this row
			continue
		}
		removed++
		if snap := taken.Snapshot(); snap != nil && snap.Name != "" {
			name = snap.Name
		}
	}
	if removed == 0 {
		// Every row vanished underneath us; the subscriber outcome is
		// the same.
		return nil
	}

	reason := fmt.Sprintf("Promo unsubscribe: %s", keyword)
	if err := s.ledger.CreateSMSEvent(ctx, imsi, 0, 0, reason, s.cfg.EventShortCode); err != nil {
		s.log.Errorw("unsubscribe event write failed", "imsi", imsi, "err", err)
	}
	if contact, err := s.store.ContactByIMSI(ctx, imsi); err == nil && contact != nil {
		s.notifier.Send(ctx, contact.CallerID,
			fmt.Sprintf("You have been unsubscribed from %s.", name))
	}
	return nil
}

// Status builds and sends the remaining-quota summary for the contact's
// live subscriptions to keyword. The composed text is also returned for
// the HTTP reply.
func (s *Service) Status(ctx context.Context, imsi, keyword string) (string, error) {
	keyword = types.NormalizeKeyword(keyword)

	contact, err := s.store.ContactByIMSI(ctx, imsi)
	if err != nil {
		return "", err
	}
	if contact == nil {
		return "", ErrNotFound
	}

	subs, err := s.store.SubscriptionsByKeyword(ctx, imsi, keyword)
	if err != nil {
		return "", err
	}
	now := time.Now()
	var lines []string
	for _, sub := range subs {
		if !sub.Active(now) {
			continue
		}
		lines = append(lines, s.statusLine(ctx, sub))
	}
	if len(lines) == 0 {
		return "", ErrNoSubscription
	}

	msg := strings.Join(lines, " ")
	s.notifier.Send(ctx, contact.CallerID, msg)
	return msg, nil
}

func (s *Service) statusLine(ctx context.Context, sub *models.PromoSubscription) string {
	name := sub.Keyword()
	if snap := sub.Snapshot(); snap != nil && snap.Name != "" {
		name = snap.Name
	}
	expiry := s.expiryText(ctx, sub.DateExpiration)

	switch sub.PromoType {
	case types.PromoTypeBulk:
		return fmt.Sprintf(
			"%s: %d local SMS, %d local call min, %d Globe SMS, %d Globe call min, %d outside SMS, %d outside call min left, valid until %s.",
			name,
			sub.Allocation.LocalSMS, sub.Allocation.LocalCall,
			sub.Allocation.GlobeSMS, sub.Allocation.GlobeCall,
			sub.Allocation.OutsideSMS, sub.Allocation.OutsideCall,
			expiry)
	case types.PromoTypeUnlimited:
		return fmt.Sprintf("%s: unlimited use, valid until %s.", name, expiry)
	default:
		return fmt.Sprintf("%s: discounted rates, valid until %s.", name, expiry)
	}
}

// Info sends the advertised description and price of a promo. The
// requester does not need a contact record to ask; the reply text is
// returned either way and only delivered when one exists.
func (s *Service) Info(ctx context.Context, imsi, keyword string) (string, error) {
	keyword = types.NormalizeKeyword(keyword)

	promo, err := s.store.PromoByKeyword(ctx, keyword)
	if err != nil {
		return "", err
	}
	if promo == nil {
		return "", ErrBadKeyword
	}

	msg := fmt.Sprintf("%s (%s): %s Price: %s.",
		promo.Name, promo.Keyword, promo.Description, money.FormatAmount(promo.Price))
	if contact, err := s.store.ContactByIMSI(ctx, imsi); err == nil && contact != nil {
		s.notifier.Send(ctx, contact.CallerID, msg)
	}
	return msg, nil
}
