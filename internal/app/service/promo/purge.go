package promo

import (
	"context"
	"fmt"

	"github.com/pcarivbts/vbts-billing/pkg/metrics"
)

// HandlePurge is the scheduler callback for one expired subscription.
// The load-and-delete is atomic, so a purge racing an unsubscribe (or a
// duplicate timer after a crashy restart) finds nothing and stops; only
// the winner notifies the subscriber.
func (s *Service) HandlePurge(ctx context.Context, subscriptionID string) {
	sub, err := s.store.TakeSubscription(ctx, subscriptionID)
	if err != nil {
		metrics.PurgeExecutions.WithLabelValues("error").Inc()
		s.log.Errorw("purge failed", "subscription", subscriptionID, "err", err)
		return
	}
	if sub == nil {
		metrics.PurgeExecutions.WithLabelValues("vanished").Inc()
		return
	}

	name := sub.Keyword()
	if snap := sub.Snapshot(); snap != nil && snap.Name != "" {
		name = snap.Name
	}
	reason := fmt.Sprintf("Promo expired: %s", sub.Keyword())
	if err := s.ledger.CreateSMSEvent(ctx, sub.IMSI, 0, 0, reason, s.cfg.EventShortCode); err != nil {
		s.log.Errorw("purge event write failed", "imsi", sub.IMSI, "err", err)
	}
	if contact, err := s.store.ContactByIMSI(ctx, sub.IMSI); err == nil && contact != nil {
		s.notifier.Send(ctx, contact.CallerID,
			fmt.Sprintf("Your subscription to %s has expired.", name))
	}
	metrics.PurgeExecutions.WithLabelValues("deleted").Inc()
	s.log.Infow("subscription purged", "subscription", subscriptionID, "imsi", sub.IMSI)
}

// ReschedulePurges rebuilds every purge timer from the subscription
// table. Timers live in process memory, so this runs once at startup;
// already-expired rows get an immediate timer and drain through the
// normal handler.
func (s *Service) ReschedulePurges(ctx context.Context) error {
	ids, err := s.store.AllSubscriptionIDs(ctx)
	if err != nil {
		return fmt.Errorf("load subscriptions for reschedule: %w", err)
	}
	for id, expiration := range ids {
		s.scheduler.Schedule(id, expiration)
	}
	s.log.Infow("purge timers rebuilt", "count", len(ids))
	return nil
}
