package billing

import (
	"context"

	"github.com/pcarivbts/vbts-billing/internal/app/service/tariff"
	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Classify picks the charging regime for one transaction attempt. The
// promo types are tried in fixed priority order (unlimited, bulk,
// discounted, group) and the first type holding an active subscription
// with remaining quota for the kind wins. Group promos additionally
// require the destination to be a member of one of the caller's groups.
// When no promo applies, the result carries the (possibly remapped)
// kind with no promo type, which the resolvers read as regular billing.
func (s *Service) Classify(ctx context.Context, imsi string, kind types.TransactionKind, dest string) types.EffectiveTag {
	kind = s.remapKind(ctx, kind, dest)
	tag := types.EffectiveTag{Kind: kind}

	for _, pt := range types.PromoTypePriority {
		sub, err := s.subs.FirstActiveSubscription(ctx, imsi, pt, kind)
		if err != nil {
			s.log.Errorw("subscription lookup failed", "imsi", imsi, "promo_type", pt, "err", err)
			continue
		}
		if sub == nil {
			continue
		}
		if pt == types.PromoTypeGroupDiscount && !s.isGroupPeer(ctx, imsi, dest) {
			continue
		}
		// Re-check the balance column against the remapped kind; the
		// store query already filters on it, but a concurrent deduct
		// may have drained it since.
		if sub.Allocation.Get(kind) <= 0 {
			return tag
		}
		tag.PromoType = pt
		return tag
	}
	return tag
}

// remapKind folds an off-network destination into the matching operator
// channel. A destination that resolves to a local IMSI keeps the kind
// the switch reported.
func (s *Service) remapKind(ctx context.Context, kind types.TransactionKind, dest string) types.TransactionKind {
	if dest == "" {
		return kind
	}
	if _, err := s.directory.IMSIFromNumber(ctx, tariff.StripNumber(dest)); err == nil {
		return kind
	}
	if ch, ok := s.tariffs.OperatorChannel(dest); ok {
		return kind.WithChannel(ch)
	}
	return kind
}

func (s *Service) isGroupPeer(ctx context.Context, imsi, dest string) bool {
	ok, err := s.groups.IsGroupMember(ctx, imsi, tariff.StripNumber(dest))
	if err != nil {
		s.log.Errorw("group membership lookup failed", "imsi", imsi, "err", err)
		return false
	}
	return ok
}

// activeSub wraps the winning-subscription lookup the resolvers share,
// applying the group gate so a non-member never bills at group rates.
func (s *Service) activeSub(ctx context.Context, imsi string, pt types.PromoType, kind types.TransactionKind, dest string) *models.PromoSubscription {
	sub, err := s.subs.FirstActiveSubscription(ctx, imsi, pt, kind)
	if err != nil {
		s.log.Errorw("subscription lookup failed", "imsi", imsi, "promo_type", pt, "err", err)
		return nil
	}
	if sub == nil {
		return nil
	}
	if pt == types.PromoTypeGroupDiscount && !s.isGroupPeer(ctx, imsi, dest) {
		return nil
	}
	return sub
}
