package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

var allocColumns = map[types.TransactionKind]string{
	types.KindLocalSMS:    "local_sms",
	types.KindLocalCall:   "local_call",
	types.KindGlobeSMS:    "globe_sms",
	types.KindGlobeCall:   "globe_call",
	types.KindOutsideSMS:  "outside_sms",
	types.KindOutsideCall: "outside_call",
}

// FirstActiveSubscription returns the earliest-expiring active
// subscription of the given promo type whose allocation for kind is
// strictly positive, or nil when none qualifies.
func (s *Store) FirstActiveSubscription(ctx context.Context, imsi string, pt types.PromoType, kind types.TransactionKind) (*models.PromoSubscription, error) {
	col, ok := allocColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}
	var sub models.PromoSubscription
	err := s.db.WithContext(ctx).
		Where("imsi = ? AND promo_type = ? AND date_expiration > ?", imsi, pt, time.Now()).
		Where(col+" > 0").
		Order("date_expiration asc").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountActiveSubscriptions counts a contact's live subscriptions,
// optionally restricted to one promo keyword (snapshot keyword).
func (s *Store) CountActiveSubscriptions(ctx context.Context, imsi, keyword string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.PromoSubscription{}).
		Where("imsi = ? AND date_expiration > ?", imsi, time.Now())
	if keyword != "" {
		q = q.Where("extra->>'keyword' = ?", keyword)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *models.PromoSubscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

// SubscriptionsByKeyword lists a contact's subscriptions for one promo
// keyword, earliest-expiring first. Used by unsubscribe and status.
func (s *Store) SubscriptionsByKeyword(ctx context.Context, imsi, keyword string) ([]*models.PromoSubscription, error) {
	var subs []*models.PromoSubscription
	q := s.db.WithContext(ctx).
		Where("imsi = ?", imsi).
		Order("date_expiration asc")
	if keyword != "" {
		q = q.Where("extra->>'keyword' = ?", keyword)
	}
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.PromoSubscription{}, "id = ?", id).Error
}

// TakeSubscription loads and deletes a subscription in one locked
// transaction. Returns (nil, nil) when the row has already vanished,
// which purge and unsubscribe treat as a benign race.
func (s *Store) TakeSubscription(ctx context.Context, id string) (*models.PromoSubscription, error) {
	var sub models.PromoSubscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PromoSubscription{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeductQuota atomically decrements the allocation column for kind on
// the earliest-expiring bulk subscription holding at least amount.
// Returns false when no subscription qualifies; the row lock guarantees
// two concurrent deducts can never drive a quota negative.
func (s *Store) DeductQuota(ctx context.Context, imsi string, kind types.TransactionKind, amount int64) (bool, error) {
	col, ok := allocColumns[kind]
	if !ok {
		return false, fmt.Errorf("unknown transaction kind %q", kind)
	}
	matched := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.PromoSubscription
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("imsi = ? AND promo_type = ? AND date_expiration > ?",
				imsi, types.PromoTypeBulk, time.Now()).
			Where(col+" >= ?", amount).
			Order("date_expiration asc").
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		matched = true
		return tx.Model(&models.PromoSubscription{}).
			Where("id = ?", sub.ID).
			UpdateColumn(col, gorm.Expr(col+" - ?", amount)).Error
	})
	return matched, err
}

// AllSubscriptionIDs streams every live subscription id with its
// expiration, used to rebuild purge timers after a restart.
func (s *Store) AllSubscriptionIDs(ctx context.Context) (map[string]time.Time, error) {
	type row struct {
		ID             string
		DateExpiration time.Time
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&models.PromoSubscription{}).
		Select("id", "date_expiration").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.ID] = r.DateExpiration
	}
	return out, nil
}
