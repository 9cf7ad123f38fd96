package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// PromoSubscription links a contact to a promo at a point in time. The
// allocation is snapshotted from the definition when the subscription is
// created; for Bulk promos it is then decremented by usage, for every
// other type it is immutable.
type PromoSubscription struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PromoID string `gorm:"column:promo_id;type:uuid;not null;index" json:"promo_id"`
	IMSI    string `gorm:"column:imsi;type:varchar(19);not null;index:idx_sub_imsi_type_exp,priority:1" json:"imsi"`
	// PromoType is denormalized from the snapshot so the per-transaction
	// classifier queries stay on plain indexed columns.
	PromoType  types.PromoType `gorm:"column:promo_type;type:varchar(1);not null;index:idx_sub_imsi_type_exp,priority:2" json:"promo_type"`
	Allocation Allocation      `gorm:"embedded" json:"allocation"`
	// DateExpiration is date_availed + validity days, computed once at
	// creation and never recomputed.
	DateExpiration time.Time `gorm:"column:date_expiration;not null;index:idx_sub_imsi_type_exp,priority:3" json:"date_expiration"`
	// Extra carries the promo definition snapshot (keyword, type, price).
	Extra     datatypes.JSONType[*PromoSnapshot] `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                          `json:"created_at"`
	UpdatedAt time.Time                          `json:"updated_at"`
}

func (PromoSubscription) TableName() string {
	return "pcari_promo_subscription"
}

func (s *PromoSubscription) Snapshot() *PromoSnapshot {
	if s == nil {
		return nil
	}
	return s.Extra.Data()
}

func (s *PromoSubscription) Keyword() string {
	if snap := s.Snapshot(); snap != nil {
		return snap.Keyword
	}
	return ""
}

// Active reports whether the subscription is still within its validity
// window at the given instant. Purge removal is best-effort, so reads
// must filter on this too.
func (s *PromoSubscription) Active(at time.Time) bool {
	return s != nil && s.DateExpiration.After(at)
}
