package models

import (
	"time"

	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Allocation holds the six per-channel values of a promo. Semantics
// depend on the promo type: remaining units for Bulk, discounted price
// per unit for Discounted/GroupDiscount, nonzero-means-enabled for
// Unlimited.
type Allocation struct {
	LocalSMS    int64 `gorm:"column:local_sms;not null;default:0" json:"local_sms"`
	LocalCall   int64 `gorm:"column:local_call;not null;default:0" json:"local_call"`
	GlobeSMS    int64 `gorm:"column:globe_sms;not null;default:0" json:"globe_sms"`
	GlobeCall   int64 `gorm:"column:globe_call;not null;default:0" json:"globe_call"`
	OutsideSMS  int64 `gorm:"column:outside_sms;not null;default:0" json:"outside_sms"`
	OutsideCall int64 `gorm:"column:outside_call;not null;default:0" json:"outside_call"`
}

// Get returns the value for a transaction kind. Unknown kinds read as 0,
// which callers treat as "no allocation".
func (a *Allocation) Get(kind types.TransactionKind) int64 {
	switch kind {
	case types.KindLocalSMS:
		return a.LocalSMS
	case types.KindLocalCall:
		return a.LocalCall
	case types.KindGlobeSMS:
		return a.GlobeSMS
	case types.KindGlobeCall:
		return a.GlobeCall
	case types.KindOutsideSMS:
		return a.OutsideSMS
	case types.KindOutsideCall:
		return a.OutsideCall
	}
	return 0
}

func (a *Allocation) Set(kind types.TransactionKind, v int64) {
	switch kind {
	case types.KindLocalSMS:
		a.LocalSMS = v
	case types.KindLocalCall:
		a.LocalCall = v
	case types.KindGlobeSMS:
		a.GlobeSMS = v
	case types.KindGlobeCall:
		a.GlobeCall = v
	case types.KindOutsideSMS:
		a.OutsideSMS = v
	case types.KindOutsideCall:
		a.OutsideCall = v
	}
}

// Promo is an administrator-authored promotional package definition.
// Price and discounted rates are in millicents.
type Promo struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Keyword     string          `gorm:"column:keyword;type:varchar(10);not null;uniqueIndex" json:"keyword"`
	Number      string          `gorm:"column:number;type:varchar(10);not null;default:'555'" json:"number"`
	Price       int64           `gorm:"column:price;type:bigint;not null;default:0" json:"price"`
	PromoType   types.PromoType `gorm:"column:promo_type;type:varchar(1);not null" json:"promo_type"`
	Allocation  Allocation      `gorm:"embedded" json:"allocation"`
	// Validity is the subscription lifetime in whole days, at least 1.
	Validity  int       `gorm:"column:validity;not null;default:1" json:"validity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Promo) TableName() string {
	return "pcari_promos"
}

// Snapshot freezes the definition fields copied onto a subscription at
// subscribe time, so later promo edits never change active subscriptions.
func (p *Promo) Snapshot() *PromoSnapshot {
	return &PromoSnapshot{
		PromoID:   p.ID,
		Keyword:   p.Keyword,
		Name:      p.Name,
		PromoType: p.PromoType,
		Price:     p.Price,
		Validity:  p.Validity,
	}
}

// PromoSnapshot is stored as JSONB on each subscription.
type PromoSnapshot struct {
	PromoID   string          `json:"promo_id"`
	Keyword   string          `json:"keyword"`
	Name      string          `json:"name"`
	PromoType types.PromoType `json:"promo_type"`
	Price     int64           `json:"price"`
	Validity  int             `json:"validity"`
}
