package models

import "time"

// ConfigEntry is a runtime-tunable policy value. Values are strings
// parsed at use-site; callers always carry an explicit fallback so a
// missing or malformed entry can never fail a billing decision.
//
// Known keys: promo_limit_type, max_promo_subscription,
// min_balance_required, promo_req_min_balance, max_call_duration,
// timezone.
type ConfigEntry struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"column:key;type:varchar(50);not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"column:value;type:varchar(100);not null" json:"value"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ConfigEntry) TableName() string {
	return "pcari_config"
}
