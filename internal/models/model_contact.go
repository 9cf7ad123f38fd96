package models

import "time"

// Contact is a SIM identity known to this base station. The balance for
// a contact lives in the external account ledger, keyed by IMSI.
type Contact struct {
	IMSI      string    `gorm:"column:imsi;type:varchar(19);primaryKey" json:"imsi"`
	CallerID  string    `gorm:"column:callerid;type:varchar(80);not null;uniqueIndex" json:"callerid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contact) TableName() string {
	return "pcari_contact"
}
