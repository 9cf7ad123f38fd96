package models

import "time"

// Group is a subscriber-owned calling circle used by GroupDiscount
// promos: the discount applies only to destinations that are members of
// a group owned by the calling subscriber.
type Group struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(80);not null;uniqueIndex:unique_owner_name,priority:2" json:"name"`
	OwnerIMSI string    `gorm:"column:owner_imsi;type:varchar(19);not null;uniqueIndex:unique_owner_name,priority:1" json:"owner_imsi"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "pcari_groups"
}

type GroupMember struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	GroupID string `gorm:"column:group_id;type:uuid;not null;index" json:"group_id"`
	IMSI    string `gorm:"column:imsi;type:varchar(19);not null" json:"imsi"`
	// CallerID is denormalized here because the switch hands us dialed
	// numbers, not IMSIs, when checking membership.
	CallerID   string    `gorm:"column:callerid;type:varchar(80);not null;index" json:"callerid"`
	DateJoined time.Time `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
}

func (GroupMember) TableName() string {
	return "pcari_group_users"
}
