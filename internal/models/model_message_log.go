package models

import "time"

// MessageLog audits every outbound SMS handed to the gateway, including
// delivery failures (Error nonempty).
type MessageLog struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CallerID  string    `gorm:"column:callerid;type:varchar(80);not null;index" json:"callerid"`
	Origin    string    `gorm:"column:origin;type:varchar(10);not null" json:"origin"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Parts     int       `gorm:"column:parts;not null;default:1" json:"parts"`
	Error     string    `gorm:"column:error;type:text" json:"error"`
	CreatedAt time.Time `json:"created_at"`
}

func (MessageLog) TableName() string {
	return "pcari_message_log"
}
