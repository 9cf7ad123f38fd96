package models

import (
	"time"

	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Report is a keyword subscribers can text free-form messages to
// (outage reports, complaints); managers get each message relayed.
type Report struct {
	ID        string              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string              `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Keyword   string              `gorm:"column:keyword;type:varchar(10);not null;uniqueIndex" json:"keyword"`
	Status    types.ServiceStatus `gorm:"column:status;type:varchar(1);not null;default:'U'" json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (Report) TableName() string {
	return "pcari_reports"
}

type ReportManager struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReportID string `gorm:"column:report_id;type:uuid;not null;index" json:"report_id"`
	IMSI     string `gorm:"column:imsi;type:varchar(19);not null" json:"imsi"`
	CallerID string `gorm:"column:callerid;type:varchar(80);not null" json:"callerid"`
}

func (ReportManager) TableName() string {
	return "pcari_report_managers"
}

type ReportMessage struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReportID   string    `gorm:"column:report_id;type:uuid;not null;index" json:"report_id"`
	SenderIMSI string    `gorm:"column:sender_imsi;type:varchar(19);not null" json:"sender_imsi"`
	Message    string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReportMessage) TableName() string {
	return "pcari_report_messages"
}
