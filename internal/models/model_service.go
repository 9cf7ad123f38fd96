package models

import (
	"time"

	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// Service is a value-added service (push content or info request)
// subscribers can sign up for by keyword.
type Service struct {
	ID          string              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string              `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description string              `gorm:"column:description;type:text" json:"description"`
	Keyword     string              `gorm:"column:keyword;type:varchar(10);not null;uniqueIndex" json:"keyword"`
	Number      string              `gorm:"column:number;type:varchar(10);not null" json:"number"`
	Price       int64               `gorm:"column:price;type:bigint;not null;default:0" json:"price"`
	ServiceType types.ServiceType   `gorm:"column:service_type;type:varchar(1);not null" json:"service_type"`
	Status      types.ServiceStatus `gorm:"column:status;type:varchar(1);not null;default:'U'" json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (Service) TableName() string {
	return "pcari_services"
}

func (s *Service) Published() bool {
	return s != nil && s.Status == types.ServiceStatusPublished
}

type ServiceSubscriber struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceID      string    `gorm:"column:service_id;type:uuid;not null;uniqueIndex:unique_service_imsi,priority:1" json:"service_id"`
	IMSI           string    `gorm:"column:imsi;type:varchar(19);not null;uniqueIndex:unique_service_imsi,priority:2" json:"imsi"`
	DateSubscribed time.Time `gorm:"column:date_subscribed;autoCreateTime" json:"date_subscribed"`
}

func (ServiceSubscriber) TableName() string {
	return "pcari_service_users"
}

type ServiceManager struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceID string    `gorm:"column:service_id;type:uuid;not null;index" json:"service_id"`
	IMSI      string    `gorm:"column:imsi;type:varchar(19);not null" json:"imsi"`
	CreatedAt time.Time `json:"created_at"`
}

func (ServiceManager) TableName() string {
	return "pcari_service_managers"
}

// ServiceEvent is an audit row written when a subscriber interacts with
// a service (info request, pushed content received).
type ServiceEvent struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceID string    `gorm:"column:service_id;type:uuid;not null;index" json:"service_id"`
	IMSI      string    `gorm:"column:imsi;type:varchar(19);not null" json:"imsi"`
	Event     string    `gorm:"column:event;type:text;not null" json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

func (ServiceEvent) TableName() string {
	return "pcari_service_events"
}
