package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

func (s *Store) PromoByKeyword(ctx context.Context, keyword string) (*models.Promo, error) {
	var p models.Promo
	err := s.db.WithContext(ctx).Where("keyword = ?", keyword).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ContactByIMSI(ctx context.Context, imsi string) (*models.Contact, error) {
	var c models.Contact
	err := s.db.WithContext(ctx).Where("imsi = ?", imsi).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ContactByCallerID(ctx context.Context, callerid string) (*models.Contact, error) {
	var c models.Contact
	err := s.db.WithContext(ctx).Where("callerid = ?", callerid).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// IsGroupMember reports whether dest (a dialable number) belongs to any
// group owned by the given subscriber. Lookup failures surface as errors
// so callers can fall back to "not a member".
func (s *Store) IsGroupMember(ctx context.Context, ownerIMSI, destCallerID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.GroupMember{}).
		Joins("JOIN pcari_groups ON pcari_groups.id = pcari_group_users.group_id").
		Where("pcari_groups.owner_imsi = ? AND pcari_group_users.callerid = ?", ownerIMSI, destCallerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ServiceByKeyword optionally filters on published status and type.
func (s *Store) ServiceByKeyword(ctx context.Context, keyword string, svcType types.ServiceType, publishedOnly bool) (*models.Service, error) {
	q := s.db.WithContext(ctx).Where("keyword = ?", keyword)
	if svcType != "" {
		q = q.Where("service_type = ?", svcType)
	}
	if publishedOnly {
		q = q.Where("status = ?", types.ServiceStatusPublished)
	}
	var svc models.Service
	err := q.First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *Store) IsServiceSubscriber(ctx context.Context, serviceID, imsi string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ServiceSubscriber{}).
		Where("service_id = ? AND imsi = ?", serviceID, imsi).Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateServiceSubscriber(ctx context.Context, sub *models.ServiceSubscriber) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

// DeleteServiceSubscriber reports whether a row actually existed.
func (s *Store) DeleteServiceSubscriber(ctx context.Context, serviceID, imsi string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("service_id = ? AND imsi = ?", serviceID, imsi).
		Delete(&models.ServiceSubscriber{})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ServiceSubscribers(ctx context.Context, serviceID string) ([]*models.ServiceSubscriber, error) {
	var subs []*models.ServiceSubscriber
	err := s.db.WithContext(ctx).Where("service_id = ?", serviceID).Find(&subs).Error
	return subs, err
}

func (s *Store) IsServiceManager(ctx context.Context, serviceID, imsi string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ServiceManager{}).
		Where("service_id = ? AND imsi = ?", serviceID, imsi).Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateServiceEvent(ctx context.Context, ev *models.ServiceEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *Store) PublishedReportByKeyword(ctx context.Context, keyword string) (*models.Report, error) {
	var r models.Report
	err := s.db.WithContext(ctx).
		Where("keyword = ? AND status = ?", keyword, types.ServiceStatusPublished).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ReportManagers(ctx context.Context, reportID string) ([]*models.ReportManager, error) {
	var mgrs []*models.ReportManager
	err := s.db.WithContext(ctx).Where("report_id = ?", reportID).Find(&mgrs).Error
	return mgrs, err
}

func (s *Store) CreateReportMessage(ctx context.Context, msg *models.ReportMessage) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// ConfigValue returns ("", nil) when the key is absent; callers apply
// their documented fallback.
func (s *Store) ConfigValue(ctx context.Context, key string) (string, error) {
	var entry models.ConfigEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *Store) CreateMessageLog(ctx context.Context, m *models.MessageLog) error {
	return s.db.WithContext(ctx).Create(m).Error
}
