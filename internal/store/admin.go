package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/tool"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

// filtersAnd joins CommonFilters into one WHERE expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

func scan[T any](ctx context.Context, db *gorm.DB, req *ScanRequest) ([]*T, int64, error) {
	if req == nil {
		return nil, 0, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := db.WithContext(ctx).Model(new(T))
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	var rows []*T
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rows: %w", err)
	}
	return rows, total, nil
}

// ScanSubscriptions implements the paginated admin listing with filters.
func (s *Store) ScanSubscriptions(ctx context.Context, req *ScanRequest) ([]*models.PromoSubscription, int64, error) {
	return scan[models.PromoSubscription](ctx, s.db, req)
}

func (s *Store) ScanPromos(ctx context.Context, req *ScanRequest) ([]*models.Promo, int64, error) {
	return scan[models.Promo](ctx, s.db, req)
}

func (s *Store) ScanContacts(ctx context.Context, req *ScanRequest) ([]*models.Contact, int64, error) {
	return scan[models.Contact](ctx, s.db, req)
}

func (s *Store) ScanMessageLogs(ctx context.Context, req *ScanRequest) ([]*models.MessageLog, int64, error) {
	return scan[models.MessageLog](ctx, s.db, req)
}

func (s *Store) ScanServices(ctx context.Context, req *ScanRequest) ([]*models.Service, int64, error) {
	return scan[models.Service](ctx, s.db, req)
}

func (s *Store) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	return s.db.WithContext(ctx).Create(svc).Error
}

func (s *Store) UpdateService(ctx context.Context, svc *models.Service) error {
	return s.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", svc.ID).
		Select("name", "description", "keyword", "number", "price", "service_type", "status").
		Updates(svc).Error
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id).Error
}

func (s *Store) PromoByID(ctx context.Context, id string) (*models.Promo, error) {
	var p models.Promo
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePromo(ctx context.Context, p *models.Promo) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// UpdatePromo saves definition fields. Live subscriptions keep their
// snapshot; edits only affect future subscribes.
func (s *Store) UpdatePromo(ctx context.Context, p *models.Promo) error {
	return s.db.WithContext(ctx).Model(&models.Promo{}).
		Where("id = ?", p.ID).
		Select("name", "description", "keyword", "number", "price", "promo_type",
			"local_sms", "local_call", "globe_sms", "globe_call", "outside_sms", "outside_call",
			"validity").
		Updates(p).Error
}

func (s *Store) DeletePromo(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Promo{}, "id = ?", id).Error
}

func (s *Store) UpsertConfigValue(ctx context.Context, key, value string) error {
	entry := &models.ConfigEntry{ID: tool.GenerateUUIDV7(), Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(entry).Error
}

func (s *Store) AllConfigEntries(ctx context.Context) ([]*models.ConfigEntry, error) {
	var entries []*models.ConfigEntry
	err := s.db.WithContext(ctx).Order("key").Find(&entries).Error
	return entries, err
}
