// Package statistics serves the admin dashboard aggregates over promo
// subscriptions and outbound SMS traffic.
package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pcarivbts/vbts-billing/internal/models"
	"github.com/pcarivbts/vbts-billing/pkg/types"
)

type StatisticType string

const (
	// Daily counts and revenue
	StatisticTypeDailySubscriptionCount StatisticType = "daily_subscription_count"
	StatisticTypeDailyRevenue           StatisticType = "daily_revenue"
	StatisticTypeTotalRevenue           StatisticType = "total_revenue"

	// Live state
	StatisticTypeActiveSubscriptionCount StatisticType = "active_subscription_count"
	StatisticTypePromoBreakdown          StatisticType = "promo_breakdown"

	// Messaging volume
	StatisticTypeDailySMSCount StatisticType = "daily_sms_count"
)

type StatisticFilterType string

const (
	StatisticFilterTypePromoKeyword StatisticFilterType = "promo_keyword"
	StatisticFilterTypePromoType    StatisticFilterType = "promo_type"
)

var filterTypes = []StatisticFilterType{
	StatisticFilterTypePromoKeyword,
	StatisticFilterTypePromoType,
}

// validFilters maps each special filter to the statistic types it can
// narrow; SMS counts have no promo dimension.
var validFilters = map[StatisticFilterType][]StatisticType{
	StatisticFilterTypePromoKeyword: {
		StatisticTypeDailySubscriptionCount, StatisticTypeDailyRevenue,
		StatisticTypeActiveSubscriptionCount,
	},
	StatisticFilterTypePromoType: {
		StatisticTypeDailySubscriptionCount, StatisticTypeDailyRevenue,
		StatisticTypeActiveSubscriptionCount, StatisticTypePromoBreakdown,
	},
}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

func (f *StatisticRequest) GetFilters(statisticType StatisticType) *StatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result StatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[StatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

// Build composes a WHERE clause from the filters, mapping the promo
// dimensions onto the snapshot JSON and the denormalized type column.
func (f *StatisticRequest) Build(builder clause.Builder) {
	if f == nil || len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		switch filter.Field {
		case string(StatisticFilterTypePromoKeyword):
			if len(filter.Values) > 0 {
				builder.WriteString("extra->>'keyword' = ")
				builder.AddVar(builder, fmt.Sprint(filter.Values[0]))
			} else {
				builder.WriteString("1=1")
			}
		case string(StatisticFilterTypePromoType):
			if len(filter.Values) > 0 {
				builder.WriteString("promo_type = ")
				builder.AddVar(builder, fmt.Sprint(filter.Values[0]))
			} else {
				builder.WriteString("1=1")
			}
		default:
			filter.Build(builder)
		}
	}
}

type StatisticResponseDataItem struct {
	Date  string `json:"date,omitempty"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailySubscriptionCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.PromoSubscription{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailySubscriptionCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyRevenue(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.PromoSubscription{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, COALESCE(SUM((extra->>'price')::bigint), 0) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyRevenue)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalRevenue(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
WITH min_max_dates AS (
    SELECT MIN(DATE(created_at)) as min_date, MAX(DATE(created_at)) as max_date
    FROM pcari_promo_subscription
),
distinct_dates AS (
    SELECT generate_series(min_date, max_date, '1 day'::interval) as date FROM min_max_dates
),
revenue_date AS (
    SELECT TO_CHAR(d.date, 'YYYY-MM-DD') as date,
           COALESCE(SUM((s.extra->>'price')::bigint), 0) as value
    FROM distinct_dates d
    LEFT JOIN pcari_promo_subscription s
      ON TO_CHAR(s.created_at, 'YYYY-MM-DD') = TO_CHAR(d.date, 'YYYY-MM-DD')
    GROUP BY d.date
)
SELECT d.date as date, SUM(s.value) as value
FROM revenue_date d
LEFT JOIN revenue_date s ON s.date <= d.date
GROUP BY d.date
ORDER BY d.date DESC
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getActiveSubscriptionCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.PromoSubscription{}).TableName()).
		Select("count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeActiveSubscriptionCount)}}).
		Where("date_expiration > ?", time.Now())
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPromoBreakdown(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.PromoSubscription{}).TableName()).
		Select("extra->>'keyword' as label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypePromoBreakdown)}}).
		Where("date_expiration > ?", time.Now()).
		Group("extra->>'keyword'").
		Order("value DESC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailySMSCount(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.MessageLog{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, SUM(parts) as value").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailySubscriptionCount:
		return s.getDailySubscriptionCount(ctx, request)
	case StatisticTypeDailyRevenue:
		return s.getDailyRevenue(ctx, request)
	case StatisticTypeTotalRevenue:
		return s.getTotalRevenue(ctx, request)
	case StatisticTypeActiveSubscriptionCount:
		return s.getActiveSubscriptionCount(ctx, request)
	case StatisticTypePromoBreakdown:
		return s.getPromoBreakdown(ctx, request)
	case StatisticTypeDailySMSCount:
		return s.getDailySMSCount(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

func (s *Service) GetStatistics(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			// check filter applicability
			for _, filter := range request.Filters {
				ft := StatisticFilterType(filter.Field)
				if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], di.ID) {
					resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: nil}
					return
				}
			}
			res, err := s.getStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]StatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &StatisticResponse{DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
