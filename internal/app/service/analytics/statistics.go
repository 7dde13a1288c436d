package analytics

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/pkg/types"
)

type StatisticType string

const (
	StatisticTypeDailyViews          StatisticType = "daily_views"
	StatisticTypeDailyDownloads      StatisticType = "daily_downloads"
	StatisticTypeDailyQRScans        StatisticType = "daily_qr_scans"
	StatisticTypeDailyShares         StatisticType = "daily_shares"
	StatisticTypeDailyContactSaves   StatisticType = "daily_contact_saves"
	StatisticTypeDailyShortURLClicks StatisticType = "daily_short_url_clicks"
	StatisticTypeDailyUniqueVisitors StatisticType = "daily_unique_visitors"
	StatisticTypeTotalEventsByType   StatisticType = "total_events_by_type"
)

var dailyEventTypes = map[StatisticType]types.EventType{
	StatisticTypeDailyViews:          types.EventTypeView,
	StatisticTypeDailyDownloads:      types.EventTypeDownload,
	StatisticTypeDailyQRScans:        types.EventTypeQRScan,
	StatisticTypeDailyShares:         types.EventTypeShare,
	StatisticTypeDailyContactSaves:   types.EventTypeContactSave,
	StatisticTypeDailyShortURLClicks: types.EventTypeShortURLClick,
}

// FilterColumns are the event columns statistics may be filtered on.
var FilterColumns = []string{"profile_id", "created_at", "platform", "user_id"}

var ErrInvalidFilter = errors.New("invalid filter")

// Valid reports whether t names a statistic this service can compute.
func (t StatisticType) Valid() bool {
	if _, ok := dailyEventTypes[t]; ok {
		return true
	}
	return t == StatisticTypeDailyUniqueVisitors || t == StatisticTypeTotalEventsByType
}

type EventStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type EventStatisticRequest struct {
	Filters   []*types.CommonFilter     `json:"filters"`
	DataItems []*EventStatisticDataItem `json:"data_items"`
}

// Validate rejects filters on columns outside FilterColumns and data items that
// are null or name an unknown statistic.
func (r *EventStatisticRequest) Validate() error {
	for _, f := range r.Filters {
		if f == nil || !f.Allowed(FilterColumns) {
			field := ""
			if f != nil {
				field = f.Field
			}
			return fmt.Errorf("%w: field %q", ErrInvalidFilter, field)
		}
	}
	if len(r.DataItems) == 0 {
		return fmt.Errorf("%w: no data items", ErrInvalidFilter)
	}
	for i, item := range r.DataItems {
		if item == nil {
			return fmt.Errorf("%w: data item %d is null", ErrInvalidFilter, i)
		}
		if !item.ID.Valid() {
			return fmt.Errorf("%w: unknown data item %q", ErrInvalidFilter, item.ID)
		}
	}
	return nil
}

// Day is a calendar date scanned from DATE(...) columns. Drivers return it as
// time.Time or as text depending on dialect and DSN options.
type Day string

func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Day(v.Format(time.DateOnly))
	case []byte:
		*d = Day(truncate(string(v), len(time.DateOnly)))
	case string:
		*d = Day(truncate(v, len(time.DateOnly)))
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
	return nil
}

func (d Day) Value() (driver.Value, error) {
	return string(d), nil
}

type EventStatisticResponseDataItem struct {
	Date  Day    `json:"date,omitempty"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type EventStatisticResponse struct {
	DataItems map[StatisticType][]EventStatisticResponseDataItem `json:"data_items"`
}

func (s *Service) eventQuery(ctx context.Context, request *EventStatisticRequest) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Clauses(clause.Where{Exprs: []clause.Expression{types.Filters(request.Filters)}})
}

func (s *Service) getDailyEventCount(ctx context.Context, request *EventStatisticRequest, eventType types.EventType) ([]EventStatisticResponseDataItem, error) {
	var results []EventStatisticResponseDataItem
	err := s.eventQuery(ctx, request).
		Select("DATE(created_at) AS date, COUNT(*) AS value").
		Where("event_type = ?", eventType).
		Group("DATE(created_at)").
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyUniqueVisitors(ctx context.Context, request *EventStatisticRequest) ([]EventStatisticResponseDataItem, error) {
	var results []EventStatisticResponseDataItem
	err := s.eventQuery(ctx, request).
		Select("DATE(created_at) AS date, COUNT(DISTINCT COALESCE(NULLIF(session_id, ''), visitor_ip)) AS value").
		Group("DATE(created_at)").
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalEventsByType(ctx context.Context, request *EventStatisticRequest) ([]EventStatisticResponseDataItem, error) {
	var results []EventStatisticResponseDataItem
	err := s.eventQuery(ctx, request).
		Select("event_type AS label, COUNT(*) AS value").
		Group("event_type").
		Order("value DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getEventStatistic(ctx context.Context, request *EventStatisticRequest, dataItem *EventStatisticDataItem) ([]EventStatisticResponseDataItem, error) {
	if eventType, ok := dailyEventTypes[dataItem.ID]; ok {
		return s.getDailyEventCount(ctx, request, eventType)
	}
	switch dataItem.ID {
	case StatisticTypeDailyUniqueVisitors:
		return s.getDailyUniqueVisitors(ctx, request)
	case StatisticTypeTotalEventsByType:
		return s.getTotalEventsByType(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetDailyEventStatistic computes every requested data item concurrently.
func (s *Service) GetDailyEventStatistic(ctx context.Context, request *EventStatisticRequest) (*EventStatisticResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []EventStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *EventStatisticDataItem) {
			defer wg.Done()
			res, err := s.getEventStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []EventStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)

	if err, ok := <-errChan; ok {
		return nil, err
	}
	results := make(map[StatisticType][]EventStatisticResponseDataItem, len(request.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &EventStatisticResponse{DataItems: results}, nil
}
