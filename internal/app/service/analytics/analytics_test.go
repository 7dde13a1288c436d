package analytics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/platform/db/dbtest"
	"github.com/fatflowers/vcard/pkg/types"
)

func TestDayScan(t *testing.T) {
	var d Day
	require.NoError(t, d.Scan(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, Day("2024-03-09"), d)

	require.NoError(t, d.Scan([]byte("2024-03-10")))
	require.Equal(t, Day("2024-03-10"), d)

	require.NoError(t, d.Scan("2024-03-11 00:00:00"))
	require.Equal(t, Day("2024-03-11"), d)

	require.NoError(t, d.Scan(nil))
	require.Equal(t, Day(""), d)

	require.Error(t, d.Scan(42))
}

func TestEventStatisticRequestValidate(t *testing.T) {
	req := &EventStatisticRequest{
		Filters:   []*types.CommonFilter{{Field: "profile_id", Operator: types.CommonFilterOperatorEq, Values: []any{"p1"}}},
		DataItems: []*EventStatisticDataItem{{ID: StatisticTypeDailyViews}},
	}
	require.NoError(t, req.Validate())

	req.Filters = append(req.Filters, &types.CommonFilter{Field: "visitor_ip; DROP TABLE x", Operator: types.CommonFilterOperatorEq, Values: []any{"1"}})
	require.ErrorIs(t, req.Validate(), ErrInvalidFilter)

	require.ErrorIs(t, (&EventStatisticRequest{}).Validate(), ErrInvalidFilter)

	withItems := func(items ...*EventStatisticDataItem) *EventStatisticRequest {
		return &EventStatisticRequest{DataItems: items}
	}
	require.ErrorIs(t, withItems(nil).Validate(), ErrInvalidFilter)
	require.ErrorIs(t, withItems(&EventStatisticDataItem{ID: StatisticTypeDailyViews}, nil).Validate(), ErrInvalidFilter)
	require.ErrorIs(t, withItems(&EventStatisticDataItem{ID: "weekly_views"}).Validate(), ErrInvalidFilter)
	require.NoError(t, withItems(&EventStatisticDataItem{ID: StatisticTypeTotalEventsByType}).Validate())
}

func TestGetDailyEventStatistic(t *testing.T) {
	s := NewService(dbtest.DryRun(t), zap.NewNop().Sugar())
	req := &EventStatisticRequest{
		Filters: []*types.CommonFilter{
			{Field: "created_at", Operator: types.CommonFilterOperatorDateRange, Values: []any{"2024-01-01", "2024-01-31"}},
		},
		DataItems: []*EventStatisticDataItem{
			{ID: StatisticTypeDailyViews},
			{ID: StatisticTypeDailyUniqueVisitors},
			{ID: StatisticTypeTotalEventsByType},
		},
	}
	res, err := s.GetDailyEventStatistic(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.DataItems, 3)
	require.Contains(t, res.DataItems, StatisticTypeTotalEventsByType)

	req.DataItems = append(req.DataItems, &EventStatisticDataItem{ID: "daily_nonsense"})
	_, err = s.GetDailyEventStatistic(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidFilter)

	req.DataItems = []*EventStatisticDataItem{{ID: StatisticTypeDailyViews}, nil}
	_, err = s.GetDailyEventStatistic(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestDailyEventQuerySQL(t *testing.T) {
	s := NewService(dbtest.DryRun(t), zap.NewNop().Sugar())
	req := &EventStatisticRequest{
		Filters: []*types.CommonFilter{{Field: "profile_id", Operator: types.CommonFilterOperatorEq, Values: []any{"p1"}}},
	}
	var rows []EventStatisticResponseDataItem
	stmt := s.eventQuery(context.Background(), req).
		Select("DATE(created_at) AS date, COUNT(*) AS value").
		Where("event_type = ?", types.EventTypeView).
		Group("DATE(created_at)").
		Find(&rows).Statement

	sql := stmt.SQL.String()
	require.Contains(t, sql, `FROM "vcard_analytics"`)
	require.Contains(t, sql, `"profile_id" = $1`)
	require.Contains(t, sql, "event_type = $2")
	require.Contains(t, sql, "GROUP BY DATE(created_at)")
}

func TestTrackRejectsUnknownType(t *testing.T) {
	s := NewService(dbtest.DryRun(t), zap.NewNop().Sugar())
	err := s.Track(context.Background(), &Event{ProfileID: "p1", Type: "like"})
	require.ErrorIs(t, err, ErrInvalidEventType)
}

func TestTrack_AppendsEventAndBumpsCounter(t *testing.T) {
	db := dbtest.SQLite(t)
	require.NoError(t, db.Create(&models.Profile{ID: "p1", OwnerID: "u1", BusinessName: "Acme"}).Error)
	s := NewService(db, zap.NewNop().Sugar())
	ctx := context.Background()

	visitor := Visitor{IP: "10.0.0.1", UserAgent: strings.Repeat("a", 600), SessionID: "s1"}
	require.NoError(t, s.Track(ctx, &Event{ProfileID: "p1", Type: types.EventTypeView, Visitor: visitor}))
	require.NoError(t, s.Track(ctx, &Event{ProfileID: "p1", Type: types.EventTypeShare, Platform: "linkedin", Data: map[string]any{"source": "card"}}))
	require.NoError(t, s.Track(ctx, &Event{ProfileID: "p1", Type: types.EventTypeShortURLClick}))

	var p models.Profile
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	require.EqualValues(t, 1, p.Views)
	require.EqualValues(t, 1, p.Shares)

	var events []*models.AnalyticsEvent
	require.NoError(t, db.Where("profile_id = ?", "p1").Order("created_at").Find(&events).Error)
	require.Len(t, events, 3)
	require.Equal(t, types.EventTypeView, events[0].EventType)
	require.Len(t, events[0].UserAgent, 512)
	require.Equal(t, "linkedin", events[1].Platform)
	require.Equal(t, "card", events[1].EventData["source"])
	require.Equal(t, types.EventTypeShortURLClick, events[2].EventType)

	sum, err := s.ProfileSummary(ctx, &p)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"linkedin": 1}, sum.SharesByPlatform)
	require.Len(t, sum.RecentEvents, 3)
}

func TestTrack_UnknownProfileLeavesNoEvent(t *testing.T) {
	db := dbtest.SQLite(t)
	s := NewService(db, zap.NewNop().Sugar())

	err := s.Track(context.Background(), &Event{ProfileID: "missing", Type: types.EventTypeDownload})
	require.ErrorIs(t, err, profile.ErrProfileNotFound)

	var n int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestTotalEventsByType(t *testing.T) {
	db := dbtest.SQLite(t)
	require.NoError(t, db.Create(&models.Profile{ID: "p1", OwnerID: "u1", BusinessName: "Acme"}).Error)
	require.NoError(t, db.Create(&models.Profile{ID: "p2", OwnerID: "u1", BusinessName: "Other"}).Error)
	s := NewService(db, zap.NewNop().Sugar())
	ctx := context.Background()
	for _, ev := range []*Event{
		{ProfileID: "p1", Type: types.EventTypeView},
		{ProfileID: "p1", Type: types.EventTypeView},
		{ProfileID: "p1", Type: types.EventTypeDownload},
		{ProfileID: "p2", Type: types.EventTypeView},
	} {
		require.NoError(t, s.Track(ctx, ev))
	}

	res, err := s.GetDailyEventStatistic(ctx, &EventStatisticRequest{
		Filters:   []*types.CommonFilter{{Field: "profile_id", Operator: types.CommonFilterOperatorEq, Values: []any{"p1"}}},
		DataItems: []*EventStatisticDataItem{{ID: StatisticTypeTotalEventsByType}},
	})
	require.NoError(t, err)
	require.Equal(t, []EventStatisticResponseDataItem{
		{Label: string(types.EventTypeView), Value: 2},
		{Label: string(types.EventTypeDownload), Value: 1},
	}, res.DataItems[StatisticTypeTotalEventsByType])
}
