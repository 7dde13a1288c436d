package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/platform/db/dbtest"
	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/types"
)

func intPtr(v int) *int { return &v }

func testService() *Service {
	cfg := &config.Config{
		DefaultPlan: "trial",
		Plans: []*types.Plan{
			{ID: "trial", MaxProfiles: 1, DurationDays: intPtr(14)},
			{ID: "professional", MaxProfiles: 5, Price: 2900, Currency: "USD", DurationDays: intPtr(30)},
		},
	}
	return &Service{cfg: cfg, now: time.Now}
}

func TestPlanFor(t *testing.T) {
	s := testService()
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	require.Equal(t, "trial", s.planFor(nil).ID)
	require.Equal(t, "professional", s.planFor(&models.Subscription{Plan: "professional", Status: types.SubscriptionStatusActive, ExpireAt: &future}).ID)
	require.Equal(t, "professional", s.planFor(&models.Subscription{Plan: "professional", Status: types.SubscriptionStatusActive}).ID)
	require.Equal(t, "trial", s.planFor(&models.Subscription{Plan: "professional", Status: types.SubscriptionStatusActive, ExpireAt: &past}).ID)
	require.Equal(t, "trial", s.planFor(&models.Subscription{Plan: "professional", Status: types.SubscriptionStatusCancelled, ExpireAt: &future}).ID)
	require.Equal(t, "trial", s.planFor(&models.Subscription{Plan: "gone", Status: types.SubscriptionStatusActive}).ID)
}

func TestAmountFor(t *testing.T) {
	plan := &types.Plan{Price: 2900}
	require.EqualValues(t, 2900, amountFor(plan, types.BillingCycleMonthly))
	require.EqualValues(t, 34800, amountFor(plan, types.BillingCycleYearly))
}

func sqliteService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	s := testService()
	s.db = dbtest.SQLite(t)
	s.log = zap.NewNop().Sugar()
	return s, s.db
}

func TestUpsert_OneRowPerUser(t *testing.T) {
	s, db := sqliteService(t)
	ctx := context.Background()

	first, err := s.Upsert(ctx, &UpsertRequest{UserID: "u1", PlanID: "trial", AutoRenew: lo.ToPtr(false)})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, got.AutoRenew)
	require.Equal(t, types.BillingCycleMonthly, got.BillingCycle)

	second, err := s.Upsert(ctx, &UpsertRequest{UserID: "u1", PlanID: "professional", BillingCycle: types.BillingCycleYearly})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var rows []*models.Subscription
	require.NoError(t, db.Where("user_id = ?", "u1").Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, "professional", rows[0].Plan)
	require.EqualValues(t, 34800, rows[0].Amount)
	require.True(t, rows[0].AutoRenew)
	require.WithinDuration(t, first.CreatedAt, rows[0].CreatedAt, time.Millisecond)

	plan, err := s.ActivePlan(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "professional", plan.ID)

	_, err = s.Upsert(ctx, &UpsertRequest{UserID: "u1", PlanID: "enterprise"})
	require.ErrorIs(t, err, ErrPlanNotFound)

	// one change log per upsert, written in the background
	require.Eventually(t, func() bool {
		var n int64
		return db.Model(&models.SubscriptionLog{}).Where("user_id = ?", "u1").Count(&n).Error == nil && n == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCancel_KeepsPeriod(t *testing.T) {
	s, _ := sqliteService(t)
	ctx := context.Background()

	sub, err := s.Upsert(ctx, &UpsertRequest{UserID: "u1", PlanID: "professional"})
	require.NoError(t, err)
	require.NotNil(t, sub.ExpireAt)

	require.NoError(t, s.Cancel(ctx, "u1", "admin"))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, sub.ID, got.ID)
	require.Equal(t, types.SubscriptionStatusCancelled, got.Status)
	require.False(t, got.AutoRenew)
	require.NotNil(t, got.PeriodStart)
	require.NotNil(t, got.ExpireAt)
	require.WithinDuration(t, *sub.PeriodStart, *got.PeriodStart, time.Millisecond)
	require.WithinDuration(t, *sub.ExpireAt, *got.ExpireAt, time.Millisecond)

	plan, err := s.ActivePlan(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "trial", plan.ID)

	// cancelling a user without a subscription is a no-op
	require.NoError(t, s.Cancel(ctx, "nobody", "admin"))
	none, err := s.Get(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, none)
}
