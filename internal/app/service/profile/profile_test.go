package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/platform/db/dbtest"
	"github.com/fatflowers/vcard/pkg/types"
)

func businessInput() *Input {
	return &Input{
		BusinessName: "Acme Coffee",
		Email:        "hello@acme.test",
		Phone:        "+1 (555) 010-2030",
		Website:      "https://acme.test",
		TemplateName: "restaurant",
		ColorScheme:  "professional",
		PrimaryColor: "#112233",
		Services: []types.Service{
			{Name: "Espresso", Price: "$3.50", Category: "Drinks"},
		},
		BusinessHours: types.BusinessHours{
			"monday": {Open: "08:00", Close: "18:00"},
			"sunday": {Closed: true},
		},
	}
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestValidateBusiness(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(businessInput()))

	in := businessInput()
	in.Email = ""
	in.Phone = "12345"
	fields := validationFields(t, v.Validate(in))
	require.Equal(t, "is required", fields["email"])
	require.Equal(t, "must contain at least 10 digits", fields["phone"])
}

func TestValidatePersonal(t *testing.T) {
	v := NewValidator()
	in := &Input{FirstName: "Ada", Email: "ada@example.com"}
	fields := validationFields(t, v.Validate(in))
	require.Equal(t, map[string]string{"last_name": "is required"}, fields)

	in.LastName = "Lovelace"
	require.NoError(t, v.Validate(in))
}

func TestValidateNested(t *testing.T) {
	v := NewValidator()
	in := businessInput()
	in.Services = append(in.Services, types.Service{Price: "cheap"})
	in.Gallery = []types.GalleryImage{{URL: "not a url"}}
	in.BusinessHours["funday"] = types.DaySchedule{Open: "9am"}
	in.TemplateName = "spaceship"
	in.PrimaryColor = "#fff"

	fields := validationFields(t, v.Validate(in))
	require.Equal(t, "is required", fields["services[1].name"])
	require.Equal(t, "must be a number", fields["services[1].price"])
	require.Equal(t, "must be a valid URL", fields["gallery[0].url"])
	require.Equal(t, "unknown template", fields["template_name"])
	require.Equal(t, "must be a #rrggbb color", fields["primary_color"])
	require.Contains(t, fields, "business_hours[funday]")
}

func TestInputApply(t *testing.T) {
	p := &models.Profile{ID: "p1", OwnerID: "u1", Views: 7}
	in := businessInput()
	in.BusinessName = "  Acme Coffee  "
	in.Apply(p)

	require.Equal(t, "Acme Coffee", p.BusinessName)
	require.Equal(t, "u1", p.OwnerID)
	require.EqualValues(t, 7, p.Views)
	require.Len(t, p.Services(), 1)
	require.Equal(t, "08:00", p.BusinessHours()["monday"].Open)
	require.True(t, p.IsBusiness())

	preview := in.Preview()
	require.Equal(t, "preview", preview.ID)
	require.Equal(t, "Acme Coffee", preview.DisplayName())
}

func TestIncrementCounterSQL(t *testing.T) {
	db := dbtest.DryRun(t)
	stmts := dbtest.CaptureSQL(t, db)

	require.NoError(t, IncrementCounter(db, "p1", "views"))
	require.Contains(t, stmts.Last(), `UPDATE "vcard_profile" SET "views"=views + $1`)
	require.Contains(t, stmts.Last(), "WHERE id = $2")

	err := IncrementCounter(db, "p1", "id")
	require.ErrorIs(t, err, ErrUnknownCounter)
	require.Len(t, stmts.All(), 1)
}

func TestIncrementCounter(t *testing.T) {
	db := dbtest.SQLite(t)
	require.NoError(t, db.Create(&models.Profile{ID: "p1", OwnerID: "u1", FirstName: "Ada", LastName: "Lovelace"}).Error)

	require.NoError(t, IncrementCounter(db, "p1", "views"))
	require.NoError(t, IncrementCounter(db, "p1", "views"))
	require.NoError(t, IncrementCounter(db, "p1", "qr_scans"))

	var p models.Profile
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	require.EqualValues(t, 2, p.Views)
	require.EqualValues(t, 1, p.QRScans)
	require.Zero(t, p.Downloads)

	require.ErrorIs(t, IncrementCounter(db, "missing", "views"), ErrProfileNotFound)
}

func TestActorCanManage(t *testing.T) {
	require.True(t, types.Actor{UserID: "u1", Role: types.RoleBusinessOwner}.CanManage("u1"))
	require.False(t, types.Actor{UserID: "u2", Role: types.RoleBusinessOwner}.CanManage("u1"))
	require.True(t, types.Actor{UserID: "admin", Role: types.RoleAdmin}.CanManage("u1"))
	require.False(t, types.Actor{}.CanManage(""))
}

type fixedPlan struct{ plan *types.Plan }

func (f fixedPlan) ActivePlan(context.Context, string) (*types.Plan, error) { return f.plan, nil }

func TestCreate_EnforcesPlanLimitAndDeleteCascades(t *testing.T) {
	db := dbtest.SQLite(t)
	s := &Service{db: db, log: zap.NewNop().Sugar(), plans: fixedPlan{&types.Plan{ID: "trial", MaxProfiles: 1}}, validator: NewValidator()}
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", businessInput())
	require.NoError(t, err)
	require.Len(t, p.ID, 36)

	_, err = s.Create(ctx, "u1", businessInput())
	require.ErrorIs(t, err, ErrPlanLimitReached)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Coffee", got.BusinessName)
	require.Len(t, got.Services(), 1)
	require.Equal(t, "08:00", got.BusinessHours()["monday"].Open)

	require.NoError(t, db.Create(&models.ShortURL{Code: "acme-coffee", ProfileID: p.ID}).Error)
	require.NoError(t, db.Create(&models.SavedContact{ID: "c1", UserID: "u2", ProfileID: p.ID, SavedAt: time.Now()}).Error)

	require.ErrorIs(t, s.Delete(ctx, types.Actor{UserID: "u2", Role: types.RoleBusinessOwner}, p.ID), ErrForbidden)
	require.NoError(t, s.Delete(ctx, types.Actor{UserID: "u1", Role: types.RoleBusinessOwner}, p.ID))

	_, err = s.Get(ctx, p.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)
	var n int64
	require.NoError(t, db.Model(&models.ShortURL{}).Where("profile_id = ?", p.ID).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, db.Model(&models.SavedContact{}).Where("profile_id = ?", p.ID).Count(&n).Error)
	require.Zero(t, n)
}
