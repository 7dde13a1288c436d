package sharing

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/schema"

	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/models"
	"github.com/fatflowers/vcard/internal/platform/db/dbtest"
	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/tool"
	"github.com/fatflowers/vcard/pkg/types"
)

type stubTracker struct {
	events []*analytics.Event
	err    error
}

func (s *stubTracker) Track(_ context.Context, ev *analytics.Event) error {
	s.events = append(s.events, ev)
	return s.err
}

func testService(tr Tracker) *Service {
	cfg := &config.Config{
		Site:    config.SiteConfig{BaseURL: "https://cards.example.com/"},
		Sharing: config.SharingConfig{QRBaseURL: "https://chart.googleapis.com/chart", QRSize: 300},
	}
	return &Service{cfg: cfg, log: zap.NewNop().Sugar(), tracker: tr}
}

func business() *models.Profile {
	return &models.Profile{
		ID:              "0190-abc",
		BusinessName:    "Joe's Pizza & Pasta Co. of Brooklyn",
		BusinessTagline: "Since 1975",
		ServiceList: []types.Service{
			{Name: "Dine-in"}, {Name: "Takeout"}, {Name: "Catering"}, {Name: "Delivery"},
		},
	}
}

func TestQRCodeURL(t *testing.T) {
	o := QROptions{}.withDefaults(0)
	raw := QRCodeURL("https://chart.googleapis.com/chart", "https://cards.example.com/p/1", o)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "300x300", q.Get("chs"))
	require.Equal(t, "qr", q.Get("cht"))
	require.Equal(t, "https://cards.example.com/p/1", q.Get("chl"))
	require.Equal(t, "UTF-8", q.Get("choe"))
	require.Equal(t, "M|4", q.Get("chld"))
	require.False(t, q.Has("chco"))

	margin := 1
	o = QROptions{Size: 150, ErrorCorrection: "H", Margin: &margin, Foreground: "#ff0000"}.withDefaults(300)
	u, err = url.Parse(QRCodeURL("https://chart.googleapis.com/chart", "x", o))
	require.NoError(t, err)
	require.Equal(t, "150x150", u.Query().Get("chs"))
	require.Equal(t, "H|1", u.Query().Get("chld"))
	require.Equal(t, "FF0000,FFFFFF", u.Query().Get("chco"))
}

func TestShareTitle(t *testing.T) {
	require.Equal(t, "Joe's Pizza & Pasta Co. of Brooklyn - Since 1975", ShareTitle(business()))
	require.Equal(t, "Ada Lovelace - Analyst at Engines Ltd", ShareTitle(&models.Profile{FirstName: "Ada", LastName: "Lovelace", JobTitle: "Analyst", Company: "Engines Ltd"}))
	require.Equal(t, "Ada Lovelace - Engines Ltd", ShareTitle(&models.Profile{FirstName: "Ada", LastName: "Lovelace", Company: "Engines Ltd"}))
	require.Equal(t, "vCard Profile", ShareTitle(&models.Profile{}))
}

func TestShareDescription(t *testing.T) {
	require.Equal(t, "Services: Dine-in, Takeout, Catering and more", ShareDescription(business()))

	p := business()
	p.BusinessDescription = strings.Repeat("word ", 25)
	require.Equal(t, strings.TrimSpace(strings.Repeat("word ", 20))+"…", ShareDescription(p))

	require.Equal(t, "Check out this professional profile", ShareDescription(&models.Profile{FirstName: "Ada"}))
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks(business(), "https://cards.example.com/p/1")
	require.Len(t, links, len(SharePlatforms))
	for i, l := range links {
		require.Equal(t, SharePlatforms[i], l.Platform)
	}
	require.Equal(t, "https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fcards.example.com%2Fp%2F1", links[0].URL)
	require.True(t, strings.HasPrefix(links[3].URL, "https://wa.me/?text=Joe%27s+Pizza"))
	require.Equal(t, "copy-link", links[6].Action)
}

func TestSlugAndCandidates(t *testing.T) {
	require.Equal(t, "joe-s-pizza-pasta-co", Slug("Joe's Pizza & Pasta Co. of Brooklyn"))
	require.Equal(t, "a-b", Slug("  --A  B--  "))
	require.Equal(t, "", Slug("!!!"))

	require.Equal(t, []string{"joe-s-pizza-pasta-co", "joe-s-pizza-pasta-co-0190abc"}, codeCandidates(business()))
	require.Equal(t, []string{"ada-lovelace", "ada-lovelace-p2"}, codeCandidates(&models.Profile{ID: "p2", FirstName: "Ada", LastName: "Lovelace"}))
	require.Nil(t, codeCandidates(&models.Profile{ID: "p3"}))
}

func shortCodeSize(t *testing.T) int {
	t.Helper()
	sch, err := schema.Parse(&models.ShortURL{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	field := sch.LookUpField("code")
	require.NotNil(t, field)
	m := regexp.MustCompile(`\((\d+)\)`).FindStringSubmatch(field.TagSettings["TYPE"])
	require.Len(t, m, 2, field.TagSettings["TYPE"])
	size, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return size
}

func TestCodeCandidatesFitColumn(t *testing.T) {
	size := shortCodeSize(t)
	p := business()
	p.ID = tool.GenerateUUIDV7()
	candidates := codeCandidates(p)
	require.Len(t, candidates, 2)
	require.Len(t, candidates[0], maxSlugLen)
	for _, c := range append(candidates, tool.RandomCode(randomCodeLen)) {
		require.LessOrEqual(t, len(c), size, c)
	}
	require.True(t, strings.HasSuffix(candidates[1], strings.ReplaceAll(p.ID, "-", "")[32-idSuffixLen:]))
}

func TestEnsureShortURL(t *testing.T) {
	db := dbtest.SQLite(t)
	tr := &stubTracker{}
	s := testService(tr)
	s.db = db
	ctx := context.Background()

	first := &models.Profile{ID: tool.GenerateUUIDV7(), OwnerID: "u1", BusinessName: "Acme Coffee"}
	second := &models.Profile{ID: tool.GenerateUUIDV7(), OwnerID: "u2", BusinessName: "Acme Coffee"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	row, u, err := s.EnsureShortURL(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "acme-coffee", row.Code)
	require.Equal(t, "https://cards.example.com/vc/acme-coffee", u)

	again, _, err := s.EnsureShortURL(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "acme-coffee", again.Code)

	// the slug is taken, so the second profile gets the ID-suffixed candidate
	row, _, err = s.EnsureShortURL(ctx, second)
	require.NoError(t, err)
	require.Equal(t, codeCandidates(second)[1], row.Code)

	target, err := s.ResolveShortURL(ctx, "acme-coffee", analytics.Visitor{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, "https://cards.example.com/p/"+first.ID, target)
	var stored models.ShortURL
	require.NoError(t, db.First(&stored, "code = ?", "acme-coffee").Error)
	require.EqualValues(t, 1, stored.Clicks)
	require.Len(t, tr.events, 1)
	require.Equal(t, types.EventTypeShortURLClick, tr.events[0].Type)

	_, err = s.ResolveShortURL(ctx, "nope", analytics.Visitor{})
	require.ErrorIs(t, err, ErrShortURLNotFound)
}

func TestEmbedCode(t *testing.T) {
	code := EmbedCode(business(), "https://cards.example.com/p/1", EmbedOptions{})
	require.Contains(t, code, `width="300" height="400"`)
	require.Contains(t, code, "embed=1&amp;height=400&amp;show_contact_form=0&amp;show_qr=1&amp;theme=light&amp;width=300")
	require.Contains(t, code, `title="Joe&#39;s Pizza &amp; Pasta Co. of Brooklyn - Since 1975"`)
}

func TestNFCData(t *testing.T) {
	nfc := NFCData("https://cards.example.com/p/1")
	require.Equal(t, "url", nfc.Type)
	require.Equal(t, "https://cards.example.com/p/1", nfc.Data)
	require.Contains(t, nfc.Instructions, "ios")
}

func TestGenerateQRTracksScan(t *testing.T) {
	tr := &stubTracker{}
	s := testService(tr)
	qr, err := s.GenerateQR(context.Background(), business(), QROptions{}, analytics.Visitor{IP: "203.0.113.9"})
	require.NoError(t, err)
	require.Equal(t, "https://cards.example.com/p/0190-abc", qr.ProfileURL)
	require.Len(t, tr.events, 1)
	require.Equal(t, types.EventTypeQRScan, tr.events[0].Type)
	require.Equal(t, "203.0.113.9", tr.events[0].Visitor.IP)
}

func TestTrackShare(t *testing.T) {
	tr := &stubTracker{}
	s := testService(tr)

	require.ErrorIs(t, s.TrackShare(context.Background(), business(), "myspace", nil, analytics.Visitor{}), ErrInvalidPlatform)
	require.NoError(t, s.TrackShare(context.Background(), business(), " WhatsApp ", nil, analytics.Visitor{}))
	require.Len(t, tr.events, 1)
	require.Equal(t, "whatsapp", tr.events[0].Platform)
	require.Equal(t, types.EventTypeShare, tr.events[0].Type)
}
