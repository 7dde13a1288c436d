package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/vcard/pkg/types"
)

func TestJSONList_ScanMalformedIsEmpty(t *testing.T) {
	var l JSONList[types.Service]
	require.NoError(t, l.Scan([]byte(`{not json`)))
	require.Empty(t, l)

	require.NoError(t, l.Scan(`[{"name":"Cut","price":"$20"}]`))
	require.Len(t, l, 1)
	require.Equal(t, "Cut", l[0].Name)

	require.NoError(t, l.Scan(nil))
	require.Nil(t, l)

	v, err := JSONList[types.Service](nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestJSONHours_ScanMalformedIsEmpty(t *testing.T) {
	var h JSONHours
	require.NoError(t, h.Scan(`"monday"`))
	require.Empty(t, h)

	require.NoError(t, h.Scan(`{"monday":{"open":"08:00","close":"16:00"}}`))
	require.Equal(t, "08:00", h["monday"].Open)
}

func TestProfile_IsBusinessAndFields(t *testing.T) {
	p := &Profile{ID: "p1", FirstName: " Ada ", LastName: "Lovelace", LinkedIn: "https://linkedin.com/in/ada", Facebook: "https://fb.com/ada"}
	require.False(t, p.IsBusiness())
	require.Equal(t, types.ProfileTypePersonal, p.Type())
	require.Equal(t, "Ada", p.Field("first_name"))
	require.Equal(t, "p1", p.Field("id"))
	require.Equal(t, "", p.Field("unknown"))
	require.Equal(t, "Ada Lovelace", p.DisplayName())

	links := p.SocialLinks()
	require.Len(t, links, 2)
	require.Equal(t, types.SocialFacebook, links[0].Platform)
	require.Equal(t, types.SocialLinkedIn, links[1].Platform)

	p.ServiceList = JSONList[types.Service]{{Name: "Consulting"}}
	require.True(t, p.IsBusiness())
}

func TestProfile_ContactSnapshotDropsEmpty(t *testing.T) {
	p := &Profile{BusinessName: "Acme", Email: "hi@acme.test"}
	snap := p.ContactSnapshot()
	require.Equal(t, map[string]string{"name": "Acme", "email": "hi@acme.test"}, snap)
}
