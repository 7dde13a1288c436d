package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBusinessHours(t *testing.T) {
	require.Nil(t, FormatBusinessHours(nil))

	days := FormatBusinessHours(BusinessHours{
		"monday":  {Open: "08:30", Close: "18:00"},
		"tuesday": {},
		"sunday":  {Closed: true},
	})
	require.Len(t, days, 7)
	require.Equal(t, "Monday", days[0].Label)
	require.Equal(t, "08:30 - 18:00", days[0].Status)
	require.Equal(t, "09:00 - 17:00", days[1].Status)
	require.True(t, days[2].Closed)
	require.Equal(t, "Closed", days[6].Status)
}

func TestEventType_Counter(t *testing.T) {
	require.Equal(t, "views", EventTypeView.Counter())
	require.Equal(t, "qr_scans", EventTypeQRScan.Counter())
	require.Equal(t, "", EventTypeShortURLClick.Counter())
}

func TestRole_Valid(t *testing.T) {
	require.True(t, RoleAdmin.Valid())
	require.True(t, RoleEndUser.Valid())
	require.False(t, Role("").Valid())
	require.False(t, Role("root").Valid())
}

func TestTitleCase(t *testing.T) {
	require.Equal(t, "Linkedin", TitleCase("linkedin"))
	require.Equal(t, "Wednesday", TitleCase("wednesday"))
}
