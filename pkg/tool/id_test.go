package tool

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDV7(t *testing.T) {
	id, err := uuid.Parse(GenerateUUIDV7())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), id.Version())
}

func TestRandomCode(t *testing.T) {
	code := RandomCode(8)
	require.Regexp(t, regexp.MustCompile(`^[a-zA-Z0-9]{8}$`), code)
	require.NotEqual(t, code, RandomCode(8))
}
