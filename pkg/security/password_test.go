package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", h)
	require.True(t, CheckPassword(h, "hunter22"))
	require.False(t, CheckPassword(h, "hunter23"))
}

func TestNewResetCodeShape(t *testing.T) {
	c, err := NewResetCode()
	require.NoError(t, err)
	require.Len(t, c, 6)
	for _, r := range c {
		require.True(t, r >= '0' && r <= '9')
	}
}
