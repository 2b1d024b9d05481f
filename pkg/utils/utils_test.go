package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", h)
	assert.True(t, CheckPassword("hunter22", h))
	assert.False(t, CheckPassword("hunter23", h))
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
}

func TestNewIDSortable(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
