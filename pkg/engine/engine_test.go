package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTeamNumber(t *testing.T) {
	assert.True(t, ValidTeamNumber(0))
	assert.True(t, ValidTeamNumber(4201))
	assert.True(t, ValidTeamNumber(MaxTeamNumber))
	assert.False(t, ValidTeamNumber(-1))
	assert.False(t, ValidTeamNumber(MaxTeamNumber+1))
}

func TestNullTeamBinding(t *testing.T) {
	n := NewNull()

	require.NoError(t, n.SetTeamNumber(1234))
	assert.Equal(t, 1234, n.TeamNumber())

	err := n.SetTeamNumber(-1)
	assert.ErrorIs(t, err, ErrTeamNumberRange)
	assert.Equal(t, 1234, n.TeamNumber())
}

func TestNullEstopLatches(t *testing.T) {
	n := NewNull()

	n.SetEnabled(true)
	n.EmergencyStop()

	n.mutex.RLock()
	defer n.mutex.RUnlock()
	assert.True(t, n.estop)
	assert.False(t, n.enabled)
}

func TestNullStatusIsNeverConnected(t *testing.T) {
	n := NewNull()
	assert.Equal(t, Status{}, n.Status())
}
