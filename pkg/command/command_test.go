package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domilx/Conductor/pkg/engine"
	"github.com/domilx/Conductor/pkg/state"
)

type fakeEngine struct {
	mutex sync.Mutex

	team       int
	setCalls   int
	enabled    bool
	estopCalls int
}

func (f *fakeEngine) Status() engine.Status { return engine.Status{} }

func (f *fakeEngine) TeamNumber() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.team
}

func (f *fakeEngine) SetTeamNumber(team int) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.team = team
	f.setCalls++
	return nil
}

func (f *fakeEngine) SetEnabled(enabled bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.enabled = enabled
}

func (f *fakeEngine) EmergencyStop() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.estopCalls++
	f.enabled = false
}

func (f *fakeEngine) ConsoleLines() <-chan string { return nil }

func newApplier(eng *fakeEngine) *Applier {
	st := state.New(state.WithEngine(eng))
	return New(WithState(st))
}

func TestApplyTeamNumber(t *testing.T) {
	t.Run("valid number is applied once", func(t *testing.T) {
		eng := &fakeEngine{}
		a := newApplier(eng)

		require.NoError(t, a.ApplyTeamNumber(9999))
		assert.Equal(t, 9999, a.st.TeamNumber())
		assert.Equal(t, 1, eng.setCalls)
	})

	t.Run("invalid number is rejected", func(t *testing.T) {
		eng := &fakeEngine{}
		a := newApplier(eng)

		err := a.ApplyTeamNumber(engine.MaxTeamNumber + 1)
		assert.ErrorIs(t, err, state.ErrTeamNumberRange)
		assert.Zero(t, a.st.TeamNumber())
		assert.Zero(t, eng.setCalls)
	})
}

func TestApplyEnabled(t *testing.T) {
	eng := &fakeEngine{}
	a := newApplier(eng)

	a.ApplyEnabled(true)
	assert.True(t, eng.enabled)

	a.ApplyEnabled(false)
	assert.False(t, eng.enabled)
}

func TestApplyEstop(t *testing.T) {
	eng := &fakeEngine{}
	a := newApplier(eng)

	a.ApplyEnabled(true)
	a.ApplyEstop()
	assert.Equal(t, 1, eng.estopCalls)
	assert.False(t, eng.enabled)
}
