package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domilx/Conductor/pkg/engine"
	"github.com/domilx/Conductor/pkg/relay"
)

// fakeEngine records every call so tests can assert on notification
// counts.
type fakeEngine struct {
	mutex sync.Mutex

	team     int
	setCalls int
	status   engine.Status
}

func (f *fakeEngine) Status() engine.Status { return f.status }

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

func (f *fakeEngine) SetEnabled(_ bool) {}

func (f *fakeEngine) EmergencyStop() {}

func (f *fakeEngine) ConsoleLines() <-chan string { return nil }

func TestSetTeamNumber(t *testing.T) {
	valid := []int{0, 1, 4201, engine.MaxTeamNumber}
	for _, team := range valid {
		eng := &fakeEngine{}
		st := New(WithEngine(eng))

		require.NoError(t, st.SetTeamNumber(team))
		assert.Equal(t, team, st.TeamNumber())
		assert.Equal(t, 1, eng.setCalls)
	}
}

func TestSetTeamNumberIdempotent(t *testing.T) {
	eng := &fakeEngine{}
	st := New(WithEngine(eng))

	require.NoError(t, st.SetTeamNumber(4201))
	require.NoError(t, st.SetTeamNumber(4201))

	assert.Equal(t, 4201, st.TeamNumber())
	// One engine notification per call, never more.
	assert.Equal(t, 2, eng.setCalls)
}

func TestSetTeamNumberRejectsOutOfRange(t *testing.T) {
	invalid := []int{-1, -4201, engine.MaxTeamNumber + 1}
	for _, team := range invalid {
		eng := &fakeEngine{}
		st := New(WithEngine(eng), WithTeamNumber(1234))

		err := st.SetTeamNumber(team)
		assert.ErrorIs(t, err, ErrTeamNumberRange)
		assert.Equal(t, 1234, st.TeamNumber(), "state must be unchanged after rejection")
		assert.Zero(t, eng.setCalls, "engine must not hear about rejected numbers")
	}
}

// gatedEngine stalls SetTeamNumber until the gate opens, standing in
// for a rebind stuck on broker round trips.
type gatedEngine struct {
	fakeEngine
	gate chan struct{}
}

func (g *gatedEngine) SetTeamNumber(team int) error {
	<-g.gate
	return g.fakeEngine.SetTeamNumber(team)
}

func TestSetTeamNumberDoesNotBlockReaders(t *testing.T) {
	eng := &gatedEngine{gate: make(chan struct{})}
	st := New(WithEngine(eng), WithTeamNumber(1))

	errs := make(chan error, 1)
	go func() {
		errs <- st.SetTeamNumber(4201)
	}()

	// A rebind stalled in the engine must not wedge the record
	// lock: telemetry keeps snapshotting and sees the new number.
	assert.Eventually(t, func() bool {
		return st.Snapshot().TeamNumber == 4201
	}, time.Second, time.Millisecond)

	close(eng.gate)
	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("setter never returned after the engine unblocked")
	}
	assert.Equal(t, 4201, eng.TeamNumber())
}

type failingEngine struct {
	fakeEngine
	err error
}

func (f *failingEngine) SetTeamNumber(_ int) error { return f.err }

func TestSetTeamNumberRollsBackOnEngineError(t *testing.T) {
	eng := &failingEngine{err: errors.New("broker unreachable")}
	st := New(WithEngine(eng), WithTeamNumber(1234))

	err := st.SetTeamNumber(4201)
	assert.Error(t, err)
	assert.Equal(t, 1234, st.TeamNumber(), "failed rebind must restore the prior number")
}

func TestBindRelay(t *testing.T) {
	st := New()
	first := relay.NewStream()
	second := relay.NewStream()

	require.NoError(t, st.BindRelay(first))
	assert.Same(t, first, st.Relay())

	err := st.BindRelay(second)
	assert.ErrorIs(t, err, ErrRelayAlreadyBound)
	assert.Same(t, first, st.Relay(), "a second delivery must never replace the bound endpoint")
}

func TestSnapshot(t *testing.T) {
	eng := &fakeEngine{status: engine.Status{
		Connected:   true,
		CodeRunning: false,
		Simulated:   true,
		Voltage:     12.1,
	}}
	st := New(WithEngine(eng), WithTeamNumber(4201))

	snap := st.Snapshot()
	assert.Equal(t, 4201, snap.TeamNumber)
	assert.True(t, snap.Status.Connected)
	assert.False(t, snap.Status.CodeRunning)
	assert.True(t, snap.Status.Simulated)
	assert.InDelta(t, 12.1, snap.Status.Voltage, 0.001)
}

func TestConcurrentAccess(t *testing.T) {
	eng := &fakeEngine{}
	st := New(WithEngine(eng))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.Snapshot()
				st.TeamNumber()
			}
		}()
		go func(team int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.NoError(t, st.SetTeamNumber(team))
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, engine.ValidTeamNumber(st.TeamNumber()))
	assert.Equal(t, st.TeamNumber(), eng.TeamNumber())
}
