package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phaseRecorder captures transitions so tests can assert on order.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
	ch     chan Phase
}

func newPhaseRecorder() *phaseRecorder {
	return &phaseRecorder{ch: make(chan Phase, 8)}
}

func (r *phaseRecorder) record(p Phase) {
	r.mu.Lock()
	r.phases = append(r.phases, p)
	r.mu.Unlock()
	r.ch <- p
}

func (r *phaseRecorder) wait(t *testing.T, want Phase) {
	t.Helper()
	select {
	case got := <-r.ch:
		if got != want {
			t.Fatalf("phase transition = %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for transition to %s", want)
	}
}

func (r *phaseRecorder) seen() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

func TestPhaseMachine_FullProgression(t *testing.T) {
	rec := newPhaseRecorder()
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:    20 * time.Millisecond,
		OnChange: rec.record,
	})

	require.Equal(t, PhaseWaiting, pm.Phase())

	pm.HandleStart()
	rec.wait(t, PhaseLeaderSelection)

	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()

	rec.wait(t, PhaseSetup)

	pm.DealingComplete()
	rec.wait(t, PhasePlaying)

	assert.Equal(t, []Phase{PhaseLeaderSelection, PhaseSetup, PhasePlaying}, rec.seen())
}

func TestPhaseMachine_DwellWaitsForAllConditions(t *testing.T) {
	pm := NewPhaseMachine(nil, PhaseOptions{Dwell: 10 * time.Millisecond})
	pm.HandleStart()

	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, PhaseLeaderSelection, pm.Phase(),
		"must not advance with the floor condition missing")

	pm.MarkCondition(CondFloor)
	require.Eventually(t, func() bool { return pm.Phase() == PhaseSetup },
		time.Second, 5*time.Millisecond)
}

func TestPhaseMachine_DwellWaitsForReveal(t *testing.T) {
	pm := NewPhaseMachine(nil, PhaseOptions{Dwell: 10 * time.Millisecond})
	pm.HandleStart()

	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, PhaseLeaderSelection, pm.Phase(),
		"conditions alone must not advance the phase")

	pm.LeaderRevealed()
	require.Eventually(t, func() bool { return pm.Phase() == PhaseSetup },
		time.Second, 5*time.Millisecond)
}

func TestPhaseMachine_DwellIsObserved(t *testing.T) {
	const dwell = 120 * time.Millisecond
	pm := NewPhaseMachine(nil, PhaseOptions{Dwell: dwell})
	pm.HandleStart()

	pm.LeaderRevealed()
	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	start := time.Now()
	pm.MarkCondition(CondTurn)

	require.Eventually(t, func() bool { return pm.Phase() == PhaseSetup },
		time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), dwell,
		"reveal left the screen before the dwell elapsed")
}

func TestPhaseMachine_StartOnlyFromWaiting(t *testing.T) {
	rec := newPhaseRecorder()
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:    10 * time.Millisecond,
		OnChange: rec.record,
	})

	pm.HandleStart()
	rec.wait(t, PhaseLeaderSelection)

	pm.HandleStart() // duplicate start announcement
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []Phase{PhaseLeaderSelection}, rec.seen())
}

func TestPhaseMachine_DealingCompleteOnlyFromSetup(t *testing.T) {
	pm := NewPhaseMachine(nil, PhaseOptions{Dwell: 10 * time.Millisecond})

	pm.DealingComplete()
	assert.Equal(t, PhaseWaiting, pm.Phase())

	pm.HandleStart()
	pm.DealingComplete()
	assert.Equal(t, PhaseLeaderSelection, pm.Phase(),
		"dealing completion is meaningless before setup")
}

func TestPhaseMachine_ResetCancelsPendingDwell(t *testing.T) {
	rec := newPhaseRecorder()
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:    50 * time.Millisecond,
		OnChange: rec.record,
	})

	pm.HandleStart()
	rec.wait(t, PhaseLeaderSelection)
	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()

	pm.Reset()
	rec.wait(t, PhaseWaiting)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, PhaseWaiting, pm.Phase(), "stale dwell timer fired after Reset")

	// The machine is reusable after a reset.
	pm.HandleStart()
	rec.wait(t, PhaseLeaderSelection)
	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()
	rec.wait(t, PhaseSetup)
}

func TestPhaseMachine_StopCancelsPendingTimers(t *testing.T) {
	rec := newPhaseRecorder()
	stalled := make(chan struct{}, 1)
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:        30 * time.Millisecond,
		StallTimeout: 50 * time.Millisecond,
		OnChange:     rec.record,
		OnStall:      func() { stalled <- struct{}{} },
	})

	pm.HandleStart()
	rec.wait(t, PhaseLeaderSelection)
	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()

	pm.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, PhaseLeaderSelection, pm.Phase(),
		"armed dwell timer fired after Stop")
	assert.Equal(t, []Phase{PhaseLeaderSelection}, rec.seen())
	select {
	case <-stalled:
		t.Fatal("stall watchdog fired after Stop")
	default:
	}
}

func TestPhaseMachine_StallWatchdog(t *testing.T) {
	stalled := make(chan struct{}, 1)
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:        10 * time.Millisecond,
		StallTimeout: 30 * time.Millisecond,
		OnStall:      func() { stalled <- struct{}{} },
	})

	pm.HandleStart()
	// No pregame data ever arrives.
	select {
	case <-stalled:
	case <-time.After(time.Second):
		t.Fatal("stall watchdog never fired")
	}
}

func TestPhaseMachine_StallWatchdogDisarmedByProgress(t *testing.T) {
	stalled := make(chan struct{}, 1)
	pm := NewPhaseMachine(nil, PhaseOptions{
		Dwell:        5 * time.Millisecond,
		StallTimeout: 80 * time.Millisecond,
		OnStall:      func() { stalled <- struct{}{} },
	})

	pm.HandleStart()
	pm.MarkCondition(CondHand)
	pm.MarkCondition(CondFloor)
	pm.MarkCondition(CondTurn)
	pm.LeaderRevealed()

	require.Eventually(t, func() bool { return pm.Phase() == PhaseSetup },
		time.Second, 5*time.Millisecond)

	select {
	case <-stalled:
		t.Fatal("watchdog fired after setup was reached")
	case <-time.After(150 * time.Millisecond):
	}
}
