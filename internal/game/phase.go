package game

import (
	"log/slog"
	"sync"
	"time"
)

// Phase is the coarse screen state of a session. Phases only ever move
// forward; Reset jumps hard back to Waiting instead of transitioning.
type Phase string

const (
	PhaseWaiting         Phase = "WAITING"
	PhaseLeaderSelection Phase = "LEADER_SELECTION"
	PhaseSetup           Phase = "SETUP"
	PhasePlaying         Phase = "PLAYING"
)

// SetupCondition is one of the three pregame data arrivals gating the
// LeaderSelection -> Setup transition.
type SetupCondition string

const (
	CondHand  SetupCondition = "HAND"
	CondFloor SetupCondition = "FLOOR"
	CondTurn  SetupCondition = "TURN"
)

// PhaseMachine drives Waiting -> LeaderSelection -> Setup -> Playing.
//
// Leaving LeaderSelection needs all three setup conditions plus the
// revealed leader result, and then still waits out a dwell so the
// reveal stays legible. At most one dwell timer is armed per entry;
// a token guards against a stale timer firing after Reset.
type PhaseMachine struct {
	mu  sync.Mutex
	log *slog.Logger

	phase          Phase
	conditions     map[SetupCondition]bool
	leaderRevealed bool

	dwell      time.Duration
	dwellTimer *time.Timer
	dwellToken int64

	stallTimeout time.Duration // 0 => wait forever for pregame data
	stallTimer   *time.Timer

	onChange func(Phase)
	onStall  func()
}

// PhaseOptions configures a PhaseMachine.
type PhaseOptions struct {
	Dwell        time.Duration // minimum leader-reveal display time
	StallTimeout time.Duration // 0 disables the stall watchdog
	OnChange     func(Phase)   // called outside the lock on every transition
	OnStall      func()        // called if pregame data never arrives
}

func NewPhaseMachine(log *slog.Logger, opts PhaseOptions) *PhaseMachine {
	if log == nil {
		log = slog.Default()
	}
	if opts.Dwell <= 0 {
		opts.Dwell = 3 * time.Second
	}
	return &PhaseMachine{
		log:          log,
		phase:        PhaseWaiting,
		conditions:   make(map[SetupCondition]bool),
		dwell:        opts.Dwell,
		stallTimeout: opts.StallTimeout,
		onChange:     opts.OnChange,
		onStall:      opts.OnStall,
	}
}

// Phase returns the current phase.
func (p *PhaseMachine) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// HandleStart moves Waiting -> LeaderSelection when the server
// announces both sides are ready.
func (p *PhaseMachine) HandleStart() {
	p.mu.Lock()
	if p.phase != PhaseWaiting {
		p.mu.Unlock()
		return
	}
	p.phase = PhaseLeaderSelection
	if p.stallTimeout > 0 {
		p.stallTimer = time.AfterFunc(p.stallTimeout, p.fireStall)
	}
	p.mu.Unlock()
	p.notify(PhaseLeaderSelection)
}

// MarkCondition records one of the three pregame data arrivals.
func (p *PhaseMachine) MarkCondition(cond SetupCondition) {
	p.mu.Lock()
	p.conditions[cond] = true
	p.maybeArmDwellLocked()
	p.mu.Unlock()
}

// LeaderRevealed records that the leader-selection result is on
// screen. The dwell clock starts once this and all conditions hold.
func (p *PhaseMachine) LeaderRevealed() {
	p.mu.Lock()
	p.leaderRevealed = true
	p.maybeArmDwellLocked()
	p.mu.Unlock()
}

// DealingComplete moves Setup -> Playing. The transition is
// animation-driven: data readiness alone never triggers it.
func (p *PhaseMachine) DealingComplete() {
	p.mu.Lock()
	if p.phase != PhaseSetup {
		p.mu.Unlock()
		return
	}
	p.phase = PhasePlaying
	p.mu.Unlock()
	p.notify(PhasePlaying)
}

// Stop cancels any pending timers without touching the phase. For
// teardown; a stale dwell must not fire into a machine whose owner is
// gone. Reset is the in-session equivalent.
func (p *PhaseMachine) Stop() {
	p.mu.Lock()
	p.dwellToken++
	if p.dwellTimer != nil {
		p.dwellTimer.Stop()
		p.dwellTimer = nil
	}
	if p.stallTimer != nil {
		p.stallTimer.Stop()
		p.stallTimer = nil
	}
	p.mu.Unlock()
}

// Reset cancels any pending timers and jumps back to Waiting.
func (p *PhaseMachine) Reset() {
	p.mu.Lock()
	p.dwellToken++
	if p.dwellTimer != nil {
		p.dwellTimer.Stop()
		p.dwellTimer = nil
	}
	if p.stallTimer != nil {
		p.stallTimer.Stop()
		p.stallTimer = nil
	}
	p.phase = PhaseWaiting
	p.conditions = make(map[SetupCondition]bool)
	p.leaderRevealed = false
	p.mu.Unlock()
	p.notify(PhaseWaiting)
}

func (p *PhaseMachine) maybeArmDwellLocked() {
	if p.phase != PhaseLeaderSelection || !p.leaderRevealed || p.dwellTimer != nil {
		return
	}
	if !(p.conditions[CondHand] && p.conditions[CondFloor] && p.conditions[CondTurn]) {
		return
	}
	token := p.dwellToken
	p.dwellTimer = time.AfterFunc(p.dwell, func() { p.fireDwell(token) })
}

func (p *PhaseMachine) fireDwell(token int64) {
	p.mu.Lock()
	if token != p.dwellToken || p.phase != PhaseLeaderSelection {
		p.mu.Unlock()
		return
	}
	p.dwellTimer = nil
	p.phase = PhaseSetup
	if p.stallTimer != nil {
		p.stallTimer.Stop()
		p.stallTimer = nil
	}
	p.mu.Unlock()
	p.notify(PhaseSetup)
}

func (p *PhaseMachine) fireStall() {
	p.mu.Lock()
	stalled := p.phase == PhaseLeaderSelection
	p.mu.Unlock()
	if !stalled {
		return
	}
	p.log.Warn("pregame data did not arrive in time")
	if p.onStall != nil {
		p.onStall()
	}
}

func (p *PhaseMachine) notify(ph Phase) {
	if p.onChange != nil {
		p.onChange(ph)
	}
}
