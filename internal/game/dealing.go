package game

import (
	"sync"
	"time"
)

// DealStage names the steps of the opening deal animation.
type DealStage string

const (
	DealReady    DealStage = "ready"
	DealPlayer   DealStage = "deal-player"
	DealOpponent DealStage = "deal-opponent"
	DealFloor    DealStage = "deal-floor"
	DealShowTurn DealStage = "show-turn"
	DealDone     DealStage = "done"
)

// DealProgress is what the renderer reads while the deal plays out:
// how many cards of each pile are visible so far.
type DealProgress struct {
	Stage           DealStage
	PlayerVisible   int
	OpponentVisible int
	FloorVisible    int
}

// Dealer paces the opening deal: player hand, then opponent hand, then
// floor, then the turn banner, one card per interval. The pacing is
// purely visual; the store already holds the full state when the deal
// starts. Completion drives the Setup -> Playing transition.
type Dealer struct {
	mu       sync.Mutex
	progress DealProgress

	interval    time.Duration
	phaseGap    time.Duration
	turnDisplay time.Duration

	cancel chan struct{}
	once   sync.Once
}

func NewDealer(interval, phaseGap, turnDisplay time.Duration) *Dealer {
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	if phaseGap <= 0 {
		phaseGap = 800 * time.Millisecond
	}
	if turnDisplay <= 0 {
		turnDisplay = 2 * time.Second
	}
	return &Dealer{
		progress:    DealProgress{Stage: DealReady},
		interval:    interval,
		phaseGap:    phaseGap,
		turnDisplay: turnDisplay,
		cancel:      make(chan struct{}),
	}
}

// Progress returns the current visible counts.
func (d *Dealer) Progress() DealProgress {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.progress
}

// Start runs the deal in its own goroutine and calls onComplete when
// the last stage finishes. Stop aborts it without calling onComplete.
func (d *Dealer) Start(playerCount, opponentCount, floorCount int, onComplete func()) {
	go d.run(playerCount, opponentCount, floorCount, onComplete)
}

// Stop aborts an in-flight deal. Safe to call more than once.
func (d *Dealer) Stop() {
	d.once.Do(func() { close(d.cancel) })
}

func (d *Dealer) run(playerCount, opponentCount, floorCount int, onComplete func()) {
	if !d.sleep(d.phaseGap / 2) {
		return
	}

	d.setStage(DealPlayer)
	for i := 1; i <= playerCount; i++ {
		if !d.sleep(d.interval) {
			return
		}
		d.set(func(p *DealProgress) { p.PlayerVisible = i })
	}
	if !d.sleep(d.phaseGap) {
		return
	}

	d.setStage(DealOpponent)
	for i := 1; i <= opponentCount; i++ {
		if !d.sleep(d.interval) {
			return
		}
		d.set(func(p *DealProgress) { p.OpponentVisible = i })
	}
	if !d.sleep(d.phaseGap) {
		return
	}

	d.setStage(DealFloor)
	for i := 1; i <= floorCount; i++ {
		if !d.sleep(d.interval) {
			return
		}
		d.set(func(p *DealProgress) { p.FloorVisible = i })
	}
	if !d.sleep(d.phaseGap) {
		return
	}

	d.setStage(DealShowTurn)
	if !d.sleep(d.turnDisplay) {
		return
	}

	d.setStage(DealDone)
	if onComplete != nil {
		onComplete()
	}
}

func (d *Dealer) setStage(s DealStage) {
	d.set(func(p *DealProgress) { p.Stage = s })
}

func (d *Dealer) set(fn func(*DealProgress)) {
	d.mu.Lock()
	fn(&d.progress)
	d.mu.Unlock()
}

func (d *Dealer) sleep(dur time.Duration) bool {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-d.cancel:
		return false
	}
}
