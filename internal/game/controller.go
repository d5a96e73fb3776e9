package game

import (
	"log/slog"
	"sync"
	"time"

	"example.com/gostop/internal/protocol"
)

// Sender is the outbound half of the connection, as seen from game
// logic. The websocket client implements it.
type Sender interface {
	SendReady()
	SendLeaderSelection(cardIndex int)
	SendNormalSubmit(cardIndex int)
	SendFloorSelect(cardIndex int)
}

// ConnFlags are the ephemeral readiness flags shown in the header.
// They are UI truth, not game truth.
type ConnFlags struct {
	HasOpponent   bool
	MyReady       bool
	OpponentReady bool
}

// ControllerOptions carries the tunables the controller needs.
type ControllerOptions struct {
	MyPlayer          protocol.Player
	AnimationDelay    time.Duration
	LeaderRevealDwell time.Duration
	SetupTimeout      time.Duration
	DealInterval      time.Duration
	DealPhaseGap      time.Duration
	TurnDisplay       time.Duration
}

// Controller owns the local mirror of a game session: the state store,
// the serialized animation queue, the phase machine and the leader
// sub-flow. Inbound server events arrive through its Handle* methods;
// user intents leave through the Sender.
//
// Structural events (hand/floor distribution, connect/ready) apply to
// the store immediately; move-by-move gameplay events go through the
// queue so each change gets its moment on screen.
type Controller struct {
	log      *slog.Logger
	myPlayer protocol.Player
	sender   Sender

	store  *Store
	queue  *Queue
	phases *PhaseMachine
	leader *LeaderState

	opts ControllerOptions

	mu     sync.Mutex
	flags  ConnFlags
	dealer *Dealer
}

func NewController(log *slog.Logger, sender Sender, opts ControllerOptions) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if opts.AnimationDelay <= 0 {
		opts.AnimationDelay = 800 * time.Millisecond
	}

	c := &Controller{
		log:      log,
		myPlayer: opts.MyPlayer,
		sender:   sender,
		store:    NewStore(log),
		queue:    NewQueue(opts.AnimationDelay),
		leader:   NewLeaderState(),
		opts:     opts,
	}
	c.phases = NewPhaseMachine(log, PhaseOptions{
		Dwell:        opts.LeaderRevealDwell,
		StallTimeout: opts.SetupTimeout,
		OnChange:     c.onPhaseChange,
	})
	return c
}

// Store exposes the state store for snapshot reads.
func (c *Controller) Store() *Store { return c.store }

// Leader exposes the leader sub-flow for rendering.
func (c *Controller) Leader() *LeaderState { return c.leader }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phases.Phase() }

// LeaderReveal resolves the leader outcome from the local player's
// point of view; ok is false before the result arrives.
func (c *Controller) LeaderReveal() (LeaderReveal, bool) {
	return c.leader.Reveal(c.myPlayer)
}

// Flags returns the connection/readiness header flags.
func (c *Controller) Flags() ConnFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

// DealProgress returns the opening-deal pacing state, zero while no
// deal is running.
func (c *Controller) DealProgress() DealProgress {
	c.mu.Lock()
	d := c.dealer
	c.mu.Unlock()
	if d == nil {
		return DealProgress{}
	}
	return d.Progress()
}

// Close tears down the queue, the phase timers and any running deal.
func (c *Controller) Close() {
	c.queue.Close()
	c.phases.Stop()
	c.mu.Lock()
	if c.dealer != nil {
		c.dealer.Stop()
	}
	c.mu.Unlock()
}

// Reset wipes the whole session back to Waiting.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.dealer != nil {
		c.dealer.Stop()
		c.dealer = nil
	}
	c.flags.MyReady = false
	c.flags.OpponentReady = false
	c.mu.Unlock()

	c.store.Reset()
	c.leader.Reset()
	c.phases.Reset()
}

// ---- inbound server events ----

// HandleConnect records an arriving player. The roster itself is kept
// by the connection layer; here only the opponent flag matters.
func (c *Controller) HandleConnect(p protocol.Player) {
	if p == c.myPlayer || p == protocol.PlayerNothing {
		return
	}
	c.mu.Lock()
	c.flags.HasOpponent = true
	c.mu.Unlock()
}

// HandleReady flips the ready flag of whichever side signalled.
func (c *Controller) HandleReady(p protocol.Player) {
	c.mu.Lock()
	if p == c.myPlayer {
		c.flags.MyReady = true
	} else {
		c.flags.OpponentReady = true
	}
	c.mu.Unlock()
}

// HandleStart moves into leader selection.
func (c *Controller) HandleStart() {
	c.store.StartGame()
	c.phases.HandleStart()
}

// HandleLeaderSelection logs one player's blind pick.
func (c *Controller) HandleLeaderSelection(p protocol.Player, cardIndex int) {
	c.leader.RecordSelection(p, cardIndex)
}

// HandleLeaderSelectionResult stores the reveal and starts the dwell
// clock toward Setup.
func (c *Controller) HandleLeaderSelectionResult(data protocol.LeaderSelectionResultData) {
	c.leader.SetResult(data)
	c.phases.LeaderRevealed()
}

// HandleDistributeCard applies a dealt hand. Only the local player's
// copy carries identities we may surface; the opponent's copy still
// marks the setup condition but its card names are ignored.
func (c *Controller) HandleDistributeCard(p protocol.Player, cards []string) {
	if p == c.myPlayer {
		c.store.SetPlayerHand(cards)
		c.store.SetOpponentCardCount(len(cards))
	}
	c.phases.MarkCondition(CondHand)
}

// HandleDistributedFloorCard lays out the opening floor.
func (c *Controller) HandleDistributedFloorCard(data protocol.DistributedFloorCardData) {
	c.store.SetFloorCards(data)
	c.phases.MarkCondition(CondFloor)
}

// HandleTurnInformation applies turn info. During pregame it is a
// structural setup event; during play it is a visual turn change and
// rides the queue behind the moves that caused it.
func (c *Controller) HandleTurnInformation(data protocol.TurnInfo) {
	switch c.phases.Phase() {
	case PhaseLeaderSelection, PhaseSetup:
		c.store.SetRoundInfo(data, c.myPlayer)
		c.phases.MarkCondition(CondTurn)
	default:
		c.queue.Enqueue(func() { c.store.SetRoundInfo(data, c.myPlayer) })
	}
}

// HandleSubmitCard queues a played card moving to the field.
func (c *Controller) HandleSubmitCard(p protocol.Player, cardName string) {
	if p == c.myPlayer {
		c.queue.Enqueue(func() { c.store.SubmitMyCard(cardName) })
		return
	}
	c.queue.Enqueue(func() { c.store.SubmitOpponentCard(cardName) })
}

// HandleCardRevealed queues a deck flip.
func (c *Controller) HandleCardRevealed(cardName string) {
	c.queue.Enqueue(func() { c.store.RevealCard(cardName) })
}

// HandleAcquiredCard queues a capture.
func (c *Controller) HandleAcquiredCard(p protocol.Player, data protocol.AcquiredCardData) {
	target := SideOpponent
	if p == c.myPlayer {
		target = SidePlayer
	}
	c.queue.Enqueue(func() { c.store.AcquireCards(target, data) })
}

// HandleChooseFloorCard queues the interactive tie prompt; the queue
// stays blocked until ResolveFloorChoice resumes it.
func (c *Controller) HandleChooseFloorCard(choices []string) {
	c.queue.EnqueueInteractive(func() { c.store.SetFloorCardChoices(choices) })
}

// ---- user intents ----

// Ready signals readiness; the flag flips when the server echoes it.
func (c *Controller) Ready() {
	c.sender.SendReady()
}

// PickLeaderCard forwards a leader pick unless this player already
// picked.
func (c *Controller) PickLeaderCard(index int) {
	if c.leader.HasPicked(c.myPlayer) {
		return
	}
	c.sender.SendLeaderSelection(index)
}

// SubmitCard forwards a normal hand submission by hand index.
func (c *Controller) SubmitCard(index int) {
	c.sender.SendNormalSubmit(index)
}

// ResolveFloorChoice answers the tie prompt: sends the pick, clears
// the prompt and lets the queue advance.
func (c *Controller) ResolveFloorChoice(index int) {
	c.sender.SendFloorSelect(index)
	c.store.SetFloorCardChoices(nil)
	c.queue.Resume()
}

// ---- internal ----

func (c *Controller) onPhaseChange(ph Phase) {
	if ph != PhaseSetup {
		return
	}

	snap := c.store.Snapshot()
	d := NewDealer(c.opts.DealInterval, c.opts.DealPhaseGap, c.opts.TurnDisplay)

	c.mu.Lock()
	if c.dealer != nil {
		c.dealer.Stop()
	}
	c.dealer = d
	c.mu.Unlock()

	d.Start(len(snap.PlayerHand), snap.OpponentHandCount, len(snap.Field), c.phases.DealingComplete)
}
