package game

import (
	"sync"

	"example.com/gostop/internal/protocol"
)

// LeaderSelection is one player's blind pick of the five face-down
// cards.
type LeaderSelection struct {
	Player    protocol.Player
	CardIndex int
}

// LeaderReveal is the combined outcome once the server has revealed
// both picks. The client does no month comparison of its own; the
// lead flag is a passthrough of the server's decision.
type LeaderReveal struct {
	MyMonth        int
	OpponentMonth  int
	MyCard         string
	OpponentCard   string
	UnclaimedCards []string
	IsMyLead       bool
}

// LeaderState tracks the pregame who-goes-first mini-game: an
// append-only selection log plus the revealed result.
type LeaderState struct {
	mu         sync.Mutex
	selections []LeaderSelection
	result     *protocol.LeaderSelectionResultData
}

func NewLeaderState() *LeaderState {
	return &LeaderState{}
}

// RecordSelection appends a pick. A second pick by the same player is
// ignored; the server is trusted not to replay, this just keeps the
// log consistent if it does.
func (l *LeaderState) RecordSelection(p protocol.Player, cardIndex int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.selections {
		if s.Player == p {
			return
		}
	}
	l.selections = append(l.selections, LeaderSelection{Player: p, CardIndex: cardIndex})
}

// SetResult stores the revealed outcome.
func (l *LeaderState) SetResult(data protocol.LeaderSelectionResultData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := data
	l.result = &cp
}

// Selections returns a copy of the pick log.
func (l *LeaderState) Selections() []LeaderSelection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LeaderSelection(nil), l.selections...)
}

// HasPicked reports whether the given player already picked, so the UI
// can block re-selection.
func (l *LeaderState) HasPicked(p protocol.Player) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.selections {
		if s.Player == p {
			return true
		}
	}
	return false
}

// Result returns the raw result payload, nil before the reveal.
func (l *LeaderState) Result() *protocol.LeaderSelectionResultData {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.result == nil {
		return nil
	}
	cp := *l.result
	return &cp
}

// Reveal combines the selection log with the result: which revealed
// card belongs to which player (matched by stored index) and which
// three remain unclaimed. Returns false before the result arrives.
func (l *LeaderState) Reveal(myPlayer protocol.Player) (LeaderReveal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.result == nil {
		return LeaderReveal{}, false
	}
	r := *l.result

	rev := LeaderReveal{
		MyMonth:       r.Player2Month,
		OpponentMonth: r.Player1Month,
		IsMyLead:      r.LeadPlayer == myPlayer.Number(),
	}
	if myPlayer == protocol.Player1 {
		rev.MyMonth = r.Player1Month
		rev.OpponentMonth = r.Player2Month
	}

	claimed := map[int]bool{}
	for _, s := range l.selections {
		if s.CardIndex < 0 || s.CardIndex >= len(r.FiveCards) {
			continue
		}
		claimed[s.CardIndex] = true
		if s.Player == myPlayer {
			rev.MyCard = r.FiveCards[s.CardIndex]
		} else {
			rev.OpponentCard = r.FiveCards[s.CardIndex]
		}
	}
	for i, name := range r.FiveCards {
		if !claimed[i] {
			rev.UnclaimedCards = append(rev.UnclaimedCards, name)
		}
	}
	return rev, true
}

// Reset clears picks and result for a fresh session.
func (l *LeaderState) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selections = nil
	l.result = nil
}
