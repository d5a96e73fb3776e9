// Package ui renders store snapshots as plain text. It is a thin view
// layer with no coordination logic of its own.
package ui

import (
	"fmt"
	"strings"

	"example.com/gostop/internal/card"
	"example.com/gostop/internal/game"
)

var typeOrder = []card.Type{card.Gwang, card.Kkut, card.Ddi, card.Pi}

// View bundles everything one frame of the terminal UI needs.
type View struct {
	Phase    game.Phase
	Flags    game.ConnFlags
	Snapshot game.Snapshot
	Leader   *game.LeaderReveal
	Deal     game.DealProgress
}

// Render formats one frame.
func Render(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "== Go-Stop [%s] ==\n", v.Phase)

	switch v.Phase {
	case game.PhaseWaiting:
		renderWaiting(&b, v.Flags)
	case game.PhaseLeaderSelection:
		renderLeader(&b, v.Leader)
	case game.PhaseSetup:
		renderDeal(&b, v.Deal)
	case game.PhasePlaying:
		renderTable(&b, v.Snapshot)
	}

	return b.String()
}

func renderWaiting(b *strings.Builder, f game.ConnFlags) {
	opp := "waiting for opponent"
	if f.HasOpponent {
		opp = "opponent connected"
	}
	fmt.Fprintf(b, "%s | me ready: %v | opponent ready: %v\n", opp, f.MyReady, f.OpponentReady)
}

func renderLeader(b *strings.Builder, r *game.LeaderReveal) {
	if r == nil {
		b.WriteString("pick one of the five face-down cards (0-4)\n")
		return
	}
	lead := "opponent leads"
	if r.IsMyLead {
		lead = "you lead"
	}
	fmt.Fprintf(b, "you drew %s (month %d), opponent drew %s (month %d) -> %s\n",
		r.MyCard, r.MyMonth, r.OpponentCard, r.OpponentMonth, lead)
	if len(r.UnclaimedCards) > 0 {
		fmt.Fprintf(b, "remaining: %s\n", strings.Join(r.UnclaimedCards, " "))
	}
}

func renderDeal(b *strings.Builder, d game.DealProgress) {
	fmt.Fprintf(b, "dealing [%s]: hand %d, opponent %d, floor %d\n",
		d.Stage, d.PlayerVisible, d.OpponentVisible, d.FloorVisible)
}

func renderTable(b *strings.Builder, s game.Snapshot) {
	if s.RoundInfo != nil {
		fmt.Fprintf(b, "round %d turn %d | ", s.RoundInfo.Round, s.RoundInfo.Turn)
	}
	turn := "opponent's turn"
	if s.CurrentTurn == game.SidePlayer {
		turn = "your turn"
	}
	fmt.Fprintf(b, "%s | deck %d\n", turn, s.DeckCount)

	fmt.Fprintf(b, "opponent: %d cards in hand | captured %s\n",
		s.OpponentHandCount, capturedLine(s.OpponentCaptured))
	fmt.Fprintf(b, "field: %s\n", cardLine(s.Field))
	fmt.Fprintf(b, "hand: %s\n", indexedCardLine(s.PlayerHand))
	fmt.Fprintf(b, "captured: %s\n", capturedLine(s.PlayerCaptured))

	if len(s.FloorChoices) > 0 {
		fmt.Fprintf(b, ">> choose a floor card: %s\n", strings.Join(s.FloorChoices, " "))
	}
}

func cardLine(cards []card.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func indexedCardLine(cards []card.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("[%d]%s", i, c.Name)
	}
	return strings.Join(parts, " ")
}

func capturedLine(piles game.Captured) string {
	parts := make([]string, 0, len(typeOrder))
	for _, t := range typeOrder {
		parts = append(parts, fmt.Sprintf("%s:%d", t, len(piles[t])))
	}
	return strings.Join(parts, " ")
}
