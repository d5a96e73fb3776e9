package game

import (
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"example.com/gostop/internal/card"
	"example.com/gostop/internal/protocol"
)

// Side names one of the two seats from the local point of view.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Captured groups claimed cards by capture category. A Captured map
// always carries all four keys, possibly with empty slices.
type Captured map[card.Type][]card.Card

func newCaptured() Captured {
	return Captured{
		card.Gwang: {},
		card.Kkut:  {},
		card.Ddi:   {},
		card.Pi:    {},
	}
}

func (c Captured) clone() Captured {
	out := make(Captured, len(c))
	for t, cards := range c {
		out[t] = append([]card.Card(nil), cards...)
	}
	return out
}

func (c Captured) total() int {
	n := 0
	for _, cards := range c {
		n += len(cards)
	}
	return n
}

// Snapshot is the race-free view of the store handed to the renderer.
type Snapshot struct {
	PlayerHand        []card.Card
	PlayerCaptured    Captured
	PlayerScore       int
	OpponentHandCount int
	OpponentCaptured  Captured
	OpponentScore     int
	Field             []card.Card
	DeckCount         int
	CurrentTurn       Side
	GameStarted       bool
	RoundInfo         *protocol.TurnInfo
	FloorChoices      []string
}

// Store is the single authoritative mirror of server-driven game state.
// All mutation goes through its named operations; the view only ever
// sees copies via Snapshot.
type Store struct {
	mu  sync.Mutex
	log *slog.Logger

	playerHand       []card.Card
	playerCaptured   Captured
	playerScore      int
	opponentCount    int
	opponentCaptured Captured
	opponentScore    int
	field            []card.Card
	currentTurn      Side

	gameStarted  bool
	roundInfo    *protocol.TurnInfo
	floorChoices []string
}

func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{log: log}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.playerHand = nil
	s.playerCaptured = newCaptured()
	s.playerScore = 0
	s.opponentCount = 0
	s.opponentCaptured = newCaptured()
	s.opponentScore = 0
	s.field = nil
	s.currentTurn = SidePlayer
	s.gameStarted = false
	s.roundInfo = nil
	s.floorChoices = nil
}

// Reset wipes the store back to its pre-game shape.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// StartGame flips the started flag; the phase machine owns the rest.
func (s *Store) StartGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameStarted = true
}

// SetPlayerHand replaces the local hand wholesale, resolving each name
// through the catalog. Unknown names are logged and dropped.
func (s *Store) SetPlayerHand(cardNames []string) {
	hand := make([]card.Card, 0, len(cardNames))
	for _, name := range cardNames {
		c, ok := card.Lookup(name)
		if !ok {
			s.log.Warn("unknown card name in hand", "name", name)
			continue
		}
		hand = append(hand, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerHand = hand
}

// SetOpponentCardCount replaces the opponent hand. Only the count is
// ever meaningful; identities stay opaque on purpose.
func (s *Store) SetOpponentCardCount(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opponentCount = n
}

// SetFloorCards flattens the month->names grouping into the field, in
// ascending month order so the layout is stable across runs.
func (s *Store) SetFloorCards(floor protocol.DistributedFloorCardData) {
	months := make([]string, 0, len(floor))
	for m := range floor {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		a, _ := strconv.Atoi(months[i])
		b, _ := strconv.Atoi(months[j])
		return a < b
	})

	var field []card.Card
	for _, m := range months {
		for _, name := range floor[m] {
			c, ok := card.Lookup(name)
			if !ok {
				s.log.Warn("unknown card name on floor", "name", name, "month", m)
				continue
			}
			field = append(field, c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.field = field
}

// SetRoundInfo stores the announced round/turn and derives whose turn
// it is. This is the only place turn ownership is computed.
func (s *Store) SetRoundInfo(info protocol.TurnInfo, myPlayer protocol.Player) {
	turn := SideOpponent
	if info.CurPlayer == string(myPlayer) {
		turn = SidePlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundInfo = &info
	s.currentTurn = turn
}

// SubmitMyCard moves the named card from the local hand to the field.
// If the card is not in hand the store is left untouched; the server
// and client have desynced and we log instead of corrupting state.
func (s *Store) SubmitMyCard(cardName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.playerHand {
		if c.Name == cardName {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.Warn("submit card not in hand", "name", cardName, "handSize", len(s.playerHand))
		return
	}

	c := s.playerHand[idx]
	s.playerHand = append(s.playerHand[:idx:idx], s.playerHand[idx+1:]...)
	s.field = append(s.field, c)
}

// SubmitOpponentCard removes one opaque card from the end of the
// opponent hand and places the now-revealed real card on the field.
func (s *Store) SubmitOpponentCard(cardName string) {
	c, ok := card.Lookup(cardName)
	if !ok {
		s.log.Warn("unknown card name from opponent submit", "name", cardName)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opponentCount > 0 {
		s.opponentCount--
	}
	s.field = append(s.field, c)
}

// RevealCard appends a deck-flip card to the field. Append-only.
func (s *Store) RevealCard(cardName string) {
	c, ok := card.Lookup(cardName)
	if !ok {
		s.log.Warn("unknown card name revealed from deck", "name", cardName)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.field = append(s.field, c)
}

// AcquireCards moves every named card from the field into the target's
// captured pile. The bucket is always the catalog type of the card,
// not whatever key the server grouped it under; a grouping key outside
// the four known types rejects that whole group.
func (s *Store) AcquireCards(target Side, data protocol.AcquiredCardData) {
	var removeNames []string
	var acquired []card.Card

	for key, names := range data {
		if !card.ValidType(key) {
			s.log.Error("invalid capture type from server", "type", key, "cards", names)
			continue
		}
		for _, name := range names {
			removeNames = append(removeNames, name)
			c, ok := card.Lookup(name)
			if !ok {
				s.log.Warn("unknown card name in acquisition", "name", name)
				continue
			}
			acquired = append(acquired, c)
		}
	}

	if len(acquired) == 0 {
		s.log.Warn("no valid cards to acquire", "target", target)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	field := s.field[:0:0]
	for _, c := range s.field {
		remove := false
		for _, name := range removeNames {
			if c.Name == name {
				remove = true
				break
			}
		}
		if !remove {
			field = append(field, c)
		}
	}
	s.field = field

	captured := s.playerCaptured
	if target == SideOpponent {
		captured = s.opponentCaptured
	}
	for _, c := range acquired {
		captured[c.Type] = append(captured[c.Type], c)
	}
}

// SetFloorCardChoices sets or clears (nil) the pending interactive
// "choose a floor card" prompt.
func (s *Store) SetFloorCardChoices(choices []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if choices == nil {
		s.floorChoices = nil
		return
	}
	s.floorChoices = append([]string(nil), choices...)
}

// FloorCardChoices returns the pending prompt, nil if none.
func (s *Store) FloorCardChoices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.floorChoices...)
}

// HandIndex resolves a card name to its current position in the local
// hand, for building NormalSubmit requests. Returns -1 if absent.
func (s *Store) HandIndex(cardName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.playerHand {
		if c.Name == cardName {
			return i
		}
	}
	return -1
}

// Snapshot copies the full state for rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := len(s.playerHand) + s.opponentCount + len(s.field) +
		s.playerCaptured.total() + s.opponentCaptured.total()
	deck := card.Count - known
	if deck < 0 {
		deck = 0
	}

	var choices []string
	if s.floorChoices != nil {
		choices = append([]string(nil), s.floorChoices...)
	}
	var info *protocol.TurnInfo
	if s.roundInfo != nil {
		cp := *s.roundInfo
		info = &cp
	}

	return Snapshot{
		PlayerHand:        append([]card.Card(nil), s.playerHand...),
		PlayerCaptured:    s.playerCaptured.clone(),
		PlayerScore:       s.playerScore,
		OpponentHandCount: s.opponentCount,
		OpponentCaptured:  s.opponentCaptured.clone(),
		OpponentScore:     s.opponentScore,
		Field:             append([]card.Card(nil), s.field...),
		DeckCount:         deck,
		CurrentTurn:       s.currentTurn,
		GameStarted:       s.gameStarted,
		RoundInfo:         info,
		FloorChoices:      choices,
	}
}
