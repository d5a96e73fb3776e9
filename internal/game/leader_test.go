package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/gostop/internal/protocol"
)

func TestLeaderState_RecordSelection_DedupsPerPlayer(t *testing.T) {
	l := NewLeaderState()

	l.RecordSelection(protocol.Player1, 2)
	l.RecordSelection(protocol.Player1, 4) // replay, ignored
	l.RecordSelection(protocol.Player2, 0)

	sels := l.Selections()
	require.Len(t, sels, 2)
	assert.Equal(t, LeaderSelection{Player: protocol.Player1, CardIndex: 2}, sels[0])
	assert.Equal(t, LeaderSelection{Player: protocol.Player2, CardIndex: 0}, sels[1])

	assert.True(t, l.HasPicked(protocol.Player1))
	assert.True(t, l.HasPicked(protocol.Player2))
	assert.False(t, l.HasPicked(protocol.PlayerNothing))
}

func TestLeaderState_Reveal(t *testing.T) {
	five := []string{"JAN_1", "MAR_2", "JUN_4", "AUG_1", "NOV_2"}

	cases := []struct {
		name     string
		myPlayer protocol.Player
		lead     int
		want     LeaderReveal
	}{
		{
			name:     "as_player1_leading",
			myPlayer: protocol.Player1,
			lead:     1,
			want: LeaderReveal{
				MyMonth:        3,
				OpponentMonth:  8,
				MyCard:         "MAR_2",
				OpponentCard:   "AUG_1",
				UnclaimedCards: []string{"JAN_1", "JUN_4", "NOV_2"},
				IsMyLead:       true,
			},
		},
		{
			name:     "as_player2_following",
			myPlayer: protocol.Player2,
			lead:     1,
			want: LeaderReveal{
				MyMonth:        8,
				OpponentMonth:  3,
				MyCard:         "AUG_1",
				OpponentCard:   "MAR_2",
				UnclaimedCards: []string{"JAN_1", "JUN_4", "NOV_2"},
				IsMyLead:       false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLeaderState()
			l.RecordSelection(protocol.Player1, 1)
			l.RecordSelection(protocol.Player2, 3)
			l.SetResult(protocol.LeaderSelectionResultData{
				Player1Month: 3,
				Player2Month: 8,
				LeadPlayer:   tc.lead,
				FiveCards:    five,
			})

			got, ok := l.Reveal(tc.myPlayer)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLeaderState_RevealBeforeResult(t *testing.T) {
	l := NewLeaderState()
	l.RecordSelection(protocol.Player1, 0)

	_, ok := l.Reveal(protocol.Player1)
	assert.False(t, ok)
	assert.Nil(t, l.Result())
}

func TestLeaderState_RevealIgnoresOutOfRangeIndex(t *testing.T) {
	l := NewLeaderState()
	l.RecordSelection(protocol.Player1, 9)
	l.RecordSelection(protocol.Player2, 1)
	l.SetResult(protocol.LeaderSelectionResultData{
		Player1Month: 1,
		Player2Month: 2,
		LeadPlayer:   2,
		FiveCards:    []string{"JAN_1", "FEB_1", "MAR_1", "APR_1", "MAY_1"},
	})

	got, ok := l.Reveal(protocol.Player1)
	require.True(t, ok)
	assert.Empty(t, got.MyCard, "out of range pick cannot claim a card")
	assert.Equal(t, "FEB_1", got.OpponentCard)
	assert.Len(t, got.UnclaimedCards, 4)
}

func TestLeaderState_Reset(t *testing.T) {
	l := NewLeaderState()
	l.RecordSelection(protocol.Player1, 0)
	l.SetResult(protocol.LeaderSelectionResultData{LeadPlayer: 1})

	l.Reset()

	assert.Empty(t, l.Selections())
	assert.Nil(t, l.Result())
	assert.False(t, l.HasPicked(protocol.Player1))
}
