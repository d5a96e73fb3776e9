package protocol

import "encoding/json"

// Player identifies the acting player of an inbound message.
type Player string

const (
	PlayerNothing Player = "PLAYER_NOTHING"
	Player1       Player = "PLAYER_1"
	Player2       Player = "PLAYER_2"
)

// PlayerFor maps a user id to its fixed seat. The convention is baked
// into both ends rather than negotiated: user "1" is always PLAYER_1.
func PlayerFor(userID string) Player {
	if userID == "1" {
		return Player1
	}
	return Player2
}

// Number returns the numeric seat id the server uses in some payloads
// (leadPlayer), 0 for PLAYER_NOTHING.
func (p Player) Number() int {
	switch p {
	case Player1:
		return 1
	case Player2:
		return 2
	}
	return 0
}

// EventMainType / EventSubType classify outbound requests.
type EventMainType string

const (
	EventJoinRoom EventMainType = "JOIN_ROOM"
	EventRoom     EventMainType = "ROOM"
	EventPregame  EventMainType = "PREGAME"
	EventGame     EventMainType = "GAME"
)

type EventSubType string

const (
	SubConnect         EventSubType = "CONNECT"
	SubReady           EventSubType = "READY"
	SubLeaderSelection EventSubType = "LEADER_SELECTION"
	SubNormalSubmit    EventSubType = "NORMAL_SUBMIT"
	SubFloorSelect     EventSubType = "FLOOR_SELECT"
)

type EventType struct {
	Type    EventMainType `json:"type"`
	SubType EventSubType  `json:"subType"`
}

// Request is the client->server frame.
type Request struct {
	EventType EventType `json:"eventType"`
	Data      any       `json:"data,omitempty"`
}

type JoinRoomData struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

// CardIndexData carries a hand/floor/leader index. The server expects
// the index as a decimal string, not a JSON number.
type CardIndexData struct {
	CardIndex string `json:"cardIndex"`
}

// Status discriminates inbound server frames.
type Status string

const (
	StatusConnect                 Status = "CONNECT"
	StatusReady                   Status = "READY"
	StatusStart                   Status = "START"
	StatusLeaderSelection         Status = "LEADER_SELECTION"
	StatusLeaderSelectionResult   Status = "LEADER_SELECTION_RESULT"
	StatusDistributeCard          Status = "DISTRIBUTE_CARD"
	StatusDistributedFloorCard    Status = "DISTRIBUTED_FLOOR_CARD"
	StatusAnnounceTurnInformation Status = "ANNOUNCE_TURN_INFORMATION"
	StatusSubmitCard              Status = "SUBMIT_CARD"
	StatusCardRevealed            Status = "CARD_REVEALED"
	StatusAcquiredCard            Status = "ACQUIRED_CARD"
	StatusChooseFloorCard         Status = "CHOOSE_FLOOR_CARD"
)

// Response is the server->client envelope. Data stays raw until the
// dispatcher decodes it against the shape its Status implies.
type Response struct {
	Player  Player          `json:"player"`
	Status  Status          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Per-status payload shapes.

type LeaderSelectionResultData struct {
	Player1Month int      `json:"player1Month"`
	Player2Month int      `json:"player2Month"`
	LeadPlayer   int      `json:"leadPlayer"` // 1 or 2
	FiveCards    []string `json:"fiveCards"`
}

// DistributeCardData is the dealt hand, e.g. ["AUG_4","JUL_1",...].
type DistributeCardData []string

// DistributedFloorCardData groups the opening floor by month,
// e.g. {"1":["JAN_3"],"6":["JUN_2","JUN_3"]}.
type DistributedFloorCardData map[string][]string

type TurnInfo struct {
	Round     int    `json:"round"`
	Turn      int    `json:"turn"`
	CurPlayer string `json:"curPlayer"` // "PLAYER_1" | "PLAYER_2"
}

// AcquiredCardData groups captured card names by the server's idea of
// their type, e.g. {"KKUT":["SEP_4"],"PI":["SEP_3"]}. The catalog type
// stays authoritative on our side.
type AcquiredCardData map[string][]string

// ChooseFloorCardData lists the tied field cards the current player
// must pick among.
type ChooseFloorCardData []string

// ErrorResponse is the REST error shape shared with the room API.
type ErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	HTTPStatus   int    `json:"httpStatus"`
	ErrorMessage string `json:"errorMessage"`
}
