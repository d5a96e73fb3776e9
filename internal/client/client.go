package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"example.com/gostop/internal/protocol"
)

// Handlers is the current set of inbound-message callbacks. The
// dispatch loop reads the table fresh for every message, so rebinding
// mid-session never leaves a stale closure running.
type Handlers struct {
	OnConnect               func(protocol.Player)
	OnReady                 func(protocol.Player)
	OnStart                 func()
	OnLeaderSelection       func(protocol.Player, int)
	OnLeaderSelectionResult func(protocol.LeaderSelectionResultData)
	OnDistributeCard        func(protocol.Player, protocol.DistributeCardData)
	OnDistributedFloorCard  func(protocol.DistributedFloorCardData)
	OnTurnInformation       func(protocol.TurnInfo)
	OnSubmitCard            func(protocol.Player, string)
	OnCardRevealed          func(string)
	OnAcquiredCard          func(protocol.Player, protocol.AcquiredCardData)
	OnChooseFloorCard       func(protocol.Player, protocol.ChooseFloorCardData)
	OnUnknown               func(protocol.Response)
}

// Client owns one websocket connection for one (user, room) pair. On
// open it announces arrival with JoinRoom/Connect; every inbound frame
// is decoded and dispatched by status. Outbound senders silently drop
// when the socket is not open. There is no reconnect: a closed socket
// stays closed for the lifetime of the screen.
type Client struct {
	log     *slog.Logger
	userID  string
	roomID  string
	session string

	ws    *websocket.Conn
	send  chan []byte
	inbox chan protocol.Response
	quit  chan struct{}
	once  sync.Once

	connected atomic.Bool

	mu       sync.Mutex
	handlers Handlers
	roster   []protocol.Player
}

const (
	sendBuffer   = 64
	inboxBuffer  = 64
	pingInterval = 25 * time.Second
)

// Dial opens the socket and announces arrival. The returned client is
// inert until Run is called.
func Dial(ctx context.Context, wsURL, userID, roomID string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	session := uuid.NewString()
	c := &Client{
		log:     log.With("session", session),
		userID:  userID,
		roomID:  roomID,
		session: session,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		inbox:   make(chan protocol.Response, inboxBuffer),
		quit:    make(chan struct{}),
	}
	c.connected.Store(true)

	c.Send(protocol.Request{
		EventType: protocol.EventType{Type: protocol.EventJoinRoom, SubType: protocol.SubConnect},
		Data:      protocol.JoinRoomData{UserID: userID, RoomID: roomID},
	})
	return c, nil
}

// Bind swaps in a new handler table. Takes effect from the next
// dispatched message.
func (c *Client) Bind(h Handlers) {
	c.mu.Lock()
	c.handlers = h
	c.mu.Unlock()
}

// IsConnected reports whether the socket is still open.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// ConnectedPlayers returns the de-duplicated roster seen so far.
func (c *Client) ConnectedPlayers() []protocol.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Player(nil), c.roster...)
}

// Run drives the writer, reader and dispatch loops until the socket
// closes or ctx is cancelled. A clean peer close returns nil.
func (c *Client) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.writeLoop() })
	g.Go(func() error { return c.readLoop() })
	g.Go(func() error {
		c.dispatchLoop()
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-c.quit:
		}
		c.Close()
		return nil
	})

	return g.Wait()
}

// Close shuts the socket down. Idempotent.
func (c *Client) Close() {
	c.once.Do(func() {
		c.connected.Store(false)
		close(c.quit)
		_ = c.ws.Close()
	})
}

// ---- outbound ----

// Send marshals and queues a request frame; it is a no-op when the
// socket is not open, and drops (with a log line) when the writer is
// backed up. No throw, no retry.
func (c *Client) Send(req protocol.Request) {
	if !c.connected.Load() {
		return
	}
	b, err := json.Marshal(req)
	if err != nil {
		c.log.Error("marshal request", "err", err)
		return
	}
	select {
	case c.send <- b:
	case <-c.quit:
	default:
		c.log.Warn("outbound buffer full, dropping frame", "subType", req.EventType.SubType)
	}
}

func (c *Client) SendReady() {
	c.Send(protocol.Request{
		EventType: protocol.EventType{Type: protocol.EventRoom, SubType: protocol.SubReady},
	})
}

func (c *Client) SendLeaderSelection(cardIndex int) {
	c.Send(protocol.Request{
		EventType: protocol.EventType{Type: protocol.EventPregame, SubType: protocol.SubLeaderSelection},
		Data:      protocol.CardIndexData{CardIndex: strconv.Itoa(cardIndex)},
	})
}

func (c *Client) SendNormalSubmit(cardIndex int) {
	c.Send(protocol.Request{
		EventType: protocol.EventType{Type: protocol.EventGame, SubType: protocol.SubNormalSubmit},
		Data:      protocol.CardIndexData{CardIndex: strconv.Itoa(cardIndex)},
	})
}

func (c *Client) SendFloorSelect(cardIndex int) {
	c.Send(protocol.Request{
		EventType: protocol.EventType{Type: protocol.EventGame, SubType: protocol.SubFloorSelect},
		Data:      protocol.CardIndexData{CardIndex: strconv.Itoa(cardIndex)},
	})
}

// ---- loops ----

func (c *Client) writeLoop() error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil // reader will observe the broken socket
			}
		case <-ticker.C:
			_ = c.ws.WriteMessage(websocket.PingMessage, []byte{})
		case <-c.quit:
			return nil
		}
	}
}

func (c *Client) readLoop() error {
	// A dead reader means a dead session; tearing the client down here
	// lets Run return instead of waiting on the context.
	defer close(c.inbox)
	defer c.Close()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Info("socket closed", "err", err)
			}
			return nil
		}

		var resp protocol.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Warn("malformed frame dropped", "err", err)
			continue
		}
		c.inbox <- resp
	}
}

func (c *Client) dispatchLoop() {
	for resp := range c.inbox {
		c.dispatch(resp)
	}
}

func (c *Client) dispatch(resp protocol.Response) {
	c.mu.Lock()
	h := c.handlers
	c.mu.Unlock()

	switch resp.Status {
	case protocol.StatusConnect:
		c.recordPlayer(resp.Player)
		if h.OnConnect != nil {
			h.OnConnect(resp.Player)
		}

	case protocol.StatusReady:
		if h.OnReady != nil {
			h.OnReady(resp.Player)
		}

	case protocol.StatusStart:
		if h.OnStart != nil {
			h.OnStart()
		}

	case protocol.StatusLeaderSelection:
		var idx int
		if !c.decode(resp, &idx) {
			return
		}
		if h.OnLeaderSelection != nil {
			h.OnLeaderSelection(resp.Player, idx)
		}

	case protocol.StatusLeaderSelectionResult:
		var data protocol.LeaderSelectionResultData
		if !c.decode(resp, &data) {
			return
		}
		if h.OnLeaderSelectionResult != nil {
			h.OnLeaderSelectionResult(data)
		}

	case protocol.StatusDistributeCard:
		var data protocol.DistributeCardData
		if !c.decode(resp, &data) {
			return
		}
		if h.OnDistributeCard != nil {
			h.OnDistributeCard(resp.Player, data)
		}

	case protocol.StatusDistributedFloorCard:
		var data protocol.DistributedFloorCardData
		if !c.decode(resp, &data) {
			return
		}
		if h.OnDistributedFloorCard != nil {
			h.OnDistributedFloorCard(data)
		}

	case protocol.StatusAnnounceTurnInformation:
		var data protocol.TurnInfo
		if !c.decode(resp, &data) {
			return
		}
		if h.OnTurnInformation != nil {
			h.OnTurnInformation(data)
		}

	case protocol.StatusSubmitCard:
		var name string
		if !c.decode(resp, &name) {
			return
		}
		if h.OnSubmitCard != nil {
			h.OnSubmitCard(resp.Player, name)
		}

	case protocol.StatusCardRevealed:
		var name string
		if !c.decode(resp, &name) {
			return
		}
		if h.OnCardRevealed != nil {
			h.OnCardRevealed(name)
		}

	case protocol.StatusAcquiredCard:
		var data protocol.AcquiredCardData
		if !c.decode(resp, &data) {
			return
		}
		if h.OnAcquiredCard != nil {
			h.OnAcquiredCard(resp.Player, data)
		}

	case protocol.StatusChooseFloorCard:
		var data protocol.ChooseFloorCardData
		if !c.decode(resp, &data) {
			return
		}
		if h.OnChooseFloorCard != nil {
			h.OnChooseFloorCard(resp.Player, data)
		}

	default:
		c.log.Warn("unknown message status", "status", resp.Status)
		if h.OnUnknown != nil {
			h.OnUnknown(resp)
		}
	}
}

func (c *Client) decode(resp protocol.Response, v any) bool {
	if err := json.Unmarshal(resp.Data, v); err != nil {
		c.log.Warn("bad payload dropped", "status", resp.Status, "err", err)
		return false
	}
	return true
}

func (c *Client) recordPlayer(p protocol.Player) {
	if p == protocol.PlayerNothing {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, known := range c.roster {
		if known == p {
			return
		}
	}
	c.roster = append(c.roster, p)
}
