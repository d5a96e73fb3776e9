package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"example.com/gostop/internal/client"
	"example.com/gostop/internal/config"
	"example.com/gostop/internal/game"
	"example.com/gostop/internal/protocol"
	"example.com/gostop/internal/roomapi"
	"example.com/gostop/internal/ui"
)

// App wires the room REST client, the websocket client and the game
// controller into one running terminal session.
type App struct {
	cfg config.Config
	log *slog.Logger

	myPlayer protocol.Player
	conn     *client.Client
	ctrl     *game.Controller

	in  io.Reader
	out io.Writer
}

// New joins (optionally creating) the room, dials the socket and binds
// the handler table. Fails fast if the room service or the socket is
// unreachable.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	rooms := roomapi.New(cfg.Server.APIBaseURL, log)
	if cfg.Room.Create {
		if _, err := rooms.CreateRoom(ctx, cfg.Room.RoomID); err != nil {
			// The room may already exist; joining decides for real.
			log.Warn("room create failed", "roomId", cfg.Room.RoomID, "err", err)
		}
	}
	if _, err := rooms.JoinRoom(ctx, cfg.Room.RoomID, cfg.Room.UserID); err != nil {
		return nil, fmt.Errorf("join room %s: %w", cfg.Room.RoomID, err)
	}

	conn, err := client.Dial(ctx, cfg.Server.WSURL, cfg.Room.UserID, cfg.Room.RoomID, log)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Server.WSURL, err)
	}

	myPlayer := protocol.PlayerFor(cfg.Room.UserID)
	ctrl := game.NewController(log, conn, game.ControllerOptions{
		MyPlayer:          myPlayer,
		AnimationDelay:    cfg.Game.AnimationDelay,
		LeaderRevealDwell: cfg.Game.LeaderRevealDwell,
		SetupTimeout:      cfg.Game.SetupTimeout,
		DealInterval:      cfg.Game.DealInterval,
		DealPhaseGap:      cfg.Game.DealPhaseGap,
		TurnDisplay:       cfg.Game.TurnDisplay,
	})

	conn.Bind(client.Handlers{
		OnConnect:               ctrl.HandleConnect,
		OnReady:                 ctrl.HandleReady,
		OnStart:                 ctrl.HandleStart,
		OnLeaderSelection:       ctrl.HandleLeaderSelection,
		OnLeaderSelectionResult: ctrl.HandleLeaderSelectionResult,
		OnDistributeCard: func(p protocol.Player, cards protocol.DistributeCardData) {
			ctrl.HandleDistributeCard(p, cards)
		},
		OnDistributedFloorCard: ctrl.HandleDistributedFloorCard,
		OnTurnInformation:      ctrl.HandleTurnInformation,
		OnSubmitCard:           ctrl.HandleSubmitCard,
		OnCardRevealed:         ctrl.HandleCardRevealed,
		OnAcquiredCard:         ctrl.HandleAcquiredCard,
		OnChooseFloorCard: func(_ protocol.Player, choices protocol.ChooseFloorCardData) {
			ctrl.HandleChooseFloorCard(choices)
		},
	})

	return &App{
		cfg:      cfg,
		log:      log,
		myPlayer: myPlayer,
		conn:     conn,
		ctrl:     ctrl,
		in:       in,
		out:      out,
	}, nil
}

// Run drives the socket loops, the input reader and the renderer until
// the socket closes or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.conn.Run(gctx) })
	g.Go(func() error { return a.inputLoop(gctx) })
	g.Go(func() error { return a.renderLoop(gctx) })

	err := g.Wait()
	a.ctrl.Close()
	return err
}

func (a *App) inputLoop(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			a.handleCommand(line)
		}
	}
}

func (a *App) handleCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	cmd := fields[0]
	arg := -1
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			arg = n
		}
	}

	switch cmd {
	case "ready":
		a.ctrl.Ready()
	case "pick":
		if arg >= 0 && arg <= 4 {
			a.ctrl.PickLeaderCard(arg)
		}
	case "play":
		if arg >= 0 {
			a.ctrl.SubmitCard(arg)
		}
	case "choose":
		if arg >= 0 {
			a.ctrl.ResolveFloorChoice(arg)
		}
	case "reset":
		a.ctrl.Reset()
	default:
		fmt.Fprintf(a.out, "commands: ready | pick <0-4> | play <i> | choose <i> | reset\n")
	}
}

func (a *App) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame := a.frame()
			if frame == last {
				continue
			}
			last = frame
			fmt.Fprint(a.out, frame)
		}
	}
}

func (a *App) frame() string {
	v := ui.View{
		Phase:    a.ctrl.Phase(),
		Flags:    a.ctrl.Flags(),
		Snapshot: a.ctrl.Store().Snapshot(),
		Deal:     a.ctrl.DealProgress(),
	}
	if rev, ok := a.ctrl.LeaderReveal(); ok {
		v.Leader = &rev
	}
	if !a.conn.IsConnected() {
		return "disconnected\n" + ui.Render(v)
	}
	return ui.Render(v)
}
