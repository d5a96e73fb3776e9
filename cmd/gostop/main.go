package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"example.com/gostop/internal/app"
	"example.com/gostop/internal/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	log := slog.New(handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("startup", "err", err)
		os.Exit(1)
	}

	log.Info("connected", "room", cfg.Room.RoomID, "user", cfg.Room.UserID)
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("session ended", "err", err)
		os.Exit(1)
	}
}
