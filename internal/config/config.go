package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config describes all runtime settings for the client.
//
// Best practice for Go binaries:
//   - load config once in main
//   - validate
//   - pass further via DI (no global variables)
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
	}

	Server struct {
		WSURL      string // websocket endpoint, e.g. ws://localhost:8084/gostop
		APIBaseURL string // room REST endpoint, e.g. http://127.0.0.1:8084
	}

	Room struct {
		RoomID string
		UserID string
		Create bool // create the room before joining it
	}

	Game struct {
		AnimationDelay    time.Duration // pause between queued visual steps
		LeaderRevealDwell time.Duration // minimum time the leader reveal stays on screen
		DealInterval      time.Duration // per-card pacing of the opening deal
		DealPhaseGap      time.Duration // pause between deal stages
		TurnDisplay       time.Duration // how long the opening turn banner shows
		SetupTimeout      time.Duration // 0 => wait forever for pregame data
	}
}

func LoadFromEnv() (Config, error) {
	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")

	c.Server.WSURL = envString("WS_URL", "ws://localhost:8084/gostop")
	c.Server.APIBaseURL = envString("API_BASE_URL", "http://127.0.0.1:8084")

	c.Room.RoomID = envString("ROOM_ID", "1")
	c.Room.UserID = envString("USER_ID", "1")
	c.Room.Create = envBool("CREATE_ROOM", false)

	c.Game.AnimationDelay = envDuration("ANIMATION_DELAY", 800*time.Millisecond)
	c.Game.LeaderRevealDwell = envDuration("LEADER_REVEAL_DWELL", 3*time.Second)
	c.Game.DealInterval = envDuration("DEAL_INTERVAL", 150*time.Millisecond)
	c.Game.DealPhaseGap = envDuration("DEAL_PHASE_GAP", 800*time.Millisecond)
	c.Game.TurnDisplay = envDuration("TURN_DISPLAY", 2*time.Second)
	c.Game.SetupTimeout = envDuration("SETUP_TIMEOUT", 0)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Server.WSURL == "" {
		return errors.New("WS_URL is empty")
	}
	if c.Server.APIBaseURL == "" {
		return errors.New("API_BASE_URL is empty")
	}
	if c.Room.UserID == "" {
		return errors.New("USER_ID is empty")
	}
	if c.Room.RoomID == "" {
		return errors.New("ROOM_ID is empty")
	}
	if c.Game.AnimationDelay <= 0 {
		return fmt.Errorf("ANIMATION_DELAY must be positive, got %s", c.Game.AnimationDelay)
	}
	if c.Game.SetupTimeout < 0 {
		return errors.New("SETUP_TIMEOUT must be >= 0")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
