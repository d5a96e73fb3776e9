package roomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Response is the happy-path body of the room endpoints.
type Response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// APIError is the error body of the room endpoints.
type APIError struct {
	ErrorCode    string `json:"errorCode"`
	HTTPStatus   int    `json:"httpStatus"`
	ErrorMessage string `json:"errorMessage"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("room api: %s (%d): %s", e.ErrorCode, e.HTTPStatus, e.ErrorMessage)
}

// Client talks to the external room service. Transient failures
// (network errors, 5xx) are retried with fibonacci backoff; 4xx
// answers are final.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger

	maxRetry time.Duration
}

func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:     baseURL,
		http:     &http.Client{Timeout: 5 * time.Second},
		log:      log,
		maxRetry: 10 * time.Second,
	}
}

type createRoomRequest struct {
	RoomID string `json:"roomId"`
}

type joinRoomRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// CreateRoom registers a new room id with the server.
func (c *Client) CreateRoom(ctx context.Context, roomID string) (Response, error) {
	return c.post(ctx, "/room", createRoomRequest{RoomID: roomID})
}

// JoinRoom joins an existing room as the given user.
func (c *Client) JoinRoom(ctx context.Context, roomID, userID string) (Response, error) {
	return c.post(ctx, "/room/join", joinRoomRequest{RoomID: roomID, UserID: userID})
}

func (c *Client) post(ctx context.Context, path string, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("room api: marshal: %w", err)
	}

	var out Response
	backoff := retry.WithMaxDuration(c.maxRetry, retry.NewFibonacci(200*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("room api request failed, retrying", "path", path, "err", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= 500 {
			c.log.Warn("room api server error, retrying", "path", path, "status", resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("room api: status %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			apiErr := &APIError{HTTPStatus: resp.StatusCode}
			if jerr := json.Unmarshal(raw, apiErr); jerr != nil {
				apiErr.ErrorMessage = string(raw)
			}
			return apiErr
		}

		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("room api: decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}
