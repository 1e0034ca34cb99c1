package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/sweepbot/internal/api/apierr"
	"github.com/mcoot/sweepbot/internal/api/request"
	"github.com/mcoot/sweepbot/internal/api/response"
	"github.com/mcoot/sweepbot/internal/model"
)

// Client is an HTTP client for the JSON API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token is the control token sent with moves;
// it may be empty for read-only use.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken updates the client's control token
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is an error response from the API. It unwraps to the matching
// model error when the code has one.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return apierr.FromCode(e.Code)
}

// Do performs an HTTP request
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp apierr.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return &Error{Status: resp.StatusCode, Code: errResp.Error.Code, Message: errResp.Error.Message}
		}
		return &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// CreateGame creates a game and adopts its control token
func (c *Client) CreateGame(ctx context.Context, req request.CreateGameRequest) (*response.CreatedGame, error) {
	var created response.CreatedGame
	if err := c.Do(ctx, http.MethodPost, "/api/v1/games", req, &created); err != nil {
		return nil, err
	}
	c.token = created.ControlToken
	return &created, nil
}

// GetGame fetches a game
func (c *Client) GetGame(ctx context.Context, id model.GameID) (*response.GameState, error) {
	var state response.GameState
	if err := c.Do(ctx, http.MethodGet, "/api/v1/games/"+string(id), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Status fetches a game's status
func (c *Client) Status(ctx context.Context, id model.GameID) (model.GameStatus, error) {
	var status response.Status
	if err := c.Do(ctx, http.MethodGet, "/api/v1/games/"+string(id)+"/status", nil, &status); err != nil {
		return "", err
	}
	return model.GameStatus(status.Status), nil
}

// Apply sends a reveal or flag
func (c *Client) Apply(ctx context.Context, id model.GameID, action model.Action) (*response.GameState, error) {
	var state response.GameState
	path := fmt.Sprintf("/api/v1/games/%s/%s", id, action.Kind)
	body := request.MoveRequest{Row: action.Row, Col: action.Col}
	if err := c.Do(ctx, http.MethodPost, path, body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// DeleteGame removes a game
func (c *Client) DeleteGame(ctx context.Context, id model.GameID) error {
	return c.Do(ctx, http.MethodDelete, "/api/v1/games/"+string(id), nil, nil)
}

// Health checks the server's health endpoint
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.Do(ctx, http.MethodGet, "/api/v1/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListGames fetches recently played games, newest first. A limit of zero
// uses the server's default.
func (c *Client) ListGames(ctx context.Context, limit int) ([]response.GameSummary, error) {
	path := "/api/v1/games"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var list response.GameList
	if err := c.Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Games, nil
}
