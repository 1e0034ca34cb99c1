// Package page drives a game through its HTML board page, the way a person
// with a browser would: it reads the rendered cells and submits the cell
// forms. The JSON API serves as a fallback when a form submission fails.
package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mcoot/sweepbot/internal/apiclient"
	"github.com/mcoot/sweepbot/internal/dependencies/clock"
	"github.com/mcoot/sweepbot/internal/model"
)

// Driver reads and plays one game over HTTP
type Driver struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	api        *apiclient.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a page driver for cfg.GameID
func New(cfg Config, clk clock.Clock, logger *slog.Logger) *Driver {
	defaults := DefaultConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Driver{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			// A successful form post answers with a redirect; its status is all we need
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		api:    apiclient.New(baseURL, cfg.Token),
		clock:  clk,
		logger: logger.With(slog.String("component", "page_driver"), slog.String("game_id", string(cfg.GameID))),
	}
}

// BoardState loads the board page and parses its cells
func (d *Driver) BoardState(ctx context.Context) (*model.Board, error) {
	doc, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return parseBoard(doc)
}

// GameStatus loads the board page and reads the face indicator
func (d *Driver) GameStatus(ctx context.Context) (model.GameStatus, error) {
	doc, err := d.load(ctx)
	if err != nil {
		return "", err
	}
	return parseStatus(doc)
}

// Click submits the cell form for action, falls back to the JSON API if the
// form is rejected, then polls the page until the move shows up
func (d *Driver) Click(ctx context.Context, action model.Action) error {
	if err := d.submit(ctx, action); err != nil {
		d.logger.Warn("form submission failed, trying api",
			slog.String("action", action.String()),
			slog.String("error", err.Error()),
		)
		if _, apiErr := d.api.Apply(ctx, d.cfg.GameID, action); apiErr != nil {
			return fmt.Errorf("%s: form: %v; api: %w", action, err, apiErr)
		}
	}

	for attempt := 0; ; attempt++ {
		confirmed, err := d.confirmed(ctx, action)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}
		if attempt >= d.cfg.MaxRetries {
			break
		}
		if err := d.clock.Sleep(ctx, d.cfg.Backoff); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s after %d checks: %w", action, d.cfg.MaxRetries+1, model.ErrMoveUnconfirmed)
}

// confirmed reports whether the board shows the effect of action. Any
// visible mine also counts since the game is then over.
func (d *Driver) confirmed(ctx context.Context, action model.Action) (bool, error) {
	board, err := d.BoardState(ctx)
	if err != nil {
		return false, err
	}
	if !board.InBounds(action.Position) {
		return false, fmt.Errorf("%w: %s", model.ErrInvalidPosition, action.Position)
	}
	if board.IsGameOver() {
		return true, nil
	}

	cell := board.At(action.Position)
	switch action.Kind {
	case model.ActionFlag:
		return cell.Flagged, nil
	default:
		return cell.Revealed, nil
	}
}

func (d *Driver) gamePath() string {
	return "/games/" + url.PathEscape(string(d.cfg.GameID))
}

func (d *Driver) load(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+d.gamePath(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load board page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", model.ErrGameNotFound, d.cfg.GameID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("board page returned HTTP %d", resp.StatusCode)
	}

	return readDocument(resp.Body)
}

// submit posts the cell form. Only a redirect back to the board counts as
// success; the server answers rejected moves with an error page.
func (d *Driver) submit(ctx context.Context, action model.Action) error {
	target := fmt.Sprintf("%s%s/cells/%d/%d/%s", d.baseURL, d.gamePath(), action.Row, action.Col, action.Kind)
	form := url.Values{"token": {d.cfg.Token}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("form post failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusFound {
		return fmt.Errorf("form post returned HTTP %d", resp.StatusCode)
	}
	return nil
}
