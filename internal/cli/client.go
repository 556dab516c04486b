package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"harvest/internal/catalog"
	"harvest/internal/game"
	"harvest/internal/history"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type GameResponse struct {
	ID    string      `json:"id"`
	State *game.State `json:"state"`
}

func (c *Client) CreateGame(ctx context.Context, country, crop string) (GameResponse, error) {
	var out GameResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{
		"country": country,
		"crop":    crop,
	}, &out)
	return out, err
}

func (c *Client) GameState(ctx context.Context, id string) (*game.State, error) {
	var out struct {
		State *game.State `json:"state"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(id), nil, &out)
	return out.State, err
}

func (c *Client) SubmitInvestment(ctx context.Context, id string, percentage int) (*game.State, error) {
	var out struct {
		State *game.State `json:"state"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(id)+"/investments", map[string]any{
		"percentage": percentage,
	}, &out)
	return out.State, err
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.jsonRequest(ctx, http.MethodDelete, "/v1/games/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Countries(ctx context.Context) ([]catalog.Country, error) {
	var out struct {
		Countries []catalog.Country `json:"countries"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/countries", nil, &out)
	return out.Countries, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]history.Row, error) {
	path := "/v1/leaderboard"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Leaderboard []history.Row `json:"leaderboard"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out.Leaderboard, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
