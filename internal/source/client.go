package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/clockstorm/internal/model"
)

// Client reads the current timesheet grid from the timesheet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client authenticating every request with ts.
func NewClient(ctx context.Context, baseURL string, ts oauth2.TokenSource) *Client {
	return NewHTTPClient(baseURL, oauth2.NewClient(ctx, ts))
}

// NewHTTPClient returns a client using hc as is.
func NewHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// QueryTimeSheet fetches the week currently open upstream. It returns nil
// when the API has no grid to show.
func (c *Client) QueryTimeSheet(ctx context.Context) (*model.TimeSheet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/timesheets/current", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timesheet API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("timesheet API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var grid WireTimeSheet
	if err := json.Unmarshal(body, &grid); err != nil {
		return nil, fmt.Errorf("decoding timesheet response: %w", err)
	}
	return grid.ToTimeSheet()
}
