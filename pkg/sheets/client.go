// Package sheets is a minimal Google Sheets values API client.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Sentinel errors let callers distinguish auth failures from missing
// sheets without parsing messages.
var (
	ErrPermission = eris.New("sheets: permission denied")
	ErrNotFound   = eris.New("sheets: spreadsheet or range not found")
)

// Client performs Google Sheets values operations.
type Client interface {
	// GetValues reads a range (or whole sheet by name) as string cells.
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)

	// UpdateValues writes cells to a range with USER_ENTERED semantics.
	UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]string) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	tokens  TokenSource
	baseURL string
	http    *http.Client
}

// NewClient creates a Sheets API client authenticated by the given token
// source.
func NewClient(tokens TokenSource, opts ...Option) Client {
	c := &httpClient{
		tokens:  tokens,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type valuesResponse struct {
	Values [][]any `json:"values"`
}

func (c *httpClient) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(readRange))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result valuesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "sheets: unmarshal values")
	}

	rows := make([][]string, 0, len(result.Values))
	for _, row := range result.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

type updateRequest struct {
	Values [][]string `json:"values"`
}

func (c *httpClient) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]string) error {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(writeRange))

	payload, err := json.Marshal(updateRequest{Values: values})
	if err != nil {
		return eris.Wrap(err, "sheets: marshal update")
	}

	_, err = c.do(ctx, http.MethodPut, endpoint, payload)
	return err
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create request")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, eris.Wrapf(ErrPermission, "status %d: %s", resp.StatusCode, truncate(body))
	case http.StatusNotFound:
		return nil, eris.Wrapf(ErrNotFound, "status %d", resp.StatusCode)
	default:
		return nil, eris.Errorf("sheets: unexpected status %d: %s", resp.StatusCode, truncate(body))
	}
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
