package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"

	"github.com/claude/vyayam/internal/models"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// spreadsheetIDRe extracts the document ID from a Google Sheets URL.
var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Client fetches a workout catalog from a Google Sheets value range.
// A circuit breaker guards against hammering a broken connection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cellRange  string
	breaker    *breaker
	log        *slog.Logger

	// mu guards the connection credentials: one Client is shared by
	// every request handler, and a refresh can overlap a reconfigure.
	mu            sync.Mutex
	apiKey        string
	spreadsheetID string
}

// New creates an unconfigured Client. cellRange is the fixed range read
// from connected sheets (e.g. "Sheet1!A:F").
func New(cellRange string, maxFailures int, cooldown time.Duration, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		cellRange:  cellRange,
		breaker:    newBreaker(maxFailures, cooldown),
		log:        log,
	}
}

// ExtractSpreadsheetID pulls the document ID out of a sheet URL.
// Returns "" when the URL does not match the expected pattern.
func ExtractSpreadsheetID(sheetURL string) string {
	m := spreadsheetIDRe.FindStringSubmatch(sheetURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Configure sets the connection credentials. The API key may be empty
// for publicly accessible sheets.
func (c *Client) Configure(apiKey, sheetURL string) error {
	id := ExtractSpreadsheetID(sheetURL)
	if id == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSourceURL, sheetURL)
	}
	c.mu.Lock()
	c.apiKey = apiKey
	c.spreadsheetID = id
	c.mu.Unlock()
	return nil
}

// Configured reports whether Configure has succeeded.
func (c *Client) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spreadsheetID != ""
}

// FetchCatalog fetches and parses the configured sheet. Any failure
// (transport, permission, parse) counts against the circuit breaker;
// with the breaker open it fails fast with ErrRateLimited and no
// network call is made.
func (c *Client) FetchCatalog(ctx context.Context) (models.Catalog, error) {
	c.mu.Lock()
	id, key := c.spreadsheetID, c.apiKey
	c.mu.Unlock()

	if id == "" {
		return nil, ErrNotConfigured
	}
	if !c.breaker.allow() {
		return nil, ErrRateLimited
	}

	catalog, err := c.fetch(ctx, id, key)
	if err != nil {
		c.breaker.recordFailure()
		return nil, err
	}
	c.breaker.recordSuccess()
	return catalog, nil
}

func (c *Client) fetch(ctx context.Context, spreadsheetID, apiKey string) (models.Catalog, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.baseURL, spreadsheetID, url.PathEscape(c.cellRange))
	if apiKey != "" {
		u += "?key=" + url.QueryEscape(apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransportFailure, err)
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransportFailure, err)
	}

	catalog, err := ParseRows(payload.Values)
	if err != nil {
		return nil, err
	}

	c.log.Info("fetched catalog from sheet", "days", len(catalog))
	return catalog, nil
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrMalformedRequest
	case http.StatusForbidden:
		return ErrAccessDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: status %d", ErrTransportFailure, code)
	}
}
