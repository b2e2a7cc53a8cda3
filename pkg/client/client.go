package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a Go SDK for the jury-engine API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header of every request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new jury-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		userAgent: "jury-engine-client",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Element is a gradable component of a unit
type Element struct {
	ID          int64   `json:"id"`
	Designation string  `json:"designation"`
	Credit      float64 `json:"credit"`
}

// Unit is a teaching unit with its elements
type Unit struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Designation string     `json:"designation"`
	Semester    string     `json:"semester"`
	Credits     float64    `json:"credits"`
	Elements    []*Element `json:"elements"`
}

// Student is an enrolled student
type Student struct {
	ID         int64  `json:"id"`
	Matricule  string `json:"matricule"`
	LastName   string `json:"nom"`
	MiddleName string `json:"post_nom"`
	FirstName  string `json:"prenom"`
	Email      string `json:"e_mail,omitempty"`
}

// Semester holds the units and students of one semester
type Semester struct {
	Code     string     `json:"semestre"`
	Units    []*Unit    `json:"unites"`
	Students []*Student `json:"etudiants"`
}

// Promotion groups semesters of one study year
type Promotion struct {
	Name      string      `json:"promotion"`
	Semesters []*Semester `json:"semestres"`
}

// Jury is the hierarchy of a jury
type Jury struct {
	ID         int64        `json:"jury_id"`
	Promotions []*Promotion `json:"promotions"`
}

// GridRows is the keyed export of a grade grid
type GridRows struct {
	BuildID   string           `json:"build_id"`
	JuryID    int64            `json:"jury_id"`
	Semester  string           `json:"semester"`
	Session   string           `json:"session"`
	Positions int              `json:"positions"`
	Rows      []map[string]any `json:"rows"`
}

// Health checks the liveness endpoint
func (c *Client) Health(ctx context.Context) error {
	_, err := c.getJSON(ctx, "/health", nil)
	return err
}

// GetJury retrieves the hierarchy of a jury
func (c *Client) GetJury(ctx context.Context, juryID int64) (*Jury, error) {
	var jury Jury
	if _, err := c.getJSON(ctx, fmt.Sprintf("/api/v1/juries/%d", juryID), &jury); err != nil {
		return nil, err
	}
	return &jury, nil
}

// GridRows retrieves the keyed rows of a jury grid
func (c *Client) GridRows(ctx context.Context, juryID int64, session, semester string) (*GridRows, error) {
	var rows GridRows
	if _, err := c.getJSON(ctx, gridPath(juryID, session, semester)+"/rows", &rows); err != nil {
		return nil, err
	}
	return &rows, nil
}

// DownloadGrid streams the xlsx grid into w and returns the number of bytes written
func (c *Client) DownloadGrid(ctx context.Context, juryID int64, session, semester string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, gridPath(juryID, session, semester))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read grid: %w", err)
	}
	return n, nil
}

func gridPath(juryID int64, session, semester string) string {
	return fmt.Sprintf("/api/v1/juries/%d/grid/%s/%s", juryID, url.PathEscape(session), url.PathEscape(semester))
}

// getJSON performs a GET and unwraps the response envelope into data
func (c *Client) getJSON(ctx context.Context, path string, data any) (json.RawMessage, error) {
	resp, err := c.do(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data: %w", err)
		}
	}

	return envelope.Data, nil
}

// do performs a GET and turns error statuses into *APIError
func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var envelope struct {
			Error *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	return resp, nil
}
