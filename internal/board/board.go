// Package board holds the Kanban view of a user's job applications: the
// cached job list, the five-lane partition, and the move/add/edit/delete
// flows against the jobs API. The server remains the source of truth;
// every confirmed mutation is followed by a full refetch.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
)

var ErrCardNotFound = errors.New("board: card not found")

// ValidationError mirrors the add/edit modal checks that run before any
// request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "board: " + e.Field + ": " + e.Message
}

// APIError carries the error envelope of a failed API call.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("board: api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// CardForm is the add/edit modal payload. Status is set from the target lane
// on add; on edit the full field set is submitted.
type CardForm struct {
	CompanyName string
	Role        string
	Priority    domain.JobPriority
	DateApplied time.Time
	Status      domain.JobStatus
	SalaryRange string
	Location    string
	Notes       string
	Link        string
}

// Client is a single user's board session. It is not safe for concurrent
// mutation; the UI drives one action at a time.
type Client struct {
	baseURL string
	http    *http.Client
	token   string

	jobs []domain.Job
}

type Option func(*Client)

// WithHTTPClient substitutes the transport, which is how tests point the
// board at an httptest server with a custom client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends the session as a bearer header instead of relying on the
// cookie jar.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the cached list with the server's current one.
func (c *Client) Load(ctx context.Context) error {
	var payload struct {
		Jobs []domain.Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &payload); err != nil {
		return err
	}
	c.jobs = payload.Jobs
	return nil
}

// Jobs returns the cached list in server order.
func (c *Client) Jobs() []domain.Job {
	out := make([]domain.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Lanes partitions the cached list into the five columns. Lane order is
// fixed; within a lane cards keep the server's ordering.
func (c *Client) Lanes() map[domain.JobStatus][]domain.Job {
	lanes := make(map[domain.JobStatus][]domain.Job, len(domain.BoardLanes))
	for _, lane := range domain.BoardLanes {
		lanes[lane] = []domain.Job{}
	}
	for _, job := range c.jobs {
		lanes[job.Status] = append(lanes[job.Status], job)
	}
	return lanes
}

// Card returns the cached card by id.
func (c *Client) Card(id uint) (*domain.Job, error) {
	for i := range c.jobs {
		if c.jobs[i].ID == id {
			job := c.jobs[i]
			return &job, nil
		}
	}
	return nil, ErrCardNotFound
}

// MoveCard handles a drop onto another lane. A drop onto the card's current
// lane is a no-op with no request. Otherwise the status change is PATCHed
// and, once confirmed, the whole list is refetched so the lanes reflect the
// server. A failed PATCH leaves the cached state untouched.
func (c *Client) MoveCard(ctx context.Context, id uint, target domain.JobStatus) error {
	if !target.Valid() {
		return &ValidationError{Field: "status", Message: "unknown lane"}
	}
	card, err := c.Card(id)
	if err != nil {
		return err
	}
	if card.Status == target {
		return nil
	}

	body := map[string]any{"status": string(target)}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), body, nil); err != nil {
		return err
	}
	return c.Load(ctx)
}

// AddCard validates the modal fields, POSTs the new card with the target
// lane as its status, and refetches on success.
func (c *Client) AddCard(ctx context.Context, form CardForm, lane domain.JobStatus) error {
	form.Status = lane
	if err := validateForm(form); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, "/api/jobs", formPayload(form), nil); err != nil {
		return err
	}
	return c.Load(ctx)
}

// EditCard submits the full field set for an existing card and refetches on
// success.
func (c *Client) EditCard(ctx context.Context, id uint, form CardForm) error {
	if _, err := c.Card(id); err != nil {
		return err
	}
	if err := validateForm(form); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/jobs/%d", id), formPayload(form), nil); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *Client) DeleteCard(ctx context.Context, id uint) error {
	if _, err := c.Card(id); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), nil, nil); err != nil {
		return err
	}
	return c.Load(ctx)
}

// CardDetails renders the populated fields of a card as label/value pairs,
// the way the details dialog shows them. Empty optional fields are omitted.
func (c *Client) CardDetails(id uint) ([][2]string, error) {
	card, err := c.Card(id)
	if err != nil {
		return nil, err
	}
	details := [][2]string{
		{"Company", card.CompanyName},
		{"Role", card.Role},
		{"Priority", string(card.Priority)},
		{"Status", string(card.Status)},
		{"Applied", card.DateApplied.Format("2006-01-02")},
	}
	optional := [][2]string{
		{"Salary", card.SalaryRange},
		{"Location", card.Location},
		{"Notes", card.Notes},
		{"Link", card.Link},
	}
	for _, pair := range optional {
		if pair[1] != "" {
			details = append(details, pair)
		}
	}
	return details, nil
}

func validateForm(form CardForm) error {
	if strings.TrimSpace(form.CompanyName) == "" {
		return &ValidationError{Field: "company_name", Message: "company name is required"}
	}
	if strings.TrimSpace(form.Role) == "" {
		return &ValidationError{Field: "role", Message: "role is required"}
	}
	if !form.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "priority is required"}
	}
	if form.Status != "" && !form.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown lane"}
	}
	if !form.DateApplied.IsZero() && form.DateApplied.After(time.Now().Add(time.Minute)) {
		return &ValidationError{Field: "date_applied", Message: "date cannot be in the future"}
	}
	if form.Link != "" {
		u, err := url.Parse(form.Link)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{Field: "link", Message: "link must be an absolute URL"}
		}
	}
	return nil
}

func formPayload(form CardForm) map[string]any {
	payload := map[string]any{
		"company_name": form.CompanyName,
		"role":         form.Role,
		"priority":     string(form.Priority),
		"salary_range": form.SalaryRange,
		"location":     form.Location,
		"notes":        form.Notes,
		"link":         form.Link,
	}
	if form.Status != "" {
		payload["status"] = string(form.Status)
	}
	if !form.DateApplied.IsZero() {
		payload["date_applied"] = form.DateApplied.UTC().Format(time.RFC3339)
	}
	return payload
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "INTERNAL", Message: resp.Status}
	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != nil {
		if envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
		}
		if envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
	}
	return apiErr
}
