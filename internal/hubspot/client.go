// Package hubspot wraps the HubSpot CRM v3 endpoints the lead sync
// needs: contact upsert, note attachment, and follow-up tasks.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"log/slog"
)

const (
	defaultBaseURL   = "https://api.hubapi.com"
	defaultUserAgent = "lenilani-ai/0.1"
)

// ErrNotConfigured is returned by New when no API key is supplied.
var ErrNotConfigured = errors.New("hubspot: API key is required")

// Config controls how the HubSpot client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the HubSpot CRM REST endpoints used by the chat lead
// pipeline.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// Contact carries everything the sync writes onto a HubSpot contact.
// Email is the upsert key and must be set.
type Contact struct {
	Email              string
	Name               string
	Phone              string
	LeadScore          int
	LeadPriority       string
	RecommendedService string
	AnnualSavings      float64
	ROIPercent         float64
	HoursPerWeek       float64
	WorkType           string
}

func (c Contact) properties() map[string]string {
	props := map[string]string{
		"email":            c.Email,
		"ai_lead_score":    fmt.Sprintf("%d", c.LeadScore),
		"ai_lead_priority": c.LeadPriority,
		"lifecyclestage":   "lead",
		"hs_lead_status":   "NEW",
	}
	if c.Name != "" {
		first, last := splitName(c.Name)
		props["firstname"] = first
		if last != "" {
			props["lastname"] = last
		}
	}
	if c.Phone != "" {
		props["phone"] = c.Phone
	}
	if c.RecommendedService != "" {
		props["ai_recommended_service"] = c.RecommendedService
	}
	if c.AnnualSavings > 0 {
		props["ai_annual_savings"] = fmt.Sprintf("%.0f", c.AnnualSavings)
		props["ai_roi_percentage"] = fmt.Sprintf("%.0f", c.ROIPercent)
	}
	if c.HoursPerWeek > 0 {
		props["ai_hours_per_week"] = fmt.Sprintf("%.0f", c.HoursPerWeek)
	}
	if c.WorkType != "" {
		props["ai_work_type"] = c.WorkType
	}
	return props
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

type contactObject struct {
	ID string `json:"id"`
}

// existingIDRE pulls the contact id out of HubSpot's 409 conflict
// message ("Contact already exists. Existing ID: 12345").
var existingIDRE = regexp.MustCompile(`Existing ID:\s*(\d+)`)

// UpsertContact creates the contact keyed by email, or updates the
// existing one when HubSpot reports a conflict. Returns the contact id.
func (c *Client) UpsertContact(ctx context.Context, contact Contact) (string, error) {
	if strings.TrimSpace(contact.Email) == "" {
		return "", errors.New("hubspot: contact email required")
	}
	body, err := json.Marshal(map[string]any{"properties": contact.properties()})
	if err != nil {
		return "", fmt.Errorf("hubspot: marshal contact: %w", err)
	}

	data, err := c.invoke(ctx, http.MethodPost, "/crm/v3/objects/contacts", body)
	if err == nil {
		var created contactObject
		if err := json.Unmarshal(data, &created); err != nil {
			return "", fmt.Errorf("hubspot: decode contact: %w", err)
		}
		return created.ID, nil
	}

	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		return "", err
	}
	m := existingIDRE.FindStringSubmatch(apiErr.Message)
	if len(m) < 2 {
		return "", fmt.Errorf("hubspot: conflict without existing id: %w", apiErr)
	}
	id := m[1]
	if _, err := c.invoke(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+id, body); err != nil {
		return "", err
	}
	return id, nil
}

// Association type ids from the HubSpot v3 defaults.
const (
	assocNoteToContact = 202
	assocTaskToContact = 204
)

func contactAssociation(contactID string, typeID int) []map[string]any {
	return []map[string]any{{
		"to": map[string]string{"id": contactID},
		"types": []map[string]any{{
			"associationCategory": "HUBSPOT_DEFINED",
			"associationTypeId":   typeID,
		}},
	}}
}

// AttachNote writes the conversation summary onto the contact's
// timeline.
func (c *Client) AttachNote(ctx context.Context, contactID, note string) error {
	if strings.TrimSpace(contactID) == "" {
		return errors.New("hubspot: contact id required")
	}
	body, err := json.Marshal(map[string]any{
		"properties": map[string]string{
			"hs_note_body": note,
			"hs_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"associations": contactAssociation(contactID, assocNoteToContact),
	})
	if err != nil {
		return fmt.Errorf("hubspot: marshal note: %w", err)
	}
	_, err = c.invoke(ctx, http.MethodPost, "/crm/v3/objects/notes", body)
	return err
}

// CreateTask opens a follow-up task on the contact, due at the given
// time.
func (c *Client) CreateTask(ctx context.Context, contactID, subject, notes string, due time.Time) error {
	if strings.TrimSpace(contactID) == "" {
		return errors.New("hubspot: contact id required")
	}
	body, err := json.Marshal(map[string]any{
		"properties": map[string]string{
			"hs_task_subject":  subject,
			"hs_task_body":     notes,
			"hs_task_status":   "NOT_STARTED",
			"hs_task_priority": "HIGH",
			"hs_timestamp":     due.UTC().Format(time.RFC3339),
		},
		"associations": contactAssociation(contactID, assocTaskToContact),
	})
	if err != nil {
		return fmt.Errorf("hubspot: marshal task: %w", err)
	}
	_, err = c.invoke(ctx, http.MethodPost, "/crm/v3/objects/tasks", body)
	return err
}

func (c *Client) invoke(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("hubspot: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("User-Agent", c.userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !shouldRetry(0, err) || attempt == c.maxRetries {
				return nil, fmt.Errorf("hubspot: http error: %w", err)
			}
			lastErr = err
			c.logRetry(path, attempt, 0, err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("hubspot: read response: %w", readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}
		apiErr := decodeAPIError(resp.StatusCode, data)
		if attempt < c.maxRetries && shouldRetry(resp.StatusCode, nil) {
			lastErr = apiErr
			c.logRetry(path, attempt, resp.StatusCode, apiErr)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}
		return nil, apiErr
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("hubspot: request failed without response")
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRetry(path string, attempt int, status int, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("hubspot retry",
		"path", path,
		"attempt", attempt+1,
		"status", status,
		"error", err,
	)
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		return !errors.Is(err, context.Canceled)
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

type apiError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status,omitempty"`
	Category   string `json:"category,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hubspot: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("hubspot: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) error {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &apiError{StatusCode: status, Message: string(body)}
	}
	parsed.StatusCode = status
	return &parsed
}
