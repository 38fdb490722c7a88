// Package ghl is a small client for the GoHighLevel v2 contacts API.
//
// Every call returns a typed result instead of an error: transport failures, non-2xx responses and
// malformed bodies are folded into the result's Error field so callers can persist them as-is.
package ghl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/logging"
	"github.com/octobees/digital-card/api/internal/metrics"
)

const (
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"

	// SourceTag is the lead source shown in the CRM for card submissions.
	SourceTag = "Tarjeta Digital"

	maxResponseBytes = 1 << 20
)

var defaultTags = []string{"digital-card"}

// HTTPClient abstracts HTTP requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures optional client settings.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAPIVersion overrides the Version header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// Client talks to GoHighLevel on behalf of one location.
type Client struct {
	apiKey     string
	locationID string
	baseURL    string
	apiVersion string
	http       HTTPClient
}

// New builds a client for the given private integration key and location.
func New(apiKey, locationID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		locationID: strings.TrimSpace(locationID),
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CustomField is a key/value pair stored on the CRM contact.
type CustomField struct {
	Key        string `json:"key"`
	FieldValue string `json:"field_value"`
}

// ContactPayload is the CRM contact shape used by upsert and update.
type ContactPayload struct {
	LocationID   string        `json:"locationId,omitempty"`
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	CompanyName  string        `json:"companyName,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// UpsertResult is the normalized outcome of UpsertContact. Success implies a non-empty ContactID.
type UpsertResult struct {
	Success    bool   `json:"success"`
	ContactID  string `json:"ghl_contact_id,omitempty"`
	IsNew      bool   `json:"is_new"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Result is the outcome of UpdateContact and AddNote.
type Result struct {
	Success    bool   `json:"success"`
	ContactID  string `json:"ghl_contact_id,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LookupResult is the outcome of FindByEmail. Found is false both when no match exists and on error.
type LookupResult struct {
	Found     bool   `json:"found"`
	ContactID string `json:"ghl_contact_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BuildUpsertPayload maps a contact to the CRM shape.
func BuildUpsertPayload(locationID string, contact entity.Contact) ContactPayload {
	first, last, _ := strings.Cut(strings.TrimSpace(contact.FullName), " ")

	fields := []CustomField{{Key: "interest_type", FieldValue: InterestLabel(contact.InterestType)}}
	if msg := deref(contact.Message); msg != "" {
		fields = append(fields, CustomField{Key: "initial_message", FieldValue: msg})
	}
	if contact.Source != "" {
		fields = append(fields, CustomField{Key: "contact_source", FieldValue: contact.Source})
	}

	return ContactPayload{
		LocationID:   locationID,
		FirstName:    first,
		LastName:     last,
		Email:        contact.Email,
		Phone:        deref(contact.Phone),
		CompanyName:  deref(contact.Company),
		Source:       SourceTag,
		Tags:         append([]string(nil), defaultTags...),
		CustomFields: fields,
	}
}

// UpsertContact creates or updates the contact; duplicate detection by email/phone happens server-side.
func (c *Client) UpsertContact(ctx context.Context, contact entity.Contact) UpsertResult {
	if c.apiKey == "" || c.locationID == "" {
		return UpsertResult{Error: "GHL credentials are not configured"}
	}

	log := logging.Ctx(ctx)
	log.Info().Str("email", contact.Email).Str("location_id", c.locationID).Msg("upserting ghl contact")

	status, body, err := c.do(ctx, "upsert_contact", http.MethodPost, "/contacts/upsert", nil, BuildUpsertPayload(c.locationID, contact))
	if err != nil {
		log.Error().Err(err).Msg("ghl upsert request failed")
		return UpsertResult{Error: err.Error()}
	}
	if !isSuccess(status) {
		msg := extractAPIError(status, body)
		log.Warn().Int("status", status).Str("error", msg).Msg("ghl upsert rejected")
		return UpsertResult{StatusCode: status, Error: msg}
	}

	var resp struct {
		Contact *struct {
			ID string `json:"id"`
		} `json:"contact"`
		New *bool `json:"new"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return UpsertResult{StatusCode: status, Error: fmt.Sprintf("invalid GHL response: %v", err)}
	}
	if resp.Contact == nil || resp.Contact.ID == "" {
		return UpsertResult{StatusCode: status, Error: "GHL response missing contact id"}
	}

	// The upsert endpoint omits "new" on some plans; treat that as a creation.
	isNew := true
	if resp.New != nil {
		isNew = *resp.New
	}
	return UpsertResult{Success: true, ContactID: resp.Contact.ID, IsNew: isNew, StatusCode: status}
}

// FindByEmail looks up an existing contact through the duplicate-search endpoint.
func (c *Client) FindByEmail(ctx context.Context, email string) LookupResult {
	query := url.Values{}
	query.Set("locationId", c.locationID)
	query.Set("email", email)

	status, body, err := c.do(ctx, "find_contact", http.MethodGet, "/contacts/search/duplicate", query, nil)
	if err != nil {
		return LookupResult{Error: err.Error()}
	}
	if !isSuccess(status) {
		return LookupResult{Error: extractAPIError(status, body)}
	}

	var resp struct {
		Contact *struct {
			ID string `json:"id"`
		} `json:"contact"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return LookupResult{Error: fmt.Sprintf("invalid GHL response: %v", err)}
	}
	if resp.Contact == nil || resp.Contact.ID == "" {
		return LookupResult{}
	}
	return LookupResult{Found: true, ContactID: resp.Contact.ID}
}

// UpdateContact patches an existing CRM contact.
func (c *Client) UpdateContact(ctx context.Context, contactID string, updates ContactPayload) Result {
	if strings.TrimSpace(contactID) == "" {
		return Result{Error: "GHL contact id is required"}
	}
	// The update endpoint rejects locationId in the body.
	updates.LocationID = ""

	status, body, err := c.do(ctx, "update_contact", http.MethodPut, "/contacts/"+url.PathEscape(contactID), nil, updates)
	if err != nil {
		return Result{Error: err.Error()}
	}
	if !isSuccess(status) {
		return Result{StatusCode: status, Error: extractAPIError(status, body)}
	}
	return Result{Success: true, ContactID: contactID, StatusCode: status}
}

// AddNote attaches a free-text note to a CRM contact.
func (c *Client) AddNote(ctx context.Context, contactID, note string) Result {
	if strings.TrimSpace(contactID) == "" {
		return Result{Error: "GHL contact id is required"}
	}

	payload := map[string]string{"body": note}
	status, body, err := c.do(ctx, "add_note", http.MethodPost, "/contacts/"+url.PathEscape(contactID)+"/notes", nil, payload)
	if err != nil {
		return Result{Error: err.Error()}
	}
	if !isSuccess(status) {
		return Result{StatusCode: status, Error: extractAPIError(status, body)}
	}
	return Result{Success: true, ContactID: contactID, StatusCode: status}
}

// TestConnection verifies the credentials by reading the location.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	if c.apiKey == "" || c.locationID == "" {
		return ConnectionResult{Error: "GHL credentials are not configured"}
	}

	status, _, err := c.do(ctx, "get_location", http.MethodGet, "/locations/"+url.PathEscape(c.locationID), nil, nil)
	if err != nil {
		return ConnectionResult{Error: err.Error()}
	}
	if !isSuccess(status) {
		return ConnectionResult{StatusCode: status, Error: fmt.Sprintf("Connection failed: %d", status)}
	}
	return ConnectionResult{Success: true, StatusCode: status}
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create GHL request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveCRMRequest(operation, 0, started)
		return 0, nil, fmt.Errorf("GHL request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveCRMRequest(operation, resp.StatusCode, started)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read GHL response: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("operation", operation).Int("status", resp.StatusCode).Msg("ghl response")
	return resp.StatusCode, body, nil
}

// extractAPIError pulls "message" (string or list) or "error" from an error body,
// falling back to a generic message with the status code.
func extractAPIError(status int, body []byte) string {
	fallback := fmt.Sprintf("GHL API error: %d", status)
	if len(bytes.TrimSpace(body)) == 0 {
		return fallback
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	if len(payload.Message) > 0 {
		var single string
		if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
			return single
		}
		var many []string
		if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
			return strings.Join(many, "; ")
		}
	}
	if payload.Error != "" {
		return payload.Error
	}
	return fallback
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
