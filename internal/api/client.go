package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

// CardsPath is the collection path of the password-cards resource.
const CardsPath = "/password-cards"

// HTTPClient implements cards.API against the password-cards REST endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ cards.API = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at baseURL.
// A zero timeout means requests never time out on their own.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %q", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// NewHTTPClientWith wraps an existing *http.Client, e.g. one from httptest.
func NewHTTPClientWith(baseURL string, client *http.Client) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

// updateRequest is the PUT body; the id travels in the path only.
type updateRequest struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// List fetches all entries. A JSON null body yields an empty list.
func (c *HTTPClient) List(ctx context.Context) ([]model.PasswordEntry, error) {
	var entries []model.PasswordEntry
	if err := c.do(ctx, http.MethodGet, CardsPath, nil, &entries); err != nil {
		return nil, fmt.Errorf("listing password cards: %w", err)
	}
	if entries == nil {
		entries = []model.PasswordEntry{}
	}
	return entries, nil
}

// Create posts a new entry including its client-generated id.
func (c *HTTPClient) Create(ctx context.Context, entry model.PasswordEntry) (model.PasswordEntry, error) {
	var created model.PasswordEntry
	if err := c.do(ctx, http.MethodPost, CardsPath, entry, &created); err != nil {
		return model.PasswordEntry{}, fmt.Errorf("creating password card: %w", err)
	}
	return created, nil
}

// Update puts the four text fields of entry to the card addressed by id.
func (c *HTTPClient) Update(ctx context.Context, id string, entry model.PasswordEntry) (model.PasswordEntry, error) {
	body := updateRequest{
		URL:      entry.URL,
		Name:     entry.Name,
		Username: entry.Username,
		Password: entry.Password,
	}

	var updated model.PasswordEntry
	if err := c.do(ctx, http.MethodPut, cardPath(id), body, &updated); err != nil {
		return model.PasswordEntry{}, fmt.Errorf("updating password card %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the card addressed by id. Any 2xx status is success.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, cardPath(id), nil, nil); err != nil {
		return fmt.Errorf("deleting password card %s: %w", id, err)
	}
	return nil
}

func cardPath(id string) string {
	return CardsPath + "/" + url.PathEscape(id)
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func statusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code, Message: http.StatusText(code)}

	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		se.Message = envelope.Message
		se.Detail = envelope.Error
	}
	return se
}
