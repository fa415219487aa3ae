package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPClient talks to an external identity service over JSON/HTTP.
// Every response is an envelope carrying either a "data" object or an
// "error" object with a code, message, and optional field details.
type HTTPClient struct {
	// BaseURL is the service root, without a trailing slash.
	BaseURL string
	// Client is the underlying HTTP client.
	Client *http.Client
}

// NewHTTPClient constructs an HTTPClient for the given base URL.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{BaseURL: baseURL, Client: client}
}

// envelope is the wire shape of every identity-service response.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *wireError      `json:"error"`
}

type wireError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// call posts the request body to path and decodes the envelope. A non-empty
// token is sent as a bearer credential. The returned error is *Error when the
// service reported a rejection.
func (c *HTTPClient) call(ctx context.Context, path, token string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("identity call %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	if env.Error != nil {
		return &Error{Code: env.Error.Code, Message: env.Error.Message, Details: env.Error.Details}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data from %s: %w", path, err)
		}
	}
	return nil
}

// loginData is the data payload of both login operations.
type loginData struct {
	Ticket string `json:"ticket"`
	UserID string `json:"userId"`
}

// Register creates a new account on the external service.
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.call(ctx, "/v1/register", "", body, nil)
}

// LoginWithEmail exchanges email/password credentials for a session ticket.
func (c *HTTPClient) LoginWithEmail(ctx context.Context, email, password string) (*LoginResult, error) {
	var data loginData
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, "/v1/login/email", "", body, &data); err != nil {
		return nil, err
	}
	return &LoginResult{Token: data.Ticket, UserID: data.UserID}, nil
}

// LoginWithCustomID registers or logs in the secondary identity.
func (c *HTTPClient) LoginWithCustomID(ctx context.Context, customID string) (*LoginResult, error) {
	var data loginData
	body := map[string]string{"customId": customID, "createAccount": "true"}
	if err := c.call(ctx, "/v1/login/custom", "", body, &data); err != nil {
		return nil, err
	}
	return &LoginResult{Token: data.Ticket, UserID: data.UserID}, nil
}

// GetUserData reads the given keys from the authenticated user's record.
func (c *HTTPClient) GetUserData(ctx context.Context, token string, keys []string) (map[string]string, error) {
	var data struct {
		Data map[string]string `json:"data"`
	}
	body := map[string][]string{"keys": keys}
	if err := c.call(ctx, "/v1/userdata/get", token, body, &data); err != nil {
		return nil, err
	}
	return data.Data, nil
}

// UpdateUserData writes the given key-value pairs to the user's record.
func (c *HTTPClient) UpdateUserData(ctx context.Context, token string, data map[string]string) error {
	body := map[string]map[string]string{"data": data}
	return c.call(ctx, "/v1/userdata/update", token, body, nil)
}
