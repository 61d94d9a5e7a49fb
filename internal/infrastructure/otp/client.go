package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Verifier consumes an externally-issued OTP verification result. Code
// generation and delivery live with the OTP provider; this core only asks
// whether (user, code, fingerprint, ip) checks out.
type Verifier interface {
	Verify(ctx context.Context, userID, code, fingerprint, ip string) (bool, error)
}

// Client verifies OTP codes against the external provider's verify endpoint.
type Client struct {
	verifyURL string
	apiKey    string
	http      *http.Client
}

func NewClient(verifyURL, apiKey string) (*Client, error) {
	if verifyURL == "" {
		return nil, fmt.Errorf("OTP verify URL not configured")
	}
	return &Client{verifyURL: verifyURL, apiKey: apiKey, http: http.DefaultClient}, nil
}

// Unavailable is the verifier installed when no OTP provider is configured.
// Every check errors, so OTP-gated paths fail closed instead of panicking
// on a nil verifier.
type Unavailable struct{}

func (Unavailable) Verify(context.Context, string, string, string, string) (bool, error) {
	return false, fmt.Errorf("otp verifier not configured")
}

type verifyRequest struct {
	UserID      string `json:"user_id"`
	Code        string `json:"code"`
	Fingerprint string `json:"fingerprint"`
	IP          string `json:"ip"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (c *Client) Verify(ctx context.Context, userID, code, fingerprint, ip string) (bool, error) {
	body, err := json.Marshal(verifyRequest{UserID: userID, Code: code, Fingerprint: fingerprint, IP: ip})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("otp verify call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("otp verify status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("malformed otp verify response: %w", err)
	}
	// An explicit negative result is not a transport failure; the service
	// layer maps it to its own rejection state.
	return out.Valid, nil
}
