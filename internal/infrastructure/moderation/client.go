package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/campus-trust-api/internal/domain"
)

// Client talks to an OpenAI-style text moderation endpoint. Every failure
// mode (transport error, non-2xx, malformed body) is wrapped in
// domain.ErrModerationUnavailable so the caller's fail-open policy has a
// single branch to key on.
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewClient(apiURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("moderation API key not configured")
	}
	return &Client{apiURL: apiURL, apiKey: apiKey, http: http.DefaultClient}, nil
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

// Classify asks the service whether the input violates content policy.
// The caller bounds the call with a context deadline.
func (c *Client) Classify(ctx context.Context, input string) (domain.Verdict, error) {
	body, err := json.Marshal(moderationRequest{Model: "omni-moderation-latest", Input: input})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("encode request: %w", domain.ErrModerationUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("build request: %w", domain.ErrModerationUnavailable)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("moderation call: %v: %w", err, domain.ErrModerationUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Verdict{}, fmt.Errorf("moderation status %d: %w", resp.StatusCode, domain.ErrModerationUnavailable)
	}

	var out moderationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Results) == 0 {
		return domain.Verdict{}, fmt.Errorf("malformed moderation response: %w", domain.ErrModerationUnavailable)
	}

	r := out.Results[0]
	if !r.Flagged {
		return domain.Verdict{Flagged: false}, nil
	}
	reason := "policy violation"
	for cat, hit := range r.Categories {
		if hit {
			reason = "policy violation: " + cat
			break
		}
	}
	return domain.Verdict{Flagged: true, Reason: reason}, nil
}
