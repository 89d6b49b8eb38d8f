// Package chat is the boundary client for the third-party conversation
// platform. The metrics core never calls it — response status only ever
// reads conversation_ref from the ledger — but staff browse transcripts
// per responder, and that traffic proxies through here.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ignite/collections-monitor/internal/pkg/httpretry"
)

// Client is the conversation-platform API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a conversation-platform client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: 30 * time.Second,
		}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// wireMessage is the platform's message shape; timestamps arrive as ISO
// strings and roles as free text normalized below.
type wireMessage struct {
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Private   bool   `json:"private"`
}

// Transcript fetches the ordered message sequence for one conversation.
// System/private messages are filtered out: staff reviewing a customer
// exchange should see the exchange, not bot bookkeeping.
func (c *Client) Transcript(ctx context.Context, conversationRef int64) (*Transcript, error) {
	if conversationRef == 0 {
		return nil, fmt.Errorf("no conversation for reference 0")
	}

	url := fmt.Sprintf("%s/conversations/%d/messages", c.baseURL, conversationRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("conversation %d not found", conversationRef)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat platform returned %d: %s", resp.StatusCode, body)
	}

	var wire []wireMessage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	t := &Transcript{ConversationRef: conversationRef}
	for _, m := range wire {
		if m.Private {
			continue
		}
		t.Messages = append(t.Messages, Message{
			Role:      normalizeRole(m.Role),
			Timestamp: parseTimestamp(m.Timestamp),
			Text:      m.Text,
		})
	}
	return t, nil
}

func normalizeRole(role string) string {
	switch role {
	case RoleBot, "assistant", "system":
		return RoleBot
	case RoleCustomer, "user", "client":
		return RoleCustomer
	}
	return RoleUnknown
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
