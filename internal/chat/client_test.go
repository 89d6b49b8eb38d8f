package chat

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHTTP struct {
	status int
	body   string
	gotURL string
}

func (s *stubHTTP) Do(req *http.Request) (*http.Response, error) {
	s.gotURL = req.URL.String()
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
	}, nil
}

func TestTranscript_FiltersPrivateAndNormalizesRoles(t *testing.T) {
	stub := &stubHTTP{status: 200, body: `[
		{"role": "assistant", "timestamp": "2026-08-15T10:00:00Z", "text": "Hola, le recordamos su cuota."},
		{"role": "user", "timestamp": "2026-08-15T10:05:00Z", "text": "Ya pagué ayer."},
		{"role": "system", "timestamp": "2026-08-15T10:05:01Z", "text": "note: payment flag set", "private": true},
		{"role": "webhook", "timestamp": "2026-08-15T10:06:00Z", "text": "?"}
	]`}
	c := NewClient(Config{BaseURL: "https://chat.example", APIKey: "k"})
	c.SetHTTPClient(stub)

	got, err := c.Transcript(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example/conversations/42/messages", stub.gotURL)
	require.Len(t, got.Messages, 3, "private message filtered")
	assert.Equal(t, RoleBot, got.Messages[0].Role)
	assert.Equal(t, RoleCustomer, got.Messages[1].Role)
	assert.Equal(t, RoleUnknown, got.Messages[2].Role)
	assert.Equal(t, "Ya pagué ayer.", got.Messages[1].Text)
	assert.False(t, got.Messages[0].Timestamp.IsZero())
}

func TestTranscript_ZeroRefRejected(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://chat.example"})

	_, err := c.Transcript(context.Background(), 0)
	assert.Error(t, err)
}

func TestTranscript_NotFound(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://chat.example"})
	c.SetHTTPClient(&stubHTTP{status: 404, body: `{"error":"gone"}`})

	_, err := c.Transcript(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTranscript_ServerError(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://chat.example"})
	c.SetHTTPClient(&stubHTTP{status: 502, body: "bad gateway"})

	_, err := c.Transcript(context.Background(), 99)
	assert.Error(t, err)
}
