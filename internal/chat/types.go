package chat

import "time"

// Message roles as reported by the conversation platform.
const (
	RoleBot      = "bot"
	RoleCustomer = "customer"
	RoleUnknown  = "unknown"
)

// Message is one entry of a conversation transcript.
type Message struct {
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Private   bool      `json:"private"`
}

// Transcript is an ordered conversation for one conversation reference.
type Transcript struct {
	ConversationRef int64     `json:"conversation_ref"`
	Messages        []Message `json:"messages"`
}

// Config holds the conversation-platform connection settings.
type Config struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}
