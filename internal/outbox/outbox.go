package outbox

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"

	"github.com/i474232898/weather-bot/internal/bot"
)

// Message is an outbound chat message waiting to be delivered.
type Message struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Reply     bot.Reply `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(chatID int64, reply bot.Reply) Message {
	return Message{
		ID:        ulid.Make().String(),
		ChatID:    chatID,
		Reply:     reply,
		CreatedAt: time.Now().UTC(),
	}
}

// Memory queues messages per chat until a client drains them.
type Memory struct {
	mu     sync.Mutex
	queues map[int64][]Message
	// maxPerChat bounds each queue; the oldest messages are dropped first.
	maxPerChat int
}

// NewMemory creates an in-memory outbox. If maxPerChat is <= 0, queues are unbounded.
func NewMemory(maxPerChat int) *Memory {
	return &Memory{
		queues:     make(map[int64][]Message),
		maxPerChat: maxPerChat,
	}
}

// Send queues reply for chatID.
func (m *Memory) Send(_ context.Context, chatID int64, reply bot.Reply) error {
	msg := newMessage(chatID, reply)

	m.mu.Lock()
	defer m.mu.Unlock()

	q := append(m.queues[chatID], msg)
	if m.maxPerChat > 0 && len(q) > m.maxPerChat {
		q = q[len(q)-m.maxPerChat:]
	}
	m.queues[chatID] = q
	return nil
}

// Drain removes and returns every queued message for a chat, oldest first.
func (m *Memory) Drain(chatID int64) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queues[chatID]
	delete(m.queues, chatID)
	return q
}

// Webhook delivers each message as a JSON POST to a fixed URL.
type Webhook struct {
	client *http.Client
	url    string
}

// NewWebhook creates a sender posting to url. A nil client uses http.DefaultClient.
func NewWebhook(client *http.Client, url string) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{client: client, url: url}
}

// Send posts reply for chatID and fails on any non-2xx response.
func (w *Webhook) Send(ctx context.Context, chatID int64, reply bot.Reply) error {
	body, err := json.Marshal(newMessage(chatID, reply))
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
