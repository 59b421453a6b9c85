package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when a chat has no stored value.
	ErrNotFound = errors.New("no stored value for chat")
)

// Subscription is a daily delivery time ("HH:MM") for a chat.
type Subscription struct {
	ChatID int64  `json:"chatId"`
	Time   string `json:"time"`
}

// profile holds everything remembered about one chat.
type profile struct {
	defaultCity string
	cities      []string
	subTime     string
}

// MemoryStore is a concurrency-safe in-memory implementation of a chat profile store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: chat id
	data map[int64]*profile
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[int64]*profile),
	}
}

// profileLocked returns the chat's profile, creating it. Callers hold the write lock.
func (s *MemoryStore) profileLocked(chatID int64) *profile {
	p, ok := s.data[chatID]
	if !ok {
		p = &profile{}
		s.data[chatID] = p
	}
	return p
}

// DefaultCity returns the chat's default city or ErrNotFound.
func (s *MemoryStore) DefaultCity(_ context.Context, chatID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[chatID]
	if !ok || p.defaultCity == "" {
		return "", ErrNotFound
	}
	return p.defaultCity, nil
}

// SetDefaultCity sets or replaces the chat's default city.
func (s *MemoryStore) SetDefaultCity(_ context.Context, chatID int64, city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profileLocked(chatID).defaultCity = city
	return nil
}

// AddCity appends a city to the chat's list; adding a known city is a no-op.
func (s *MemoryStore) AddCity(_ context.Context, chatID int64, city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(chatID)
	for _, c := range p.cities {
		if c == city {
			return nil
		}
	}
	p.cities = append(p.cities, city)
	return nil
}

// Cities returns the saved cities in insertion order.
func (s *MemoryStore) Cities(_ context.Context, chatID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[chatID]
	if !ok {
		return nil, nil
	}
	out := make([]string, len(p.cities))
	copy(out, p.cities)
	return out, nil
}

// SetSubscription sets the daily delivery time (HH:MM) for a chat.
func (s *MemoryStore) SetSubscription(_ context.Context, chatID int64, hhmm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profileLocked(chatID).subTime = hhmm
	return nil
}

// Subscription returns the chat's delivery time or ErrNotFound.
func (s *MemoryStore) Subscription(_ context.Context, chatID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[chatID]
	if !ok || p.subTime == "" {
		return "", ErrNotFound
	}
	return p.subTime, nil
}

// DeleteSubscription cancels the chat's daily delivery.
func (s *MemoryStore) DeleteSubscription(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.data[chatID]; ok {
		p.subTime = ""
	}
	return nil
}

// Subscriptions returns every active subscription ordered by chat id.
func (s *MemoryStore) Subscriptions(_ context.Context) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Subscription
	for id, p := range s.data {
		if p.subTime != "" {
			result = append(result, Subscription{ChatID: id, Time: p.subTime})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChatID < result[j].ChatID })
	return result, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
