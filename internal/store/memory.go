package store

import (
	"context"
	"sort"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository used in
// unit tests. Inserts take the write lock for the whole check-and-set, so the
// uniqueness guarantee matches the Postgres store's.
type MemoryStore struct {
	mu     sync.RWMutex
	links  map[shortener.Code]shortener.Link
	clicks map[shortener.Code][]shortener.ClickEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[shortener.Code]shortener.Link),
		clicks: make(map[shortener.Code][]shortener.ClickEvent),
	}
}

func (m *MemoryStore) InsertLink(_ context.Context, link *shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Code]; exists {
		return shortener.ErrCodeTaken
	}

	m.links[link.Code] = *link

	return nil
}

func (m *MemoryStore) GetLink(_ context.Context, code shortener.Code) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) InsertClick(_ context.Context, click *shortener.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks[click.Code] = append(m.clicks[click.Code], *click)

	return nil
}

func (m *MemoryStore) CountClicks(_ context.Context, code shortener.Code) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.clicks[code])), nil
}

func (m *MemoryStore) RecentClicks(
	_ context.Context, code shortener.Code, limit int,
) ([]shortener.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.clicks[code]

	// Events usually arrive in order but the transport does not guarantee it,
	// so order by timestamp like the Postgres store, ties newest insert first.
	recent := make([]shortener.ClickEvent, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		recent = append(recent, all[i])
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})

	if limit < len(recent) {
		recent = recent[:limit]
	}

	return recent, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
