package store

import (
	"context"
	"sync"
	"time"

	"github.com/hmendes/linkly/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// It is non-durable: contents are lost on process restart.
type MemoryStore struct {
	mu     sync.RWMutex
	links  []*shortener.Link          // insertion order, oldest first
	byCode map[shortener.Code]*shortener.Link
	nextID int64
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCode: make(map[shortener.Code]*shortener.Link),
		nextID: 1,
	}
}

func (m *MemoryStore) Create(
	_ context.Context, originalURL string, code shortener.Code, owner string,
) (*shortener.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCode[code]; ok {
		return nil, shortener.ErrCodeTaken
	}

	link := &shortener.Link{
		ID:          m.nextID,
		OriginalURL: originalURL,
		Code:        code,
		CreatedAt:   time.Now(),
		OwnerEmail:  owner,
	}
	m.nextID++

	m.links = append(m.links, link)
	m.byCode[code] = link

	cp := *link

	return &cp, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	cp := *link

	return &cp, nil
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byCode[code]

	return ok, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, owner string, limit int) ([]*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*shortener.Link, 0, limit)

	// Walk from newest to oldest.
	for i := len(m.links) - 1; i >= 0 && len(links) < limit; i-- {
		if m.links[i].OwnerEmail != owner {
			continue
		}

		cp := *m.links[i]
		links = append(links, &cp)
	}

	return links, nil
}

func (m *MemoryStore) IncrementClicks(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Missing codes are a silent no-op: the link may have been deleted
	// between lookup and increment.
	if link, ok := m.byCode[code]; ok {
		link.Clicks++
	}

	return nil
}

func (m *MemoryStore) DeleteByOwner(_ context.Context, owner string, code shortener.Code) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.byCode[code]
	if !ok || link.OwnerEmail != owner {
		return false, nil
	}

	delete(m.byCode, code)

	for i, l := range m.links {
		if l.Code == code {
			m.links = append(m.links[:i], m.links[i+1:]...)

			break
		}
	}

	return true, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
