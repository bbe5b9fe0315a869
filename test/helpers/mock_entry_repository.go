package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

// MockEntryRepository is a test double for the EntryRepository interface
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[entry.EntryID]*entry.Entry

	// Error injection, returned by the matching method when set
	CreateErr error
	FindErr   error
	ListErr   error
	UpdateErr error
	DeleteErr error

	// Call tracking
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewMockEntryRepository creates a new mock entry repository
func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[entry.EntryID]*entry.Entry),
	}
}

// AddEntry seeds the mock repository
func (m *MockEntryRepository) AddEntry(e *entry.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID()] = e
}

// Get returns a stored entry without going through the port
func (m *MockEntryRepository) Get(id entry.EntryID) (*entry.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}

// Count returns the number of stored entries
func (m *MockEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Create persists a new entry
func (m *MockEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.entries[e.ID()] = e
	return nil
}

// FindByID retrieves an entry by ID
func (m *MockEntryRepository) FindByID(ctx context.Context, id entry.EntryID) (*entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, entry.ErrEntryNotFound
	}
	return e, nil
}

// List retrieves entries newest first
func (m *MockEntryRepository) List(ctx context.Context, opts entry.ListOptions) ([]*entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	result := make([]*entry.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if opts.ID != nil && !e.ID().Equals(*opts.ID) {
			continue
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date().Equal(result[j].Date()) {
			return result[i].ID().String() < result[j].ID().String()
		}
		return result[i].Date().After(result[j].Date())
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return []*entry.Entry{}, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

// Update overwrites an existing entry
func (m *MockEntryRepository) Update(ctx context.Context, e *entry.Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateErr != nil {
		return 0, m.UpdateErr
	}
	if _, ok := m.entries[e.ID()]; !ok {
		return 0, nil
	}
	m.entries[e.ID()] = e
	return 1, nil
}

// Delete removes an entry
func (m *MockEntryRepository) Delete(ctx context.Context, id entry.EntryID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	if _, ok := m.entries[id]; !ok {
		return 0, nil
	}
	delete(m.entries, id)
	return 1, nil
}
