package store

import (
	"sync"

	"fjacquet/statement-csv/internal/models"
)

// MockCategoryStore is a mock rules source for testing.
type MockCategoryStore struct {
	Rules          []models.CategoryRule
	LoadRulesError error
}

// LoadRules returns the mock rules.
func (m *MockCategoryStore) LoadRules() ([]models.CategoryRule, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	return m.Rules, nil
}

// MockMerchantStore is an in-memory MerchantStore that counts calls and can
// inject errors.
type MockMerchantStore struct {
	mu       sync.Mutex
	Mappings map[string]string

	GetCalls   int
	PutCalls   int
	FlushCalls int

	PutError   error
	FlushError error
}

// NewMockMerchantStore returns a mock seeded with mappings.
func NewMockMerchantStore(mappings map[string]string) *MockMerchantStore {
	m := &MockMerchantStore{Mappings: make(map[string]string)}
	for k, v := range mappings {
		m.Mappings[k] = v
	}
	return m
}

// Get implements MerchantStore.
func (m *MockMerchantStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	v, ok := m.Mappings[key]
	return v, ok
}

// Put implements MerchantStore.
func (m *MockMerchantStore) Put(key, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutError != nil {
		return m.PutError
	}
	if m.Mappings == nil {
		m.Mappings = make(map[string]string)
	}
	m.Mappings[key] = category
	return nil
}

// Flush implements MerchantStore.
func (m *MockMerchantStore) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlushCalls++
	return m.FlushError
}

// All implements MerchantStore.
func (m *MockMerchantStore) All() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.Mappings))
	for k, v := range m.Mappings {
		out[k] = v
	}
	return out
}

// Len implements MerchantStore.
func (m *MockMerchantStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Mappings)
}
