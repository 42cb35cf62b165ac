package parser

import (
	"fmt"
	"sort"
	"sync"

	"fjacquet/statement-csv/internal/models"
)

// Registry maps statement formats to their normalizers.
type Registry struct {
	mu          sync.RWMutex
	normalizers map[models.FormatKind]models.Normalizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{normalizers: make(map[models.FormatKind]models.Normalizer)}
}

// Register adds a normalizer, replacing any previous one for the same format.
func (r *Registry) Register(n models.Normalizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalizers[n.Format()] = n
}

// Get returns the normalizer for a format.
func (r *Registry) Get(kind models.FormatKind) (models.Normalizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.normalizers[kind]
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for format %s", kind)
	}
	return n, nil
}

// Formats lists the registered formats in name order.
func (r *Registry) Formats() []models.FormatKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.FormatKind, 0, len(r.normalizers))
	for k := range r.normalizers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
