package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// MerchantStore is the learned description to category memory.
type MerchantStore interface {
	// Get returns the category stored for an exact normalized key.
	Get(key string) (string, bool)
	// Put records a mapping. Implementations may defer persistence to Flush.
	Put(key, category string) error
	// Flush persists every pending mapping.
	Flush() error
	// All returns a copy of the current mappings.
	All() map[string]string
	Len() int
}

// NormalizeKey is the merchant map key for a description: case-folded with
// whitespace trimmed and collapsed.
func NormalizeKey(description string) string {
	return cases.Fold().String(strings.Join(strings.Fields(description), " "))
}

// YAMLMerchantStore keeps the merchant map in memory and writes the whole
// file on Flush. Keys are written in sorted order.
type YAMLMerchantStore struct {
	mu     sync.RWMutex
	path   string
	data   map[string]string
	dirty  bool
	logger logging.Logger
}

// OpenMerchantStore loads path into memory. A missing file starts an empty
// map; an unreadable or malformed file is a MappingStoreError.
func OpenMerchantStore(path string, logger logging.Logger) (*YAMLMerchantStore, error) {
	s := &YAMLMerchantStore{
		path:   path,
		data:   make(map[string]string),
		logger: logging.OrDefault(logger),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("Merchant map not found, starting empty",
				logging.Field{Key: logging.FieldFile, Value: path})
			return s, nil
		}
		return nil, &parsererror.MappingStoreError{Path: path, Op: "read", Err: err}
	}

	mappings, err := decodeMerchants(raw)
	if err != nil {
		return nil, &parsererror.MappingStoreError{Path: path, Op: "parse", Err: err}
	}
	for k, v := range mappings {
		if key := NormalizeKey(k); key != "" && strings.TrimSpace(v) != "" {
			s.data[key] = strings.TrimSpace(v)
		}
	}

	s.logger.Debug("Loaded merchant map",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(s.data)})
	return s, nil
}

// decodeMerchants accepts a "merchants:" document or a bare mapping.
func decodeMerchants(raw []byte) (map[string]string, error) {
	var wrapped models.MerchantsConfig
	if err := yaml.Unmarshal(raw, &wrapped); err == nil && wrapped.Merchants != nil {
		return wrapped.Merchants, nil
	}
	var bare map[string]string
	if err := yaml.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// Path returns the backing file.
func (s *YAMLMerchantStore) Path() string {
	return s.path
}

// Get implements MerchantStore.
func (s *YAMLMerchantStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Put implements MerchantStore.
func (s *YAMLMerchantStore) Put(key, category string) error {
	if key == "" || category == "" {
		return fmt.Errorf("merchant mapping needs a key and a category")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[key] != category {
		s.data[key] = category
		s.dirty = true
	}
	return nil
}

// All implements MerchantStore.
func (s *YAMLMerchantStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Len implements MerchantStore.
func (s *YAMLMerchantStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the keys in sorted order.
func (s *YAMLMerchantStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flush writes the map to a temporary file next to the target and renames it
// into place. Nothing is written when no mapping changed.
func (s *YAMLMerchantStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	out, err := yaml.Marshal(models.MerchantsConfig{Merchants: s.data})
	if err != nil {
		return &parsererror.MappingStoreError{Path: s.path, Op: "encode", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return &parsererror.MappingStoreError{Path: s.path, Op: "write", Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".merchants-*.yaml")
	if err != nil {
		return &parsererror.MappingStoreError{Path: s.path, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &parsererror.MappingStoreError{Path: s.path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &parsererror.MappingStoreError{Path: s.path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &parsererror.MappingStoreError{Path: s.path, Op: "write", Err: err}
	}

	s.dirty = false
	s.logger.Debug("Flushed merchant map",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.data)})
	return nil
}
