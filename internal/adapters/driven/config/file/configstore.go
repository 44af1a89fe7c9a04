package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is config.toml under the vetdesk home. Keys are flattened to
// dot notation on load ("[llm] provider" becomes "llm.provider") and nested
// back into tables on every write.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens configDir/config.toml, creating configDir if needed.
// An empty configDir means HomeDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		configDir = home
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value stored under a dot-notation key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// Set stores one value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	return s.SetMany(map[string]any{key: value})
}

// SetMany stores values and rewrites the file once. On a write failure the
// in-memory values are rolled back so they keep matching the file.
func (s *ConfigStore) SetMany(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := maps.Clone(s.data)
	maps.Copy(s.data, values)
	if err := s.write(); err != nil {
		s.data = prev
		return err
	}
	return nil
}

// Unset removes a value and rewrites the file.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.data[key]
	if !ok {
		return nil
	}
	delete(s.data, key)
	if err := s.write(); err != nil {
		s.data[key] = val
		return err
	}
	return nil
}

// write encodes data as nested TOML tables. Callers hold mu.
// The file holds API keys and OAuth tokens, hence 0600.
func (s *ConfigStore) write() error {
	out, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.filePath, err)
	}
	return os.WriteFile(s.filePath, out, 0600)
}

// load reads the file; a missing file is an empty config.
func (s *ConfigStore) load() error {
	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	s.data = flattenMap(tree, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flattenMap turns nested tables into dot-notation keys under prefix.
func flattenMap(tree map[string]any, prefix string) map[string]any {
	flat := make(map[string]any, len(tree))
	for name, value := range tree {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if table, ok := value.(map[string]any); ok {
			maps.Copy(flat, flattenMap(table, key))
			continue
		}
		flat[key] = value
	}
	return flat
}

// nestMap is the inverse of flattenMap. A key that is both a value and a
// table prefix keeps the value and drops the table.
func nestMap(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := root
		ok := true
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			next, isMap := child.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			node = next
		}
		if ok {
			node[parts[len(parts)-1]] = value
		}
	}
	return root
}
