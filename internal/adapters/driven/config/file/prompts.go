package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/logger"
	"github.com/custodia-labs/vetdesk/internal/parsers/ai"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts_readme.md
var promptsReadme []byte

// builtin is a default prompt and the number of %s verbs an override must keep.
type builtin struct {
	text  string
	verbs int
}

var builtins = map[string]builtin{
	driven.PromptInventorySystem:  {text: ai.DefaultSystemPrompt},
	driven.PromptInventoryExtract: {text: ai.DefaultExtractPrompt, verbs: 1},
}

// PromptStore serves the ai importer's prompts from <name>.txt files that
// clinics may edit. The directory is seeded with the defaults on first Load.
// An override that is empty or has the wrong number of %s verbs is ignored.
type PromptStore struct {
	dir string
	log *zap.SugaredLogger

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore does no I/O. An empty dir means HomeDir/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{
		dir:   dir,
		log:   logger.Named("prompts"),
		cache: make(map[string]string),
	}, nil
}

// Load returns the named prompt. Known prompts never fail: any problem with
// the override falls back to the built-in text.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := builtins[name]

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return def.text, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	text, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}

	text, err := s.read(name)
	switch {
	case !known && err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case !known && text == "":
		return "", fmt.Errorf("load prompt %q: file is empty", name)
	case err != nil || text == "":
		text = def.text
	case strings.Count(text, "%s") != def.verbs:
		s.log.Warnw("ignoring prompt override", "prompt", name, "file", s.path(name), "want_verbs", def.verbs)
		text = def.text
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = text
	return text, nil
}

// Reload forgets cached prompts so edits on disk are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir is the directory holding the prompt files.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// seed creates the directory and writes any missing default file.
// Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string][]byte{"README.md": promptsReadme}
	for name, b := range builtins {
		files[name+".txt"] = []byte(b.text)
	}
	for file, content := range files {
		path := filepath.Join(s.dir, file)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, content, 0600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", file, err)
			return
		}
	}
}
