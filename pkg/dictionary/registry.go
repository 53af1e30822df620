package dictionary

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Code-Monger/SpellWright/pkg/spellengine"
)

// Config carries the settings a Registry applies to every dictionary it
// creates.
type Config struct {
	// Folders are searched in order for <tag>.aff / <tag>.dic pairs.
	Folders []string
	// WordDir holds the per-tag user word list files.
	WordDir string
	// RecognizedWords are merged into every dictionary's recognized set.
	RecognizedWords []string
	// Mnemonic is the accelerator marker stripped before checking (0 = off).
	Mnemonic rune
	// PoolSize is the number of pooled engine workers per language (<=1
	// means a single unpooled engine).
	PoolSize int
	// ResyncWait bounds the pooled runtime-word resync.
	ResyncWait time.Duration
	// CanWrite decides whether a word file may be rewritten; nil means
	// always writable.
	CanWrite func(path string) bool
}

// Registry keeps exactly one GlobalDictionary per language tag. Engines are
// expensive to load, so every document configured for a tag shares the one
// instance. The registry has an explicit lifetime: construct it at session
// start, Close it when the session context changes.
type Registry struct {
	cfg Config

	mu     sync.Mutex
	dicts  map[string]*GlobalDictionary
	closed bool
}

// NewRegistry returns an empty registry with the given configuration.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:   cfg,
		dicts: make(map[string]*GlobalDictionary),
	}
}

// Get returns the dictionary for a language tag, creating it on first use.
// A tag with no available dictionary files falls back to the bundled
// default language; the returned dictionary then reports Degraded.
func (r *Registry) Get(tag string) (*GlobalDictionary, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = spellengine.DefaultLanguage
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("dictionary registry is closed")
	}
	if d, ok := r.dicts[tag]; ok {
		return d, nil
	}

	engine, degraded, err := r.openEngine(tag)
	if err != nil {
		return nil, fmt.Errorf("opening engine for %s: %w", tag, err)
	}

	d, err := newGlobalDictionary(tag, r.cfg.WordDir, r.cfg.Mnemonic, r.cfg.CanWrite, engine, degraded)
	if err != nil {
		engine.Close()
		return nil, err
	}
	d.AddRecognizedWords(r.cfg.RecognizedWords)
	r.dicts[tag] = d
	log.Printf("[Dictionary] Loaded dictionary for %s (degraded=%v)", tag, degraded)
	return d, nil
}

func (r *Registry) openEngine(tag string) (spellengine.Engine, bool, error) {
	if r.cfg.PoolSize <= 1 {
		return spellengine.Open(tag, r.cfg.Folders)
	}

	degraded := false
	pool, err := spellengine.NewPool(r.cfg.PoolSize, r.cfg.ResyncWait, func() (spellengine.Engine, error) {
		eng, d, err := spellengine.Open(tag, r.cfg.Folders)
		if d {
			degraded = true
		}
		return eng, err
	})
	if err != nil {
		return nil, false, err
	}
	return pool, degraded, nil
}

// Tags returns the language tags currently loaded.
func (r *Registry) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.dicts))
	for tag := range r.dicts {
		out = append(out, tag)
	}
	return out
}

// Close disposes every dictionary and marks the registry unusable. Invoked
// when the enclosing session context changes, since folders and recognized
// words may differ in the next one.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var first error
	for tag, d := range r.dicts {
		if err := d.Close(); err != nil {
			log.Printf("[Dictionary] Error closing dictionary %s: %v", tag, err)
			if first == nil {
				first = err
			}
		}
	}
	r.dicts = nil
	return first
}
