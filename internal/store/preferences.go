package store

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Keys used in the key-value store.
const (
	KeySearchHistory = "searchHistory"
	KeyLastCity      = "lastCity"
	KeyDarkMode      = "darkMode"
)

// DefaultHistoryLimit bounds the search history.
const DefaultHistoryLimit = 5

// KeyValue is a flat string store, the shape of browser local storage.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryKV is an in-memory KeyValue.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Snapshot is the persisted dashboard state.
type Snapshot struct {
	LastCity string   `json:"lastCity"`
	History  []string `json:"history"`
	DarkMode bool     `json:"darkMode"`
}

// Preferences keeps the last city, search history and theme flag.
type Preferences struct {
	mu    sync.Mutex
	kv    KeyValue
	limit int
}

// NewPreferences stores preferences in kv. A limit <= 0 uses DefaultHistoryLimit.
// initial seeds the history when kv has none.
func NewPreferences(kv KeyValue, limit int, initial ...string) *Preferences {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	p := &Preferences{kv: kv, limit: limit}
	if _, ok := kv.Get(KeySearchHistory); !ok && len(initial) > 0 {
		p.writeHistory(initial)
	}
	return p
}

// RecordSearch puts city at the front of the history, removing any
// case-insensitive duplicate and trimming to the limit.
func (p *Preferences) RecordSearch(city string) {
	city = strings.TrimSpace(city)
	if city == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	updated := []string{city}
	for _, item := range p.readHistory() {
		if !strings.EqualFold(item, city) {
			updated = append(updated, item)
		}
	}
	if len(updated) > p.limit {
		updated = updated[:p.limit]
	}
	p.writeHistory(updated)
	p.kv.Set(KeyLastCity, city)
}

// History returns the search history, most recent first.
func (p *Preferences) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readHistory()
}

// ClearHistory empties the search history.
func (p *Preferences) ClearHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kv.Delete(KeySearchHistory)
}

// LastCity returns the most recently searched city.
func (p *Preferences) LastCity() string {
	v, _ := p.kv.Get(KeyLastCity)
	return v
}

// DarkMode reports the theme flag.
func (p *Preferences) DarkMode() bool {
	v, _ := p.kv.Get(KeyDarkMode)
	return v == "true"
}

// SetDarkMode stores the theme flag.
func (p *Preferences) SetDarkMode(dark bool) {
	if dark {
		p.kv.Set(KeyDarkMode, "true")
		return
	}
	p.kv.Set(KeyDarkMode, "false")
}

// ToggleDarkMode flips the theme flag and returns the new value.
func (p *Preferences) ToggleDarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	dark := !p.DarkMode()
	p.SetDarkMode(dark)
	return dark
}

// Snapshot returns all persisted values.
func (p *Preferences) Snapshot() Snapshot {
	return Snapshot{
		LastCity: p.LastCity(),
		History:  p.History(),
		DarkMode: p.DarkMode(),
	}
}

func (p *Preferences) readHistory() []string {
	raw, ok := p.kv.Get(KeySearchHistory)
	if !ok || raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

func (p *Preferences) writeHistory(items []string) {
	b, err := json.Marshal(items)
	if err != nil {
		return
	}
	p.kv.Set(KeySearchHistory, string(b))
}

var _ weather.History = (*Preferences)(nil)
