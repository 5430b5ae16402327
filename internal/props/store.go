// Package props implements PropertyStore, the engine's layered,
// lazily-expanded key/value configuration store (spec §3, §4.2), grounded on
// the original SciTE PropSetFile.cxx/.h algorithms.
package props

import (
	"runtime"
	"strconv"
	"strings"
)

// CaseSensitiveFilenames controls MatchWild's case sensitivity. Fixed per
// host platform, mirroring PropSetFile::caseSensitiveFilenames.
var CaseSensitiveFilenames = runtime.GOOS != "windows" && runtime.GOOS != "darwin"

// maxExpands bounds variable substitution to guarantee termination on
// cyclic references (spec §3, §8 invariant 4). See DESIGN.md for why this
// is 200 rather than the original source's 1000.
const maxExpands = 200

// Store is one layer of the PropertyStore chain. A Store with a non-nil
// base behaves as if queries fall through to base on a local miss, the way
// PropSetFile chains through superPS.
type Store struct {
	lowerKeys bool
	base      *Store
	order     []string
	values    map[string]string

	enumIndex int
}

// New creates an unlayered Store. lowerKeys mirrors the constructor flag in
// PropSetFile: when true, every key read via ReadMemory/ReadFile is
// lowercased before storage.
func New(lowerKeys bool) *Store {
	return &Store{lowerKeys: lowerKeys, values: make(map[string]string)}
}

// NewLayered creates a Store that falls through to base on a local miss,
// modelling one link of the embedded-defaults → ... → per-buffer-overlay
// chain described in spec §3.
func NewLayered(base *Store, lowerKeys bool) *Store {
	s := New(lowerKeys)
	s.base = base
	return s
}

func (s *Store) normalizeKey(key string) string {
	if s.lowerKeys {
		return strings.ToLower(key)
	}
	return key
}

// Set assigns value to key at this layer, recording insertion order the
// first time key is seen.
func (s *Store) Set(key, value string) {
	key = s.normalizeKey(key)
	if _, exists := s.values[key]; !exists {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

// SetLine parses a "key=value" line and stores it, mirroring
// PropSetFile::Set(const char *keyval) used by ReadLine. Leading spaces and
// tabs (the indentation of an "if" body) are not part of the key.
func (s *Store) SetLine(line string) {
	line = strings.TrimLeft(line, " \t")
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	s.Set(key, value)
}

// Unset removes key from this layer only.
func (s *Store) Unset(key string) {
	key = s.normalizeKey(key)
	if _, exists := s.values[key]; !exists {
		return
	}
	delete(s.values, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// localGet looks up key at this layer only, without falling through to base.
func (s *Store) localGet(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Get returns the value of key, walking from this layer to the base of the
// chain. Returns "" if absent anywhere in the chain.
func (s *Store) Get(key string) string {
	key = s.normalizeKey(key)
	for layer := s; layer != nil; layer = layer.base {
		if v, ok := layer.localGet(key); ok {
			return v
		}
	}
	return ""
}

// GetInt returns key's value parsed as an integer, or def if absent or not
// a valid integer.
func (s *Store) GetInt(key string, def int) int {
	v := s.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetExpanded returns Get(key) with $(var) references substituted via Get,
// bounded by maxExpands. Self-reference expands to empty.
func (s *Store) GetExpanded(key string) string {
	return s.expand(s.Get(key), key, s.Get)
}

// expand repeatedly substitutes the first $(var) reference found in value
// using lookup, stopping when no references remain or maxExpands is
// exhausted. selfKey, if non-empty, seeds the set of keys already on the
// expansion chain; a reference to any key already in that set (selfKey
// itself, or a key substituted in on an earlier iteration) resolves to
// empty rather than being looked up again, so a cycle of any length
// collapses to empty instead of oscillating for the full iteration budget
// (spec §3, §8 invariant 4).
func (s *Store) expand(value, selfKey string, lookup func(string) string) string {
	seen := make(map[string]bool)
	if selfKey != "" {
		seen[selfKey] = true
	}
	remaining := maxExpands
	for remaining > 0 {
		start := strings.Index(value, "$(")
		if start < 0 {
			break
		}
		end := strings.IndexByte(value[start:], ')')
		if end < 0 {
			break
		}
		end += start
		varName := value[start+2 : end]
		var sub string
		if !seen[varName] {
			seen[varName] = true
			sub = lookup(varName)
		}
		value = value[:start] + sub + value[end+1:]
		remaining--
	}
	return value
}

// First begins enumeration, returning the first key/value pair in
// insertion order at this layer. ok is false if the layer is empty.
func (s *Store) First() (key, value string, ok bool) {
	s.enumIndex = 0
	return s.Next()
}

// Next continues an enumeration started by First.
func (s *Store) Next() (key, value string, ok bool) {
	if s.enumIndex >= len(s.order) {
		return "", "", false
	}
	key = s.order[s.enumIndex]
	value = s.values[key]
	s.enumIndex++
	return key, value, true
}
