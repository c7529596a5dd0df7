// Package warnonce de-duplicates repeated warnings against the same
// key (a missing texture, an unresolvable model, an unknown UV-lock
// combination) so a chunk full of the same broken block state doesn't
// flood the log once per instance.
package warnonce

import (
	"sync"

	"github.com/rs/zerolog"
)

// Set tracks which keys have already fired, scoped to one pipeline run.
type Set struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]bool)}
}

// Warn logs msg at Warn level through log the first time key is seen,
// and is a no-op on subsequent calls with the same key.
func (s *Set) Warn(log zerolog.Logger, key, msg string) {
	s.mu.Lock()
	if s.seen[key] {
		s.mu.Unlock()
		return
	}
	s.seen[key] = true
	s.mu.Unlock()
	log.Warn().Str("key", key).Msg(msg)
}

// Count returns how many distinct keys have fired, used in end-of-run
// summaries.
func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
