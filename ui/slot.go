package ui

import (
	"sync"

	"novel_tweet_copywriter/generator"
)

// Slot holds the single current result. A successful generation replaces it;
// nothing mutates it in place.
type Slot struct {
	mu    sync.RWMutex
	res   generator.Result
	count int
	ok    bool
}

// Replace stores res as current and returns the generation count.
func (s *Slot) Replace(res generator.Result) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res = res
	s.ok = true
	s.count++
	return s.count
}

// Current implements export.Source.
func (s *Slot) Current() (generator.Result, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res, s.count, s.ok
}

func (s *Slot) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ok
}
