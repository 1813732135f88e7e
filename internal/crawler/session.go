package crawler

import (
	"sync"

	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// Session owns the mutable state shared across one crawl run: the visited-URL
// set and the run-level counters. It is passed explicitly to every site crawl
// and is safe for concurrent workers.
type Session struct {
	mu      sync.Mutex
	visited map[string]struct{}
	stats   domain.CrawlStats
}

func NewSession() *Session {
	return &Session{visited: make(map[string]struct{})}
}

// Visit marks a URL as seen and reports whether this was the first visit.
// A false return means the URL was already processed in this run.
func (s *Session) Visit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.visited[url]; seen {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

func (s *Session) MarkFound() {
	s.mu.Lock()
	s.stats.RecipesFound++
	s.mu.Unlock()
}

func (s *Session) MarkNew() {
	s.mu.Lock()
	s.stats.RecipesNew++
	s.mu.Unlock()
}

func (s *Session) MarkUpdated() {
	s.mu.Lock()
	s.stats.RecipesUpdated++
	s.mu.Unlock()
}

func (s *Session) RecordError(e domain.CrawlError) {
	s.mu.Lock()
	s.stats.Errors = append(s.stats.Errors, e)
	s.mu.Unlock()
}

// Stats returns a snapshot of the run-level counters.
func (s *Session) Stats() domain.CrawlStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.stats
	snapshot.Errors = append([]domain.CrawlError(nil), s.stats.Errors...)
	return snapshot
}
