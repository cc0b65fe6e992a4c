package parser

import (
	"sort"
	"sync"

	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/models"
)

// MemoryStore keeps parse results in memory keyed by filename. A new
// result for the same filename replaces the previous one. When maxFiles
// is positive, the oldest result is evicted once the cap is exceeded.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string]*models.ParseResult
	order    []string
	maxFiles int
}

var _ interfaces.ResultStore = (*MemoryStore)(nil)

func NewMemoryStore(maxFiles int) *MemoryStore {
	return &MemoryStore{
		results:  make(map[string]*models.ParseResult),
		maxFiles: maxFiles,
	}
}

func (s *MemoryStore) Put(result *models.ParseResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.Filename]; exists {
		s.removeFromOrder(result.Filename)
	}
	s.results[result.Filename] = result
	s.order = append(s.order, result.Filename)

	if s.maxFiles > 0 && len(s.order) > s.maxFiles {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}
}

func (s *MemoryStore) Get(filename string) (*models.ParseResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[filename]
	return result, ok
}

// List returns summaries sorted by filename.
func (s *MemoryStore) List() []*models.ResultSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]*models.ResultSummary, 0, len(s.results))
	for _, r := range s.results {
		summaries = append(summaries, &models.ResultSummary{
			Filename:       r.Filename,
			FileType:       r.FileType,
			FileSize:       r.FileSize,
			ProcessingTime: r.ProcessingTime,
			DurationMs:     r.DurationMs,
			Statistics:     r.Statistics,
			Error:          r.Error,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Filename < summaries[j].Filename
	})
	return summaries
}

func (s *MemoryStore) Delete(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[filename]; !ok {
		return false
	}
	delete(s.results, filename)
	s.removeFromOrder(filename)
	return true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]*models.ParseResult)
	s.order = nil
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *MemoryStore) removeFromOrder(filename string) {
	for i, name := range s.order {
		if name == filename {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
