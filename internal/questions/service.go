package questions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/sha1n/stackfeed/internal/config"
	"github.com/sha1n/stackfeed/internal/domain"
)

const (
	// LockFilename is the name of the store mutation lock file
	LockFilename = "ingest.lock"
)

// Service coordinates ingestion, persistence, indexing and search over one
// data directory. All store mutations run under a cross-process file lock,
// serializing the load-all/save-all cycles that would otherwise race when
// two ingests run concurrently.
type Service struct {
	settings   *config.IngestSettings
	source     Source
	store      *Store
	indexer    *Indexer
	lock       *FileLock
	categories domain.CategoryTable
}

// IngestResult reports the outcome of one ingestion run.
type IngestResult struct {
	Added []domain.Question
	Total int
}

// NewService creates a service rooted at the settings' data directory.
func NewService(settings *config.IngestSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	if err := os.MkdirAll(settings.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	categories := domain.CategoryTable(settings.Categories)
	if len(categories) == 0 {
		categories = domain.DefaultCategoryTags
	}

	return &Service{
		settings:   settings,
		source:     NewStackClientForSite(settings.Site),
		store:      NewStore(filepath.Join(settings.DataDir, StoreFilename)),
		indexer:    NewIndexer(settings.DataDir),
		lock:       NewFileLock(filepath.Join(settings.DataDir, LockFilename)),
		categories: categories,
	}, nil
}

// SetSource injects a custom upstream source for testing.
func (s *Service) SetSource(source Source) {
	s.source = source
}

// Categories returns the active category table.
func (s *Service) Categories() domain.CategoryTable {
	return s.categories
}

// Ingest runs the pipeline for one category and merges the result into the
// store. Partial results from a failed run are still persisted; the error is
// returned alongside them.
func (s *Service) Ingest(ctx context.Context, category string, limit int, sort domain.SortMode) (*IngestResult, error) {
	// Validate before taking the lock or touching any store.
	if _, err := s.categories.TagFor(category); err != nil {
		return nil, err
	}

	if err := s.lock.Lock(s.settings.LockTimeout); err != nil {
		return nil, fmt.Errorf("failed to acquire ingest lock: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			slog.Error("Failed to release ingest lock", "error", err)
		}
	}()

	// Watermarks are loaded under the lock so concurrent processes always
	// observe each other's completed runs.
	watermarks := LoadWatermarks(filepath.Join(s.settings.DataDir, WatermarkFilename))
	ingestor := NewIngestor(s.source, s.store, watermarks, s.categories, s.settings.FetchDelay)

	added, runErr := ingestor.Ingest(ctx, category, limit, sort)

	existing, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}
	all := append(existing, added...)

	if len(added) > 0 {
		if err := s.store.SaveAll(all); err != nil {
			return nil, fmt.Errorf("failed to persist questions: %w", err)
		}
		if _, err := s.indexer.IndexQuestions(added); err != nil {
			slog.Error("Failed to index new questions", "error", err)
		}
	}

	slog.Info("Ingest complete", "category", category, "sort", sort, "added", len(added), "total", len(all))
	return &IngestResult{Added: added, Total: len(all)}, runErr
}

// ListOptions filters and orders a store listing.
type ListOptions struct {
	Category string
	Answered *bool
	OrderBy  OrderBy
}

// Questions returns the stored questions, filtered and ordered.
func (s *Service) Questions(opts ListOptions) ([]domain.Question, error) {
	qs, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}

	qs = FilterByCategory(qs, opts.Category)
	if opts.Answered != nil {
		qs = FilterAnswered(qs, *opts.Answered)
	}
	if opts.OrderBy == "" {
		opts.OrderBy = OrderByFetched
	}
	return Order(qs, opts.OrderBy), nil
}

// Question returns a single question by id, or nil when absent.
func (s *Service) Question(id string) (*domain.Question, error) {
	qs, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}
	return FindByID(qs, id), nil
}

// Delete removes questions by id from the store and the index.
// Returns the number actually removed.
func (s *Service) Delete(ids []string) (int, error) {
	if err := s.lock.Lock(s.settings.LockTimeout); err != nil {
		return 0, fmt.Errorf("failed to acquire ingest lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	qs, err := s.store.LoadAll()
	if err != nil {
		return 0, err
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	remaining, removed := RemoveByIDs(qs, idSet)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.SaveAll(remaining); err != nil {
		return 0, fmt.Errorf("failed to persist questions: %w", err)
	}
	if err := s.indexer.DeleteQuestions(ids); err != nil {
		slog.Error("Failed to delete questions from index", "error", err)
	}
	return removed, nil
}

// Stats summarizes the stored collection.
func (s *Service) Stats() (Stats, error) {
	qs, err := s.store.LoadAll()
	if err != nil {
		return Stats{}, err
	}
	return Summarize(qs), nil
}

// Reindex rebuilds the search index from the store.
func (s *Service) Reindex() (int, error) {
	qs, err := s.store.LoadAll()
	if err != nil {
		return 0, err
	}
	return s.indexer.Rebuild(qs)
}

// SearchHit is one full-text search result.
type SearchHit struct {
	ID        string
	Title     string
	Category  string
	Score     float64
	Fragments []string
}

// SearchResults is a page of search hits.
type SearchResults struct {
	Total uint64
	Hits  []SearchHit
}

// Search runs a full-text query over the index, optionally filtered by
// category. Code spans rank above prose matches.
func (s *Service) Search(queryStr, category string, maxResults int) (result *SearchResults, err error) {
	if !s.indexer.Exists() {
		return &SearchResults{}, nil
	}

	index, err := s.indexer.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if maxResults <= 0 {
		maxResults = s.settings.MaxResults
	}

	req := bleve.NewSearchRequest(buildSearchQuery(queryStr, category))
	req.Size = maxResults
	req.Fields = []string{domain.QuestionFieldTitle, domain.QuestionFieldCategory}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField(domain.QuestionFieldBody)

	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result = &SearchResults{Total: res.Total}
	for _, hit := range res.Hits {
		sh := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields[domain.QuestionFieldTitle].(string); ok {
			sh.Title = v
		}
		if v, ok := hit.Fields[domain.QuestionFieldCategory].(string); ok {
			sh.Category = v
		}
		sh.Fragments = hit.Fragments[domain.QuestionFieldBody]
		result.Hits = append(result.Hits, sh)
	}
	return result, nil
}

// buildSearchQuery constructs the Bleve query: title and code matches are
// boosted over body matches, with an optional category term filter.
func buildSearchQuery(queryStr, category string) query.Query {
	titleQuery := bleve.NewMatchQuery(queryStr)
	titleQuery.SetField(domain.QuestionFieldTitle)
	titleQuery.SetBoost(3.0)

	bodyQuery := bleve.NewMatchQuery(queryStr)
	bodyQuery.SetField(domain.QuestionFieldBody)

	codeQuery := bleve.NewMatchQuery(queryStr)
	codeQuery.SetField(domain.QuestionFieldCode)
	codeQuery.SetBoost(5.0)

	searchQuery := bleve.NewDisjunctionQuery(titleQuery, bodyQuery, codeQuery)

	if category == "" {
		return searchQuery
	}

	categoryQuery := bleve.NewTermQuery(category)
	categoryQuery.SetField(domain.QuestionFieldCategory)
	return bleve.NewConjunctionQuery(searchQuery, categoryQuery)
}
