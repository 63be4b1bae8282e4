package questions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sha1n/stackfeed/internal/domain"
)

const (
	// DefaultFetchDelay is the politeness pause between per-item detail
	// fetches against the upstream API.
	DefaultFetchDelay = 100 * time.Millisecond
)

// Ingestor runs the incremental fetch pipeline for one store: page through
// upstream, filter to questions with an accepted answer, dedupe against the
// store, stop at the watermark, normalize, and advance the watermark.
//
// Fetching is strictly sequential with a configurable inter-item delay; the
// pipeline never fans out across items or pages.
type Ingestor struct {
	source     Source
	store      *Store
	watermarks *Watermarks
	categories domain.CategoryTable
	delay      time.Duration
	sleep      func(time.Duration)
	now        func() time.Time
}

// NewIngestor creates an ingestor over the given source and stores.
func NewIngestor(source Source, store *Store, watermarks *Watermarks, categories domain.CategoryTable, delay time.Duration) *Ingestor {
	return &Ingestor{
		source:     source,
		store:      store,
		watermarks: watermarks,
		categories: categories,
		delay:      delay,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// SetClock injects sleep and now functions for testing.
func (ing *Ingestor) SetClock(sleep func(time.Duration), now func() time.Time) {
	ing.sleep = sleep
	ing.now = now
}

// Ingest fetches up to limit new questions for a category, sorted descending
// by the sort mode. It returns the newly fetched, normalized questions; the
// caller is responsible for merging them into the store.
//
// An unknown category fails before any I/O. An upstream failure mid-run
// aborts pagination and returns the questions accumulated so far together
// with the error; the watermark is advanced only over what was emitted.
func (ing *Ingestor) Ingest(ctx context.Context, category string, limit int, sort domain.SortMode) ([]domain.Question, error) {
	tag, err := ing.categories.TagFor(category)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	known, err := ing.store.KnownIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to load known ids: %w", err)
	}

	watermark, hasWatermark := ing.watermarks.Get(category, sort)
	slog.Debug("Starting ingest", "category", category, "tag", tag, "sort", sort, "limit", limit, "watermark", watermark)

	var fetched []domain.Question
	var runErr error

	page := 1
pages:
	for len(fetched) < limit {
		listPage, err := ing.source.ListPage(ctx, tag, sort, page)
		if err != nil {
			slog.Error("Upstream list request failed, aborting run", "category", category, "page", page, "error", err)
			runErr = fmt.Errorf("list page %d: %w", page, err)
			break
		}

		for _, item := range listPage.Items {
			if !item.IsAnswered {
				continue
			}
			// The watermark marks the newest question ingested by a
			// previous run; everything below it in descending order has
			// been seen before.
			if hasWatermark && item.ID == watermark {
				slog.Debug("Reached watermark, stopping", "category", category, "id", item.ID)
				break pages
			}
			if known[item.ID] {
				continue
			}

			detail, err := ing.source.Detail(ctx, item.ID)
			if err != nil {
				slog.Error("Upstream detail request failed, aborting run", "id", item.ID, "error", err)
				runErr = fmt.Errorf("detail %s: %w", item.ID, err)
				break pages
			}
			if detail == nil || !detail.IsAnswered {
				continue
			}

			q, ok := ing.normalize(detail, category)
			if !ok {
				// No accepted answer; a hard filter, not an error.
				continue
			}

			fetched = append(fetched, q)
			slog.Info("Fetched question", "id", q.ID, "category", category, "title", q.Title)

			if len(fetched) >= limit {
				break pages
			}
			ing.sleep(ing.delay)
		}

		if !listPage.HasMore {
			break
		}
		page++
	}

	if len(fetched) > 0 {
		newest := newestID(fetched)
		ing.watermarks.Set(category, sort, newest)
		if err := ing.watermarks.Save(); err != nil {
			slog.Error("Failed to save watermark", "category", category, "error", err)
			if runErr == nil {
				runErr = fmt.Errorf("save watermark: %w", err)
			}
		}
	}

	return fetched, runErr
}

// normalize converts an upstream detail into a stored Question. Returns
// ok=false when the question has no accepted answer.
func (ing *Ingestor) normalize(detail *QuestionDetail, category string) (domain.Question, bool) {
	answers := make([]domain.Answer, 0, len(detail.Answers))
	hasAccepted := false
	for _, a := range detail.Answers {
		if a.IsAccepted {
			hasAccepted = true
		}
		answers = append(answers, domain.Answer{
			ID:           a.ID,
			Body:         CleanBody(DecodeEntities(a.Body)),
			Score:        a.Score,
			IsAccepted:   a.IsAccepted,
			Author:       a.Author,
			CreationDate: a.CreationDate,
		})
	}
	if !hasAccepted {
		return domain.Question{}, false
	}

	domain.SortAnswers(answers)
	title := DecodeEntities(detail.Title)

	return domain.Question{
		ID:                detail.ID,
		Title:             title,
		Description:       title,
		FullBody:          CleanBody(DecodeEntities(detail.Body)),
		Link:              detail.Link,
		Category:          category,
		Score:             detail.Score,
		ViewCount:         detail.ViewCount,
		AnswerCount:       detail.AnswerCount,
		Tags:              detail.Tags,
		Author:            detail.Author,
		PubDate:           detail.CreationDate,
		FetchedAt:         ing.now().UTC(),
		Answers:           answers,
		HasAcceptedAnswer: true,
	}, true
}

// newestID returns the id of the most recently published question in the
// batch. Computed explicitly rather than trusting upstream result order,
// which is only descending by the (volatile) sort key.
func newestID(qs []domain.Question) string {
	newest := qs[0]
	for _, q := range qs[1:] {
		if q.PubDate.After(newest.PubDate) {
			newest = q
		}
	}
	return newest.ID
}
