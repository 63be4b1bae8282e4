package questions

import (
	"context"

	"github.com/sha1n/stackfeed/internal/domain"
)

// FakeSource is an in-memory Source for tests. It serves a fixed sequence of
// questions as list pages and records the calls it received. Exported for
// use in integration tests.
type FakeSource struct {
	// Questions are served in slice order, paginated by PageSize.
	Questions []*QuestionDetail

	// PageSize is the list page size; defaults to ListPageSize when zero.
	PageSize int

	// ListErr / DetailErr, when set, fail the matching call. FailAfterLists
	// delays ListErr until that many list calls have succeeded.
	ListErr        error
	DetailErr      error
	FailAfterLists int

	ListCalls   int
	DetailCalls []string
}

// NewFakeSource creates a fake source over the given questions.
func NewFakeSource(questions ...*QuestionDetail) *FakeSource {
	return &FakeSource{Questions: questions}
}

func (f *FakeSource) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return ListPageSize
}

// ListPage serves one page of summaries from the configured questions.
func (f *FakeSource) ListPage(_ context.Context, _ string, _ domain.SortMode, page int) (*ListPage, error) {
	f.ListCalls++
	if f.ListErr != nil && f.ListCalls > f.FailAfterLists {
		return nil, f.ListErr
	}

	size := f.pageSize()
	start := (page - 1) * size
	if start >= len(f.Questions) {
		return &ListPage{}, nil
	}
	end := min(start+size, len(f.Questions))

	result := &ListPage{HasMore: end < len(f.Questions)}
	for _, q := range f.Questions[start:end] {
		result.Items = append(result.Items, ListItem{
			ID:           q.ID,
			Title:        q.Title,
			Link:         q.Link,
			IsAnswered:   q.IsAnswered,
			CreationDate: q.CreationDate,
		})
	}
	return result, nil
}

// Detail serves a configured question by id, or (nil, nil) when unknown.
func (f *FakeSource) Detail(_ context.Context, id string) (*QuestionDetail, error) {
	f.DetailCalls = append(f.DetailCalls, id)
	if f.DetailErr != nil {
		return nil, f.DetailErr
	}
	for _, q := range f.Questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}
