package questions

import (
	"fmt"
	"sort"

	"github.com/sha1n/stackfeed/internal/domain"
)

// OrderBy selects a descending sort key for listing stored questions.
type OrderBy string

const (
	OrderByScore   OrderBy = "score"
	OrderByViews   OrderBy = "views"
	OrderByAnswers OrderBy = "answers"
	OrderByDate    OrderBy = "date"
	OrderByFetched OrderBy = "fetched"
)

// ParseOrderBy validates an order key string.
func ParseOrderBy(s string) (OrderBy, error) {
	switch OrderBy(s) {
	case OrderByScore, OrderByViews, OrderByAnswers, OrderByDate, OrderByFetched:
		return OrderBy(s), nil
	default:
		return "", fmt.Errorf("order must be one of score, views, answers, date, fetched, got: %s", s)
	}
}

// FilterByCategory returns the questions in the given category.
// An empty category returns the input unchanged.
func FilterByCategory(qs []domain.Question, category string) []domain.Question {
	if category == "" {
		return qs
	}
	var out []domain.Question
	for _, q := range qs {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// FilterAnswered returns questions with (answered=true) or without
// (answered=false) at least one answer.
func FilterAnswered(qs []domain.Question, answered bool) []domain.Question {
	var out []domain.Question
	for _, q := range qs {
		if (len(q.Answers) > 0) == answered {
			out = append(out, q)
		}
	}
	return out
}

// Order sorts questions descending by the given key. The input slice is
// sorted in place and returned.
func Order(qs []domain.Question, by OrderBy) []domain.Question {
	sort.SliceStable(qs, func(i, j int) bool {
		switch by {
		case OrderByScore:
			return qs[i].Score > qs[j].Score
		case OrderByViews:
			return qs[i].ViewCount > qs[j].ViewCount
		case OrderByAnswers:
			return qs[i].AnswerCount > qs[j].AnswerCount
		case OrderByDate:
			return qs[i].PubDate.After(qs[j].PubDate)
		default:
			return qs[i].FetchedAt.After(qs[j].FetchedAt)
		}
	})
	return qs
}

// FindByID returns the question with the given id, or nil.
func FindByID(qs []domain.Question, id string) *domain.Question {
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i]
		}
	}
	return nil
}

// RemoveByIDs returns the questions whose ids are not in the given set,
// along with the number removed.
func RemoveByIDs(qs []domain.Question, ids map[string]bool) ([]domain.Question, int) {
	out := make([]domain.Question, 0, len(qs))
	removed := 0
	for _, q := range qs {
		if ids[q.ID] {
			removed++
			continue
		}
		out = append(out, q)
	}
	return out, removed
}

// Stats summarizes a stored collection.
type Stats struct {
	Total        int
	WithAnswers  int
	WithAccepted int
	ByCategory   map[string]int
}

// Summarize computes collection statistics.
func Summarize(qs []domain.Question) Stats {
	stats := Stats{ByCategory: make(map[string]int)}
	for _, q := range qs {
		stats.Total++
		if len(q.Answers) > 0 {
			stats.WithAnswers++
		}
		if q.HasAcceptedAnswer {
			stats.WithAccepted++
		}
		stats.ByCategory[q.Category]++
	}
	return stats
}
