package questions

import (
	"testing"
	"time"

	"github.com/sha1n/stackfeed/internal/domain"
)

func querySet() []domain.Question {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Question{
		{ID: "1", Category: "go", Score: 5, ViewCount: 100, AnswerCount: 2,
			PubDate: base.AddDate(0, 0, 1), FetchedAt: base.AddDate(0, 1, 0),
			Answers: []domain.Answer{{ID: "a1"}}},
		{ID: "2", Category: "python", Score: 9, ViewCount: 10, AnswerCount: 5,
			PubDate: base.AddDate(0, 0, 3), FetchedAt: base.AddDate(0, 1, 2)},
		{ID: "3", Category: "go", Score: 1, ViewCount: 500, AnswerCount: 1,
			PubDate: base.AddDate(0, 0, 2), FetchedAt: base.AddDate(0, 1, 1),
			Answers: []domain.Answer{{ID: "a3"}}, HasAcceptedAnswer: true},
	}
}

func TestFilterByCategory(t *testing.T) {
	got := FilterByCategory(querySet(), "go")
	if len(got) != 2 {
		t.Fatalf("expected 2 go questions, got %d", len(got))
	}
	for _, q := range got {
		if q.Category != "go" {
			t.Errorf("unexpected category %s", q.Category)
		}
	}

	all := FilterByCategory(querySet(), "")
	if len(all) != 3 {
		t.Errorf("empty category should return everything, got %d", len(all))
	}
}

func TestFilterAnswered(t *testing.T) {
	with := FilterAnswered(querySet(), true)
	if len(with) != 2 {
		t.Errorf("expected 2 answered, got %d", len(with))
	}
	without := FilterAnswered(querySet(), false)
	if len(without) != 1 || without[0].ID != "2" {
		t.Errorf("expected only question 2 unanswered, got %v", without)
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		by   OrderBy
		want []string
	}{
		{OrderByScore, []string{"2", "1", "3"}},
		{OrderByViews, []string{"3", "1", "2"}},
		{OrderByAnswers, []string{"2", "1", "3"}},
		{OrderByDate, []string{"2", "3", "1"}},
		{OrderByFetched, []string{"2", "3", "1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			got := Order(querySet(), tt.by)
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Order(%s)[%d] = %s, want %s", tt.by, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	if _, err := ParseOrderBy("views"); err != nil {
		t.Errorf("ParseOrderBy(views) failed: %v", err)
	}
	if _, err := ParseOrderBy("rank"); err == nil {
		t.Error("expected error for unknown order key")
	}
}

func TestFindByID(t *testing.T) {
	q := FindByID(querySet(), "2")
	if q == nil || q.Category != "python" {
		t.Errorf("FindByID(2) = %v", q)
	}
	if FindByID(querySet(), "99") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestRemoveByIDs(t *testing.T) {
	out, removed := RemoveByIDs(querySet(), map[string]bool{"1": true, "3": true, "99": true})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(out) != 1 || out[0].ID != "2" {
		t.Errorf("unexpected remainder: %v", out)
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(querySet())
	if stats.Total != 3 {
		t.Errorf("Total = %d", stats.Total)
	}
	if stats.WithAnswers != 2 {
		t.Errorf("WithAnswers = %d", stats.WithAnswers)
	}
	if stats.WithAccepted != 1 {
		t.Errorf("WithAccepted = %d", stats.WithAccepted)
	}
	if stats.ByCategory["go"] != 2 || stats.ByCategory["python"] != 1 {
		t.Errorf("ByCategory = %v", stats.ByCategory)
	}
}
