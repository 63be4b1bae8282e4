package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSortAnswers_AcceptedFirst(t *testing.T) {
	answers := []Answer{
		{ID: "1", Score: 10},
		{ID: "2", Score: 3, IsAccepted: true},
		{ID: "3", Score: 7},
	}

	SortAnswers(answers)

	if !answers[0].IsAccepted {
		t.Errorf("first answer should be accepted, got id %s", answers[0].ID)
	}
	if answers[1].ID != "1" || answers[2].ID != "3" {
		t.Errorf("remaining answers should be by descending score, got %s, %s", answers[1].ID, answers[2].ID)
	}
}

func TestSortAnswers_ByScoreWithoutAccepted(t *testing.T) {
	answers := []Answer{
		{ID: "1", Score: 1},
		{ID: "2", Score: 9},
		{ID: "3", Score: 5},
	}

	SortAnswers(answers)

	want := []string{"2", "3", "1"}
	for i, id := range want {
		if answers[i].ID != id {
			t.Errorf("answers[%d].ID = %s, want %s", i, answers[i].ID, id)
		}
	}
}

func TestSortAnswers_StableOnEqualScore(t *testing.T) {
	answers := []Answer{
		{ID: "a", Score: 5},
		{ID: "b", Score: 5},
		{ID: "c", Score: 5},
	}

	SortAnswers(answers)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if answers[i].ID != id {
			t.Errorf("answers[%d].ID = %s, want %s", i, answers[i].ID, id)
		}
	}
}

func TestAcceptedAnswer(t *testing.T) {
	q := Question{
		Answers: []Answer{
			{ID: "1", Score: 4},
			{ID: "2", Score: 2, IsAccepted: true},
		},
	}

	a := q.AcceptedAnswer()
	if a == nil {
		t.Fatal("expected an accepted answer")
	}
	if a.ID != "2" {
		t.Errorf("AcceptedAnswer().ID = %s, want 2", a.ID)
	}

	none := Question{Answers: []Answer{{ID: "1"}}}
	if none.AcceptedAnswer() != nil {
		t.Error("expected nil for question without accepted answer")
	}
}

func TestCategoryTable_TagFor(t *testing.T) {
	table := CategoryTable(DefaultCategoryTags)

	tag, err := table.TagFor("nodejs")
	if err != nil {
		t.Fatalf("TagFor failed: %v", err)
	}
	if tag != "node.js" {
		t.Errorf("TagFor(nodejs) = %s, want node.js", tag)
	}

	_, err = table.TagFor("not-a-real-tag")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestParseSortMode(t *testing.T) {
	for _, valid := range []string{"votes", "creation", "activity"} {
		if _, err := ParseSortMode(valid); err != nil {
			t.Errorf("ParseSortMode(%q) failed: %v", valid, err)
		}
	}

	if _, err := ParseSortMode("points"); err == nil {
		t.Error("expected error for invalid sort mode")
	}
}

func TestQuestionTimestamps(t *testing.T) {
	pub := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	q := Question{PubDate: pub, FetchedAt: pub.Add(time.Hour)}

	if !q.FetchedAt.After(q.PubDate) {
		t.Error("FetchedAt should be after PubDate")
	}
}
