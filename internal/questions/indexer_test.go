package questions

import (
	"testing"
	"time"

	"github.com/sha1n/stackfeed/internal/domain"
)

func indexedQuestion(id, title, category, body string) domain.Question {
	return domain.Question{
		ID:       id,
		Title:    title,
		Category: category,
		FullBody: body,
		Tags:     []string{category},
		Author:   "tester",
		PubDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestIndexer_IndexAndCount(t *testing.T) {
	indexer := NewIndexer(t.TempDir())

	qs := []domain.Question{
		indexedQuestion("1", "How to cancel a goroutine", "go", "Use context cancellation."),
		indexedQuestion("2", "Promise rejection handling", "nodejs", "Attach a catch handler."),
	}

	count, err := indexer.IndexQuestions(qs)
	if err != nil {
		t.Fatalf("IndexQuestions failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 indexed, got %d", count)
	}

	docs, err := indexer.DocCount()
	if err != nil {
		t.Fatalf("DocCount failed: %v", err)
	}
	if docs != 2 {
		t.Errorf("Expected doc count 2, got %d", docs)
	}
}

func TestIndexer_ExistsAfterIndexing(t *testing.T) {
	indexer := NewIndexer(t.TempDir())

	if indexer.Exists() {
		t.Error("Expected index to not exist before first write")
	}

	if _, err := indexer.IndexQuestions([]domain.Question{indexedQuestion("1", "t", "go", "b")}); err != nil {
		t.Fatalf("IndexQuestions failed: %v", err)
	}

	if !indexer.Exists() {
		t.Error("Expected index to exist after indexing")
	}
}

func TestIndexer_DeleteQuestions(t *testing.T) {
	indexer := NewIndexer(t.TempDir())

	qs := []domain.Question{
		indexedQuestion("1", "first", "go", "body one"),
		indexedQuestion("2", "second", "go", "body two"),
	}
	if _, err := indexer.IndexQuestions(qs); err != nil {
		t.Fatalf("IndexQuestions failed: %v", err)
	}

	if err := indexer.DeleteQuestions([]string{"1"}); err != nil {
		t.Fatalf("DeleteQuestions failed: %v", err)
	}

	docs, err := indexer.DocCount()
	if err != nil {
		t.Fatalf("DocCount failed: %v", err)
	}
	if docs != 1 {
		t.Errorf("Expected doc count 1 after delete, got %d", docs)
	}
}

func TestIndexer_Rebuild(t *testing.T) {
	indexer := NewIndexer(t.TempDir())

	if _, err := indexer.IndexQuestions([]domain.Question{
		indexedQuestion("1", "stale", "go", "stale body"),
		indexedQuestion("2", "stale", "go", "stale body"),
	}); err != nil {
		t.Fatalf("IndexQuestions failed: %v", err)
	}

	count, err := indexer.Rebuild([]domain.Question{indexedQuestion("3", "fresh", "go", "fresh body")})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 indexed on rebuild, got %d", count)
	}

	docs, err := indexer.DocCount()
	if err != nil {
		t.Fatalf("DocCount failed: %v", err)
	}
	if docs != 1 {
		t.Errorf("Expected doc count 1 after rebuild, got %d", docs)
	}
}

func TestIndexer_IndexesAnswerBodies(t *testing.T) {
	indexer := NewIndexer(t.TempDir())

	q := indexedQuestion("1", "goroutine leak", "go", "My worker never exits.")
	q.Answers = []domain.Answer{{
		ID:         "a1",
		Body:       "Close the channel to unblock the receiver:\n\n```\nclose(done)\n```",
		IsAccepted: true,
	}}

	if _, err := indexer.IndexQuestions([]domain.Question{q}); err != nil {
		t.Fatalf("IndexQuestions failed: %v", err)
	}

	doc := toDoc(&q)
	if doc.Body == "" {
		t.Fatal("Expected non-empty body document field")
	}
	if len(doc.Code) == 0 {
		t.Error("Expected code spans extracted from answer body")
	}
}
