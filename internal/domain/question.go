package domain

import (
	"sort"
	"time"
)

// Question is an ingested StackOverflow question together with its answers.
// It is the unit stored in the question store and indexed for search.
type Question struct {
	// ID is the upstream question id. It is the dedupe key across runs.
	ID string `json:"id"`

	// Title and Description hold the normalized (entity-decoded) title text.
	Title       string `json:"title"`
	Description string `json:"description"`

	// FullBody is the normalized question body: plain text with inline code
	// in backticks and code blocks as fenced spans.
	FullBody string `json:"fullBody"`

	// Link is the canonical question URL upstream.
	Link string `json:"link"`

	// Category is the configured category name the question was ingested
	// under (a key of the category table, not necessarily the upstream tag).
	Category string `json:"category"`

	// Counters mirror upstream values at fetch time. They are not refreshed.
	Score       int `json:"score"`
	ViewCount   int `json:"viewCount"`
	AnswerCount int `json:"answerCount"`

	Tags   []string `json:"tags"`
	Author string   `json:"author"`

	// PubDate is the upstream creation time, FetchedAt the ingestion time.
	PubDate   time.Time `json:"pubDate"`
	FetchedAt time.Time `json:"fetchedAt"`

	// Answers holds the accepted answer first, the rest by descending score.
	Answers []Answer `json:"answers"`

	// HasAcceptedAnswer is true for every persisted question; questions
	// without an accepted answer are filtered out before they are stored.
	HasAcceptedAnswer bool `json:"hasAcceptedAnswer"`
}

// Answer is a single answer embedded in a Question.
type Answer struct {
	ID           string    `json:"id"`
	Body         string    `json:"body"`
	Score        int       `json:"score"`
	IsAccepted   bool      `json:"isAccepted"`
	Author       string    `json:"author"`
	CreationDate time.Time `json:"creationDate"`
}

// AcceptedAnswer returns the accepted answer, or nil if there is none.
func (q *Question) AcceptedAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsAccepted {
			return &q.Answers[i]
		}
	}
	return nil
}

// SortAnswers orders answers with the accepted answer first and the
// remainder by descending score. The sort is stable so equal-score answers
// keep their upstream order.
func SortAnswers(answers []Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		if answers[i].IsAccepted != answers[j].IsAccepted {
			return answers[i].IsAccepted
		}
		return answers[i].Score > answers[j].Score
	})
}

// Bleve field name constants for consistent field references in queries and
// mappings.
const (
	QuestionFieldID       = "id"
	QuestionFieldTitle    = "title"
	QuestionFieldBody     = "body"
	QuestionFieldCode     = "code"
	QuestionFieldCategory = "category"
	QuestionFieldTags     = "tags"
	QuestionFieldAuthor   = "author"
)
