package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// StubQuestion is one question fixture served by the API stub.
type StubQuestion struct {
	QuestionID   int64        `json:"question_id"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Link         string       `json:"link"`
	Score        int          `json:"score"`
	ViewCount    int          `json:"view_count"`
	AnswerCount  int          `json:"answer_count"`
	Tags         []string     `json:"tags"`
	Owner        *StubOwner   `json:"owner,omitempty"`
	IsAnswered   bool         `json:"is_answered"`
	CreationDate int64        `json:"creation_date"`
	Answers      []StubAnswer `json:"-"`
}

// StubAnswer is one answer fixture.
type StubAnswer struct {
	AnswerID     int64      `json:"answer_id"`
	Body         string     `json:"body"`
	Score        int        `json:"score"`
	IsAccepted   bool       `json:"is_accepted"`
	Owner        *StubOwner `json:"owner,omitempty"`
	CreationDate int64      `json:"creation_date"`
}

// StubOwner mirrors the upstream owner shape.
type StubOwner struct {
	DisplayName string `json:"display_name"`
}

// StackAPIStub serves Stack Exchange API response shapes from in-memory
// fixtures. Questions are listed in slice order, paged by the request's
// pagesize parameter.
type StackAPIStub struct {
	mu        sync.Mutex
	questions []StubQuestion
	server    *httptest.Server
	Requests  []string
}

// NewStackAPIStub creates a stub with the given fixtures. Call Close when done.
func NewStackAPIStub(questions ...StubQuestion) *StackAPIStub {
	s := &StackAPIStub{questions: questions}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the stub's base URL.
func (s *StackAPIStub) URL() string {
	return s.server.URL
}

// Close shuts down the stub server.
func (s *StackAPIStub) Close() {
	s.server.Close()
}

func (s *StackAPIStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.Requests = append(s.Requests, r.URL.Path)
	s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/questions")
	switch {
	case path == "":
		s.handleList(w, r)
	case strings.HasSuffix(path, "/answers"):
		s.handleAnswers(w, strings.Trim(strings.TrimSuffix(path, "/answers"), "/"))
	default:
		s.handleDetail(w, strings.Trim(path, "/"))
	}
}

func (s *StackAPIStub) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pagesize"))
	if pageSize < 1 {
		pageSize = len(s.questions)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(s.questions) {
		start = len(s.questions)
	}
	if end > len(s.questions) {
		end = len(s.questions)
	}

	writeJSON(w, map[string]any{
		"items":    s.questions[start:end],
		"has_more": end < len(s.questions),
	})
}

func (s *StackAPIStub) handleDetail(w http.ResponseWriter, id string) {
	q := s.find(id)
	items := []StubQuestion{}
	if q != nil {
		items = append(items, *q)
	}
	writeJSON(w, map[string]any{"items": items, "has_more": false})
}

func (s *StackAPIStub) handleAnswers(w http.ResponseWriter, id string) {
	q := s.find(id)
	answers := []StubAnswer{}
	if q != nil {
		answers = q.Answers
	}
	writeJSON(w, map[string]any{"items": answers, "has_more": false})
}

func (s *StackAPIStub) find(id string) *StubQuestion {
	for i := range s.questions {
		if strconv.FormatInt(s.questions[i].QuestionID, 10) == id {
			return &s.questions[i]
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
