package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sha1n/stackfeed/internal/domain"
)

const (
	// DefaultAPIBaseURL is the Stack Exchange API endpoint
	DefaultAPIBaseURL = "https://api.stackexchange.com/2.3"

	// DefaultSite scopes all queries to StackOverflow
	DefaultSite = "stackoverflow"

	// ListPageSize is the fixed page size for list queries
	ListPageSize = 20

	// AnswerPageSize caps the answers fetched per question (top by score)
	AnswerPageSize = 5

	// withBodyFilter asks the API to include body fields in responses
	withBodyFilter = "withbody"
)

// Source abstracts the upstream question provider so the ingestion pipeline
// can be tested against a fake.
type Source interface {
	// ListPage returns one page of the question list for a tag, sorted
	// descending by the sort mode.
	ListPage(ctx context.Context, tag string, sort domain.SortMode, page int) (*ListPage, error)

	// Detail returns the full question plus its top answers by score.
	// Returns (nil, nil) when the question no longer exists upstream.
	Detail(ctx context.Context, id string) (*QuestionDetail, error)
}

// ListPage is one page of upstream list results.
type ListPage struct {
	Items   []ListItem
	HasMore bool
}

// ListItem is a question summary from the list endpoint.
type ListItem struct {
	ID           string
	Title        string
	Link         string
	IsAnswered   bool
	CreationDate time.Time
}

// QuestionDetail is a full question with answers, as fetched upstream.
// Text fields are raw (HTML, entity-encoded); normalization happens in the
// pipeline.
type QuestionDetail struct {
	ID           string
	Title        string
	Body         string
	Link         string
	Score        int
	ViewCount    int
	AnswerCount  int
	Tags         []string
	Author       string
	IsAnswered   bool
	CreationDate time.Time
	Answers      []AnswerDetail
}

// AnswerDetail is a raw upstream answer.
type AnswerDetail struct {
	ID           string
	Body         string
	Score        int
	IsAccepted   bool
	Author       string
	CreationDate time.Time
}

// Doer abstracts HTTP execution for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StackClient queries the Stack Exchange API.
type StackClient struct {
	baseURL string
	site    string
	client  Doer
}

// NewStackClient creates a client against the public API with a sane timeout.
func NewStackClient() *StackClient {
	return &StackClient{
		baseURL: DefaultAPIBaseURL,
		site:    DefaultSite,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewStackClientForSite creates a client scoped to a specific Stack Exchange
// site. An empty site falls back to the default.
func NewStackClientForSite(site string) *StackClient {
	c := NewStackClient()
	if site != "" {
		c.site = site
	}
	return c
}

// NewStackClientWithOptions creates a client with a custom endpoint and HTTP
// doer (for testing).
func NewStackClientWithOptions(baseURL string, client Doer) *StackClient {
	return &StackClient{
		baseURL: baseURL,
		site:    DefaultSite,
		client:  client,
	}
}

// Wire types. The API reports timestamps as Unix seconds and omits owner for
// deleted accounts.
type apiOwner struct {
	DisplayName string `json:"display_name"`
}

type apiQuestion struct {
	QuestionID   int64     `json:"question_id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Link         string    `json:"link"`
	Score        int       `json:"score"`
	ViewCount    int       `json:"view_count"`
	AnswerCount  int       `json:"answer_count"`
	Tags         []string  `json:"tags"`
	Owner        *apiOwner `json:"owner"`
	IsAnswered   bool      `json:"is_answered"`
	CreationDate int64     `json:"creation_date"`
}

type apiAnswer struct {
	AnswerID     int64     `json:"answer_id"`
	Body         string    `json:"body"`
	Score        int       `json:"score"`
	IsAccepted   bool      `json:"is_accepted"`
	Owner        *apiOwner `json:"owner"`
	CreationDate int64     `json:"creation_date"`
}

type apiQuestionResponse struct {
	Items   []apiQuestion `json:"items"`
	HasMore bool          `json:"has_more"`
}

type apiAnswerResponse struct {
	Items   []apiAnswer `json:"items"`
	HasMore bool        `json:"has_more"`
}

// ownerName returns the display name, or "Anonymous" when upstream omits
// the owner.
func ownerName(o *apiOwner) string {
	if o == nil || o.DisplayName == "" {
		return "Anonymous"
	}
	return o.DisplayName
}

func (c *StackClient) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limit exceeded (429)")
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListPage fetches one page of the question list for a tag.
func (c *StackClient) ListPage(ctx context.Context, tag string, sort domain.SortMode, page int) (*ListPage, error) {
	params := url.Values{}
	params.Set("site", c.site)
	params.Set("tagged", tag)
	params.Set("sort", string(sort))
	params.Set("order", "desc")
	params.Set("filter", withBodyFilter)
	params.Set("pagesize", strconv.Itoa(ListPageSize))
	params.Set("page", strconv.Itoa(page))

	var resp apiQuestionResponse
	if err := c.get(ctx, "/questions", params, &resp); err != nil {
		return nil, fmt.Errorf("list questions failed: %w", err)
	}

	result := &ListPage{HasMore: resp.HasMore}
	for _, item := range resp.Items {
		result.Items = append(result.Items, ListItem{
			ID:           strconv.FormatInt(item.QuestionID, 10),
			Title:        item.Title,
			Link:         item.Link,
			IsAnswered:   item.IsAnswered,
			CreationDate: time.Unix(item.CreationDate, 0).UTC(),
		})
	}
	return result, nil
}

// Detail fetches a single question and its top answers by score.
func (c *StackClient) Detail(ctx context.Context, id string) (*QuestionDetail, error) {
	params := url.Values{}
	params.Set("site", c.site)
	params.Set("filter", withBodyFilter)
	params.Set("sort", "votes")

	var qResp apiQuestionResponse
	if err := c.get(ctx, "/questions/"+id, params, &qResp); err != nil {
		return nil, fmt.Errorf("question detail failed: %w", err)
	}
	if len(qResp.Items) == 0 {
		return nil, nil
	}
	q := qResp.Items[0]

	params.Set("pagesize", strconv.Itoa(AnswerPageSize))
	var aResp apiAnswerResponse
	if err := c.get(ctx, "/questions/"+id+"/answers", params, &aResp); err != nil {
		return nil, fmt.Errorf("question answers failed: %w", err)
	}

	detail := &QuestionDetail{
		ID:           strconv.FormatInt(q.QuestionID, 10),
		Title:        q.Title,
		Body:         q.Body,
		Link:         q.Link,
		Score:        q.Score,
		ViewCount:    q.ViewCount,
		AnswerCount:  q.AnswerCount,
		Tags:         q.Tags,
		Author:       ownerName(q.Owner),
		IsAnswered:   q.IsAnswered,
		CreationDate: time.Unix(q.CreationDate, 0).UTC(),
	}
	for _, a := range aResp.Items {
		detail.Answers = append(detail.Answers, AnswerDetail{
			ID:           strconv.FormatInt(a.AnswerID, 10),
			Body:         a.Body,
			Score:        a.Score,
			IsAccepted:   a.IsAccepted,
			Author:       ownerName(a.Owner),
			CreationDate: time.Unix(a.CreationDate, 0).UTC(),
		})
	}
	return detail, nil
}
