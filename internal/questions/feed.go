package questions

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/sha1n/stackfeed/internal/domain"
)

const feedID = "tag:stackoverflow.com,2026:stackfeed"

// BuildFeed renders questions as an Atom feed. Items keep store order, so
// callers control the feed ordering via Order.
func BuildFeed(qs []domain.Question, now time.Time) (string, error) {
	feed := &feeds.Feed{
		Title:       "StackFeed Questions",
		Description: "Answered StackOverflow questions with accepted answers",
		Link:        &feeds.Link{Href: "https://stackoverflow.com/", Rel: "self", Type: "text/html"},
		Id:          feedID,
		Created:     now,
		Updated:     now,
	}

	for _, q := range qs {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("<p><strong>%d points</strong> | %d answers | %d views | %s</p>", q.Score, q.AnswerCount, q.ViewCount, q.Category))
		sb.WriteString("<p>")
		sb.WriteString(q.Description)
		sb.WriteString("</p>")
		if accepted := q.AcceptedAnswer(); accepted != nil {
			sb.WriteString(fmt.Sprintf("<p><em>Accepted answer by %s (%d points)</em></p>", accepted.Author, accepted.Score))
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title: q.Title,
			Link:  &feeds.Link{Href: q.Link, Rel: "alternate", Type: "text/html"},
			Id:    q.Link,
			Author: &feeds.Author{
				Name: q.Author,
			},
			Description: sb.String(),
			Created:     q.PubDate,
		})
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return "", fmt.Errorf("failed to render feed: %w", err)
	}
	return atom, nil
}
