package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/stackfeed/internal/domain"
)

// ReadArgument defines read parameters.
type ReadArgument struct {
	ID string `json:"id" jsonschema_description:"Question id as reported by search results"`
}

// ReadHandler handles the read MCP tool.
type ReadHandler struct {
	service *Service
}

// NewReadHandler creates a new read handler.
func NewReadHandler(service *Service) *ReadHandler {
	return &ReadHandler{
		service: service,
	}
}

// Handle returns a full question with its answers.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.ID) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "ID cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	q, err := h.service.Question(args.ID)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error loading questions: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}
	if q == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Question not found: %s", args.ID)},
			},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatQuestion(q)},
		},
	}, nil, nil
}

// formatQuestion renders a question and its answers as markdown.
func formatQuestion(q *domain.Question) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", q.Title))
	sb.WriteString(fmt.Sprintf("**ID**: %s | **Category**: %s | **Score**: %d | **Views**: %d\n", q.ID, q.Category, q.Score, q.ViewCount))
	sb.WriteString(fmt.Sprintf("**Author**: %s | **Posted**: %s\n", q.Author, q.PubDate.Format("2006-01-02")))
	if len(q.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("**Tags**: %s\n", strings.Join(q.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Link**: %s\n\n", q.Link))
	sb.WriteString(q.FullBody)
	sb.WriteString("\n")

	for i, a := range q.Answers {
		marker := ""
		if a.IsAccepted {
			marker = " (accepted)"
		}
		sb.WriteString(fmt.Sprintf("\n## Answer %d%s\n", i+1, marker))
		sb.WriteString(fmt.Sprintf("**Author**: %s | **Score**: %d\n\n", a.Author, a.Score))
		sb.WriteString(a.Body)
		sb.WriteString("\n")
	}

	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_question",
		Description: "Read a stored StackOverflow question with its answers by id",
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, service *Service) {
	handler := NewReadHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
