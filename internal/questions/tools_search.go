package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query      string `json:"query" jsonschema_description:"Search query (supports wildcards and phrases)"`
	Category   string `json:"category,omitempty" jsonschema_description:"Filter by category (e.g., go, nodejs, react)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of results to return"`
}

// SearchHandler handles the search MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Query cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	if args.Category != "" {
		if _, err := h.service.Categories().TagFor(args.Category); err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf("Unknown category: %s", args.Category)},
				},
				IsError: true,
			}, nil, nil
		}
	}

	results, err := h.service.Search(args.Query, args.Category, args.MaxResults)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Search failed: %s", err)},
			},
			IsError: true,
		}, nil, nil
	}

	return h.formatResults(results, args.Query), nil, nil
}

// formatResults formats search results for MCP response.
func (h *SearchHandler) formatResults(results *SearchResults, queryStr string) *mcp.CallToolResult {
	if results.Total == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("No results found for query: %s", queryStr)},
			},
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", results.Total, queryStr))

	for i, hit := range results.Hits {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, hit.Title))
		sb.WriteString(fmt.Sprintf("**ID**: %s | **Category**: %s | **Score**: %.4f\n\n", hit.ID, hit.Category, hit.Score))

		if len(hit.Fragments) > 0 {
			for _, fragment := range hit.Fragments {
				sb.WriteString("> ")
				sb.WriteString(fragment)
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
	}

	if results.Total > uint64(len(results.Hits)) {
		sb.WriteString(fmt.Sprintf("... and %d more results\n", results.Total-uint64(len(results.Hits))))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_questions",
		Description: "Search ingested StackOverflow questions and answers using full-text search",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
