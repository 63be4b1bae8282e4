package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/stackfeed/internal/questions"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name         string
	Version      string
	QuestionsSvc *questions.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.QuestionsSvc != nil {
		questions.RegisterSearchTool(s, cfg.QuestionsSvc)
		questions.RegisterReadTool(s, cfg.QuestionsSvc)
	}

	return s
}
