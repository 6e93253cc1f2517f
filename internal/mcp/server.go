package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hawky-ai/hawkd/internal/config"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/ideas"
	"github.com/hawky-ai/hawkd/internal/platform"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"feed_add": {
		def:     feedAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"feed_list": {
		def:     feedListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"feed_delete": {
		def:     feedDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"creative_save": {
		def:     creativeSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreativeSave },
	},
	"feed_status": {
		def:     feedStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with hawkd tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(store *feed.Store, proc *platform.Dispatcher, ideasClient *ideas.Client, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hawkd",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, proc, ideasClient)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(store *feed.Store, proc *platform.Dispatcher, ideasClient *ideas.Client, cfg *config.Config, version string) error {
	s := NewServer(store, proc, ideasClient, cfg, version)
	return server.ServeStdio(s)
}
