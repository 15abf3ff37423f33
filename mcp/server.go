package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/okarabey/kitapara/internal/search"
	"github.com/okarabey/kitapara/internal/store"
)

// Deps are the shared services behind the MCP tools. Store may be nil
// when no database is configured; the local tools then report that.
type Deps struct {
	Coordinator *search.Coordinator
	Store       *store.Store
}

func newServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"kitapara",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	registerTools(s, deps)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(deps Deps) error {
	return server.ServeStdio(newServer(deps))
}
