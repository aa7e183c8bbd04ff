// Package mcp exposes the booking records to MCP clients: semantic
// search, listing and transcript retrieval as tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/fieldops/intake/internal/records"
	"github.com/fieldops/intake/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes booking lookup tools.
type Server struct {
	store  *records.Store
	search vectordb.VectorStore
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. The
// vector store may be nil when no embedding provider is configured;
// search_bookings then reports that semantic search is unavailable.
func NewServer(store *records.Store, search vectordb.VectorStore) *Server {
	s := &Server{
		store:  store,
		search: search,
	}

	s.mcp = server.NewMCPServer(
		"intake",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchBookingsTool, s.handleSearchBookings)
	s.mcp.AddTool(listBookingsTool, s.handleListBookings)
	s.mcp.AddTool(getBookingTool, s.handleGetBooking)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
