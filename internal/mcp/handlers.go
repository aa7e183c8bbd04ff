package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fieldops/intake/internal/records"
	"github.com/fieldops/intake/internal/vectordb"
)

// handleSearchBookings performs semantic search over the booking index.
func (s *Server) handleSearchBookings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.search == nil {
		return mcp.NewToolResultError("semantic search is unavailable: no embedding provider configured"), nil
	}

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	var filter *vectordb.SearchFilter
	if st := request.GetString("service_type", ""); st != "" {
		filter = &vectordb.SearchFilter{ServiceType: &st}
	}
	if city := request.GetString("city", ""); city != "" {
		if filter == nil {
			filter = &vectordb.SearchFilter{}
		}
		filter.City = &city
	}

	results, err := s.search.Search(ctx, query, limit, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No matching bookings found. The index may be empty; run `intake records reindex` to rebuild it."), nil
	}

	return mcp.NewToolResultText(vectordb.FormatResults(results)), nil
}

// handleListBookings returns recent bookings from the store.
func (s *Server) handleListBookings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := records.ListFilter{
		ServiceType: request.GetString("service_type", ""),
		City:        request.GetString("city", ""),
		Limit:       request.GetInt("limit", 20),
	}

	bookings, err := s.store.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing bookings: %v", err)), nil
	}

	out, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding bookings: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetBooking returns one booking with its transcript.
func (s *Server) handleGetBooking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no booking with id %q", id)), nil
	}

	out, err := json.MarshalIndent(booking, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding booking: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
