package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all redraft MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	// Tool 1: render_review - Render an analysis document into a review
	s.AddTool(mcp.NewTool("render_review",
		mcp.WithDescription("Render a writing-analysis JSON document into an interactive review (HTML) or a structured rendering summary (JSON)"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the analysis JSON document to render")),
		mcp.WithString("format",
			mcp.Enum("html", "json"),
			mcp.Description("Output format: html or json (default: json)")),
		mcp.WithNumber("min_confidence",
			mcp.Description("Hide issues below this confidence 0.0-1.0 (default: from config)")),
		mcp.WithArray("filters",
			mcp.WithStringEnumItems([]string{"critical", "error", "warning", "suggestion"}),
			mcp.Description("Severity filters to activate. Default: all severities")),
	), h.HandleRenderReview)

	// Tool 2: issue_summary - Aggregate issue statistics
	s.AddTool(mcp.NewTool("issue_summary",
		mcp.WithDescription("Summarize detected issues by severity, confidence level, rule kind and rewrite station"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the analysis JSON document to summarize")),
		mcp.WithNumber("min_confidence",
			mcp.Description("Hide issues below this confidence 0.0-1.0 (default: from config)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum sample issues to include (default: 10)")),
	), h.HandleIssueSummary)

	// Tool 3: classify_stations - Rewrite station classification
	s.AddTool(mcp.NewTool("classify_stations",
		mcp.WithDescription("Classify rule kinds or a document's issues into rewrite pipeline stations (urgent, high, medium, low)"),
		mcp.WithArray("rules",
			mcp.Description("Rule kinds to classify (e.g. passive_voice, legal_claim)")),
		mcp.WithString("path",
			mcp.Description("Path to an analysis JSON document; classifies every issue in it")),
	), h.HandleClassifyStations)

	// Tool 4: feedback_stats - Session feedback statistics
	s.AddTool(mcp.NewTool("feedback_stats",
		mcp.WithDescription("Report feedback recorded in this session: totals, helpful vs not-helpful, and per-rule breakdown"),
	), h.HandleFeedbackStats)
}
