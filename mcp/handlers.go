package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleRenderReview handles the render_review tool
func (h *HandlerSet) HandleRenderReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.baseRequest(args)

	format := domain.OutputFormatJSON
	if f, ok := args["format"].(string); ok {
		switch f {
		case "html":
			format = domain.OutputFormatHTML
		case "json":
			format = domain.OutputFormatJSON
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (use html or json)", f)), nil
		}
	}
	req.OutputFormat = format

	result, err := h.deps.Loader().Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load analysis: %v", err)), nil
	}

	response, err := h.deps.BuildReviewService().Render(ctx, result, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering failed: %v", err)), nil
	}

	if format == domain.OutputFormatHTML {
		return mcp.NewToolResultText(response.HTML), nil
	}

	jsonData, err := json.Marshal(formatReviewSummary(response))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleIssueSummary handles the issue_summary tool
func (h *HandlerSet) HandleIssueSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	minConfidence := h.deps.Config().Review.MinConfidence
	if mc, ok := args["min_confidence"].(float64); ok {
		minConfidence = mc
	}

	maxResults := 10
	if mr, ok := args["max_results"].(float64); ok && int(mr) > 0 {
		maxResults = int(mr)
	}

	result, err := h.deps.Loader().Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load analysis: %v", err)), nil
	}

	jsonData, err := json.Marshal(formatIssueSummary(result, minConfidence, maxResults))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleClassifyStations handles the classify_stations tool
func (h *HandlerSet) HandleClassifyStations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	rules := []string{}
	if rawRules, ok := args["rules"].([]interface{}); ok {
		for _, r := range rawRules {
			if str, ok := r.(string); ok {
				rules = append(rules, str)
			}
		}
	}

	path, _ := args["path"].(string)
	if len(rules) == 0 && path == "" {
		return mcp.NewToolResultError("either rules or path must be provided"), nil
	}

	issues := make([]domain.Issue, 0, len(rules))
	byRule := map[string]string{}
	for _, rule := range rules {
		issues = append(issues, domain.Issue{RuleKind: rule})
		byRule[rule] = string(domain.StationForRule(rule))
	}

	responseData := map[string]interface{}{
		"by_rule": byRule,
	}

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
		}
		result, err := h.deps.Loader().Load(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load analysis: %v", err)), nil
		}
		blocks := formatBlockStations(result)
		responseData["blocks"] = blocks
		for i := range result.Errors {
			issues = append(issues, result.Errors[i])
			byRule[result.Errors[i].RuleKind] = string(domain.StationForRule(result.Errors[i].RuleKind))
		}
		collectTreeIssues(result.StructuralBlocks, &issues, byRule)
	}

	stations := domain.StationsFor(issues)
	names := make([]string, 0, len(stations))
	for _, s := range stations {
		names = append(names, string(s))
	}
	responseData["stations"] = names

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleFeedbackStats handles the feedback_stats tool
func (h *HandlerSet) HandleFeedbackStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.deps.Feedback().Stats()

	jsonData, err := json.Marshal(stats)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// baseRequest builds a ReviewRequest from the configured defaults with
// per-call overrides applied.
func (h *HandlerSet) baseRequest(args map[string]interface{}) domain.ReviewRequest {
	cfg := h.deps.Config()

	req := domain.ReviewRequest{
		MinConfidence: cfg.Review.MinConfidence,
		SortBy:        domain.SortCriteria(cfg.Output.SortBy),
		ConfigPath:    h.deps.ConfigPath(),
	}

	if mc, ok := args["min_confidence"].(float64); ok {
		req.MinConfidence = mc
	}

	filters := cfg.Review.DefaultFilters
	if rawFilters, ok := args["filters"].([]interface{}); ok {
		filters = nil
		for _, f := range rawFilters {
			if str, ok := f.(string); ok {
				filters = append(filters, str)
			}
		}
	}
	for _, f := range filters {
		sev := domain.Severity(strings.ToLower(strings.TrimSpace(f)))
		if sev.IsValid() {
			req.ActiveFilters = append(req.ActiveFilters, sev)
		}
	}

	return req
}

// formatReviewSummary flattens a review response for tool output.
func formatReviewSummary(response *domain.ReviewResponse) map[string]interface{} {
	bySeverity := map[string]int{}
	for sev, count := range response.Summary.BySeverity {
		bySeverity[string(sev)] = count
	}

	return map[string]interface{}{
		"summary": map[string]interface{}{
			"total_blocks":    response.Summary.TotalBlocks,
			"rendered_cards":  response.Summary.RenderedCards,
			"skipped_blocks":  response.Summary.SkippedBlocks,
			"total_issues":    response.Summary.TotalIssues,
			"fallback_blocks": response.Summary.FallbackBlocks,
			"by_severity":     bySeverity,
		},
		"content_type": response.ContentType,
		"generated_at": response.GeneratedAt,
		"version":      response.Version,
	}
}

// formatIssueSummary aggregates issue counts by severity, confidence level,
// rule kind and station, with a capped sample of the highest-confidence
// issues.
func formatIssueSummary(result *domain.AnalysisResult, minConfidence float64, maxResults int) map[string]interface{} {
	issues := []domain.Issue{}
	collectTreeIssues(result.StructuralBlocks, &issues, nil)
	if len(result.StructuralBlocks) == 0 {
		issues = append(issues, result.Errors...)
	}

	filtered := issues[:0:0]
	for i := range issues {
		if issues[i].Confidence() >= minConfidence {
			filtered = append(filtered, issues[i])
		}
	}

	bySeverity := map[string]int{}
	byLevel := map[string]int{}
	byRule := map[string]int{}
	byStation := map[string]int{}
	for i := range filtered {
		bySeverity[string(filtered[i].Severity())]++
		byLevel[string(filtered[i].Level())]++
		byRule[filtered[i].RuleKind]++
		byStation[string(domain.StationForRule(filtered[i].RuleKind))]++
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence() > filtered[j].Confidence()
	})

	samples := []map[string]interface{}{}
	for i := range filtered {
		if len(samples) >= maxResults {
			break
		}
		samples = append(samples, map[string]interface{}{
			"rule_kind":  filtered[i].RuleKind,
			"message":    filtered[i].Message,
			"severity":   string(filtered[i].Severity()),
			"confidence": filtered[i].Confidence(),
			"line":       filtered[i].LineNumber,
			"station":    string(domain.StationForRule(filtered[i].RuleKind)),
		})
	}

	return map[string]interface{}{
		"total_issues":   len(filtered),
		"by_severity":    bySeverity,
		"by_confidence":  byLevel,
		"by_rule":        byRule,
		"by_station":     byStation,
		"content_type":   result.ContentType,
		"min_confidence": minConfidence,
		"top_issues":     samples,
	}
}

// formatBlockStations lists, per block carrying issues, the station set its
// rewrite pipeline would visit.
func formatBlockStations(result *domain.AnalysisResult) []map[string]interface{} {
	blocks := []map[string]interface{}{}
	var walk func(items []domain.Block)
	walk = func(items []domain.Block) {
		for i := range items {
			block := &items[i]
			if block.OwnIssueCount() > 0 {
				stations := domain.StationsFor(block.Errors)
				names := make([]string, 0, len(stations))
				for _, s := range stations {
					names = append(names, string(s))
				}
				blocks = append(blocks, map[string]interface{}{
					"kind":     string(block.Kind),
					"issues":   block.OwnIssueCount(),
					"stations": names,
				})
			}
			walk(block.Children)
		}
	}
	walk(result.StructuralBlocks)
	return blocks
}

// collectTreeIssues gathers issues from the block tree, honoring the
// should_skip_analysis suppression. byRule may be nil.
func collectTreeIssues(blocks []domain.Block, out *[]domain.Issue, byRule map[string]string) {
	for i := range blocks {
		block := &blocks[i]
		if !block.ShouldSkipAnalysis {
			for j := range block.Errors {
				*out = append(*out, block.Errors[j])
				if byRule != nil {
					byRule[block.Errors[j].RuleKind] = string(domain.StationForRule(block.Errors[j].RuleKind))
				}
			}
		}
		collectTreeIssues(block.Children, out, byRule)
	}
}

// buildReviewService assembles the rendering pipeline for one tool call.
func buildReviewService(feedback *service.FeedbackService) domain.ReviewService {
	return service.NewReviewService(service.NewRegistry(), feedback, "")
}
