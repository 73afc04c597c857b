package service

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

// PageRenderer assembles the full review page around the rendered card
// stream: header, filter bar and the progress-stream bootstrap.
type PageRenderer struct{}

// NewPageRenderer creates a new page renderer service
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{}
}

// PageData feeds the review page template.
type PageData struct {
	Title       string
	ContentType string
	GeneratedAt string
	SessionID   string
	TotalIssues int
	Cards       template.HTML
	FilterBar   template.HTML
	FlatIssues  template.HTML
}

// RenderPage renders the review surface for one analysis result. The
// block tree renders to cards; when the analyzer produced no tree, the
// flat issue list renders as summary cards instead.
func (p *PageRenderer) RenderPage(result *domain.AnalysisResult, tree *TreeRenderer, ctx *RenderContext, filters *SmartFilterEngine, sessionID string) (string, error) {
	cards, _ := tree.RenderDocument(result, ctx)

	flat := ""
	if len(result.StructuralBlocks) == 0 && len(result.Errors) > 0 {
		var sb strings.Builder
		for i := range result.Errors {
			sb.WriteString(SummaryIssueCard(&result.Errors[i], ctx))
		}
		flat = sb.String()
	}

	data := PageData{
		Title:       "Writing Review",
		ContentType: result.ContentType,
		GeneratedAt: time.Now().Format(time.RFC3339),
		SessionID:   sessionID,
		TotalIssues: result.TotalIssueCount() + len(result.Errors),
		Cards:       template.HTML(cards),
		FilterBar:   template.HTML(p.renderFilterBar(result, filters)),
		FlatIssues:  template.HTML(flat),
	}
	if len(result.StructuralBlocks) > 0 {
		data.TotalIssues = result.TotalIssueCount()
	}

	tmpl, err := template.New("review_page").Parse(reviewPageTemplate)
	if err != nil {
		return "", domain.NewRenderError(domain.BlockKindDocument, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewRenderError(domain.BlockKindDocument, err)
	}
	return buf.String(), nil
}

// renderFilterBar renders one chip per severity with its count, plus the
// preset buttons. Counts come from the full issue population, not the
// filtered view.
func (p *PageRenderer) renderFilterBar(result *domain.AnalysisResult, filters *SmartFilterEngine) string {
	issues := collectAllIssues(result)
	counts := domain.CountBySeverity(issues)

	var active map[domain.Severity]bool
	if filters != nil {
		active, _ = filters.State()
	} else {
		active = domain.DefaultActiveSet()
	}

	var sb strings.Builder
	sb.WriteString(`<div class="filter-bar">`)
	for _, severity := range domain.AllSeverities {
		state := "off"
		if active[severity] {
			state = "on"
		}
		fmt.Fprintf(&sb,
			`<button type="button" class="filter-chip" data-filter-level=%q data-active=%q style="border-color: %s">%s <span class="filter-count">%d</span></button>`,
			severity, state, SeverityColor(severity), SeverityKeyword(severity), counts[severity])
	}
	for _, preset := range []domain.FilterPreset{domain.PresetFocusMode, domain.PresetReviewMode, domain.PresetCompleteAudit} {
		fmt.Fprintf(&sb, `<button type="button" class="filter-preset" data-preset=%q>%s</button>`,
			preset, EscapeText(string(preset)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// collectAllIssues flattens every issue in the result, tree and flat list
// alike, for the filter-bar counts.
func collectAllIssues(result *domain.AnalysisResult) []domain.Issue {
	var issues []domain.Issue
	var walk func(blocks []domain.Block)
	walk = func(blocks []domain.Block) {
		for i := range blocks {
			if !blocks[i].ShouldSkipAnalysis {
				issues = append(issues, blocks[i].Errors...)
			}
			walk(blocks[i].Children)
		}
	}
	walk(result.StructuralBlocks)
	if len(result.StructuralBlocks) == 0 {
		issues = append(issues, result.Errors...)
	}
	return issues
}

const reviewPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; background-color: #f5f5f5; }
        .container { max-width: 960px; margin: 0 auto; padding: 20px; }
        .header { background: white; padding: 24px; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .header h1 { font-size: 1.8em; margin-bottom: 4px; }
        .header .meta { color: #666; font-size: 0.9em; }
        .filter-bar { display: flex; gap: 8px; margin-bottom: 20px; flex-wrap: wrap; }
        .filter-chip { padding: 6px 12px; border: 2px solid; border-radius: 16px; background: white; cursor: pointer; }
        .filter-chip[data-active="off"] { opacity: 0.4; }
        .filter-preset { padding: 6px 12px; border: 1px solid #ccc; border-radius: 4px; background: white; cursor: pointer; }
        .block-card { background: white; padding: 16px; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,0.08); margin-bottom: 12px; }
        .block-header { display: flex; align-items: center; gap: 8px; margin-bottom: 8px; }
        .block-label { font-weight: 600; }
        .block-status { margin-left: auto; font-size: 0.85em; color: #666; }
        .block-skipped .block-body { color: #999; }
        .block-muted { color: #999; font-style: italic; }
        .section-children { margin-left: 16px; border-left: 2px solid #eee; padding-left: 12px; }
        .issue-card { border: 1px solid #eee; border-radius: 6px; padding: 10px; margin-top: 8px; }
        .issue-head { display: flex; align-items: center; gap: 8px; }
        .severity-chip { color: white; padding: 2px 8px; border-radius: 10px; font-size: 0.8em; }
        .confidence-percent { border: 1px solid; border-radius: 10px; padding: 2px 6px; font-size: 0.8em; }
        .review-table { border-collapse: collapse; width: 100%; }
        .review-table th, .review-table td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
        .station-strip { display: flex; gap: 8px; padding: 10px; background: #fafafa; border-radius: 6px; }
        pre { background: #f8f9fa; padding: 12px; border-radius: 4px; overflow-x: auto; }
        [hidden] { display: none !important; }
    </style>
</head>
<body data-session-id="{{.SessionID}}">
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <div class="meta">{{.ContentType}} &middot; {{.TotalIssues}} issues &middot; generated {{.GeneratedAt}}</div>
        </div>
        {{.FilterBar}}
        <div id="review-blocks">
            {{.Cards}}
            {{.FlatIssues}}
        </div>
    </div>
    <script src="/static/review.js" defer></script>
</body>
</html>`
