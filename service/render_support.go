package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// blockCardOpen emits the opening card element with the stable anchor the
// rewrite orchestrator locates blocks by.
func blockCardOpen(block *domain.Block, displayIndex int, extraClass string) string {
	class := "block-card"
	if extraClass != "" {
		class += " " + extraClass
	}
	if block.ShouldSkipAnalysis {
		class += " block-skipped"
	}
	return fmt.Sprintf(`<div class=%q id="block-%d" data-block-type=%q>`,
		class, displayIndex, EscapeAttr(string(block.Kind)))
}

// blockHeader emits the card header: icon, kind label and the status
// label summarizing the block's issues.
func blockHeader(block *domain.Block) string {
	var sb strings.Builder
	sb.WriteString(`<div class="block-header">`)
	if icon := BlockTypeIcon(block.Kind); icon != "" {
		fmt.Fprintf(&sb, `<span class="block-icon">%s</span>`, EscapeText(icon))
	}
	fmt.Fprintf(&sb, `<span class="block-label">%s</span>`, EscapeText(BlockTypeLabel(block)))
	sb.WriteString(blockStatusLabel(block))
	sb.WriteString(`</div>`)
	return sb.String()
}

// blockStatusLabel summarizes the block's issue counts in one label.
func blockStatusLabel(block *domain.Block) string {
	if block.ShouldSkipAnalysis {
		return `<span class="block-status status-skipped">Skipped</span>`
	}
	total := block.OwnIssueCount()
	if block.Kind == domain.BlockKindSection {
		total = block.TotalIssueCount()
	}
	if total == 0 {
		return `<span class="block-status status-clean">No issues</span>`
	}

	counts := domain.CountBySeverity(block.Errors)
	parts := make([]string, 0, 4)
	for _, severity := range domain.AllSeverities {
		if counts[severity] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[severity], severity))
		}
	}
	detail := ""
	if len(parts) > 0 {
		detail = " (" + strings.Join(parts, ", ") + ")"
	}
	noun := "issues"
	if total == 1 {
		noun = "issue"
	}
	return fmt.Sprintf(`<span class="block-status status-issues">%d %s%s</span>`, total, noun, detail)
}

// issueFooter renders the block's inline issue cards. Skipped blocks get
// the empty skipped state instead of issues.
func issueFooter(block *domain.Block, ctx *RenderContext) string {
	if block.ShouldSkipAnalysis {
		return `<div class="block-issues"><span class="analysis-skipped">Analysis skipped</span></div>`
	}
	if len(block.Errors) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="block-issues">`)
	for i := range block.Errors {
		sb.WriteString(InlineIssueCard(&block.Errors[i], ctx))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// issueCardsFor renders inline cards for an arbitrary issue subset, used
// by the list renderers to attach issues at item level.
func issueCardsFor(issues []domain.Issue, ctx *RenderContext) string {
	if len(issues) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := range issues {
		sb.WriteString(InlineIssueCard(&issues[i], ctx))
	}
	return sb.String()
}
