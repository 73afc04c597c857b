package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// lowConfidenceOpacity dims LOW confidence issues without hiding them.
const lowConfidenceOpacity = "0.65"

// InlineIssueCard renders the compact issue shape embedded inside a block
// card: severity keyword, message, optional suggestion preview, feedback
// controls and a details button. Visibility honors the context's active
// filter set through data attributes plus a hidden flag.
func InlineIssueCard(issue *domain.Issue, ctx *RenderContext) string {
	if issue == nil {
		return ""
	}
	confidence := issue.Confidence()
	severity := domain.SeverityFor(confidence)
	fingerprint := Fingerprint(issue)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<div class="issue-card issue-inline" data-error-id=%q data-filter-level=%q data-confidence="%.2f" data-confidence-level=%q`,
		fingerprint, severity, confidence, domain.LevelFor(confidence))
	if domain.LevelFor(confidence) == domain.ConfidenceLow {
		fmt.Fprintf(&sb, ` style="opacity: %s"`, lowConfidenceOpacity)
	}
	if !ctx.FilterActive(severity) {
		sb.WriteString(` hidden`)
	}
	sb.WriteString(`>`)

	sb.WriteString(`<div class="issue-head">`)
	sb.WriteString(ConfidenceBadge(confidence))
	fmt.Fprintf(&sb, `<span class="issue-rule">%s</span>`, EscapeText(issue.RuleKind))
	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<div class="issue-message">%s</div>`, EscapeText(issue.Message))

	if len(issue.Suggestions) > 0 {
		fmt.Fprintf(&sb, `<div class="issue-suggestion">Suggestion: %s</div>`,
			EscapeText(issue.Suggestions[0]))
	}

	sb.WriteString(feedbackControls(issue, fingerprint, ctx))
	fmt.Fprintf(&sb, `<button type="button" class="issue-details" data-error-id=%q>Details</button>`, fingerprint)
	sb.WriteString(ConfidenceModal(issue))
	sb.WriteString(`</div>`)
	return sb.String()
}

// SummaryIssueCard renders the expanded shape used in flat fallback mode:
// the inline content plus location, text segment, consolidation tag and an
// expandable confidence analysis section.
func SummaryIssueCard(issue *domain.Issue, ctx *RenderContext) string {
	if issue == nil {
		return ""
	}
	confidence := issue.Confidence()
	severity := domain.SeverityFor(confidence)
	fingerprint := Fingerprint(issue)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<div class="issue-card issue-summary" data-error-id=%q data-filter-level=%q data-confidence="%.2f" data-confidence-level=%q`,
		fingerprint, severity, confidence, domain.LevelFor(confidence))
	if !ctx.FilterActive(severity) {
		sb.WriteString(` hidden`)
	}
	sb.WriteString(`>`)

	sb.WriteString(`<div class="issue-head">`)
	sb.WriteString(ConfidenceBadge(confidence))
	fmt.Fprintf(&sb, `<span class="issue-rule">%s</span>`, EscapeText(issue.RuleKind))
	if n := len(issue.ConsolidatedFrom); n > 0 {
		fmt.Fprintf(&sb, `<span class="consolidated-tag">Consolidated from %d</span>`, n)
	}
	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<div class="issue-message">%s</div>`, EscapeText(issue.Message))

	if issue.TextSegment != "" {
		fmt.Fprintf(&sb, `<div class="issue-segment"><code>%s</code></div>`, EscapeText(issue.TextSegment))
	}

	var location []string
	if issue.LineNumber > 0 {
		location = append(location, fmt.Sprintf("Line %d", issue.LineNumber))
	}
	if issue.SentenceIndex > 0 {
		location = append(location, fmt.Sprintf("Sentence %d", issue.SentenceIndex))
	}
	if len(location) > 0 {
		fmt.Fprintf(&sb, `<div class="issue-location">%s</div>`, strings.Join(location, " · "))
	}

	for _, suggestion := range issue.Suggestions {
		fmt.Fprintf(&sb, `<div class="issue-suggestion">%s</div>`, EscapeText(suggestion))
	}

	sb.WriteString(`<details class="confidence-analysis"><summary>Confidence Analysis</summary>`)
	sb.WriteString(ConfidenceTooltip(issue))
	sb.WriteString(influencingFactors(issue))
	sb.WriteString(`</details>`)

	sb.WriteString(feedbackControls(issue, fingerprint, ctx))
	sb.WriteString(ConfidenceModal(issue))
	sb.WriteString(`</div>`)
	return sb.String()
}

// feedbackControls renders the helpful / not-helpful affordances, or the
// recorded decision with a change link when one exists.
func feedbackControls(issue *domain.Issue, fingerprint string, ctx *RenderContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="feedback-controls" data-error-id=%q>`, fingerprint)

	var record *domain.FeedbackRecord
	if ctx != nil && ctx.Feedback != nil {
		record = ctx.Feedback.Get(issue)
	}

	if record != nil {
		label := "Marked helpful"
		if record.Decision == domain.FeedbackNotHelpful {
			label = "Marked not helpful"
		}
		fmt.Fprintf(&sb, `<span class="feedback-recorded">%s</span>`, label)
		fmt.Fprintf(&sb, `<button type="button" class="feedback-change" data-error-id=%q>Change</button>`, fingerprint)
	} else {
		fmt.Fprintf(&sb, `<button type="button" class="feedback-helpful" data-error-id=%q data-decision="helpful">Helpful</button>`, fingerprint)
		fmt.Fprintf(&sb, `<button type="button" class="feedback-not-helpful" data-error-id=%q data-decision="not_helpful">Not helpful</button>`, fingerprint)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
