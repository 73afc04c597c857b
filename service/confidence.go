package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// severityColors is the sole source of truth for severity accents; the
// issue cards reuse these tokens instead of defining their own.
var severityColors = map[domain.Severity]string{
	domain.SeverityCritical:   "#d32f2f", // red
	domain.SeverityError:      "#f57c00", // orange
	domain.SeverityWarning:    "#fbc02d", // amber
	domain.SeveritySuggestion: "#1976d2", // blue
}

// severityKeywords maps severities to the capitalized chip keyword.
var severityKeywords = map[domain.Severity]string{
	domain.SeverityCritical:   "Critical",
	domain.SeverityError:      "Error",
	domain.SeverityWarning:    "Warning",
	domain.SeveritySuggestion: "Suggestion",
}

// SeverityColor returns the fixed accent color for a severity.
func SeverityColor(severity domain.Severity) string {
	if color, ok := severityColors[severity]; ok {
		return color
	}
	return severityColors[domain.SeveritySuggestion]
}

// SeverityKeyword returns the display keyword for a severity.
func SeverityKeyword(severity domain.Severity) string {
	if kw, ok := severityKeywords[severity]; ok {
		return kw
	}
	return "Suggestion"
}

// ConfidenceBadge renders the percentage chip plus the severity keyword
// chip for a confidence score.
func ConfidenceBadge(confidence float64) string {
	severity := domain.SeverityFor(confidence)
	level := domain.LevelFor(confidence)
	percent := int(confidence*100 + 0.5)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<span class="confidence-badge" data-confidence="%.2f" data-confidence-level=%q>`,
		confidence, level)
	fmt.Fprintf(&sb, `<span class="confidence-percent" style="border-color: %s">%d%%</span>`,
		SeverityColor(severity), percent)
	fmt.Fprintf(&sb, `<span class="severity-chip" style="background-color: %s">%s</span>`,
		SeverityColor(severity), SeverityKeyword(severity))
	sb.WriteString(`</span>`)
	return sb.String()
}

// ConfidenceTooltip renders the hover detail for an issue: the score and,
// when present, the calculation breakdown and validation verdict. Absent
// fields are omitted rather than blanked.
func ConfidenceTooltip(issue *domain.Issue) string {
	if issue == nil {
		return ""
	}
	confidence := issue.Confidence()

	var sb strings.Builder
	sb.WriteString(`<div class="confidence-tooltip">`)
	fmt.Fprintf(&sb, `<div class="tooltip-score">Confidence: %d%% (%s)</div>`,
		int(confidence*100+0.5), domain.LevelFor(confidence))

	if calc := issue.Calculation; calc != nil {
		sb.WriteString(`<div class="tooltip-calculation">`)
		if calc.Method != "" {
			fmt.Fprintf(&sb, `<div>Method: %s</div>`, EscapeText(calc.Method))
		}
		if calc.WeightedAverage > 0 {
			fmt.Fprintf(&sb, `<div>Weighted average: %.2f</div>`, calc.WeightedAverage)
		}
		if calc.PrimaryConfidence > 0 {
			fmt.Fprintf(&sb, `<div>Primary confidence: %.2f</div>`, calc.PrimaryConfidence)
		}
		if calc.ConsolidationPenalty > 0 {
			fmt.Fprintf(&sb, `<div>Consolidation penalty: %.2f</div>`, calc.ConsolidationPenalty)
		}
		sb.WriteString(`</div>`)
	}

	if v := issue.Validation; v != nil {
		sb.WriteString(`<div class="tooltip-validation">`)
		if v.Decision != "" {
			fmt.Fprintf(&sb, `<div>Validation: %s</div>`, EscapeText(string(v.Decision)))
		}
		if v.ConsensusScore > 0 {
			fmt.Fprintf(&sb, `<div>Consensus: %.2f</div>`, v.ConsensusScore)
		}
		if v.PassesCount > 0 {
			fmt.Fprintf(&sb, `<div>Validation passes: %d</div>`, v.PassesCount)
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// ConfidenceModal renders the dismissable overlay with the tooltip data
// plus the influencing-factors list. Opening the modal never mutates the
// issue; the payload travels as an encoded data attribute.
func ConfidenceModal(issue *domain.Issue) string {
	if issue == nil {
		return ""
	}
	encoded := EncodeIssuePayload(issue)
	fingerprint := Fingerprint(issue)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<div class="confidence-modal" data-error-id=%q data-issue-payload=%q hidden>`,
		fingerprint, encoded)
	sb.WriteString(`<div class="modal-backdrop" data-modal-dismiss="true"></div>`)
	sb.WriteString(`<div class="modal-content">`)
	if issue.RuleKind == EncodingErrorRule {
		sb.WriteString(`<div class="modal-error">Issue details unavailable: encoding error</div>`)
	} else {
		sb.WriteString(ConfidenceTooltip(issue))
		sb.WriteString(influencingFactors(issue))
	}
	sb.WriteString(`<button type="button" class="modal-close" data-modal-dismiss="true">Close</button>`)
	sb.WriteString(`</div></div>`)
	return sb.String()
}

// influencingFactors lists what moved the score, derived from whichever
// optional structures the analyzer provided.
func influencingFactors(issue *domain.Issue) string {
	var factors []string
	if calc := issue.Calculation; calc != nil {
		if calc.Method != "" {
			factors = append(factors, fmt.Sprintf("Scored via %s", calc.Method))
		}
		if calc.ConsolidationPenalty > 0 {
			factors = append(factors, fmt.Sprintf("Consolidation penalty of %.2f applied", calc.ConsolidationPenalty))
		}
	}
	if v := issue.Validation; v != nil && v.PassesCount > 0 {
		factors = append(factors, fmt.Sprintf("Confirmed across %d validation passes", v.PassesCount))
	}
	if n := len(issue.ConsolidatedFrom); n > 0 {
		factors = append(factors, fmt.Sprintf("Consolidated from %d related findings", n))
	}
	if len(factors) == 0 {
		factors = append(factors, "Single-pass detection")
	}

	var sb strings.Builder
	sb.WriteString(`<div class="influencing-factors"><h4>Influencing factors</h4><ul>`)
	for _, factor := range factors {
		fmt.Fprintf(&sb, `<li>%s</li>`, EscapeText(factor))
	}
	sb.WriteString(`</ul></div>`)
	return sb.String()
}

// FilterByConfidence returns the issues at or above the minimum score.
// The input list is never mutated.
func FilterByConfidence(issues []domain.Issue, minConfidence float64) []domain.Issue {
	filtered := make([]domain.Issue, 0, len(issues))
	for i := range issues {
		if issues[i].Confidence() >= minConfidence {
			filtered = append(filtered, issues[i])
		}
	}
	return filtered
}

// SortByConfidence returns a copy sorted by descending confidence.
func SortByConfidence(issues []domain.Issue) []domain.Issue {
	sorted := make([]domain.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence() > sorted[j].Confidence()
	})
	return sorted
}
