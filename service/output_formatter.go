package service

import (
	"io"
	"strings"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

// OutputFormatterImpl implements review output formatting
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format formats the review response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.ReviewResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response)
	case domain.OutputFormatJSON:
		return f.formatJSON(response)
	case domain.OutputFormatYAML:
		return f.formatYAML(response)
	case domain.OutputFormatHTML:
		return response.HTML, nil
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted output to the writer
func (f *OutputFormatterImpl) Write(response *domain.ReviewResponse, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.Format(response, format)
	if err != nil {
		return err
	}

	_, err = writer.Write([]byte(output))
	if err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	return nil
}

// formatText formats the response as human-readable text
func (f *OutputFormatterImpl) formatText(response *domain.ReviewResponse) (string, error) {
	var builder strings.Builder
	utils := NewFormatUtils()

	builder.WriteString(utils.FormatMainHeader("Writing Review Report"))

	stats := map[string]interface{}{
		"Total Blocks":   response.Summary.TotalBlocks,
		"Rendered Cards": response.Summary.RenderedCards,
		"Total Issues":   response.Summary.TotalIssues,
	}
	if response.Summary.SkippedBlocks > 0 {
		stats["Skipped Blocks"] = response.Summary.SkippedBlocks
	}
	if response.Summary.FallbackBlocks > 0 {
		stats["Fallback Blocks"] = response.Summary.FallbackBlocks
	}
	builder.WriteString(utils.FormatSummaryStats(stats))

	builder.WriteString(utils.FormatSeverityDistribution(response.Summary.BySeverity))

	if parsedTime, err := time.Parse(time.RFC3339, response.GeneratedAt); err == nil {
		builder.WriteString(utils.FormatSectionHeader("METADATA"))
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Generated at", parsedTime.Format("2006-01-02T15:04:05-07:00")))
		if response.ContentType != "" {
			builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Content type", response.ContentType))
		}
	}

	return builder.String(), nil
}

// formatJSON formats the response as JSON
func (f *OutputFormatterImpl) formatJSON(response *domain.ReviewResponse) (string, error) {
	return EncodeJSON(f.createJSONResponse(response))
}

// formatYAML formats the response as YAML
func (f *OutputFormatterImpl) formatYAML(response *domain.ReviewResponse) (string, error) {
	// Same structure works for YAML
	return EncodeYAML(f.createJSONResponse(response))
}

// createJSONResponse creates a JSON/YAML-friendly response structure.
// Rendered HTML stays out of the structured formats.
func (f *OutputFormatterImpl) createJSONResponse(response *domain.ReviewResponse) map[string]interface{} {
	bySeverity := map[string]int{}
	for severity, count := range response.Summary.BySeverity {
		bySeverity[string(severity)] = count
	}

	summary := map[string]interface{}{
		"total_blocks":    response.Summary.TotalBlocks,
		"rendered_cards":  response.Summary.RenderedCards,
		"skipped_blocks":  response.Summary.SkippedBlocks,
		"total_issues":    response.Summary.TotalIssues,
		"fallback_blocks": response.Summary.FallbackBlocks,
		"by_severity":     bySeverity,
	}

	metadata := map[string]interface{}{
		"generated_at": response.GeneratedAt,
		"version":      response.Version,
	}
	if response.ContentType != "" {
		metadata["content_type"] = response.ContentType
	}

	return map[string]interface{}{
		"summary":  summary,
		"metadata": metadata,
	}
}
