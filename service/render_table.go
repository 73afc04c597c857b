package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// renderTable renders a true tabular structure from the block's children.
// Cells pass through the safe-inline-tag escaper; all other content paths
// use the strict escape.
//
// Cross-block peek: when the upstream parser flattens a table, its cells
// arrive as sibling table_cell blocks instead of children. This renderer
// is the only place allowed to look forward at siblings for that case.
func renderTable(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	rows := tableRows(block, ctx)
	if len(rows) == 0 && strings.Contains(block.Content, "|===") {
		rows = parseDelimitedTable(block.Content)
	}

	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-table"))
	sb.WriteString(blockHeader(block))
	if block.Title != "" {
		fmt.Fprintf(&sb, `<div class="block-title">%s</div>`, EscapeText(block.Title))
	}

	sb.WriteString(`<div class="block-body"><table class="review-table">`)
	if len(rows) > 1 {
		sb.WriteString(`<thead><tr>`)
		for _, cell := range rows[0] {
			fmt.Fprintf(&sb, `<th>%s</th>`, EscapeCellText(cell))
		}
		sb.WriteString(`</tr></thead><tbody>`)
		rows = rows[1:]
	} else {
		sb.WriteString(`<tbody>`)
	}
	for _, row := range rows {
		sb.WriteString(`<tr>`)
		for _, cell := range row {
			fmt.Fprintf(&sb, `<td>%s</td>`, EscapeCellText(cell))
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody></table></div>`)

	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

// tableRows extracts rows from the table's children, falling back to the
// sibling peek when the parser flattened the cells.
func tableRows(block *domain.Block, ctx *RenderContext) [][]string {
	var rows [][]string
	for i := range block.Children {
		child := &block.Children[i]
		switch child.Kind {
		case domain.BlockKindTableRow:
			var row []string
			for j := range child.Children {
				if child.Children[j].Kind == domain.BlockKindTableCell {
					row = append(row, child.Children[j].Content)
				}
			}
			rows = append(rows, row)
		case domain.BlockKindTableCell:
			// Cells attached directly: treat the run as a single row.
			if len(rows) == 0 {
				rows = append(rows, nil)
			}
			rows[len(rows)-1] = append(rows[len(rows)-1], child.Content)
		}
	}
	if len(rows) > 0 {
		return rows
	}
	return flattenedSiblingCells(ctx)
}

// flattenedSiblingCells collects the run of table_cell blocks immediately
// following the table in the sibling sequence.
func flattenedSiblingCells(ctx *RenderContext) [][]string {
	if ctx == nil || ctx.Siblings == nil {
		return nil
	}
	var row []string
	for i := ctx.SiblingIndex + 1; i < len(ctx.Siblings); i++ {
		if ctx.Siblings[i].Kind != domain.BlockKindTableCell {
			break
		}
		row = append(row, ctx.Siblings[i].Content)
	}
	if len(row) == 0 {
		return nil
	}
	return [][]string{row}
}

// parseDelimitedTable extracts rows from |===-delimited raw content, the
// AsciiDoc table convention. This is the single format-aware dependency
// in the renderer set.
func parseDelimitedTable(content string) [][]string {
	var rows [][]string
	inTable := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|===") {
			if inTable {
				break
			}
			inTable = true
			continue
		}
		if !inTable || trimmed == "" || !strings.HasPrefix(trimmed, "|") {
			continue
		}
		cells := strings.Split(trimmed, "|")[1:]
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			row = append(row, strings.TrimSpace(cell))
		}
		rows = append(rows, row)
	}
	return rows
}
