package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// renderCodeBlock covers listing and literal blocks. Content renders
// verbatim inside a preformatted element; these blocks usually carry
// should_skip_analysis so the footer shows the skipped state.
func renderCodeBlock(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-code"))
	sb.WriteString(blockHeader(block))
	if block.Language != "" {
		fmt.Fprintf(&sb, `<span class="language-tag">%s</span>`, EscapeText(block.Language))
	}
	fmt.Fprintf(&sb, `<div class="block-body"><pre><code>%s</code></pre></div>`, EscapeText(block.Content))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}
