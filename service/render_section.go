package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// renderSection renders the section title, then traverses its children
// inline through the tree renderer with a fresh local index counter. The
// header's issue total aggregates this block plus all descendants.
func renderSection(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-section"))
	sb.WriteString(blockHeader(block))
	if block.Title != "" {
		fmt.Fprintf(&sb, `<div class="section-title" data-level="%d">%s</div>`,
			block.Level, EscapeText(block.Title))
	}

	if ctx != nil && ctx.Tree != nil && len(block.Children) > 0 {
		children, _ := ctx.Tree.RenderBlocks(block.Children, ctx)
		fmt.Fprintf(&sb, `<div class="section-children">%s</div>`, children)
	}

	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}
