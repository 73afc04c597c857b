package service

import (
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// TreeRenderer walks a block tree into a deterministic sequence of cards,
// allocating display indices as it goes. Renderers never call each other
// directly; all recursion is mediated here.
type TreeRenderer struct {
	registry *Registry
}

// NewTreeRenderer creates a traversal over the given registry.
func NewTreeRenderer(registry *Registry) *TreeRenderer {
	return &TreeRenderer{registry: registry}
}

// RenderBlocks renders a sibling sequence with a fresh local index counter
// starting at 0. Container-owned kinds never produce cards, and the index
// advances only when a renderer returned non-empty output. Returns the
// concatenated fragment and the number of cards emitted.
func (t *TreeRenderer) RenderBlocks(blocks []domain.Block, ctx *RenderContext) (string, int) {
	var sb strings.Builder
	index := 0
	for i := range blocks {
		block := &blocks[i]
		if block.Kind.IsContainerOwned() {
			continue
		}

		// Each block sees its sibling run so the table renderer can peek
		// forward at flattened cells.
		blockCtx := *ctx
		blockCtx.Siblings = blocks
		blockCtx.SiblingIndex = i

		html := t.registry.Render(block, index, &blockCtx)
		if html == "" {
			continue
		}
		sb.WriteString(html)
		index++
	}
	return sb.String(), index
}

// RenderDocument renders the full tree of an analysis result.
func (t *TreeRenderer) RenderDocument(result *domain.AnalysisResult, ctx *RenderContext) (string, int) {
	if result == nil || len(result.StructuralBlocks) == 0 {
		return "", 0
	}
	return t.RenderBlocks(result.StructuralBlocks, ctx)
}
