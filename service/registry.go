package service

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/redraft-ai/redraft/domain"
)

// Renderer turns one block into an HTML fragment. A renderer must not
// invoke sibling renderers directly; recursion goes through the tree
// renderer on the context. Returning an error (or panicking) degrades the
// block to the fallback card without aborting the walk.
type Renderer func(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error)

// RenderContext carries per-document collaborators into renderers.
type RenderContext struct {
	Registry  *Registry
	Tree      *TreeRenderer
	Filters   map[domain.Severity]bool
	Feedback  *FeedbackService
	SessionID string

	// Siblings and SiblingIndex enable the table renderer's forward peek
	// at flattened table_cell blocks. No other renderer reads them.
	Siblings     []domain.Block
	SiblingIndex int
}

// FilterActive reports whether a severity is visible under the context's
// active set. A nil set means everything is visible.
func (ctx *RenderContext) FilterActive(severity domain.Severity) bool {
	if ctx == nil || ctx.Filters == nil {
		return true
	}
	return ctx.Filters[severity]
}

// RegistryStats counts dispatches per kind plus fallback invocations.
type RegistryStats struct {
	RenderedByKind map[domain.BlockKind]int `json:"rendered_by_kind"`
	FallbackCount  int                      `json:"fallback_count"`
}

// Registry maps block kinds to renderers. One registry serves one
// document; mutation is confined to the bootstrap phase.
type Registry struct {
	mu        sync.Mutex
	renderers map[domain.BlockKind]Renderer
	stats     RegistryStats
}

// NewRegistry creates a registry with every built-in renderer installed.
func NewRegistry() *Registry {
	r := &Registry{
		renderers: make(map[domain.BlockKind]Renderer),
		stats: RegistryStats{
			RenderedByKind: make(map[domain.BlockKind]int),
		},
	}
	registerBuiltins(r)
	return r
}

// Register binds a renderer to a kind, overwriting any previous binding.
func (r *Registry) Register(kind domain.BlockKind, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[kind]; exists {
		log.Printf("registry: replacing renderer for kind %q", kind)
	}
	r.renderers[kind] = renderer
}

// Render dispatches a block to its renderer. Unknown kinds and failing
// renderers degrade to the fallback card; the walk never aborts.
func (r *Registry) Render(block *domain.Block, displayIndex int, ctx *RenderContext) string {
	if block == nil {
		return ""
	}

	r.mu.Lock()
	renderer, ok := r.renderers[block.Kind]
	r.mu.Unlock()

	if !ok {
		return r.renderFallback(block, displayIndex, ctx, "")
	}

	html, err := r.safeRender(renderer, block, displayIndex, ctx)
	if err != nil {
		log.Printf("registry: renderer for %q failed: %v", block.Kind, err)
		return r.renderFallback(block, displayIndex, ctx, err.Error())
	}

	r.mu.Lock()
	r.stats.RenderedByKind[block.Kind]++
	r.mu.Unlock()
	return html
}

// safeRender invokes a renderer and converts panics into errors so a
// misbehaving renderer degrades instead of killing the walk.
func (r *Registry) safeRender(renderer Renderer, block *domain.Block, displayIndex int, ctx *RenderContext) (html string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = domain.NewRenderError(block.Kind, fmt.Errorf("panic: %v", rec))
		}
	}()
	return renderer(block, displayIndex, ctx)
}

// renderFallback emits the minimal card for unknown kinds and renderer
// failures. errorBanner, when non-empty, adds a visible failure notice.
func (r *Registry) renderFallback(block *domain.Block, displayIndex int, ctx *RenderContext, errorBanner string) string {
	r.mu.Lock()
	r.stats.FallbackCount++
	r.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="block-card block-fallback" id="block-%d" data-block-type=%q>`,
		displayIndex, EscapeAttr(string(block.Kind)))
	fmt.Fprintf(&sb, `<div class="block-header"><span class="block-label">%s</span>`,
		EscapeText(BlockTypeLabel(block)))
	sb.WriteString(`<span class="badge badge-unknown">Unknown Block</span></div>`)
	if errorBanner != "" {
		fmt.Fprintf(&sb, `<div class="error-banner">Rendering failed: %s</div>`, EscapeText(errorBanner))
	}
	if block.Content != "" {
		fmt.Fprintf(&sb, `<div class="block-body"><p>%s</p></div>`, EscapeText(block.Content))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// Stats returns a copy of the dispatch counters.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := RegistryStats{
		RenderedByKind: make(map[domain.BlockKind]int, len(r.stats.RenderedByKind)),
		FallbackCount:  r.stats.FallbackCount,
	}
	for k, v := range r.stats.RenderedByKind {
		copied.RenderedByKind[k] = v
	}
	return copied
}

// RegisteredKinds lists the kinds with a bound renderer, sorted for
// deterministic output in diagnostics and tests.
func (r *Registry) RegisteredKinds() []domain.BlockKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.BlockKind, 0, len(r.renderers))
	for k := range r.renderers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
