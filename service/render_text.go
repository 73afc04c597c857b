package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// registerBuiltins installs every built-in renderer. Called once from
// NewRegistry; later registrations overwrite these bindings.
func registerBuiltins(r *Registry) {
	r.Register(domain.BlockKindDocument, renderDocumentRoot)
	r.Register(domain.BlockKindParagraph, renderTextBlock)
	r.Register(domain.BlockKindQuote, renderQuote)
	r.Register(domain.BlockKindSidebar, renderTextBlock)
	r.Register(domain.BlockKindExample, renderTextBlock)
	r.Register(domain.BlockKindVerse, renderVerse)
	r.Register(domain.BlockKindAdmonition, renderAdmonition)
	r.Register(domain.BlockKindHeading, renderHeading)
	r.Register(domain.BlockKindListing, renderCodeBlock)
	r.Register(domain.BlockKindLiteral, renderCodeBlock)
	r.Register(domain.BlockKindOrderedList, renderList)
	r.Register(domain.BlockKindUnorderedList, renderList)
	r.Register(domain.BlockKindDescriptionList, renderDescriptionList)
	r.Register(domain.BlockKindListTitle, renderTextBlock)
	r.Register(domain.BlockKindImage, renderMedia)
	r.Register(domain.BlockKindAudio, renderMedia)
	r.Register(domain.BlockKindVideo, renderMedia)
	r.Register(domain.BlockKindTable, renderTable)
	r.Register(domain.BlockKindSection, renderSection)
	r.Register(domain.BlockKindAttributePlaceholder, renderAttributePlaceholder)
	r.Register(domain.BlockKindAttributeEntry, renderAttributeEntry)
	r.Register(domain.BlockKindComment, renderComment)
}

// renderTextBlock covers paragraph, sidebar and example blocks: escaped
// content in a plain card.
func renderTextBlock(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, ""))
	sb.WriteString(blockHeader(block))
	if block.Title != "" {
		fmt.Fprintf(&sb, `<div class="block-title">%s</div>`, EscapeText(block.Title))
	}
	fmt.Fprintf(&sb, `<div class="block-body"><p>%s</p></div>`, EscapeText(block.Content))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderQuote(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-quote"))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body"><blockquote>%s</blockquote>`, EscapeText(block.Content))
	if block.Attribution != "" {
		fmt.Fprintf(&sb, "<cite class=\"quote-attribution\">— %s</cite>", EscapeText(block.Attribution))
	}
	sb.WriteString(`</div>`)
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderVerse(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-verse"))
	sb.WriteString(blockHeader(block))
	// Verse preserves line breaks.
	lines := strings.Split(block.Content, "\n")
	sb.WriteString(`<div class="block-body"><div class="verse">`)
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(EscapeText(line))
	}
	sb.WriteString(`</div></div>`)
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderAdmonition(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	color := AdmonitionColor(block.AdmonitionKind)
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-admonition admonition-"+color))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body admonition-body" data-admonition=%q><p>%s</p></div>`,
		EscapeAttr(string(block.AdmonitionKind)), EscapeText(block.Content))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderHeading(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	title := block.Title
	if title == "" {
		title = block.Content
	}
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-heading"))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body"><span class="heading-text" data-level="%d">%s</span></div>`,
		block.Level, EscapeText(title))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

// renderAttributePlaceholder is rendered once after the first heading and
// represents the analyzer's decision to skip document attributes. It
// produces no issue UI.
func renderAttributePlaceholder(block *domain.Block, displayIndex int, _ *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-attributes"))
	sb.WriteString(blockHeader(block))
	sb.WriteString(`<div class="block-body"><span class="analysis-skipped">Document attributes are not analyzed</span></div>`)
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderAttributeEntry(block *domain.Block, displayIndex int, _ *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-attributes"))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body"><code>%s</code></div>`, EscapeText(block.Content))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

// renderComment shows the comment muted; comments are never analyzed.
func renderComment(block *domain.Block, displayIndex int, _ *RenderContext) (string, error) {
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-comment"))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body block-muted"><p>%s</p></div>`, EscapeText(block.Content))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}
