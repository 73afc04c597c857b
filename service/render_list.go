package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// renderList covers ordered and unordered lists. A displayIndex of -1
// signals a nested list: only the list body renders, without card chrome.
func renderList(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	if displayIndex < 0 {
		return renderListBody(block, ctx), nil
	}
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-list"))
	sb.WriteString(blockHeader(block))
	if block.Title != "" {
		fmt.Fprintf(&sb, `<div class="block-title">%s</div>`, EscapeText(block.Title))
	}
	fmt.Fprintf(&sb, `<div class="block-body">%s</div>`, renderListBody(block, ctx))
	// List-level issues, e.g. parallelism, attach in the list footer.
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

// renderListBody renders the items of a list. Nested lists recurse here
// directly, indenting one level and keeping their own numbering style.
func renderListBody(block *domain.Block, ctx *RenderContext) string {
	tag := "ul"
	if block.Kind == domain.BlockKindOrderedList {
		tag = "ol"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<%s class="review-list">`, tag)
	for i := 0; i < len(block.Children); i++ {
		child := &block.Children[i]
		switch child.Kind {
		case domain.BlockKindListItem:
			sb.WriteString(`<li class="review-list-item">`)
			sb.WriteString(EscapeText(child.Content))
			for j := range child.Children {
				nested := &child.Children[j]
				if nested.Kind == domain.BlockKindOrderedList || nested.Kind == domain.BlockKindUnorderedList {
					fmt.Fprintf(&sb, `<div class="nested-list">%s</div>`, renderListBody(nested, ctx))
				}
			}
			// Nested lists arriving as siblings of their item fold into it;
			// anything else between list items is not valid list content.
			for i+1 < len(block.Children) {
				next := &block.Children[i+1]
				if next.Kind != domain.BlockKindOrderedList && next.Kind != domain.BlockKindUnorderedList {
					break
				}
				fmt.Fprintf(&sb, `<div class="nested-list">%s</div>`, renderListBody(next, ctx))
				i++
			}
			// Per-item issues attach beneath the item text.
			if cards := issueCardsFor(child.Errors, ctx); cards != "" {
				fmt.Fprintf(&sb, `<div class="item-issues">%s</div>`, cards)
			}
			sb.WriteString(`</li>`)
		case domain.BlockKindListTitle:
			fmt.Fprintf(&sb, `<li class="list-title">%s</li>`, EscapeText(child.Content))
		case domain.BlockKindOrderedList, domain.BlockKindUnorderedList:
			// A nested list with no item to attach to gets its own.
			fmt.Fprintf(&sb, `<li class="review-list-item"><div class="nested-list">%s</div></li>`, renderListBody(child, ctx))
		}
	}
	fmt.Fprintf(&sb, `</%s>`, tag)
	return sb.String()
}

// renderDescriptionList renders term/description pairs. Issues flagged
// with structural_context.is_dlist_term attach to the term, the rest to
// the description; list-level issues stay on the list footer.
func renderDescriptionList(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	if displayIndex < 0 {
		return renderDescriptionListBody(block, ctx), nil
	}
	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-dlist"))
	sb.WriteString(blockHeader(block))
	fmt.Fprintf(&sb, `<div class="block-body">%s</div>`, renderDescriptionListBody(block, ctx))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}

func renderDescriptionListBody(block *domain.Block, ctx *RenderContext) string {
	var sb strings.Builder
	sb.WriteString(`<dl class="review-dlist">`)
	for i := range block.Children {
		item := &block.Children[i]
		if item.Kind != domain.BlockKindDescriptionListItem {
			continue
		}
		termIssues, descIssues := splitDlistIssues(item.Errors)
		fmt.Fprintf(&sb, `<dt>%s`, EscapeText(item.Term))
		if cards := issueCardsFor(termIssues, ctx); cards != "" {
			fmt.Fprintf(&sb, `<div class="item-issues">%s</div>`, cards)
		}
		sb.WriteString(`</dt>`)
		fmt.Fprintf(&sb, `<dd>%s`, EscapeText(item.Description))
		if cards := issueCardsFor(descIssues, ctx); cards != "" {
			fmt.Fprintf(&sb, `<div class="item-issues">%s</div>`, cards)
		}
		sb.WriteString(`</dd>`)
	}
	sb.WriteString(`</dl>`)
	return sb.String()
}

// splitDlistIssues routes an item's issues to the term or description
// half based on the structural context flag.
func splitDlistIssues(issues []domain.Issue) (term, description []domain.Issue) {
	for i := range issues {
		if sc := issues[i].StructuralContext; sc != nil && sc.IsDlistTerm {
			term = append(term, issues[i])
		} else {
			description = append(description, issues[i])
		}
	}
	return term, description
}
