package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// renderDocumentRoot is a transparent container: the document block itself
// draws no card, its children render inline. Document-level issues, when
// the analyzer attaches any, surface ahead of the children.
func renderDocumentRoot(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	var sb strings.Builder
	if block.OwnIssueCount() > 0 {
		sb.WriteString(`<div class="document-issues">`)
		sb.WriteString(issueCardsFor(block.Errors, ctx))
		sb.WriteString(`</div>`)
	}
	if ctx != nil && ctx.Tree != nil && len(block.Children) > 0 {
		children, _ := ctx.Tree.RenderBlocks(block.Children, ctx)
		sb.WriteString(children)
	}
	return sb.String(), nil
}

// mediaNouns labels the media kinds inside the card body.
var mediaNouns = map[domain.BlockKind]string{
	domain.BlockKindImage: "Image",
	domain.BlockKindAudio: "Audio",
	domain.BlockKindVideo: "Video",
}

// renderMedia renders image, audio and video references. Media targets are
// never fetched; the card shows the reference path and any caption.
func renderMedia(block *domain.Block, displayIndex int, ctx *RenderContext) (string, error) {
	noun := mediaNouns[block.Kind]
	if noun == "" {
		noun = "Media"
	}

	var sb strings.Builder
	sb.WriteString(blockCardOpen(block, displayIndex, "block-media"))
	sb.WriteString(blockHeader(block))
	if block.Title != "" {
		fmt.Fprintf(&sb, `<div class="block-title">%s</div>`, EscapeText(block.Title))
	}
	fmt.Fprintf(&sb, `<div class="block-body"><span class="media-ref">%s: %s</span></div>`,
		noun, EscapeText(block.Content))
	sb.WriteString(issueFooter(block, ctx))
	sb.WriteString(`</div>`)
	return sb.String(), nil
}
