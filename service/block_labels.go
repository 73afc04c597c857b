package service

import (
	"fmt"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// blockLabels holds the canonical display name per block kind. Headings
// and admonitions are specialized in BlockTypeLabel.
var blockLabels = map[domain.BlockKind]string{
	domain.BlockKindDocument:             "Document",
	domain.BlockKindSection:              "Section",
	domain.BlockKindHeading:              "Heading",
	domain.BlockKindParagraph:            "Paragraph",
	domain.BlockKindAdmonition:           "Admonition",
	domain.BlockKindListing:              "Code Listing",
	domain.BlockKindLiteral:              "Literal Block",
	domain.BlockKindQuote:                "Quote",
	domain.BlockKindSidebar:              "Sidebar",
	domain.BlockKindExample:              "Example",
	domain.BlockKindVerse:                "Verse",
	domain.BlockKindAttributeEntry:       "Attribute Entry",
	domain.BlockKindAttributePlaceholder: "Document Attributes",
	domain.BlockKindComment:              "Comment",
	domain.BlockKindImage:                "Image",
	domain.BlockKindAudio:                "Audio",
	domain.BlockKindVideo:                "Video",
	domain.BlockKindOrderedList:          "Ordered List",
	domain.BlockKindUnorderedList:        "Unordered List",
	domain.BlockKindDescriptionList:      "Description List",
	domain.BlockKindListItem:             "List Item",
	domain.BlockKindDescriptionListItem:  "Description List Item",
	domain.BlockKindListTitle:            "List Title",
	domain.BlockKindTable:                "Table",
	domain.BlockKindTableRow:             "Table Row",
	domain.BlockKindTableCell:            "Table Cell",
}

// blockIcons gives each kind a small glyph for the card header.
var blockIcons = map[domain.BlockKind]string{
	domain.BlockKindSection:              "§",
	domain.BlockKindHeading:              "H",
	domain.BlockKindParagraph:            "¶",
	domain.BlockKindAdmonition:           "!",
	domain.BlockKindListing:              "{}",
	domain.BlockKindLiteral:              "{}",
	domain.BlockKindQuote:                "“”",
	domain.BlockKindSidebar:              "[]",
	domain.BlockKindExample:              "Ex",
	domain.BlockKindVerse:                "~",
	domain.BlockKindAttributePlaceholder: ":",
	domain.BlockKindComment:              "//",
	domain.BlockKindOrderedList:          "1.",
	domain.BlockKindUnorderedList:        "•",
	domain.BlockKindDescriptionList:      "::",
	domain.BlockKindTable:                "#",
}

// BlockTypeLabel resolves the human-readable label for a block. Headings
// include their level, admonitions their upper-cased kind; unknown kinds
// come back upper-cased with underscores replaced by spaces.
func BlockTypeLabel(block *domain.Block) string {
	if block == nil {
		return ""
	}
	switch block.Kind {
	case domain.BlockKindHeading, domain.BlockKindSection:
		label := blockLabels[block.Kind]
		if block.Level > 0 {
			return fmt.Sprintf("%s (Level %d)", label, block.Level)
		}
		return label
	case domain.BlockKindAdmonition:
		if block.AdmonitionKind != "" {
			return fmt.Sprintf("Admonition (%s)", strings.ToUpper(string(block.AdmonitionKind)))
		}
		return blockLabels[block.Kind]
	}
	if label, ok := blockLabels[block.Kind]; ok {
		return label
	}
	return strings.ToUpper(strings.ReplaceAll(string(block.Kind), "_", " "))
}

// BlockTypeIcon returns the header glyph for a kind, empty when none is
// defined.
func BlockTypeIcon(kind domain.BlockKind) string {
	return blockIcons[kind]
}

// admonitionColors maps each admonition kind to its color token. The kind
// itself is never renamed; only the accent changes.
var admonitionColors = map[domain.AdmonitionKind]string{
	domain.AdmonitionNote:      "blue",
	domain.AdmonitionTip:       "green",
	domain.AdmonitionWarning:   "orange",
	domain.AdmonitionImportant: "gold",
	domain.AdmonitionCaution:   "red",
}

// AdmonitionColor resolves the accent token for an admonition kind,
// defaulting to blue for unrecognized kinds.
func AdmonitionColor(kind domain.AdmonitionKind) string {
	normalized := domain.AdmonitionKind(strings.ToUpper(string(kind)))
	if color, ok := admonitionColors[normalized]; ok {
		return color
	}
	return "blue"
}
