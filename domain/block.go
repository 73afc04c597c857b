package domain

// BlockKind identifies the structural kind of a document block
type BlockKind string

const (
	BlockKindDocument             BlockKind = "document"
	BlockKindSection              BlockKind = "section"
	BlockKindHeading              BlockKind = "heading"
	BlockKindParagraph            BlockKind = "paragraph"
	BlockKindAdmonition           BlockKind = "admonition"
	BlockKindListing              BlockKind = "listing"
	BlockKindLiteral              BlockKind = "literal"
	BlockKindQuote                BlockKind = "quote"
	BlockKindSidebar              BlockKind = "sidebar"
	BlockKindExample              BlockKind = "example"
	BlockKindVerse                BlockKind = "verse"
	BlockKindAttributeEntry       BlockKind = "attribute_entry"
	BlockKindAttributePlaceholder BlockKind = "attribute_placeholder"
	BlockKindComment              BlockKind = "comment"
	BlockKindImage                BlockKind = "image"
	BlockKindAudio                BlockKind = "audio"
	BlockKindVideo                BlockKind = "video"
	BlockKindOrderedList          BlockKind = "ordered_list"
	BlockKindUnorderedList        BlockKind = "unordered_list"
	BlockKindDescriptionList      BlockKind = "description_list"
	BlockKindListItem             BlockKind = "list_item"
	BlockKindDescriptionListItem  BlockKind = "description_list_item"
	BlockKindListTitle            BlockKind = "list_title"
	BlockKindTable                BlockKind = "table"
	BlockKindTableRow             BlockKind = "table_row"
	BlockKindTableCell            BlockKind = "table_cell"
)

// AdmonitionKind enumerates the recognized admonition labels
type AdmonitionKind string

const (
	AdmonitionNote      AdmonitionKind = "NOTE"
	AdmonitionTip       AdmonitionKind = "TIP"
	AdmonitionImportant AdmonitionKind = "IMPORTANT"
	AdmonitionWarning   AdmonitionKind = "WARNING"
	AdmonitionCaution   AdmonitionKind = "CAUTION"
)

// Block is one structural unit of the analyzed document. Blocks are owned by
// the analysis result and are read-only to the rendering core.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Content string    `json:"content,omitempty"`

	// Kind-specific fields
	Title          string         `json:"title,omitempty"`
	Level          int            `json:"level,omitempty"`
	AdmonitionKind AdmonitionKind `json:"admonition_kind,omitempty"`
	Language       string         `json:"language,omitempty"`
	Attribution    string         `json:"attribution,omitempty"`
	Term           string         `json:"term,omitempty"`
	Description    string         `json:"description,omitempty"`
	Marker         string         `json:"marker,omitempty"`

	// ShouldSkipAnalysis suppresses issue rendering; code and attribute
	// blocks set it upstream.
	ShouldSkipAnalysis bool `json:"should_skip_analysis,omitempty"`

	Children []Block `json:"children,omitempty"`
	Errors   []Issue `json:"errors,omitempty"`
}

// ContainerOwnedKinds lists the kinds that only appear as children of their
// container; stand-alone traversal never emits cards for them.
var ContainerOwnedKinds = map[BlockKind]bool{
	BlockKindListItem:            true,
	BlockKindDescriptionListItem: true,
	BlockKindTableRow:            true,
	BlockKindTableCell:           true,
}

// IsContainerOwned reports whether the kind is consumed by its parent's
// renderer rather than dispatched directly.
func (k BlockKind) IsContainerOwned() bool {
	return ContainerOwnedKinds[k]
}

// IsKnown reports whether the kind belongs to the closed set understood by
// the built-in renderers.
func (k BlockKind) IsKnown() bool {
	switch k {
	case BlockKindDocument, BlockKindSection, BlockKindHeading, BlockKindParagraph,
		BlockKindAdmonition, BlockKindListing, BlockKindLiteral, BlockKindQuote,
		BlockKindSidebar, BlockKindExample, BlockKindVerse, BlockKindAttributeEntry,
		BlockKindAttributePlaceholder, BlockKindComment, BlockKindImage,
		BlockKindAudio, BlockKindVideo, BlockKindOrderedList, BlockKindUnorderedList,
		BlockKindDescriptionList, BlockKindListItem, BlockKindDescriptionListItem,
		BlockKindListTitle, BlockKindTable, BlockKindTableRow, BlockKindTableCell:
		return true
	}
	return false
}

// OwnIssueCount returns the number of issues attached at this block's level.
// Blocks flagged should_skip_analysis report zero regardless of payload.
func (b *Block) OwnIssueCount() int {
	if b.ShouldSkipAnalysis {
		return 0
	}
	return len(b.Errors)
}

// TotalIssueCount returns the issue count for this block plus all of its
// descendants. Sections use this for their aggregate status label.
func (b *Block) TotalIssueCount() int {
	total := b.OwnIssueCount()
	for i := range b.Children {
		total += b.Children[i].TotalIssueCount()
	}
	return total
}

// AnalysisResult is the JSON document produced by the upstream analyzer.
// Unknown fields are ignored during decoding; unknown block kinds fall back
// to the generic renderer.
type AnalysisResult struct {
	Success          bool                   `json:"success"`
	Errors           []Issue                `json:"errors"`
	StructuralBlocks []Block                `json:"structural_blocks"`
	ProcessingTime   float64                `json:"processing_time"`
	ContentType      string                 `json:"content_type"`
	Statistics       map[string]interface{} `json:"statistics,omitempty"`
}

// TotalIssueCount sums issues over the whole block tree plus any issues
// reported only in the flat list when no tree was produced.
func (r *AnalysisResult) TotalIssueCount() int {
	if len(r.StructuralBlocks) == 0 {
		return len(r.Errors)
	}
	total := 0
	for i := range r.StructuralBlocks {
		total += r.StructuralBlocks[i].TotalIssueCount()
	}
	return total
}
