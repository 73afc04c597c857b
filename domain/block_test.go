package domain

import (
	"encoding/json"
	"testing"
)

func TestContainerOwnedKinds(t *testing.T) {
	owned := []BlockKind{
		BlockKindListItem,
		BlockKindDescriptionListItem,
		BlockKindTableRow,
		BlockKindTableCell,
	}
	for _, k := range owned {
		if !k.IsContainerOwned() {
			t.Errorf("%s should be container-owned", k)
		}
	}

	standalone := []BlockKind{
		BlockKindParagraph,
		BlockKindSection,
		BlockKindTable,
		BlockKindOrderedList,
	}
	for _, k := range standalone {
		if k.IsContainerOwned() {
			t.Errorf("%s should not be container-owned", k)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	if BlockKind("hologram").IsKnown() {
		t.Error("unexpected kind should not be known")
	}
	if !BlockKindParagraph.IsKnown() {
		t.Error("paragraph should be known")
	}
}

func TestIssueCountsRespectSkipFlag(t *testing.T) {
	block := Block{
		Kind:               BlockKindListing,
		ShouldSkipAnalysis: true,
		Errors:             []Issue{{RuleKind: "spelling"}},
	}
	if block.OwnIssueCount() != 0 {
		t.Error("skipped block must report zero issues")
	}
}

func TestTotalIssueCountRecurses(t *testing.T) {
	tree := Block{
		Kind:   BlockKindSection,
		Errors: []Issue{{RuleKind: "tone"}},
		Children: []Block{
			{Kind: BlockKindParagraph, Errors: []Issue{{RuleKind: "passive_voice"}, {RuleKind: "spelling"}}},
			{Kind: BlockKindSection, Children: []Block{
				{Kind: BlockKindParagraph, Errors: []Issue{{RuleKind: "terminology"}}},
			}},
		},
	}
	if got := tree.TotalIssueCount(); got != 4 {
		t.Errorf("TotalIssueCount = %d, want 4", got)
	}
}

func TestAnalysisResultDecodingIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"success": true,
		"errors": [{"rule_kind": "tone", "message": "too casual", "confidence_score": 0.4, "extra": 1}],
		"structural_blocks": [{"kind": "paragraph", "content": "Hello", "mystery": {}}],
		"processing_time": 1.25,
		"content_type": "asciidoc",
		"unknown_top_level": []
	}`
	var result AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !result.Success || len(result.Errors) != 1 || len(result.StructuralBlocks) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.TotalIssueCount() != 0 {
		// The tree has no attached issues; the flat list only applies when
		// no tree was produced.
		t.Errorf("expected 0 tree issues, got %d", result.TotalIssueCount())
	}
}

func TestAnalysisResultFlatFallbackCount(t *testing.T) {
	result := AnalysisResult{Errors: []Issue{{RuleKind: "a"}, {RuleKind: "b"}}}
	if got := result.TotalIssueCount(); got != 2 {
		t.Errorf("expected flat count 2, got %d", got)
	}
}
