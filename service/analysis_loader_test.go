package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redraft-ai/redraft/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalysisLoaderLoad(t *testing.T) {
	loader := NewAnalysisLoader()

	t.Run("parses a document", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "analysis.json", `{
			"errors": [],
			"content_type": "asciidoc",
			"structural_blocks": [
				{"kind": "paragraph", "content": "Hello.", "errors": [
					{"rule_kind": "tone", "message": "too informal", "confidence": 0.6}
				]}
			]
		}`)

		result, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "asciidoc", result.ContentType)
		require.Len(t, result.StructuralBlocks, 1)
		assert.Equal(t, domain.BlockKindParagraph, result.StructuralBlocks[0].Kind)
		require.Len(t, result.StructuralBlocks[0].Errors, 1)
		assert.InDelta(t, 0.6, result.StructuralBlocks[0].Errors[0].Confidence(), 1e-9)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "analysis.json",
			`{"structural_blocks": [], "analyzer_build": "v9", "future_field": {"x": 1}}`)
		_, err := loader.Load(path)
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		var derr domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeFileNotFound, derr.Code)
	})

	t.Run("malformed document", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "broken.json", "{not json")
		_, err := loader.Load(path)
		require.Error(t, err)
		var derr domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeParseError, derr.Code)
	})
}

func TestAnalysisLoaderCollectFiles(t *testing.T) {
	loader := NewAnalysisLoader()

	setup := func(t *testing.T) string {
		dir := t.TempDir()
		writeFile(t, dir, "report.json", "{}")
		writeFile(t, dir, "notes.txt", "not analysis")
		writeFile(t, dir, "nested/deep.json", "{}")
		return dir
	}

	t.Run("explicit file", func(t *testing.T) {
		dir := setup(t)
		files, err := loader.CollectFiles([]string{filepath.Join(dir, "report.json")}, false, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("non-json files are skipped", func(t *testing.T) {
		dir := setup(t)
		files, err := loader.CollectFiles([]string{filepath.Join(dir, "notes.txt")}, false, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("directory without recursion", func(t *testing.T) {
		dir := setup(t)
		files, err := loader.CollectFiles([]string{dir}, false, nil, nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "report.json", filepath.Base(files[0]))
	})

	t.Run("directory with recursion", func(t *testing.T) {
		dir := setup(t)
		files, err := loader.CollectFiles([]string{dir}, true, nil, nil)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("include and exclude patterns", func(t *testing.T) {
		dir := setup(t)
		files, err := loader.CollectFiles([]string{dir}, true, []string{"*.json"}, []string{"deep*"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "report.json", filepath.Base(files[0]))
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := loader.CollectFiles([]string{filepath.Join(t.TempDir(), "ghost")}, false, nil, nil)
		require.Error(t, err)
		var derr domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ErrCodeFileNotFound, derr.Code)
	})
}
