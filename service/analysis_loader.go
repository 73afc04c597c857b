package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/redraft-ai/redraft/domain"
)

// AnalysisLoaderImpl implements the AnalysisLoader interface over analysis
// JSON files on disk.
type AnalysisLoaderImpl struct{}

// NewAnalysisLoader creates a new analysis loader service
func NewAnalysisLoader() *AnalysisLoaderImpl {
	return &AnalysisLoaderImpl{}
}

// Load parses one analyzer output document. Unknown fields are ignored;
// a document that is not JSON at all is a parse error.
func (l *AnalysisLoaderImpl) Load(path string) (*domain.AnalysisResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, domain.NewParseError(path, err)
	}
	return &result, nil
}

// CollectFiles expands the given paths into the set of analysis files to
// render. Directories are walked (recursively when asked), and include /
// exclude glob patterns apply to every candidate.
func (l *AnalysisLoaderImpl) CollectFiles(paths []string, recursive bool, include, exclude []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if info.IsDir() {
			dirFiles, err := l.collectFromDirectory(path, recursive, include, exclude)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
			continue
		}
		if l.isAnalysisFile(path) && l.shouldInclude(path, include, exclude) {
			files = append(files, path)
		}
	}
	return files, nil
}

func (l *AnalysisLoaderImpl) collectFromDirectory(dir string, recursive bool, include, exclude []string) ([]string, error) {
	var files []string
	walk := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if l.isAnalysisFile(path) && l.shouldInclude(path, include, exclude) {
			files = append(files, path)
		}
		return nil
	}
	if err := filepath.Walk(dir, walk); err != nil {
		return nil, domain.NewInvalidInputError("failed to scan directory: "+dir, err)
	}
	return files, nil
}

func (l *AnalysisLoaderImpl) isAnalysisFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func (l *AnalysisLoaderImpl) shouldInclude(path string, include, exclude []string) bool {
	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, filepath.ToSlash(path)); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, filepath.ToSlash(path)); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}
