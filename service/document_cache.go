package service

import (
	"os"
	"sync"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

// cachedDocument holds one loaded analysis result keyed by source path.
type cachedDocument struct {
	result  *domain.AnalysisResult
	modTime time.Time
}

// DocumentCache stores loaded analysis documents so repeated requests for
// the same file skip re-reading and re-parsing. Entries are invalidated
// when the file's modification time changes.
type DocumentCache struct {
	mu      sync.RWMutex
	loader  domain.AnalysisLoader
	entries map[string]cachedDocument
}

// NewDocumentCache creates a cache over the given loader.
func NewDocumentCache(loader domain.AnalysisLoader) *DocumentCache {
	if loader == nil {
		loader = NewAnalysisLoader()
	}
	return &DocumentCache{
		loader:  loader,
		entries: make(map[string]cachedDocument),
	}
}

// Load returns the analysis result for path, reusing a cached copy when the
// file has not changed since it was read.
func (c *DocumentCache) Load(path string) (*domain.AnalysisResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.modTime.Equal(info.ModTime()) {
		return entry.result, nil
	}

	result, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cachedDocument{result: result, modTime: info.ModTime()}
	c.mu.Unlock()
	return result, nil
}

// Invalidate drops the cached entry for path, if any.
func (c *DocumentCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
