// Package search maintains a full-text index over notes. Indexing is best
// effort: a note that fails to index still exists in its collection, it
// just will not show up in search results until reindexed.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/nikoapp/niko-server/internal/domain"
)

// NoteIndex wraps a Bleve index over note titles, content, and tags.
//
// All public methods are safe for concurrent use.
type NoteIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// noteDoc is the indexed shape of a note.
type noteDoc struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Hit is a single search match.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Open creates or opens the note index under dataPath. A corrupted index
// is dropped and recreated rather than failing startup.
func Open(dataPath string, logger *slog.Logger) (*NoteIndex, error) {
	indexPath := filepath.Join(dataPath, "notes.bleve")

	index, err := bleve.Open(indexPath)
	if err != nil {
		if err != bleve.ErrorIndexPathDoesNotExist {
			logger.Warn("failed to open note index, recreating", "path", indexPath, "error", err)
			if removeErr := os.RemoveAll(indexPath); removeErr != nil {
				return nil, fmt.Errorf("remove corrupt index: %w", removeErr)
			}
		}
		index, err = bleve.New(indexPath, buildNoteMapping())
		if err != nil {
			return nil, fmt.Errorf("create note index: %w", err)
		}
		logger.Info("created note search index", "path", indexPath)
	}

	return &NoteIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index and releases resources.
func (n *NoteIndex) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index.Close()
}

// Index adds or replaces a note in the index.
func (n *NoteIndex) Index(note domain.Note) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.index.Index(note.ID, noteDoc{
		Title:   note.Title,
		Content: note.Content,
		Tags:    note.Tags,
	})
}

// IndexAll replaces the index contents in one batch.
func (n *NoteIndex) IndexAll(notes []domain.Note) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	batch := n.index.NewBatch()
	for _, note := range notes {
		if err := batch.Index(note.ID, noteDoc{
			Title:   note.Title,
			Content: note.Content,
			Tags:    note.Tags,
		}); err != nil {
			return fmt.Errorf("batch index %s: %w", note.ID, err)
		}
	}
	return n.index.Batch(batch)
}

// Delete removes a note from the index.
func (n *NoteIndex) Delete(id string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.index.Delete(id)
}

// Search returns matching note IDs ranked by relevance. An empty query
// returns no hits.
func (n *NoteIndex) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	// Match across all fields, with a prefix query so partially typed
	// words still hit.
	match := bleve.NewMatchQuery(q)
	prefix := bleve.NewPrefixQuery(strings.ToLower(q))
	boolQuery := bleve.NewBooleanQuery()
	boolQuery.AddShould(match, prefix)
	boolQuery.SetMinShould(1)

	req := bleve.NewSearchRequestOptions(boolQuery, limit, 0, false)
	res, err := n.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Count returns the number of indexed notes.
func (n *NoteIndex) Count() (uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.index.DocCount()
}

// buildNoteMapping indexes title and content with English stemming and
// keeps tags as exact keywords.
func buildNoteMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	docMapping.AddFieldMappingsAt("title", titleField)

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = en.AnalyzerName
	contentField.Store = false
	docMapping.AddFieldMappingsAt("content", contentField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	tagsField.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
