package search

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"

	"whistleline/pkg/errors"
)

// Engine maintains an in-memory full-text index over published alerts.
// It is rebuilt from the database at startup and kept in sync by the
// moderation handlers on publish/unpublish.
type Engine struct {
	idx bleve.Index
}

type document struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type Hit struct {
	ID    uint    `json:"id"`
	Score float64 `json:"score"`
}

func NewMemEngine() (*Engine, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, err, "create search index")
	}
	return &Engine{idx: idx}, nil
}

func (e *Engine) Index(id uint, title, description, category string) error {
	return e.idx.Index(strconv.FormatUint(uint64(id), 10), document{
		Title:       title,
		Description: description,
		Category:    category,
	})
}

func (e *Engine) Remove(id uint) error {
	return e.idx.Delete(strconv.FormatUint(uint64(id), 10))
}

// Search matches the query against title, description and category and
// returns ids ordered by relevance.
func (e *Engine) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := e.idx.Search(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, err, "search")
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{ID: uint(id), Score: h.Score})
	}
	return hits, nil
}

func (e *Engine) Close() error { return e.idx.Close() }
