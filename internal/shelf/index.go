package shelf

import (
	"errors"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
)

// Index is a bleve full-text index over shelf books, keyed by Book.Key.
type Index struct {
	idx bleve.Index
}

// OpenIndex opens the index at path, creating it when missing.
func OpenIndex(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
	}
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

// NewMemIndex builds an index that lives only in memory.
func NewMemIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name
	author.Store = true

	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("publisher", text)
	dm.AddFieldMappingsAt("categories", text)
	dm.AddFieldMappingsAt("description", text)

	im.DefaultMapping = dm
	return im
}

func document(b Book) map[string]any {
	return map[string]any{
		"title":       b.Title,
		"author":      b.Author,
		"publisher":   b.Publisher,
		"categories":  strings.Join(b.Categories, " "),
		"description": b.Description,
	}
}

// Add indexes or replaces one book.
func (i *Index) Add(b Book) error {
	return i.idx.Index(b.Key(), document(b))
}

// Delete removes the document with key.
func (i *Index) Delete(key string) error {
	return i.idx.Delete(key)
}

// Reindex indexes books in one batch.
func (i *Index) Reindex(books []Book) error {
	batch := i.idx.NewBatch()
	for _, b := range books {
		if err := batch.Index(b.Key(), document(b)); err != nil {
			return err
		}
	}
	return i.idx.Batch(batch)
}

// Search returns book keys best match first. Queries shorter than two
// characters return nothing.
func (i *Index) Search(query string, limit int) ([]string, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"title", 4.0},
		{"author", 3.0},
		{"categories", 1.5},
		{"publisher", 1.0},
		{"description", 0.8},
	}

	var qs []bleveQuery.Query
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		for _, f := range fields {
			m := bleve.NewMatchQuery(tok)
			m.SetField(f.name)
			m.SetBoost(f.boost)
			qs = append(qs, m)

			p := bleve.NewPrefixQuery(tok)
			p.SetField(f.name)
			p.SetBoost(f.boost * 0.8)
			qs = append(qs, p)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		keys = append(keys, h.ID)
	}
	return keys, nil
}

// DocCount reports the number of indexed books.
func (i *Index) DocCount() (uint64, error) {
	return i.idx.DocCount()
}

func (i *Index) Close() error {
	return i.idx.Close()
}
