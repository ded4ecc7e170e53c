package shelf

import (
	"strings"
	"time"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/discovery"
)

// Book is a shelf entry. Title and Author together identify it.
type Book struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	VolumeID      string    `json:"volume_id,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PublishedDate string    `json:"published_date,omitempty"`
	PageCount     int       `json:"page_count,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	Description   string    `json:"description,omitempty"`
	InfoURL       string    `json:"info_url,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// Key is the bbolt key of the book.
func (b Book) Key() string {
	return bookKey(b.Title, b.Author)
}

func bookKey(title, author string) string {
	return title + "\x1f" + author
}

// FromItem converts a catalog result into a shelf entry. The author string is
// built the same way the explorer asks about ownership.
func FromItem(it catalog.Item) Book {
	b := Book{
		Title:         it.Title,
		Author:        discovery.JoinAuthors(it.Authors),
		VolumeID:      it.ID,
		Publisher:     it.Publisher,
		PublishedDate: it.PublishedDate,
		Categories:    it.Categories,
		Description:   it.Description,
		InfoURL:       it.InfoURL,
	}
	if it.PageCount != nil {
		b.PageCount = *it.PageCount
	}
	return b
}

// Normalize trims surrounding whitespace and fills an empty author.
func (b Book) Normalize() Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	if b.Author == "" {
		b.Author = discovery.UnknownAuthor
	}
	return b
}
