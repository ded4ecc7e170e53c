package catalog

import "strings"

// MaxResultsPerCall is the largest page the volumes API will return.
const MaxResultsPerCall = 40

// OrderBy values understood by the volumes API.
const (
	OrderRelevance = "relevance"
	OrderNewest    = "newest"
)

// Item is one catalog volume, flattened for display and filtering.
// Optional numeric fields are pointers so that "missing" differs from zero.
type Item struct {
	ID            string
	Title         string
	Subtitle      string
	Authors       []string
	Publisher     string
	Description   string
	Categories    []string
	PageCount     *int
	PublishedDate string
	AverageRating *float64
	RatingsCount  int
	ThumbnailURL  string
	InfoURL       string
}

// Same reports whether two items refer to the same volume.
func (i Item) Same(other Item) bool {
	return i.ID == other.ID
}

// Request is one page of a catalog search.
type Request struct {
	Query      string
	MaxResults int
	StartIndex int
	Language   string // two-letter code, "" for no restriction
	OrderBy    string // "", OrderRelevance or OrderNewest
}

// Response is one page of results. TotalItems is whatever the remote reports
// and may be inconsistent across pages.
type Response struct {
	TotalItems int
	Items      []Item
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	ETag       string     `json:"etag"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	Description   string     `json:"description"`
	Categories    []string   `json:"categories"`
	PageCount     *int       `json:"pageCount"`
	PublishedDate string     `json:"publishedDate"`
	PreviewLink   string     `json:"previewLink"`
	InfoLink      string     `json:"infoLink"`
	AverageRating *float64   `json:"averageRating"`
	RatingsCount  int        `json:"ratingsCount"`
	ImageLinks    imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

func (v volume) toItem() Item {
	info := v.VolumeInfo
	thumb := info.ImageLinks.Thumbnail
	if thumb == "" {
		thumb = info.ImageLinks.SmallThumbnail
	}
	link := info.InfoLink
	if link == "" {
		link = info.PreviewLink
	}
	return Item{
		ID:            v.ID,
		Title:         strings.TrimSpace(info.Title),
		Subtitle:      strings.TrimSpace(info.Subtitle),
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		Description:   info.Description,
		Categories:    info.Categories,
		PageCount:     info.PageCount,
		PublishedDate: info.PublishedDate,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		ThumbnailURL:  thumb,
		InfoURL:       link,
	}
}
