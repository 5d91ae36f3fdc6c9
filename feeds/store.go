package feeds

import (
	"context"
	"errors"

	"civfeed/models"
	"civfeed/query"
)

var (
	// ErrNotFound is returned by single-item lookups with no eligible row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidSortField is returned when a sort field is not in a
	// source's allowlist. Stores never silently fall back to a default
	// sort; the failure propagates to the caller.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// SourceQuery is the language-neutral read request the engines issue
// against the record store: filter, sort, skip, take.
type SourceQuery struct {
	// Category filters on the source's own category representation,
	// matched case-insensitively. Empty means no category filter.
	Category string

	// Since restricts to rows with created_at >= Since (unix seconds).
	// Zero means no lower bound.
	Since int64

	// Sort terms applied at the store, in order.
	Sort []query.SortTerm

	Offset int
	Limit  int
}

// Store is the record store collaborator the feed engines read from.
// Implementations must only return eligible rows (public posts and
// reels, published news).
type Store interface {
	ListPosts(ctx context.Context, q SourceQuery) ([]models.Post, error)
	ListNews(ctx context.Context, q SourceQuery) ([]models.NewsItem, error)
	ListReels(ctx context.Context, q SourceQuery) ([]models.Reel, error)

	PostCategories(ctx context.Context) ([]models.PostCategory, error)
	ReelCategories(ctx context.Context) ([]models.ReelCategory, error)
	NewsCategories(ctx context.Context) ([]string, error)

	GetNews(ctx context.Context, id int64) (*models.NewsItem, error)
	IncrementNewsViews(ctx context.Context, id int64) error
}
