package feeds

import (
	"context"
	"sort"
	"strings"
	"sync"

	"civfeed/models"
	"civfeed/query"
)

// fakeStore implements Store in memory with the same filter, sort and
// window semantics the SQLite store provides, and records every query
// it receives so tests can assert on the read pattern.
type fakeStore struct {
	mu sync.Mutex

	posts []models.Post
	news  []models.NewsItem
	reels []models.Reel

	postCategories []models.PostCategory
	reelCategories []models.ReelCategory
	newsCategories []string

	postsErr error
	newsErr  error
	reelsErr error

	postQueries []SourceQuery
	newsQueries []SourceQuery
	reelQueries []SourceQuery
}

var postSortFields = map[string]func(models.Post) int64{
	"createdAt":     func(p models.Post) int64 { return p.CreatedAt },
	"updatedAt":     func(p models.Post) int64 { return p.UpdatedAt },
	"likes":         func(p models.Post) int64 { return p.Likes },
	"shares":        func(p models.Post) int64 { return p.Shares },
	"commentsCount": func(p models.Post) int64 { return p.CommentsCount },
}

var newsSortFields = map[string]func(models.NewsItem) int64{
	"createdAt":   func(n models.NewsItem) int64 { return n.CreatedAt },
	"publishedAt": func(n models.NewsItem) int64 { return n.PublishedAt },
	"views":       func(n models.NewsItem) int64 { return n.Views },
}

var reelSortFields = map[string]func(models.Reel) int64{
	"createdAt": func(r models.Reel) int64 { return r.CreatedAt },
	"views":     func(r models.Reel) int64 { return r.Views },
	"likes":     func(r models.Reel) int64 { return r.Likes },
	"shares":    func(r models.Reel) int64 { return r.Shares },
}

func (s *fakeStore) ListPosts(ctx context.Context, q SourceQuery) ([]models.Post, error) {
	s.mu.Lock()
	s.postQueries = append(s.postQueries, q)
	s.mu.Unlock()
	if s.postsErr != nil {
		return nil, s.postsErr
	}
	if q.Limit <= 0 {
		return []models.Post{}, nil
	}

	filtered := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if !post.IsPublic {
			continue
		}
		if q.Category != "" && !strings.EqualFold(post.Category, q.Category) {
			continue
		}
		if q.Since > 0 && post.CreatedAt < q.Since {
			continue
		}
		filtered = append(filtered, post)
	}
	if err := sortBy(filtered, q.Sort, postSortFields); err != nil {
		return nil, err
	}
	return page(filtered, q.Offset, q.Limit), nil
}

func (s *fakeStore) ListNews(ctx context.Context, q SourceQuery) ([]models.NewsItem, error) {
	s.mu.Lock()
	s.newsQueries = append(s.newsQueries, q)
	s.mu.Unlock()
	if s.newsErr != nil {
		return nil, s.newsErr
	}
	if q.Limit <= 0 {
		return []models.NewsItem{}, nil
	}

	filtered := make([]models.NewsItem, 0, len(s.news))
	for _, item := range s.news {
		if !item.IsPublished {
			continue
		}
		if q.Category != "" && (item.Category == nil || !strings.EqualFold(*item.Category, q.Category)) {
			continue
		}
		if q.Since > 0 && item.CreatedAt < q.Since {
			continue
		}
		filtered = append(filtered, item)
	}
	if err := sortBy(filtered, q.Sort, newsSortFields); err != nil {
		return nil, err
	}
	return page(filtered, q.Offset, q.Limit), nil
}

func (s *fakeStore) ListReels(ctx context.Context, q SourceQuery) ([]models.Reel, error) {
	s.mu.Lock()
	s.reelQueries = append(s.reelQueries, q)
	s.mu.Unlock()
	if s.reelsErr != nil {
		return nil, s.reelsErr
	}
	if q.Limit <= 0 {
		return []models.Reel{}, nil
	}

	filtered := make([]models.Reel, 0, len(s.reels))
	for _, reel := range s.reels {
		if !reel.IsPublic {
			continue
		}
		if q.Category != "" && !strings.EqualFold(reel.Category, q.Category) {
			continue
		}
		if q.Since > 0 && reel.CreatedAt < q.Since {
			continue
		}
		filtered = append(filtered, reel)
	}
	if err := sortBy(filtered, q.Sort, reelSortFields); err != nil {
		return nil, err
	}
	return page(filtered, q.Offset, q.Limit), nil
}

func (s *fakeStore) PostCategories(ctx context.Context) ([]models.PostCategory, error) {
	return s.postCategories, nil
}

func (s *fakeStore) ReelCategories(ctx context.Context) ([]models.ReelCategory, error) {
	return s.reelCategories, nil
}

func (s *fakeStore) NewsCategories(ctx context.Context) ([]string, error) {
	return s.newsCategories, nil
}

func (s *fakeStore) GetNews(ctx context.Context, id int64) (*models.NewsItem, error) {
	for i := range s.news {
		if s.news[i].Id == id && s.news[i].IsPublished {
			item := s.news[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) IncrementNewsViews(ctx context.Context, id int64) error {
	for i := range s.news {
		if s.news[i].Id == id {
			s.news[i].Views++
			return nil
		}
	}
	return ErrNotFound
}

func sortBy[T any](items []T, terms []query.SortTerm, fields map[string]func(T) int64) error {
	for _, term := range terms {
		if _, ok := fields[term.Field]; !ok {
			return ErrInvalidSortField
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, term := range terms {
			field := fields[term.Field]
			a, b := field(items[i]), field(items[j])
			if a == b {
				continue
			}
			if term.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
