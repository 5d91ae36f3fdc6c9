package feeds

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"civfeed/models"
	"civfeed/query"
)

const (
	// DefaultPageSize is used when a request carries no usable limit.
	DefaultPageSize = 20

	// MaxPageSize caps the per-request page size.
	MaxPageSize = 100

	// SortCreatedAt is the default per-source sort field.
	SortCreatedAt = "createdAt"
)

// MixConfig holds the fixed per-source share of a page. Quotas are
// computed as floor(pageSize * share); fractional remainders are
// dropped, so a composed page can come in under the requested size.
type MixConfig struct {
	Posts float64
	News  float64
	Reels float64
}

// DefaultMix returns the 60/30/10 posts/news/reels split.
func DefaultMix() MixConfig {
	return MixConfig{Posts: 0.6, News: 0.3, Reels: 0.1}
}

// FeedRequest carries the already-coerced query parameters for one
// feed composition.
type FeedRequest struct {
	Page      int
	PageSize  int
	Category  string
	SortField string
	Ascending bool
}

// Composer builds the unified feed: three independent source reads,
// normalization to the common item shape, a global re-sort and a
// pagination envelope.
type Composer struct {
	store Store
	mix   MixConfig
}

func NewComposer(store Store, mix MixConfig) *Composer {
	return &Composer{store: store, mix: mix}
}

// Compose builds one page of the unified feed. The three source reads
// run concurrently; if any of them fails the whole request fails, since
// silently dropping a source would corrupt the proportional mix.
func (c *Composer) Compose(ctx context.Context, req FeedRequest) (*models.FeedResponse, error) {
	start := time.Now()

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.SortField == "" {
		req.SortField = SortCreatedAt
	}

	postQuota := quota(req.PageSize, c.mix.Posts)
	newsQuota := quota(req.PageSize, c.mix.News)
	reelQuota := quota(req.PageSize, c.mix.Reels)

	sortTerms := []query.SortTerm{{Field: req.SortField, Desc: !req.Ascending}}

	var (
		posts []models.Post
		news  []models.NewsItem
		reels []models.Reel
	)

	// Each source is paged independently by its own quota. No read
	// depends on another's result, so the slowest source bounds latency.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = c.store.ListPosts(gctx, SourceQuery{
			Category: req.Category,
			Sort:     sortTerms,
			Offset:   (req.Page - 1) * postQuota,
			Limit:    postQuota,
		})
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		news, err = c.store.ListNews(gctx, SourceQuery{
			Category: req.Category,
			Sort:     sortTerms,
			Offset:   (req.Page - 1) * newsQuota,
			Limit:    newsQuota,
		})
		if err != nil {
			return fmt.Errorf("list news: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reels, err = c.store.ListReels(gctx, SourceQuery{
			Category: req.Category,
			Sort:     sortTerms,
			Offset:   (req.Page - 1) * reelQuota,
			Limit:    reelQuota,
		})
		if err != nil {
			return fmt.Errorf("list reels: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithFields(log.Fields{
			"page":     req.Page,
			"pageSize": req.PageSize,
			"category": req.Category,
			"error":    err,
		}).Error("Feed composition failed")
		return nil, err
	}

	items := normalizePosts(posts)
	items = append(items, normalizeNews(news)...)
	items = append(items, normalizeReels(reels)...)

	// Global re-sort across kinds. Each source was independently
	// limited, so interleaving is only correct after this pass.
	sort.SliceStable(items, func(i, j int) bool {
		if req.Ascending {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].CreatedAt > items[j].CreatedAt
	})

	counts := lo.CountValuesBy(items, func(item models.FeedItem) models.Kind {
		return item.Kind
	})

	feedCompositions.Inc()
	feedCompositionDuration.Observe(time.Since(start).Seconds())

	return &models.FeedResponse{
		Data: items,
		Pagination: models.Pagination{
			Page:  req.Page,
			Limit: req.PageSize,
			// Total counts this call's items, not a global total.
			Total:       len(items),
			HasNextPage: len(items) == req.PageSize,
			HasPrevPage: req.Page > 1,
		},
		Stats: models.SourceStats{
			PostsCount: counts[models.KindPost],
			NewsCount:  counts[models.KindNews],
			ReelsCount: counts[models.KindReel],
		},
	}, nil
}

// quota computes the per-source fetch size as floor(pageSize * share).
func quota(pageSize int, share float64) int {
	return int(float64(pageSize) * share)
}
