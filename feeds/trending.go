package feeds

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"civfeed/models"
	"civfeed/query"
)

const (
	// DefaultTrendingLimit is used when a request carries no usable limit.
	DefaultTrendingLimit = 10

	// MaxTrendingLimit caps the per-request trending size.
	MaxTrendingLimit = 50

	// DefaultTimeframe is assumed when no timeframe is given.
	DefaultTimeframe = "7d"
)

// EngagementWeights are the per-signal multipliers of the engagement
// score. Posts score likes, shares and comments; news score views. The
// two axes deliberately stay in their own units: the score ranks
// within-kind signals without claiming a view equals a like.
type EngagementWeights struct {
	Likes    int64
	Shares   int64
	Comments int64
	Views    int64
}

// TrendingConfig holds the named constants of the trending view so
// tests can substitute them.
type TrendingConfig struct {
	// PostShare and NewsShare split the requested limit between the two
	// sources via floor division.
	PostShare float64
	NewsShare float64

	// WindowDays maps a timeframe token to its lookback in days.
	// Unrecognized tokens fall back to DefaultWindowDays.
	WindowDays        map[string]int
	DefaultWindowDays int

	Weights EngagementWeights
}

// DefaultTrendingConfig returns the 60/40 post/news split with the
// 24h/7d/30d window mapping and unit engagement weights.
func DefaultTrendingConfig() TrendingConfig {
	return TrendingConfig{
		PostShare:         0.6,
		NewsShare:         0.4,
		WindowDays:        map[string]int{"24h": 1, "7d": 7},
		DefaultWindowDays: 30,
		Weights:           EngagementWeights{Likes: 1, Shares: 1, Comments: 1, Views: 1},
	}
}

// Ranker computes the trending view: a time-windowed read per source,
// an engagement score per item and a global re-sort on that score.
type Ranker struct {
	store Store
	cfg   TrendingConfig
	cache *Cache

	// now is swapped out in tests
	now func() time.Time
}

// NewRanker creates a ranker backed by store. cache may be nil to
// disable caching.
func NewRanker(store Store, cfg TrendingConfig, cache *Cache) *Ranker {
	return &Ranker{store: store, cfg: cfg, cache: cache, now: time.Now}
}

// Trending returns up to limit items ranked by engagement within the
// timeframe's lookback window. Responses are cached per
// (timeframe, limit) pair when a cache is configured.
func (r *Ranker) Trending(ctx context.Context, limit int, timeframe string) (*models.TrendingResponse, error) {
	if limit < 1 {
		limit = DefaultTrendingLimit
	}
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	cacheKey := fmt.Sprintf("%s:%d", timeframe, limit)
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			trendingCacheHits.Inc()
			return cached, nil
		}
		trendingCacheMisses.Inc()
	}

	days, ok := r.cfg.WindowDays[timeframe]
	if !ok {
		days = r.cfg.DefaultWindowDays
	}
	// Inclusive lower bound, open towards now.
	since := r.now().AddDate(0, 0, -days).Unix()

	postLimit := quota(limit, r.cfg.PostShare)
	newsLimit := quota(limit, r.cfg.NewsShare)

	var (
		posts []models.Post
		news  []models.NewsItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = r.store.ListPosts(gctx, SourceQuery{
			Since: since,
			Sort: []query.SortTerm{
				query.Descending("likes"),
				query.Descending("shares"),
				query.Descending(SortCreatedAt),
			},
			Limit: postLimit,
		})
		if err != nil {
			return fmt.Errorf("list trending posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		news, err = r.store.ListNews(gctx, SourceQuery{
			Since: since,
			Sort: []query.SortTerm{
				query.Descending("views"),
				query.Descending(SortCreatedAt),
			},
			Limit: newsLimit,
		})
		if err != nil {
			return fmt.Errorf("list trending news: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithFields(log.Fields{
			"limit":     limit,
			"timeframe": timeframe,
			"error":     err,
		}).Error("Trending computation failed")
		return nil, err
	}

	items := make([]models.TrendingItem, 0, len(posts)+len(news))
	for _, feedItem := range normalizePosts(posts) {
		items = append(items, models.TrendingItem{
			FeedItem:   feedItem,
			Engagement: r.scorePost(feedItem.Post),
		})
	}
	for _, feedItem := range normalizeNews(news) {
		items = append(items, models.TrendingItem{
			FeedItem:   feedItem,
			Engagement: r.scoreNews(feedItem.News),
		})
	}

	// Stable so ties keep their store-query order across calls.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Engagement > items[j].Engagement
	})
	if len(items) > limit {
		items = items[:limit]
	}

	trendingComputations.Inc()

	response := &models.TrendingResponse{
		Data:        items,
		Timeframe:   timeframe,
		GeneratedAt: r.now().UTC().Format(time.RFC3339),
	}
	if r.cache != nil {
		r.cache.Put(cacheKey, response)
	}
	return response, nil
}

func (r *Ranker) scorePost(post *models.Post) int64 {
	w := r.cfg.Weights
	return post.Likes*w.Likes + post.Shares*w.Shares + post.CommentsCount*w.Comments
}

func (r *Ranker) scoreNews(news *models.NewsItem) int64 {
	return news.Views * r.cfg.Weights.Views
}
