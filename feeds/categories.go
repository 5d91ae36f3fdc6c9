package feeds

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"civfeed/models"
)

// Aggregator exposes the union of categories usable as feed filters:
// the curated post and reel category records with live counts, plus the
// distinct free-text category strings present on published news.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Categories returns all three category sets, each alphabetical by
// name. The reads run concurrently.
func (a *Aggregator) Categories(ctx context.Context) (*models.CategoriesResponse, error) {
	var (
		postCategories []models.PostCategory
		newsCategories []string
		reelCategories []models.ReelCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		postCategories, err = a.store.PostCategories(gctx)
		if err != nil {
			return fmt.Errorf("post categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		newsCategories, err = a.store.NewsCategories(gctx)
		if err != nil {
			return fmt.Errorf("news categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reelCategories, err = a.store.ReelCategories(gctx)
		if err != nil {
			return fmt.Errorf("reel categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(postCategories, func(i, j int) bool {
		return postCategories[i].Name < postCategories[j].Name
	})
	sort.Slice(reelCategories, func(i, j int) bool {
		return reelCategories[i].Name < reelCategories[j].Name
	})
	newsCategories = lo.Uniq(newsCategories)
	sort.Strings(newsCategories)

	if postCategories == nil {
		postCategories = []models.PostCategory{}
	}
	if newsCategories == nil {
		newsCategories = []string{}
	}
	if reelCategories == nil {
		reelCategories = []models.ReelCategory{}
	}

	return &models.CategoriesResponse{
		PostCategories: postCategories,
		NewsCategories: newsCategories,
		ReelCategories: reelCategories,
	}, nil
}
