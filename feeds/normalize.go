package feeds

import (
	log "github.com/sirupsen/logrus"

	"civfeed/models"
)

// Normalization maps each source entity onto the common FeedItem shape.
// A single malformed row is skipped and logged rather than aborting the
// whole batch. A row without a usable createdAt cannot participate in
// global ordering, which is what makes it malformed here.

func normalizePosts(posts []models.Post) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(posts))
	for i := range posts {
		post := posts[i]
		if post.CreatedAt <= 0 {
			log.WithFields(log.Fields{
				"kind": models.KindPost,
				"id":   post.Id,
			}).Warn("Skipping record without createdAt")
			continue
		}
		items = append(items, models.FeedItem{
			Kind:      models.KindPost,
			CreatedAt: post.CreatedAt,
			Post:      &post,
		})
	}
	return items
}

func normalizeNews(news []models.NewsItem) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(news))
	for i := range news {
		item := news[i]
		if item.CreatedAt <= 0 {
			log.WithFields(log.Fields{
				"kind": models.KindNews,
				"id":   item.Id,
			}).Warn("Skipping record without createdAt")
			continue
		}
		items = append(items, models.FeedItem{
			Kind:      models.KindNews,
			CreatedAt: item.CreatedAt,
			News:      &item,
		})
	}
	return items
}

func normalizeReels(reels []models.Reel) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(reels))
	for i := range reels {
		reel := reels[i]
		if reel.CreatedAt <= 0 {
			log.WithFields(log.Fields{
				"kind": models.KindReel,
				"id":   reel.Id,
			}).Warn("Skipping record without createdAt")
			continue
		}
		items = append(items, models.FeedItem{
			Kind:      models.KindReel,
			CreatedAt: reel.CreatedAt,
			Reel:      &reel,
		})
	}
	return items
}
