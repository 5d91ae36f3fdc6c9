package db

import (
	"database/sql"
	"fmt"
	"time"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Seed fills the database with development data: a handful of curated
// categories and a spread of posts, news and reels with staggered
// timestamps so feed and trending pages have something to show.
func Seed(database string) error {
	db, err := connection(database)
	if err != nil {
		return err
	}
	defer db.Close()

	return seed(db)
}

func seed(db *sql.DB) error {
	now := time.Now()

	postCategories := [][]interface{}{
		{"Local Politics", "Council meetings, elections and local decisions", "#c0392b", "landmark"},
		{"Community", "Neighbourhood initiatives and events", "#27ae60", "users"},
		{"Environment", "Parks, recycling and green projects", "#2ecc71", "leaf"},
	}
	for _, row := range postCategories {
		if err := insert(db, "post_categories",
			[]string{"name", "description", "color", "icon"}, row); err != nil {
			return fmt.Errorf("seed post categories: %w", err)
		}
	}

	reelCategories := [][]interface{}{
		{"Town Hall", "Clips from public meetings", "#8e44ad", "video"},
		{"Street Life", "Short takes from around town", "#f39c12", "camera"},
	}
	for _, row := range reelCategories {
		if err := insert(db, "reel_categories",
			[]string{"name", "description", "color", "icon"}, row); err != nil {
			return fmt.Errorf("seed reel categories: %w", err)
		}
	}

	for i := 0; i < 30; i++ {
		createdAt := now.Add(-time.Duration(i) * 2 * time.Hour).Unix()
		if err := insert(db, "posts",
			[]string{"author", "content", "category_id", "tags", "likes", "shares", "comments_count", "is_public", "created_at", "updated_at"},
			[]interface{}{
				fmt.Sprintf("resident-%d", i%7),
				fmt.Sprintf("Discussion post %d about something happening in town", i),
				int64(i%3 + 1),
				`["civic","local"]`,
				int64((i * 13) % 97),
				int64((i * 5) % 31),
				int64((i * 3) % 17),
				1,
				createdAt,
				createdAt,
			}); err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}

	newsCategories := []string{"Transport", "Housing", "Culture"}
	for i := 0; i < 15; i++ {
		createdAt := now.Add(-time.Duration(i) * 5 * time.Hour).Unix()
		if err := insert(db, "news",
			[]string{"title", "description", "content", "category", "author", "tags", "views", "is_published", "published_at", "created_at"},
			[]interface{}{
				fmt.Sprintf("News item %d", i),
				"A short summary of the article",
				"Full article body",
				newsCategories[i%len(newsCategories)],
				"newsroom",
				`["news"]`,
				int64((i * 41) % 500),
				1,
				createdAt,
				createdAt,
			}); err != nil {
			return fmt.Errorf("seed news: %w", err)
		}
	}

	for i := 0; i < 8; i++ {
		createdAt := now.Add(-time.Duration(i) * 9 * time.Hour).Unix()
		if err := insert(db, "reels",
			[]string{"title", "video_url", "duration_secs", "author", "category_id", "tags", "views", "likes", "shares", "is_public", "created_at"},
			[]interface{}{
				fmt.Sprintf("Reel %d", i),
				fmt.Sprintf("https://cdn.example.org/reels/%d.mp4", i),
				int64(15 + i*5),
				fmt.Sprintf("creator-%d", i%3),
				int64(i%2 + 1),
				`["shorts"]`,
				int64((i * 77) % 400),
				int64((i * 11) % 60),
				int64((i * 7) % 20),
				1,
				createdAt,
			}); err != nil {
			return fmt.Errorf("seed reels: %w", err)
		}
	}

	log.Info("Seeded development data")
	return nil
}

func insert(db *sql.DB, table string, columns []string, values []interface{}) error {
	ib := sb.NewInsertBuilder()
	ib.InsertInto(table).Cols(columns...).Values(values...)
	sqlStr, args := ib.BuildWithFlavor(sb.SQLite)
	_, err := db.Exec(sqlStr, args...)
	return err
}
