package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"civfeed/feeds"
	"civfeed/models"
	"civfeed/query"
)

// Per-source sort allowlists, API field name to column.
var (
	postSortColumns = map[string]string{
		"createdAt":     "posts.created_at",
		"updatedAt":     "posts.updated_at",
		"likes":         "posts.likes",
		"shares":        "posts.shares",
		"commentsCount": "posts.comments_count",
	}
	newsSortColumns = map[string]string{
		"createdAt":   "news.created_at",
		"publishedAt": "news.published_at",
		"views":       "news.views",
		"title":       "news.title",
	}
	reelSortColumns = map[string]string{
		"createdAt": "reels.created_at",
		"views":     "reels.views",
		"likes":     "reels.likes",
		"shares":    "reels.shares",
		"title":     "reels.title",
	}
)

// Store reads feed source records from SQLite. It implements
// feeds.Store.
type Store struct {
	db *sql.DB
}

var _ feeds.Store = (*Store)(nil)

// NewStore opens the database and verifies the connection.
func NewStore(database string) (*Store, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := ping(db); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// orderBy resolves sort terms against the source's allowlist.
func orderBy(sb *sqlbuilder.SelectBuilder, terms []query.SortTerm, columns map[string]string, fallback string) error {
	if len(terms) == 0 {
		sb.OrderBy(fallback + " DESC")
		return nil
	}
	clauses := make([]string, 0, len(terms))
	for _, term := range terms {
		column, ok := columns[term.Field]
		if !ok {
			return fmt.Errorf("%w: %q", feeds.ErrInvalidSortField, term.Field)
		}
		direction := "ASC"
		if term.Desc {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	sb.OrderBy(clauses...)
	return nil
}

func (s *Store) ListPosts(ctx context.Context, q feeds.SourceQuery) ([]models.Post, error) {
	if q.Limit <= 0 {
		return []models.Post{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(
		"posts.id", "posts.author", "posts.content", "posts.image",
		"COALESCE(posts.category_id, 0)", "COALESCE(post_categories.name, '')",
		"posts.tags", "posts.likes", "posts.shares", "posts.comments_count",
		"posts.pinned", "posts.is_public", "posts.created_at", "posts.updated_at",
	)
	sb.From("posts")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "post_categories", "post_categories.id = posts.category_id")

	applyFilters(sb,
		&EligibleFilter{Column: "posts.is_public"},
		&CategoryFilter{Column: "post_categories.name", Value: q.Category},
		&SinceFilter{Column: "posts.created_at", Since: q.Since},
	)
	if err := orderBy(sb, q.Sort, postSortColumns, "posts.created_at"); err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		sb.Offset(q.Offset)
	}
	sb.Limit(q.Limit)

	sqlStr, args := sb.BuildWithFlavor(sqlbuilder.SQLite)
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		var tags string
		if err := rows.Scan(
			&post.Id, &post.Author, &post.Content, &post.Image,
			&post.CategoryId, &post.Category,
			&tags, &post.Likes, &post.Shares, &post.CommentsCount,
			&post.Pinned, &post.IsPublic, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		post.Tags = decodeTags(tags)
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *Store) ListNews(ctx context.Context, q feeds.SourceQuery) ([]models.NewsItem, error) {
	if q.Limit <= 0 {
		return []models.NewsItem{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(
		"news.id", "news.title", "news.description", "news.content",
		"news.image", "news.source_url", "news.category", "news.author",
		"news.tags", "news.views", "news.featured", "news.is_published",
		"news.published_at", "news.created_at",
	)
	sb.From("news")

	applyFilters(sb,
		&EligibleFilter{Column: "news.is_published"},
		&CategoryFilter{Column: "news.category", Value: q.Category},
		&SinceFilter{Column: "news.created_at", Since: q.Since},
	)
	if err := orderBy(sb, q.Sort, newsSortColumns, "news.created_at"); err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		sb.Offset(q.Offset)
	}
	sb.Limit(q.Limit)

	sqlStr, args := sb.BuildWithFlavor(sqlbuilder.SQLite)
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	news := []models.NewsItem{}
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		news = append(news, *item)
	}
	return news, rows.Err()
}

func (s *Store) ListReels(ctx context.Context, q feeds.SourceQuery) ([]models.Reel, error) {
	if q.Limit <= 0 {
		return []models.Reel{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(
		"reels.id", "reels.title", "reels.description", "reels.video_url",
		"reels.thumbnail", "reels.duration_secs", "reels.author",
		"COALESCE(reels.category_id, 0)", "COALESCE(reel_categories.name, '')",
		"reels.tags", "reels.views", "reels.likes", "reels.shares",
		"reels.is_public", "reels.created_at",
	)
	sb.From("reels")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "reel_categories", "reel_categories.id = reels.category_id")

	applyFilters(sb,
		&EligibleFilter{Column: "reels.is_public"},
		&CategoryFilter{Column: "reel_categories.name", Value: q.Category},
		&SinceFilter{Column: "reels.created_at", Since: q.Since},
	)
	if err := orderBy(sb, q.Sort, reelSortColumns, "reels.created_at"); err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		sb.Offset(q.Offset)
	}
	sb.Limit(q.Limit)

	sqlStr, args := sb.BuildWithFlavor(sqlbuilder.SQLite)
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	reels := []models.Reel{}
	for rows.Next() {
		var reel models.Reel
		var tags string
		if err := rows.Scan(
			&reel.Id, &reel.Title, &reel.Description, &reel.VideoUrl,
			&reel.Thumbnail, &reel.DurationSecs, &reel.Author,
			&reel.CategoryId, &reel.Category,
			&tags, &reel.Views, &reel.Likes, &reel.Shares,
			&reel.IsPublic, &reel.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		reel.Tags = decodeTags(tags)
		reels = append(reels, reel)
	}
	return reels, rows.Err()
}

// PostCategories returns the curated post categories with a live count
// of public posts each.
func (s *Store) PostCategories(ctx context.Context) ([]models.PostCategory, error) {
	sqlStr := `
		SELECT pc.id, pc.name, pc.description, pc.color, pc.icon,
			(SELECT COUNT(*) FROM posts WHERE posts.category_id = pc.id AND posts.is_public = 1)
		FROM post_categories pc
		ORDER BY pc.name ASC`

	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	categories := []models.PostCategory{}
	for rows.Next() {
		var category models.PostCategory
		if err := rows.Scan(
			&category.Id, &category.Name, &category.Description,
			&category.Color, &category.Icon, &category.PostsCount,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// ReelCategories mirrors PostCategories for reels.
func (s *Store) ReelCategories(ctx context.Context) ([]models.ReelCategory, error) {
	sqlStr := `
		SELECT rc.id, rc.name, rc.description, rc.color, rc.icon,
			(SELECT COUNT(*) FROM reels WHERE reels.category_id = rc.id AND reels.is_public = 1)
		FROM reel_categories rc
		ORDER BY rc.name ASC`

	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	categories := []models.ReelCategory{}
	for rows.Next() {
		var category models.ReelCategory
		if err := rows.Scan(
			&category.Id, &category.Name, &category.Description,
			&category.Color, &category.Icon, &category.ReelsCount,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// NewsCategories returns the distinct free-text category strings
// present on published news items.
func (s *Store) NewsCategories(ctx context.Context) ([]string, error) {
	sqlStr := `
		SELECT DISTINCT category FROM news
		WHERE is_published = 1 AND category IS NOT NULL AND category != ''
		ORDER BY category ASC`

	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetNews fetches a single published news item by id.
func (s *Store) GetNews(ctx context.Context, id int64) (*models.NewsItem, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(
		"news.id", "news.title", "news.description", "news.content",
		"news.image", "news.source_url", "news.category", "news.author",
		"news.tags", "news.views", "news.featured", "news.is_published",
		"news.published_at", "news.created_at",
	)
	sb.From("news")
	sb.Where(sb.Equal("news.id", id))
	applyFilters(sb, &EligibleFilter{Column: "news.is_published"})

	sqlStr, args := sb.BuildWithFlavor(sqlbuilder.SQLite)
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, feeds.ErrNotFound
	}
	return scanNews(rows)
}

// IncrementNewsViews bumps the view counter in a single atomic UPDATE.
func (s *Store) IncrementNewsViews(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE news SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return feeds.ErrNotFound
	}
	return nil
}

func applyFilters(sb *sqlbuilder.SelectBuilder, filters ...query.FilterStrategy) {
	for _, filter := range filters {
		filter.ApplyFilter(sb)
	}
}

func scanNews(rows *sql.Rows) (*models.NewsItem, error) {
	var item models.NewsItem
	var tags string
	var category sql.NullString
	if err := rows.Scan(
		&item.Id, &item.Title, &item.Description, &item.Content,
		&item.Image, &item.SourceUrl, &category, &item.Author,
		&tags, &item.Views, &item.Featured, &item.IsPublished,
		&item.PublishedAt, &item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	if category.Valid {
		item.Category = &category.String
	}
	item.Tags = decodeTags(tags)
	return &item, nil
}

// decodeTags parses the JSON-encoded tag column. A malformed value is
// logged and treated as no tags, it never fails the row.
func decodeTags(raw string) []string {
	if raw == "" || raw == "null" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		log.WithFields(log.Fields{
			"tags":  raw,
			"error": err,
		}).Warn("Malformed tags column")
		return []string{}
	}
	return tags
}
