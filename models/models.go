package models

// Kind identifies which source entity a feed item originated from.
type Kind string

const (
	KindPost Kind = "post"
	KindNews Kind = "news"
	KindReel Kind = "reel"
)

// Post is a discussion post as stored in the record store.
// Only public posts are eligible for feed inclusion.
type Post struct {
	Id            int64    `json:"id"`
	Author        string   `json:"author"`
	Content       string   `json:"content"`
	Image         string   `json:"image,omitempty"`
	CategoryId    int64    `json:"categoryId"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags"`
	Likes         int64    `json:"likes"`
	Shares        int64    `json:"shares"`
	CommentsCount int64    `json:"commentsCount"`
	Pinned        bool     `json:"pinned"`
	IsPublic      bool     `json:"isPublic"`
	CreatedAt     int64    `json:"createdAt"`
	UpdatedAt     int64    `json:"updatedAt"`
}

// NewsItem is a news article. Category is free text and may be absent,
// unlike posts and reels which reference curated category records.
type NewsItem struct {
	Id          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Image       string   `json:"image,omitempty"`
	SourceUrl   string   `json:"sourceUrl,omitempty"`
	Category    *string  `json:"category"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	Views       int64    `json:"views"`
	Featured    bool     `json:"featured"`
	IsPublished bool     `json:"isPublished"`
	PublishedAt int64    `json:"publishedAt"`
	CreatedAt   int64    `json:"createdAt"`
}

// Reel is a short-form video.
type Reel struct {
	Id           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	VideoUrl     string   `json:"videoUrl"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	DurationSecs int64    `json:"durationSecs"`
	Author       string   `json:"author"`
	CategoryId   int64    `json:"categoryId"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags"`
	Views        int64    `json:"views"`
	Likes        int64    `json:"likes"`
	Shares       int64    `json:"shares"`
	IsPublic     bool     `json:"isPublic"`
	CreatedAt    int64    `json:"createdAt"`
}

// FeedItem is the tagged union the composer emits. Exactly one of the
// kind-specific payloads is set, matching Kind. Engagement counters stay
// on the payload so callers branch on Kind to interpret them.
type FeedItem struct {
	Kind      Kind      `json:"kind"`
	CreatedAt int64     `json:"createdAt"`
	Post      *Post     `json:"post,omitempty"`
	News      *NewsItem `json:"news,omitempty"`
	Reel      *Reel     `json:"reel,omitempty"`
}

// TrendingItem is a FeedItem with a per-kind engagement score attached.
// Scores are only comparable for ranking, not across-kind equivalence.
type TrendingItem struct {
	FeedItem
	Engagement int64 `json:"engagement"`
}

// Pagination describes the page window of a feed response. Total counts
// the items returned by this call, not a global total.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// SourceStats breaks the returned items down by source kind.
type SourceStats struct {
	PostsCount int `json:"postsCount"`
	NewsCount  int `json:"newsCount"`
	ReelsCount int `json:"reelsCount"`
}

type FeedResponse struct {
	Data       []FeedItem  `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Stats      SourceStats `json:"stats"`
}

type TrendingResponse struct {
	Data        []TrendingItem `json:"data"`
	Timeframe   string         `json:"timeframe"`
	GeneratedAt string         `json:"generatedAt"`
}

// PostCategory is a curated category record with a live count of
// eligible posts.
type PostCategory struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	PostsCount  int64  `json:"postsCount"`
}

// ReelCategory mirrors PostCategory for reels.
type ReelCategory struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ReelsCount  int64  `json:"reelsCount"`
}

type CategoriesResponse struct {
	PostCategories []PostCategory `json:"postCategories"`
	NewsCategories []string       `json:"newsCategories"`
	ReelCategories []ReelCategory `json:"reelCategories"`
}

// ErrorBody is the structured error payload returned on any failure.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Stack     string `json:"stack,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
