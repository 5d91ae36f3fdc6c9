package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civfeed/feeds"
	"civfeed/query"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "civfeed.db")
	require.NoError(t, Migrate(path))

	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addPostCategory(t *testing.T, store *Store, name string) {
	t.Helper()
	require.NoError(t, insert(store.db, "post_categories",
		[]string{"name"}, []interface{}{name}))
}

// addPost inserts a post; categoryId nil leaves the row uncategorized.
func addPost(t *testing.T, store *Store, author string, categoryId interface{}, likes int64, public int, createdAt int64) {
	t.Helper()
	require.NoError(t, insert(store.db, "posts",
		[]string{"author", "content", "category_id", "likes", "is_public", "created_at", "updated_at"},
		[]interface{}{author, "content", categoryId, likes, public, createdAt, createdAt}))
}

func addNews(t *testing.T, store *Store, title string, category interface{}, views int64, published int, createdAt int64) {
	t.Helper()
	require.NoError(t, insert(store.db, "news",
		[]string{"title", "category", "author", "views", "is_published", "published_at", "created_at"},
		[]interface{}{title, category, "newsroom", views, published, createdAt, createdAt}))
}

func addReel(t *testing.T, store *Store, title string, public int, createdAt int64) {
	t.Helper()
	require.NoError(t, insert(store.db, "reels",
		[]string{"title", "video_url", "author", "is_public", "created_at"},
		[]interface{}{title, "https://cdn.example.org/reel.mp4", "creator", public, createdAt}))
}

func TestListPostsExcludesPrivate(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addPostCategory(t, store, "Community")
	addPost(t, store, "alice", 1, 5, 1, base)
	addPost(t, store, "bob", 1, 9, 0, base-10)

	posts, err := store.ListPosts(context.Background(), feeds.SourceQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Author)
	assert.Equal(t, "Community", posts[0].Category)
	assert.True(t, posts[0].IsPublic)
}

func TestListPostsSortsByAllowedField(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addPost(t, store, "first", nil, 3, 1, base)
	addPost(t, store, "second", nil, 9, 1, base-10)
	addPost(t, store, "third", nil, 6, 1, base-20)

	posts, err := store.ListPosts(context.Background(), feeds.SourceQuery{
		Sort:  []query.SortTerm{query.Descending("likes")},
		Limit: 10,
	})
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, int64(9), posts[0].Likes)
	assert.Equal(t, int64(6), posts[1].Likes)
	assert.Equal(t, int64(3), posts[2].Likes)
}

func TestListPostsInvalidSortField(t *testing.T) {
	store := testStore(t)

	_, err := store.ListPosts(context.Background(), feeds.SourceQuery{
		Sort:  []query.SortTerm{{Field: "password"}},
		Limit: 10,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, feeds.ErrInvalidSortField))
}

func TestListPostsZeroLimit(t *testing.T) {
	store := testStore(t)
	addPost(t, store, "alice", nil, 0, 1, time.Now().Unix())

	posts, err := store.ListPosts(context.Background(), feeds.SourceQuery{Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPostsOffsetPaging(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()
	for i := 0; i < 5; i++ {
		addPost(t, store, "author", nil, 0, 1, base-int64(i*60))
	}

	page, err := store.ListPosts(context.Background(), feeds.SourceQuery{Offset: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, page, 2)
	// Default sort is created_at descending, so offset 2 skips the two
	// newest rows.
	assert.Equal(t, base-120, page[0].CreatedAt)
	assert.Equal(t, base-180, page[1].CreatedAt)
}

func TestListNewsCategoryCaseInsensitive(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addNews(t, store, "housing update", "Housing", 10, 1, base)
	addNews(t, store, "transport update", "Transport", 10, 1, base)

	news, err := store.ListNews(context.Background(), feeds.SourceQuery{
		Category: "hOuSiNg",
		Limit:    10,
	})
	require.NoError(t, err)

	require.Len(t, news, 1)
	assert.Equal(t, "housing update", news[0].Title)
	require.NotNil(t, news[0].Category)
	assert.Equal(t, "Housing", *news[0].Category)
}

func TestListNewsSinceInclusive(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addNews(t, store, "old", nil, 0, 1, base-100)
	addNews(t, store, "boundary", nil, 0, 1, base-50)
	addNews(t, store, "recent", nil, 0, 1, base)

	news, err := store.ListNews(context.Background(), feeds.SourceQuery{
		Since: base - 50,
		Limit: 10,
	})
	require.NoError(t, err)

	require.Len(t, news, 2)
	assert.Equal(t, "recent", news[0].Title)
	assert.Equal(t, "boundary", news[1].Title)
}

func TestListReelsExcludesPrivate(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addReel(t, store, "public reel", 1, base)
	addReel(t, store, "private reel", 0, base-10)

	reels, err := store.ListReels(context.Background(), feeds.SourceQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, reels, 1)
	assert.Equal(t, "public reel", reels[0].Title)
}

func TestPostCategoriesCounts(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addPostCategory(t, store, "Local Politics")
	addPostCategory(t, store, "Community")
	addPost(t, store, "alice", 2, 0, 1, base)
	addPost(t, store, "bob", 2, 0, 1, base-10)
	addPost(t, store, "carol", 2, 0, 0, base-20) // private, not counted

	categories, err := store.PostCategories(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "Community", categories[0].Name)
	assert.Equal(t, int64(2), categories[0].PostsCount)
	assert.Equal(t, "Local Politics", categories[1].Name)
	assert.Equal(t, int64(0), categories[1].PostsCount)
}

func TestNewsCategoriesDistinct(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addNews(t, store, "a", "Transport", 0, 1, base)
	addNews(t, store, "b", "Transport", 0, 1, base)
	addNews(t, store, "c", "Housing", 0, 1, base)
	addNews(t, store, "d", nil, 0, 1, base)
	addNews(t, store, "e", "", 0, 1, base)
	addNews(t, store, "f", "Draft Only", 0, 0, base)

	categories, err := store.NewsCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Housing", "Transport"}, categories)
}

func TestGetNews(t *testing.T) {
	store := testStore(t)
	base := time.Now().Unix()

	addNews(t, store, "published", "Housing", 7, 1, base)
	addNews(t, store, "draft", nil, 0, 0, base)

	item, err := store.GetNews(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "published", item.Title)
	assert.Equal(t, int64(7), item.Views)

	_, err = store.GetNews(context.Background(), 2)
	assert.True(t, errors.Is(err, feeds.ErrNotFound))

	_, err = store.GetNews(context.Background(), 999)
	assert.True(t, errors.Is(err, feeds.ErrNotFound))
}

func TestIncrementNewsViews(t *testing.T) {
	store := testStore(t)

	addNews(t, store, "article", nil, 3, 1, time.Now().Unix())

	require.NoError(t, store.IncrementNewsViews(context.Background(), 1))
	require.NoError(t, store.IncrementNewsViews(context.Background(), 1))

	item, err := store.GetNews(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Views)

	err = store.IncrementNewsViews(context.Background(), 999)
	assert.True(t, errors.Is(err, feeds.ErrNotFound))
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty string", raw: "", want: []string{}},
		{name: "null literal", raw: "null", want: []string{}},
		{name: "empty array", raw: "[]", want: []string{}},
		{name: "tags", raw: `["civic","local"]`, want: []string{"civic", "local"}},
		{name: "malformed json", raw: `["civic"`, want: []string{}},
		{name: "wrong type", raw: `{"a":1}`, want: []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, decodeTags(test.raw))
		})
	}
}

func TestTidyRemovesExpiredRows(t *testing.T) {
	store := testStore(t)
	old := time.Now().AddDate(0, 0, -40).Unix()
	recent := time.Now().AddDate(0, 0, -1).Unix()

	addPost(t, store, "old", nil, 0, 1, old)
	addPost(t, store, "recent", nil, 0, 1, recent)
	addNews(t, store, "old", nil, 0, 1, old)
	addReel(t, store, "old", 1, old)
	addReel(t, store, "recent", 1, recent)

	removed, err := tidy(store.db, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed["posts"])
	assert.Equal(t, int64(1), removed["news"])
	assert.Equal(t, int64(1), removed["reels"])

	posts, err := store.ListPosts(context.Background(), feeds.SourceQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "recent", posts[0].Author)
}

func TestSeedPopulatesAllSources(t *testing.T) {
	store := testStore(t)
	require.NoError(t, seed(store.db))

	posts, err := store.ListPosts(context.Background(), feeds.SourceQuery{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, posts, 30)

	news, err := store.ListNews(context.Background(), feeds.SourceQuery{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, news, 15)

	reels, err := store.ListReels(context.Background(), feeds.SourceQuery{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, reels, 8)

	categories, err := store.PostCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}
