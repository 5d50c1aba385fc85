package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-blog/internal/config"
	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/storage"
	"github.com/stretchr/testify/require"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет,
// если выставлен GO_TEST_INTEGRATION. Каждый тест создаёт свою БД (см. newTestConfig).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("DATABASE_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB integration tests")
	}
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		baseURL = "mongodb://localhost:27017"
	}

	dbName := "blog_test_" + uuid.New().String()
	if baseURL[len(baseURL)-1] == '/' {
		baseURL += dbName
	} else {
		baseURL += "/" + dbName
	}

	return &config.Config{DB: config.DBConfig{URL: baseURL}}
}

// mustNewMongo подключается к тестовой БД и регистрирует очистку.
func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()
	requireIntegration(t)

	cfg := newTestConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	require.NoError(t, err, "cannot connect to MongoDB (DATABASE_URL=%s)", cfg.DB.URL)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// seedUserAndArticle создаёт автора и статью с n комментариями (content "c0".."cN-1").
func seedUserAndArticle(t *testing.T, m *Mongo, n int) (userID, articleID string) {
	t.Helper()
	ctx := testCtx(t)

	userID, err := m.InsertUser(ctx, models.User{Username: "alice", AuthType: models.AuthTypeLocal, PasswordHash: []byte("h")})
	require.NoError(t, err)

	articleID, err = m.InsertArticle(ctx, models.Article{Title: "t", RawContent: "body", Tags: []string{"go"}, AuthorID: userID})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		ok, err := m.AppendComment(ctx, articleID, models.Comment{
			Content:    fmt.Sprintf("c%d", i),
			AuthorID:   userID,
			AuthorName: "alice",
		})
		require.NoError(t, err)
		require.True(t, ok)
	}

	return userID, articleID
}

// --- unit ---

func TestDatabaseFromURI(t *testing.T) {
	t.Parallel()

	require.Equal(t, "blog", databaseFromURI("mongodb://localhost:27017"))
	require.Equal(t, "blog", databaseFromURI("mongodb://localhost:27017/"))
	require.Equal(t, "posts", databaseFromURI("mongodb://u:p@localhost:27017/posts?authSource=admin"))
	require.Equal(t, "blog", databaseFromURI("::not a uri"))
}

// stage возвращает значение оператора стадии pipeline (например, "$project").
func stage(t *testing.T, st bson.D, key string) bson.D {
	t.Helper()
	require.Len(t, st, 1)
	require.Equal(t, key, st[0].Key)
	v, ok := st[0].Value.(bson.D)
	require.True(t, ok)
	return v
}

func field(t *testing.T, d bson.D, key string) any {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("field %q not found in %v", key, d)
	return nil
}

// TestCommentWindowPipeline_Shape — $match -> $lookup -> $project, окно передаётся в $slice.
func TestCommentWindowPipeline_Shape(t *testing.T) {
	t.Parallel()

	oid := primitive.NewObjectID()
	p := commentWindowPipeline(oid, 40, 20)
	require.Len(t, p, 3)

	match := stage(t, p[0], "$match")
	require.Equal(t, oid, field(t, match, "_id"))

	lookup := stage(t, p[1], "$lookup")
	require.Equal(t, usersCollection, field(t, lookup, "from"))
	require.Equal(t, "author_id", field(t, lookup, "localField"))
	require.Equal(t, "_id", field(t, lookup, "foreignField"))

	project := stage(t, p[2], "$project")
	slice, ok := field(t, project, "comments").(bson.D)
	require.True(t, ok)
	args, ok := field(t, slice, "$slice").(bson.A)
	require.True(t, ok)
	require.Len(t, args, 3)
	require.Equal(t, 40, args[1])
	require.Equal(t, 20, args[2])

	for _, k := range []string{"total_comments", "author_name", "author_count", "title", "raw_content"} {
		field(t, project, k)
	}
}

func TestListPipeline_NoCommentsNoBody(t *testing.T) {
	t.Parallel()

	p := listPipeline()
	require.Len(t, p, 3)

	sort := stage(t, p[0], "$sort")
	require.Equal(t, -1, field(t, sort, "created_time"))

	project := stage(t, p[2], "$project")
	for _, e := range project {
		require.NotEqual(t, "comments", e.Key)
		require.NotEqual(t, "raw_content", e.Key)
	}
}

// --- integration ---

func TestArticleWithCommentWindow_NoComments(t *testing.T) {
	m := mustNewMongo(t)
	_, articleID := seedUserAndArticle(t, m, 0)

	for _, off := range []int{0, 20, 400} {
		v, err := m.ArticleWithCommentWindow(testCtx(t), articleID, off, 20)
		require.NoError(t, err)
		require.Equal(t, 0, v.TotalComments)
		require.Empty(t, v.Comments)
		require.Equal(t, "alice", v.AuthorName)
	}
}

// TestArticleWithCommentWindow_45Comments — третья страница содержит последние 5,
// окно за пределами даёт пустой срез при верном total.
func TestArticleWithCommentWindow_45Comments(t *testing.T) {
	m := mustNewMongo(t)
	_, articleID := seedUserAndArticle(t, m, 45)
	ctx := testCtx(t)

	first, err := m.ArticleWithCommentWindow(ctx, articleID, 0, 20)
	require.NoError(t, err)
	require.Len(t, first.Comments, 20)
	require.Equal(t, "c0", first.Comments[0].Content)
	require.Equal(t, 45, first.TotalComments)
	require.Equal(t, "body", first.RawContent)

	third, err := m.ArticleWithCommentWindow(ctx, articleID, 40, 20)
	require.NoError(t, err)
	require.Len(t, third.Comments, 5)
	require.Equal(t, "c40", third.Comments[0].Content)
	require.Equal(t, "c44", third.Comments[4].Content)

	beyond, err := m.ArticleWithCommentWindow(ctx, articleID, 60, 20)
	require.NoError(t, err)
	require.Empty(t, beyond.Comments)
	require.Equal(t, 45, beyond.TotalComments)
}

func TestArticleWithCommentWindow_NotFound(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	_, err := m.ArticleWithCommentWindow(ctx, primitive.NewObjectID().Hex(), 0, 20)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.ArticleWithCommentWindow(ctx, "not-a-hex", 0, 20)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestArticleWithCommentWindow_DanglingAuthor — автор удалён: отдельная ошибка, не NotFound.
func TestArticleWithCommentWindow_DanglingAuthor(t *testing.T) {
	m := mustNewMongo(t)
	userID, articleID := seedUserAndArticle(t, m, 1)
	ctx := testCtx(t)

	oid, err := primitive.ObjectIDFromHex(userID)
	require.NoError(t, err)
	_, err = m.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	require.NoError(t, err)

	_, err = m.ArticleWithCommentWindow(ctx, articleID, 0, 20)
	require.ErrorIs(t, err, storage.ErrDanglingReference)
	require.False(t, errors.Is(err, storage.ErrNotFound))

	list, err := m.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].AuthorName)
}

// TestAppendComment_Concurrent — параллельные $push не теряют комментарии.
func TestAppendComment_Concurrent(t *testing.T) {
	m := mustNewMongo(t)
	userID, articleID := seedUserAndArticle(t, m, 0)

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()
			ok, err := m.AppendComment(ctx, articleID, models.Comment{
				Content:  fmt.Sprintf("w%d", i),
				AuthorID: userID,
			})
			if err == nil && !ok {
				err = errors.New("article not matched")
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	v, err := m.ArticleWithCommentWindow(testCtx(t), articleID, 0, 100)
	require.NoError(t, err)
	require.Equal(t, writers, v.TotalComments)

	seen := make(map[string]int)
	for _, c := range v.Comments {
		seen[c.Content]++
	}
	require.Len(t, seen, writers)
	for _, n := range seen {
		require.Equal(t, 1, n)
	}
}

func TestAppendComment_MissingArticle(t *testing.T) {
	m := mustNewMongo(t)
	userID, _ := seedUserAndArticle(t, m, 0)
	ctx := testCtx(t)

	ok, err := m.AppendComment(ctx, primitive.NewObjectID().Hex(), models.Comment{Content: "x", AuthorID: userID})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = m.AppendComment(ctx, "bad", models.Comment{Content: "x", AuthorID: userID})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAppendComment_ReplyToRoundTrip(t *testing.T) {
	m := mustNewMongo(t)
	userID, articleID := seedUserAndArticle(t, m, 0)
	ctx := testCtx(t)

	ok, err := m.AppendComment(ctx, articleID, models.Comment{
		Content: "re", AuthorID: userID, AuthorName: "alice", ReplyTo: userID, ReplyToName: "alice",
	})
	require.NoError(t, err)
	require.True(t, ok)

	v, err := m.ArticleWithCommentWindow(ctx, articleID, 0, 20)
	require.NoError(t, err)
	require.Len(t, v.Comments, 1)
	require.Equal(t, userID, v.Comments[0].ReplyTo)
	require.Equal(t, "alice", v.Comments[0].ReplyToName)
	require.Equal(t, models.StatusPublished, v.Comments[0].Status)
}

func TestArticleByID_AndUpdateFields(t *testing.T) {
	m := mustNewMongo(t)
	userID, articleID := seedUserAndArticle(t, m, 3)
	ctx := testCtx(t)

	a, err := m.ArticleByID(ctx, articleID)
	require.NoError(t, err)
	require.Equal(t, userID, a.AuthorID)
	require.Empty(t, a.Comments)
	require.False(t, a.UpdatedTime.Before(a.CreatedTime))

	time.Sleep(5 * time.Millisecond)
	err = m.UpdateArticleFields(ctx, articleID, models.ArticleFields{
		Title: "t2", RawContent: "body2", Tags: []string{"a", "b"}, Status: models.StatusPublished,
	})
	require.NoError(t, err)

	b, err := m.ArticleByID(ctx, articleID)
	require.NoError(t, err)
	require.Equal(t, "t2", b.Title)
	require.Equal(t, "body2", b.RawContent)
	require.Equal(t, []string{"a", "b"}, b.Tags)
	require.True(t, b.UpdatedTime.After(a.UpdatedTime))
	require.Equal(t, a.CreatedTime, b.CreatedTime)

	v, err := m.ArticleWithCommentWindow(ctx, articleID, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 3, v.TotalComments)

	err = m.UpdateArticleFields(ctx, primitive.NewObjectID().Hex(), models.ArticleFields{Title: "x"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListArticles_NewestFirst(t *testing.T) {
	m := mustNewMongo(t)
	userID, firstID := seedUserAndArticle(t, m, 2)
	ctx := testCtx(t)

	time.Sleep(5 * time.Millisecond)
	secondID, err := m.InsertArticle(ctx, models.Article{Title: "second", RawContent: "b", AuthorID: userID})
	require.NoError(t, err)

	list, err := m.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, secondID, list[0].ID)
	require.Equal(t, firstID, list[1].ID)
	require.Equal(t, 2, list[1].TotalComments)
	require.Equal(t, "alice", list[0].AuthorName)
}

func TestUsers_ExternalLookupAndConflict(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	u := models.User{
		Username: "Bob",
		AuthType: "gitee",
		Inner:    models.ExternalProfile{ID: 42, Login: "bob", Name: "Bob", Email: "bob@example.com"},
	}

	id, err := m.InsertUser(ctx, u)
	require.NoError(t, err)

	got, err := m.UserByExternalID(ctx, "gitee", 42)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "bob", got.Inner.Login)
	require.Equal(t, "bob@example.com", got.Inner.Email)

	_, err = m.UserByExternalID(ctx, "gitee", 43)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.UserByExternalID(ctx, "github", 42)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.InsertUser(ctx, u)
	require.ErrorIs(t, err, storage.ErrConflict)

	byID, err := m.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Bob", byID.Username)

	_, err = m.UserByID(ctx, "zzz")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestUsers_LocalUsernameUnique — локальные username уникальны,
// одноимённый пользователь провайдера не конфликтует.
func TestUsers_LocalUsernameUnique(t *testing.T) {
	m := mustNewMongo(t)
	ctx := testCtx(t)

	_, err := m.InsertUser(ctx, models.User{Username: "carol", AuthType: models.AuthTypeLocal, PasswordHash: []byte("h")})
	require.NoError(t, err)

	_, err = m.InsertUser(ctx, models.User{Username: "carol", AuthType: models.AuthTypeLocal, PasswordHash: []byte("h2")})
	require.ErrorIs(t, err, storage.ErrConflict)

	_, err = m.InsertUser(ctx, models.User{Username: "carol", AuthType: "gitee", Inner: models.ExternalProfile{ID: 7}})
	require.NoError(t, err)

	got, err := m.UserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, models.AuthTypeLocal, got.AuthType)
	require.Equal(t, []byte("h"), got.PasswordHash)
}
