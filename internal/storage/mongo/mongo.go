package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/go-blog/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	articlesCollection = "articles"
	usersCollection    = "users"
	defaultDBName      = "blog"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	articles *mongodriver.Collection
	users    *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение, подготавливает коллекции и индексы.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		client:   cli,
		db:       db,
		articles: db.Collection(articlesCollection),
		users:    db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы:
//   - articles: created_time(desc) для главной;
//   - users: уникальная пара (auth_type, inner.id) только у пользователей провайдера;
//   - users: уникальный username только у локальных пользователей.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.articles.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "created_time", Value: -1}},
		Options: options.Index().SetName("created_time_desc"),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: articles: %w", err)
	}

	_, err = m.users.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys: bson.D{{Key: "auth_type", Value: 1}, {Key: "inner.id", Value: 1}},
			Options: options.Index().
				SetName("auth_type_inner_id_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "inner.id", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("local_username_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "auth_type", Value: "local"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: users: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддаётся разбору, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
