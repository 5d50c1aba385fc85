package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-blog/internal/models"
	"github.com/pribylovaa/go-blog/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// UserByExternalID ищет пользователя провайдера по (auth_type, inner.id).
func (m *Mongo) UserByExternalID(ctx context.Context, provider string, remoteID int64) (*models.User, error) {
	const op = "storage/mongo/UserByExternalID"

	filter := bson.D{
		{Key: "auth_type", Value: provider},
		{Key: "inner.id", Value: remoteID},
	}

	return m.findUser(ctx, op, filter)
}

// UserByID — некорректный id трактуется как «нет такой записи».
func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return m.findUser(ctx, op, bson.D{{Key: "_id", Value: oid}})
}

// UserByUsername ищет только среди локальных пользователей:
// у пользователей провайдера username — отображаемое имя и может повторяться.
func (m *Mongo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/UserByUsername"

	filter := bson.D{
		{Key: "auth_type", Value: models.AuthTypeLocal},
		{Key: "username", Value: username},
	}

	return m.findUser(ctx, op, filter)
}

func (m *Mongo) findUser(ctx context.Context, op string, filter bson.D) (*models.User, error) {
	var doc userDoc
	if err := m.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromDoc(doc), nil
}

// InsertUser сохраняет пользователя. Нарушение уникальных индексов -> storage.ErrConflict.
func (m *Mongo) InsertUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage/mongo/InsertUser"

	now := toMS(time.Now())
	status := user.Status
	if status == 0 {
		status = models.StatusPublished
	}

	doc := userDoc{
		Username:     user.Username,
		AuthType:     user.AuthType,
		PasswordHash: user.PasswordHash,
		CreatedTime:  now,
		UpdatedTime:  now,
		Status:       status,
	}

	if user.AuthType != models.AuthTypeLocal {
		doc.Inner = &innerDoc{
			ID:        user.Inner.ID,
			Login:     user.Inner.Login,
			Name:      user.Inner.Name,
			AvatarURL: user.Inner.AvatarURL,
			Blog:      user.Inner.Blog,
			CreatedAt: user.Inner.CreatedAt,
			Email:     user.Inner.Email,
		}
	}

	res, err := m.users.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return "", fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: inserted id type", op)
	}

	return oid.Hex(), nil
}
