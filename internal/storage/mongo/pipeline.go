package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// authorLookup присоединяет автора статьи из users в массив author.
func authorLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: "author_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "author"},
	}}}
}

// commentsOrEmpty — отсутствующий/null массив comments трактуется как пустой.
func commentsOrEmpty() bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{"$comments", bson.A{}}}}
}

// commentWindowPipeline собирает запрос страницы статьи:
// $match по _id -> $lookup автора -> $project с окном комментариев.
// $slice выполняется на стороне сервера, в приложение уходит только окно.
// author_count == 0 означает висячую ссылку на автора.
func commentWindowPipeline(id primitive.ObjectID, offset, limit int) mongodriver.Pipeline {
	return mongodriver.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		authorLookup(),
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "raw_content", Value: 1},
			{Key: "tags", Value: 1},
			{Key: "author_id", Value: 1},
			{Key: "created_time", Value: 1},
			{Key: "updated_time", Value: 1},
			{Key: "status", Value: 1},
			{Key: "comments", Value: bson.D{{Key: "$slice", Value: bson.A{commentsOrEmpty(), offset, limit}}}},
			{Key: "total_comments", Value: bson.D{{Key: "$size", Value: commentsOrEmpty()}}},
			{Key: "author_name", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$author.username", 0}}}},
			{Key: "author_count", Value: bson.D{{Key: "$size", Value: "$author"}}},
		}}},
	}
}

// listPipeline — главная: все статьи, сначала новые, без тел и комментариев.
func listPipeline() mongodriver.Pipeline {
	return mongodriver.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_time", Value: -1}, {Key: "_id", Value: -1}}}},
		authorLookup(),
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "tags", Value: 1},
			{Key: "author_id", Value: 1},
			{Key: "created_time", Value: 1},
			{Key: "updated_time", Value: 1},
			{Key: "status", Value: 1},
			{Key: "total_comments", Value: bson.D{{Key: "$size", Value: commentsOrEmpty()}}},
			{Key: "author_name", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$author.username", 0}}}},
			{Key: "author_count", Value: bson.D{{Key: "$size", Value: "$author"}}},
		}}},
	}
}
