package repository

import (
	"context"
	"time"

	"feedback-connector/internal/domain/entities"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const conversationsCollection = "Conversations"

// MongoFeedbackRepository stores completed conversations in a MongoDB
// collection.
type MongoFeedbackRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoFeedbackRepository(client *mongo.Client, databaseName string) *MongoFeedbackRepository {
	return &MongoFeedbackRepository{
		client:     client,
		collection: client.Database(databaseName).Collection(conversationsCollection),
	}
}

func (r *MongoFeedbackRepository) Save(ctx context.Context, record entities.ConversationRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *MongoFeedbackRepository) FindByWindow(ctx context.Context, start, end *time.Time) ([]entities.ConversationRecord, error) {
	filter := bson.M{}
	if start != nil || end != nil {
		bounds := bson.M{}
		if start != nil {
			bounds["$gte"] = start.UTC()
		}
		if end != nil {
			bounds["$lte"] = end.UTC()
		}
		filter["saved_at"] = bounds
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []entities.ConversationRecord
	for cursor.Next(ctx) {
		var record entities.ConversationRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, cursor.Err()
}

func (r *MongoFeedbackRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

func (r *MongoFeedbackRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
