package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the queries rely on. It is safe to call on
// every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		AppointmentsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "reminders.sent", Value: 1}, {Key: "reminders.date", Value: 1}}},
		},
		MealsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
		},
		DietPlansCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		QuestionsCollection: {
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		PostsCollection: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
