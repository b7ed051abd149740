package store

import (
	"context"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mealStore struct {
	coll *mongo.Collection
}

func (s *mealStore) Create(ctx context.Context, m *models.Meal) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	stamp(&m.CreatedAt, &m.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *mealStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Meal, error) {
	return findOne[models.Meal](ctx, s.coll, bson.M{"_id": id})
}

func (s *mealStore) List(ctx context.Context, f MealFilter) ([]models.Meal, error) {
	filter := bson.M{"user": f.User}
	if f.From != nil || f.To != nil {
		filter["date"] = dateRange(f.From, f.To)
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Meal](ctx, s.coll, filter, opts)
}

func (s *mealStore) Replace(ctx context.Context, m *models.Meal) error {
	stamp(&m.CreatedAt, &m.UpdatedAt)
	return replaceByID(ctx, s.coll, m.ID, m)
}

func (s *mealStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *mealStore) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"user": user})
	return err
}
