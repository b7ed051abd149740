package store

import (
	"context"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dietPlanStore struct {
	coll *mongo.Collection
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (s *dietPlanStore) Create(ctx context.Context, p *models.DietPlan) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Plan.Normalize()
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *dietPlanStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DietPlan, error) {
	return findOne[models.DietPlan](ctx, s.coll, bson.M{"_id": id})
}

func (s *dietPlanStore) List(ctx context.Context, user primitive.ObjectID) ([]models.DietPlan, error) {
	return findAll[models.DietPlan](ctx, s.coll, bson.M{"user": user}, options.Find().SetSort(newestFirst))
}

// Latest is the user's current plan: the most recently created one.
func (s *dietPlanStore) Latest(ctx context.Context, user primitive.ObjectID) (*models.DietPlan, error) {
	return findOne[models.DietPlan](ctx, s.coll, bson.M{"user": user}, options.FindOne().SetSort(newestFirst))
}

func (s *dietPlanStore) Replace(ctx context.Context, p *models.DietPlan) error {
	p.Plan.Normalize()
	stamp(&p.CreatedAt, &p.UpdatedAt)
	return replaceByID(ctx, s.coll, p.ID, p)
}

func (s *dietPlanStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *dietPlanStore) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"user": user})
	return err
}
