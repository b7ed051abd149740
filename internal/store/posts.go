package store

import (
	"context"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postStore struct {
	coll *mongo.Collection
}

func (s *postStore) Create(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *postStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return findOne[models.Post](ctx, s.coll, bson.M{"_id": id})
}

func (s *postStore) List(ctx context.Context) ([]models.Post, error) {
	return findAll[models.Post](ctx, s.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (s *postStore) Replace(ctx context.Context, p *models.Post) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	return replaceByID(ctx, s.coll, p.ID, p)
}

func (s *postStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id)
}
