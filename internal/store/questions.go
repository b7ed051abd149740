package store

import (
	"context"
	"errors"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultQuestionLimit = 10
	maxQuestionLimit     = 100
)

type questionStore struct {
	coll *mongo.Collection
}

func (s *questionStore) Create(ctx context.Context, q *models.Question) error {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.Likes == nil {
		q.Likes = []primitive.ObjectID{}
	}
	if q.Answers == nil {
		q.Answers = []models.Answer{}
	}
	stamp(&q.CreatedAt, &q.UpdatedAt)
	if q.Date.IsZero() {
		q.Date = q.CreatedAt
	}
	_, err := s.coll.InsertOne(ctx, q)
	return err
}

func (s *questionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	return findOne[models.Question](ctx, s.coll, bson.M{"_id": id})
}

func (s *questionStore) View(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var q models.Question
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List pages through questions newest first. "All" or an empty category
// matches every category; Search uses the text index on title and content.
func (s *questionStore) List(ctx context.Context, query QuestionQuery) ([]models.Question, int64, error) {
	query.Page, query.Limit = NormalizePage(query.Page, query.Limit)

	filter := bson.M{}
	if query.Category != "" && query.Category != "All" {
		filter["category"] = query.Category
	}
	if query.Search != "" {
		filter["$text"] = bson.M{"$search": query.Search}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((query.Page - 1) * query.Limit).
		SetLimit(query.Limit)

	questions, err := findAll[models.Question](ctx, s.coll, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (s *questionStore) Replace(ctx context.Context, q *models.Question) error {
	stamp(&q.CreatedAt, &q.UpdatedAt)
	return replaceByID(ctx, s.coll, q.ID, q)
}

// NormalizePage clamps page and limit to sane values.
func NormalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultQuestionLimit
	}
	if limit > maxQuestionLimit {
		limit = maxQuestionLimit
	}
	return page, limit
}

func (s *questionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id)
}
