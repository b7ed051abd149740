// Package store persists the service documents in MongoDB.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection        = "users"
	AppointmentsCollection = "appointments"
	MealsCollection        = "meals"
	DietPlansCollection    = "dietplans"
	QuestionsCollection    = "questions"
	PostsCollection        = "posts"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail is returned when a user email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Replace(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AppointmentFilter struct {
	User   primitive.ObjectID
	Status string
	From   *time.Time
	To     *time.Time
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	Replace(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, user primitive.ObjectID) error
	ListWithDueReminders(ctx context.Context, now time.Time) ([]models.Appointment, error)
	SetReminders(ctx context.Context, id primitive.ObjectID, reminders []models.Reminder) error
}

type MealFilter struct {
	User primitive.ObjectID
	From *time.Time
	To   *time.Time
}

type MealStore interface {
	Create(ctx context.Context, m *models.Meal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Meal, error)
	List(ctx context.Context, f MealFilter) ([]models.Meal, error)
	Replace(ctx context.Context, m *models.Meal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, user primitive.ObjectID) error
}

type DietPlanStore interface {
	Create(ctx context.Context, p *models.DietPlan) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DietPlan, error)
	List(ctx context.Context, user primitive.ObjectID) ([]models.DietPlan, error)
	Latest(ctx context.Context, user primitive.ObjectID) (*models.DietPlan, error)
	Replace(ctx context.Context, p *models.DietPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, user primitive.ObjectID) error
}

type QuestionQuery struct {
	Category string
	Search   string
	Page     int64
	Limit    int64
}

type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	// View increments the view counter and returns the updated question.
	View(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	List(ctx context.Context, q QuestionQuery) ([]models.Question, int64, error)
	Replace(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]models.Post, error)
	Replace(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Stores groups the collection-backed repositories.
type Stores struct {
	Users        UserStore
	Appointments AppointmentStore
	Meals        MealStore
	DietPlans    DietPlanStore
	Questions    QuestionStore
	Posts        PostStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Users:        &userStore{coll: db.Collection(UsersCollection)},
		Appointments: &appointmentStore{coll: db.Collection(AppointmentsCollection)},
		Meals:        &mealStore{coll: db.Collection(MealsCollection)},
		DietPlans:    &dietPlanStore{coll: db.Collection(DietPlansCollection)},
		Questions:    &questionStore{coll: db.Collection(QuestionsCollection)},
		Posts:        &postStore{coll: db.Collection(PostsCollection)},
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func dateRange(from, to *time.Time) bson.M {
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	return r
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
