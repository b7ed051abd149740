package store

import (
	"context"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type appointmentStore struct {
	coll *mongo.Collection
}

func (s *appointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, a)
	return err
}

func (s *appointmentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, s.coll, bson.M{"_id": id})
}

// List returns the user's appointments, newest date first.
func (s *appointmentStore) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{"user": f.User}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		filter["date"] = dateRange(f.From, f.To)
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Appointment](ctx, s.coll, filter, opts)
}

func (s *appointmentStore) Replace(ctx context.Context, a *models.Appointment) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return replaceByID(ctx, s.coll, a.ID, a)
}

func (s *appointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *appointmentStore) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"user": user})
	return err
}

// ListWithDueReminders finds scheduled appointments holding at least one
// unsent reminder whose time has come.
func (s *appointmentStore) ListWithDueReminders(ctx context.Context, now time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"status": models.StatusScheduled,
		"reminders": bson.M{"$elemMatch": bson.M{
			"sent": false,
			"date": bson.M{"$lte": now},
		}},
	}
	return findAll[models.Appointment](ctx, s.coll, filter)
}

// SetReminders only touches the reminders array so a concurrent edit of the
// other fields is not overwritten.
func (s *appointmentStore) SetReminders(ctx context.Context, id primitive.ObjectID, reminders []models.Reminder) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reminders": reminders,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
