package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Only the methods the job calls are implemented; the embedded interfaces
// stay nil.
type fakeAppointments struct {
	store.AppointmentStore
	due     []models.Appointment
	listErr error
	saved   map[primitive.ObjectID][]models.Reminder
}

func (f *fakeAppointments) ListWithDueReminders(context.Context, time.Time) ([]models.Appointment, error) {
	return f.due, f.listErr
}

func (f *fakeAppointments) SetReminders(_ context.Context, id primitive.ObjectID, reminders []models.Reminder) error {
	if f.saved == nil {
		f.saved = map[primitive.ObjectID][]models.Reminder{}
	}
	f.saved[id] = reminders
	return nil
}

type fakeUsers struct {
	store.UserStore
	docs map[primitive.ObjectID]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type fakeSender struct {
	sent []primitive.ObjectID
	err  error
}

func (s *fakeSender) SendAppointmentReminder(_ context.Context, _ *models.User, apt *models.Appointment) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, apt.ID)
	return nil
}

var now = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func appointmentFor(user primitive.ObjectID, reminders ...models.Reminder) models.Appointment {
	return models.Appointment{
		ID:        primitive.NewObjectID(),
		User:      user,
		Title:     "Ultrasound",
		Status:    models.StatusScheduled,
		Reminders: reminders,
	}
}

func newJob(apts *fakeAppointments, users *fakeUsers, sender *fakeSender) *ReminderJob {
	j := NewReminderJob(apts, users, sender)
	j.now = func() time.Time { return now }
	return j
}

func TestRunSendsDueSMSReminders(t *testing.T) {
	optedIn := models.NewUser("Ana", "ana@example.com", "hash")
	optedIn.Notifications.SMS = true
	optedOut := models.NewUser("Bea", "bea@example.com", "hash")

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	a1 := appointmentFor(optedIn.ID,
		models.Reminder{Date: past, Channel: "sms"},
		models.Reminder{Date: future, Channel: "sms"},
	)
	a2 := appointmentFor(optedOut.ID, models.Reminder{Date: past, Channel: "sms"})
	a3 := appointmentFor(optedIn.ID, models.Reminder{Date: past, Channel: "email"})

	apts := &fakeAppointments{due: []models.Appointment{a1, a2, a3}}
	users := &fakeUsers{docs: map[primitive.ObjectID]*models.User{optedIn.ID: optedIn, optedOut.ID: optedOut}}
	sender := &fakeSender{}

	sent, err := newJob(apts, users, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []primitive.ObjectID{a1.ID}, sender.sent)

	require.Len(t, apts.saved, 3)
	assert.True(t, apts.saved[a1.ID][0].Sent)
	assert.False(t, apts.saved[a1.ID][1].Sent)
	assert.True(t, apts.saved[a2.ID][0].Sent)
	assert.True(t, apts.saved[a3.ID][0].Sent)
}

func TestRunMarksRemindersWhenDeliveryFails(t *testing.T) {
	u := models.NewUser("Ana", "ana@example.com", "hash")
	u.Notifications.SMS = true
	a := appointmentFor(u.ID, models.Reminder{Date: now, Channel: "sms"})
	orphan := appointmentFor(primitive.NewObjectID(), models.Reminder{Date: now, Channel: "sms"})

	apts := &fakeAppointments{due: []models.Appointment{a, orphan}}
	sender := &fakeSender{err: errors.New("no phone")}

	sent, err := newJob(apts, &fakeUsers{docs: map[primitive.ObjectID]*models.User{u.ID: u}}, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.True(t, apts.saved[a.ID][0].Sent)
	assert.True(t, apts.saved[orphan.ID][0].Sent)
}

func TestRunSkipsCancelledAppointments(t *testing.T) {
	u := models.NewUser("Ana", "ana@example.com", "hash")
	u.Notifications.SMS = true
	a := appointmentFor(u.ID, models.Reminder{Date: now, Channel: "sms"})
	a.Status = models.StatusCancelled

	apts := &fakeAppointments{due: []models.Appointment{a}}
	sender := &fakeSender{}
	sent, err := newJob(apts, &fakeUsers{docs: map[primitive.ObjectID]*models.User{u.ID: u}}, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, apts.saved)
}

func TestRunListError(t *testing.T) {
	apts := &fakeAppointments{listErr: errors.New("connection reset")}
	_, err := newJob(apts, &fakeUsers{}, &fakeSender{}).Run(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestStartSchedule(t *testing.T) {
	j := newJob(&fakeAppointments{}, &fakeUsers{}, &fakeSender{})
	require.NoError(t, j.Start(""))
	<-j.Stop().Done()

	assert.Error(t, j.Start("every now and then"))

	require.NoError(t, j.Start("*/15 * * * *"))
	<-j.Stop().Done()
}
