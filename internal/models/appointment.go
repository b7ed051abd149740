package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

type AppointmentType string

const (
	TypeCheckup      AppointmentType = "checkup"
	TypeUltrasound   AppointmentType = "ultrasound"
	TypeTest         AppointmentType = "test"
	TypeConsultation AppointmentType = "consultation"
	TypeOther        AppointmentType = "other"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case TypeCheckup, TypeUltrasound, TypeTest, TypeConsultation, TypeOther:
		return true
	}
	return false
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Date      time.Time          `bson:"date" json:"date"`
	Time      string             `bson:"time,omitempty" json:"time,omitempty"`
	Type      AppointmentType    `bson:"type" json:"type"`
	Doctor    Doctor             `bson:"doctor" json:"doctor"`
	Location  Location           `bson:"location" json:"location"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Reminders []Reminder         `bson:"reminders" json:"reminders"`
	Status    AppointmentStatus  `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Doctor struct {
	Name      string `bson:"name,omitempty" json:"name,omitempty"`
	Specialty string `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Contact   string `bson:"contact,omitempty" json:"contact,omitempty"`
}

type Location struct {
	Name        string       `bson:"name,omitempty" json:"name,omitempty"`
	Address     string       `bson:"address,omitempty" json:"address,omitempty"`
	City        string       `bson:"city,omitempty" json:"city,omitempty"`
	State       string       `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode     string       `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Reminder struct {
	Date    time.Time `bson:"date" json:"date"`
	Channel string    `bson:"channel" json:"channel"` // "email", "sms", "push"
	Sent    bool      `bson:"sent" json:"sent"`
}

// Cancel moves the appointment to cancelled regardless of its current status.
// Cancelling twice is a no-op.
func (a *Appointment) Cancel() {
	a.Status = StatusCancelled
}

// SetStatus accepts any enumerated status. No transition graph is enforced.
func (a *Appointment) SetStatus(s AppointmentStatus) bool {
	if !s.Valid() {
		return false
	}
	a.Status = s
	return true
}

// TakeDueReminders marks every unsent reminder at or before now as sent and
// returns the ones it marked. Only scheduled appointments have due reminders.
func (a *Appointment) TakeDueReminders(now time.Time) []Reminder {
	if a.Status != StatusScheduled {
		return nil
	}
	var due []Reminder
	for i := range a.Reminders {
		r := &a.Reminders[i]
		if r.Sent || r.Date.After(now) {
			continue
		}
		r.Sent = true
		due = append(due, *r)
	}
	return due
}

// ShiftReminders moves every reminder by delta after the appointment was
// rescheduled. Reminders that land in the future are armed again.
func (a *Appointment) ShiftReminders(delta time.Duration, now time.Time) {
	for i := range a.Reminders {
		r := &a.Reminders[i]
		r.Date = r.Date.Add(delta)
		if r.Date.After(now) {
			r.Sent = false
		}
	}
}
