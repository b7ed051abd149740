package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultReminderLead = 24 * time.Hour

type reminderRequest struct {
	Date    *flexTime `json:"date" binding:"required"`
	Channel string    `json:"channel" binding:"omitempty,oneof=email sms push"`
}

// reminderSetting is the single "remind me N hours before" switch older
// clients send instead of an explicit reminder list.
type reminderSetting struct {
	Enabled *bool `json:"enabled"`
	Time    *int  `json:"time"`
}

type createAppointmentRequest struct {
	Title     string                   `json:"title" binding:"required"`
	Date      *flexTime                `json:"date" binding:"required"`
	Time      string                   `json:"time" binding:"required"`
	Type      models.AppointmentType   `json:"type" binding:"omitempty,appointment_type"`
	Doctor    models.Doctor            `json:"doctor"`
	Location  models.Location          `json:"location"`
	Notes     string                   `json:"notes"`
	Reminders []reminderRequest        `json:"reminders" binding:"omitempty,dive"`
	Reminder  *reminderSetting         `json:"reminder"`
	Status    models.AppointmentStatus `json:"status" binding:"omitempty,appointment_status"`
}

type updateAppointmentRequest struct {
	Title     *string                   `json:"title"`
	Date      *flexTime                 `json:"date"`
	Time      *string                   `json:"time"`
	Type      *models.AppointmentType   `json:"type" binding:"omitempty,appointment_type"`
	Doctor    *models.Doctor            `json:"doctor"`
	Location  *models.Location          `json:"location"`
	Notes     *string                   `json:"notes"`
	Reminders []reminderRequest         `json:"reminders" binding:"omitempty,dive"`
	Status    *models.AppointmentStatus `json:"status" binding:"omitempty,appointment_status"`
}

func appointmentOwner(a *models.Appointment) primitive.ObjectID { return a.User }

// --- CREATE APPOINTMENT ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "create appointment", err)
		return
	}

	var req createAppointmentRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create appointment", err)
		return
	}

	if req.Date.IsZero() {
		h.respondError(c, "create appointment", errValidation("Please provide all required fields: date"))
		return
	}
	reminders, err := buildReminders(req.Reminders)
	if err != nil {
		h.respondError(c, "create appointment", err)
		return
	}

	apt := &models.Appointment{
		User:     userID,
		Title:    strings.TrimSpace(req.Title),
		Date:     req.Date.Time,
		Time:     req.Time,
		Type:     req.Type,
		Doctor:   req.Doctor,
		Location: req.Location,
		Notes:    req.Notes,
		Status:   req.Status,
	}
	if apt.Type == "" {
		apt.Type = models.TypeCheckup
	}
	if apt.Status == "" {
		apt.Status = models.StatusScheduled
	}
	apt.Reminders = reminders
	if req.Reminders == nil {
		apt.Reminders = defaultReminders(apt, req.Reminder)
	}

	if err := h.Stores.Appointments.Create(c.Request.Context(), apt); err != nil {
		h.respondError(c, "create appointment", err)
		return
	}

	h.notifyAppointment(c, apt, Notifier.SendAppointmentConfirmationSMS)

	respondCreated(c, apt)
}

// --- GET APPOINTMENTS (with Filtering & Sorting) ---
func (h *Handler) GetAppointments(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "list appointments", err)
		return
	}

	// e.g. /api/appointments?status=scheduled&startDate=2025-07-01&endDate=2025-07-31
	filter := store.AppointmentFilter{User: userID, Status: c.Query("status")}
	if filter.Status != "" && !models.AppointmentStatus(filter.Status).Valid() {
		h.respondError(c, "list appointments", errValidation("Invalid status filter"))
		return
	}
	if filter.From, err = queryDate(c, "startDate"); err != nil {
		h.respondError(c, "list appointments", err)
		return
	}
	if filter.To, err = queryDate(c, "endDate"); err != nil {
		h.respondError(c, "list appointments", err)
		return
	}
	// A bare end date includes the whole day.
	if filter.To != nil && len(c.Query("endDate")) == len("2006-01-02") {
		_, end := models.DayBounds(*filter.To)
		filter.To = &end
	}

	appointments, err := h.Stores.Appointments.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "list appointments", err)
		return
	}
	respondOK(c, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.ownedAppointment(c)
	if err != nil {
		h.respondError(c, "get appointment", err)
		return
	}
	respondOK(c, apt)
}

// --- UPDATE APPOINTMENT ---
// Fields missing from the body keep their stored value.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	apt, err := h.ownedAppointment(c)
	if err != nil {
		h.respondError(c, "update appointment", err)
		return
	}

	var req updateAppointmentRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update appointment", err)
		return
	}

	reminders, err := buildReminders(req.Reminders)
	if err != nil {
		h.respondError(c, "update appointment", err)
		return
	}
	start := appointmentStart(apt.Date, apt.Time)

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			h.respondError(c, "update appointment", errValidation("Title cannot be empty"))
			return
		}
		apt.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			h.respondError(c, "update appointment", errValidation("Date cannot be empty"))
			return
		}
		apt.Date = req.Date.Time
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}
	if req.Type != nil {
		apt.Type = *req.Type
	}
	if req.Doctor != nil {
		apt.Doctor = *req.Doctor
	}
	if req.Location != nil {
		apt.Location = *req.Location
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if req.Reminders != nil {
		apt.Reminders = reminders
	} else if moved := appointmentStart(apt.Date, apt.Time).Sub(start); moved != 0 {
		apt.ShiftReminders(moved, time.Now().UTC())
	}
	if req.Status != nil {
		apt.SetStatus(*req.Status)
	}

	if err := h.Stores.Appointments.Replace(c.Request.Context(), apt); err != nil {
		h.respondError(c, "update appointment", err)
		return
	}
	respondOK(c, apt)
}

// --- CANCEL APPOINTMENT ---
// Cancelling an already cancelled appointment succeeds without side effects.
func (h *Handler) CancelAppointment(c *gin.Context) {
	apt, err := h.ownedAppointment(c)
	if err != nil {
		h.respondError(c, "cancel appointment", err)
		return
	}

	wasCancelled := apt.Status == models.StatusCancelled
	apt.Cancel()
	if !wasCancelled {
		if err := h.Stores.Appointments.Replace(c.Request.Context(), apt); err != nil {
			h.respondError(c, "cancel appointment", err)
			return
		}
		h.notifyAppointment(c, apt, Notifier.SendAppointmentCancellationSMS)
	}

	respondOK(c, apt, "Appointment cancelled")
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	apt, err := h.ownedAppointment(c)
	if err != nil {
		h.respondError(c, "delete appointment", err)
		return
	}
	if err := h.Stores.Appointments.Delete(c.Request.Context(), apt.ID); err != nil {
		h.respondError(c, "delete appointment", err)
		return
	}
	respondOK(c, nil, "Appointment removed")
}

func (h *Handler) ownedAppointment(c *gin.Context) (*models.Appointment, error) {
	userID, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id", "appointment")
	if err != nil {
		return nil, err
	}
	return loadOwned(c.Request.Context(), h.Stores.Appointments.FindByID, id, userID, appointmentOwner, "Appointment")
}

// notifyAppointment looks up the owner for the SMS preference and phone
// number. A failed lookup only costs the notification.
func (h *Handler) notifyAppointment(c *gin.Context, apt *models.Appointment, send func(Notifier, *models.User, *models.Appointment)) {
	if h.NotificationSvc == nil {
		return
	}
	user, err := h.Stores.Users.FindByID(c.Request.Context(), apt.User)
	if err != nil {
		utils.Zlog.Warn("appointment notification skipped",
			zap.String("appointmentId", apt.ID.Hex()),
			zap.Error(err),
		)
		return
	}
	send(h.NotificationSvc, user, apt)
}

func buildReminders(reqs []reminderRequest) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0, len(reqs))
	for _, r := range reqs {
		if r.Date.IsZero() {
			return nil, errValidation("Please provide all required fields: reminders.date")
		}
		channel := r.Channel
		if channel == "" {
			channel = models.ChannelSMS
		}
		reminders = append(reminders, models.Reminder{Date: r.Date.Time, Channel: channel})
	}
	return reminders, nil
}

// defaultReminders schedules one SMS reminder ahead of the appointment unless
// the client switched reminders off.
func defaultReminders(apt *models.Appointment, setting *reminderSetting) []models.Reminder {
	lead := defaultReminderLead
	if setting != nil {
		if setting.Enabled != nil && !*setting.Enabled {
			return []models.Reminder{}
		}
		if setting.Time != nil && *setting.Time > 0 {
			lead = time.Duration(*setting.Time) * time.Hour
		}
	}
	return []models.Reminder{{
		Date:    appointmentStart(apt.Date, apt.Time).Add(-lead),
		Channel: models.ChannelSMS,
	}}
}

// appointmentStart combines the appointment day with its "HH:MM" time when
// the time is parseable.
func appointmentStart(day time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return day
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}
