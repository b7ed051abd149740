package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/nutrition"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
)

type pregnancyDetailsPatch struct {
	DueDate          *flexTime                 `json:"dueDate"`
	WeeksPregnant    *int                      `json:"weeksPregnant" binding:"omitempty,min=0,max=45"`
	Trimester        *string                   `json:"trimester"`
	PregnancyHistory []models.PregnancyOutcome `json:"pregnancyHistory"`
}

type healthInfoPatch struct {
	BloodType     *string    `json:"bloodType"`
	Allergies     []string   `json:"allergies"`
	Medications   []string   `json:"medications"`
	Conditions    []string   `json:"conditions"`
	Calories      *flexFloat `json:"calories"`
	Weight        *flexFloat `json:"weight"`
	Height        *flexFloat `json:"height"`
	Age           *int       `json:"age" binding:"omitempty,min=0,max=120"`
	ActivityLevel *string    `json:"activityLevel" binding:"omitempty,oneof=sedentary light moderate active veryActive"`
	IsPregnant    *bool      `json:"isPregnant"`
	Trimester     *string    `json:"trimester"`
}

type notificationsPatch struct {
	Email *bool `json:"email"`
	Push  *bool `json:"push"`
	SMS   *bool `json:"sms"`
}

type preferencesPatch struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
	Units    *string `json:"units" binding:"omitempty,oneof=Imperial Metric"`
}

// updateProfileRequest merges into the stored user field by field, nested
// objects included.
type updateProfileRequest struct {
	Name             *string                `json:"name"`
	Email            *string                `json:"email" binding:"omitempty,email"`
	Password         *string                `json:"password" binding:"omitempty,min=6"`
	Phone            *string                `json:"phone"`
	DateOfBirth      *flexTime              `json:"dateOfBirth"`
	Gender           *string                `json:"gender" binding:"omitempty,oneof=female male other"`
	Address          *string                `json:"address"`
	Bio              *string                `json:"bio"`
	ProfilePicture   *string                `json:"profilePicture"`
	PregnancyDetails *pregnancyDetailsPatch `json:"pregnancyDetails"`
	HealthInfo       *healthInfoPatch       `json:"healthInfo"`
	Notifications    *notificationsPatch    `json:"notifications"`
	Preferences      *preferencesPatch      `json:"preferences"`
}

type weightRequest struct {
	Weight *flexFloat `json:"weight" binding:"required"`
	Date   *flexTime  `json:"date"`
}

type nutritionResponse struct {
	Calories    int               `json:"calories"`
	Maintenance int               `json:"maintenance"`
	Trimester   string            `json:"trimester"`
	Macros      nutrition.Macros  `json:"macros"`
	Consumed    models.MealTotals `json:"consumed"`
	Remaining   int               `json:"remaining"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "get profile", err)
		return
	}
	respondOK(c, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "update profile", err)
		return
	}

	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update profile", err)
		return
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			h.respondError(c, "update profile", err)
			return
		}
		user.Password = hash
	}
	req.apply(user)

	err = h.Stores.Users.Replace(c.Request.Context(), user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		err = errConflict("An account with this email already exists")
	}
	if err != nil {
		h.respondError(c, "update profile", err)
		return
	}
	respondOK(c, user)
}

// DeleteProfile removes the account with its appointments, meals and diet
// plans. Community questions and answers stay.
func (h *Handler) DeleteProfile(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "delete profile", err)
		return
	}

	ctx := c.Request.Context()
	cascade := []func() error{
		func() error { return h.Stores.Appointments.DeleteByUser(ctx, user.ID) },
		func() error { return h.Stores.Meals.DeleteByUser(ctx, user.ID) },
		func() error { return h.Stores.DietPlans.DeleteByUser(ctx, user.ID) },
		func() error { return h.Stores.Users.Delete(ctx, user.ID) },
	}
	for _, step := range cascade {
		if err := step(); err != nil {
			h.respondError(c, "delete profile", err)
			return
		}
	}
	respondOK(c, nil, "User account deleted")
}

func (h *Handler) LogWeight(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "log weight", err)
		return
	}

	var req weightRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "log weight", err)
		return
	}
	if req.Weight.value() <= 0 {
		h.respondError(c, "log weight", errValidation("Please provide a valid weight"))
		return
	}

	at := time.Now().UTC()
	if req.Date != nil && !req.Date.IsZero() {
		at = req.Date.Time
	}
	entry := user.LogWeight(req.Weight.value(), at)

	if err := h.Stores.Users.Replace(c.Request.Context(), user); err != nil {
		h.respondError(c, "log weight", err)
		return
	}
	respondCreated(c, entry)
}

func (h *Handler) GetWeightHistory(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "weight history", err)
		return
	}
	history := user.WeightHistory
	if history == nil {
		history = []models.WeightEntry{}
	}
	respondOK(c, history)
}

// GetNutrition reports the daily target, its macro split and what today's
// logged meals already cover.
func (h *Handler) GetNutrition(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "nutrition", err)
		return
	}

	start, end := models.DayBounds(time.Now())
	meals, err := h.Stores.Meals.List(c.Request.Context(), store.MealFilter{User: user.ID, From: &start, To: &end})
	if err != nil {
		h.respondError(c, "nutrition", err)
		return
	}

	profile := nutritionProfile(user)
	calories := targetCalories(user)
	consumed := models.SumMeals(meals)

	respondOK(c, nutritionResponse{
		Calories:    calories,
		Maintenance: roundCalories(profile.Maintenance()),
		Trimester:   string(profile.Trimester),
		Macros:      nutrition.MacroSplit(calories),
		Consumed:    consumed,
		Remaining:   calories - roundCalories(consumed.Calories),
	})
}

// nutritionProfile reads the calculator inputs from the profile. The
// trimester addition only applies while the user is pregnant; postnatal
// always counts.
func nutritionProfile(u *models.User) nutrition.Profile {
	hi := u.HealthInfo
	p := nutrition.Profile{
		WeightKg:      hi.Weight,
		HeightCm:      hi.Height,
		Age:           float64(hi.Age),
		ActivityLevel: hi.ActivityLevel,
	}
	if p.WeightKg <= 0 {
		p.WeightKg = u.LatestWeight()
	}

	stage := hi.Trimester
	if stage == "" {
		stage = u.PregnancyDetails.Trimester
	}
	t := nutrition.ParseTrimester(stage)
	if t == nutrition.TrimesterNone {
		t = nutrition.TrimesterForWeeks(u.PregnancyDetails.WeeksPregnant)
	}
	if t != nutrition.TrimesterPostnatal {
		if !hi.IsPregnant {
			t = nutrition.TrimesterNone
		} else if t == nutrition.TrimesterNone {
			t = nutrition.TrimesterFirst
		}
	}
	p.Trimester = t
	return p.WithDefaults()
}

// targetCalories prefers the figure the user stored explicitly.
func targetCalories(u *models.User) int {
	if u.HealthInfo.Calories > 0 {
		return u.HealthInfo.Calories
	}
	return nutritionProfile(u).DailyCalories()
}

func (r *updateProfileRequest) apply(u *models.User) {
	setString(&u.Name, r.Name, false)
	setString(&u.Email, r.Email, false)
	setString(&u.Phone, r.Phone, true)
	setString(&u.Gender, r.Gender, false)
	setString(&u.Address, r.Address, true)
	setString(&u.Bio, r.Bio, true)
	setString(&u.ProfilePicture, r.ProfilePicture, true)
	if r.DateOfBirth != nil && !r.DateOfBirth.IsZero() {
		dob := r.DateOfBirth.Time
		u.DateOfBirth = &dob
	}

	if p := r.PregnancyDetails; p != nil {
		pd := &u.PregnancyDetails
		if p.DueDate != nil && !p.DueDate.IsZero() {
			due := p.DueDate.Time
			pd.DueDate = &due
		}
		if p.WeeksPregnant != nil {
			pd.WeeksPregnant = *p.WeeksPregnant
		}
		setString(&pd.Trimester, p.Trimester, true)
		if p.PregnancyHistory != nil {
			pd.PregnancyHistory = p.PregnancyHistory
		}
	}

	if p := r.HealthInfo; p != nil {
		hi := &u.HealthInfo
		setString(&hi.BloodType, p.BloodType, true)
		if p.Allergies != nil {
			hi.Allergies = p.Allergies
		}
		if p.Medications != nil {
			hi.Medications = p.Medications
		}
		if p.Conditions != nil {
			hi.Conditions = p.Conditions
		}
		if p.Calories != nil {
			hi.Calories = roundCalories(p.Calories.value())
		}
		if p.Weight != nil {
			hi.Weight = p.Weight.value()
		}
		if p.Height != nil {
			hi.Height = p.Height.value()
		}
		if p.Age != nil {
			hi.Age = *p.Age
		}
		setString(&hi.ActivityLevel, p.ActivityLevel, true)
		if p.IsPregnant != nil {
			hi.IsPregnant = *p.IsPregnant
		}
		setString(&hi.Trimester, p.Trimester, true)
	}

	if p := r.Notifications; p != nil {
		setBool(&u.Notifications.Email, p.Email)
		setBool(&u.Notifications.Push, p.Push)
		setBool(&u.Notifications.SMS, p.SMS)
	}

	if p := r.Preferences; p != nil {
		setString(&u.Preferences.Language, p.Language, false)
		setString(&u.Preferences.Theme, p.Theme, false)
		setString(&u.Preferences.Units, p.Units, false)
	}
}

// setString copies src into dst when present. Empty values are ignored
// unless the field may be cleared.
func setString(dst *string, src *string, clearable bool) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" && !clearable {
		return
	}
	*dst = v
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
