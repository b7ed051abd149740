package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createMealRequest struct {
	Name     string     `json:"name" binding:"required"`
	Type     string     `json:"type" binding:"required,meal_type"`
	Calories *flexFloat `json:"calories" binding:"required"`
	Protein  *flexFloat `json:"protein"`
	Carbs    *flexFloat `json:"carbs"`
	Fat      *flexFloat `json:"fat"`
	Notes    string     `json:"notes"`
	Date     *flexTime  `json:"date"`
}

type updateMealRequest struct {
	Name     *string    `json:"name"`
	Type     *string    `json:"type" binding:"omitempty,meal_type"`
	Calories *flexFloat `json:"calories"`
	Protein  *flexFloat `json:"protein"`
	Carbs    *flexFloat `json:"carbs"`
	Fat      *flexFloat `json:"fat"`
	Notes    *string    `json:"notes"`
	Date     *flexTime  `json:"date"`
}

func mealOwner(m *models.Meal) primitive.ObjectID { return m.User }

// GetMeals lists the requester's meals, optionally for one day (?date=YYYY-MM-DD).
func (h *Handler) GetMeals(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "list meals", err)
		return
	}

	filter := store.MealFilter{User: userID}
	day, err := queryDate(c, "date")
	if err != nil {
		h.respondError(c, "list meals", err)
		return
	}
	if day != nil {
		start, end := models.DayBounds(*day)
		filter.From, filter.To = &start, &end
	}

	meals, err := h.Stores.Meals.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "list meals", err)
		return
	}
	respondOK(c, meals)
}

func (h *Handler) GetMeal(c *gin.Context) {
	meal, err := h.ownedMeal(c)
	if err != nil {
		h.respondError(c, "get meal", err)
		return
	}
	respondOK(c, meal)
}

func (h *Handler) CreateMeal(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "create meal", err)
		return
	}

	var req createMealRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create meal", err)
		return
	}
	mealType, _ := models.ParseMealType(req.Type)

	meal := &models.Meal{
		User:     userID,
		Name:     strings.TrimSpace(req.Name),
		Type:     mealType,
		Calories: req.Calories.value(),
		Protein:  req.Protein.value(),
		Carbs:    req.Carbs.value(),
		Fat:      req.Fat.value(),
		Notes:    req.Notes,
		Date:     time.Now().UTC(),
	}
	if req.Date != nil && !req.Date.IsZero() {
		meal.Date = req.Date.Time
	}

	if err := h.Stores.Meals.Create(c.Request.Context(), meal); err != nil {
		h.respondError(c, "create meal", err)
		return
	}
	respondCreated(c, meal)
}

// UpdateMeal patches the meal; absent fields keep their value.
func (h *Handler) UpdateMeal(c *gin.Context) {
	meal, err := h.ownedMeal(c)
	if err != nil {
		h.respondError(c, "update meal", err)
		return
	}

	var req updateMealRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update meal", err)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			h.respondError(c, "update meal", errValidation("Name cannot be empty"))
			return
		}
		meal.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		meal.Type, _ = models.ParseMealType(*req.Type)
	}
	if req.Calories != nil {
		meal.Calories = req.Calories.value()
	}
	if req.Protein != nil {
		meal.Protein = req.Protein.value()
	}
	if req.Carbs != nil {
		meal.Carbs = req.Carbs.value()
	}
	if req.Fat != nil {
		meal.Fat = req.Fat.value()
	}
	if req.Notes != nil {
		meal.Notes = *req.Notes
	}
	if req.Date != nil && !req.Date.IsZero() {
		meal.Date = req.Date.Time
	}

	if err := h.Stores.Meals.Replace(c.Request.Context(), meal); err != nil {
		h.respondError(c, "update meal", err)
		return
	}
	respondOK(c, meal)
}

func (h *Handler) DeleteMeal(c *gin.Context) {
	meal, err := h.ownedMeal(c)
	if err != nil {
		h.respondError(c, "delete meal", err)
		return
	}
	if err := h.Stores.Meals.Delete(c.Request.Context(), meal.ID); err != nil {
		h.respondError(c, "delete meal", err)
		return
	}
	respondOK(c, nil, "Meal removed")
}

// ownedMeal rejects a malformed id before the store is consulted.
func (h *Handler) ownedMeal(c *gin.Context) (*models.Meal, error) {
	userID, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id", "meal")
	if err != nil {
		return nil, err
	}
	return loadOwned(c.Request.Context(), h.Stores.Meals.FindByID, id, userID, mealOwner, "Meal")
}
