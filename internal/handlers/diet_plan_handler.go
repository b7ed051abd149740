package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createDietPlanRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Plan        *models.DietPlanContent `json:"diet_plan" binding:"required"`
	CalorieGoal *flexFloat              `json:"calorieGoal"`
}

type updateDietPlanRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Plan        *models.DietPlanContent `json:"diet_plan"`
	CalorieGoal *flexFloat              `json:"calorieGoal"`
}

type generateDietPlanRequest struct {
	CalorieGoal    *flexFloat `json:"calorieGoal"`
	PregnancyStage string     `json:"pregnancyStage"`
}

type caloriesRequest struct {
	Calories *flexFloat `json:"calories"`
}

type caloriesResponse struct {
	Calories int `json:"calories"`
}

func dietPlanOwner(p *models.DietPlan) primitive.ObjectID { return p.User }

func (h *Handler) GetDietPlans(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "list diet plans", err)
		return
	}
	plans, err := h.Stores.DietPlans.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "list diet plans", err)
		return
	}
	respondOK(c, plans)
}

// GetCurrentDietPlan returns the most recently created plan.
func (h *Handler) GetCurrentDietPlan(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "current diet plan", err)
		return
	}
	plan, err := h.Stores.DietPlans.Latest(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		err = errNotFound("No diet plan found for this user")
	}
	if err != nil {
		h.respondError(c, "current diet plan", err)
		return
	}
	respondOK(c, plan)
}

func (h *Handler) CreateDietPlan(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "create diet plan", err)
		return
	}

	var req createDietPlanRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create diet plan", err)
		return
	}

	plan := &models.DietPlan{
		User:        userID,
		Name:        orDefault(req.Name, models.DefaultDietPlanName),
		Description: orDefault(req.Description, models.DefaultDietPlanDescription),
		Plan:        *req.Plan,
		CalorieGoal: models.DefaultCalorieGoal,
	}
	if goal := roundCalories(req.CalorieGoal.value()); goal > 0 {
		plan.CalorieGoal = goal
	}

	if err := h.Stores.DietPlans.Create(c.Request.Context(), plan); err != nil {
		h.respondError(c, "create diet plan", err)
		return
	}
	respondCreated(c, plan)
}

func (h *Handler) UpdateDietPlan(c *gin.Context) {
	plan, err := h.ownedDietPlan(c)
	if err != nil {
		h.respondError(c, "update diet plan", err)
		return
	}

	var req updateDietPlanRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update diet plan", err)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Plan != nil {
		plan.Plan = *req.Plan
	}
	if goal := roundCalories(req.CalorieGoal.value()); goal > 0 {
		plan.CalorieGoal = goal
	}

	if err := h.Stores.DietPlans.Replace(c.Request.Context(), plan); err != nil {
		h.respondError(c, "update diet plan", err)
		return
	}
	respondOK(c, plan)
}

func (h *Handler) DeleteDietPlan(c *gin.Context) {
	plan, err := h.ownedDietPlan(c)
	if err != nil {
		h.respondError(c, "delete diet plan", err)
		return
	}
	if err := h.Stores.DietPlans.Delete(c.Request.Context(), plan.ID); err != nil {
		h.respondError(c, "delete diet plan", err)
		return
	}
	respondOK(c, nil, "Diet plan removed")
}

// GenerateDietPlan stores a starter plan. Without an explicit goal the
// requester's own daily target is used.
func (h *Handler) GenerateDietPlan(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "generate diet plan", err)
		return
	}

	var req generateDietPlanRequest
	// An empty body is fine here.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, "generate diet plan", bindError(err))
		return
	}

	goal := roundCalories(req.CalorieGoal.value())
	if goal <= 0 {
		goal = targetCalories(user)
	}
	stage := strings.TrimSpace(req.PregnancyStage)
	if stage == "" {
		stage = "Custom"
	}

	plan := &models.DietPlan{
		User:        user.ID,
		Name:        stage + " Diet Plan",
		Description: fmt.Sprintf("Auto-generated diet plan with a calorie goal of %d.", goal),
		Plan:        models.TemplatePlan(),
		CalorieGoal: goal,
	}
	if err := h.Stores.DietPlans.Create(c.Request.Context(), plan); err != nil {
		h.respondError(c, "generate diet plan", err)
		return
	}
	respondCreated(c, plan)
}

// GetCalories answers the stored daily calorie figure, or computes one.
func (h *Handler) GetCalories(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "get calories", err)
		return
	}
	respondOK(c, caloriesResponse{Calories: targetCalories(user)})
}

func (h *Handler) UpdateCalories(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "update calories", err)
		return
	}

	var req caloriesRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update calories", err)
		return
	}
	calories := roundCalories(req.Calories.value())
	if calories <= 0 {
		h.respondError(c, "update calories", errValidation("Please provide a valid calorie value"))
		return
	}

	user.HealthInfo.Calories = calories
	if err := h.Stores.Users.Replace(c.Request.Context(), user); err != nil {
		h.respondError(c, "update calories", err)
		return
	}
	respondOK(c, caloriesResponse{Calories: calories})
}

func (h *Handler) ownedDietPlan(c *gin.Context) (*models.DietPlan, error) {
	userID, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id", "diet plan")
	if err != nil {
		return nil, err
	}
	return loadOwned(c.Request.Context(), h.Stores.DietPlans.FindByID, id, userID, dietPlanOwner, "Diet plan")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

func roundCalories(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
