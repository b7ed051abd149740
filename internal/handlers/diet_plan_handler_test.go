package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() gin.H {
	return gin.H{
		"breakfast": []gin.H{{"recipe_id": 9, "comment": "Porridge"}},
		"lunch":     []gin.H{{"recipe_id": 1, "comment": "Salad"}},
		"snacks":    []gin.H{{"name": "Fruit", "description": "Seasonal fruit", "calories": 60}},
	}
}

func TestCreateDietPlanDefaults(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "Ana", "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"diet_plan": samplePlan()}, ana.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan models.DietPlan
	decodeData(t, w, &plan)
	assert.Equal(t, models.DefaultDietPlanName, plan.Name)
	assert.Equal(t, models.DefaultDietPlanDescription, plan.Description)
	assert.Equal(t, models.DefaultCalorieGoal, plan.CalorieGoal)
	assert.Len(t, plan.Plan.Breakfast, 1)
	assert.NotNil(t, plan.Plan.Dinner)

	w = env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"name": "Empty"}, ana.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Message, "diet_plan")

	w = env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"diet_plan": gin.H{
		"breakfast": []gin.H{{"recipe_id": 9}},
	}}, ana.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Message, "comment")
}

func TestCurrentDietPlanIsMostRecent(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "Ana", "ana@example.com")

	w := env.do(t, http.MethodGet, "/api/diet-plans/user", nil, ana.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"name": "Old", "diet_plan": samplePlan()}, ana.token)
	env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"name": "New", "diet_plan": samplePlan(), "calorieGoal": 2300}, ana.token)

	w = env.do(t, http.MethodGet, "/api/diet-plans/user", nil, ana.token)
	require.Equal(t, http.StatusOK, w.Code)
	var plan models.DietPlan
	decodeData(t, w, &plan)
	assert.Equal(t, "New", plan.Name)
	assert.Equal(t, 2300, plan.CalorieGoal)

	var plans []models.DietPlan
	w = env.do(t, http.MethodGet, "/api/diet-plans", nil, ana.token)
	decodeData(t, w, &plans)
	assert.Len(t, plans, 2)
}

func TestUpdateAndDeleteDietPlan(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "Ana", "ana@example.com")
	bea := env.register(t, "Bea", "bea@example.com")

	w := env.do(t, http.MethodPost, "/api/diet-plans", gin.H{"name": "Mine", "diet_plan": samplePlan()}, ana.token)
	var plan models.DietPlan
	decodeData(t, w, &plan)
	path := "/api/diet-plans/" + plan.ID.Hex()

	w = env.do(t, http.MethodPut, path, gin.H{"name": "Stolen"}, bea.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPut, path, gin.H{"calorieGoal": 2450}, ana.token)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.DietPlan
	decodeData(t, w, &updated)
	assert.Equal(t, "Mine", updated.Name)
	assert.Equal(t, 2450, updated.CalorieGoal)
	assert.Len(t, updated.Plan.Breakfast, 1)

	w = env.do(t, http.MethodDelete, path, nil, bea.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, http.MethodDelete, path, nil, ana.token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, path, nil, ana.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateDietPlan(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "Ana", "ana@example.com")

	w := env.do(t, http.MethodPost, "/api/diet-plans/generate", gin.H{"calorieGoal": 2200, "pregnancyStage": "Second Trimester"}, ana.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan models.DietPlan
	decodeData(t, w, &plan)
	assert.Equal(t, "Second Trimester Diet Plan", plan.Name)
	assert.Equal(t, 2200, plan.CalorieGoal)
	assert.Equal(t, models.TemplatePlan(), plan.Plan)

	// Without a goal the user's computed target is used.
	w = env.do(t, http.MethodPost, "/api/diet-plans/generate", nil, ana.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &plan)
	assert.Equal(t, "Custom Diet Plan", plan.Name)
	assert.Equal(t, 1917, plan.CalorieGoal)
}

func TestCaloriesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ana := env.register(t, "Ana", "ana@example.com")

	var got caloriesResponse
	w := env.do(t, http.MethodGet, "/api/diet-plan", nil, ana.token)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &got)
	assert.Equal(t, 1917, got.Calories)

	u, _ := env.users.FindByID(context.Background(), ana.id)
	u.HealthInfo = models.HealthInfo{Weight: 60, Height: 165, Age: 30, ActivityLevel: "light", IsPregnant: true, Trimester: "second"}
	require.NoError(t, env.users.Replace(context.Background(), u))

	w = env.do(t, http.MethodGet, "/api/diet-plan", nil, ana.token)
	decodeData(t, w, &got)
	assert.Equal(t, 2257, got.Calories)

	for _, bad := range []interface{}{0, -5, "abc"} {
		w = env.do(t, http.MethodPost, "/api/diet-plan", gin.H{"calories": bad}, ana.token)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w = env.do(t, http.MethodPost, "/api/diet-plan", gin.H{"calories": 2100}, ana.token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/diet-plan", nil, ana.token)
	decodeData(t, w, &got)
	assert.Equal(t, 2100, got.Calories)
}
