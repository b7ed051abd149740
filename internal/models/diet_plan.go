package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultDietPlanName        = "My Diet Plan"
	DefaultDietPlanDescription = "Personalized diet plan for pregnancy"
	DefaultCalorieGoal         = 2000
)

type DietPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Plan        DietPlanContent    `bson:"diet_plan" json:"diet_plan"`
	CalorieGoal int                `bson:"calorieGoal" json:"calorieGoal"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DietPlanContent struct {
	Breakfast []MealItem  `bson:"breakfast" json:"breakfast" binding:"dive"`
	Lunch     []MealItem  `bson:"lunch" json:"lunch" binding:"dive"`
	Dinner    []MealItem  `bson:"dinner" json:"dinner" binding:"dive"`
	Snacks    []SnackItem `bson:"snacks" json:"snacks" binding:"dive"`
}

type MealItem struct {
	RecipeID int    `bson:"recipe_id" json:"recipe_id" binding:"required"`
	Comment  string `bson:"comment" json:"comment" binding:"required"`
}

type SnackItem struct {
	Name        string  `bson:"name" json:"name" binding:"required"`
	Description string  `bson:"description" json:"description" binding:"required"`
	Calories    float64 `bson:"calories" json:"calories"`
}

// Normalize replaces nil lists with empty ones so clients always see arrays.
func (c *DietPlanContent) Normalize() {
	if c.Breakfast == nil {
		c.Breakfast = []MealItem{}
	}
	if c.Lunch == nil {
		c.Lunch = []MealItem{}
	}
	if c.Dinner == nil {
		c.Dinner = []MealItem{}
	}
	if c.Snacks == nil {
		c.Snacks = []SnackItem{}
	}
}

// TemplatePlan is the starter plan handed out by plan generation.
func TemplatePlan() DietPlanContent {
	return DietPlanContent{
		Breakfast: []MealItem{
			{RecipeID: 9, Comment: "A nutrient-dense breakfast option suitable for your dietary needs."},
			{RecipeID: 10, Comment: "A fiber-rich breakfast option to start your day."},
		},
		Lunch: []MealItem{
			{RecipeID: 1, Comment: "A balanced lunch option with protein and vegetables."},
			{RecipeID: 3, Comment: "A nutritious lunch that provides sustained energy."},
		},
		Dinner: []MealItem{
			{RecipeID: 2, Comment: "A well-balanced dinner with lean protein and complex carbs."},
			{RecipeID: 11, Comment: "A nutritious dinner option rich in essential nutrients."},
		},
		Snacks: []SnackItem{
			{Name: "Fresh Fruit Mix", Description: "A mix of seasonal fruits for a natural energy boost.", Calories: 60},
			{Name: "Greek Yogurt with Honey", Description: "Protein-rich snack to keep you satisfied between meals.", Calories: 120},
		},
	}
}
