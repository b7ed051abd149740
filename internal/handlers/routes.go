package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/middleware"
)

// RegisterRoutes mounts the API on r. Every route requires a bearer token
// except registration, login, password reset, public question and post reads
// and the health checks.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	protect := middleware.Protect(h.Tokens, http.StatusUnauthorized)
	// Meal routes have always answered 403 for a bad token.
	protectMeals := middleware.Protect(h.Tokens, http.StatusForbidden)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})

	api := r.Group("/api")
	api.GET("/health", h.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.GET("/login", h.LoginMethodNotAllowed)
		auth.GET("/me", protect, h.GetCurrentUser)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	appointments := api.Group("/appointments", protect)
	{
		appointments.GET("", h.GetAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
		appointments.PUT("/:id/cancel", h.CancelAppointment)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
	}

	meals := api.Group("/meals", protectMeals)
	{
		meals.GET("", h.GetMeals)
		meals.POST("", h.CreateMeal)
		meals.GET("/:id", h.GetMeal)
		meals.PUT("/:id", h.UpdateMeal)
		meals.DELETE("/:id", h.DeleteMeal)
	}

	dietPlans := api.Group("/diet-plans", protect)
	{
		dietPlans.GET("", h.GetDietPlans)
		dietPlans.POST("", h.CreateDietPlan)
		dietPlans.GET("/user", h.GetCurrentDietPlan)
		dietPlans.POST("/generate", h.GenerateDietPlan)
		dietPlans.PUT("/:id", h.UpdateDietPlan)
		dietPlans.DELETE("/:id", h.DeleteDietPlan)
	}

	calories := api.Group("/diet-plan", protect)
	{
		calories.GET("", h.GetCalories)
		calories.POST("", h.UpdateCalories)
	}

	community := api.Group("/community")
	{
		community.GET("/questions", h.GetQuestions)
		community.GET("/questions/:id", h.GetQuestion)
		community.POST("/questions", protect, h.CreateQuestion)
		community.PUT("/questions/:id", protect, h.UpdateQuestion)
		community.DELETE("/questions/:id", protect, h.DeleteQuestion)
		community.POST("/questions/:id/answers", protect, h.AddAnswer)
		community.POST("/questions/:id/like", protect, h.LikeQuestion)
		community.POST("/questions/:id/answers/:answerId/like", protect, h.LikeAnswer)
		community.PUT("/questions/:id/answers/:answerId/accept", protect, h.AcceptAnswer)

		community.GET("/posts", h.GetPosts)
		community.GET("/posts/:id", h.GetPost)
		community.POST("/posts", protect, h.CreatePost)
		community.PUT("/posts/:id", protect, h.UpdatePost)
		community.DELETE("/posts/:id", protect, h.DeletePost)
		community.PUT("/posts/:id/like", protect, h.LikePost)
		community.POST("/posts/:id/comments", protect, h.AddComment)
		community.DELETE("/posts/:id/comments/:commentId", protect, h.DeleteComment)
	}

	users := api.Group("/users", protect)
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", h.UpdateProfile)
		users.DELETE("/profile", h.DeleteProfile)
		users.GET("/weight", h.GetWeightHistory)
		users.POST("/weight", h.LogWeight)
		users.GET("/nutrition", h.GetNutrition)
	}

	api.POST("/chat", protect, h.HandleChat)
}
