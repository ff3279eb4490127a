package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/weaverapp/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Chat    *apiHandler.ChatHandler
	Plan    *apiHandler.PlanHandler
	Task    *apiHandler.TaskHandler
	Profile *apiHandler.ProfileHandler
	History *apiHandler.HistoryHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.POST("/api/v1/chat/message", authMiddleware(handlers.Chat.Message))
	r.GET("/api/v1/chat/history", authMiddleware(handlers.Chat.History))
	r.GET("/api/v1/chat/session/{id}", authMiddleware(handlers.Chat.GetSession))
	r.GET("/api/v1/chat/latest-plan", authMiddleware(handlers.Chat.LatestPlan))

	r.GET("/api/v1/plans", authMiddleware(handlers.Plan.GetPlans))
	r.POST("/api/v1/plans", authMiddleware(handlers.Plan.CreatePlan))
	r.GET("/api/v1/plans/{id}", authMiddleware(handlers.Plan.GetPlan))
	r.PUT("/api/v1/plans/{id}", authMiddleware(handlers.Plan.UpdatePlan))
	r.DELETE("/api/v1/plans/{id}", authMiddleware(handlers.Plan.DeletePlan))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/generate", authMiddleware(handlers.Task.GenerateTasks))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))
	r.PUT("/api/v1/profile/password", authMiddleware(handlers.Profile.ChangePassword))
	r.GET("/api/v1/profile/stats", authMiddleware(handlers.Profile.Stats))
	r.DELETE("/api/v1/account", authMiddleware(handlers.Profile.DeleteAccount))

	r.GET("/api/v1/history", authMiddleware(handlers.History.Feed))

	return r
}
