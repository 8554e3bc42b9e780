package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/middleware"
	"github.com/sahidx/saroyar-sub004/internal/models"
)

// Handlers groups every API handler mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Batches    *BatchHandler
	Exams      *ExamHandler
	Attendance *AttendanceHandler
	Bonuses    *BonusHandler
	Calendar   *CalendarHandler
	Results    *ResultHandler
}

// RegisterRoutes mounts the API on api, protecting everything but login with tokens.
func RegisterRoutes(api *gin.RouterGroup, tokens middleware.TokenValidator, h Handlers) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	secured.POST("/users", admin, h.Auth.CreateUser)

	secured.GET("/batches", staff, h.Batches.List)
	secured.POST("/batches", admin, h.Batches.Create)
	secured.GET("/batches/:id/students", staff, h.Batches.Students)
	secured.POST("/batches/:id/students", admin, h.Batches.Enroll)

	secured.POST("/exams", staff, h.Exams.Create)
	secured.POST("/exams/:id/scores", staff, h.Exams.SubmitScores)

	secured.POST("/attendance", staff, h.Attendance.Mark)

	secured.GET("/calendar/holidays", h.Calendar.Holidays)
	secured.POST("/calendar/holidays", admin, h.Calendar.CreateHoliday)
	secured.GET("/calendar/working-days", h.Calendar.WorkingDays)

	secured.PUT("/results/bonus", staff, h.Bonuses.Set)
	secured.POST("/results/generate", staff, h.Results.Generate)
	secured.POST("/results/generate/async", staff, h.Results.GenerateAsync)
	secured.GET("/results/:batchId/:year/:month", staff, h.Results.List)
	secured.GET("/results/:batchId/:year/:month/export", staff, h.Results.Export)

	secured.GET("/students/:id/results", middleware.RequireRolesOrSelf("id", models.RoleAdmin, models.RoleTeacher), h.Results.StudentHistory)
}
