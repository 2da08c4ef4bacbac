package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusops/registrar-back/docs"
	"github.com/campusops/registrar-back/internal/auth"
	"github.com/campusops/registrar-back/internal/config"
	"github.com/campusops/registrar-back/internal/db"
)

// @title           Registrar API
// @version         1.0
// @description     University registrar backend: accounts, grades, resit exams, announcements.
// @host            localhost:8000
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func SetupRouter(cfg *config.Config) *gin.Engine {
	h := NewHandlers(db.Registry{})
	return buildRouter(cfg, h, db.UserInGroup)
}

// buildRouter wires routes against any store and group checker so tests
// can swap in fakes.
func buildRouter(cfg *config.Config, h *Handlers, check auth.GroupChecker) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		if err := db.PingDB(); err != nil {
			c.JSON(500, gin.H{"status": "db_ping_error"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/login", auth.LoginHandler(cfg))
	r.POST("/auth/refresh", auth.RefreshHandler(cfg))

	v1 := r.Group("/api/v1")
	v1.Use(auth.AuthMiddleware(cfg))
	{
		v1.GET("/courses", h.ListCourses)
		v1.POST("/courses/:id/grades", h.UploadGrades)
		v1.POST("/courses/:id/resit/content", h.UploadResitContent)

		v1.GET("/grades", h.ListGrades)
		v1.DELETE("/grades/:id", h.DeleteGrade)

		v1.GET("/me/grades", h.MyGrades)
		v1.POST("/me/grades/sync", h.SyncMyGrades)
		v1.GET("/me/resit-details", h.MyResitDetails)
		v1.POST("/resit/declare", h.DeclareResit)
		v1.GET("/resit/export", h.ExportResitRoster)

		v1.POST("/announcements", h.PostAnnouncement)
		v1.GET("/announcements", h.ListAnnouncements)
		v1.GET("/announcements/faculty", h.FacultyAnnouncements)

		// Secretariat-only surface: the role gate runs before any
		// request body or file is parsed.
		faculty := v1.Group("")
		faculty.Use(auth.RequireGroup(check, "faculty"))
		{
			faculty.POST("/resit/schedule", h.UploadResitSchedule)
			faculty.POST("/students", h.AddStudent)
			faculty.DELETE("/students", h.DeleteStudent)
			faculty.POST("/students/import", h.ImportStudents)
		}
	}

	return r
}
