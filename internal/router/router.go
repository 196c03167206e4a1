package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/handler"
	"github.com/noah-isme/smart-campus-api/internal/middleware"
	"github.com/noah-isme/smart-campus-api/internal/models"
	"github.com/noah-isme/smart-campus-api/internal/service"
	"github.com/noah-isme/smart-campus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/smart-campus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/smart-campus-api/pkg/middleware/requestid"
)

// Handlers bundles the HTTP handlers mounted by New.
type Handlers struct {
	Students *handler.StudentHandler
	Teachers *handler.TeacherHandler
	Classes  *handler.ClassHandler
	Metrics  *handler.MetricsHandler
}

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         *service.TokenService
	Extra          func(r *gin.Engine)
}

// New builds the gin engine with ambient middleware and every API route.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.Extra != nil {
		opts.Extra(r)
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.JWT(opts.Tokens))

	admin := string(models.RoleAdmin)
	teacher := string(models.RoleTeacher)

	// Teachers may read a student's routine but nothing else under the student.
	routine := api.Group("/students/:id")
	routine.Use(middleware.RBAC(admin, teacher, middleware.Self))
	routine.GET("/routine", h.Students.Routine)

	students := api.Group("/students/:id")
	students.Use(middleware.RBAC(admin, middleware.Self))
	students.GET("", h.Students.Get)
	students.PUT("/profile", h.Students.UpdateProfile)
	students.GET("/attendance", h.Students.Attendance)
	students.GET("/attendance/export", h.Students.ExportAttendance)
	students.GET("/timetable", h.Students.Timetable)
	students.GET("/timetable/export", h.Students.ExportTimetable)

	teachers := api.Group("/teachers/:id")
	teachers.Use(middleware.RBAC(admin, middleware.Self))
	teachers.GET("/classes", h.Teachers.Classes)
	teachers.GET("/timetable", h.Teachers.Timetable)
	teachers.GET("/timetable/export", h.Teachers.ExportTimetable)
	teachers.GET("/overview", h.Teachers.Overview)

	classes := api.Group("/classes/:id")
	classes.Use(middleware.RBAC(admin, teacher))
	classes.GET("/students", h.Classes.Roster)
	classes.GET("/attendance", h.Classes.Attendance)
	classes.POST("/attendance", h.Classes.Save)
	classes.GET("/attendance/history", h.Classes.History)
	classes.POST("/attendance/recognize", h.Classes.Recognize)

	system := api.Group("/system")
	system.Use(middleware.RBAC(admin))
	system.GET("/metrics", h.Metrics.System)

	return r
}
