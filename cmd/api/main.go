package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/akili-edu/school-api/api/swagger"
	"github.com/akili-edu/school-api/internal/handler"
	"github.com/akili-edu/school-api/internal/middleware"
	"github.com/akili-edu/school-api/internal/models"
	"github.com/akili-edu/school-api/internal/repository"
	"github.com/akili-edu/school-api/internal/service"
	"github.com/akili-edu/school-api/pkg/cache"
	"github.com/akili-edu/school-api/pkg/config"
	"github.com/akili-edu/school-api/pkg/database"
	"github.com/akili-edu/school-api/pkg/logger"
	corsmiddleware "github.com/akili-edu/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/akili-edu/school-api/pkg/middleware/requestid"
)

// @title School Administration API
// @version 1.0.0
// @description Backend for student, course, grade and attendance management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "school-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, validate, logr)
	exportSvc := service.NewExportService(gradeRepo, studentRepo, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, exportSvc)
	courseHandler := handler.NewCourseHandler(courseSvc, exportSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	admin := middleware.RequireRoles(models.RoleAdmin)
	adminTeacher := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent, models.RoleStaff)

	users := authed.Group("/users")
	{
		users.GET("", admin, userHandler.List)
		users.GET("/:id", admin, userHandler.Get)
		users.POST("", admin, userHandler.Create)
		users.PUT("/:id", admin, userHandler.Update)
		users.DELETE("/:id", admin, userHandler.Delete)
	}

	students := authed.Group("/students")
	{
		students.GET("", adminTeacher, studentHandler.List)
		students.GET("/:id", anyRole, studentHandler.Get)
		students.POST("", admin, studentHandler.Create)
		students.PUT("/:id", admin, studentHandler.Update)
		students.DELETE("/:id", admin, studentHandler.Delete)
		students.GET("/:id/report-card", anyRole, studentHandler.ReportCard)
	}

	courses := authed.Group("/courses")
	{
		courses.GET("", anyRole, courseHandler.List)
		courses.GET("/:id", anyRole, courseHandler.Get)
		courses.POST("", adminTeacher, courseHandler.Create)
		courses.PUT("/:id", adminTeacher, courseHandler.Update)
		courses.DELETE("/:id", admin, courseHandler.Delete)
		courses.POST("/:id/enroll", adminTeacher, courseHandler.Enroll)
		courses.GET("/:id/enrollments", adminTeacher, courseHandler.Roster)
		courses.GET("/:id/grades/export", adminTeacher, courseHandler.ExportGrades)
	}

	enrollments := authed.Group("/enrollments")
	{
		enrollments.GET("/:id", adminTeacher, enrollmentHandler.Get)
		enrollments.GET("/student/:studentId", adminTeacher, enrollmentHandler.ListByStudent)
		enrollments.PUT("/:id", adminTeacher, enrollmentHandler.Update)
		enrollments.DELETE("/:id", admin, enrollmentHandler.Delete)
	}

	assignments := authed.Group("/assignments")
	{
		assignments.GET("", anyRole, assignmentHandler.List)
		assignments.GET("/:id", anyRole, assignmentHandler.Get)
		assignments.GET("/course/:courseId", anyRole, assignmentHandler.ListByCourse)
		assignments.POST("", adminTeacher, assignmentHandler.Create)
		assignments.PUT("/:id", adminTeacher, assignmentHandler.Update)
		assignments.DELETE("/:id", adminTeacher, assignmentHandler.Delete)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.POST("", adminTeacher, attendanceHandler.Record)
		attendance.GET("/:id", adminTeacher, attendanceHandler.Get)
		attendance.GET("/student/:studentId/course/:courseId", anyRole, attendanceHandler.ListByStudentAndCourse)
		attendance.GET("/course/:courseId", adminTeacher, attendanceHandler.ListByCourseAndDate)
		attendance.PUT("/:id", adminTeacher, attendanceHandler.Update)
		attendance.DELETE("/:id", admin, attendanceHandler.Delete)
	}

	grades := authed.Group("/grades")
	{
		grades.POST("", adminTeacher, gradeHandler.Create)
		grades.GET("/:id", adminTeacher, gradeHandler.Get)
		grades.GET("/student/:studentId", anyRole, gradeHandler.ListByStudent)
		grades.GET("/student/:studentId/course/:courseId", anyRole, gradeHandler.StudentCourseReport)
		grades.GET("/course/:courseId", adminTeacher, gradeHandler.ListByCourse)
		grades.GET("/course/:courseId/average", adminTeacher, gradeHandler.CourseAverage)
		grades.PUT("/:id", adminTeacher, gradeHandler.Update)
		grades.DELETE("/:id", admin, gradeHandler.Delete)
	}

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard/summary", adminTeacher, dashboardHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
