package http

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Route groups are registered only for the stores present in cfg.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	if cfg.StaticPath != "" {
		if info, err := os.Stat(cfg.StaticPath); err == nil && info.IsDir() {
			router.Static("/static", cfg.StaticPath)
			router.NoRoute(staticFallback(cfg.StaticPath))
		} else {
			log.Printf("Static path %q not found, skipping /static", cfg.StaticPath)
		}
	}

	// A nil *database.Database must not become a non-nil Pinger.
	var pinger Pinger
	if cfg.Database != nil {
		pinger = cfg.Database
	}
	health := NewHealthController(pinger, cfg.Version)

	// Health endpoints
	router.GET("/", health.Root)
	router.GET("/health", health.Status)
	router.GET("/db-test", health.DBTest)

	// Student register
	if cfg.Students != nil {
		studentsController := NewStudentsController(cfg.Students)
		students := router.Group("/students")
		students.GET("", studentsController.List)
		students.GET("/:id", studentsController.Get)
		students.POST("/add", studentsController.Add)
		students.POST("/update/:id", studentsController.Update)
		students.GET("/invoice/:id", studentsController.Invoice)
		students.DELETE("/:id", studentsController.Delete)
	}

	// Fee ledger
	if cfg.Fees != nil {
		feesController := NewFeesController(cfg.Fees)
		feesGroup := router.Group("/fees")
		feesGroup.GET("", feesController.Index)
		feesGroup.POST("/pay", feesController.Pay)
		feesGroup.GET("/student/:id", feesController.History)
		feesGroup.GET("/report", feesController.Report)
	}

	// Attendance register
	if cfg.Attendance != nil {
		attendanceController := NewAttendanceController(cfg.Attendance)
		attendanceGroup := router.Group("/attendance")
		attendanceGroup.POST("/submit", attendanceController.Submit)
		attendanceGroup.GET("/sheet/:className/:date", attendanceController.Sheet)
		attendanceGroup.GET("/analytics/:className", attendanceController.Analytics)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
