package main

import (
	"log"
	"net/http"
	"time"

	controller "github.com/Rachit99/TaskHive/controller"
	"github.com/Rachit99/TaskHive/initializers"
	middleware "github.com/Rachit99/TaskHive/middleware"
	service "github.com/Rachit99/TaskHive/service"

	"github.com/gin-gonic/gin"
)

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Printf("[WARN] Continuing without .env: %s", err)
	}
	if err := initializers.ConnectDB(); err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize database connection: %s", err)
	}
	if err := initializers.Migrate(); err != nil {
		log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
	}
}

func main() {
	automationService := service.NewAutomationService(initializers.DB)
	taskService := service.NewTaskService(initializers.DB, automationService)

	automationController := controller.NewAutomationController(automationService)
	taskController := controller.NewTaskController(taskService)

	// Background scheduler: the reminder sweep and the due-date scan run on a
	// fixed interval. The sweep is also exposed over HTTP for manual runs.
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			now := time.Now()
			if sent, err := automationService.SweepReminders(now); err != nil {
				log.Printf("[scheduler] Reminder sweep failed: %v", err)
			} else if sent > 0 {
				log.Printf("[scheduler] Reminder sweep notified %d reminders", sent)
			}
			if handled, err := automationService.ScanDueDates(now); err != nil {
				log.Printf("[scheduler] Due-date scan failed: %v", err)
			} else if handled > 0 {
				log.Printf("[scheduler] Due-date scan handled %d tasks", handled)
			}
		}
	}()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	// Global rate limiter for most routes
	router.Use(middleware.GlobalRateLimiter.Limit())

	// Task mutation paths; each one dispatches automations after its write
	router.POST("/tasks",
		middleware.StrictRateLimiter.Limit(),
		taskController.CreateTask)
	router.PATCH("/tasks/:id/status", taskController.UpdateTaskStatus)
	router.PUT("/tasks/:id/assignees", taskController.UpdateTaskAssignees)

	// Rule-authoring endpoints with strict rate limiting
	router.POST("/automations",
		middleware.StrictRateLimiter.Limit(),
		automationController.AddAutomation)
	router.GET("/automations", automationController.GetAutomations)
	router.PATCH("/automations/:id/enabled", automationController.SetAutomationEnabled)
	router.DELETE("/automations/:id", automationController.DeleteAutomation)

	// Reminders and the manual sweep
	router.POST("/reminders", automationController.CreateReminder)
	router.DELETE("/reminders/:id", automationController.DeleteReminder)
	router.POST("/reminders/sweep",
		middleware.StrictRateLimiter.Limit(),
		automationController.SweepReminders)

	// Notification feed
	router.GET("/notifications", automationController.GetNotifications)
	router.PUT("/notifications/:id/read", automationController.MarkNotificationRead)

	// Healthcheck endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.Run(":8080")
}
