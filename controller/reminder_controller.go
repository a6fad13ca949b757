package controller

import (
	"log"
	"net/http"
	"time"

	"github.com/Rachit99/TaskHive/models"
	"github.com/gin-gonic/gin"
)

// CreateReminder schedules a one-shot reminder for a user on a task.
func (c *AutomationController) CreateReminder(ctx *gin.Context) {
	var req struct {
		TaskID   string    `json:"task_id" binding:"required"`
		UserID   string    `json:"user_id" binding:"required"`
		RemindAt time.Time `json:"remind_at" binding:"required"`
		Type     string    `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder := models.Reminder{
		TaskID:   req.TaskID,
		UserID:   req.UserID,
		RemindAt: req.RemindAt,
		Type:     req.Type,
	}
	if err := c.service.CreateReminder(&reminder); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, reminder)
}

// DeleteReminder removes a reminder on behalf of its owner or the task's
// creator.
func (c *AutomationController) DeleteReminder(ctx *gin.Context) {
	reminderID := ctx.Param("id")
	if reminderID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Reminder ID required"})
		return
	}
	requesterID := ctx.Query("userId")
	if requesterID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'userId' is required"})
		return
	}

	if err := c.service.DeleteReminder(reminderID, requesterID); err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

// SweepReminders runs one manual sweep over due, unsent reminders. The same
// procedure runs on the background ticker; this endpoint exists for ops.
func (c *AutomationController) SweepReminders(ctx *gin.Context) {
	sent, err := c.service.SweepReminders(time.Now())
	if err != nil {
		log.Printf("[SweepReminders] Sweep failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sentCount": sent})
}

// GetNotifications lists a user's notifications, newest first.
func (c *AutomationController) GetNotifications(ctx *gin.Context) {
	userID := ctx.Query("userId")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'userId' is required"})
		return
	}

	notifications, err := c.service.GetUserNotifications(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// MarkNotificationRead lets the recipient mark a notification as read.
func (c *AutomationController) MarkNotificationRead(ctx *gin.Context) {
	notificationID := ctx.Param("id")
	if notificationID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Notification ID required"})
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.service.MarkNotificationRead(notificationID, req.UserID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
