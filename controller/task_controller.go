package controller

import (
	"log"
	"net/http"
	"time"

	"github.com/Rachit99/TaskHive/models"
	service "github.com/Rachit99/TaskHive/service"
	"github.com/gin-gonic/gin"
)

// TaskController manages HTTP requests for the task mutation paths that feed
// the automation engine.
type TaskController struct {
	service *service.TaskService
}

// NewTaskController initializes the controller with the service
func NewTaskController(service *service.TaskService) *TaskController {
	return &TaskController{service}
}

// CreateTask handles task creation and triggers task_created automations.
func (c *TaskController) CreateTask(ctx *gin.Context) {
	var req struct {
		WorkspaceID string     `json:"workspace_id" binding:"required"`
		ListID      string     `json:"list_id"`
		Title       string     `json:"title" binding:"required"`
		Status      string     `json:"status"`
		CreatorID   string     `json:"creator_id"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		WorkspaceID: req.WorkspaceID,
		ListID:      req.ListID,
		Title:       req.Title,
		Status:      req.Status,
		CreatorID:   req.CreatorID,
		DueDate:     req.DueDate,
	}
	if err := c.service.CreateTask(&task); err != nil {
		log.Printf("[CreateTask] Error creating task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// UpdateTaskStatus handles a status change and triggers status_change
// automations. Automation failures never surface here; the status write
// already committed.
func (c *TaskController) UpdateTaskStatus(ctx *gin.Context) {
	taskID := ctx.Param("id")
	if taskID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Task ID required"})
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		ActorID string `json:"actor_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.service.UpdateTaskStatus(taskID, req.Status, req.ActorID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task status updated"})
}

// UpdateTaskAssignees replaces the assignee set and triggers assignment
// automations for newly added assignees.
func (c *TaskController) UpdateTaskAssignees(ctx *gin.Context) {
	taskID := ctx.Param("id")
	if taskID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Task ID required"})
		return
	}

	var req struct {
		UserIDs []string `json:"user_ids" binding:"required"`
		ActorID string   `json:"actor_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.service.UpdateTaskAssignees(taskID, req.UserIDs, req.ActorID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task assignees updated"})
}
