package controller

import (
	"net/http"

	"github.com/Rachit99/TaskHive/models"
	service "github.com/Rachit99/TaskHive/service"
	"github.com/gin-gonic/gin"
)

// AutomationController manages HTTP requests for the rule-authoring surface,
// reminders and the notification feed.
type AutomationController struct {
	service *service.AutomationService
}

// NewAutomationController initializes the controller with the service
func NewAutomationController(service *service.AutomationService) *AutomationController {
	return &AutomationController{service}
}

// AddAutomation stores a new rule. Trigger and action configs are validated
// here, at write time, against their type tags.
func (c *AutomationController) AddAutomation(ctx *gin.Context) {
	var rule models.Automation
	if err := ctx.ShouldBindJSON(&rule); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rule.WorkspaceID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}
	if err := c.service.AddAutomation(&rule); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, rule)
}

// GetAutomations lists a workspace's rules.
func (c *AutomationController) GetAutomations(ctx *gin.Context) {
	workspaceID := ctx.Query("workspaceId")
	if workspaceID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'workspaceId' is required"})
		return
	}

	rules, err := c.service.GetAutomations(workspaceID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, rules)
}

// SetAutomationEnabled toggles a rule on or off.
func (c *AutomationController) SetAutomationEnabled(ctx *gin.Context) {
	automationID := ctx.Param("id")
	if automationID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Automation ID required"})
		return
	}

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.service.SetAutomationEnabled(automationID, *req.Enabled); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Automation updated"})
}

// DeleteAutomation removes a rule.
func (c *AutomationController) DeleteAutomation(ctx *gin.Context) {
	automationID := ctx.Param("id")
	if automationID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Automation ID required"})
		return
	}
	if err := c.service.DeleteAutomation(automationID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Automation deleted"})
}
