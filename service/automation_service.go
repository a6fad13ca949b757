package services

import (
	"fmt"
	"log"

	model "github.com/Rachit99/TaskHive/models"
	"gorm.io/gorm"
)

// maxAutomationDepth bounds rule re-entrancy: a change_status action re-enters
// the dispatcher at depth+1, and dispatch past this depth is refused so a rule
// pair that feeds each other's trigger cannot loop forever.
const maxAutomationDepth = 5

// AutomationService runs the reactive automation engine and the reminder
// sweep against the workspace record store.
type AutomationService struct {
	db *gorm.DB
}

// NewAutomationService initializes the service with a database handle.
func NewAutomationService(db *gorm.DB) *AutomationService {
	return &AutomationService{db: db}
}

// AddAutomation validates and stores a new rule. Config validation happens
// here, at the authoring boundary, so the dispatch path can treat any rule it
// loads as parseable (and still degrade quietly when it is not).
func (s *AutomationService) AddAutomation(rule *model.Automation) error {
	if err := ValidateAutomationConfig(rule.TriggerType, rule.TriggerConfig, rule.ActionType, rule.ActionConfig); err != nil {
		return err
	}
	if err := s.db.Create(rule).Error; err != nil {
		log.Printf("[AddAutomation] Error saving automation: %v", err)
		return err
	}
	log.Printf("[AddAutomation] Automation %s added for workspace %s", rule.Name, rule.WorkspaceID)
	return nil
}

// GetAutomations retrieves all rules for a workspace.
func (s *AutomationService) GetAutomations(workspaceID string) ([]model.Automation, error) {
	var rules []model.Automation
	if err := s.db.Where("workspace_id = ?", workspaceID).Find(&rules).Error; err != nil {
		log.Printf("[GetAutomations] Error fetching automations: %v", err)
		return nil, err
	}
	return rules, nil
}

// SetAutomationEnabled toggles a rule without touching its configuration.
func (s *AutomationService) SetAutomationEnabled(automationID string, enabled bool) error {
	result := s.db.Model(&model.Automation{}).Where("id = ?", automationID).Update("enabled", enabled)
	if result.Error != nil {
		log.Printf("[SetAutomationEnabled] Error updating automation %s: %v", automationID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("automation %s not found", automationID)
	}
	return nil
}

// DeleteAutomation removes a rule permanently.
func (s *AutomationService) DeleteAutomation(automationID string) error {
	if err := s.db.Where("id = ?", automationID).Delete(&model.Automation{}).Error; err != nil {
		log.Printf("[DeleteAutomation] Error deleting automation %s: %v", automationID, err)
		return err
	}
	return nil
}

// RunAutomations dispatches one event: it loads the enabled rules for the
// event's workspace and trigger type, filters them through the condition
// evaluator and applies each match. A failing rule is logged and skipped; it
// never stops the rest of the batch and never reaches the mutation that
// triggered the event. Only a rule-store read failure is returned, for the
// caller to log or swallow.
func (s *AutomationService) RunAutomations(triggerType string, ctx EventContext) error {
	if ctx.Depth > maxAutomationDepth {
		log.Printf("[RunAutomations] automation loop suspected on task %s (depth %d > %d); dispatch aborted",
			ctx.TaskID, ctx.Depth, maxAutomationDepth)
		return nil
	}

	var rules []model.Automation
	if err := s.db.Where("workspace_id = ? AND trigger_type = ? AND enabled = ?",
		ctx.WorkspaceID, triggerType, true).Find(&rules).Error; err != nil {
		log.Printf("[RunAutomations] Error loading automations for workspace %s: %v", ctx.WorkspaceID, err)
		return err
	}

	for _, rule := range rules {
		if !rule.Enabled || !matches(triggerType, rule.TriggerConfig, ctx) {
			continue
		}
		if err := s.applyAction(rule.ActionType, rule.ActionConfig, ctx); err != nil {
			log.Printf("[RunAutomations] Automation %s (%s) failed on task %s: %v", rule.ID, rule.Name, ctx.TaskID, err)
			continue
		}
	}
	return nil
}
