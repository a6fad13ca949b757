package services

import (
	"encoding/json"
	"log"
	"time"

	model "github.com/Rachit99/TaskHive/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// applyAction executes one rule's action against the store. Every action is
// safe to re-apply with the same config and context: assignment and label
// inserts conflict away, a status write is an unconditional set, and a
// duplicate notification is an accepted at-least-once trade-off. A malformed
// config or a dangling reference degrades to a logged no-op.
func (s *AutomationService) applyAction(actionType string, actionConfig []byte, ctx EventContext) error {
	switch actionType {
	case ActionChangeStatus:
		return s.applyChangeStatus(actionConfig, ctx)
	case ActionAssignUser:
		return s.applyAssignUser(actionConfig, ctx)
	case ActionAddLabel:
		return s.applyAddLabel(actionConfig, ctx)
	case ActionSendNotification:
		return s.applySendNotification(actionConfig, ctx)
	default:
		log.Printf("[applyAction] Unknown action type %q; skipping", actionType)
		return nil
	}
}

// applyChangeStatus sets the task's status and re-enters the dispatcher at
// depth+1, so rules may react to rule-caused status changes up to the bound
// in RunAutomations. The target status is not validated against the list's
// configured statuses.
func (s *AutomationService) applyChangeStatus(actionConfig []byte, ctx EventContext) error {
	var cfg ChangeStatusAction
	if err := json.Unmarshal(actionConfig, &cfg); err != nil || cfg.Status == "" {
		log.Printf("[applyChangeStatus] Malformed config for task %s; skipping", ctx.TaskID)
		return nil
	}

	var task model.Task
	if err := s.db.First(&task, "id = ?", ctx.TaskID).Error; err != nil {
		log.Printf("[applyChangeStatus] Task %s not found; skipping: %v", ctx.TaskID, err)
		return nil
	}
	if task.Status == cfg.Status {
		return nil
	}

	if err := s.db.Model(&model.Task{}).Where("id = ?", ctx.TaskID).Update("status", cfg.Status).Error; err != nil {
		return err
	}

	next := EventContext{
		TaskID:      ctx.TaskID,
		WorkspaceID: ctx.WorkspaceID,
		OldStatus:   task.Status,
		NewStatus:   cfg.Status,
		Depth:       ctx.Depth + 1,
	}
	if err := s.RunAutomations(TriggerStatusChange, next); err != nil {
		log.Printf("[applyChangeStatus] Recursive dispatch failed for task %s: %v", ctx.TaskID, err)
	}
	return nil
}

// applyAssignUser inserts an assignment row; a duplicate insert is a silent
// no-op (first write wins).
func (s *AutomationService) applyAssignUser(actionConfig []byte, ctx EventContext) error {
	var cfg AssignUserAction
	if err := json.Unmarshal(actionConfig, &cfg); err != nil || cfg.UserID == "" {
		log.Printf("[applyAssignUser] Malformed config for task %s; skipping", ctx.TaskID)
		return nil
	}

	assignee := model.TaskAssignee{
		TaskID:    ctx.TaskID,
		UserID:    cfg.UserID,
		CreatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignee).Error
}

// applyAddLabel inserts a label row after verifying the label belongs to the
// same workspace as the task; a foreign or missing label is a no-op, not an
// error.
func (s *AutomationService) applyAddLabel(actionConfig []byte, ctx EventContext) error {
	var cfg AddLabelAction
	if err := json.Unmarshal(actionConfig, &cfg); err != nil || cfg.LabelID == "" {
		log.Printf("[applyAddLabel] Malformed config for task %s; skipping", ctx.TaskID)
		return nil
	}

	var label model.Label
	if err := s.db.First(&label, "id = ?", cfg.LabelID).Error; err != nil {
		log.Printf("[applyAddLabel] Label %s not found; skipping: %v", cfg.LabelID, err)
		return nil
	}
	if label.WorkspaceID != ctx.WorkspaceID {
		log.Printf("[applyAddLabel] Label %s belongs to workspace %s, not %s; skipping",
			cfg.LabelID, label.WorkspaceID, ctx.WorkspaceID)
		return nil
	}

	taskLabel := model.TaskLabel{
		TaskID:    ctx.TaskID,
		LabelID:   cfg.LabelID,
		CreatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&taskLabel).Error
}

// applySendNotification appends a notification addressed to the configured
// user, tagged with the triggering task for click-through.
func (s *AutomationService) applySendNotification(actionConfig []byte, ctx EventContext) error {
	var cfg SendNotificationAction
	if err := json.Unmarshal(actionConfig, &cfg); err != nil || cfg.UserID == "" {
		log.Printf("[applySendNotification] Malformed config for task %s; skipping", ctx.TaskID)
		return nil
	}

	title := cfg.Title
	if title == "" {
		title = "Automation notification"
	}

	notification := model.Notification{
		ID:         uuid.NewString(),
		UserID:     cfg.UserID,
		Type:       "automation",
		Title:      title,
		Message:    cfg.Message,
		EntityType: "task",
		EntityID:   ctx.TaskID,
		CreatedAt:  time.Now(),
	}
	return s.db.Create(&notification).Error
}
