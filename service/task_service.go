package services

import (
	"fmt"
	"log"
	"time"

	model "github.com/Rachit99/TaskHive/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskService owns the task mutation paths that can produce automation
// events: creation, status updates and assignee updates. Each path commits
// its own write first and only then dispatches, so an automation failure can
// never roll back the mutation that triggered it.
type TaskService struct {
	db          *gorm.DB
	automations *AutomationService
}

// NewTaskService initializes the service with a database handle and the
// automation engine to dispatch into.
func NewTaskService(db *gorm.DB, automations *AutomationService) *TaskService {
	return &TaskService{db: db, automations: automations}
}

// CreateTask stores a new task and dispatches task_created.
func (s *TaskService) CreateTask(task *model.Task) error {
	if task.WorkspaceID == "" || task.Title == "" {
		return fmt.Errorf("task requires workspace_id and title")
	}
	if task.Status == "" {
		task.Status = "todo"
	}
	if err := s.db.Create(task).Error; err != nil {
		log.Printf("[CreateTask] Error creating task: %v", err)
		return err
	}

	ctx := EventContext{
		TaskID:      task.ID,
		WorkspaceID: task.WorkspaceID,
		UserID:      task.CreatorID,
	}
	if err := s.automations.RunAutomations(TriggerTaskCreated, ctx); err != nil {
		log.Printf("[CreateTask] Automation dispatch failed for task %s: %v", task.ID, err)
	}
	return nil
}

// UpdateTaskStatus sets the task's status and dispatches status_change with
// the before/after delta. A write to the same status is a no-op and does not
// dispatch.
func (s *TaskService) UpdateTaskStatus(taskID, newStatus, actorID string) error {
	var task model.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		log.Printf("[UpdateTaskStatus] Error fetching task %s: %v", taskID, err)
		return err
	}
	if task.Status == newStatus {
		return nil
	}

	if err := s.db.Model(&model.Task{}).Where("id = ?", taskID).Updates(map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("[UpdateTaskStatus] Error updating task %s: %v", taskID, err)
		return err
	}

	ctx := EventContext{
		TaskID:      taskID,
		WorkspaceID: task.WorkspaceID,
		UserID:      actorID,
		OldStatus:   task.Status,
		NewStatus:   newStatus,
	}
	if err := s.automations.RunAutomations(TriggerStatusChange, ctx); err != nil {
		log.Printf("[UpdateTaskStatus] Automation dispatch failed for task %s: %v", taskID, err)
	}
	return nil
}

// UpdateTaskAssignees replaces the task's assignee set and dispatches
// assignment with the before/after sets. Additions are conflict-safe inserts;
// removals delete their rows.
func (s *TaskService) UpdateTaskAssignees(taskID string, userIDs []string, actorID string) error {
	var task model.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		log.Printf("[UpdateTaskAssignees] Error fetching task %s: %v", taskID, err)
		return err
	}

	var current []model.TaskAssignee
	if err := s.db.Where("task_id = ?", taskID).Find(&current).Error; err != nil {
		log.Printf("[UpdateTaskAssignees] Error fetching assignees for task %s: %v", taskID, err)
		return err
	}

	previous := make([]string, 0, len(current))
	previousSet := make(map[string]bool, len(current))
	for _, assignee := range current {
		previous = append(previous, assignee.UserID)
		previousSet[assignee.UserID] = true
	}
	newSet := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		newSet[userID] = true
	}

	for _, userID := range previous {
		if newSet[userID] {
			continue
		}
		if err := s.db.Where("task_id = ? AND user_id = ?", taskID, userID).
			Delete(&model.TaskAssignee{}).Error; err != nil {
			log.Printf("[UpdateTaskAssignees] Error removing assignee %s from task %s: %v", userID, taskID, err)
			return err
		}
	}
	for _, userID := range userIDs {
		if previousSet[userID] {
			continue
		}
		assignee := model.TaskAssignee{TaskID: taskID, UserID: userID, CreatedAt: time.Now()}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignee).Error; err != nil {
			log.Printf("[UpdateTaskAssignees] Error adding assignee %s to task %s: %v", userID, taskID, err)
			return err
		}
	}

	ctx := EventContext{
		TaskID:            taskID,
		WorkspaceID:       task.WorkspaceID,
		UserID:            actorID,
		PreviousAssignees: previous,
		NewAssignees:      userIDs,
	}
	if err := s.automations.RunAutomations(TriggerAssignment, ctx); err != nil {
		log.Printf("[UpdateTaskAssignees] Automation dispatch failed for task %s: %v", taskID, err)
	}
	return nil
}
