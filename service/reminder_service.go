package services

import (
	"fmt"
	"log"
	"time"

	model "github.com/Rachit99/TaskHive/models"
	"github.com/google/uuid"
)

// dueSoonWindow is how far ahead the due-date scanner looks, and how long
// before a due date a derived reminder fires.
const dueSoonWindow = 24 * time.Hour

// CreateReminder stores an explicit user-scheduled reminder.
func (s *AutomationService) CreateReminder(reminder *model.Reminder) error {
	if reminder.TaskID == "" || reminder.UserID == "" {
		return fmt.Errorf("reminder requires task_id and user_id")
	}
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	if reminder.Type == "" {
		reminder.Type = "notification"
	}
	if err := s.db.Create(reminder).Error; err != nil {
		log.Printf("[CreateReminder] Error saving reminder for task %s: %v", reminder.TaskID, err)
		return err
	}
	return nil
}

// DeleteReminder removes a reminder. Only the reminder's owner or the task's
// creator may delete it.
func (s *AutomationService) DeleteReminder(reminderID, requesterID string) error {
	var reminder model.Reminder
	if err := s.db.First(&reminder, "id = ?", reminderID).Error; err != nil {
		log.Printf("[DeleteReminder] Reminder %s not found: %v", reminderID, err)
		return err
	}

	if reminder.UserID != requesterID {
		var task model.Task
		if err := s.db.First(&task, "id = ?", reminder.TaskID).Error; err != nil || task.CreatorID != requesterID {
			return fmt.Errorf("user %s may not delete reminder %s", requesterID, reminderID)
		}
	}

	return s.db.Where("id = ?", reminderID).Delete(&model.Reminder{}).Error
}

// SweepReminders processes all due, unsent reminders and returns how many were
// notified. Each reminder is claimed with a guarded flag write before its
// notification is inserted, so concurrent sweeps cannot double-deliver; a
// reminder whose task no longer exists is still retired to avoid an endless
// retry loop. A failure on one reminder never stops the rest of the sweep.
func (s *AutomationService) SweepReminders(now time.Time) (int, error) {
	var due []model.Reminder
	if err := s.db.Where("sent = ? AND remind_at <= ?", false, now).Find(&due).Error; err != nil {
		log.Printf("[SweepReminders] Error loading due reminders: %v", err)
		return 0, err
	}

	sent := 0
	for _, reminder := range due {
		// Claim the reminder. Zero rows affected means another sweep got
		// there first.
		result := s.db.Model(&model.Reminder{}).
			Where("id = ? AND sent = ?", reminder.ID, false).
			Update("sent", true)
		if result.Error != nil {
			log.Printf("[SweepReminders] Error claiming reminder %s: %v", reminder.ID, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			continue
		}

		var task model.Task
		if err := s.db.First(&task, "id = ?", reminder.TaskID).Error; err != nil {
			log.Printf("[SweepReminders] Task %s for reminder %s missing; reminder retired: %v",
				reminder.TaskID, reminder.ID, err)
			continue
		}

		message := fmt.Sprintf("Don't forget about %q.", task.Title)
		if task.DueDate != nil {
			message = fmt.Sprintf("Don't forget about %q, due %s.", task.Title, task.DueDate.Format("January 2, 2006"))
		}
		notification := model.Notification{
			ID:         uuid.NewString(),
			UserID:     reminder.UserID,
			Type:       "reminder",
			Title:      fmt.Sprintf("Reminder: %s", task.Title),
			Message:    message,
			EntityType: "task",
			EntityID:   reminder.TaskID,
			CreatedAt:  time.Now(),
		}
		if err := s.db.Create(&notification).Error; err != nil {
			log.Printf("[SweepReminders] Error inserting notification for reminder %s: %v", reminder.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("[SweepReminders] Notified %d of %d due reminders", sent, len(due))
	}
	return sent, nil
}

// ScanDueDates handles the due_date_approaching trigger class. Tasks whose
// due date falls inside the approach window are handled once each: the
// due_soon flag is claimed with a guarded write, matching rules are
// dispatched, and a reminder is derived for every assignee that has none for
// the task yet. Returns how many tasks entered their window this pass.
func (s *AutomationService) ScanDueDates(now time.Time) (int, error) {
	var tasks []model.Task
	if err := s.db.Where("due_soon_notified = ? AND due_date IS NOT NULL AND due_date > ? AND due_date <= ?",
		false, now, now.Add(dueSoonWindow)).Find(&tasks).Error; err != nil {
		log.Printf("[ScanDueDates] Error loading approaching tasks: %v", err)
		return 0, err
	}

	handled := 0
	for _, task := range tasks {
		result := s.db.Model(&model.Task{}).
			Where("id = ? AND due_soon_notified = ?", task.ID, false).
			Update("due_soon_notified", true)
		if result.Error != nil {
			log.Printf("[ScanDueDates] Error claiming task %s: %v", task.ID, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			continue
		}

		ctx := EventContext{
			TaskID:      task.ID,
			WorkspaceID: task.WorkspaceID,
		}
		if err := s.RunAutomations(TriggerDueDateApproaching, ctx); err != nil {
			log.Printf("[ScanDueDates] Dispatch failed for task %s: %v", task.ID, err)
		}

		s.deriveDueReminders(task)
		handled++
	}
	return handled, nil
}

// deriveDueReminders auto-creates an unsent reminder per assignee, firing one
// approach window before the due date. Assignees that already have a reminder
// on the task keep theirs.
func (s *AutomationService) deriveDueReminders(task model.Task) {
	if task.DueDate == nil {
		return
	}

	var assignees []model.TaskAssignee
	if err := s.db.Where("task_id = ?", task.ID).Find(&assignees).Error; err != nil {
		log.Printf("[deriveDueReminders] Error loading assignees for task %s: %v", task.ID, err)
		return
	}

	for _, assignee := range assignees {
		var existing int64
		if err := s.db.Model(&model.Reminder{}).
			Where("task_id = ? AND user_id = ?", task.ID, assignee.UserID).
			Count(&existing).Error; err != nil {
			log.Printf("[deriveDueReminders] Error checking reminders for task %s user %s: %v",
				task.ID, assignee.UserID, err)
			continue
		}
		if existing > 0 {
			continue
		}

		reminder := model.Reminder{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			UserID:    assignee.UserID,
			RemindAt:  task.DueDate.Add(-dueSoonWindow),
			Type:      "notification",
			CreatedAt: time.Now(),
		}
		if err := s.db.Create(&reminder).Error; err != nil {
			log.Printf("[deriveDueReminders] Error creating reminder for task %s user %s: %v",
				task.ID, assignee.UserID, err)
		}
	}
}
