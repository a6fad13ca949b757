package services

import (
	"encoding/json"
	"fmt"
)

// Trigger types a rule can listen for.
const (
	TriggerStatusChange       = "status_change"
	TriggerTaskCreated        = "task_created"
	TriggerDueDateApproaching = "due_date_approaching"
	TriggerAssignment         = "assignment"
)

// Action types a rule can perform.
const (
	ActionChangeStatus     = "change_status"
	ActionAssignUser       = "assign_user"
	ActionAddLabel         = "add_label"
	ActionSendNotification = "send_notification"
)

// EventContext describes one occurrence of a trigger-worthy mutation. It is
// never persisted; it only travels through the dispatch path.
type EventContext struct {
	TaskID      string
	WorkspaceID string

	// UserID is the actor that performed the mutation, when there is one.
	UserID string

	// Status delta, populated for status_change events only.
	OldStatus string
	NewStatus string

	// Assignee delta, populated for assignment events only.
	PreviousAssignees []string
	NewAssignees      []string

	// Depth counts how many engine-originated mutations led to this event.
	// Human/API-originated mutations dispatch at depth zero.
	Depth int
}

// StatusChangeTrigger is the config payload for status_change rules.
type StatusChangeTrigger struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// ChangeStatusAction is the config payload for change_status actions.
type ChangeStatusAction struct {
	Status string `json:"status"`
}

// AssignUserAction is the config payload for assign_user actions.
type AssignUserAction struct {
	UserID string `json:"user_id"`
}

// AddLabelAction is the config payload for add_label actions.
type AddLabelAction struct {
	LabelID string `json:"label_id"`
}

// SendNotificationAction is the config payload for send_notification actions.
type SendNotificationAction struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ValidateAutomationConfig checks that the trigger and action payloads parse
// against the shape implied by their type tags. It is called at the
// rule-authoring boundary; the dispatch path only ever degrades to a no-op on
// a bad config, it never validates loudly.
func ValidateAutomationConfig(triggerType string, triggerConfig []byte, actionType string, actionConfig []byte) error {
	switch triggerType {
	case TriggerStatusChange:
		var cfg StatusChangeTrigger
		if err := json.Unmarshal(triggerConfig, &cfg); err != nil {
			return fmt.Errorf("invalid trigger_config for %s: %w", triggerType, err)
		}
		if cfg.FromStatus == "" || cfg.ToStatus == "" {
			return fmt.Errorf("trigger_config for %s requires from_status and to_status", triggerType)
		}
	case TriggerTaskCreated, TriggerDueDateApproaching, TriggerAssignment:
		// No filtering condition; any payload (including none) is accepted.
	default:
		return fmt.Errorf("unknown trigger_type %q", triggerType)
	}

	switch actionType {
	case ActionChangeStatus:
		var cfg ChangeStatusAction
		if err := json.Unmarshal(actionConfig, &cfg); err != nil {
			return fmt.Errorf("invalid action_config for %s: %w", actionType, err)
		}
		if cfg.Status == "" {
			return fmt.Errorf("action_config for %s requires status", actionType)
		}
	case ActionAssignUser:
		var cfg AssignUserAction
		if err := json.Unmarshal(actionConfig, &cfg); err != nil {
			return fmt.Errorf("invalid action_config for %s: %w", actionType, err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("action_config for %s requires user_id", actionType)
		}
	case ActionAddLabel:
		var cfg AddLabelAction
		if err := json.Unmarshal(actionConfig, &cfg); err != nil {
			return fmt.Errorf("invalid action_config for %s: %w", actionType, err)
		}
		if cfg.LabelID == "" {
			return fmt.Errorf("action_config for %s requires label_id", actionType)
		}
	case ActionSendNotification:
		var cfg SendNotificationAction
		if err := json.Unmarshal(actionConfig, &cfg); err != nil {
			return fmt.Errorf("invalid action_config for %s: %w", actionType, err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("action_config for %s requires user_id", actionType)
		}
	default:
		return fmt.Errorf("unknown action_type %q", actionType)
	}

	return nil
}
