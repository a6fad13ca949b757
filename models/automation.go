package models

import (
	"time"

	"gorm.io/datatypes"
)

// Automation defines a workspace-scoped rule binding one trigger to one action.
type Automation struct {
	// ID is a unique identifier for the rule, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// WorkspaceID scopes the rule; rules never match events from another workspace.
	WorkspaceID string `gorm:"type:uuid;not null;index" json:"workspace_id"`

	// Name is a display label chosen by the workspace admin.
	Name string `gorm:"not null" json:"name"`

	// Enabled gates matching; a disabled rule is never evaluated.
	Enabled bool `gorm:"default:true" json:"enabled"`

	// TriggerType is one of status_change, task_created, due_date_approaching, assignment.
	TriggerType string `gorm:"not null;index" json:"trigger_type"`

	// TriggerConfig is a JSONB payload whose shape depends on TriggerType
	// (e.g. {"from_status": "todo", "to_status": "done"} for status_change).
	TriggerConfig datatypes.JSON `json:"trigger_config"`

	// ActionType is one of change_status, assign_user, add_label, send_notification.
	ActionType string `gorm:"not null" json:"action_type"`

	// ActionConfig is a JSONB payload whose shape depends on ActionType.
	ActionConfig datatypes.JSON `json:"action_config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
