package models

import "time"

// Task is a work item on a list board. Only the fields the automation and
// reminder engine touches are modeled here; the rest of the record belongs to
// the surrounding application.
type Task struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	ListID      string     `gorm:"type:uuid;index" json:"list_id"`
	Title       string     `gorm:"not null" json:"title"`
	Status      string     `gorm:"default:'todo'" json:"status"`
	CreatorID   string     `gorm:"type:uuid" json:"creator_id"`
	DueDate     *time.Time `json:"due_date"`

	// DueSoonNotified flips to true once the due-date scanner has handled this
	// task's approach window. It is never reset.
	DueSoonNotified bool `gorm:"default:false" json:"due_soon_notified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskAssignee links a user to a task. The composite primary key makes a
// duplicate assignment insert a conflict instead of a second row.
type TaskAssignee struct {
	TaskID    string    `gorm:"type:uuid;primaryKey" json:"task_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Label struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkspaceID string    `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string    `gorm:"not null" json:"name"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskLabel struct {
	TaskID    string    `gorm:"type:uuid;primaryKey" json:"task_id"`
	LabelID   string    `gorm:"type:uuid;primaryKey" json:"label_id"`
	CreatedAt time.Time `json:"created_at"`
}
