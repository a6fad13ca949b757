package models

import "time"

// Reminder is a one-shot notification intent for a user on a task.
type Reminder struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID   string    `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID   string    `gorm:"type:uuid;not null;index" json:"user_id"`
	RemindAt time.Time `gorm:"not null;index" json:"remind_at"`

	// Type is a delivery channel hint: notification, email or both.
	Type string `gorm:"default:'notification'" json:"type"`

	// Sent transitions false to true exactly once; a sent reminder is terminal
	// and never picked up by the sweep again.
	Sent bool `gorm:"default:false;index" json:"sent"`

	CreatedAt time.Time `json:"created_at"`
}
