package models

import "time"

// Notification is an append-only record read by downstream delivery (real-time
// transport, email digests). The engine only ever inserts; the Read flag is
// mutated solely by the recipient marking it read.
type Notification struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string    `gorm:"not null" json:"type"`
	Title      string    `gorm:"not null" json:"title"`
	Message    string    `json:"message"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `gorm:"type:uuid" json:"entity_id"`
	Read       bool      `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
