package services

import (
	"fmt"
	"log"

	model "github.com/Rachit99/TaskHive/models"
)

// GetUserNotifications retrieves a user's notifications, newest first.
func (s *AutomationService) GetUserNotifications(userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		log.Printf("[GetUserNotifications] Error fetching notifications for user %s: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag. The recipient is the only writer
// of this flag; the engine never touches a notification after inserting it.
func (s *AutomationService) MarkNotificationRead(notificationID, userID string) error {
	result := s.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		log.Printf("[MarkNotificationRead] Error updating notification %s: %v", notificationID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification %s not found for user %s", notificationID, userID)
	}
	return nil
}
