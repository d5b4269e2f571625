package repositories

import (
	"github.com/bantaybuddy/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipient(recipientUID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientUID string) (int64, error)
	MarkAsRead(notificationID uint, recipientUID string) error
	MarkAllAsRead(recipientUID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipient(recipientUID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_uid = ?", recipientUID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_uid = ?", recipientUID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientUID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_uid = ? AND is_read = false", recipientUID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint, recipientUID string) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_uid = ?", notificationID, recipientUID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientUID string) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_uid = ? AND is_read = false", recipientUID).
		Update("is_read", true).Error
}
