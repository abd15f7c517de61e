package storage

import (
	"context"
	"fmt"
)

const DefaultNotificationLimit = 50

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

func (d *Database) CreateNotification(ctx context.Context, n *Notification) error {
	if err := d.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (d *Database) ListNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}

	q := d.db.WithContext(ctx).Model(&Notification{})
	if filter.UnreadOnly {
		q = q.Where("read = ?", false)
	}

	var notifications []Notification
	if err := q.Order("created_at desc").Order("id desc").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (d *Database) SetNotificationRead(ctx context.Context, id uint, read bool) error {
	res := d.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("read", read)
	if res.Error != nil {
		return fmt.Errorf("failed to update notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("notification", id)
	}
	return nil
}

// MarkAllNotificationsRead returns how many notifications changed.
func (d *Database) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).Model(&Notification{}).Where("read = ?", false).Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (d *Database) DeleteNotification(ctx context.Context, id uint) error {
	res := d.db.WithContext(ctx).Delete(&Notification{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("notification", id)
	}
	return nil
}
