package portal

import (
	"context"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/store"
)

// NotificationLimit caps the notifications shown at once.
const NotificationLimit = 50

// Notifications lists the actor's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, actor model.Actor, unreadOnly bool) ([]model.Notification, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return store.ListNotifications(ctx, s.DB, actor.ActorID(), unreadOnly, NotificationLimit)
}

// MarkNotificationRead marks one of the actor's notifications read.
func (s *Service) MarkNotificationRead(ctx context.Context, actor model.Actor, id int64) error {
	if actor == nil {
		return ErrForbidden
	}
	ok, err := store.MarkNotificationRead(ctx, s.DB, actor.ActorID(), id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every notification of the actor read.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, actor model.Actor) error {
	if actor == nil {
		return ErrForbidden
	}
	return store.MarkAllNotificationsRead(ctx, s.DB, actor.ActorID())
}

// UnreadCount counts the actor's unread notifications.
func (s *Service) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	if actor == nil {
		return 0, ErrForbidden
	}
	return store.CountUnreadNotifications(ctx, s.DB, actor.ActorID())
}
