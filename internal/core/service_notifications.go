package core

import (
	"context"

	"donorstay/pkg/domain"
)

// AddNotification appends a notification record. Operations emit their own
// notifications in-transaction; this entry point covers presentation-layer
// reminders such as pending check-ins or payment dues.
func (s *Service) AddNotification(ctx context.Context, input AddNotificationInput) (Notification, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Notification{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "add_notification")
	var created Notification
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateNotification(Notification{
			DonorID:   input.DonorID,
			GuestID:   input.GuestID,
			GuestName: input.GuestName,
			Type:      input.Type,
			Message:   input.Message,
		})
		return err
	})
	done(err)
	s.logWarnings("add_notification", res)
	return created, res, err
}

// MarkNotificationRead flips a notification's read flag.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) (Notification, Result, error) {
	ctx, done := s.instrument(ctx, "mark_notification_read")
	var updated Notification
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateNotification(id, func(n *Notification) error {
			n.Read = true
			return nil
		})
		return err
	})
	done(err)
	s.logWarnings("mark_notification_read", res)
	return updated, res, err
}

// MarkAllNotificationsRead flips every unread notification in one
// transaction.
func (s *Service) MarkAllNotificationsRead(ctx context.Context) (Result, error) {
	ctx, done := s.instrument(ctx, "mark_all_notifications_read")
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		for _, n := range tx.Snapshot().ListNotifications() {
			if n.Read {
				continue
			}
			if _, err := tx.UpdateNotification(n.ID, func(n *Notification) error {
				n.Read = true
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	done(err)
	s.logWarnings("mark_all_notifications_read", res)
	return res, err
}

// ListNotifications returns all notifications, newest first.
func (s *Service) ListNotifications() []Notification {
	return s.store.ListNotifications()
}

// UnreadNotifications returns unread notifications, newest first.
func (s *Service) UnreadNotifications() []Notification {
	var out []Notification
	for _, n := range s.store.ListNotifications() {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}
