package core_test

import (
	"context"
	"strings"
	"testing"

	"donorstay/internal/core"
)

func TestWelcomeNotificationMentionsEntitlement(t *testing.T) {
	svc := newTestService()
	donor, _, err := svc.CreateDonor(context.Background(), core.CreateDonorInput{
		Name:           "Asha Rao",
		Mobile:         "9876543210",
		DonationAmount: 58000,
	})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}

	notifs := svc.ListNotifications()
	if len(notifs) != 1 {
		t.Fatalf("expected welcome notification, got %d", len(notifs))
	}
	n := notifs[0]
	if n.Type != core.NotificationWelcome || n.DonorID != donor.ID {
		t.Fatalf("notification: %+v", n)
	}
	if !strings.Contains(n.Message, donor.DonorID) || !strings.Contains(n.Message, "2 free rooms") {
		t.Fatalf("message: %q", n.Message)
	}
	if n.Read {
		t.Fatalf("new notification marked read")
	}
}

func TestMarkNotificationRead(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	n, _, err := svc.AddNotification(ctx, core.AddNotificationInput{
		GuestName: "Asha Rao",
		Type:      core.NotificationWelcome,
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("add notification: %v", err)
	}
	if len(svc.UnreadNotifications()) != 1 {
		t.Fatalf("unread count")
	}

	updated, _, err := svc.MarkNotificationRead(ctx, n.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !updated.Read {
		t.Fatalf("not marked read: %+v", updated)
	}
	if len(svc.UnreadNotifications()) != 0 {
		t.Fatalf("unread after mark")
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := svc.AddNotification(ctx, core.AddNotificationInput{
			GuestName: "Asha Rao",
			Type:      core.NotificationPaymentConfirmation,
			Message:   "hello",
		}); err != nil {
			t.Fatalf("add notification: %v", err)
		}
	}
	if _, err := svc.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if got := svc.UnreadNotifications(); len(got) != 0 {
		t.Fatalf("still unread: %+v", got)
	}
	if len(svc.ListNotifications()) != 3 {
		t.Fatalf("notifications lost")
	}
}
