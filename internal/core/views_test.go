package core_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"donorstay/internal/core"
)

func TestDashboardCounters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 29000)

	// The dashboard's "today" window follows the service clock, so the
	// scenario uses real calendar dates.
	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    today,
		RoomNumbers:    []string{"101", "102"},
		NumberOfGuests: 2,
		TotalAmount:    4000,
		PaidAmount:     4000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Walk In",
		GuestMobile:    "9876511111",
		CheckInDate:    yesterday,
		RoomNumbers:    []string{"201"},
		NumberOfGuests: 2,
		TotalAmount:    2500,
		PaidAmount:     1000,
	}); err != nil {
		t.Fatalf("walk-in booking: %v", err)
	}
	if _, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{
		DonorID:     donor.ID,
		TotalAmount: 50000,
		AmountPaid:  29000,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID}); err != nil {
		t.Fatalf("check out: %v", err)
	}

	stats, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalDonors != 1 || stats.TotalGuests != 1 {
		t.Fatalf("people counters: %+v", stats)
	}
	if stats.TotalDonations != 29000 {
		t.Fatalf("donations: %d", stats.TotalDonations)
	}
	if stats.TotalRooms != 8 || stats.OccupiedRooms != 1 || stats.AvailableRooms != 7 {
		t.Fatalf("room counters: %+v", stats)
	}
	if stats.PendingPayments != 1 || stats.PendingPaymentsAmount != 21000 {
		t.Fatalf("pending payments: %+v", stats)
	}
	if stats.TodayCheckIns != 1 || stats.TodayCheckOuts != 1 {
		t.Fatalf("today counters: %+v", stats)
	}
	if stats.MonthlyIncome != 5000 {
		t.Fatalf("monthly income: %d", stats.MonthlyIncome)
	}
	if stats.DonorRevenue != 4000 || stats.NonDonorRevenue != 1000 {
		t.Fatalf("revenue split: %+v", stats)
	}
	if stats.UnreadNotifications == 0 {
		t.Fatalf("expected unread notifications")
	}
}

func TestGlobalSearchMatchesAcrossEntities(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	}); err != nil {
		t.Fatalf("donor booking: %v", err)
	}
	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Ravi Kumar",
		GuestMobile:    "9123456789",
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"102"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	}); err != nil {
		t.Fatalf("walk-in booking: %v", err)
	}

	// By donor name, case-insensitive.
	res, err := svc.GlobalSearch(ctx, "asha")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Donors) != 1 || len(res.Bookings) != 1 || len(res.Guests) != 0 {
		t.Fatalf("name search: %+v", res)
	}

	// By public donor code.
	res, err = svc.GlobalSearch(ctx, "DNR1001")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Donors) != 1 || len(res.Bookings) != 1 {
		t.Fatalf("code search: %+v", res)
	}

	// By guest mobile, matching through the booking's owner.
	res, err = svc.GlobalSearch(ctx, "9123456789")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Guests) != 1 || len(res.Bookings) != 1 || len(res.Donors) != 0 {
		t.Fatalf("mobile search: %+v", res)
	}

	res, err = svc.GlobalSearch(ctx, "nobody-matches-this")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Donors)+len(res.Guests)+len(res.Bookings) != 0 {
		t.Fatalf("empty term matched: %+v", res)
	}
}

func TestWhatsAppLinkNormalizesNumber(t *testing.T) {
	link := core.WhatsAppLink("+91 98765-43210", "Hello there")
	if link != "https://wa.me/919876543210?text=Hello+there" {
		t.Fatalf("link: %s", link)
	}
	// Ten-digit local numbers get the country code prefixed.
	link = core.WhatsAppLink("9876543210", "Hi")
	if !strings.Contains(link, "/919876543210") {
		t.Fatalf("country code missing: %s", link)
	}
	// Numbers already carrying 91 are left alone.
	link = core.WhatsAppLink("919876543210", "Hi")
	if strings.Contains(link, "9191") {
		t.Fatalf("double prefix: %s", link)
	}
}

func TestWhatsAppMessageLinkTemplates(t *testing.T) {
	link := core.WhatsAppMessageLink("9876543210", core.WhatsAppWelcome, map[string]string{
		"name":      "Asha Rao",
		"donorId":   "DNR1001",
		"freeRooms": "2",
	})
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	text := u.Query().Get("text")
	if !strings.Contains(text, "Asha Rao") || !strings.Contains(text, "DNR1001") || !strings.Contains(text, "Free Rooms Available: 2") {
		t.Fatalf("welcome template: %q", text)
	}

	link = core.WhatsAppMessageLink("9876543210", core.WhatsAppPayment, map[string]string{
		"name": "Asha Rao", "amount": "5000", "method": "upi", "remaining": "2000",
	})
	u, _ = url.Parse(link)
	text = u.Query().Get("text")
	if !strings.Contains(text, "₹5000") || !strings.Contains(text, "Remaining: ₹2000") {
		t.Fatalf("payment template: %q", text)
	}

	// Unknown template names fall back to a raw message.
	link = core.WhatsAppMessageLink("9876543210", "no_such_template", map[string]string{"message": "plain text"})
	u, _ = url.Parse(link)
	if u.Query().Get("text") != "plain text" {
		t.Fatalf("fallback: %q", u.Query().Get("text"))
	}
}
