package core_test

import (
	"context"
	"testing"
	"time"

	"donorstay/internal/core"
)

func TestGenerateBillSnapshotsBooking(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(core.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 29000)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-12",
		CheckInTime:    "14:00",
		RoomNumbers:    []string{"103", "104"},
		NumberOfGuests: 4,
		TotalAmount:    9000,
		PaidAmount:     4000,
		PaymentMethod:  core.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID, Date: "2026-08-15", Time: "10:00"}); err != nil {
		t.Fatalf("check out: %v", err)
	}

	bill, _, err := svc.GenerateBill(ctx, booking.ID)
	if err != nil {
		t.Fatalf("generate bill: %v", err)
	}
	if bill.BillNumber != "BILL-20260815-1001" {
		t.Fatalf("bill number: %s", bill.BillNumber)
	}
	if bill.NumberOfNights != 3 {
		t.Fatalf("nights 2026-08-12 to 2026-08-15 = %d, want 3", bill.NumberOfNights)
	}
	if bill.GuestName != donor.Name || bill.GuestMobile != donor.Mobile {
		t.Fatalf("occupant identity: %+v", bill)
	}
	if bill.RoomCharges != 9000 || bill.TotalAmount != 9000 || bill.PaidAmount != 4000 || bill.RemainingAmount != 5000 {
		t.Fatalf("amounts: %+v", bill)
	}
	if bill.Taxes != 0 || bill.Discount != 0 {
		t.Fatalf("taxes/discount: %+v", bill)
	}
	if bill.PaymentMethod != core.PaymentMethodUPI {
		t.Fatalf("payment method: %s", bill.PaymentMethod)
	}
	if bill.HotelName == "" || bill.HotelPhone == "" {
		t.Fatalf("hotel identity missing: %+v", bill)
	}
}

func TestGenerateBillFreeStayZeroesTotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 29000)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-12",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    3000,
		IsFreeStay:     true,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	bill, _, err := svc.GenerateBill(ctx, booking.ID)
	if err != nil {
		t.Fatalf("generate bill: %v", err)
	}
	if bill.TotalAmount != 0 || bill.Discount != 3000 || bill.RoomCharges != 3000 {
		t.Fatalf("free stay bill: %+v", bill)
	}
	if !bill.IsFreeStay {
		t.Fatalf("free stay not flagged")
	}
}

func TestGenerateBillBeforeCheckoutFallsBackToNow(t *testing.T) {
	now := time.Date(2026, 8, 13, 9, 45, 0, 0, time.UTC)
	svc := newTestService(core.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-13",
		RoomNumbers:    []string{"102"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	bill, _, err := svc.GenerateBill(ctx, booking.ID)
	if err != nil {
		t.Fatalf("generate bill: %v", err)
	}
	if bill.CheckOutDate != "2026-08-13" || bill.CheckOutTime != "09:45" {
		t.Fatalf("checkout fallback: %s %s", bill.CheckOutDate, bill.CheckOutTime)
	}
	// Same-day stay still bills one night, and an empty payment method
	// defaults to cash.
	if bill.NumberOfNights != 1 {
		t.Fatalf("minimum nights: %d", bill.NumberOfNights)
	}
	if bill.PaymentMethod != core.PaymentMethodCash {
		t.Fatalf("method default: %s", bill.PaymentMethod)
	}
}

func TestGenerateBillTwiceKeepsBothSnapshots(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-12",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	first, _, err := svc.GenerateBill(ctx, booking.ID)
	if err != nil {
		t.Fatalf("first bill: %v", err)
	}
	second, _, err := svc.GenerateBill(ctx, booking.ID)
	if err != nil {
		t.Fatalf("second bill: %v", err)
	}
	if first.BillNumber == second.BillNumber {
		t.Fatalf("bill numbers not distinct: %s", first.BillNumber)
	}
	bills := svc.BillsForBooking(booking.ID)
	if len(bills) != 2 {
		t.Fatalf("expected both snapshots, got %d", len(bills))
	}
}
