package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"donorstay/internal/core"
	"donorstay/pkg/domain"
)

func seedDonorAndRooms(t *testing.T, svc *core.Service, donation int64) core.Donor {
	t.Helper()
	ctx := context.Background()
	if _, _, err := svc.EnsureDefaultRooms(ctx); err != nil {
		t.Fatalf("seed rooms: %v", err)
	}
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{
		Name:           "Asha Rao",
		Mobile:         "9876543210",
		DonationAmount: donation,
	})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}
	return donor
}

func TestEnsureDefaultRoomsSeedsOnceAndOnlyWhenEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seeded, _, err := svc.EnsureDefaultRooms(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(seeded) != 8 {
		t.Fatalf("expected 8 default rooms, got %d", len(seeded))
	}
	again, _, err := svc.EnsureDefaultRooms(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second seed created rooms: %d", len(again))
	}

	room, err := svc.GetRoomByNumber("201")
	if err != nil {
		t.Fatalf("lookup 201: %v", err)
	}
	if room.Type != core.RoomTypeSuite || room.PricePerNight != 2500 || room.Floor != "2" {
		t.Fatalf("unexpected default room: %+v", room)
	}
	if room.Status != core.RoomStatusAvailable {
		t.Fatalf("seeded room not available: %s", room.Status)
	}
}

func TestBookingLifecycleAllocatesAndReleasesRoom(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, res, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		CheckInTime:    "14:00",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    2000,
		PaidAmount:     500,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
	if booking.Status != core.BookingStatusUpcoming {
		t.Fatalf("new booking not upcoming: %s", booking.Status)
	}
	if booking.RemainingAmount != 1500 {
		t.Fatalf("remaining not derived: %d", booking.RemainingAmount)
	}

	room, _ := svc.GetRoomByNumber("101")
	if room.Status != core.RoomStatusOccupied || room.CurrentGuestID != donor.ID || room.CurrentGuestType != core.GuestTypeDonor {
		t.Fatalf("room not allocated: %+v", room)
	}

	if _, _, err := svc.CheckIn(ctx, core.CheckInInput{BookingID: booking.ID}); err != nil {
		t.Fatalf("check in: %v", err)
	}
	got, err := svc.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.Status != core.BookingStatusCheckedIn {
		t.Fatalf("status after check-in: %s", got.Status)
	}
	if got.CheckInManuallyEdited {
		t.Fatalf("auto check-in flagged manual")
	}

	checkedOut, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID, Date: "2026-08-03", Time: "11:00"})
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if checkedOut.Status != core.BookingStatusCheckedOut {
		t.Fatalf("status after check-out: %s", checkedOut.Status)
	}
	if !checkedOut.CheckOutManuallyEdited {
		t.Fatalf("manual check-out not flagged")
	}
	room, _ = svc.GetRoomByNumber("101")
	if room.Status != core.RoomStatusAvailable || room.CurrentGuestID != "" {
		t.Fatalf("room not released: %+v", room)
	}

	history, _ := svc.GetDonor(donor.ID)
	if len(history.VisitHistory) != 1 || history.VisitHistory[0].Status != core.BookingStatusCheckedOut {
		t.Fatalf("visit history out of sync: %+v", history.VisitHistory)
	}
}

func TestDoubleBookingRejected(t *testing.T) {
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
		t.Fatalf("first booking: %v", err)
	}

	_, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Walk In",
		GuestMobile:    "9876511111",
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"102", "101"},
		NumberOfGuests: 2,
		TotalAmount:    2000,
	})
	var rue core.RoomUnavailableError
	if !errors.As(err, &rue) {
		t.Fatalf("expected RoomUnavailableError, got %v", err)
	}
	if rue.RoomNumber != "101" || rue.Status != core.RoomStatusOccupied {
		t.Fatalf("unexpected error detail: %+v", rue)
	}

	// The losing transaction must roll back entirely: room 102 stays free
	// and no stray guest record survives.
	room, _ := svc.GetRoomByNumber("102")
	if room.Status != core.RoomStatusAvailable {
		t.Fatalf("partial allocation leaked: %+v", room)
	}
	if guests := svc.Store().ListGuests(); len(guests) != 0 {
		t.Fatalf("guest record leaked from failed booking: %+v", guests)
	}
	if bookings := svc.ListBookings(); len(bookings) != 1 {
		t.Fatalf("expected single booking, got %d", len(bookings))
	}
}

func TestCheckOutIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"301"},
		NumberOfGuests: 2,
		TotalAmount:    3500,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	first, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID, Date: "2026-08-02", Time: "10:00"})
	if err != nil {
		t.Fatalf("first check out: %v", err)
	}

	// Re-book the now free room so a second checkout would corrupt state if
	// it released rooms again.
	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Walk In",
		GuestMobile:    "9876511111",
		CheckInDate:    "2026-08-02",
		RoomNumbers:    []string{"301"},
		NumberOfGuests: 1,
		TotalAmount:    3500,
	}); err != nil {
		t.Fatalf("re-book room: %v", err)
	}

	second, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID, Date: "2026-08-05", Time: "09:00"})
	if err != nil {
		t.Fatalf("second check out: %v", err)
	}
	if second.CheckOutDate != first.CheckOutDate || second.CheckOutTime != first.CheckOutTime {
		t.Fatalf("second checkout mutated booking: %+v vs %+v", second, first)
	}
	room, _ := svc.GetRoomByNumber("301")
	if room.Status != core.RoomStatusOccupied {
		t.Fatalf("idempotent checkout released re-booked room: %+v", room)
	}
}

func TestFreeStayConsumesRoomsOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 58000)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:            core.GuestTypeDonor,
		DonorID:              donor.ID,
		CheckInDate:          "2026-08-01",
		ExpectedCheckOutDate: "2026-08-04",
		RoomNumbers:          []string{"101", "102"},
		NumberOfGuests:       2,
		TotalAmount:          6000,
		IsFreeStay:           true,
	})
	if err != nil {
		t.Fatalf("free stay booking: %v", err)
	}
	if booking.RemainingAmount != 0 {
		t.Fatalf("free stay owes %d", booking.RemainingAmount)
	}

	got, _ := svc.GetDonor(donor.ID)
	if got.FreeRoomsUsed != 2 {
		t.Fatalf("free rooms used = %d, want 2", got.FreeRoomsUsed)
	}
	if got.FreeDaysUsed != 0 {
		t.Fatalf("default policy must not track free days, got %d", got.FreeDaysUsed)
	}
}

func TestFreeStayByNightsPolicyTracksDays(t *testing.T) {
	svc := newTestService(core.WithFreeDayPolicy(domain.FreeDaysByNights))
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 58000)

	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:            core.GuestTypeDonor,
		DonorID:              donor.ID,
		CheckInDate:          "2026-08-01",
		ExpectedCheckOutDate: "2026-08-04",
		RoomNumbers:          []string{"101", "102"},
		NumberOfGuests:       2,
		TotalAmount:          6000,
		IsFreeStay:           true,
	}); err != nil {
		t.Fatalf("free stay booking: %v", err)
	}

	got, _ := svc.GetDonor(donor.ID)
	if got.FreeRoomsUsed != 2 {
		t.Fatalf("free rooms used = %d, want 2", got.FreeRoomsUsed)
	}
	if got.FreeDaysUsed != 6 {
		t.Fatalf("free days used = %d, want 2 rooms x 3 nights", got.FreeDaysUsed)
	}
}

func TestFreeStayOverdrawWarnsButCommits(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0) // no entitlement at all

	booking, res, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
		IsFreeStay:     true,
	})
	if err != nil {
		t.Fatalf("overdraw booking must commit: %v", err)
	}
	if booking.ID == "" {
		t.Fatalf("booking not created")
	}
	var warned bool
	for _, v := range res.Violations {
		if v.Rule == "entitlement_overdraw" && v.Severity == core.SeverityWarn {
			warned = true
		}
		if v.Severity == core.SeverityBlock {
			t.Fatalf("unexpected blocking violation: %+v", v)
		}
	}
	if !warned {
		t.Fatalf("expected entitlement_overdraw warning, got %+v", res.Violations)
	}
}

func TestWalkInBookingCreatesGuestRecord(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, _, err := svc.EnsureDefaultRooms(ctx); err != nil {
		t.Fatalf("seed rooms: %v", err)
	}

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Walk In",
		GuestMobile:    "9876511111",
		GuestAddress:   "Bus Stand Road",
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"103"},
		NumberOfGuests: 2,
		TotalAmount:    1500,
	})
	if err != nil {
		t.Fatalf("walk-in booking: %v", err)
	}
	guests := svc.Store().ListGuests()
	if len(guests) != 1 || guests[0].ID != booking.GuestID {
		t.Fatalf("guest record not created: %+v", guests)
	}

	// A second walk-in with identical details gets its own record; guests
	// are never deduplicated.
	if _, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeNonDonor,
		GuestName:      "Walk In",
		GuestMobile:    "9876511111",
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"104"},
		NumberOfGuests: 1,
		TotalAmount:    1500,
	}); err != nil {
		t.Fatalf("second walk-in booking: %v", err)
	}
	if len(svc.Store().ListGuests()) != 2 {
		t.Fatalf("walk-in guests deduplicated")
	}
}

func TestUpdateBookingKeepsVisitHistoryInSync(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"202"},
		NumberOfGuests: 3,
		TotalAmount:    2500,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, _, err := svc.UpdateBooking(ctx, booking.ID, func(b *core.Booking) error {
		b.NumberOfGuests = 2
		b.PaidAmount = 1000
		b.RemainingAmount = 1500
		return nil
	}); err != nil {
		t.Fatalf("update booking: %v", err)
	}

	got, _ := svc.GetDonor(donor.ID)
	if len(got.VisitHistory) != 1 {
		t.Fatalf("history length %d", len(got.VisitHistory))
	}
	if got.VisitHistory[0].NumberOfGuests != 2 || got.VisitHistory[0].PaidAmount != 1000 {
		t.Fatalf("history entry stale: %+v", got.VisitHistory[0])
	}
}

func TestCheckInOnCheckedOutBookingRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"102"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID}); err != nil {
		t.Fatalf("check out: %v", err)
	}
	var verr core.ValidationError
	if _, _, err := svc.CheckIn(ctx, core.CheckInInput{BookingID: booking.ID}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckInStampsAutoTime(t *testing.T) {
	now := time.Date(2026, 8, 2, 15, 30, 0, 0, time.UTC)
	svc := newTestService(core.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-02",
		RoomNumbers:    []string{"104"},
		NumberOfGuests: 1,
		TotalAmount:    1500,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	checked, _, err := svc.CheckIn(ctx, core.CheckInInput{BookingID: booking.ID})
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if checked.CheckInDate != "2026-08-02" || checked.CheckInTime != "15:30" {
		t.Fatalf("auto timestamp mismatch: %s %s", checked.CheckInDate, checked.CheckInTime)
	}
	if !checked.CheckInAutoTime.Equal(now) {
		t.Fatalf("auto instant mismatch: %v", checked.CheckInAutoTime)
	}
}
