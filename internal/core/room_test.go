package core_test

import (
	"context"
	"errors"
	"testing"

	"donorstay/internal/core"
)

func TestCreateRoomRejectsDuplicateNumber(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, _, err := svc.CreateRoom(ctx, core.CreateRoomInput{
		RoomNumber: "105", Floor: "1", Type: core.RoomTypeSingle, Capacity: 1, PricePerNight: 1200,
	}); err != nil {
		t.Fatalf("create room: %v", err)
	}
	var verr core.ValidationError
	if _, _, err := svc.CreateRoom(ctx, core.CreateRoomInput{
		RoomNumber: "105", Floor: "1", Type: core.RoomTypeDouble, Capacity: 2, PricePerNight: 1500,
	}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetRoomStatusTransitions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	room, _, err := svc.CreateRoom(ctx, core.CreateRoomInput{
		RoomNumber: "105", Floor: "1", Type: core.RoomTypeSingle, Capacity: 1, PricePerNight: 1200,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	updated, _, err := svc.SetRoomStatus(ctx, room.ID, core.RoomStatusMaintenance)
	if err != nil {
		t.Fatalf("set maintenance: %v", err)
	}
	if updated.Status != core.RoomStatusMaintenance {
		t.Fatalf("status: %s", updated.Status)
	}

	// Occupied is owned by the booking lifecycle and cannot be set directly.
	var verr core.ValidationError
	if _, _, err := svc.SetRoomStatus(ctx, room.ID, core.RoomStatusOccupied); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetRoomStatusBlockedByActiveBooking(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor := seedDonorAndRooms(t, svc, 0)

	booking, _, err := svc.CreateBooking(ctx, core.CreateBookingInput{
		GuestType:      core.GuestTypeDonor,
		DonorID:        donor.ID,
		CheckInDate:    "2026-08-01",
		RoomNumbers:    []string{"101"},
		NumberOfGuests: 1,
		TotalAmount:    1000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	room, _ := svc.GetRoomByNumber("101")

	var abe core.ActiveBookingError
	if _, _, err := svc.SetRoomStatus(ctx, room.ID, core.RoomStatusMaintenance); !errors.As(err, &abe) {
		t.Fatalf("expected active booking error, got %v", err)
	}
	if abe.BookingID != booking.ID {
		t.Fatalf("blocking booking: %+v", abe)
	}

	if _, err := svc.DeleteRoom(ctx, room.ID); !errors.As(err, &abe) {
		t.Fatalf("delete expected active booking error, got %v", err)
	}

	if _, _, err := svc.CheckOut(ctx, core.CheckOutInput{BookingID: booking.ID}); err != nil {
		t.Fatalf("check out: %v", err)
	}
	if _, _, err := svc.SetRoomStatus(ctx, room.ID, core.RoomStatusMaintenance); err != nil {
		t.Fatalf("set status after checkout: %v", err)
	}
}

func TestUpdateRoomLeavesOccupancyAlone(t *testing.T) {
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
		t.Fatalf("create booking: %v", err)
	}
	room, _ := svc.GetRoomByNumber("101")

	price := int64(1800)
	updated, _, err := svc.UpdateRoom(ctx, room.ID, core.UpdateRoomInput{PricePerNight: &price})
	if err != nil {
		t.Fatalf("update room: %v", err)
	}
	if updated.PricePerNight != 1800 {
		t.Fatalf("price: %d", updated.PricePerNight)
	}
	if updated.Status != core.RoomStatusOccupied || updated.CurrentGuestID != donor.ID {
		t.Fatalf("occupancy disturbed: %+v", updated)
	}
}
