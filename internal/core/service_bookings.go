package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donorstay/pkg/domain"
)

// CreateBooking opens a stay in a single transaction: the walk-in guest
// record is created when needed, every requested room is allocated with a
// compare-and-set from available to occupied, donor bookings are appended to
// the donor's visit history with free-stay entitlement consumption, and a
// confirmation notification is emitted. Any unavailable room aborts the
// whole transaction so a lost race against a concurrent booking cannot
// double-allocate.
func (s *Service) CreateBooking(ctx context.Context, input CreateBookingInput) (Booking, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Booking{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "create_booking")
	var created Booking
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		now := s.now()

		var guestName string
		var donorID, guestID string
		switch input.GuestType {
		case GuestTypeDonor:
			donor, ok := tx.FindDonor(input.DonorID)
			if !ok {
				return ErrNotFound{Entity: EntityDonor, ID: input.DonorID}
			}
			donorID = donor.ID
			guestName = donor.Name
		case GuestTypeNonDonor:
			guest, err := tx.CreateGuest(Guest{
				Name:         input.GuestName,
				Mobile:       input.GuestMobile,
				Address:      input.GuestAddress,
				GovernmentID: input.GovernmentID,
			})
			if err != nil {
				return err
			}
			guestID = guest.ID
			guestName = guest.Name
		}

		checkInTime := input.CheckInTime
		if checkInTime == "" {
			checkInTime = now.Format(domain.TimeLayout)
		}

		// Free stays owe nothing regardless of the quoted room charges.
		chargeable := input.TotalAmount
		if input.IsFreeStay {
			chargeable = 0
		}

		booking := Booking{
			DonorID:              donorID,
			GuestID:              guestID,
			GuestType:            input.GuestType,
			CheckInDate:          input.CheckInDate,
			CheckInTime:          checkInTime,
			ExpectedCheckOutDate: input.ExpectedCheckOutDate,
			RoomNumbers:          input.RoomNumbers,
			NumberOfGuests:       input.NumberOfGuests,
			Status:               BookingStatusUpcoming,
			TotalAmount:          input.TotalAmount,
			PaidAmount:           input.PaidAmount,
			RemainingAmount:      chargeable - input.PaidAmount,
			PaymentMethod:        input.PaymentMethod,
			IsFreeStay:           input.IsFreeStay,
		}

		var err error
		created, err = tx.CreateBooking(booking)
		if err != nil {
			return err
		}

		occupantID := donorID
		if occupantID == "" {
			occupantID = guestID
		}
		if err := allocateRooms(tx, created.RoomNumbers, occupantID, input.GuestType); err != nil {
			return err
		}

		if created.GuestType == GuestTypeDonor {
			if _, err := tx.UpdateDonor(created.DonorID, func(d *Donor) error {
				d.VisitHistory = append(d.VisitHistory, created)
				if created.IsFreeStay {
					d.FreeRoomsUsed += len(created.RoomNumbers)
					if s.freeDayPolicy == domain.FreeDaysByNights {
						nights := nightsBetween(created.CheckInDate, created.ExpectedCheckOutDate, now)
						d.FreeDaysUsed += len(created.RoomNumbers) * nights
					}
				}
				return nil
			}); err != nil {
				return err
			}
		}

		_, err = tx.CreateNotification(Notification{
			DonorID:   donorID,
			GuestID:   guestID,
			GuestName: guestName,
			Type:      NotificationBookingConfirmation,
			Message: fmt.Sprintf("Booking confirmed for %s. Rooms: %s. Check-in: %s at %s.",
				guestName, strings.Join(created.RoomNumbers, ", "), created.CheckInDate, created.CheckInTime),
		})
		return err
	})
	done(err)
	s.logWarnings("create_booking", res)
	return created, res, err
}

// allocateRooms flips every requested room from available to occupied. A
// room in any other state fails the transaction.
func allocateRooms(tx domain.Transaction, roomNumbers []string, occupantID string, guestType GuestType) error {
	for _, num := range roomNumbers {
		room, ok := tx.FindRoomByNumber(num)
		if !ok {
			return ErrNotFound{Entity: EntityRoom, ID: num}
		}
		if room.Status != RoomStatusAvailable {
			return RoomUnavailableError{RoomNumber: num, Status: room.Status}
		}
		if _, err := tx.UpdateRoom(room.ID, func(r *Room) error {
			r.Status = RoomStatusOccupied
			r.CurrentGuestID = occupantID
			r.CurrentGuestType = guestType
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// releaseRooms returns a booking's rooms to the available pool.
func releaseRooms(tx domain.Transaction, roomNumbers []string) error {
	for _, num := range roomNumbers {
		room, ok := tx.FindRoomByNumber(num)
		if !ok {
			continue
		}
		if _, err := tx.UpdateRoom(room.ID, func(r *Room) error {
			r.Status = RoomStatusAvailable
			r.CurrentGuestID = ""
			r.CurrentGuestType = ""
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// syncVisitHistory rewrites the donor's denormalized copy of a booking so it
// matches the authoritative record after an update.
func syncVisitHistory(tx domain.Transaction, booking Booking) error {
	if booking.GuestType != GuestTypeDonor || booking.DonorID == "" {
		return nil
	}
	if _, ok := tx.FindDonor(booking.DonorID); !ok {
		return nil
	}
	_, err := tx.UpdateDonor(booking.DonorID, func(d *Donor) error {
		for i := range d.VisitHistory {
			if d.VisitHistory[i].ID == booking.ID {
				d.VisitHistory[i] = booking
				break
			}
		}
		return nil
	})
	return err
}

// UpdateBooking mutates a booking via the mutator and keeps the donor's
// visit history entry in sync within the same transaction.
func (s *Service) UpdateBooking(ctx context.Context, id string, mutator func(*Booking) error) (Booking, Result, error) {
	ctx, done := s.instrument(ctx, "update_booking")
	var updated Booking
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindBooking(id); !ok {
			return ErrNotFound{Entity: EntityBooking, ID: id}
		}
		var err error
		updated, err = tx.UpdateBooking(id, mutator)
		if err != nil {
			return err
		}
		return syncVisitHistory(tx, updated)
	})
	done(err)
	s.logWarnings("update_booking", res)
	return updated, res, err
}

// CheckIn marks arrival. Empty date and time fall back to the current
// instant; supplying either marks the check-in timestamp manually edited.
func (s *Service) CheckIn(ctx context.Context, input CheckInInput) (Booking, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Booking{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "check_in")
	var updated Booking
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		booking, ok := tx.FindBooking(input.BookingID)
		if !ok {
			return ErrNotFound{Entity: EntityBooking, ID: input.BookingID}
		}
		if booking.Status == BookingStatusCheckedOut {
			return validationErrorf("booking %s is already checked out", booking.ID)
		}

		now := s.now()
		date, tod := input.Date, input.Time
		if date == "" {
			date = now.Format(domain.DateLayout)
		}
		if tod == "" {
			tod = now.Format(domain.TimeLayout)
		}
		manual := input.Date != "" || input.Time != ""

		var err error
		updated, err = tx.UpdateBooking(booking.ID, func(b *Booking) error {
			b.Status = BookingStatusCheckedIn
			b.CheckInDate = date
			b.CheckInTime = tod
			b.CheckInAutoTime = now
			b.CheckInManuallyEdited = manual
			return nil
		})
		if err != nil {
			return err
		}
		if err := syncVisitHistory(tx, updated); err != nil {
			return err
		}

		name := s.occupantName(tx, updated)
		_, err = tx.CreateNotification(Notification{
			DonorID:   updated.DonorID,
			GuestID:   updated.GuestID,
			GuestName: name,
			Type:      NotificationCheckInConfirmation,
			Message: fmt.Sprintf("%s checked in to rooms %s on %s at %s.",
				name, strings.Join(updated.RoomNumbers, ", "), date, tod),
		})
		return err
	})
	done(err)
	s.logWarnings("check_in", res)
	return updated, res, err
}

// CheckOut marks departure, releases the rooms, and syncs the visit history.
// Checking out an already checked-out booking is a no-op returning the
// booking unchanged.
func (s *Service) CheckOut(ctx context.Context, input CheckOutInput) (Booking, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Booking{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "check_out")
	var updated Booking
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		booking, ok := tx.FindBooking(input.BookingID)
		if !ok {
			return ErrNotFound{Entity: EntityBooking, ID: input.BookingID}
		}
		if booking.Status == BookingStatusCheckedOut {
			updated = booking
			return nil
		}

		now := s.now()
		date, tod := input.Date, input.Time
		if date == "" {
			date = now.Format(domain.DateLayout)
		}
		if tod == "" {
			tod = now.Format(domain.TimeLayout)
		}
		manual := input.Date != "" || input.Time != ""

		if err := releaseRooms(tx, booking.RoomNumbers); err != nil {
			return err
		}

		var err error
		updated, err = tx.UpdateBooking(booking.ID, func(b *Booking) error {
			b.Status = BookingStatusCheckedOut
			b.CheckOutDate = date
			b.CheckOutTime = tod
			b.CheckOutAutoTime = now
			b.CheckOutManuallyEdited = manual
			return nil
		})
		if err != nil {
			return err
		}
		if err := syncVisitHistory(tx, updated); err != nil {
			return err
		}

		name := s.occupantName(tx, updated)
		_, err = tx.CreateNotification(Notification{
			DonorID:   updated.DonorID,
			GuestID:   updated.GuestID,
			GuestName: name,
			Type:      NotificationCheckOutConfirmation,
			Message: fmt.Sprintf("%s checked out of rooms %s on %s at %s.",
				name, strings.Join(updated.RoomNumbers, ", "), date, tod),
		})
		return err
	})
	done(err)
	s.logWarnings("check_out", res)
	return updated, res, err
}

// occupantName resolves the display name for a booking's owner.
func (s *Service) occupantName(tx domain.Transaction, booking Booking) string {
	if booking.GuestType == GuestTypeDonor {
		if donor, ok := tx.FindDonor(booking.DonorID); ok {
			return donor.Name
		}
	} else if guest, ok := tx.FindGuest(booking.GuestID); ok {
		return guest.Name
	}
	return "Guest"
}

// GetBooking retrieves a booking by ID.
func (s *Service) GetBooking(id string) (Booking, error) {
	b, ok := s.store.GetBooking(id)
	if !ok {
		return Booking{}, ErrNotFound{Entity: EntityBooking, ID: id}
	}
	return b, nil
}

// ListBookings returns all bookings, newest first.
func (s *Service) ListBookings() []Booking {
	return s.store.ListBookings()
}

// nightsBetween computes billable nights from wire-format dates. The stay is
// charged per started 24h period with a one-night minimum; an unset
// check-out date falls back to the supplied instant.
func nightsBetween(checkInDate, checkOutDate string, fallback time.Time) int {
	in, err := time.Parse(domain.DateLayout, checkInDate)
	if err != nil {
		return 1
	}
	out := fallback
	if checkOutDate != "" {
		if parsed, err := time.Parse(domain.DateLayout, checkOutDate); err == nil {
			out = parsed
		}
	}
	nights := int((out.Sub(in) + 24*time.Hour - 1) / (24 * time.Hour))
	if nights < 1 {
		return 1
	}
	return nights
}
