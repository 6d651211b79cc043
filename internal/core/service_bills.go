package core

import (
	"context"
	"fmt"

	"donorstay/pkg/domain"
)

// GenerateBill produces an immutable financial snapshot for a booking. The
// occupant identity is resolved at generation time, so a donor rename shows
// up on later bills. Bills are appended, never replaced; generating twice
// for the same booking yields two independent snapshots with distinct bill
// numbers.
func (s *Service) GenerateBill(ctx context.Context, bookingID string) (Bill, Result, error) {
	ctx, done := s.instrument(ctx, "generate_bill")
	var created Bill
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		booking, ok := tx.FindBooking(bookingID)
		if !ok {
			return ErrNotFound{Entity: EntityBooking, ID: bookingID}
		}

		var guestName, guestMobile, guestAddress string
		if booking.GuestType == GuestTypeDonor && booking.DonorID != "" {
			if donor, ok := tx.FindDonor(booking.DonorID); ok {
				guestName = donor.Name
				guestMobile = donor.Mobile
				guestAddress = donor.Address
			}
		} else if booking.GuestID != "" {
			if guest, ok := tx.FindGuest(booking.GuestID); ok {
				guestName = guest.Name
				guestMobile = guest.Mobile
				guestAddress = guest.Address
			}
		}

		now := s.now()
		checkOutDate := booking.CheckOutDate
		if checkOutDate == "" {
			checkOutDate = now.Format(domain.DateLayout)
		}
		checkOutTime := booking.CheckOutTime
		if checkOutTime == "" {
			checkOutTime = now.Format(domain.TimeLayout)
		}
		nights := nightsBetween(booking.CheckInDate, booking.CheckOutDate, now)

		method := booking.PaymentMethod
		if method == "" {
			method = PaymentMethodCash
		}

		total := booking.TotalAmount
		var discount int64
		if booking.IsFreeStay {
			discount = booking.TotalAmount
			total = 0
		}

		billNumber := fmt.Sprintf("BILL-%s-%d", now.Format("20060102"), tx.NextBillSeq())

		var err error
		created, err = tx.CreateBill(Bill{
			BillNumber:   billNumber,
			BookingID:    booking.ID,
			GuestName:    guestName,
			GuestMobile:  guestMobile,
			GuestAddress: guestAddress,
			GuestType:    booking.GuestType,
			DonorID:      booking.DonorID,

			HotelName:    s.hotel.Name,
			HotelAddress: s.hotel.Address,
			HotelPhone:   s.hotel.Phone,

			RoomNumbers:    booking.RoomNumbers,
			RoomType:       "Standard",
			CheckInDate:    booking.CheckInDate,
			CheckInTime:    booking.CheckInTime,
			CheckOutDate:   checkOutDate,
			CheckOutTime:   checkOutTime,
			NumberOfNights: nights,
			NumberOfGuests: booking.NumberOfGuests,

			RoomCharges:     booking.TotalAmount,
			Taxes:           0,
			Discount:        discount,
			TotalAmount:     total,
			PaidAmount:      booking.PaidAmount,
			RemainingAmount: booking.RemainingAmount,
			PaymentMethod:   method,
			IsFreeStay:      booking.IsFreeStay,

			GeneratedAt: now,
		})
		return err
	})
	done(err)
	s.logWarnings("generate_bill", res)
	return created, res, err
}

// ListBills returns all bills, newest first.
func (s *Service) ListBills() []Bill {
	return s.store.ListBills()
}

// BillsForBooking returns every bill generated for a booking, newest first.
func (s *Service) BillsForBooking(bookingID string) []Bill {
	var out []Bill
	for _, b := range s.store.ListBills() {
		if b.BookingID == bookingID {
			out = append(out, b)
		}
	}
	return out
}
