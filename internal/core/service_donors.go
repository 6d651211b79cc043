package core

import (
	"context"
	"errors"
	"fmt"

	"donorstay/pkg/domain"
)

// CreateDonor registers a donor, assigns the sequential public donor code
// and the one-time QR code, computes the free-stay entitlement from the
// donation amount, and emits a welcome notification, all in one transaction.
func (s *Service) CreateDonor(ctx context.Context, input CreateDonorInput) (Donor, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Donor{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "create_donor")
	var created Donor
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		donorID := fmt.Sprintf("DNR%d", tx.NextDonorSeq())
		if _, exists := tx.FindDonorByDonorID(donorID); exists {
			return validationErrorf("donor code %s already taken", donorID)
		}

		entitlement := domain.ComputeEntitlement(input.DonationAmount)
		freeRooms := input.FreeRoomsEntitled
		if freeRooms == 0 {
			freeRooms = entitlement.Rooms
		}
		freeDays := input.FreeDaysEntitled
		if freeDays == 0 {
			freeDays = entitlement.Days
		}

		donor := Donor{
			DonorID:           donorID,
			Name:              input.Name,
			Mobile:            input.Mobile,
			Address:           input.Address,
			AadharCard:        input.AadharCard,
			ModeOfPayment:     input.ModeOfPayment,
			DonationAmount:    input.DonationAmount,
			FreeRoomsEntitled: freeRooms,
			FreeDaysEntitled:  freeDays,
			QRCode:            fmt.Sprintf("DONOR-%s-%d", donorID, s.now().UnixMilli()),
		}

		var err error
		created, err = tx.CreateDonor(donor)
		if err != nil {
			return err
		}

		_, err = tx.CreateNotification(Notification{
			DonorID:   created.ID,
			GuestName: created.Name,
			Type:      NotificationWelcome,
			Message: fmt.Sprintf("Welcome %s! Your donor ID is %s. You have %d free rooms remaining.",
				created.Name, created.DonorID, created.RemainingFreeRooms()),
		})
		return err
	})
	done(err)
	s.logWarnings("create_donor", res)
	return created, res, err
}

// UpdateDonor applies a merge-style donor update. A donation amount change
// recomputes the entitlement; the QR code assigned at creation is preserved
// regardless of the input.
func (s *Service) UpdateDonor(ctx context.Context, id string, input UpdateDonorInput) (Donor, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Donor{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "update_donor")
	var updated Donor
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindDonor(id); !ok {
			return ErrNotFound{Entity: EntityDonor, ID: id}
		}
		var err error
		updated, err = tx.UpdateDonor(id, func(d *Donor) error {
			if input.Name != nil {
				d.Name = *input.Name
			}
			if input.Mobile != nil {
				d.Mobile = *input.Mobile
			}
			if input.Address != nil {
				d.Address = *input.Address
			}
			if input.AadharCard != nil {
				d.AadharCard = *input.AadharCard
			}
			if input.ModeOfPayment != nil {
				d.ModeOfPayment = *input.ModeOfPayment
			}
			if input.DonationAmount != nil && *input.DonationAmount != d.DonationAmount {
				d.DonationAmount = *input.DonationAmount
				entitlement := domain.ComputeEntitlement(d.DonationAmount)
				d.FreeRoomsEntitled = entitlement.Rooms
				d.FreeDaysEntitled = entitlement.Days
			}
			return nil
		})
		return err
	})
	done(err)
	s.logWarnings("update_donor", res)
	return updated, res, err
}

// DeleteDonor removes a donor record. Deletion is forbidden while any active
// booking references the donor; checked-out history does not block it.
func (s *Service) DeleteDonor(ctx context.Context, id string) (Result, error) {
	ctx, done := s.instrument(ctx, "delete_donor")
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindDonor(id); !ok {
			return ErrNotFound{Entity: EntityDonor, ID: id}
		}
		for _, b := range tx.ListBookings() {
			if b.DonorID == id && b.Active() {
				return ActiveBookingError{Entity: EntityDonor, ID: id, BookingID: b.ID}
			}
		}
		return tx.DeleteDonor(id)
	})
	done(err)
	s.logWarnings("delete_donor", res)
	return res, err
}

// GetDonor retrieves a donor by internal ID.
func (s *Service) GetDonor(id string) (Donor, error) {
	d, ok := s.store.GetDonor(id)
	if !ok {
		return Donor{}, ErrNotFound{Entity: EntityDonor, ID: id}
	}
	return d, nil
}

// GetDonorByDonorID retrieves a donor by the public sequential code.
func (s *Service) GetDonorByDonorID(donorID string) (Donor, error) {
	d, ok := s.store.GetDonorByDonorID(donorID)
	if !ok {
		return Donor{}, ErrNotFound{Entity: EntityDonor, ID: donorID}
	}
	return d, nil
}

// ListDonors returns all donors, newest first.
func (s *Service) ListDonors() []Donor {
	return s.store.ListDonors()
}

// IsNotFound reports whether err is an ErrNotFound from any operation.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
