package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"donorstay/internal/blob"
	"donorstay/pkg/domain"
)

// CreatePayment opens a donation pledge ledger for a donor. A non-zero
// initial amount synthesizes installment #1 in the same transaction, and the
// donor's cumulative donation is reconciled by resumming all of the donor's
// payments.
func (s *Service) CreatePayment(ctx context.Context, input CreatePaymentInput) (Payment, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Payment{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "create_payment")
	var created Payment
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		donor, ok := tx.FindDonor(input.DonorID)
		if !ok {
			return ErrNotFound{Entity: EntityDonor, ID: input.DonorID}
		}

		remaining := input.TotalAmount - input.AmountPaid
		status := PaymentStatusPending
		switch {
		case remaining <= 0:
			status = PaymentStatusCompleted
		case input.AmountPaid > 0:
			status = PaymentStatusPartial
		}

		var err error
		created, err = tx.CreatePayment(Payment{
			DonorID:         donor.ID,
			DonorName:       donor.Name,
			TotalAmount:     input.TotalAmount,
			AmountPaid:      input.AmountPaid,
			RemainingAmount: remaining,
			Status:          status,
		})
		if err != nil {
			return err
		}

		if input.AmountPaid > 0 {
			paidDate := input.PaidDate
			if paidDate == "" {
				paidDate = s.now().Format(domain.DateLayout)
			}
			method := input.Method
			if method == "" {
				method = PaymentMethodCash
			}
			first := Installment{
				ID:                uuid.NewString(),
				PaymentID:         created.ID,
				InstallmentNumber: 1,
				Amount:            input.AmountPaid,
				PaidDate:          paidDate,
				Method:            method,
				ReferenceNumber:   input.ReferenceNumber,
				Notes:             input.Notes,
				CreatedAt:         s.now(),
			}
			created, err = tx.UpdatePayment(created.ID, func(p *Payment) error {
				p.Installments = append(p.Installments, first)
				p.NumberOfInstallments = len(p.Installments)
				return nil
			})
			if err != nil {
				return err
			}
			if _, err := tx.CreateNotification(Notification{
				DonorID:   donor.ID,
				GuestName: donor.Name,
				Type:      NotificationPaymentConfirmation,
				Message: fmt.Sprintf("Payment of ₹%d received. Remaining: ₹%d",
					input.AmountPaid, created.RemainingAmount),
			}); err != nil {
				return err
			}
		}

		return resumDonorDonation(tx, donor.ID)
	})
	done(err)
	s.logWarnings("create_payment", res)
	return created, res, err
}

// AddInstallment appends a partial payment to a pledge, recomputes the
// ledger balances and status, reconciles the donor's cumulative donation,
// and emits a payment confirmation. An attached proof image is stored in
// the attachment store and its key recorded on the installment.
func (s *Service) AddInstallment(ctx context.Context, input AddInstallmentInput) (Payment, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Payment{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "add_installment")
	var updated Payment
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		payment, ok := tx.FindPayment(input.PaymentID)
		if !ok {
			return ErrNotFound{Entity: EntityPayment, ID: input.PaymentID}
		}

		paidDate := input.PaidDate
		if paidDate == "" {
			paidDate = s.now().Format(domain.DateLayout)
		}
		inst := Installment{
			ID:                uuid.NewString(),
			PaymentID:         payment.ID,
			InstallmentNumber: len(payment.Installments) + 1,
			Amount:            input.Amount,
			PaidDate:          paidDate,
			Method:            input.Method,
			ReferenceNumber:   input.ReferenceNumber,
			Notes:             input.Notes,
			CreatedAt:         s.now(),
		}

		if len(input.ProofImage) > 0 {
			key, err := s.putInstallmentProof(ctx, inst, input.ProofImage, input.ProofContentType)
			if err != nil {
				return err
			}
			inst.ProofImageKey = key
		}

		var err error
		updated, err = tx.UpdatePayment(payment.ID, func(p *Payment) error {
			p.Installments = append(p.Installments, inst)
			p.NumberOfInstallments = len(p.Installments)
			p.AmountPaid += inst.Amount
			p.RemainingAmount = p.TotalAmount - p.AmountPaid
			if p.RemainingAmount <= 0 {
				p.Status = PaymentStatusCompleted
			} else {
				p.Status = PaymentStatusPartial
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := resumDonorDonation(tx, updated.DonorID); err != nil {
			return err
		}

		name := updated.DonorName
		if name == "" {
			name = "Guest"
		}
		_, err = tx.CreateNotification(Notification{
			DonorID:   updated.DonorID,
			GuestName: name,
			Type:      NotificationPaymentConfirmation,
			Message: fmt.Sprintf("Payment of ₹%d received. Remaining: ₹%d",
				inst.Amount, updated.RemainingAmount),
		})
		return err
	})
	done(err)
	s.logWarnings("add_installment", res)
	return updated, res, err
}

// putInstallmentProof stores a proof image under a payment-scoped key. The
// upload is not transactional; a blocked commit can leave an unreferenced
// object behind, which is harmless.
func (s *Service) putInstallmentProof(ctx context.Context, inst Installment, data []byte, contentType string) (string, error) {
	if s.blobs == nil {
		return "", blob.ErrUnsupported
	}
	key := fmt.Sprintf("payments/%s/proofs/%s", inst.PaymentID, inst.ID)
	info, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"payment_id": inst.PaymentID},
	})
	if err != nil {
		return "", err
	}
	return info.Key, nil
}

// resumDonorDonation recomputes the donor's cumulative donation as the sum
// of paid amounts across all of the donor's payments. The entitlement
// recomputation piggybacks on the donor update path.
func resumDonorDonation(tx domain.Transaction, donorID string) error {
	if _, ok := tx.FindDonor(donorID); !ok {
		return nil
	}
	var total int64
	for _, p := range tx.ListPaymentsByDonor(donorID) {
		total += p.AmountPaid
	}
	_, err := tx.UpdateDonor(donorID, func(d *Donor) error {
		if d.DonationAmount != total {
			d.DonationAmount = total
			entitlement := domain.ComputeEntitlement(total)
			d.FreeRoomsEntitled = entitlement.Rooms
			d.FreeDaysEntitled = entitlement.Days
		}
		return nil
	})
	return err
}

// GetPayment retrieves a payment ledger by ID.
func (s *Service) GetPayment(id string) (Payment, error) {
	p, ok := s.store.GetPayment(id)
	if !ok {
		return Payment{}, ErrNotFound{Entity: EntityPayment, ID: id}
	}
	return p, nil
}

// ListPayments returns all payment ledgers, newest first.
func (s *Service) ListPayments() []Payment {
	return s.store.ListPayments()
}

// GetPaymentsByDonor returns a donor's payment ledgers, newest first.
func (s *Service) GetPaymentsByDonor(donorID string) []Payment {
	return s.store.ListPaymentsByDonor(donorID)
}
