package core_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"donorstay/internal/core"
	memblob "donorstay/internal/infra/blob/memory"
	"donorstay/pkg/domain"
)

func TestPaymentStatusProgression(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}

	payment, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{
		DonorID:     donor.ID,
		TotalAmount: 10000,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.Status != core.PaymentStatusPending || payment.RemainingAmount != 10000 {
		t.Fatalf("fresh pledge: %+v", payment)
	}
	if len(payment.Installments) != 0 {
		t.Fatalf("pledge without initial amount grew installments: %+v", payment.Installments)
	}

	payment, _, err = svc.AddInstallment(ctx, core.AddInstallmentInput{
		PaymentID: payment.ID,
		Amount:    4000,
		Method:    core.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("first installment: %v", err)
	}
	if payment.Status != core.PaymentStatusPartial || payment.AmountPaid != 4000 || payment.RemainingAmount != 6000 {
		t.Fatalf("after partial: %+v", payment)
	}
	if payment.Installments[0].InstallmentNumber != 1 {
		t.Fatalf("installment numbering: %+v", payment.Installments[0])
	}

	payment, _, err = svc.AddInstallment(ctx, core.AddInstallmentInput{
		PaymentID: payment.ID,
		Amount:    6000,
		Method:    core.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("final installment: %v", err)
	}
	if payment.Status != core.PaymentStatusCompleted || payment.RemainingAmount != 0 {
		t.Fatalf("after completion: %+v", payment)
	}
	if payment.NumberOfInstallments != 2 || payment.Installments[1].InstallmentNumber != 2 {
		t.Fatalf("numbering after completion: %+v", payment.Installments)
	}

	got, _ := svc.GetDonor(donor.ID)
	if got.DonationAmount != 10000 {
		t.Fatalf("donor donation not resummed: %d", got.DonationAmount)
	}
}

func TestCreatePaymentWithInitialAmountSynthesizesInstallment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}

	payment, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{
		DonorID:     donor.ID,
		TotalAmount: 29000,
		AmountPaid:  29000,
		Method:      core.PaymentMethodUPI,
		PaidDate:    "2026-08-10",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.Status != core.PaymentStatusCompleted {
		t.Fatalf("fully paid pledge not completed: %+v", payment)
	}
	if len(payment.Installments) != 1 {
		t.Fatalf("expected synthesized installment, got %+v", payment.Installments)
	}
	inst := payment.Installments[0]
	if inst.InstallmentNumber != 1 || inst.Amount != 29000 || inst.Method != core.PaymentMethodUPI || inst.PaidDate != "2026-08-10" {
		t.Fatalf("synthesized installment: %+v", inst)
	}

	// The payment confirmation and the entitlement refresh both land in the
	// same commit.
	got, _ := svc.GetDonor(donor.ID)
	if got.DonationAmount != 29000 || got.FreeRoomsEntitled != 1 {
		t.Fatalf("donor not reconciled: %+v", got)
	}
	var confirmed bool
	for _, n := range svc.ListNotifications() {
		if n.Type == core.NotificationPaymentConfirmation && strings.Contains(n.Message, "₹29000") {
			confirmed = true
		}
	}
	if !confirmed {
		t.Fatalf("payment confirmation missing: %+v", svc.ListNotifications())
	}
}

func TestAddInstallmentUnknownPayment(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.AddInstallment(context.Background(), core.AddInstallmentInput{
		PaymentID: "missing",
		Amount:    100,
		Method:    core.PaymentMethodCash,
	})
	var nf core.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if nf.Entity != core.EntityPayment || nf.ID != "missing" {
		t.Fatalf("unexpected detail: %+v", nf)
	}
}

func TestInstallmentProofImageStored(t *testing.T) {
	blobs := memblob.New()
	svc := newTestService(core.WithBlobStore(blobs))
	ctx := context.Background()
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}
	payment, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{DonorID: donor.ID, TotalAmount: 5000})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	proof := []byte("fake-jpeg-bytes")
	payment, _, err = svc.AddInstallment(ctx, core.AddInstallmentInput{
		PaymentID:        payment.ID,
		Amount:           2500,
		Method:           core.PaymentMethodCard,
		ProofImage:       proof,
		ProofContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("add installment: %v", err)
	}
	key := payment.Installments[0].ProofImageKey
	if key == "" || !strings.HasPrefix(key, "payments/"+payment.ID+"/proofs/") {
		t.Fatalf("proof key not recorded: %q", key)
	}

	info, rc, err := svc.OpenAttachment(ctx, key)
	if err != nil {
		t.Fatalf("open attachment: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if string(data) != string(proof) {
		t.Fatalf("stored proof mismatch: %q", data)
	}
	if info.ContentType != "image/jpeg" {
		t.Fatalf("content type not preserved: %q", info.ContentType)
	}
}

func TestInstallmentProofWithoutBlobStoreRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}
	payment, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{DonorID: donor.ID, TotalAmount: 5000})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, _, err := svc.AddInstallment(ctx, core.AddInstallmentInput{
		PaymentID:  payment.ID,
		Amount:     2500,
		Method:     core.PaymentMethodCash,
		ProofImage: []byte("x"),
	}); err == nil {
		t.Fatalf("expected error without attachment store")
	}
	// The failed upload aborts the transaction.
	got, _ := svc.GetPayment(payment.ID)
	if len(got.Installments) != 0 || got.AmountPaid != 0 {
		t.Fatalf("failed installment leaked: %+v", got)
	}
}

func TestPaymentBalanceRuleBlocksInconsistentLedger(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	donor, _, err := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	if err != nil {
		t.Fatalf("create donor: %v", err)
	}

	_, err = svc.Store().RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreatePayment(domain.Payment{
			DonorID:         donor.ID,
			TotalAmount:     1000,
			AmountPaid:      300,
			RemainingAmount: 900, // does not reconcile
			Status:          domain.PaymentStatusPartial,
		})
		return err
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	found := false
	for _, v := range rve.Result.Violations {
		if v.Rule == "payment_balance" && v.Severity == domain.SeverityBlock {
			found = true
		}
	}
	if !found {
		t.Fatalf("payment_balance not among violations: %+v", rve.Result.Violations)
	}
	if got := svc.ListPayments(); len(got) != 0 {
		t.Fatalf("blocked payment committed: %+v", got)
	}
}

func TestGetPaymentsByDonor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _, _ := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Asha Rao", Mobile: "9876543210"})
	b, _, _ := svc.CreateDonor(ctx, core.CreateDonorInput{Name: "Bina Sen", Mobile: "9876500000"})

	if _, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{DonorID: a.ID, TotalAmount: 1000}); err != nil {
		t.Fatalf("payment a: %v", err)
	}
	if _, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{DonorID: b.ID, TotalAmount: 2000}); err != nil {
		t.Fatalf("payment b: %v", err)
	}
	if _, _, err := svc.CreatePayment(ctx, core.CreatePaymentInput{DonorID: a.ID, TotalAmount: 3000}); err != nil {
		t.Fatalf("second payment a: %v", err)
	}

	got := svc.GetPaymentsByDonor(a.ID)
	if len(got) != 2 {
		t.Fatalf("expected 2 payments for donor, got %d", len(got))
	}
	for _, p := range got {
		if p.DonorID != a.ID {
			t.Fatalf("foreign payment returned: %+v", p)
		}
	}
}
