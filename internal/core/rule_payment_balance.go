package core

import (
	"context"
	"fmt"

	"donorstay/pkg/domain"
)

// NewPaymentBalanceRule returns the in-transaction rule enforcing the
// payment ledger arithmetic: remaining equals total minus paid, and the
// completed status holds exactly when nothing remains.
func NewPaymentBalanceRule() domain.Rule {
	return paymentBalanceRule{}
}

type paymentBalanceRule struct{}

func (paymentBalanceRule) Name() string { return "payment_balance" }

func (paymentBalanceRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, p := range view.ListPayments() {
		if p.RemainingAmount != p.TotalAmount-p.AmountPaid {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "payment_balance",
				Severity: domain.SeverityBlock,
				Message: fmt.Sprintf("payment %s balance mismatch: remaining %d, total %d, paid %d",
					p.ID, p.RemainingAmount, p.TotalAmount, p.AmountPaid),
				Entity:   domain.EntityPayment,
				EntityID: p.ID,
			})
		}
		completed := p.Status == domain.PaymentStatusCompleted
		if completed != (p.RemainingAmount <= 0) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "payment_balance",
				Severity: domain.SeverityBlock,
				Message: fmt.Sprintf("payment %s status %s inconsistent with remaining %d",
					p.ID, p.Status, p.RemainingAmount),
				Entity:   domain.EntityPayment,
				EntityID: p.ID,
			})
		}
	}
	return res, nil
}
