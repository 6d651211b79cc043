package core

import (
	"context"
	"fmt"

	"donorstay/pkg/domain"
)

// NewEntitlementOverdrawRule returns the rule surfacing donors whose
// consumed free rooms exceed their entitlement. Overdraw is a soft policy:
// the violation warns and the transaction still commits, leaving the
// decision to the operator.
func NewEntitlementOverdrawRule() domain.Rule {
	return entitlementOverdrawRule{}
}

type entitlementOverdrawRule struct{}

func (entitlementOverdrawRule) Name() string { return "entitlement_overdraw" }

func (entitlementOverdrawRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, d := range view.ListDonors() {
		if d.FreeRoomsUsed > d.FreeRoomsEntitled {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "entitlement_overdraw",
				Severity: domain.SeverityWarn,
				Message: fmt.Sprintf("donor %s has used %d free rooms of %d entitled",
					d.DonorID, d.FreeRoomsUsed, d.FreeRoomsEntitled),
				Entity:   domain.EntityDonor,
				EntityID: d.ID,
			})
		}
	}
	return res, nil
}
