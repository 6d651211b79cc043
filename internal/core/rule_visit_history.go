package core

import (
	"bytes"
	"context"
	"fmt"

	"donorstay/pkg/domain"
)

// NewVisitHistorySyncRule returns the rule guarding the denormalized visit
// history: every entry in a donor's history must match its authoritative
// booking record byte for byte.
func NewVisitHistorySyncRule() domain.Rule {
	return visitHistorySyncRule{}
}

type visitHistorySyncRule struct{}

func (visitHistorySyncRule) Name() string { return "visit_history_sync" }

func (visitHistorySyncRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, d := range view.ListDonors() {
		for _, entry := range d.VisitHistory {
			booking, ok := view.FindBooking(entry.ID)
			if !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "visit_history_sync",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("donor %s visit history references missing booking %s", d.DonorID, entry.ID),
					Entity:   domain.EntityDonor,
					EntityID: d.ID,
				})
				continue
			}
			if !sameBooking(entry, booking) {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "visit_history_sync",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("donor %s visit history diverged from booking %s", d.DonorID, booking.ID),
					Entity:   domain.EntityDonor,
					EntityID: d.ID,
				})
			}
		}
	}
	return res, nil
}

// sameBooking compares through the JSON wire form so the check stays in
// lockstep with the persisted representation.
func sameBooking(a, b domain.Booking) bool {
	ap, err := domain.NewChangePayloadFromValue(a)
	if err != nil {
		return false
	}
	bp, err := domain.NewChangePayloadFromValue(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ap.Raw(), bp.Raw())
}
