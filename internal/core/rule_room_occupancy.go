package core

import (
	"context"
	"fmt"

	"donorstay/pkg/domain"
)

// NewRoomOccupancyRule returns the in-transaction rule enforcing that every
// room hosts at most one active booking, and that rooms held by an active
// booking are marked occupied.
func NewRoomOccupancyRule() domain.Rule {
	return roomOccupancyRule{}
}

type roomOccupancyRule struct{}

func (roomOccupancyRule) Name() string { return "room_single_occupancy" }

func (roomOccupancyRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	active := make(map[string][]string)
	for _, booking := range view.ListBookings() {
		if !booking.Active() {
			continue
		}
		for _, num := range booking.RoomNumbers {
			active[num] = append(active[num], booking.ID)
		}
	}

	res := domain.Result{}
	for num, bookingIDs := range active {
		room, ok := view.FindRoomByNumber(num)
		if !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "room_single_occupancy",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("active booking %s references missing room %s", bookingIDs[0], num),
				Entity:   domain.EntityRoom,
				EntityID: num,
			})
			continue
		}
		if len(bookingIDs) > 1 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "room_single_occupancy",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("room %s held by %d active bookings", num, len(bookingIDs)),
				Entity:   domain.EntityRoom,
				EntityID: room.ID,
			})
		}
		if room.Status != domain.RoomStatusOccupied {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "room_single_occupancy",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("room %s is %s while booking %s is active", num, room.Status, bookingIDs[0]),
				Entity:   domain.EntityRoom,
				EntityID: room.ID,
			})
		}
	}
	return res, nil
}
