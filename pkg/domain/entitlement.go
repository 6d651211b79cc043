package domain

// EntitlementDivisor is the donation amount that grants one free room.
const EntitlementDivisor = 29000

// FreeDaysPerRoom is the free-day allowance granted per entitled room.
const FreeDaysPerRoom = 3

// Entitlement is the free-stay allowance computed from a cumulative donation.
type Entitlement struct {
	Rooms int
	Days  int
}

// ComputeEntitlement derives the free-stay allowance from a cumulative
// donation amount: one free room per EntitlementDivisor donated, three free
// days per room. Negative amounts yield a zero entitlement. The function is
// pure and monotonic non-decreasing in amount.
func ComputeEntitlement(amount int64) Entitlement {
	if amount <= 0 {
		return Entitlement{}
	}
	rooms := int(amount / EntitlementDivisor)
	return Entitlement{Rooms: rooms, Days: rooms * FreeDaysPerRoom}
}

// FreeDayConsumption selects how a free-stay booking consumes a donor's
// free-day allowance. The reference behavior consumes rooms only; tracking
// days by night count is offered as an explicit policy choice rather than a
// silent fix.
type FreeDayConsumption int

const (
	// FreeDaysUntracked leaves FreeDaysUsed untouched by free-stay bookings.
	FreeDaysUntracked FreeDayConsumption = iota
	// FreeDaysByNights increments FreeDaysUsed by rooms x expected nights.
	FreeDaysByNights
)
