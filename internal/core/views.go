package core

import (
	"context"
	"strings"

	"donorstay/pkg/domain"
)

// DashboardStats aggregates the operational overview counters.
type DashboardStats struct {
	TotalDonors    int   `json:"total_donors"`
	TotalDonations int64 `json:"total_donations"`
	TotalGuests    int   `json:"total_guests"`

	OccupiedRooms  int `json:"occupied_rooms"`
	AvailableRooms int `json:"available_rooms"`
	TotalRooms     int `json:"total_rooms"`

	PendingPayments       int   `json:"pending_payments"`
	PendingPaymentsAmount int64 `json:"pending_payments_amount"`
	UnreadNotifications   int   `json:"unread_notifications"`

	TodayCheckIns  int `json:"today_check_ins"`
	TodayCheckOuts int `json:"today_check_outs"`

	MonthlyIncome   int64 `json:"monthly_income"`
	DonorRevenue    int64 `json:"donor_revenue"`
	NonDonorRevenue int64 `json:"non_donor_revenue"`
}

// SearchResult groups the entity hits of a global search.
type SearchResult struct {
	Donors   []Donor   `json:"donors"`
	Guests   []Guest   `json:"guests"`
	Bookings []Booking `json:"bookings"`
}

// Dashboard computes the overview counters from one consistent snapshot.
// Today is the calendar date of the service clock; the income window is the
// current calendar month.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.store.View(ctx, func(view domain.RuleView) error {
		now := s.now()
		today := now.Format(domain.DateLayout)
		month := now.Format("2006-01")

		for _, d := range view.ListDonors() {
			stats.TotalDonors++
			stats.TotalDonations += d.DonationAmount
		}
		stats.TotalGuests = len(view.ListGuests())

		for _, r := range view.ListRooms() {
			stats.TotalRooms++
			switch r.Status {
			case RoomStatusOccupied:
				stats.OccupiedRooms++
			case RoomStatusAvailable:
				stats.AvailableRooms++
			}
		}

		for _, p := range view.ListPayments() {
			if p.Status != PaymentStatusCompleted {
				stats.PendingPayments++
				stats.PendingPaymentsAmount += p.RemainingAmount
			}
		}

		for _, n := range view.ListNotifications() {
			if !n.Read {
				stats.UnreadNotifications++
			}
		}

		for _, b := range view.ListBookings() {
			if b.CheckInDate == today {
				stats.TodayCheckIns++
			}
			if b.CheckOutDate == today {
				stats.TodayCheckOuts++
			}
			if b.CreatedAt.Format("2006-01") == month {
				stats.MonthlyIncome += b.PaidAmount
			}
			if b.GuestType == GuestTypeDonor {
				stats.DonorRevenue += b.PaidAmount
			} else {
				stats.NonDonorRevenue += b.PaidAmount
			}
		}
		return nil
	})
	return stats, err
}

// SearchDonors matches donors by name, public donor code, or mobile number.
func (s *Service) SearchDonors(term string) []Donor {
	lower := strings.ToLower(term)
	var out []Donor
	for _, d := range s.store.ListDonors() {
		if strings.Contains(strings.ToLower(d.Name), lower) ||
			strings.Contains(strings.ToLower(d.DonorID), lower) ||
			strings.Contains(d.Mobile, term) {
			out = append(out, d)
		}
	}
	return out
}

// SearchGuests matches walk-in guests by name or mobile number.
func (s *Service) SearchGuests(term string) []Guest {
	lower := strings.ToLower(term)
	var out []Guest
	for _, g := range s.store.ListGuests() {
		if strings.Contains(strings.ToLower(g.Name), lower) ||
			strings.Contains(g.Mobile, term) {
			out = append(out, g)
		}
	}
	return out
}

// GlobalSearch matches donors, guests, and bookings against one term.
// Bookings match through their owner's name, donor code, or mobile.
func (s *Service) GlobalSearch(ctx context.Context, term string) (SearchResult, error) {
	result := SearchResult{
		Donors: s.SearchDonors(term),
		Guests: s.SearchGuests(term),
	}
	lower := strings.ToLower(term)
	err := s.store.View(ctx, func(view domain.RuleView) error {
		for _, b := range view.ListBookings() {
			var name, code, mobile string
			if b.DonorID != "" {
				if donor, ok := view.FindDonor(b.DonorID); ok {
					name, code, mobile = donor.Name, donor.DonorID, donor.Mobile
				}
			} else if b.GuestID != "" {
				if guest, ok := view.FindGuest(b.GuestID); ok {
					name, mobile = guest.Name, guest.Mobile
				}
			}
			if strings.Contains(strings.ToLower(name), lower) ||
				strings.Contains(strings.ToLower(code), lower) ||
				(mobile != "" && strings.Contains(mobile, term)) {
				result.Bookings = append(result.Bookings, b)
			}
		}
		return nil
	})
	return result, err
}
