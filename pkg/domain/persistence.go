package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Update operations take a mutator so
// implementations can clone before/after states for the audit trail.
type Transaction interface {
	Snapshot() RuleView

	CreateDonor(Donor) (Donor, error)
	UpdateDonor(id string, mutator func(*Donor) error) (Donor, error)
	DeleteDonor(id string) error

	CreateGuest(Guest) (Guest, error)

	CreateRoom(Room) (Room, error)
	UpdateRoom(id string, mutator func(*Room) error) (Room, error)
	DeleteRoom(id string) error

	CreateBooking(Booking) (Booking, error)
	UpdateBooking(id string, mutator func(*Booking) error) (Booking, error)

	CreatePayment(Payment) (Payment, error)
	UpdatePayment(id string, mutator func(*Payment) error) (Payment, error)

	CreateBill(Bill) (Bill, error)

	CreateNotification(Notification) (Notification, error)
	UpdateNotification(id string, mutator func(*Notification) error) (Notification, error)

	FindDonor(id string) (Donor, bool)
	FindDonorByDonorID(donorID string) (Donor, bool)
	FindGuest(id string) (Guest, bool)
	FindRoom(id string) (Room, bool)
	FindRoomByNumber(roomNumber string) (Room, bool)
	FindBooking(id string) (Booking, bool)
	FindPayment(id string) (Payment, bool)
	ListRooms() []Room
	ListPaymentsByDonor(donorID string) []Payment
	ListBookings() []Booking

	// NextDonorSeq and NextBillSeq advance the persisted identifier
	// counters. The increment commits or rolls back with the transaction.
	NextDonorSeq() int64
	NextBillSeq() int64
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(RuleView) error) error
	GetDonor(id string) (Donor, bool)
	GetDonorByDonorID(donorID string) (Donor, bool)
	ListDonors() []Donor
	GetGuest(id string) (Guest, bool)
	ListGuests() []Guest
	GetRoom(id string) (Room, bool)
	GetRoomByNumber(roomNumber string) (Room, bool)
	ListRooms() []Room
	GetBooking(id string) (Booking, bool)
	ListBookings() []Booking
	GetPayment(id string) (Payment, bool)
	ListPayments() []Payment
	ListPaymentsByDonor(donorID string) []Payment
	ListBills() []Bill
	ListNotifications() []Notification
}
