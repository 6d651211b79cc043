// Package domain defines the persistent entities, value types, and rule
// evaluation primitives of the donorstay guest-house core.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityDonor identifies a donor record.
	EntityDonor EntityType = "donor"
	// EntityGuest identifies a walk-in (non-donor) guest record.
	EntityGuest EntityType = "guest"
	// EntityRoom identifies a room inventory record.
	EntityRoom EntityType = "room"
	// EntityBooking identifies a visit/booking record.
	EntityBooking EntityType = "booking"
	// EntityPayment identifies a donation pledge ledger record.
	EntityPayment EntityType = "payment"
	// EntityBill identifies an immutable bill snapshot.
	EntityBill EntityType = "bill"
	// EntityNotification identifies an append-only notification record.
	EntityNotification EntityType = "notification"
)

// GuestType discriminates who owns a booking: a donor or a walk-in guest.
type GuestType string

// Booking ownership discriminators. Exactly one of DonorID/GuestID is set
// depending on this value.
const (
	GuestTypeDonor    GuestType = "donor"
	GuestTypeNonDonor GuestType = "non_donor"
)

// RoomStatus enumerates room availability states.
type RoomStatus string

// Canonical room statuses. A room is occupied exactly while an active
// booking references it; reserved and maintenance are operator-set.
const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusReserved    RoomStatus = "reserved"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// RoomType enumerates the room categories carried by the inventory.
type RoomType string

// Room categories from the default inventory seed.
const (
	RoomTypeSingle    RoomType = "single"
	RoomTypeDouble    RoomType = "double"
	RoomTypeSuite     RoomType = "suite"
	RoomTypeDeluxe    RoomType = "deluxe"
	RoomTypeDormitory RoomType = "dormitory"
)

// BookingStatus enumerates the booking lifecycle. The lifecycle is linear:
// upcoming -> checked_in -> checked_out, with checked_out terminal. No
// cancellation state exists; cancellation is an external policy concern.
type BookingStatus string

// Booking lifecycle states.
const (
	BookingStatusUpcoming   BookingStatus = "upcoming"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
)

// PaymentStatus enumerates pledge ledger states derived from balances.
type PaymentStatus string

// Payment statuses. Completed holds iff remaining amount <= 0.
const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PaymentMethod enumerates the accepted tender types.
type PaymentMethod string

// Accepted payment methods.
const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodMixed        PaymentMethod = "mixed"
)

// NotificationType categorizes append-only notifications.
type NotificationType string

// Notification categories emitted by the core and by the presentation layer.
const (
	NotificationWelcome              NotificationType = "welcome"
	NotificationBookingConfirmation  NotificationType = "booking_confirmation"
	NotificationCheckInReminder      NotificationType = "check_in_reminder"
	NotificationCheckInConfirmation  NotificationType = "check_in_confirmation"
	NotificationCheckOutReminder     NotificationType = "check_out_reminder"
	NotificationCheckOutConfirmation NotificationType = "check_out_confirmation"
	NotificationPaymentConfirmation  NotificationType = "payment_confirmation"
	NotificationPaymentDue           NotificationType = "payment_due"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all mutable domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Donor is a contributor entitled to free-stay benefits proportional to
// cumulative donation. DonorID is the public sequential code (DNR<seq>);
// QRCode is assigned once at creation and never overwritten.
type Donor struct {
	Base
	DonorID       string        `json:"donor_id"`
	Name          string        `json:"name"`
	Mobile        string        `json:"mobile"`
	Address       string        `json:"address"`
	AadharCard    string        `json:"aadhar_card,omitempty"`
	ModeOfPayment PaymentMethod `json:"mode_of_payment,omitempty"`
	PhotoKey      string        `json:"photo_key,omitempty"`

	DonationAmount    int64 `json:"donation_amount"`
	FreeRoomsEntitled int   `json:"free_rooms_entitled"`
	FreeDaysEntitled  int   `json:"free_days_entitled"`
	FreeRoomsUsed     int   `json:"free_rooms_used"`
	FreeDaysUsed      int   `json:"free_days_used"`

	QRCode string `json:"qr_code,omitempty"`

	// VisitHistory is a denormalized copy of this donor's bookings. The
	// authoritative records live in the bookings collection; every booking
	// write updates both inside one transaction.
	VisitHistory []Booking `json:"visit_history"`
}

// RemainingFreeRooms returns the unconsumed free-room allowance.
func (d Donor) RemainingFreeRooms() int {
	return d.FreeRoomsEntitled - d.FreeRoomsUsed
}

// Guest is a non-donor occupant booked and billed at standard rates.
type Guest struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	Address      string    `json:"address"`
	GovernmentID string    `json:"government_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Room is one rentable unit of inventory. RoomNumber is the unique human key
// bookings reference; CurrentGuestID/CurrentGuestType are set while occupied.
type Room struct {
	Base
	RoomNumber       string     `json:"room_number"`
	Floor            string     `json:"floor"`
	Type             RoomType   `json:"type"`
	Capacity         int        `json:"capacity"`
	Status           RoomStatus `json:"status"`
	CurrentGuestID   string     `json:"current_guest_id,omitempty"`
	CurrentGuestType GuestType  `json:"current_guest_type,omitempty"`
	PricePerNight    int64      `json:"price_per_night"`
	Amenities        []string   `json:"amenities,omitempty"`
}

// Booking is one stay spanning one or more rooms, owned by exactly one donor
// or guest. Date fields use the DateLayout/TimeLayout wire formats; the
// AutoTime fields carry the machine-stamped instant and the ManuallyEdited
// flags record whether the caller supplied an explicit override.
type Booking struct {
	Base
	DonorID   string    `json:"donor_id,omitempty"`
	GuestID   string    `json:"guest_id,omitempty"`
	GuestType GuestType `json:"guest_type"`

	CheckInDate           string    `json:"check_in_date"`
	CheckInTime           string    `json:"check_in_time"`
	CheckInAutoTime       time.Time `json:"check_in_auto_time,omitempty"`
	CheckInManuallyEdited bool      `json:"check_in_manually_edited,omitempty"`

	CheckOutDate           string    `json:"check_out_date,omitempty"`
	CheckOutTime           string    `json:"check_out_time,omitempty"`
	CheckOutAutoTime       time.Time `json:"check_out_auto_time,omitempty"`
	CheckOutManuallyEdited bool      `json:"check_out_manually_edited,omitempty"`
	ExpectedCheckOutDate   string    `json:"expected_check_out_date,omitempty"`

	RoomNumbers    []string      `json:"room_numbers"`
	NumberOfGuests int           `json:"number_of_guests"`
	Status         BookingStatus `json:"status"`

	TotalAmount     int64         `json:"total_amount"`
	PaidAmount      int64         `json:"paid_amount"`
	RemainingAmount int64         `json:"remaining_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	IsFreeStay      bool          `json:"is_free_stay"`
}

// Active reports whether the booking still holds its rooms.
func (b Booking) Active() bool {
	return b.Status != BookingStatusCheckedOut
}

// Date and time wire layouts used by booking and bill records.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Payment is a per-donor donation pledge ledger. It is distinct from a
// booking's own billing fields: a Payment tracks the pledge, a booking's paid
// amount tracks stay charges.
type Payment struct {
	Base
	DonorID   string `json:"donor_id"`
	DonorName string `json:"donor_name,omitempty"`

	TotalAmount     int64 `json:"total_amount"`
	AmountPaid      int64 `json:"amount_paid"`
	RemainingAmount int64 `json:"remaining_amount"`

	NumberOfInstallments int           `json:"number_of_installments"`
	Installments         []Installment `json:"installments"`

	Status PaymentStatus `json:"status"`
}

// Installment is one partial payment applied against a Payment pledge.
// Installments are immutable once created; appending is the only mutation.
type Installment struct {
	ID                string        `json:"id"`
	PaymentID         string        `json:"payment_id"`
	InstallmentNumber int           `json:"installment_number"`
	Amount            int64         `json:"amount"`
	PaidDate          string        `json:"paid_date"`
	Method            PaymentMethod `json:"method"`
	ReferenceNumber   string        `json:"reference_number,omitempty"`
	ProofImageKey     string        `json:"proof_image_key,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Bill is an immutable financial snapshot generated from a booking. Identity
// fields are resolved at generation time, not frozen at booking creation.
// Bills are never updated; regenerating produces a second independent bill.
type Bill struct {
	ID           string    `json:"id"`
	BillNumber   string    `json:"bill_number"`
	BookingID    string    `json:"booking_id"`
	GuestName    string    `json:"guest_name"`
	GuestMobile  string    `json:"guest_mobile"`
	GuestAddress string    `json:"guest_address"`
	GuestType    GuestType `json:"guest_type"`
	DonorID      string    `json:"donor_id,omitempty"`

	HotelName    string `json:"hotel_name"`
	HotelAddress string `json:"hotel_address"`
	HotelPhone   string `json:"hotel_phone"`

	RoomNumbers    []string `json:"room_numbers"`
	RoomType       string   `json:"room_type"`
	CheckInDate    string   `json:"check_in_date"`
	CheckInTime    string   `json:"check_in_time"`
	CheckOutDate   string   `json:"check_out_date"`
	CheckOutTime   string   `json:"check_out_time"`
	NumberOfNights int      `json:"number_of_nights"`
	NumberOfGuests int      `json:"number_of_guests"`

	RoomCharges     int64         `json:"room_charges"`
	Taxes           int64         `json:"taxes"`
	Discount        int64         `json:"discount"`
	TotalAmount     int64         `json:"total_amount"`
	PaidAmount      int64         `json:"paid_amount"`
	RemainingAmount int64         `json:"remaining_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	IsFreeStay      bool          `json:"is_free_stay"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Notification is an append-only record with a read/unread flag.
type Notification struct {
	ID        string           `json:"id"`
	DonorID   string           `json:"donor_id,omitempty"`
	GuestID   string           `json:"guest_id,omitempty"`
	GuestName string           `json:"guest_name"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
