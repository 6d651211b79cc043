package core

// Input structs carry operation parameters and their validation tags.
// Validation runs before any transaction opens, so a rejected input never
// touches the store.

// CreateDonorInput registers a new donor. The public DonorID and QR code are
// assigned by the service; entitlement is computed from DonationAmount
// unless explicit overrides are supplied.
type CreateDonorInput struct {
	Name          string        `validate:"required,min=2"`
	Mobile        string        `validate:"required,min=10,max=15"`
	Address       string        `validate:"omitempty,max=500"`
	AadharCard    string        `validate:"omitempty,len=12,numeric"`
	ModeOfPayment PaymentMethod `validate:"omitempty,oneof=cash card upi bank_transfer cheque mixed"`

	DonationAmount int64 `validate:"gte=0"`

	// Optional entitlement overrides. Zero means "compute from donation".
	FreeRoomsEntitled int `validate:"gte=0"`
	FreeDaysEntitled  int `validate:"gte=0"`
}

// UpdateDonorInput is a merge-style donor update. Nil fields are untouched.
// A donation amount change recomputes the entitlement; the QR code is never
// writable.
type UpdateDonorInput struct {
	Name           *string        `validate:"omitempty,min=2"`
	Mobile         *string        `validate:"omitempty,min=10,max=15"`
	Address        *string        `validate:"omitempty,max=500"`
	AadharCard     *string        `validate:"omitempty,len=12,numeric"`
	ModeOfPayment  *PaymentMethod `validate:"omitempty,oneof=cash card upi bank_transfer cheque mixed"`
	DonationAmount *int64         `validate:"omitempty,gte=0"`
}

// CreateRoomInput adds a room to the inventory.
type CreateRoomInput struct {
	RoomNumber    string     `validate:"required"`
	Floor         string     `validate:"required"`
	Type          RoomType   `validate:"required,oneof=single double suite deluxe dormitory"`
	Capacity      int        `validate:"required,gte=1"`
	PricePerNight int64      `validate:"gte=0"`
	Status        RoomStatus `validate:"omitempty,oneof=available occupied reserved maintenance"`
	Amenities     []string   `validate:"omitempty,dive,required"`
}

// UpdateRoomInput is a merge-style room update. Nil fields are untouched.
// Status and occupant fields are managed by SetRoomStatus and the booking
// lifecycle, not here.
type UpdateRoomInput struct {
	Floor         *string   `validate:"omitempty"`
	Type          *RoomType `validate:"omitempty,oneof=single double suite deluxe dormitory"`
	Capacity      *int      `validate:"omitempty,gte=1"`
	PricePerNight *int64    `validate:"omitempty,gte=0"`
	Amenities     *[]string `validate:"omitempty,dive,required"`
}

// CreateBookingInput opens a stay. Donor bookings reference an existing
// donor; walk-in bookings carry the guest details and a Guest record is
// created alongside the booking.
type CreateBookingInput struct {
	GuestType GuestType `validate:"required,oneof=donor non_donor"`
	DonorID   string    `validate:"required_if=GuestType donor,omitempty"`

	GuestName    string `validate:"required_if=GuestType non_donor,omitempty,min=2"`
	GuestMobile  string `validate:"required_if=GuestType non_donor,omitempty,min=10,max=15"`
	GuestAddress string `validate:"omitempty,max=500"`
	GovernmentID string `validate:"omitempty,max=50"`

	CheckInDate          string `validate:"required,datetime=2006-01-02"`
	CheckInTime          string `validate:"omitempty,datetime=15:04"`
	ExpectedCheckOutDate string `validate:"omitempty,datetime=2006-01-02"`

	RoomNumbers    []string `validate:"required,min=1,dive,required"`
	NumberOfGuests int      `validate:"required,gte=1"`

	TotalAmount   int64         `validate:"gte=0"`
	PaidAmount    int64         `validate:"gte=0"`
	PaymentMethod PaymentMethod `validate:"omitempty,oneof=cash card upi bank_transfer cheque mixed"`
	IsFreeStay    bool
}

// CheckInInput finalizes arrival. Empty date and time fall back to the
// current instant, and supplying either marks the timestamp manually edited.
type CheckInInput struct {
	BookingID string `validate:"required"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	Time      string `validate:"omitempty,datetime=15:04"`
}

// CheckOutInput finalizes departure with the same override semantics as
// CheckInInput.
type CheckOutInput struct {
	BookingID string `validate:"required"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	Time      string `validate:"omitempty,datetime=15:04"`
}

// CreatePaymentInput opens a donation pledge ledger for a donor. A non-zero
// AmountPaid synthesizes the first installment in the same transaction.
type CreatePaymentInput struct {
	DonorID     string `validate:"required"`
	TotalAmount int64  `validate:"required,gt=0"`
	AmountPaid  int64  `validate:"gte=0"`

	// Details for the synthesized first installment when AmountPaid > 0.
	Method          PaymentMethod `validate:"omitempty,oneof=cash card upi bank_transfer cheque mixed"`
	PaidDate        string        `validate:"omitempty,datetime=2006-01-02"`
	ReferenceNumber string        `validate:"omitempty,max=100"`
	Notes           string        `validate:"omitempty,max=1000"`
}

// AddInstallmentInput appends one partial payment to an existing pledge.
// ProofImage, when present, is stored in the attachment store and the
// resulting key is recorded on the installment.
type AddInstallmentInput struct {
	PaymentID       string        `validate:"required"`
	Amount          int64         `validate:"required,gt=0"`
	Method          PaymentMethod `validate:"required,oneof=cash card upi bank_transfer cheque mixed"`
	PaidDate        string        `validate:"omitempty,datetime=2006-01-02"`
	ReferenceNumber string        `validate:"omitempty,max=100"`
	Notes           string        `validate:"omitempty,max=1000"`

	ProofImage       []byte `validate:"omitempty,max=10485760"`
	ProofContentType string `validate:"omitempty,max=100"`
}

// AddNotificationInput appends a notification record.
type AddNotificationInput struct {
	DonorID   string           `validate:"omitempty"`
	GuestID   string           `validate:"omitempty"`
	GuestName string           `validate:"required"`
	Type      NotificationType `validate:"required"`
	Message   string           `validate:"required,max=2000"`
}
