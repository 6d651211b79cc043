package core

import "donorstay/pkg/domain"

type (
	EntityType         = domain.EntityType
	GuestType          = domain.GuestType
	RoomStatus         = domain.RoomStatus
	RoomType           = domain.RoomType
	BookingStatus      = domain.BookingStatus
	PaymentStatus      = domain.PaymentStatus
	PaymentMethod      = domain.PaymentMethod
	NotificationType   = domain.NotificationType
	Severity           = domain.Severity
	Base               = domain.Base
	Donor              = domain.Donor
	Guest              = domain.Guest
	Room               = domain.Room
	Booking            = domain.Booking
	Payment            = domain.Payment
	Installment        = domain.Installment
	Bill               = domain.Bill
	Notification       = domain.Notification
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityDonor        = domain.EntityDonor
	EntityGuest        = domain.EntityGuest
	EntityRoom         = domain.EntityRoom
	EntityBooking      = domain.EntityBooking
	EntityPayment      = domain.EntityPayment
	EntityBill         = domain.EntityBill
	EntityNotification = domain.EntityNotification
)

const (
	GuestTypeDonor    = domain.GuestTypeDonor
	GuestTypeNonDonor = domain.GuestTypeNonDonor
)

const (
	RoomStatusAvailable   = domain.RoomStatusAvailable
	RoomStatusOccupied    = domain.RoomStatusOccupied
	RoomStatusReserved    = domain.RoomStatusReserved
	RoomStatusMaintenance = domain.RoomStatusMaintenance
)

const (
	RoomTypeSingle    = domain.RoomTypeSingle
	RoomTypeDouble    = domain.RoomTypeDouble
	RoomTypeSuite     = domain.RoomTypeSuite
	RoomTypeDeluxe    = domain.RoomTypeDeluxe
	RoomTypeDormitory = domain.RoomTypeDormitory
)

const (
	PaymentMethodCash         = domain.PaymentMethodCash
	PaymentMethodCard         = domain.PaymentMethodCard
	PaymentMethodUPI          = domain.PaymentMethodUPI
	PaymentMethodBankTransfer = domain.PaymentMethodBankTransfer
	PaymentMethodCheque       = domain.PaymentMethodCheque
	PaymentMethodMixed        = domain.PaymentMethodMixed
)

const (
	NotificationWelcome              = domain.NotificationWelcome
	NotificationBookingConfirmation  = domain.NotificationBookingConfirmation
	NotificationCheckInReminder      = domain.NotificationCheckInReminder
	NotificationCheckInConfirmation  = domain.NotificationCheckInConfirmation
	NotificationCheckOutReminder     = domain.NotificationCheckOutReminder
	NotificationCheckOutConfirmation = domain.NotificationCheckOutConfirmation
	NotificationPaymentConfirmation  = domain.NotificationPaymentConfirmation
	NotificationPaymentDue           = domain.NotificationPaymentDue
)

const (
	BookingStatusUpcoming   = domain.BookingStatusUpcoming
	BookingStatusCheckedIn  = domain.BookingStatusCheckedIn
	BookingStatusCheckedOut = domain.BookingStatusCheckedOut
)

const (
	PaymentStatusPending   = domain.PaymentStatusPending
	PaymentStatusPartial   = domain.PaymentStatusPartial
	PaymentStatusCompleted = domain.PaymentStatusCompleted
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
