package core

import "fmt"

// ErrNotFound is returned when an operation targets an id absent from its
// collection.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError reports a rejected input before any write occurred.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation: " + e.Reason
}

func validationErrorf(format string, args ...any) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RoomUnavailableError is returned when booking creation finds a requested
// room in any state other than available. The whole transaction rolls back,
// so a lost race against a concurrent booking cannot double-allocate.
type RoomUnavailableError struct {
	RoomNumber string
	Status     RoomStatus
}

func (e RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %s is %s, not available", e.RoomNumber, e.Status)
}

// ActiveBookingError is returned when deleting an entity still referenced by
// an active (non-checked-out) booking.
type ActiveBookingError struct {
	Entity    EntityType
	ID        string
	BookingID string
}

func (e ActiveBookingError) Error() string {
	return fmt.Sprintf("%s %s still referenced by active booking %s", e.Entity, e.ID, e.BookingID)
}
