package core

import (
	"context"

	"donorstay/pkg/domain"
)

// defaultRooms is the inventory seeded into an empty store: two singles and
// two doubles on the first floor, two suites on the second, two deluxe rooms
// on the third.
var defaultRooms = []Room{
	{RoomNumber: "101", Floor: "1", Type: RoomTypeSingle, Capacity: 1, PricePerNight: 1000},
	{RoomNumber: "102", Floor: "1", Type: RoomTypeSingle, Capacity: 1, PricePerNight: 1000},
	{RoomNumber: "103", Floor: "1", Type: RoomTypeDouble, Capacity: 2, PricePerNight: 1500},
	{RoomNumber: "104", Floor: "1", Type: RoomTypeDouble, Capacity: 2, PricePerNight: 1500},
	{RoomNumber: "201", Floor: "2", Type: RoomTypeSuite, Capacity: 3, PricePerNight: 2500},
	{RoomNumber: "202", Floor: "2", Type: RoomTypeSuite, Capacity: 3, PricePerNight: 2500},
	{RoomNumber: "301", Floor: "3", Type: RoomTypeDeluxe, Capacity: 4, PricePerNight: 3500},
	{RoomNumber: "302", Floor: "3", Type: RoomTypeDeluxe, Capacity: 4, PricePerNight: 3500},
}

// EnsureDefaultRooms seeds the default inventory when the store holds no
// rooms at all. A store with any room, even one, is left untouched.
func (s *Service) EnsureDefaultRooms(ctx context.Context) ([]Room, Result, error) {
	ctx, done := s.instrument(ctx, "ensure_default_rooms")
	var seeded []Room
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if len(tx.ListRooms()) > 0 {
			return nil
		}
		for _, room := range defaultRooms {
			room.Status = RoomStatusAvailable
			created, err := tx.CreateRoom(room)
			if err != nil {
				return err
			}
			seeded = append(seeded, created)
		}
		return nil
	})
	done(err)
	s.logWarnings("ensure_default_rooms", res)
	return seeded, res, err
}

// CreateRoom adds a room to the inventory. Room numbers are unique; a
// missing status defaults to available.
func (s *Service) CreateRoom(ctx context.Context, input CreateRoomInput) (Room, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Room{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "create_room")
	var created Room
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, exists := tx.FindRoomByNumber(input.RoomNumber); exists {
			return validationErrorf("room number %s already exists", input.RoomNumber)
		}
		var err error
		created, err = tx.CreateRoom(Room{
			RoomNumber:    input.RoomNumber,
			Floor:         input.Floor,
			Type:          input.Type,
			Capacity:      input.Capacity,
			Status:        input.Status,
			PricePerNight: input.PricePerNight,
			Amenities:     input.Amenities,
		})
		return err
	})
	done(err)
	s.logWarnings("create_room", res)
	return created, res, err
}

// UpdateRoom applies a merge-style update to room attributes. Occupancy
// fields are owned by the booking lifecycle and cannot be set here.
func (s *Service) UpdateRoom(ctx context.Context, id string, input UpdateRoomInput) (Room, Result, error) {
	if err := s.checkInput(input); err != nil {
		return Room{}, Result{}, err
	}
	ctx, done := s.instrument(ctx, "update_room")
	var updated Room
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindRoom(id); !ok {
			return ErrNotFound{Entity: EntityRoom, ID: id}
		}
		var err error
		updated, err = tx.UpdateRoom(id, func(r *Room) error {
			if input.Floor != nil {
				r.Floor = *input.Floor
			}
			if input.Type != nil {
				r.Type = *input.Type
			}
			if input.Capacity != nil {
				r.Capacity = *input.Capacity
			}
			if input.PricePerNight != nil {
				r.PricePerNight = *input.PricePerNight
			}
			if input.Amenities != nil {
				r.Amenities = *input.Amenities
			}
			return nil
		})
		return err
	})
	done(err)
	s.logWarnings("update_room", res)
	return updated, res, err
}

// SetRoomStatus moves a room between operator-managed states. Moving an
// occupied room requires the occupying booking to be checked out first.
func (s *Service) SetRoomStatus(ctx context.Context, id string, status RoomStatus) (Room, Result, error) {
	switch status {
	case RoomStatusAvailable, RoomStatusReserved, RoomStatusMaintenance:
	default:
		return Room{}, Result{}, validationErrorf("status %s cannot be set directly", status)
	}
	ctx, done := s.instrument(ctx, "set_room_status")
	var updated Room
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		room, ok := tx.FindRoom(id)
		if !ok {
			return ErrNotFound{Entity: EntityRoom, ID: id}
		}
		for _, b := range tx.ListBookings() {
			if !b.Active() {
				continue
			}
			for _, num := range b.RoomNumbers {
				if num == room.RoomNumber {
					return ActiveBookingError{Entity: EntityRoom, ID: id, BookingID: b.ID}
				}
			}
		}
		var err error
		updated, err = tx.UpdateRoom(id, func(r *Room) error {
			r.Status = status
			r.CurrentGuestID = ""
			r.CurrentGuestType = ""
			return nil
		})
		return err
	})
	done(err)
	s.logWarnings("set_room_status", res)
	return updated, res, err
}

// DeleteRoom removes a room from the inventory. Rooms referenced by an
// active booking cannot be deleted.
func (s *Service) DeleteRoom(ctx context.Context, id string) (Result, error) {
	ctx, done := s.instrument(ctx, "delete_room")
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		room, ok := tx.FindRoom(id)
		if !ok {
			return ErrNotFound{Entity: EntityRoom, ID: id}
		}
		for _, b := range tx.ListBookings() {
			if !b.Active() {
				continue
			}
			for _, num := range b.RoomNumbers {
				if num == room.RoomNumber {
					return ActiveBookingError{Entity: EntityRoom, ID: id, BookingID: b.ID}
				}
			}
		}
		return tx.DeleteRoom(id)
	})
	done(err)
	s.logWarnings("delete_room", res)
	return res, err
}

// GetRoom retrieves a room by internal ID.
func (s *Service) GetRoom(id string) (Room, error) {
	r, ok := s.store.GetRoom(id)
	if !ok {
		return Room{}, ErrNotFound{Entity: EntityRoom, ID: id}
	}
	return r, nil
}

// GetRoomByNumber retrieves a room by its human-facing number.
func (s *Service) GetRoomByNumber(roomNumber string) (Room, error) {
	r, ok := s.store.GetRoomByNumber(roomNumber)
	if !ok {
		return Room{}, ErrNotFound{Entity: EntityRoom, ID: roomNumber}
	}
	return r, nil
}

// ListRooms returns the inventory ordered by room number.
func (s *Service) ListRooms() []Room {
	return s.store.ListRooms()
}
