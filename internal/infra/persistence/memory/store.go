// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"donorstay/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Donor aliases domain.Donor for in-memory persistence operations.
	Donor = domain.Donor
	// Guest aliases domain.Guest.
	Guest = domain.Guest
	// Room aliases domain.Room.
	Room = domain.Room
	// Booking aliases domain.Booking.
	Booking = domain.Booking
	// Payment aliases domain.Payment.
	Payment = domain.Payment
	// Bill aliases domain.Bill.
	Bill = domain.Bill
	// Notification aliases domain.Notification.
	Notification = domain.Notification
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// RuleView aliases domain.RuleView providing read-only state.
	RuleView = domain.RuleView
	// PersistentStore aliases the domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

// Counter seeds match the reference data: the first issued donor code is
// DNR1001 and the first bill suffix is 1001.
const (
	donorSeqSeed = 1000
	billSeqSeed  = 1000
)

type memoryState struct {
	donors        map[string]Donor
	guests        map[string]Guest
	rooms         map[string]Room
	bookings      map[string]Booking
	payments      map[string]Payment
	bills         map[string]Bill
	notifications map[string]Notification
	donorSeq      int64
	billSeq       int64
}

// Snapshot captures a point-in-time clone of the store state. Each field maps
// to one persistence bucket; the two sequence counters ride along so durable
// backends never reissue an identifier.
type Snapshot struct {
	Donors        map[string]Donor        `json:"donors"`
	Guests        map[string]Guest        `json:"guests"`
	Rooms         map[string]Room         `json:"rooms"`
	Bookings      map[string]Booking      `json:"bookings"`
	Payments      map[string]Payment      `json:"payments"`
	Bills         map[string]Bill         `json:"bills"`
	Notifications map[string]Notification `json:"notifications"`
	DonorSeq      int64                   `json:"donor_id_counter"`
	BillSeq       int64                   `json:"bill_counter"`
}

func newMemoryState() memoryState {
	return memoryState{
		donors:        make(map[string]Donor),
		guests:        make(map[string]Guest),
		rooms:         make(map[string]Room),
		bookings:      make(map[string]Booking),
		payments:      make(map[string]Payment),
		bills:         make(map[string]Bill),
		notifications: make(map[string]Notification),
		donorSeq:      donorSeqSeed,
		billSeq:       billSeqSeed,
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	snapshot := Snapshot{
		Donors:        make(map[string]Donor, len(state.donors)),
		Guests:        make(map[string]Guest, len(state.guests)),
		Rooms:         make(map[string]Room, len(state.rooms)),
		Bookings:      make(map[string]Booking, len(state.bookings)),
		Payments:      make(map[string]Payment, len(state.payments)),
		Bills:         make(map[string]Bill, len(state.bills)),
		Notifications: make(map[string]Notification, len(state.notifications)),
		DonorSeq:      state.donorSeq,
		BillSeq:       state.billSeq,
	}
	for k, v := range state.donors {
		snapshot.Donors[k] = cloneDonor(v)
	}
	for k, v := range state.guests {
		snapshot.Guests[k] = v
	}
	for k, v := range state.rooms {
		snapshot.Rooms[k] = cloneRoom(v)
	}
	for k, v := range state.bookings {
		snapshot.Bookings[k] = cloneBooking(v)
	}
	for k, v := range state.payments {
		snapshot.Payments[k] = clonePayment(v)
	}
	for k, v := range state.bills {
		snapshot.Bills[k] = cloneBill(v)
	}
	for k, v := range state.notifications {
		snapshot.Notifications[k] = v
	}
	return snapshot
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Donors {
		state.donors[k] = cloneDonor(v)
	}
	for k, v := range s.Guests {
		state.guests[k] = v
	}
	for k, v := range s.Rooms {
		state.rooms[k] = cloneRoom(v)
	}
	for k, v := range s.Bookings {
		state.bookings[k] = cloneBooking(v)
	}
	for k, v := range s.Payments {
		state.payments[k] = clonePayment(v)
	}
	for k, v := range s.Bills {
		state.bills[k] = cloneBill(v)
	}
	for k, v := range s.Notifications {
		state.notifications[k] = v
	}
	if s.DonorSeq > state.donorSeq {
		state.donorSeq = s.DonorSeq
	}
	if s.BillSeq > state.billSeq {
		state.billSeq = s.BillSeq
	}
	return state
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.donors {
		cloned.donors[k] = cloneDonor(v)
	}
	for k, v := range s.guests {
		cloned.guests[k] = v
	}
	for k, v := range s.rooms {
		cloned.rooms[k] = cloneRoom(v)
	}
	for k, v := range s.bookings {
		cloned.bookings[k] = cloneBooking(v)
	}
	for k, v := range s.payments {
		cloned.payments[k] = clonePayment(v)
	}
	for k, v := range s.bills {
		cloned.bills[k] = cloneBill(v)
	}
	for k, v := range s.notifications {
		cloned.notifications[k] = v
	}
	cloned.donorSeq = s.donorSeq
	cloned.billSeq = s.billSeq
	return cloned
}

func cloneDonor(d Donor) Donor {
	cp := d
	if d.VisitHistory != nil {
		cp.VisitHistory = make([]Booking, len(d.VisitHistory))
		for i, v := range d.VisitHistory {
			cp.VisitHistory[i] = cloneBooking(v)
		}
	}
	return cp
}

func cloneRoom(r Room) Room {
	cp := r
	cp.Amenities = append([]string(nil), r.Amenities...)
	return cp
}

func cloneBooking(b Booking) Booking {
	cp := b
	cp.RoomNumbers = append([]string(nil), b.RoomNumbers...)
	return cp
}

func clonePayment(p Payment) Payment {
	cp := p
	cp.Installments = append([]domain.Installment(nil), p.Installments...)
	return cp
}

func cloneBill(b Bill) Bill {
	cp := b
	cp.RoomNumbers = append([]string(nil), b.RoomNumbers...)
	return cp
}

// Store is the canonical clone-on-write transactional store. Every
// RunInTransaction call works on a full copy of the state and commits only
// after the rules engine reports no blocking violation.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetNowFunc overrides the time provider. Intended for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) RuleView {
	return transactionView{state: state}
}

func sortDonors(out []Donor) []Donor {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func sortGuests(out []Guest) []Guest {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func sortRooms(out []Room) []Room {
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out
}

func sortBookings(out []Booking) []Booking {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func sortPayments(out []Payment) []Payment {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func sortBills(out []Bill) []Bill {
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out
}

func sortNotifications(out []Notification) []Notification {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListDonors returns all donors within the snapshot, newest first.
func (v transactionView) ListDonors() []Donor {
	out := make([]Donor, 0, len(v.state.donors))
	for _, d := range v.state.donors {
		out = append(out, cloneDonor(d))
	}
	return sortDonors(out)
}

// ListGuests returns all guests in the snapshot, newest first.
func (v transactionView) ListGuests() []Guest {
	out := make([]Guest, 0, len(v.state.guests))
	for _, g := range v.state.guests {
		out = append(out, g)
	}
	return sortGuests(out)
}

// ListRooms returns all rooms ordered by room number.
func (v transactionView) ListRooms() []Room {
	out := make([]Room, 0, len(v.state.rooms))
	for _, r := range v.state.rooms {
		out = append(out, cloneRoom(r))
	}
	return sortRooms(out)
}

// ListBookings returns all bookings, newest first.
func (v transactionView) ListBookings() []Booking {
	out := make([]Booking, 0, len(v.state.bookings))
	for _, b := range v.state.bookings {
		out = append(out, cloneBooking(b))
	}
	return sortBookings(out)
}

// ListPayments returns all payments, newest first.
func (v transactionView) ListPayments() []Payment {
	out := make([]Payment, 0, len(v.state.payments))
	for _, p := range v.state.payments {
		out = append(out, clonePayment(p))
	}
	return sortPayments(out)
}

// ListBills returns all bills, newest first.
func (v transactionView) ListBills() []Bill {
	out := make([]Bill, 0, len(v.state.bills))
	for _, b := range v.state.bills {
		out = append(out, cloneBill(b))
	}
	return sortBills(out)
}

// ListNotifications returns all notifications, newest first.
func (v transactionView) ListNotifications() []Notification {
	out := make([]Notification, 0, len(v.state.notifications))
	for _, n := range v.state.notifications {
		out = append(out, n)
	}
	return sortNotifications(out)
}

// FindDonor retrieves a donor by ID from the snapshot.
func (v transactionView) FindDonor(id string) (Donor, bool) {
	d, ok := v.state.donors[id]
	if !ok {
		return Donor{}, false
	}
	return cloneDonor(d), true
}

// FindGuest retrieves a guest by ID from the snapshot.
func (v transactionView) FindGuest(id string) (Guest, bool) {
	g, ok := v.state.guests[id]
	if !ok {
		return Guest{}, false
	}
	return g, true
}

// FindRoom retrieves a room by ID from the snapshot.
func (v transactionView) FindRoom(id string) (Room, bool) {
	r, ok := v.state.rooms[id]
	if !ok {
		return Room{}, false
	}
	return cloneRoom(r), true
}

// FindRoomByNumber retrieves a room by its human key.
func (v transactionView) FindRoomByNumber(roomNumber string) (Room, bool) {
	return findRoomByNumber(v.state, roomNumber)
}

// FindBooking retrieves a booking by ID from the snapshot.
func (v transactionView) FindBooking(id string) (Booking, bool) {
	b, ok := v.state.bookings[id]
	if !ok {
		return Booking{}, false
	}
	return cloneBooking(b), true
}

// FindPayment retrieves a payment by ID from the snapshot.
func (v transactionView) FindPayment(id string) (Payment, bool) {
	p, ok := v.state.payments[id]
	if !ok {
		return Payment{}, false
	}
	return clonePayment(p), true
}

func findRoomByNumber(state *memoryState, roomNumber string) (Room, bool) {
	for _, r := range state.rooms {
		if r.RoomNumber == roomNumber {
			return cloneRoom(r), true
		}
	}
	return Room{}, false
}

func findDonorByDonorID(state *memoryState, donorID string) (Donor, bool) {
	for _, d := range state.donors {
		if d.DonorID == donorID {
			return cloneDonor(d), true
		}
	}
	return Donor{}, false
}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

// helper to record and append change entries.
func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes the pending transactional state to callers needing reads.
func (tx *transaction) Snapshot() RuleView {
	return newTransactionView(&tx.state)
}

// FindDonor retrieves a donor within the transaction.
func (tx *transaction) FindDonor(id string) (Donor, bool) {
	d, ok := tx.state.donors[id]
	if !ok {
		return Donor{}, false
	}
	return cloneDonor(d), true
}

// FindDonorByDonorID retrieves a donor by public code within the transaction.
func (tx *transaction) FindDonorByDonorID(donorID string) (Donor, bool) {
	return findDonorByDonorID(&tx.state, donorID)
}

// FindGuest retrieves a guest within the transaction.
func (tx *transaction) FindGuest(id string) (Guest, bool) {
	g, ok := tx.state.guests[id]
	if !ok {
		return Guest{}, false
	}
	return g, true
}

// FindRoom retrieves a room within the transaction.
func (tx *transaction) FindRoom(id string) (Room, bool) {
	r, ok := tx.state.rooms[id]
	if !ok {
		return Room{}, false
	}
	return cloneRoom(r), true
}

// FindRoomByNumber retrieves a room by human key within the transaction.
func (tx *transaction) FindRoomByNumber(roomNumber string) (Room, bool) {
	return findRoomByNumber(&tx.state, roomNumber)
}

// FindBooking retrieves a booking within the transaction.
func (tx *transaction) FindBooking(id string) (Booking, bool) {
	b, ok := tx.state.bookings[id]
	if !ok {
		return Booking{}, false
	}
	return cloneBooking(b), true
}

// FindPayment retrieves a payment within the transaction.
func (tx *transaction) FindPayment(id string) (Payment, bool) {
	p, ok := tx.state.payments[id]
	if !ok {
		return Payment{}, false
	}
	return clonePayment(p), true
}

// ListRooms returns the transactional room inventory ordered by number.
func (tx *transaction) ListRooms() []Room {
	out := make([]Room, 0, len(tx.state.rooms))
	for _, r := range tx.state.rooms {
		out = append(out, cloneRoom(r))
	}
	return sortRooms(out)
}

// ListBookings returns the transactional bookings, newest first.
func (tx *transaction) ListBookings() []Booking {
	out := make([]Booking, 0, len(tx.state.bookings))
	for _, b := range tx.state.bookings {
		out = append(out, cloneBooking(b))
	}
	return sortBookings(out)
}

// ListPaymentsByDonor returns the donor's payments, newest first.
func (tx *transaction) ListPaymentsByDonor(donorID string) []Payment {
	out := make([]Payment, 0)
	for _, p := range tx.state.payments {
		if p.DonorID == donorID {
			out = append(out, clonePayment(p))
		}
	}
	return sortPayments(out)
}

// NextDonorSeq advances the donor identifier counter.
func (tx *transaction) NextDonorSeq() int64 {
	tx.state.donorSeq++
	return tx.state.donorSeq
}

// NextBillSeq advances the bill number counter.
func (tx *transaction) NextBillSeq() int64 {
	tx.state.billSeq++
	return tx.state.billSeq
}

// CreateDonor stores a new donor within the transaction.
func (tx *transaction) CreateDonor(d Donor) (Donor, error) {
	if d.ID == "" {
		d.ID = tx.store.newID()
	}
	if _, exists := tx.state.donors[d.ID]; exists {
		return Donor{}, fmt.Errorf("donor %q already exists", d.ID)
	}
	d.CreatedAt = tx.now
	d.UpdatedAt = tx.now
	if d.VisitHistory == nil {
		d.VisitHistory = []Booking{}
	}
	tx.state.donors[d.ID] = cloneDonor(d)
	tx.recordChange(Change{Entity: domain.EntityDonor, Action: domain.ActionCreate, After: cloneDonor(d)})
	return cloneDonor(d), nil
}

// UpdateDonor mutates a donor using the provided mutator function. The QR
// code assigned at creation survives any mutation.
func (tx *transaction) UpdateDonor(id string, mutator func(*Donor) error) (Donor, error) {
	current, ok := tx.state.donors[id]
	if !ok {
		return Donor{}, fmt.Errorf("donor %q not found", id)
	}
	before := cloneDonor(current)
	if err := mutator(&current); err != nil {
		return Donor{}, err
	}
	current.ID = id
	current.QRCode = before.QRCode
	current.UpdatedAt = tx.now
	tx.state.donors[id] = cloneDonor(current)
	tx.recordChange(Change{Entity: domain.EntityDonor, Action: domain.ActionUpdate, Before: before, After: cloneDonor(current)})
	return cloneDonor(current), nil
}

// DeleteDonor removes a donor from the transaction state. Donors with active
// bookings cannot be deleted; checked-out history does not block deletion.
func (tx *transaction) DeleteDonor(id string) error {
	current, ok := tx.state.donors[id]
	if !ok {
		return fmt.Errorf("donor %q not found", id)
	}
	for _, b := range tx.state.bookings {
		if b.DonorID == id && b.Active() {
			return fmt.Errorf("donor %q still referenced by active booking %q", id, b.ID)
		}
	}
	delete(tx.state.donors, id)
	tx.recordChange(Change{Entity: domain.EntityDonor, Action: domain.ActionDelete, Before: cloneDonor(current)})
	return nil
}

// CreateGuest stores a new walk-in guest.
func (tx *transaction) CreateGuest(g Guest) (Guest, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.guests[g.ID]; exists {
		return Guest{}, fmt.Errorf("guest %q already exists", g.ID)
	}
	g.CreatedAt = tx.now
	tx.state.guests[g.ID] = g
	tx.recordChange(Change{Entity: domain.EntityGuest, Action: domain.ActionCreate, After: g})
	return g, nil
}

// CreateRoom stores a new room. Room numbers are unique across the inventory.
func (tx *transaction) CreateRoom(r Room) (Room, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.rooms[r.ID]; exists {
		return Room{}, fmt.Errorf("room %q already exists", r.ID)
	}
	if _, exists := findRoomByNumber(&tx.state, r.RoomNumber); exists {
		return Room{}, fmt.Errorf("room number %q already exists", r.RoomNumber)
	}
	if r.Status == "" {
		r.Status = domain.RoomStatusAvailable
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.rooms[r.ID] = cloneRoom(r)
	tx.recordChange(Change{Entity: domain.EntityRoom, Action: domain.ActionCreate, After: cloneRoom(r)})
	return cloneRoom(r), nil
}

// UpdateRoom mutates a room using the provided mutator function.
func (tx *transaction) UpdateRoom(id string, mutator func(*Room) error) (Room, error) {
	current, ok := tx.state.rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("room %q not found", id)
	}
	before := cloneRoom(current)
	if err := mutator(&current); err != nil {
		return Room{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.rooms[id] = cloneRoom(current)
	tx.recordChange(Change{Entity: domain.EntityRoom, Action: domain.ActionUpdate, Before: before, After: cloneRoom(current)})
	return cloneRoom(current), nil
}

// DeleteRoom removes a room. Rooms referenced by an active booking cannot be
// deleted because that would leave the booking's room list dangling.
func (tx *transaction) DeleteRoom(id string) error {
	current, ok := tx.state.rooms[id]
	if !ok {
		return fmt.Errorf("room %q not found", id)
	}
	for _, b := range tx.state.bookings {
		if !b.Active() {
			continue
		}
		for _, num := range b.RoomNumbers {
			if num == current.RoomNumber {
				return fmt.Errorf("room %q still referenced by active booking %q", current.RoomNumber, b.ID)
			}
		}
	}
	delete(tx.state.rooms, id)
	tx.recordChange(Change{Entity: domain.EntityRoom, Action: domain.ActionDelete, Before: cloneRoom(current)})
	return nil
}

// CreateBooking stores a new booking.
func (tx *transaction) CreateBooking(b Booking) (Booking, error) {
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.bookings[b.ID]; exists {
		return Booking{}, fmt.Errorf("booking %q already exists", b.ID)
	}
	b.CreatedAt = tx.now
	b.UpdatedAt = tx.now
	tx.state.bookings[b.ID] = cloneBooking(b)
	tx.recordChange(Change{Entity: domain.EntityBooking, Action: domain.ActionCreate, After: cloneBooking(b)})
	return cloneBooking(b), nil
}

// UpdateBooking mutates a booking using the provided mutator function.
func (tx *transaction) UpdateBooking(id string, mutator func(*Booking) error) (Booking, error) {
	current, ok := tx.state.bookings[id]
	if !ok {
		return Booking{}, fmt.Errorf("booking %q not found", id)
	}
	before := cloneBooking(current)
	if err := mutator(&current); err != nil {
		return Booking{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.bookings[id] = cloneBooking(current)
	tx.recordChange(Change{Entity: domain.EntityBooking, Action: domain.ActionUpdate, Before: before, After: cloneBooking(current)})
	return cloneBooking(current), nil
}

// CreatePayment stores a new payment ledger record.
func (tx *transaction) CreatePayment(p Payment) (Payment, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.payments[p.ID]; exists {
		return Payment{}, fmt.Errorf("payment %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	if p.Installments == nil {
		p.Installments = []domain.Installment{}
	}
	tx.state.payments[p.ID] = clonePayment(p)
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionCreate, After: clonePayment(p)})
	return clonePayment(p), nil
}

// UpdatePayment mutates a payment. Existing installments are append-only;
// the mutator may extend the slice but persisted entries keep their content.
func (tx *transaction) UpdatePayment(id string, mutator func(*Payment) error) (Payment, error) {
	current, ok := tx.state.payments[id]
	if !ok {
		return Payment{}, fmt.Errorf("payment %q not found", id)
	}
	before := clonePayment(current)
	if err := mutator(&current); err != nil {
		return Payment{}, err
	}
	if len(current.Installments) < len(before.Installments) {
		return Payment{}, fmt.Errorf("payment %q installments are append-only", id)
	}
	for i, inst := range before.Installments {
		current.Installments[i] = inst
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.payments[id] = clonePayment(current)
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionUpdate, Before: before, After: clonePayment(current)})
	return clonePayment(current), nil
}

// CreateBill appends an immutable bill snapshot. No update or delete exists.
func (tx *transaction) CreateBill(b Bill) (Bill, error) {
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.bills[b.ID]; exists {
		return Bill{}, fmt.Errorf("bill %q already exists", b.ID)
	}
	if b.GeneratedAt.IsZero() {
		b.GeneratedAt = tx.now
	}
	tx.state.bills[b.ID] = cloneBill(b)
	tx.recordChange(Change{Entity: domain.EntityBill, Action: domain.ActionCreate, After: cloneBill(b)})
	return cloneBill(b), nil
}

// CreateNotification appends a notification record.
func (tx *transaction) CreateNotification(n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = tx.store.newID()
	}
	if _, exists := tx.state.notifications[n.ID]; exists {
		return Notification{}, fmt.Errorf("notification %q already exists", n.ID)
	}
	n.CreatedAt = tx.now
	tx.state.notifications[n.ID] = n
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionCreate, After: n})
	return n, nil
}

// UpdateNotification mutates a notification (read-flag flips).
func (tx *transaction) UpdateNotification(id string, mutator func(*Notification) error) (Notification, error) {
	current, ok := tx.state.notifications[id]
	if !ok {
		return Notification{}, fmt.Errorf("notification %q not found", id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return Notification{}, err
	}
	current.ID = id
	tx.state.notifications[id] = current
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// GetDonor retrieves a donor by ID.
func (s *Store) GetDonor(id string) (Donor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.state.donors[id]
	if !ok {
		return Donor{}, false
	}
	return cloneDonor(d), true
}

// GetDonorByDonorID retrieves a donor by public code.
func (s *Store) GetDonorByDonorID(donorID string) (Donor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findDonorByDonorID(&s.state, donorID)
}

// ListDonors returns all donors, newest first.
func (s *Store) ListDonors() []Donor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Donor, 0, len(s.state.donors))
	for _, d := range s.state.donors {
		out = append(out, cloneDonor(d))
	}
	return sortDonors(out)
}

// GetGuest retrieves a guest by ID.
func (s *Store) GetGuest(id string) (Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.guests[id]
	if !ok {
		return Guest{}, false
	}
	return g, true
}

// ListGuests returns all guests, newest first.
func (s *Store) ListGuests() []Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Guest, 0, len(s.state.guests))
	for _, g := range s.state.guests {
		out = append(out, g)
	}
	return sortGuests(out)
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(id string) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.rooms[id]
	if !ok {
		return Room{}, false
	}
	return cloneRoom(r), true
}

// GetRoomByNumber retrieves a room by its human key.
func (s *Store) GetRoomByNumber(roomNumber string) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findRoomByNumber(&s.state, roomNumber)
}

// ListRooms returns the inventory ordered by room number.
func (s *Store) ListRooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Room, 0, len(s.state.rooms))
	for _, r := range s.state.rooms {
		out = append(out, cloneRoom(r))
	}
	return sortRooms(out)
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(id string) (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.bookings[id]
	if !ok {
		return Booking{}, false
	}
	return cloneBooking(b), true
}

// ListBookings returns all bookings, newest first.
func (s *Store) ListBookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Booking, 0, len(s.state.bookings))
	for _, b := range s.state.bookings {
		out = append(out, cloneBooking(b))
	}
	return sortBookings(out)
}

// GetPayment retrieves a payment by ID.
func (s *Store) GetPayment(id string) (Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.payments[id]
	if !ok {
		return Payment{}, false
	}
	return clonePayment(p), true
}

// ListPayments returns all payments, newest first.
func (s *Store) ListPayments() []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Payment, 0, len(s.state.payments))
	for _, p := range s.state.payments {
		out = append(out, clonePayment(p))
	}
	return sortPayments(out)
}

// ListPaymentsByDonor returns one donor's payments, newest first.
func (s *Store) ListPaymentsByDonor(donorID string) []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Payment, 0)
	for _, p := range s.state.payments {
		if p.DonorID == donorID {
			out = append(out, clonePayment(p))
		}
	}
	return sortPayments(out)
}

// ListBills returns all bills, newest first.
func (s *Store) ListBills() []Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bill, 0, len(s.state.bills))
	for _, b := range s.state.bills {
		out = append(out, cloneBill(b))
	}
	return sortBills(out)
}

// ListNotifications returns all notifications, newest first.
func (s *Store) ListNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, 0, len(s.state.notifications))
	for _, n := range s.state.notifications {
		out = append(out, n)
	}
	return sortNotifications(out)
}
