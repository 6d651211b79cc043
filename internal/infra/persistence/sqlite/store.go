// Package sqlite provides a durable store that snapshots the in-memory state
// to a single SQLite table as JSON blobs, one blob per collection bucket.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"donorstay/internal/infra/persistence/memory"
	"donorstay/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to SQLite after every successful
// transaction. The layout mirrors the reference storage model: one JSON
// collection per logical record type plus a counters bucket.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "donorstay.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	mem := memory.NewStore(engine)
	s := &Store{Store: mem, db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"donors", "guests", "rooms", "bookings", "payments", "bills", "notifications", "counters"}

// counters is persisted as its own bucket so the donor and bill sequences
// survive restarts alongside the collections.
type counters struct {
	DonorSeq int64 `json:"donor_id_counter"`
	BillSeq  int64 `json:"bill_counter"`
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	type raw struct {
		bucket  string
		payload []byte
	}
	var raws []raw
	for rows.Next() {
		var r raw
		if err := rows.Scan(&r.bucket, &r.payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(raws) == 0 {
		return nil
	}
	snapshot := memory.Snapshot{}
	for _, r := range raws {
		switch r.bucket {
		case "donors":
			if err := json.Unmarshal(r.payload, &snapshot.Donors); err != nil {
				return fmt.Errorf("decode donors: %w", err)
			}
		case "guests":
			if err := json.Unmarshal(r.payload, &snapshot.Guests); err != nil {
				return fmt.Errorf("decode guests: %w", err)
			}
		case "rooms":
			if err := json.Unmarshal(r.payload, &snapshot.Rooms); err != nil {
				return fmt.Errorf("decode rooms: %w", err)
			}
		case "bookings":
			if err := json.Unmarshal(r.payload, &snapshot.Bookings); err != nil {
				return fmt.Errorf("decode bookings: %w", err)
			}
		case "payments":
			if err := json.Unmarshal(r.payload, &snapshot.Payments); err != nil {
				return fmt.Errorf("decode payments: %w", err)
			}
		case "bills":
			if err := json.Unmarshal(r.payload, &snapshot.Bills); err != nil {
				return fmt.Errorf("decode bills: %w", err)
			}
		case "notifications":
			if err := json.Unmarshal(r.payload, &snapshot.Notifications); err != nil {
				return fmt.Errorf("decode notifications: %w", err)
			}
		case "counters":
			var c counters
			if err := json.Unmarshal(r.payload, &c); err != nil {
				return fmt.Errorf("decode counters: %w", err)
			}
			snapshot.DonorSeq = c.DonorSeq
			snapshot.BillSeq = c.BillSeq
		}
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "donors":
			data, err = json.Marshal(snapshot.Donors)
		case "guests":
			data, err = json.Marshal(snapshot.Guests)
		case "rooms":
			data, err = json.Marshal(snapshot.Rooms)
		case "bookings":
			data, err = json.Marshal(snapshot.Bookings)
		case "payments":
			data, err = json.Marshal(snapshot.Payments)
		case "bills":
			data, err = json.Marshal(snapshot.Bills)
		case "notifications":
			data, err = json.Marshal(snapshot.Notifications)
		case "counters":
			data, err = json.Marshal(counters{DonorSeq: snapshot.DonorSeq, BillSeq: snapshot.BillSeq})
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RunInTransaction applies the provided function within a transaction, then snapshots state to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
