// Package core exposes the transactional guest-house operations built on top
// of the domain model: donors and their free-stay entitlements, room
// inventory, bookings, payment ledgers, bills, and notifications.
package core

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"donorstay/internal/blob"
	"donorstay/internal/infra/persistence/memory"
	"donorstay/pkg/domain"
)

// HotelInfo identifies the property on generated bills.
type HotelInfo struct {
	Name    string
	Address string
	Phone   string
}

// DefaultHotelInfo returns the property identity used when no override is
// configured.
func DefaultHotelInfo() HotelInfo {
	return HotelInfo{
		Name:    "DonorStay Guest House",
		Address: "Main Road, City Center",
		Phone:   "+91 7207357312",
	}
}

// Service exposes higher-level transactional operations for the guest-house
// schema. Every operation runs inside a single store transaction so rule
// evaluation sees the complete mutation set.
type Service struct {
	store    domain.PersistentStore
	log      *zap.Logger
	validate *validator.Validate
	metrics  MetricsRecorder
	tracer   Tracer
	blobs    blob.Store

	freeDayPolicy domain.FreeDayConsumption
	hotel         HotelInfo
	nowFn         func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger attaches a structured logger used for operation failures and
// rule warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetricsRecorder attaches a recorder observing every operation outcome.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}

// WithTracer attaches a tracer wrapping every operation in a span.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithBlobStore attaches attachment storage for donor photos and payment
// proof images. Without it the attachment operations return ErrUnsupported.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) {
		s.blobs = store
	}
}

// WithFreeDayPolicy selects how free-stay bookings consume the donor's
// free-day allowance.
func WithFreeDayPolicy(policy domain.FreeDayConsumption) Option {
	return func(s *Service) {
		s.freeDayPolicy = policy
	}
}

// WithHotelInfo overrides the property identity stamped on generated bills.
func WithHotelInfo(info HotelInfo) Option {
	return func(s *Service) {
		s.hotel = info
	}
}

// WithNowFunc overrides the time provider. Intended for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:         store,
		log:           zap.NewNop(),
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		freeDayPolicy: domain.FreeDaysUntracked,
		hotel:         DefaultHotelInfo(),
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine.
func NewInMemoryService(engine *domain.RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

func (s *Service) now() time.Time {
	return s.nowFn()
}

// checkInput validates an input struct and converts validator errors into
// ValidationError so callers get one stable error type for rejected input.
func (s *Service) checkInput(input any) error {
	if err := s.validate.Struct(input); err != nil {
		return ValidationError{Reason: err.Error()}
	}
	return nil
}

// logWarnings surfaces non-blocking rule violations from a committed result.
func (s *Service) logWarnings(operation string, res domain.Result) {
	for _, v := range res.Violations {
		if v.Severity == SeverityBlock {
			continue
		}
		s.log.Warn("rule violation",
			zap.String("operation", operation),
			zap.String("rule", v.Rule),
			zap.String("severity", string(v.Severity)),
			zap.String("entity", string(v.Entity)),
			zap.String("entity_id", v.EntityID),
			zap.String("message", v.Message),
		)
	}
}
