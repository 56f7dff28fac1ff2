package service

import (
	"context"
	"errors"
	"fmt"

	bookingerrors "reservio/internal/bookings/errors"
	"reservio/internal/bookings/repository"
	"reservio/pkg/config"
	dbmongo "reservio/pkg/db/mongo"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/events"
	"reservio/pkg/kafka"
	"reservio/pkg/model"
	"reservio/pkg/sanitizer"
)

// ResourceFinder answers whether a bookable resource exists. The
// resources service owns the catalog; bookings only needs existence.
type ResourceFinder interface {
	Exists(ctx context.Context, kind, code string) (bool, error)
}

// EventPublisher publishes booking lifecycle events. Nil disables
// publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingValidator validates booking payloads before admission.
type BookingValidator interface {
	ValidateBooking(booking *model.Booking) error
	ValidateWindow(booking *model.Booking) error
	ValidateUpdate(update *model.BookingUpdate) error
}

type BookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	txManager dbmongo.TransactionManager
	resources ResourceFinder
	publisher EventPublisher
	validator BookingValidator
	conflict  ConflictPolicy
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	txManager dbmongo.TransactionManager,
	resources ResourceFinder,
	publisher EventPublisher,
	validator BookingValidator,
	cfg *config.Config,
) *BookingService {
	return &BookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		txManager: txManager,
		resources: resources,
		publisher: publisher,
		validator: validator,
		conflict:  policyFor(cfg.StrictOverlap),
		cfg:       cfg,
	}
}

// Create admits a new booking. Admission is serialized per
// (resource, date) by an advisory lock, and the conflict scan plus the
// insert run in one transaction, so two racing requests for the same
// slot can never both land.
func (s *BookingService) Create(ctx context.Context, principal model.Principal, booking *model.Booking) (*model.Booking, error) {
	if principal.ID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	booking.ID = ""
	booking.CreatedBy = principal.ID
	booking.ResourceKind = model.NormalizeKind(booking.ResourceKind)
	booking.ResourceCode = sanitizer.SanitizeCode(booking.ResourceCode)
	booking.Reason = sanitizer.SanitizeFreeText(booking.Reason)

	if err := s.validator.ValidateBooking(booking); err != nil {
		return nil, err
	}

	// Resource existence is checked before the window rule, so input
	// naming a missing resource reports NOT_FOUND even when the window
	// is also malformed.
	if err := s.checkResourceExists(ctx, booking.ResourceKind, booking.ResourceCode); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateWindow(booking); err != nil {
		return nil, err
	}

	release, err := s.acquireSlotLock(ctx, booking.ResourceKind, booking.ResourceCode, booking.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx dbmongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, ""); err != nil {
			return err
		}

		if _, err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}

	s.publishEvent(ctx, events.BookingCreated, booking, principal.ID)

	return booking, nil
}

// Update patches a booking. Only the creator or an admin may modify it.
// A patch that moves the booking to a different resource, date, or time
// window passes through admission again for the target slot.
func (s *BookingService) Update(ctx context.Context, principal model.Principal, id string, update *model.BookingUpdate) (*model.Booking, error) {
	if principal.ID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	update.ResourceKind = model.NormalizeKind(update.ResourceKind)

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, err
	}

	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanModify(booking) {
		return nil, apperrors.Forbidden("only the creator or an admin may modify this booking")
	}

	movesSlot := update.ChangesSlot()
	applyUpdate(booking, update)

	// The merged document must hold together as a whole, not just
	// field by field.
	if err := s.validator.ValidateBooking(booking); err != nil {
		return nil, err
	}

	if !movesSlot {
		if err := s.repo.Update(ctx, booking); err != nil {
			return nil, mapRepoError(err, id)
		}
		s.publishEvent(ctx, events.BookingUpdated, booking, principal.ID)
		return booking, nil
	}

	if update.ResourceKind != "" || update.ResourceCode != "" {
		if err := s.checkResourceExists(ctx, booking.ResourceKind, booking.ResourceCode); err != nil {
			return nil, err
		}
	}

	if err := s.validator.ValidateWindow(booking); err != nil {
		return nil, err
	}

	release, err := s.acquireSlotLock(ctx, booking.ResourceKind, booking.ResourceCode, booking.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx dbmongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, booking.ID); err != nil {
			return err
		}

		if err := s.repo.Update(sessCtx, booking); err != nil {
			return mapRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.AsAppError(err)
	}

	s.publishEvent(ctx, events.BookingUpdated, booking, principal.ID)

	return booking, nil
}

// Delete removes a booking. Only the creator or an admin may delete it.
func (s *BookingService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if principal.ID == "" {
		return apperrors.Unauthorized("caller identity is required")
	}

	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	if !principal.CanModify(booking) {
		return apperrors.Forbidden("only the creator or an admin may delete this booking")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}

	s.publishEvent(ctx, events.BookingDeleted, booking, principal.ID)

	return nil
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return s.getExisting(ctx, id)
}

func (s *BookingService) List(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, total, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	return bookings, total, nil
}

// GetByResourceAndDate returns one resource's bookings for one day,
// ordered by start time.
func (s *BookingService) GetByResourceAndDate(ctx context.Context, kind, code, date string) ([]model.Booking, error) {
	kind = model.NormalizeKind(kind)
	if !model.IsValidKind(kind) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown resource kind: %s", kind))
	}
	if !model.IsValidDate(date) {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	bookings, err := s.repo.FindByResourceAndDate(ctx, kind, sanitizer.SanitizeCode(code), date, s.cfg.MaxConflictScan)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	return bookings, nil
}

func (s *BookingService) getExisting(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return booking, nil
}

func (s *BookingService) checkResourceExists(ctx context.Context, kind, code string) error {
	exists, err := s.resources.Exists(ctx, kind, code)
	if err != nil {
		return apperrors.Internal("Failed to look up resource", err)
	}
	if !exists {
		return apperrors.NotFoundWithID("Resource", kind+":"+code)
	}
	return nil
}

func lockKey(kind, code, date string) string {
	return fmt.Sprintf("booking_lock_%s_%s_%s", kind, code, date)
}

func (s *BookingService) acquireSlotLock(ctx context.Context, kind, code, date string) (func(), error) {
	key := lockKey(kind, code, date)

	if err := s.lockRepo.Acquire(ctx, key, s.cfg.LockTTL); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return nil, apperrors.Conflict("another booking for this resource and date is being processed")
		}
		return nil, apperrors.Internal("Failed to acquire admission lock", err)
	}

	release := func() {
		if err := s.lockRepo.Release(context.WithoutCancel(ctx), key); err != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "key", key, "error", err)
		}
	}

	return release, nil
}

// verifyNoConflict scans the candidate's slot and applies the
// configured conflict policy against every existing booking, excluding
// the booking being updated.
func (s *BookingService) verifyNoConflict(ctx context.Context, candidate *model.Booking, excludeID string) error {
	existing, err := s.repo.FindByResourceAndDate(ctx, candidate.ResourceKind, candidate.ResourceCode, candidate.Date, s.cfg.MaxConflictScan)
	if err != nil {
		return apperrors.Internal("Failed to scan for conflicts", err)
	}

	if len(existing) >= s.cfg.MaxConflictScan {
		s.cfg.Log.Warn("Conflict scan hit its document cap",
			"resource_kind", candidate.ResourceKind,
			"resource_code", candidate.ResourceCode,
			"date", candidate.Date,
			"cap", s.cfg.MaxConflictScan,
		)
	}

	candidateInterval := candidate.Interval()
	for i := range existing {
		other := &existing[i]
		if excludeID != "" && other.ID == excludeID {
			continue
		}

		if s.conflict(candidateInterval, other.Interval()) {
			return apperrors.Conflict("booking conflicts with an existing booking").WithDetails(map[string]any{
				"conflicting_booking_id": other.ID,
				"from":                   other.From,
				"to":                     other.To,
			})
		}
	}

	return nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking, actorID string) {
	if s.publisher == nil {
		return
	}

	event := events.NewBookingEvent(eventType, booking, actorID)
	msg := kafka.NewMessage().
		WithKey(event.PartitionKey()).
		WithValue(event).
		WithEventType(eventType).
		WithSource("bookings-service").
		Build()

	// Events are a downstream convenience; the booking mutation has
	// already committed, so a publish failure is logged, not returned.
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func applyUpdate(booking *model.Booking, update *model.BookingUpdate) {
	if update.ResourceKind != "" {
		booking.ResourceKind = update.ResourceKind
	}
	if update.ResourceCode != "" {
		booking.ResourceCode = sanitizer.SanitizeCode(update.ResourceCode)
	}
	if update.Date != "" {
		booking.Date = update.Date
	}
	if update.From != "" {
		booking.From = update.From
	}
	if update.To != "" {
		booking.To = update.To
	}
	if update.Reason != "" {
		booking.Reason = sanitizer.SanitizeFreeText(update.Reason)
	}
}

func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingerrors.ErrInvalidID):
		return apperrors.InvalidInput("booking id is not valid")
	default:
		return apperrors.Internal("Booking storage operation failed", err)
	}
}
