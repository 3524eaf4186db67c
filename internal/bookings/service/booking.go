package service

import (
	"context"
	"errors"
	"iter"
	"roomly/internal/authz"
	"roomly/internal/availability"
	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/events"
	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	"roomly/internal/directory"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
	"time"

	"github.com/google/uuid"
)

// EventPublisher emits booking lifecycle events. Publishing is
// best-effort: a failed publish is logged, never surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
}

type BookingService interface {
	Create(ctx context.Context, actorID string, booking *model.Booking) (*model.Booking, error)
	Reschedule(ctx context.Context, actorID, bookingID string, req *model.BookingReschedule) (*model.Booking, error)
	Confirm(ctx context.Context, actorID, bookingID string) (*model.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID string) (*model.Booking, error)

	GetByID(ctx context.Context, bookingID string) (*model.Booking, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	SearchByRoom(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)

	CheckAvailability(ctx context.Context, roomID string, iv model.Interval) (bool, []string, error)
	FreeWindows(ctx context.Context, roomID string, window model.Interval) (iter.Seq[model.Interval], error)
	BusyWindows(ctx context.Context, roomID string, window model.Interval) (iter.Seq[model.Interval], error)
}

type bookingService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	locks     repository.BookingLockRepository
	rooms     directory.RoomDirectory
	users     directory.UserDirectory
	scoper    authz.Scoper
	index     *availability.Index
	validator *validator.BookingValidator
	publisher EventPublisher
	locker    *roomLocker
	logger    *logger.Logger
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	rooms directory.RoomDirectory,
	users directory.UserDirectory,
	scoper authz.Scoper,
	index *availability.Index,
	bookingValidator *validator.BookingValidator,
	publisher EventPublisher,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		repo:      repo,
		locks:     locks,
		rooms:     rooms,
		users:     users,
		scoper:    scoper,
		index:     index,
		validator: bookingValidator,
		publisher: publisher,
		locker:    newRoomLocker(),
		logger:    cfg.Log,
	}
}

func (s *bookingService) Create(ctx context.Context, actorID string, booking *model.Booking) (*model.Booking, error) {
	s.applyDefaults(booking)

	if err := s.validator.Validate(booking); err != nil {
		return nil, translateValidation(err)
	}

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", booking.RoomID)
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}
	if !room.Active {
		return nil, apperrors.Conflict("room is not accepting bookings")
	}

	principal, err := s.resolvePrincipal(ctx, actorID)
	if err != nil {
		return nil, err
	}

	// Booking on behalf of someone else is a management action.
	if booking.UserID != principal.ID {
		allowed, err := s.scoper.CanManageRoom(ctx, principal, booking.RoomID)
		if err != nil {
			return nil, apperrors.Internal("Failed to check permissions", err)
		}
		if !allowed {
			return nil, apperrors.Forbidden("cannot create bookings for another user in this room")
		}
	}

	unlock := s.locker.Lock(booking.RoomID)
	defer unlock()

	release, err := s.acquireAdvisoryLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	// The transaction re-checks overlaps against storage so the decision
	// holds even if the in-memory index is stale.
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		conflicts, err := s.repo.FindOverlapping(txCtx, booking.RoomID, booking.Interval(), "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.BookingConflict(bookingIDs(conflicts))
		}
		return s.repo.Create(txCtx, booking)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.refreshIndex(ctx, booking.RoomID)
	s.publish(ctx, events.BookingCreated, booking)

	s.logger.Info("Booking created",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"status", booking.Status,
	)

	return booking, nil
}

func (s *bookingService) Reschedule(ctx context.Context, actorID, bookingID string, req *model.BookingReschedule) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, apperrors.Conflict("cannot reschedule a cancelled booking")
	}

	if err := s.validator.ValidateInterval(req.Interval()); err != nil {
		return nil, translateValidation(err)
	}

	principal, err := s.resolvePrincipal(ctx, actorID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.scoper.CanActOnBooking(ctx, principal, booking)
	if err != nil {
		return nil, apperrors.Internal("Failed to check permissions", err)
	}
	if !allowed {
		return nil, apperrors.Forbidden("cannot reschedule this booking")
	}

	unlock := s.locker.Lock(booking.RoomID)
	defer unlock()

	release, err := s.acquireAdvisoryLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	// The booking's own slot is excluded so shrinking or shifting within
	// itself is never a self-conflict.
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		conflicts, err := s.repo.FindOverlapping(txCtx, booking.RoomID, req.Interval(), booking.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.BookingConflict(bookingIDs(conflicts))
		}
		return s.repo.UpdateInterval(txCtx, booking.ID, req.Interval())
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		// the guarded write refuses cancelled bookings, so a racing
		// cancel between the first read and the write lands here
		if errors.Is(err, bookingserrors.ErrStaleState) {
			return nil, apperrors.Conflict("cannot reschedule a cancelled booking")
		}
		return nil, apperrors.Internal("Failed to reschedule booking", err)
	}

	booking.StartTime = req.StartTime
	booking.EndTime = req.EndTime

	s.refreshIndex(ctx, booking.RoomID)
	s.publish(ctx, events.BookingRescheduled, booking)

	s.logger.Info("Booking rescheduled",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	return booking, nil
}

func (s *bookingService) Confirm(ctx context.Context, actorID, bookingID string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	principal, err := s.resolvePrincipal(ctx, actorID)
	if err != nil {
		return nil, err
	}

	// Approval is a management action, owners do not confirm themselves.
	allowed, err := s.scoper.CanManageRoom(ctx, principal, booking.RoomID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check permissions", err)
	}
	if !allowed {
		return nil, apperrors.Forbidden("cannot confirm bookings in this room")
	}

	return s.transition(ctx, booking, model.BookingConfirmed, events.BookingConfirmed)
}

func (s *bookingService) Cancel(ctx context.Context, actorID, bookingID string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	principal, err := s.resolvePrincipal(ctx, actorID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.scoper.CanActOnBooking(ctx, principal, booking)
	if err != nil {
		return nil, apperrors.Internal("Failed to check permissions", err)
	}
	if !allowed {
		return nil, apperrors.Forbidden("cannot cancel this booking")
	}

	return s.transition(ctx, booking, model.BookingCancelled, events.BookingCancelled)
}

// transition applies a status edge under the room mutex. The booking is
// re-read once the mutex is held and the write is a compare-and-swap on
// that fresh status, so a transition raced by another writer fails
// instead of resurrecting a terminal booking.
func (s *bookingService) transition(ctx context.Context, stale *model.Booking, next model.BookingStatus, eventType string) (*model.Booking, error) {
	unlock := s.locker.Lock(stale.RoomID)
	defer unlock()

	booking, err := s.GetByID(ctx, stale.ID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(next))
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		if errors.Is(err, bookingserrors.ErrStaleState) {
			return nil, s.staleTransitionError(ctx, booking.ID, next)
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = next

	s.refreshIndex(ctx, booking.RoomID)
	s.publish(ctx, eventType, booking)

	s.logger.Info("Booking status changed",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"status", next,
	)

	return booking, nil
}

// staleTransitionError re-reads after a compare-and-swap miss to report
// what actually happened: the booking disappeared or moved to a status
// that no longer permits the edge.
func (s *bookingService) staleTransitionError(ctx context.Context, bookingID string, next model.BookingStatus) error {
	current, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	return apperrors.InvalidTransition(string(current.Status), string(next))
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking", bookingID)
		}
		return nil, apperrors.Internal("Failed to find booking", err)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, total, nil
}

func (s *bookingService) SearchByRoom(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	if _, err := s.ensureRoom(ctx, roomID); err != nil {
		return nil, 0, err
	}

	bookings, err := s.repo.FindActiveByRoom(ctx, roomID, from, to, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to search bookings", err)
	}

	total, err := s.repo.CountActiveByRoom(ctx, roomID, from, to)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, total, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, iv model.Interval) (bool, []string, error) {
	if !iv.IsValid() {
		return false, nil, apperrors.Validation("end_time", "end_time must be after start_time")
	}

	if err := s.hydrateIndex(ctx, roomID); err != nil {
		return false, nil, err
	}

	conflicts := s.index.FindConflicts(roomID, iv, "")
	return len(conflicts) == 0, conflicts, nil
}

func (s *bookingService) FreeWindows(ctx context.Context, roomID string, window model.Interval) (iter.Seq[model.Interval], error) {
	if !window.IsValid() {
		return nil, apperrors.Validation("to", "query window end must be after its start")
	}
	if err := s.hydrateIndex(ctx, roomID); err != nil {
		return nil, err
	}
	return s.index.FreeWindows(roomID, window), nil
}

func (s *bookingService) BusyWindows(ctx context.Context, roomID string, window model.Interval) (iter.Seq[model.Interval], error) {
	if !window.IsValid() {
		return nil, apperrors.Validation("to", "query window end must be after its start")
	}
	if err := s.hydrateIndex(ctx, roomID); err != nil {
		return nil, err
	}
	return s.index.BusyWindows(roomID, window), nil
}

func (s *bookingService) applyDefaults(booking *model.Booking) {
	// ids are server-assigned; a client-supplied one is discarded so it
	// can never collide with an existing document
	booking.ID = uuid.NewString()
	if s.cfg.AutoConfirm {
		booking.Status = model.BookingConfirmed
	} else {
		booking.Status = model.BookingPending
	}
	booking.StartTime = booking.StartTime.UTC()
	booking.EndTime = booking.EndTime.UTC()
}

func (s *bookingService) resolvePrincipal(ctx context.Context, actorID string) (*model.Principal, error) {
	principal, err := s.users.FindPrincipal(ctx, actorID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("acting user is not registered")
		}
		return nil, apperrors.Internal("Failed to resolve acting user", err)
	}
	return principal, nil
}

func (s *bookingService) ensureRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", roomID)
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}
	return room, nil
}

// acquireAdvisoryLock takes the cross-process room lock with bounded
// retries. Giving up maps to 409 so the client retries at its own pace.
func (s *bookingService) acquireAdvisoryLock(ctx context.Context, roomID string) (func(), error) {
	for attempt := 0; ; attempt++ {
		lock := &model.BookingLock{
			ID:        roomID,
			RoomID:    roomID,
			ExpiresAt: time.Now().Add(s.cfg.LockTTL),
		}

		err := s.locks.Acquire(ctx, lock)
		if err == nil {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
				defer cancel()
				if err := s.locks.Release(releaseCtx, lock.ID); err != nil {
					s.logger.Warn("Failed to release room lock, waiting on TTL expiry",
						"room_id", roomID, "error", err)
				}
			}, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Internal("Failed to acquire room lock", err)
		}
		if attempt >= s.cfg.LockRetries {
			return nil, apperrors.Conflict("room is busy handling another booking, retry shortly")
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.Timeout("timed out waiting for room lock")
		case <-time.After(s.cfg.LockRetryDelay):
		}
	}
}

// hydrateIndex lazily populates a room's availability view on first
// read. Refreshes after writes keep it warm from then on.
func (s *bookingService) hydrateIndex(ctx context.Context, roomID string) error {
	if s.index.HasRoom(roomID) {
		return nil
	}

	if _, err := s.ensureRoom(ctx, roomID); err != nil {
		return err
	}

	unlock := s.locker.Lock(roomID)
	defer unlock()

	if s.index.HasRoom(roomID) {
		return nil
	}
	return s.reloadRoom(ctx, roomID)
}

// refreshIndex rebuilds the room view after a write. Callers already
// hold the room mutex. A failed refresh only degrades read freshness;
// storage stays authoritative.
func (s *bookingService) refreshIndex(ctx context.Context, roomID string) {
	if err := s.reloadRoom(ctx, roomID); err != nil {
		s.logger.Warn("Failed to refresh availability index",
			"room_id", roomID, "error", err)
	}
}

func (s *bookingService) reloadRoom(ctx context.Context, roomID string) error {
	bookings, err := s.repo.FindActiveByRoom(ctx, roomID, nil, nil, 0, 0)
	if err != nil {
		return err
	}
	s.index.ReplaceRoom(roomID, bookings)
	return nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		s.logger.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func bookingIDs(bookings []*model.Booking) []string {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.ValidationWithDetails("booking validation failed", details)
	}
	return apperrors.InvalidInput(err.Error())
}
