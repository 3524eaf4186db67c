package service

import (
	"context"
	"errors"
	"roomly/internal/authz"
	"roomly/internal/directory"
	feedbackerrors "roomly/internal/feedback/errors"
	"roomly/internal/feedback/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type FeedbackService interface {
	Create(ctx context.Context, actorID string, feedback *model.Feedback) (*model.Feedback, error)
	Resolve(ctx context.Context, actorID, feedbackID, comment string) (*model.Feedback, error)
	Dismiss(ctx context.Context, actorID, feedbackID, comment string) (*model.Feedback, error)
	GetByID(ctx context.Context, feedbackID string) (*model.Feedback, error)
	ListByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Feedback, int64, error)
}

type feedbackService struct {
	repo     repository.FeedbackRepository
	rooms    directory.RoomDirectory
	users    directory.UserDirectory
	scoper   authz.Scoper
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFeedbackService(
	cfg *config.Config,
	repo repository.FeedbackRepository,
	rooms directory.RoomDirectory,
	users directory.UserDirectory,
	scoper authz.Scoper,
) FeedbackService {
	return &feedbackService{
		repo:     repo,
		rooms:    rooms,
		users:    users,
		scoper:   scoper,
		validate: validator.New(),
		logger:   cfg.Log,
	}
}

func (s *feedbackService) Create(ctx context.Context, actorID string, feedback *model.Feedback) (*model.Feedback, error) {
	feedback.ID = uuid.NewString()
	feedback.UserID = actorID
	feedback.Status = model.FeedbackOpen
	feedback.ResolverID = ""
	feedback.ResolutionComment = ""

	if err := s.validate.Struct(feedback); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if _, err := s.rooms.FindByID(ctx, feedback.RoomID); err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", feedback.RoomID)
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, apperrors.Internal("Failed to create feedback", err)
	}

	s.logger.Info("Feedback created",
		"feedback_id", feedback.ID,
		"room_id", feedback.RoomID,
		"user_id", feedback.UserID,
	)

	return feedback, nil
}

func (s *feedbackService) Resolve(ctx context.Context, actorID, feedbackID, comment string) (*model.Feedback, error) {
	return s.close(ctx, actorID, feedbackID, model.FeedbackResolved, comment)
}

func (s *feedbackService) Dismiss(ctx context.Context, actorID, feedbackID, comment string) (*model.Feedback, error) {
	return s.close(ctx, actorID, feedbackID, model.FeedbackDismissed, comment)
}

// close applies one of the two terminal edges. Closing a report is a
// management action scoped to the room's location.
func (s *feedbackService) close(ctx context.Context, actorID, feedbackID string, status model.FeedbackStatus, comment string) (*model.Feedback, error) {
	feedback, err := s.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	principal, err := s.users.FindPrincipal(ctx, actorID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("acting user is not registered")
		}
		return nil, apperrors.Internal("Failed to resolve acting user", err)
	}

	allowed, err := s.scoper.CanManageRoom(ctx, principal, feedback.RoomID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check permissions", err)
	}
	if !allowed {
		return nil, apperrors.Forbidden("cannot close feedback for this room")
	}

	if !feedback.Status.CanTransitionTo(status) {
		return nil, apperrors.InvalidTransition(string(feedback.Status), string(status))
	}

	if err := s.repo.Resolve(ctx, feedbackID, status, principal.ID, comment); err != nil {
		if errors.Is(err, feedbackerrors.ErrNotOpen) {
			// lost a race with another resolver
			return nil, apperrors.Conflict("feedback was closed by another request")
		}
		return nil, apperrors.Internal("Failed to close feedback", err)
	}

	feedback.Status = status
	feedback.ResolverID = principal.ID
	feedback.ResolutionComment = comment

	s.logger.Info("Feedback closed",
		"feedback_id", feedbackID,
		"status", status,
		"resolver_id", principal.ID,
	)

	return feedback, nil
}

func (s *feedbackService) GetByID(ctx context.Context, feedbackID string) (*model.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, feedbackerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("feedback", feedbackID)
		}
		return nil, apperrors.Internal("Failed to find feedback", err)
	}
	return feedback, nil
}

func (s *feedbackService) ListByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Feedback, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			return nil, 0, apperrors.NotFoundWithID("room", roomID)
		}
		return nil, 0, apperrors.Internal("Failed to resolve room", err)
	}

	feedback, err := s.repo.FindByRoom(ctx, roomID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list feedback", err)
	}

	total, err := s.repo.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count feedback", err)
	}

	return feedback, total, nil
}
