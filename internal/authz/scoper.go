package authz

import (
	"context"
	"errors"
	"fmt"
	"roomly/internal/directory"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Scoper is the single capability-check entry point for every mutating
// operation. Each role is an explicit case: ADMIN is unrestricted,
// MANAGER is bounded by location grants, USER only touches their own
// bookings.
type Scoper interface {
	CanManageRoom(ctx context.Context, principal *model.Principal, roomID string) (bool, error)
	CanActOnBooking(ctx context.Context, principal *model.Principal, booking *model.Booking) (bool, error)
}

type roleScoper struct {
	rooms directory.RoomDirectory
	log   *logger.Logger
}

func NewScoper(rooms directory.RoomDirectory, log *logger.Logger) Scoper {
	return &roleScoper{
		rooms: rooms,
		log:   log,
	}
}

func (s *roleScoper) CanManageRoom(ctx context.Context, principal *model.Principal, roomID string) (bool, error) {
	switch principal.Role {
	case model.RoleAdmin:
		return true, nil

	case model.RoleManager:
		// one lookup hop: room -> location -> grant set
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, directory.ErrRoomNotFound) {
				return false, err
			}
			return false, fmt.Errorf("failed to resolve room location: %w", err)
		}
		return principal.HasGrant(room.LocationID), nil

	default:
		return false, nil
	}
}

func (s *roleScoper) CanActOnBooking(ctx context.Context, principal *model.Principal, booking *model.Booking) (bool, error) {
	if principal.ID == booking.UserID {
		return true, nil
	}
	return s.CanManageRoom(ctx, principal, booking.RoomID)
}
