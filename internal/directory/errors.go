package directory

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrUserNotFound = errors.New("user not found")
)
