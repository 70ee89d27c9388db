package rooms

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrAlreadyJoined      = errors.New("connection already joined this room")
	ErrNotHost            = errors.New("operation reserved for the room host")
	ErrAlreadyDistributed = errors.New("roles already distributed")
)
