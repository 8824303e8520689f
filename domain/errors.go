package domain

import "errors"

// Sentinel messages double as wire error codes, so they stay
// kebab-case and short.
var (
	ErrRoomFull       = errors.New("room-full")
	ErrAdminSlotTaken = errors.New("admin-slot-taken")
	ErrSendBufferFull = errors.New("send-buffer-full")
)
