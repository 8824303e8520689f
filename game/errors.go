package game

import "scribble0/domain"

// Room-level rejections reuse the domain sentinels so handlers can
// map them to wire error messages without string matching.
var (
	ErrRoomFull       = domain.ErrRoomFull
	ErrAdminSlotTaken = domain.ErrAdminSlotTaken
)
