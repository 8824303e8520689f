package game

import (
	"context"
	"time"

	"scribble0/wire"
)

type RoomPhase int

const (
	PhaseIdle RoomPhase = iota
	PhaseRunning
)

type WebsocketConnection interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type Player interface {
	ID() string
	IsAdmin() bool
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

type Room interface {
	Send(ctx context.Context, e ClientPacketEnvelope)
	RemoveMe(ctx context.Context, p Player)
	RequestJoin(jreq roomJoinRequest)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseIfEmpty() bool
	SetParentLobby(l Lobby)
}

type Lobby interface {
	ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest)
	RemoveRoom(roomID string)
}

type UniqueIdGenerator interface {
	Generate() string
	Reserve(id string)
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// ClientPacketEnvelope carries one decoded client packet through the
// room inbox. Draw frames skip the decode: the relay forwards
// rawBinary verbatim, so only one of packet/rawBinary is set.
type ClientPacketEnvelope struct {
	packet    *wire.ClientPacket
	rawBinary []byte
	from      Player
}

type roomJoinRequest struct {
	roomID     string
	player     Player
	wantsAdmin bool
	errChan    chan error
}

func NewRoomJoinRequest(roomID string, player Player, wantsAdmin bool) roomJoinRequest {
	return roomJoinRequest{
		roomID:     roomID,
		player:     player,
		wantsAdmin: wantsAdmin,
		errChan:    make(chan error, 1),
	}
}

type dataSendTask struct {
	to   Player
	data []byte
}

type pingSendTask struct {
	to Player
}
