package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// lobby is the room registry. Room ids are opaque, untrusted,
// case-sensitive strings; a room is created lazily the first time
// anyone asks to join it and torn down once it reports itself empty.
// The lobby also owns the shared tickers: one 1s tick fan-out that
// drives every room's countdown and one 30s ping fan-out.
type lobby struct {
	rooms map[string]Room

	removeRoomChan chan string
	roomJoinReqs   chan roomJoinRequest

	idGenerator   UniqueIdGenerator
	tickerCreator PeriodicTickerChannelCreator
	roomCapacity  int

	newRoom func(id string, maxPlayers int) Room
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, roomCapacity int) *lobby {
	return &lobby{
		rooms:          map[string]Room{},
		removeRoomChan: make(chan string, 32),
		roomJoinReqs:   make(chan roomJoinRequest, 256),
		idGenerator:    idgen,
		tickerCreator:  tickerCreator,
		roomCapacity:   roomCapacity,
		newRoom: func(id string, maxPlayers int) Room {
			return NewRoom(id, maxPlayers)
		},
	}
}

func (l *lobby) ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest) {
	select {
	case l.roomJoinReqs <- jreq:
	case <-ctx.Done():
	}
}

// RemoveRoom is called from room goroutines; it must never block the
// caller. A dropped request is retried by the room on its next empty
// tick.
func (l *lobby) RemoveRoom(roomID string) {
	select {
	case l.removeRoomChan <- roomID:
	default:
	}
}

func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}
		case roomID := <-l.removeRoomChan:
			l.handleRemoveRoom(roomID)
		case jreq := <-l.roomJoinReqs:
			l.handleJoinReq(jreq)
		}
	}
}

func (l *lobby) handleJoinReq(jreq roomJoinRequest) {
	room, ok := l.rooms[jreq.roomID]
	if !ok {
		room = l.newRoom(jreq.roomID, l.roomCapacity)
		room.SetParentLobby(l)
		l.rooms[jreq.roomID] = room
		l.idGenerator.Reserve(jreq.roomID)
		go room.GameLoop()
		log.Info().Str("room", jreq.roomID).Msg("room created")
	}
	room.RequestJoin(jreq)
}

func (l *lobby) handleRemoveRoom(roomID string) {
	room, ok := l.rooms[roomID]
	if !ok {
		return
	}
	// The room decides: a join may have landed since it reported
	// itself empty, in which case it stays registered.
	if !room.CloseIfEmpty() {
		log.Debug().Str("room", roomID).Msg("room no longer empty, keeping it")
		return
	}
	delete(l.rooms, roomID)
	l.idGenerator.Dispose(roomID)
	log.Info().Str("room", roomID).Msg("room removed")
}
