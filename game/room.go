package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxPlayers bounds concurrent drawers per room; the admin
	// holds a separate slot.
	DefaultMaxPlayers = 8

	// An empty room lingers this many lobby ticks (seconds) before it
	// asks to be torn down, so a quick reconnect finds it intact.
	emptyRoomGraceTicks = 30
)

// room is the single serialization point for everything that mutates
// its state: joins, leaves, the countdown, shape mutations, and the
// stroke relay all funnel through GameLoop. Handlers append send
// tasks; the loop flushes them after each message, so every member
// observes events in the same relative order.
type room struct {
	id         string
	maxPlayers int

	phase     RoomPhase
	remaining int

	admin   Player
	drawers []Player

	shapes *shapeStore

	emptyTicks  int
	parentLobby Lobby

	dataSendTasks []dataSendTask
	pingSendTasks []pingSendTask

	inbox       chan ClientPacketEnvelope
	ticks       chan time.Time
	removeMe    chan Player
	joinReqs    chan roomJoinRequest
	pingPlayers chan struct{}
	closeReqs   chan chan bool
	done        chan struct{}
}

func NewRoom(id string, maxPlayers int) *room {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &room{
		id:          id,
		maxPlayers:  maxPlayers,
		phase:       PhaseIdle,
		shapes:      newShapeStore(),
		inbox:       make(chan ClientPacketEnvelope, 1024),
		ticks:       make(chan time.Time, 24),
		removeMe:    make(chan Player, 64),
		joinReqs:    make(chan roomJoinRequest, 32),
		pingPlayers: make(chan struct{}, 1),
		closeReqs:   make(chan chan bool, 1),
		done:        make(chan struct{}),
	}
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) Send(ctx context.Context, e ClientPacketEnvelope) {
	select {
	case r.inbox <- e:
	case <-ctx.Done():
	case <-r.done:
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.removeMe <- p:
	case <-ctx.Done():
	case <-r.done:
	}
}

func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinReqs <- jreq:
	case <-r.done:
		jreq.errChan <- context.Canceled
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

func (r *room) GameLoop() {
	for {
		select {
		case envelope := <-r.inbox:
			r.handleEnvelope(envelope)
		case now := <-r.ticks:
			r.handleTick(now)
		case p := <-r.removeMe:
			r.handleRemovePlayer(p)
		case jreq := <-r.joinReqs:
			r.handleJoinRequest(jreq)
		case <-r.pingPlayers:
			r.handlePingPlayers()
		case reply := <-r.closeReqs:
			if r.handleCloseRequest(reply) {
				return
			}
		}
		r.flushSendTasks()
	}
}

// CloseIfEmpty asks the room goroutine to shut down if it still has
// no members. The decision runs inside the actor, never here, so a
// join racing the teardown wins cleanly and membership is only ever
// touched by the room goroutine.
func (r *room) CloseIfEmpty() bool {
	reply := make(chan bool, 1)
	select {
	case r.closeReqs <- reply:
	case <-r.done:
		return true
	}
	select {
	case ok := <-reply:
		return ok
	case <-r.done:
		return true
	}
}

func (r *room) members() []Player {
	out := make([]Player, 0, len(r.drawers)+1)
	if r.admin != nil {
		out = append(out, r.admin)
	}
	out = append(out, r.drawers...)
	return out
}

func (r *room) membersCount() int {
	n := len(r.drawers)
	if r.admin != nil {
		n++
	}
	return n
}

// flushSendTasks drains the task queues. A member whose send buffer is
// full stopped draining its socket; it gets removed, which may queue
// more tasks, hence the outer loop.
func (r *room) flushSendTasks() {
	for len(r.dataSendTasks) > 0 || len(r.pingSendTasks) > 0 {
		data := r.dataSendTasks
		pings := r.pingSendTasks
		r.dataSendTasks = nil
		r.pingSendTasks = nil

		var stalled []Player
		for _, task := range data {
			if err := task.to.Send(task.data); err != nil {
				log.Warn().Str("room", r.id).Str("player", task.to.ID()).Err(err).Msg("dropping stalled player")
				stalled = append(stalled, task.to)
			}
		}
		for _, task := range pings {
			task.to.Ping()
		}
		for _, p := range stalled {
			r.handleRemovePlayer(p)
		}
	}
}
