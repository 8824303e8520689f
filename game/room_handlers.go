package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"scribble0/wire"
)

const maxTimerDuration = 300

func (r *room) handleEnvelope(e ClientPacketEnvelope) {
	if !r.isMember(e.from) {
		return
	}
	if e.rawBinary != nil {
		r.handleDraw(e.rawBinary, e.from)
		return
	}
	if e.packet == nil {
		return
	}

	switch e.packet.Type {
	case wire.TypeDraw:
		// The read pump forwards draw frames raw; a decoded one can
		// still show up from in-process callers.
		if data, err := wire.MakePacketDraw(*e.packet.Draw).Encode(); err == nil {
			r.handleDraw(data, e.from)
		}
	case wire.TypeAddShape:
		r.handleAddShape(e.packet.AddShape, e.from)
	case wire.TypeMoveShape:
		r.handleMoveShape(e.packet.MoveShape, e.from)
	case wire.TypeSetTimer:
		r.handleSetTimer(e.packet.SetTimer, e.from)
	case wire.TypeStopGame:
		r.handleStopGame(e.from)
	case wire.TypeClearCanvas:
		r.handleClearCanvas(e.from)
	}
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if jreq.wantsAdmin {
		// First admin connection holds the slot until it disconnects.
		if r.admin != nil {
			jreq.errChan <- ErrAdminSlotTaken
			return
		}
		r.admin = jreq.player
	} else {
		if len(r.drawers) >= r.maxPlayers {
			jreq.errChan <- ErrRoomFull
			return
		}
		r.drawers = append(r.drawers, jreq.player)
	}

	jreq.player.SetRoom(r)
	r.emptyTicks = 0
	jreq.errChan <- nil

	r.send(jreq.player, wire.MakePacketJoined(
		len(r.drawers), r.maxPlayers, r.phase == PhaseRunning, r.remaining, r.shapes.snapshot(),
	))
	// Every other member sees the new count before any event the
	// joiner produces.
	r.broadcast(wire.MakePacketPlayerCountUpdate(len(r.drawers), r.maxPlayers), jreq.player)

	log.Debug().Str("room", r.id).Str("player", jreq.player.ID()).Bool("admin", jreq.wantsAdmin).Msg("player joined")
}

func (r *room) handleRemovePlayer(p Player) {
	wasAdmin := false
	if r.admin == p {
		r.admin = nil
		wasAdmin = true
	} else {
		idx := -1
		for i, d := range r.drawers {
			if d == p {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		r.drawers = append(r.drawers[:idx], r.drawers[idx+1:]...)
	}

	p.CancelAndRelease()

	r.broadcast(wire.MakePacketPlayerCountUpdate(len(r.drawers), r.maxPlayers), nil)
	if wasAdmin {
		// Without an admin nobody can run a round, so a departing
		// admin pre-empts any countdown in flight.
		r.phase = PhaseIdle
		r.remaining = 0
		r.broadcast(wire.MakePacketAdminLeft(), nil)
	}

	log.Debug().Str("room", r.id).Str("player", p.ID()).Bool("admin", wasAdmin).Msg("player left")
}

func (r *room) handleTick(now time.Time) {
	if r.membersCount() == 0 {
		r.emptyTicks++
		if r.emptyTicks >= emptyRoomGraceTicks && r.parentLobby != nil {
			r.parentLobby.RemoveRoom(r.id)
		}
		return
	}
	r.emptyTicks = 0

	if r.phase != PhaseRunning {
		return
	}
	r.remaining--
	if r.remaining <= 0 {
		r.remaining = 0
		r.phase = PhaseIdle
		r.broadcast(wire.MakePacketTimerEnd(), nil)
	}
}

func (r *room) handleSetTimer(st *wire.SetTimer, from Player) {
	if from != r.admin || r.phase != PhaseIdle || len(r.drawers) == 0 {
		return
	}
	duration := min(max(st.Duration, 0), maxTimerDuration)
	r.phase = PhaseRunning
	r.remaining = duration
	r.broadcast(wire.MakePacketTimerStart(duration), nil)
}

func (r *room) handleStopGame(from Player) {
	if from != r.admin || r.phase != PhaseRunning {
		return
	}
	r.phase = PhaseIdle
	r.remaining = 0
	// Clients wipe the stroke raster on this; shapes survive.
	r.broadcast(wire.MakePacketGameStopped(), nil)
}

func (r *room) handleClearCanvas(from Player) {
	if from != r.admin {
		return
	}
	r.broadcast(wire.MakePacketCanvasCleared(), nil)
}

func (r *room) handleAddShape(a *wire.AddShape, from Player) {
	if !r.drawingAllowed(from) {
		return
	}
	shape := r.shapes.add(a.Shape.ID, a.Shape.Kind, a.Shape.X, a.Shape.Y)
	r.broadcast(wire.MakePacketShapeAdded(shape), from)
}

func (r *room) handleMoveShape(m *wire.MoveShape, from Player) {
	if !r.drawingAllowed(from) {
		return
	}
	if !r.shapes.move(m.ShapeID, m.X, m.Y) {
		// The shape may never have existed; cosmetic intent, no error.
		log.Debug().Str("room", r.id).Int64("shape", m.ShapeID).Msg("move on unknown shape dropped")
		return
	}
	r.broadcast(wire.MakePacketShapeMoved(m.ShapeID, m.X, m.Y), from)
}

func (r *room) handleDraw(raw []byte, from Player) {
	if !r.drawingAllowed(from) {
		return
	}
	for _, member := range r.members() {
		if member == from {
			continue
		}
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: member, data: raw})
	}
}

// handleCloseRequest resolves a lobby teardown request. A join that
// arrived after the room reported itself empty wins: the room stays
// and the lobby keeps it registered.
func (r *room) handleCloseRequest(reply chan bool) bool {
	if r.membersCount() > 0 {
		reply <- false
		return false
	}
	close(r.done)
	// Joins already queued behind this request would otherwise sit out
	// the handshake timeout.
	for {
		select {
		case jreq := <-r.joinReqs:
			jreq.errChan <- context.Canceled
		default:
			reply <- true
			return true
		}
	}
}

func (r *room) handlePingPlayers() {
	for _, member := range r.members() {
		r.pingSendTasks = append(r.pingSendTasks, pingSendTask{to: member})
	}
}

// drawingAllowed gates drawer-origin actions: only non-admin members,
// only while a round is running. The authority enforces this even
// though the client UI already does.
func (r *room) drawingAllowed(from Player) bool {
	return r.phase == PhaseRunning && from != r.admin && r.isMember(from)
}

func (r *room) isMember(p Player) bool {
	if p == nil {
		return false
	}
	if p == r.admin {
		return true
	}
	for _, d := range r.drawers {
		if d == p {
			return true
		}
	}
	return false
}

func (r *room) send(to Player, pkt *wire.ServerPacket) {
	data, err := pkt.Encode()
	if err != nil {
		log.Error().Str("room", r.id).Str("type", pkt.Type).Err(err).Msg("failed to encode packet")
		return
	}
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: to, data: data})
}

func (r *room) broadcast(pkt *wire.ServerPacket, except Player) {
	data, err := pkt.Encode()
	if err != nil {
		log.Error().Str("room", r.id).Str("type", pkt.Type).Err(err).Msg("failed to encode packet")
		return
	}
	for _, member := range r.members() {
		if member == except {
			continue
		}
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: member, data: data})
	}
}
