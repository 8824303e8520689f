package game

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"scribble0/auth"
	"scribble0/wire"
)

const (
	joinHandshakeTimeout = 10 * time.Second
	joinReplyTimeout     = 5 * time.Second
)

type GameHandler struct {
	lobby    Lobby
	verifier auth.Verifier
	idGen    UniqueIdGenerator
	upgrader websocket.Upgrader
}

func NewGameHandler(lobby Lobby, verifier auth.Verifier, idGen UniqueIdGenerator) *GameHandler {
	return &GameHandler{
		lobby:    lobby,
		verifier: verifier,
		idGen:    idGen,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are filtered by the server middleware before
			// requests reach this handler.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// NewRoomHandler hands out a fresh short room id for the "generate
// new room" flow. Joining never requires this; any opaque id works.
func (h *GameHandler) NewRoomHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"roomId": h.idGen.Generate()})
}

// JoinRoomHandler upgrades the connection and performs the join
// handshake: admin elevation is verified before the upgrade, then the
// first frame must be a joinRoom packet matching the path.
func (h *GameHandler) JoinRoomHandler(ctx *gin.Context) {
	roomID := ctx.Param("roomid")
	wantsAdmin := ctx.Query("admin") == "true"

	if wantsAdmin && !h.verifier.Verify(ctx.Query("password")) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid-admin-password"})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Str("room", roomID).Err(err).Msg("websocket upgrade failed")
		return
	}
	socket := NewWebsocketConnection(conn)

	conn.SetReadDeadline(time.Now().Add(joinHandshakeTimeout))
	data, err := socket.Read()
	if err != nil {
		socket.Close("join-timeout")
		return
	}
	conn.SetReadDeadline(time.Time{})

	packet, err := wire.DecodeClientPacket(data)
	if err != nil || packet.Type != wire.TypeJoinRoom ||
		packet.Join.RoomID != roomID || packet.Join.IsAdmin != wantsAdmin {
		h.closeWithError(socket, "invalid-join")
		return
	}

	player := NewPlayer(uuid.NewString(), wantsAdmin, socket)
	jreq := NewRoomJoinRequest(roomID, player, wantsAdmin)
	h.lobby.ForwardPlayerJoinRequestToRoom(ctx.Request.Context(), jreq)

	select {
	case err := <-jreq.errChan:
		if err != nil {
			log.Debug().Str("room", roomID).Err(err).Msg("join rejected")
			h.closeWithError(socket, err.Error())
			return
		}
	case <-time.After(joinReplyTimeout):
		h.closeWithError(socket, "join-timeout")
		return
	}

	go player.ReadPump()
	go player.WritePump()
}

func (h *GameHandler) closeWithError(socket WebsocketConnection, message string) {
	if data, err := wire.MakePacketError(message).Encode(); err == nil {
		socket.Write(data)
	}
	socket.Close(message)
}
