package game

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"scribble0/domain"
	"scribble0/wire"
)

// Pointer sampling makes draw and moveShape traffic bursty; the
// limiter is sized for a fast pointer, not for politeness.
const (
	inputRateLimit = 240
	inputRateBurst = 480
)

type player struct {
	id          string
	admin       bool
	socket      WebsocketConnection
	rateLimiter *rate.Limiter
	inbox       chan []byte
	pingChan    chan struct{}
	room        Room
	ctx         context.Context
	cancelCtx   context.CancelFunc
}

func NewPlayer(id string, admin bool, socket WebsocketConnection) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:          id,
		admin:       admin,
		socket:      socket,
		rateLimiter: rate.NewLimiter(inputRateLimit, inputRateBurst),
		inbox:       make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

func (p *player) ID() string {
	return p.id
}

func (p *player) IsAdmin() bool {
	return p.admin
}

func (p *player) SetRoom(r Room) {
	p.room = r
}

// Send queues data for the write pump without blocking the room
// actor. A full buffer means the client stopped draining; dropping the
// connection is the room's call.
func (p *player) Send(data []byte) error {
	select {
	case p.inbox <- data:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease is called by the room once the player has been
// removed from its state. Both pumps observe the cancellation.
func (p *player) CancelAndRelease() {
	p.cancelCtx()
}

func (p *player) ReadPump() {
	defer func() {
		p.socket.Close("")
		if p.room != nil {
			p.room.RemoveMe(p.ctx, p)
		}
	}()

	for {
		data, err := p.socket.Read()
		if err != nil {
			return
		}
		if !p.rateLimiter.Allow() {
			continue
		}

		var envelope ClientPacketEnvelope
		if wire.PeekType(data) == wire.TypeDraw {
			// Stroke segments are relayed without re-encoding, but
			// the payload is still validated before it can reach
			// other clients.
			if _, err := wire.DecodeClientPacket(data); err != nil {
				log.Debug().Str("player", p.id).Err(err).Msg("dropping undecodable packet")
				continue
			}
			envelope = ClientPacketEnvelope{rawBinary: data, from: p}
		} else {
			packet, err := wire.DecodeClientPacket(data)
			if err != nil {
				log.Debug().Str("player", p.id).Err(err).Msg("dropping undecodable packet")
				continue
			}
			envelope = ClientPacketEnvelope{packet: packet, from: p}
		}

		if p.room == nil {
			continue
		}
		select {
		case <-p.ctx.Done():
			return
		default:
		}
		p.room.Send(p.ctx, envelope)
	}
}

func (p *player) WritePump() {
loop:
	for {
		select {
		case data, ok := <-p.inbox:
			if !ok {
				break loop
			}
			if err := p.socket.Write(data); err != nil {
				break loop
			}
		case <-p.pingChan:
			if err := p.socket.Ping(); err != nil {
				break loop
			}
		case <-p.ctx.Done():
			break loop
		}
	}
	p.socket.Close("")
}
