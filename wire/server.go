package wire

import (
	"encoding/json"
	"fmt"
)

type Joined struct {
	PlayerCount   int     `json:"playerCount"`
	MaxPlayers    int     `json:"maxPlayers"`
	GameStarted   bool    `json:"gameStarted"`
	RemainingTime int     `json:"remainingTime"`
	Shapes        []Shape `json:"shapes"`
}

type PlayerCountUpdate struct {
	PlayerCount int `json:"playerCount"`
	MaxPlayers  int `json:"maxPlayers"`
}

type ShapeAdded struct {
	Shape Shape `json:"shape"`
}

type ShapeMoved struct {
	ShapeID int64   `json:"shapeId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type TimerStart struct {
	Duration int `json:"duration"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// ServerPacket is the decoded form of a server -> client envelope.
// Types with no payload (timerEnd, gameStopped, canvasCleared,
// adminLeft) carry only the tag.
type ServerPacket struct {
	Type        string
	Joined      *Joined
	PlayerCount *PlayerCountUpdate
	Draw        *StrokeSegment
	ShapeAdded  *ShapeAdded
	ShapeMoved  *ShapeMoved
	TimerStart  *TimerStart
	Error       *ErrorMessage
}

func (p *ServerPacket) Encode() ([]byte, error) {
	var payload any
	switch p.Type {
	case TypeJoined:
		payload = p.Joined
	case TypePlayerCountUpdate:
		payload = p.PlayerCount
	case TypeDraw:
		payload = p.Draw
	case TypeShapeAdded:
		payload = p.ShapeAdded
	case TypeShapeMoved:
		payload = p.ShapeMoved
	case TypeTimerStart:
		payload = p.TimerStart
	case TypeError:
		payload = p.Error
	case TypeTimerEnd, TypeGameStopped, TypeCanvasCleared, TypeAdminLeft:
		return json.Marshal(envelope{Type: p.Type})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: p.Type, Data: data})
}

func DecodeServerPacket(raw []byte) (*ServerPacket, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	pkt := &ServerPacket{Type: env.Type}
	switch env.Type {
	case TypeJoined:
		pkt.Joined = &Joined{}
		return pkt, decodeData(env.Data, pkt.Joined)
	case TypePlayerCountUpdate:
		pkt.PlayerCount = &PlayerCountUpdate{}
		return pkt, decodeData(env.Data, pkt.PlayerCount)
	case TypeDraw:
		pkt.Draw = &StrokeSegment{}
		return pkt, decodeData(env.Data, pkt.Draw)
	case TypeShapeAdded:
		pkt.ShapeAdded = &ShapeAdded{}
		return pkt, decodeData(env.Data, pkt.ShapeAdded)
	case TypeShapeMoved:
		pkt.ShapeMoved = &ShapeMoved{}
		return pkt, decodeData(env.Data, pkt.ShapeMoved)
	case TypeTimerStart:
		pkt.TimerStart = &TimerStart{}
		return pkt, decodeData(env.Data, pkt.TimerStart)
	case TypeError:
		pkt.Error = &ErrorMessage{}
		return pkt, decodeData(env.Data, pkt.Error)
	case TypeTimerEnd, TypeGameStopped, TypeCanvasCleared, TypeAdminLeft:
		return pkt, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func MakePacketJoined(playerCount, maxPlayers int, gameStarted bool, remaining int, shapes []Shape) *ServerPacket {
	if shapes == nil {
		shapes = []Shape{}
	}
	return &ServerPacket{
		Type: TypeJoined,
		Joined: &Joined{
			PlayerCount:   playerCount,
			MaxPlayers:    maxPlayers,
			GameStarted:   gameStarted,
			RemainingTime: remaining,
			Shapes:        shapes,
		},
	}
}

func MakePacketPlayerCountUpdate(playerCount, maxPlayers int) *ServerPacket {
	return &ServerPacket{
		Type:        TypePlayerCountUpdate,
		PlayerCount: &PlayerCountUpdate{PlayerCount: playerCount, MaxPlayers: maxPlayers},
	}
}

func MakePacketDraw(seg StrokeSegment) *ServerPacket {
	return &ServerPacket{Type: TypeDraw, Draw: &seg}
}

func MakePacketShapeAdded(shape Shape) *ServerPacket {
	return &ServerPacket{Type: TypeShapeAdded, ShapeAdded: &ShapeAdded{Shape: shape}}
}

func MakePacketShapeMoved(shapeID int64, x, y float64) *ServerPacket {
	return &ServerPacket{Type: TypeShapeMoved, ShapeMoved: &ShapeMoved{ShapeID: shapeID, X: x, Y: y}}
}

func MakePacketTimerStart(duration int) *ServerPacket {
	return &ServerPacket{Type: TypeTimerStart, TimerStart: &TimerStart{Duration: duration}}
}

func MakePacketTimerEnd() *ServerPacket {
	return &ServerPacket{Type: TypeTimerEnd}
}

func MakePacketGameStopped() *ServerPacket {
	return &ServerPacket{Type: TypeGameStopped}
}

func MakePacketCanvasCleared() *ServerPacket {
	return &ServerPacket{Type: TypeCanvasCleared}
}

func MakePacketAdminLeft() *ServerPacket {
	return &ServerPacket{Type: TypeAdminLeft}
}

func MakePacketError(message string) *ServerPacket {
	return &ServerPacket{Type: TypeError, Error: &ErrorMessage{Message: message}}
}
