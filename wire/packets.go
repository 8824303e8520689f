package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Packets cross the websocket as {"type": ..., "data": {...}} JSON
// envelopes. Each direction has a closed set of types; anything that
// does not decode into the payload for its tag is rejected here,
// before it can reach a room.

var (
	ErrUnknownType = errors.New("unknown-packet-type")
	ErrBadPayload  = errors.New("malformed-payload")
)

// Client -> server types.
const (
	TypeJoinRoom    = "joinRoom"
	TypeDraw        = "draw"
	TypeAddShape    = "addShape"
	TypeMoveShape   = "moveShape"
	TypeSetTimer    = "setTimer"
	TypeStopGame    = "stopGame"
	TypeClearCanvas = "clearCanvas"
)

// Server -> client types. TypeDraw and TypeClearCanvas appear in both
// directions with identical payloads.
const (
	TypeJoined            = "joined"
	TypePlayerCountUpdate = "playerCountUpdate"
	TypeShapeAdded        = "shapeAdded"
	TypeShapeMoved        = "shapeMoved"
	TypeTimerStart        = "timerStart"
	TypeTimerEnd          = "timerEnd"
	TypeGameStopped       = "gameStopped"
	TypeCanvasCleared     = "canvasCleared"
	TypeAdminLeft         = "adminLeft"
	TypeError             = "error"
)

const (
	ShapeCircle = "circle"
	ShapeSquare = "square"
)

// Shapes have a fixed footprint; the server overrides whatever size a
// client proposes with these.
const (
	DefaultShapeWidth  = 50.0
	DefaultShapeHeight = 50.0
)

type Shape struct {
	ID     int64   `json:"id"`
	Kind   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type StrokeSegment struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

type JoinRoom struct {
	RoomID  string `json:"roomId"`
	IsAdmin bool   `json:"isAdmin"`
}

type AddShape struct {
	RoomID string `json:"roomId"`
	Shape  Shape  `json:"shape"`
}

type MoveShape struct {
	RoomID  string  `json:"roomId"`
	ShapeID int64   `json:"shapeId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type SetTimer struct {
	RoomID   string `json:"roomId"`
	Duration int    `json:"duration"`
}

type StopGame struct {
	RoomID string `json:"roomId"`
}

type ClearCanvas struct {
	RoomID string `json:"roomId"`
}

// ClientPacket is the decoded form of a client -> server envelope.
// Exactly one payload field is non-nil, matching Type.
type ClientPacket struct {
	Type        string
	Join        *JoinRoom
	Draw        *StrokeSegment
	AddShape    *AddShape
	MoveShape   *MoveShape
	SetTimer    *SetTimer
	StopGame    *StopGame
	ClearCanvas *ClearCanvas
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PeekType extracts only the envelope tag. The player read pump uses
// it to route high-frequency draw frames without a full decode.
func PeekType(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Type
}

func decodeData(data json.RawMessage, into any) error {
	if len(data) == 0 {
		return ErrBadPayload
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func DecodeClientPacket(raw []byte) (*ClientPacket, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	pkt := &ClientPacket{Type: env.Type}
	switch env.Type {
	case TypeJoinRoom:
		j := &JoinRoom{}
		if err := decodeData(env.Data, j); err != nil {
			return nil, err
		}
		if j.RoomID == "" {
			return nil, fmt.Errorf("%w: empty roomId", ErrBadPayload)
		}
		pkt.Join = j
	case TypeDraw:
		s := &StrokeSegment{}
		if err := decodeData(env.Data, s); err != nil {
			return nil, err
		}
		pkt.Draw = s
	case TypeAddShape:
		a := &AddShape{}
		if err := decodeData(env.Data, a); err != nil {
			return nil, err
		}
		if a.Shape.Kind != ShapeCircle && a.Shape.Kind != ShapeSquare {
			return nil, fmt.Errorf("%w: unknown shape kind %q", ErrBadPayload, a.Shape.Kind)
		}
		pkt.AddShape = a
	case TypeMoveShape:
		m := &MoveShape{}
		if err := decodeData(env.Data, m); err != nil {
			return nil, err
		}
		pkt.MoveShape = m
	case TypeSetTimer:
		st := &SetTimer{}
		if err := decodeData(env.Data, st); err != nil {
			return nil, err
		}
		pkt.SetTimer = st
	case TypeStopGame:
		sg := &StopGame{}
		if err := decodeData(env.Data, sg); err != nil {
			return nil, err
		}
		pkt.StopGame = sg
	case TypeClearCanvas:
		cc := &ClearCanvas{}
		if err := decodeData(env.Data, cc); err != nil {
			return nil, err
		}
		pkt.ClearCanvas = cc
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	return pkt, nil
}

// EncodeClientPacket is the client-core counterpart of
// DecodeClientPacket.
func EncodeClientPacket(pkt *ClientPacket) ([]byte, error) {
	var payload any
	switch pkt.Type {
	case TypeJoinRoom:
		payload = pkt.Join
	case TypeDraw:
		payload = pkt.Draw
	case TypeAddShape:
		payload = pkt.AddShape
	case TypeMoveShape:
		payload = pkt.MoveShape
	case TypeSetTimer:
		payload = pkt.SetTimer
	case TypeStopGame:
		payload = pkt.StopGame
	case TypeClearCanvas:
		payload = pkt.ClearCanvas
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, pkt.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: pkt.Type, Data: data})
}
