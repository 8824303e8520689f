// Package client holds the canvas-facing state engine: it seeds local
// state from the join snapshot, applies server events against a
// Renderer, and turns pointer input into optimistic local updates plus
// outgoing packets. Rendering itself (rasterization, widgets) lives
// behind the Renderer interface and is not this package's concern.
package client

import (
	"fmt"
	"time"

	"scribble0/wire"
)

// Conn is the outbound half of the session transport. Inbound frames
// are fed by the transport owner into HandleMessage.
type Conn interface {
	Write(data []byte) error
}

// Renderer is the consumed drawing capability. RenderShapes is a full
// re-rasterization of the shape layer; the pencil raster accumulates
// separately via RenderSegment and is wiped with ClearRaster.
type Renderer interface {
	RenderSegment(x0, y0, x1, y1 float64, color string, size float64)
	RenderShapes(shapes []wire.Shape, selectedID int64)
	ClearRaster()
}

type Client struct {
	roomID  string
	isAdmin bool

	conn     Conn
	renderer Renderer

	shapes      []wire.Shape
	running     bool
	remaining   int
	playerCount int
	maxPlayers  int

	tool      Tool
	brushSize float64
	color     string

	drawing      bool
	lastX, lastY float64

	selectedID  int64
	dragging    bool
	dragOffsetX float64
	dragOffsetY float64

	lastError string

	// shape ids are minted client-side from the wall clock, as the
	// wire contract expects; swapped out in tests.
	mintID func() int64
}

func New(roomID string, isAdmin bool, conn Conn, renderer Renderer) *Client {
	return &Client{
		roomID:    roomID,
		isAdmin:   isAdmin,
		conn:      conn,
		renderer:  renderer,
		tool:      ToolPencil,
		brushSize: 2,
		color:     "black",
		mintID:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Join sends the joinRoom handshake frame. Admin password validation
// happens before this is ever called.
func (c *Client) Join() error {
	return c.sendPacket(&wire.ClientPacket{
		Type: wire.TypeJoinRoom,
		Join: &wire.JoinRoom{RoomID: c.roomID, IsAdmin: c.isAdmin},
	})
}

// HandleMessage applies one server frame to local state and the
// renderer. Remote events arrive in authority order, so they are
// rendered immediately, without batching.
func (c *Client) HandleMessage(raw []byte) error {
	packet, err := wire.DecodeServerPacket(raw)
	if err != nil {
		return fmt.Errorf("bad server frame: %w", err)
	}

	switch packet.Type {
	case wire.TypeJoined:
		j := packet.Joined
		c.playerCount = j.PlayerCount
		c.maxPlayers = j.MaxPlayers
		c.running = j.GameStarted
		c.remaining = j.RemainingTime
		c.shapes = append([]wire.Shape(nil), j.Shapes...)
		c.selectedID = 0
		// A rejoin may carry stale raster from the previous session.
		c.renderer.ClearRaster()
		c.renderer.RenderShapes(c.shapes, c.selectedID)

	case wire.TypePlayerCountUpdate:
		c.playerCount = packet.PlayerCount.PlayerCount
		c.maxPlayers = packet.PlayerCount.MaxPlayers

	case wire.TypeDraw:
		s := packet.Draw
		c.renderer.RenderSegment(s.X0, s.Y0, s.X1, s.Y1, s.Color, s.Size)

	case wire.TypeShapeAdded:
		c.shapes = append(c.shapes, packet.ShapeAdded.Shape)
		c.renderer.RenderShapes(c.shapes, c.selectedID)

	case wire.TypeShapeMoved:
		m := packet.ShapeMoved
		for i := range c.shapes {
			if c.shapes[i].ID == m.ShapeID {
				c.shapes[i].X = m.X
				c.shapes[i].Y = m.Y
				break
			}
		}
		c.renderer.RenderShapes(c.shapes, c.selectedID)

	case wire.TypeTimerStart:
		c.running = true
		c.remaining = packet.TimerStart.Duration

	case wire.TypeTimerEnd:
		c.running = false
		c.remaining = 0
		c.drawing = false
		c.dragging = false

	case wire.TypeGameStopped:
		c.running = false
		c.remaining = 0
		c.drawing = false
		c.dragging = false
		// Only the pencil raster is wiped; shapes are re-rendered
		// from the retained collection.
		c.renderer.ClearRaster()
		c.renderer.RenderShapes(c.shapes, c.selectedID)

	case wire.TypeCanvasCleared:
		c.renderer.ClearRaster()
		c.renderer.RenderShapes(c.shapes, c.selectedID)

	case wire.TypeAdminLeft:
		c.running = false
		c.remaining = 0
		c.lastError = "admin has left the room"

	case wire.TypeError:
		c.lastError = packet.Error.Message
	}
	return nil
}

// TickSecond drives the local countdown display between server
// events. The authority's timerEnd is what actually ends the round.
func (c *Client) TickSecond() {
	if c.running && c.remaining > 0 {
		c.remaining--
	}
}

func (c *Client) sendPacket(pkt *wire.ClientPacket) error {
	data, err := wire.EncodeClientPacket(pkt)
	if err != nil {
		return err
	}
	return c.conn.Write(data)
}

func (c *Client) Running() bool      { return c.running }
func (c *Client) Remaining() int     { return c.remaining }
func (c *Client) PlayerCount() int   { return c.playerCount }
func (c *Client) MaxPlayers() int    { return c.maxPlayers }
func (c *Client) LastError() string  { return c.lastError }
func (c *Client) SelectedID() int64  { return c.selectedID }
func (c *Client) Shapes() []wire.Shape {
	out := make([]wire.Shape, len(c.shapes))
	copy(out, c.shapes)
	return out
}
