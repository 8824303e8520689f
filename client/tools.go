package client

import "scribble0/wire"

// Tool selection is purely local UI state; it is never synchronized.
type Tool int

const (
	ToolPencil Tool = iota
	ToolCircle
	ToolSquare
	ToolMove
)

func (c *Client) SetTool(tool Tool) {
	c.tool = tool
	if tool != ToolMove {
		c.selectedID = 0
		c.dragging = false
	}
}

func (c *Client) SetBrushSize(size float64) {
	if size >= 1 {
		c.brushSize = size
	}
}

func (c *Client) SetColor(color string) {
	c.color = color
}

// canDraw mirrors the authority's gating: drawers only, round
// running. The server enforces this too; checking it here just keeps
// dead input from hitting the wire.
func (c *Client) canDraw() bool {
	return !c.isAdmin && c.running
}

func (c *Client) PointerDown(x, y float64) {
	if !c.canDraw() {
		return
	}

	switch c.tool {
	case ToolPencil:
		c.drawing = true
		c.lastX, c.lastY = x, y
		c.renderer.RenderSegment(x, y, x, y, c.color, c.brushSize)

	case ToolCircle, ToolSquare:
		kind := wire.ShapeCircle
		if c.tool == ToolSquare {
			kind = wire.ShapeSquare
		}
		shape := wire.Shape{
			ID:     c.mintID(),
			Kind:   kind,
			X:      x,
			Y:      y,
			Width:  wire.DefaultShapeWidth,
			Height: wire.DefaultShapeHeight,
		}
		// Optimistic: the authority does not echo shapeAdded back to
		// the creator.
		c.shapes = append(c.shapes, shape)
		c.renderer.RenderShapes(c.shapes, c.selectedID)
		c.sendPacket(&wire.ClientPacket{
			Type:     wire.TypeAddShape,
			AddShape: &wire.AddShape{RoomID: c.roomID, Shape: shape},
		})

	case ToolMove:
		c.selectedID = c.hitTest(x, y)
		c.dragging = c.selectedID != 0
		if c.dragging {
			shape := c.shapeByID(c.selectedID)
			c.dragOffsetX = x - shape.X
			c.dragOffsetY = y - shape.Y
		}
		c.renderer.RenderShapes(c.shapes, c.selectedID)
	}
}

func (c *Client) PointerMove(x, y float64) {
	if !c.canDraw() {
		return
	}

	switch c.tool {
	case ToolPencil:
		if !c.drawing {
			return
		}
		c.renderer.RenderSegment(c.lastX, c.lastY, x, y, c.color, c.brushSize)
		c.sendPacket(&wire.ClientPacket{
			Type: wire.TypeDraw,
			Draw: &wire.StrokeSegment{
				X0: c.lastX, Y0: c.lastY, X1: x, Y1: y,
				Color: c.color, Size: c.brushSize,
			},
		})
		c.lastX, c.lastY = x, y

	case ToolMove:
		if !c.dragging {
			return
		}
		shape := c.shapeByID(c.selectedID)
		if shape == nil {
			c.dragging = false
			return
		}
		shape.X = x - c.dragOffsetX
		shape.Y = y - c.dragOffsetY
		c.renderer.RenderShapes(c.shapes, c.selectedID)
		// Emitted on every sample, not debounced.
		c.sendPacket(&wire.ClientPacket{
			Type:      wire.TypeMoveShape,
			MoveShape: &wire.MoveShape{RoomID: c.roomID, ShapeID: shape.ID, X: shape.X, Y: shape.Y},
		})
	}
}

func (c *Client) PointerUp() {
	c.drawing = false
	c.dragging = false
}

// hitTest picks the topmost shape whose bounding box contains the
// point; insertion order is z-order, so scan back to front.
func (c *Client) hitTest(x, y float64) int64 {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if x >= s.X && x <= s.X+s.Width && y >= s.Y && y <= s.Y+s.Height {
			return s.ID
		}
	}
	return 0
}

func (c *Client) shapeByID(id int64) *wire.Shape {
	for i := range c.shapes {
		if c.shapes[i].ID == id {
			return &c.shapes[i]
		}
	}
	return nil
}

// StartTimer, StopGame and ClearCanvas are the admin controls.

func (c *Client) StartTimer(duration int) {
	if !c.isAdmin || c.running || c.playerCount < 1 {
		return
	}
	c.sendPacket(&wire.ClientPacket{
		Type:     wire.TypeSetTimer,
		SetTimer: &wire.SetTimer{RoomID: c.roomID, Duration: duration},
	})
}

func (c *Client) StopGame() {
	if !c.isAdmin || !c.running {
		return
	}
	c.sendPacket(&wire.ClientPacket{
		Type:     wire.TypeStopGame,
		StopGame: &wire.StopGame{RoomID: c.roomID},
	})
}

func (c *Client) ClearCanvas() {
	if !c.isAdmin {
		return
	}
	// Cleared locally right away; the broadcast confirms for everyone.
	c.renderer.ClearRaster()
	c.renderer.RenderShapes(c.shapes, c.selectedID)
	c.sendPacket(&wire.ClientPacket{
		Type:        wire.TypeClearCanvas,
		ClearCanvas: &wire.ClearCanvas{RoomID: c.roomID},
	})
}
