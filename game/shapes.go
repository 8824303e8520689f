package game

import "scribble0/wire"

// shapeStore holds a room's persistent shapes in insertion order,
// which doubles as z-order: later shapes render on top. Identifiers
// are never reused for the lifetime of the room, even when clients
// propose their own timestamp ids.
type shapeStore struct {
	ordered []wire.Shape
	used    map[int64]struct{}
	nextID  int64
}

func newShapeStore() *shapeStore {
	return &shapeStore{
		used:   make(map[int64]struct{}),
		nextID: 1,
	}
}

// add inserts a shape at the tail. The proposed id is honored when it
// is positive and fresh; otherwise the store allocates the next free
// one, so concurrent adds always end up with distinct identifiers.
func (s *shapeStore) add(proposedID int64, kind string, x, y float64) wire.Shape {
	id := proposedID
	if _, taken := s.used[id]; id <= 0 || taken {
		id = s.nextID
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.used[id] = struct{}{}

	shape := wire.Shape{
		ID:     id,
		Kind:   kind,
		X:      x,
		Y:      y,
		Width:  wire.DefaultShapeWidth,
		Height: wire.DefaultShapeHeight,
	}
	s.ordered = append(s.ordered, shape)
	return shape
}

// move updates a shape's position in place. Unknown ids report false;
// the caller treats that as a benign no-op.
func (s *shapeStore) move(id int64, x, y float64) bool {
	for i := range s.ordered {
		if s.ordered[i].ID == id {
			s.ordered[i].X = x
			s.ordered[i].Y = y
			return true
		}
	}
	return false
}

func (s *shapeStore) len() int {
	return len(s.ordered)
}

// snapshot returns a copy safe to hand to the join path.
func (s *shapeStore) snapshot() []wire.Shape {
	out := make([]wire.Shape, len(s.ordered))
	copy(out, s.ordered)
	return out
}
