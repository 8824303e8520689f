package game

import (
	"math/rand"
	"strings"
	"sync"
)

const (
	roomIDLength  = 6
	roomIDCharset = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Idgen hands out short base36 room ids. Ids of live rooms are
// reserved by the lobby so a lucky collision can't alias two rooms;
// a minted id that never turns into a room is not tracked, so ids
// generated and abandoned do not accumulate.
type Idgen struct {
	ids    map[string]struct{}
	locker sync.Mutex
}

func NewIdGen() Idgen {
	return Idgen{ids: make(map[string]struct{})}
}

func (g *Idgen) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()

	for {
		var sb strings.Builder
		for i := 0; i < roomIDLength; i++ {
			sb.WriteByte(roomIDCharset[rand.Intn(len(roomIDCharset))])
		}
		id := sb.String()
		if _, taken := g.ids[id]; !taken {
			return id
		}
	}
}

func (g *Idgen) Reserve(id string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	g.ids[id] = struct{}{}
}

func (g *Idgen) Dispose(id string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	delete(g.ids, id)
}
