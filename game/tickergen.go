package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type ticker struct {
	clock clockwork.Clock
}

func (t *ticker) Create(duration time.Duration) <-chan time.Time {
	return t.clock.NewTicker(duration).Chan()
}

func NewTickerGen() ticker {
	return ticker{clock: clockwork.NewRealClock()}
}
