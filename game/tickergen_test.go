package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestTickerGen(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	gen := ticker{clock: clock}

	ch := gen.Create(time.Second)
	clock.Advance(time.Second)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("ticker channel never fired")
	}

	select {
	case <-ch:
		assert.Fail(t, "ticker fired without the clock advancing")
	default:
	}
}
