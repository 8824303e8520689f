package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribble0/domain"
	"scribble0/wire"
)

var errSocketGone = errors.New("socket gone")

func TestPlayer_ReadPumpForwardsControlPackets(t *testing.T) {
	t.Parallel()
	data, err := wire.EncodeClientPacket(&wire.ClientPacket{
		Type:     wire.TypeSetTimer,
		SetTimer: &wire.SetTimer{RoomID: "rid", Duration: 30},
	})
	require.NoError(t, err)

	socket := &MockWebsocketConnection{}
	socket.On("Read").Return(data, nil).Once()
	socket.On("Read").Return([]byte(nil), errSocketGone).Once()
	socket.On("Close", "").Return()

	p := NewPlayer("p1", false, socket)

	room := &MockRoom{}
	room.On("Send", mock.Anything, mock.MatchedBy(func(e ClientPacketEnvelope) bool {
		return e.rawBinary == nil && e.packet != nil &&
			e.packet.Type == wire.TypeSetTimer && e.packet.SetTimer.Duration == 30 &&
			e.from == Player(p)
	})).Return().Once()
	room.On("RemoveMe", mock.Anything, Player(p)).Return().Once()
	p.SetRoom(room)

	p.ReadPump()

	socket.AssertExpectations(t)
	room.AssertExpectations(t)
}

func TestPlayer_ReadPumpRelaysDrawFramesRaw(t *testing.T) {
	t.Parallel()
	data, err := wire.EncodeClientPacket(&wire.ClientPacket{
		Type: wire.TypeDraw,
		Draw: &wire.StrokeSegment{X0: 1, Y0: 2, X1: 3, Y1: 4, Color: "red", Size: 5},
	})
	require.NoError(t, err)

	socket := &MockWebsocketConnection{}
	socket.On("Read").Return(data, nil).Once()
	socket.On("Read").Return([]byte(nil), errSocketGone).Once()
	socket.On("Close", "").Return()

	p := NewPlayer("p1", false, socket)

	room := &MockRoom{}
	room.On("Send", mock.Anything, mock.MatchedBy(func(e ClientPacketEnvelope) bool {
		return e.packet == nil && string(e.rawBinary) == string(data)
	})).Return().Once()
	room.On("RemoveMe", mock.Anything, Player(p)).Return().Once()
	p.SetRoom(room)

	p.ReadPump()

	socket.AssertExpectations(t)
	room.AssertExpectations(t)
}

func TestPlayer_ReadPumpDropsGarbage(t *testing.T) {
	t.Parallel()
	socket := &MockWebsocketConnection{}
	socket.On("Read").Return([]byte("not json"), nil).Once()
	socket.On("Read").Return([]byte(`{"type":"noSuchThing","data":{}}`), nil).Once()
	socket.On("Read").Return([]byte(`{"type":"draw","data":"nope"}`), nil).Once()
	socket.On("Read").Return([]byte(nil), errSocketGone).Once()
	socket.On("Close", "").Return()

	p := NewPlayer("p1", false, socket)

	room := &MockRoom{}
	room.On("RemoveMe", mock.Anything, Player(p)).Return().Once()
	p.SetRoom(room)

	p.ReadPump()

	room.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	socket.AssertExpectations(t)
	room.AssertExpectations(t)
}

func TestPlayer_WritePumpDrainsInbox(t *testing.T) {
	t.Parallel()
	written := make(chan []byte, 1)

	socket := &MockWebsocketConnection{}
	socket.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written <- args.Get(0).([]byte)
	}).Return(nil).Once()
	socket.On("Close", "").Return()

	p := NewPlayer("p1", false, socket)
	require.NoError(t, p.Send([]byte("hello")))

	go p.WritePump()

	select {
	case data := <-written:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(time.Second):
		t.Fatal("write pump never wrote")
	}
	p.CancelAndRelease()
}

func TestPlayer_WritePumpExitsOnWriteError(t *testing.T) {
	t.Parallel()
	socket := &MockWebsocketConnection{}
	socket.On("Write", mock.Anything).Return(errSocketGone).Once()
	closed := make(chan struct{})
	socket.On("Close", "").Run(func(mock.Arguments) { close(closed) }).Return()

	p := NewPlayer("p1", false, socket)
	require.NoError(t, p.Send([]byte("hello")))

	go p.WritePump()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit on write error")
	}
	socket.AssertExpectations(t)
}

func TestPlayer_WritePumpPings(t *testing.T) {
	t.Parallel()
	pinged := make(chan struct{}, 1)

	socket := &MockWebsocketConnection{}
	socket.On("Ping").Run(func(mock.Arguments) {
		pinged <- struct{}{}
	}).Return(nil).Once()
	socket.On("Close", "").Return()

	p := NewPlayer("p1", false, socket)
	require.NoError(t, p.Ping())

	go p.WritePump()

	select {
	case <-pinged:
	case <-time.After(time.Second):
		t.Fatal("write pump never pinged")
	}
	p.CancelAndRelease()
}

func TestPlayer_SendReportsFullBuffer(t *testing.T) {
	t.Parallel()
	p := NewPlayer("p1", false, &MockWebsocketConnection{})

	for i := 0; i < cap(p.inbox); i++ {
		require.NoError(t, p.Send([]byte("x")))
	}
	assert.ErrorIs(t, p.Send([]byte("x")), domain.ErrSendBufferFull)
}

func TestPlayer_Identity(t *testing.T) {
	t.Parallel()
	p := NewPlayer("p1", true, &MockWebsocketConnection{})
	assert.Equal(t, "p1", p.ID())
	assert.True(t, p.IsAdmin())
}
