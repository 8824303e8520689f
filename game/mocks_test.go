package game

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) IsAdmin() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPlayer) SetRoom(r Room) {
	m.Called(r)
}

func (m *MockPlayer) CancelAndRelease() {
	m.Called()
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) Send(ctx context.Context, e ClientPacketEnvelope) {
	m.Called(ctx, e)
}

func (m *MockRoom) RemoveMe(ctx context.Context, p Player) {
	m.Called(ctx, p)
}

func (m *MockRoom) RequestJoin(jreq roomJoinRequest) {
	m.Called(jreq)
}

func (m *MockRoom) Tick(now time.Time) {
	m.Called(now)
}

func (m *MockRoom) PingPlayers() {
	m.Called()
}

func (m *MockRoom) GameLoop() {
	m.Called()
}

func (m *MockRoom) CloseIfEmpty() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockRoom) SetParentLobby(l Lobby) {
	m.Called(l)
}

// --- Lobby ---

type MockLobby struct {
	mock.Mock
}

func (m *MockLobby) ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest) {
	m.Called(ctx, jreq)
}

func (m *MockLobby) RemoveRoom(roomID string) {
	m.Called(roomID)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Reserve(id string) {
	m.Called(id)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
