package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func messageCount(c *mockClient) func() bool {
	return func() bool { return len(c.GetMessages()) == 1 }
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", alice)
	client2 := newMockClient("client-2", alice)
	client3 := newMockClient("client-3", bob)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(alice))
	assert.Equal(t, 1, hub.ClientCount(bob))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(alice))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	aliceWeb := newMockClient("alice-web", alice)
	alicePhone := newMockClient("alice-phone", alice)
	bobWeb := newMockClient("bob-web", bob)

	hub.Register(aliceWeb)
	hub.Register(alicePhone)
	hub.Register(bobWeb)

	hub.Broadcast(alice, TransactionCreated(map[string]interface{}{"id": "tx-1"}))

	assert.Eventually(t, messageCount(aliceWeb), time.Second, 5*time.Millisecond)
	assert.Eventually(t, messageCount(alicePhone), time.Second, 5*time.Millisecond)

	// Give any stray send a chance to land before checking the other user
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, bobWeb.GetMessages(), "events must never reach another user's connections")
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), users[i%len(users)])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(users[idx%len(users)], BudgetUpdated(map[string]interface{}{"n": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, u := range users {
		assert.Equal(t, 0, hub.ClientCount(u))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", uuid.New()))
	})
}

func TestHub_BroadcastToUserWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), TransactionDeleted(map[string]interface{}{"id": "tx-1"}))
	})
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", uuid.New())
	hub.Register(client)

	hub.Shutdown()

	assert.True(t, client.IsClosed())
	assert.Equal(t, 0, hub.TotalClientCount())
}
