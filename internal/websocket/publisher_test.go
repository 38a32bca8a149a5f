package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := newMockClient("client-1", userID)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(userID, TransactionCreated(map[string]interface{}{"id": "tx-42"}))

	assert.Eventually(t, messageCount(client), time.Second, 5*time.Millisecond)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(uuid.New(), BudgetDeleted(map[string]interface{}{"category": "Food"}))
	})
}

func TestNoOpPublisher_Implements_EventPublisher(t *testing.T) {
	var _ EventPublisher = (*NoOpPublisher)(nil)
}
