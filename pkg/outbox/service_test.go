package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	index := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_outbox_events_event_aggregate
  ON outbox_events (event_type, aggregate_type, aggregate_id)
  WHERE event_type <> 'order_state_changed';`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(index).Error)
	// The shared-cache DB persists rows across tests in this package.
	require.NoError(t, db.Exec("DELETE FROM outbox_events").Error)
	return db
}

func countEvents(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	return count
}

func TestEmitWritesEnvelopeRow(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	orderID := uuid.New()
	actorID := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(ctx, tx, DomainEvent{
			EventType:     enums.EventOrderAssigned,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &ActorRef{UserID: actorID, Role: "admin"},
			Data:          map[string]string{"courier": "c-1"},
			Version:       1,
		})
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, db.Where("aggregate_id = ?", orderID).First(&row).Error)
	assert.Equal(t, enums.EventOrderAssigned, row.EventType)
	assert.Nil(t, row.PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	assert.False(t, envelope.OccurredAt.IsZero())
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, actorID, envelope.Actor.UserID)
	assert.JSONEq(t, `{"courier":"c-1"}`, string(envelope.Data))
}

func TestEmitRequiresTransaction(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	event := DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Version:       1,
	}
	assert.Error(t, svc.Emit(ctx, nil, event))
	assert.Error(t, svc.EmitIfNotExists(ctx, nil, event))
	assert.EqualValues(t, 0, countEvents(t, db))
}

func TestEmitIfNotExistsSkipsQueuedDuplicate(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	orderID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventOrderAssigned,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Data:          map[string]string{"courier": "c-1"},
		Version:       1,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.EmitIfNotExists(ctx, tx, event)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countEvents(t, db))

	// A replay of the same one-shot event must not queue a second row.
	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.EmitIfNotExists(ctx, tx, event)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countEvents(t, db))

	// A different aggregate is a different event.
	other := event
	other.AggregateID = uuid.New()
	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.EmitIfNotExists(ctx, tx, other)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, countEvents(t, db))
}
