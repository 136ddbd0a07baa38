package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef records who caused the event. System-generated events carry no
// actor.
type ActorRef struct {
	UserID   uuid.UUID  `json:"userId"`
	TenantID *uuid.UUID `json:"tenantId,omitempty"`
	Role     string     `json:"role,omitempty"`
}

// PayloadEnvelope is the versioned wrapper written to outbox_events and
// published verbatim to Pub/Sub. Consumers dispatch decoders on
// (event type, Version) and treat Data as opaque until then.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
