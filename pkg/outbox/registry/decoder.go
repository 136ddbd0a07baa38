package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/swiftship/swiftship-backend/pkg/enums"
)

type decoderFunc func(payload json.RawMessage) (interface{}, error)

type registryKey struct {
	eventType enums.OutboxEventType
	version   int
}

// DecoderRegistry maps (event type, payload version) pairs to decoders so a
// consumer can keep reading old versions while new ones roll out.
type DecoderRegistry struct {
	mtx      sync.RWMutex
	registry map[registryKey]decoderFunc
}

func NewDecoderRegistry() *DecoderRegistry {
	return &DecoderRegistry{registry: make(map[registryKey]decoderFunc)}
}

// Register installs a decoder, replacing any previous registration for the
// same pair.
func (r *DecoderRegistry) Register(eventType enums.OutboxEventType, version int, decoder decoderFunc) {
	key := registryKey{eventType: eventType, version: version}
	r.mtx.Lock()
	r.registry[key] = decoder
	r.mtx.Unlock()
}

// Decode dispatches payload to the registered decoder, erroring when the
// pair is unknown.
func (r *DecoderRegistry) Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (interface{}, error) {
	key := registryKey{eventType: eventType, version: version}
	r.mtx.RLock()
	decoder, ok := r.registry[key]
	r.mtx.RUnlock()
	if !ok {
		return nil, fmt.Errorf("decoder not registered for %s@v%d", eventType, version)
	}
	return decoder(payload)
}
