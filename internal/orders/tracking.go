package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const trackingRandomBytes = 4

// NewTrackingCode produces a tracking code of the form
// SHP-<unix millis>-<8 hex chars>. The timestamp keeps codes roughly
// sortable; the random suffix keeps concurrent bookings from colliding.
func NewTrackingCode() (string, error) {
	buf := make([]byte, trackingRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating tracking suffix: %w", err)
	}
	return fmt.Sprintf("SHP-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf)), nil
}
