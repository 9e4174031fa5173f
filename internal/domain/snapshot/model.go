// Package snapshot models persisted event snapshots: a full assembled event
// payload frozen to local storage so it survives upstream outages.
package snapshot

import (
	"fmt"
	"time"
)

// Snapshot is one saved event payload. Data holds the encoded event bundle
// exactly as it was assembled at save time.
type Snapshot struct {
	EventKey string
	Name     string
	Year     int
	SavedAt  time.Time
	Data     []byte
}

// Meta is the listing view of a snapshot, without the payload.
type Meta struct {
	EventKey string    `json:"eventKey"`
	Name     string    `json:"name"`
	Year     int       `json:"year"`
	SavedAt  time.Time `json:"savedAt"`
}

func (s Snapshot) Validate() error {
	if s.EventKey == "" {
		return fmt.Errorf("snapshot event key is required")
	}
	if len(s.Data) == 0 {
		return fmt.Errorf("snapshot data is required")
	}

	return nil
}
