// ABOUTME: Bounded newest-first notification queue
// ABOUTME: Capacity 50; the 51st insert evicts the oldest entry at the tail

package notify

import (
	"encoding/json"
	"time"
)

// MaxNotifications bounds the queue. Matches what a notifications panel
// can usefully show; older entries age out silently.
const MaxNotifications = 50

// Notification is one received domain event, ready for display.
type Notification struct {
	// ID identifies the notification for removal by the consumer.
	ID string

	// Kind is the event type, e.g. "new_flight".
	Kind string

	// Message is the human-facing text built from the payload.
	Message string

	// Payload is the raw event body.
	Payload json.RawMessage

	// ReceivedAt is the client-side arrival time.
	ReceivedAt time.Time
}

// prepend inserts a notification at the front of the queue, evicting the
// oldest entry when the capacity is exceeded. Returns the new queue.
func prepend(queue []Notification, n Notification) []Notification {
	queue = append([]Notification{n}, queue...)
	if len(queue) > MaxNotifications {
		queue = queue[:MaxNotifications]
	}
	return queue
}
