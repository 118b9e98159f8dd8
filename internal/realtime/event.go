// AngelaMos | 2026
// event.go

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	EventNewPost    = "new_post"
	EventLikePost   = "like_post"
	EventNewComment = "new_comment"
)

// Event is one frame on the realtime channel.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

func NewEvent(name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Data: data}, nil
}

// Broadcaster emits an event to every connected client. Delivery is best
// effort and never reported back to the caller.
type Broadcaster interface {
	Broadcast(ctx context.Context, name string, payload any)
}
