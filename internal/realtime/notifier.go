package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
)

const (
	EventRefresh = "refresh"
)

// Event tells a client that Resource changed and its page data is stale.
type Event struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
	Action   string `json:"action,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Publisher fans an event out to the given users.
type Publisher interface {
	Publish(ctx context.Context, ev Event, userIDs ...uuid.UUID)
}

// Notifier delivers events to connected websockets and publishes them on
// Redis so other API instances (and push workers) can relay them.
// Either side may be nil.
type Notifier struct {
	Hub *Hub
	RDB *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb}
}

func (n *Notifier) Publish(ctx context.Context, ev Event, userIDs ...uuid.UUID) {
	if ev.Type == "" {
		ev.Type = EventRefresh
	}

	var payload []byte
	if n.RDB != nil {
		var err error
		payload, err = json.Marshal(ev)
		if err != nil {
			logger.Error("notifier: marshal event", "error", err)
			return
		}
	}

	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true

		if n.Hub != nil {
			n.Hub.SendToUser(id, ev)
		}
		if n.RDB != nil {
			if err := n.RDB.Publish(ctx, NotificationChannel(id.String()), payload).Err(); err != nil {
				// delivery is best effort; the client re-fetches on next load anyway
				logger.Warn("notifier: redis publish failed", "user_id", id, "error", err)
			}
		}
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event, ...uuid.UUID) {}
