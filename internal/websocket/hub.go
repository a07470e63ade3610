package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"shiftdesk-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the Redis pub/sub channel instances use to relay
// feed messages to each other.
const ClusterChannel = "cluster_events"

// Hub tracks feed connections per organization. Messages published on one
// instance are relayed to the others through Redis.
type Hub struct {
	// organization id -> connected clients (several admins, several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb      *redis.Client
	instance string
	logger   logger.ILogger
}

type clusterMessage struct {
	Origin         string          `json:"origin"`
	OrganizationID string          `json:"organization_id"`
	Message        json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.OrganizationID] = append(h.clients[client.OrganizationID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{
				"organization_id": client.OrganizationID,
				"user_id":         client.UserID,
			})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// leave asks Run to drop the client; it is a no-op once Run has stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// join hands the client to Run. It reports false once Run has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.OrganizationID]
	for i, c := range clients {
		if c == client {
			h.clients[client.OrganizationID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.OrganizationID]) == 0 {
		delete(h.clients, client.OrganizationID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for orgID, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, orgID)
	}
}

// ClientCount returns the number of local connections for an organization.
func (h *Hub) ClientCount(orgID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[orgID])
}

// SendToOrganization delivers payload to every local client of the
// organization and relays it to the other instances.
func (h *Hub) SendToOrganization(ctx context.Context, orgID uuid.UUID, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.deliver(orgID, data)

	if h.rdb == nil {
		return nil
	}
	relay, err := json.Marshal(clusterMessage{
		Origin:         h.instance,
		OrganizationID: orgID.String(),
		Message:        data,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, ClusterChannel, relay).Err()
}

// deliver never blocks: a client whose buffer is full is dropped.
func (h *Hub) deliver(orgID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[orgID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("HUB", "Client send buffer full, dropping connection", map[string]interface{}{
				"organization_id": orgID,
				"user_id":         client.UserID,
			})
			go h.leave(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("HUB", "Malformed cluster message", map[string]interface{}{"error": err})
				continue
			}
			if payload.Origin == h.instance {
				continue
			}
			orgID, err := uuid.Parse(payload.OrganizationID)
			if err != nil {
				continue
			}
			h.deliver(orgID, payload.Message)
		}
	}
}
