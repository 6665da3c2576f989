package hub

import (
	"encoding/json"
	"sync"

	"github.com/ABIRENIS/Jero-CRM/internal/config"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// Hub routes live events between connections. A connection can join the
// room of one engineer's conversation, and dashboard connections can
// register as observers that see every conversation's traffic. Stats and
// status events go to every connected client.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[uint]map[string]*Client   // engineer id -> clientID -> client
	observers  map[string]*Client            // clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *envelope
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

// envelope is one routed payload. Exactly one routing mode is set.
type envelope struct {
	roomID      uint
	toObservers bool
	toAll       bool
	message     []byte
	exclude     string // client ID to exclude
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[uint]map[string]*Client),
		observers:  make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *envelope, 256),
		config:     cfg,
	}
}

// Run processes registration and broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for roomID, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, roomID)
					}
				}
				delete(h.observers, client.ID)
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) deliver(env *envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[string]*Client)
	switch {
	case env.toAll:
		for id, c := range h.clients {
			targets[id] = c
		}
	default:
		if members, ok := h.rooms[env.roomID]; ok {
			for id, c := range members {
				targets[id] = c
			}
		}
		if env.toObservers {
			for id, c := range h.observers {
				targets[id] = c
			}
		}
	}

	for id, client := range targets {
		if id == env.exclude {
			continue
		}
		select {
		case client.Send <- env.message:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			go h.Unregister(client)
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection and its room/observer memberships.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom subscribes a connection to an engineer's conversation. Joining a
// room the connection is already in is a no-op.
func (h *Hub) JoinRoom(client *Client, engineerID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[engineerID]; !ok {
		h.rooms[engineerID] = make(map[string]*Client)
	}
	h.rooms[engineerID][client.ID] = client
	log.L().Info().Str(log.FieldConnID, client.ID).Uint(log.FieldEngineerID, engineerID).Msg("client joined chat room")
}

// Observe marks a connection as a dashboard observer. Observers receive
// conversation traffic for every engineer.
func (h *Hub) Observe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.observers[client.ID] = client
	log.L().Info().Str(log.FieldConnID, client.ID).Msg("client observing all conversations")
}

// RoomClientCount returns how many connections are in an engineer's room.
func (h *Hub) RoomClientCount(engineerID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[engineerID])
}

// BroadcastToRoom sends an event to the members of one engineer's room.
func (h *Hub) BroadcastToRoom(engineerID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.broadcast <- &envelope{roomID: engineerID, message: data}
	return nil
}

// BroadcastToConversation sends an event to an engineer's room plus all
// dashboard observers.
func (h *Hub) BroadcastToConversation(engineerID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.broadcast <- &envelope{roomID: engineerID, toObservers: true, message: data}
	return nil
}

// BroadcastAll sends an event to every connected client.
func (h *Hub) BroadcastAll(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.broadcast <- &envelope{toAll: true, message: data}
	return nil
}
