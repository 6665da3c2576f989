package service

import (
	"context"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
)

// Broadcaster is the slice of the hub the services need for fan-out.
type Broadcaster interface {
	// BroadcastToRoom sends an event to one engineer's conversation room.
	BroadcastToRoom(engineerID uint, message interface{}) error
	// BroadcastToConversation sends an event to the room plus all
	// dashboard observers.
	BroadcastToConversation(engineerID uint, message interface{}) error
	// BroadcastAll sends an event to every connected client.
	BroadcastAll(message interface{}) error
}

// EngineerService covers engineer CRUD, credentials, and stats.
type EngineerService interface {
	Register(ctx context.Context, req *domain.AddEngineerRequest) (*domain.Engineer, error)
	Login(ctx context.Context, email, password string) (*domain.Engineer, error)
	Logout(ctx context.Context, engineerID uint) error
	ListByGroup(ctx context.Context, rawGroup string) ([]domain.Engineer, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// ChatService is the message relay: persist first, broadcast second.
type ChatService interface {
	SendMessage(ctx context.Context, ev *domain.SendMessageEvent) (*domain.ChatMessage, error)
	EditMessage(ctx context.Context, req *domain.EditMessageRequest) error
	DeleteMessage(ctx context.Context, messageID uint) error
	History(ctx context.Context, engineerDBID uint) ([]domain.ChatMessage, error)
}

// PresenceService tracks which connections carry which engineer sessions
// and flips the persisted status on session-count transitions.
type PresenceService interface {
	// HandleRegister binds a connection to an engineer session. The first
	// open session marks the engineer Online and broadcasts the change.
	HandleRegister(ctx context.Context, connID string, engineerID uint) error
	// HandleDisconnect releases a connection's session, if any. Closing the
	// last session marks the engineer Offline and broadcasts the change.
	HandleDisconnect(ctx context.Context, connID string)
	// OpenSessions reports how many sessions an engineer currently has.
	OpenSessions(engineerID uint) int
}
