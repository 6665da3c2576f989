package repository

import (
	"context"
	"time"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
)

// EngineerRepository defines persistence operations for engineers.
type EngineerRepository interface {
	// Create inserts a new engineer, atomically allocating the next series
	// identifier for its department.
	Create(ctx context.Context, eng *domain.Engineer) error
	// GetByID retrieves an engineer by database id.
	GetByID(ctx context.Context, id uint) (*domain.Engineer, error)
	// GetByCredentials retrieves an engineer matching email and password.
	GetByCredentials(ctx context.Context, email, password string) (*domain.Engineer, error)
	// ListByGroup retrieves all engineers in a department, id ascending.
	ListByGroup(ctx context.Context, group domain.GroupType) ([]domain.Engineer, error)
	// UpdateStatus sets an engineer's presence status.
	UpdateStatus(ctx context.Context, id uint, status domain.Status) error
	// GroupStats returns total/online counts for every department.
	GroupStats(ctx context.Context) (domain.Stats, error)
}

// MessageRepository defines persistence operations for chat messages.
type MessageRepository interface {
	// Create inserts a new chat message; the store assigns id and created_at.
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// GetByID retrieves a message by id.
	GetByID(ctx context.Context, id uint) (*domain.ChatMessage, error)
	// ListByEngineer retrieves an engineer's conversation, created_at ascending.
	ListByEngineer(ctx context.Context, engineerDBID uint) ([]domain.ChatMessage, error)
	// Edit replaces a message's text and sets the edited flag. Fails with
	// ErrEditWindowExpired once the message is older than the mutation window.
	Edit(ctx context.Context, id uint, newText string) error
	// Delete removes a message, subject to the same window.
	Delete(ctx context.Context, id uint) error
	// DeleteOlderThan removes all messages created before now minus maxAge
	// and returns how many rows were removed.
	DeleteOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}
