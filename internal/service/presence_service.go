package service

import (
	"context"
	"sync"

	"github.com/ABIRENIS/Jero-CRM/internal/audit"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// presenceService is the process-scoped session registry. An engineer may
// hold sessions on several devices at once; the persisted status flips only
// on the zero/non-zero transitions of the per-engineer session count.
type presenceService struct {
	mu       sync.Mutex
	byConn   map[string]uint // connection id -> engineer id
	sessions map[uint]int    // engineer id -> open session count

	engineers   repository.EngineerRepository
	broadcaster Broadcaster
}

// NewPresenceService creates the presence tracker.
func NewPresenceService(engineers repository.EngineerRepository, b Broadcaster) PresenceService {
	return &presenceService{
		byConn:      make(map[string]uint),
		sessions:    make(map[uint]int),
		engineers:   engineers,
		broadcaster: b,
	}
}

// HandleRegister binds a connection to an engineer session.
func (s *presenceService) HandleRegister(ctx context.Context, connID string, engineerID uint) error {
	s.mu.Lock()
	var prevID uint
	var prevLast bool
	if prev, ok := s.byConn[connID]; ok {
		if prev == engineerID {
			s.mu.Unlock()
			return nil
		}
		// Connection re-registered as a different engineer; release the
		// old session first.
		prevID = prev
		prevLast = s.releaseLocked(ctx, connID, prev)
	}
	s.byConn[connID] = engineerID
	s.sessions[engineerID]++
	first := s.sessions[engineerID] == 1
	s.mu.Unlock()

	log.Ctx(ctx).Debug().
		Str(log.FieldConnID, connID).
		Uint(log.FieldEngineerID, engineerID).
		Bool("first_session", first).
		Msg("engineer session registered")

	if prevLast {
		s.transition(ctx, prevID, domain.StatusOffline)
	}
	if first {
		s.transition(ctx, engineerID, domain.StatusOnline)
	}
	return nil
}

// HandleDisconnect releases whatever session the connection held.
func (s *presenceService) HandleDisconnect(ctx context.Context, connID string) {
	s.mu.Lock()
	engineerID, ok := s.byConn[connID]
	var last bool
	if ok {
		last = s.releaseLocked(ctx, connID, engineerID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	log.Ctx(ctx).Debug().
		Str(log.FieldConnID, connID).
		Uint(log.FieldEngineerID, engineerID).
		Bool("last_session", last).
		Msg("engineer session released")

	if last {
		s.transition(ctx, engineerID, domain.StatusOffline)
	}
}

// OpenSessions reports the engineer's current session count.
func (s *presenceService) OpenSessions(engineerID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[engineerID]
}

// releaseLocked removes one session and reports whether it was the last.
// Caller holds s.mu.
func (s *presenceService) releaseLocked(_ context.Context, connID string, engineerID uint) bool {
	delete(s.byConn, connID)
	s.sessions[engineerID]--
	if s.sessions[engineerID] <= 0 {
		delete(s.sessions, engineerID)
		return true
	}
	return false
}

// transition persists the status flip and broadcasts it with fresh stats.
// Persistence failures are logged; presence stays best effort.
func (s *presenceService) transition(ctx context.Context, engineerID uint, status domain.Status) {
	if err := s.engineers.UpdateStatus(ctx, engineerID, status); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Uint(log.FieldEngineerID, engineerID).
			Str("target_status", string(status)).
			Msg("failed to persist presence transition")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionPresenceChange, engineerID, string(status), "presence changed")
	broadcastStats(ctx, s.engineers, s.broadcaster)
	s.broadcaster.BroadcastAll(&domain.StatusChangedEvent{
		Type:   domain.EventStatusChanged,
		ID:     engineerID,
		Status: status,
	})
}
