package service

import (
	"context"
	"errors"

	"github.com/ABIRENIS/Jero-CRM/internal/audit"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

type engineerService struct {
	repo        repository.EngineerRepository
	broadcaster Broadcaster
}

// NewEngineerService creates the engineer service.
func NewEngineerService(repo repository.EngineerRepository, b Broadcaster) EngineerService {
	return &engineerService{
		repo:        repo,
		broadcaster: b,
	}
}

// Register creates a new engineer with the next series identifier for its
// department and pushes fresh stats to all connected clients.
func (s *engineerService) Register(ctx context.Context, req *domain.AddEngineerRequest) (*domain.Engineer, error) {
	group, ok := domain.ParseGroup(req.GroupType)
	if !ok {
		return nil, ErrUnknownGroup
	}

	eng := &domain.Engineer{
		Name:      req.Name,
		GroupType: group,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Status:    domain.StatusOffline,
	}

	if err := s.repo.Create(ctx, eng); err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionRegisterEngineer, eng.ID, eng.EngineerID, "engineer registered")
	broadcastStats(ctx, s.repo, s.broadcaster)
	return eng, nil
}

// Login verifies credentials, marks the engineer Online, and broadcasts the
// status change plus refreshed stats.
func (s *engineerService) Login(ctx context.Context, email, password string) (*domain.Engineer, error) {
	eng, err := s.repo.GetByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrEngineerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, eng.ID, domain.StatusOnline); err != nil {
		return nil, err
	}
	eng.Status = domain.StatusOnline

	audit.Log(ctx, audit.ActionLogin, eng.ID, "engineer logged in")
	broadcastStats(ctx, s.repo, s.broadcaster)
	s.broadcaster.BroadcastAll(&domain.StatusChangedEvent{
		Type:   domain.EventStatusChanged,
		ID:     eng.ID,
		Status: domain.StatusOnline,
	})
	return eng, nil
}

// Logout marks the engineer Offline and broadcasts the change.
func (s *engineerService) Logout(ctx context.Context, engineerID uint) error {
	if err := s.repo.UpdateStatus(ctx, engineerID, domain.StatusOffline); err != nil {
		if errors.Is(err, repository.ErrEngineerNotFound) {
			return ErrEngineerNotFound
		}
		return err
	}

	audit.Log(ctx, audit.ActionLogout, engineerID, "engineer logged out")
	broadcastStats(ctx, s.repo, s.broadcaster)
	s.broadcaster.BroadcastAll(&domain.StatusChangedEvent{
		Type:   domain.EventStatusChanged,
		ID:     engineerID,
		Status: domain.StatusOffline,
	})
	return nil
}

// ListByGroup returns all engineers of a department ordered by id.
func (s *engineerService) ListByGroup(ctx context.Context, rawGroup string) ([]domain.Engineer, error) {
	group, ok := domain.ParseGroup(rawGroup)
	if !ok {
		return nil, ErrUnknownGroup
	}
	return s.repo.ListByGroup(ctx, group)
}

// Stats returns per-department total/online counts, every department present.
func (s *engineerService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.GroupStats(ctx)
}

// broadcastStats recomputes group stats and pushes them to every client.
// Failures are logged; a stale dashboard is preferable to a failed request.
func broadcastStats(ctx context.Context, repo repository.EngineerRepository, b Broadcaster) {
	stats, err := repo.GroupStats(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to compute group stats for broadcast")
		return
	}
	if err := b.BroadcastAll(&domain.GroupStatsEvent{
		Type:  domain.EventUpdateGroupStats,
		Stats: stats,
	}); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to broadcast group stats")
	}
}
