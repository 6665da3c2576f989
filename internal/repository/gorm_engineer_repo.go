package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// GormEngineerRepository implements EngineerRepository using GORM.
type GormEngineerRepository struct {
	db *gorm.DB
}

// NewGormEngineerRepository creates a new GORM-based engineer repository.
func NewGormEngineerRepository(db *gorm.DB) *GormEngineerRepository {
	return &GormEngineerRepository{db: db}
}

// seriesAllocRetries bounds how often Create re-runs the allocation
// transaction after losing a duplicate-key race.
const seriesAllocRetries = 3

// Create inserts a new engineer. The series identifier is derived from the
// highest existing sequence for the department inside one transaction.
// Under read-committed isolation two registrations can still read the same
// maximum; the unique index on engineer_id rejects the loser, and Create
// re-runs the allocation instead of surfacing the collision.
func (r *GormEngineerRepository) Create(ctx context.Context, eng *domain.Engineer) error {
	l := log.Ctx(ctx)

	var err error
	for attempt := 0; attempt <= seriesAllocRetries; attempt++ {
		if err = r.createOnce(ctx, eng); err == nil {
			l.Debug().Uint("id", eng.ID).Str(log.FieldEngineerID, eng.EngineerID).Msg("engineer created in db")
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}

	l.Error().Err(err).Str(log.FieldGroup, string(eng.GroupType)).Msg("failed to create engineer in db")
	return err
}

func (r *GormEngineerRepository) createOnce(ctx context.Context, eng *domain.Engineer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&domain.EngineerModel{}).
			Where("group_type = ?", string(eng.GroupType)).
			Pluck("engineer_id", &ids).Error; err != nil {
			return err
		}

		eng.EngineerID = domain.FormatSeriesID(eng.GroupType, nextSequence(ids))
		if eng.Status == "" {
			eng.Status = domain.StatusOffline
		}

		model := domain.EngineerToModel(eng)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		eng.ID = model.ID
		return nil
	})
}

// nextSequence finds the highest numeric suffix among existing series
// identifiers and returns the next one. An empty department starts at 1.
func nextSequence(ids []string) int {
	max := 0
	for _, id := range ids {
		parts := strings.Split(id, "-")
		if len(parts) < 3 {
			continue
		}
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// GetByID retrieves an engineer by database id.
func (r *GormEngineerRepository) GetByID(ctx context.Context, id uint) (*domain.Engineer, error) {
	var model domain.EngineerModel
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEngineerNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Uint("id", id).Msg("failed to get engineer by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetByCredentials retrieves an engineer matching email and password.
// Credentials are plain equality against the stored row.
func (r *GormEngineerRepository) GetByCredentials(ctx context.Context, email, password string) (*domain.Engineer, error) {
	var model domain.EngineerModel
	result := r.db.WithContext(ctx).
		Where("email = ? AND password = ?", email, password).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEngineerNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Msg("failed to get engineer by credentials")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByGroup retrieves all engineers in a department ordered by id ascending.
func (r *GormEngineerRepository) ListByGroup(ctx context.Context, group domain.GroupType) ([]domain.Engineer, error) {
	var models []domain.EngineerModel
	result := r.db.WithContext(ctx).
		Where("group_type = ?", string(group)).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Str(log.FieldGroup, string(group)).Msg("failed to list engineers")
		return nil, result.Error
	}

	engineers := make([]domain.Engineer, len(models))
	for i, model := range models {
		engineers[i] = *model.ToDomain()
	}
	return engineers, nil
}

// UpdateStatus sets an engineer's presence status.
func (r *GormEngineerRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status) error {
	result := r.db.WithContext(ctx).Model(&domain.EngineerModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Uint("id", id).Msg("failed to update engineer status")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEngineerNotFound
	}
	return nil
}

type groupCountRow struct {
	GroupType   string
	Total       int
	OnlineCount int
}

// GroupStats folds the engineers table into per-department counters via a
// single GROUP BY query. Departments without rows report {0,0}.
func (r *GormEngineerRepository) GroupStats(ctx context.Context) (domain.Stats, error) {
	var rows []groupCountRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT group_type,
		       COUNT(*) AS total,
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS online_count
		FROM engineers
		GROUP BY group_type`, string(domain.StatusOnline)).
		Scan(&rows).Error
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to aggregate group stats")
		return nil, err
	}

	stats := domain.Stats{}
	for _, g := range domain.AllGroups() {
		stats[g] = domain.GroupStats{}
	}
	for _, row := range rows {
		if g, ok := domain.ParseGroup(row.GroupType); ok {
			stats[g] = domain.GroupStats{Total: row.Total, Online: row.OnlineCount}
		}
	}
	return stats, nil
}
