package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based chat message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create inserts a new chat message. The store assigns id and created_at;
// both are written back to msg.
func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	l := log.Ctx(ctx)

	model := domain.MessageToModel(msg)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		l.Error().Err(result.Error).Uint(log.FieldEngineerID, msg.EngineerDBID).Msg("failed to create chat message in db")
		return result.Error
	}

	msg.ID = model.ID
	msg.CreatedAt = model.CreatedAt
	l.Debug().Uint(log.FieldMessageID, msg.ID).Msg("chat message created in db")
	return nil
}

// GetByID retrieves a message by id.
func (r *GormMessageRepository) GetByID(ctx context.Context, id uint) (*domain.ChatMessage, error) {
	var model domain.ChatMessageModel
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Ctx(ctx).Error().Err(result.Error).Uint(log.FieldMessageID, id).Msg("failed to get message by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByEngineer retrieves an engineer's conversation ordered by created_at
// ascending. Creation timestamps are the source of truth for display order.
func (r *GormMessageRepository) ListByEngineer(ctx context.Context, engineerDBID uint) ([]domain.ChatMessage, error) {
	var models []domain.ChatMessageModel
	result := r.db.WithContext(ctx).
		Where("engineer_db_id = ?", engineerDBID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Uint(log.FieldEngineerID, engineerDBID).Msg("failed to list chat messages")
		return nil, result.Error
	}

	messages := make([]domain.ChatMessage, len(models))
	for i, model := range models {
		messages[i] = *model.ToDomain()
	}
	return messages, nil
}

// Edit replaces a message's text and sets the edited flag. The read and
// update share a transaction so the window check and the write see the same
// row.
func (r *GormMessageRepository) Edit(ctx context.Context, id uint, newText string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.ChatMessageModel
		if err := tx.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		if time.Since(model.CreatedAt) > domain.MutationWindow {
			return ErrEditWindowExpired
		}

		return tx.Model(&model).Updates(map[string]interface{}{
			"message_text": newText,
			"is_edited":    true,
		}).Error
	})
}

// Delete removes a message, subject to the mutation window.
func (r *GormMessageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.ChatMessageModel
		if err := tx.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		if time.Since(model.CreatedAt) > domain.MutationWindow {
			return ErrDeleteWindowExpired
		}

		return tx.Delete(&model).Error
	})
}

// DeleteOlderThan removes all messages created before now minus maxAge.
func (r *GormMessageRepository) DeleteOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.ChatMessageModel{})
	if result.Error != nil {
		log.Ctx(ctx).Error().Err(result.Error).Time("cutoff", cutoff).Msg("failed to delete expired chat messages")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
