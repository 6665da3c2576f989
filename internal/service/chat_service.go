package service

import (
	"context"
	"errors"

	"github.com/ABIRENIS/Jero-CRM/internal/audit"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
)

type chatService struct {
	messages    repository.MessageRepository
	broadcaster Broadcaster
}

// NewChatService creates the chat relay service.
func NewChatService(messages repository.MessageRepository, b Broadcaster) ChatService {
	return &chatService{
		messages:    messages,
		broadcaster: b,
	}
}

// SendMessage persists a message and then fans it out to the engineer's
// room and the dashboard observers. The broadcast happens only after the
// insert is acknowledged; a message that failed to persist is never shown.
func (s *chatService) SendMessage(ctx context.Context, ev *domain.SendMessageEvent) (*domain.ChatMessage, error) {
	if ev.EngineerDBID == 0 || ev.Sender == "" {
		return nil, ErrEmptyMessage
	}
	if ev.MessageText == "" && ev.FileInfo == nil {
		return nil, ErrEmptyMessage
	}

	msg := &domain.ChatMessage{
		EngineerDBID: ev.EngineerDBID,
		Sender:       ev.Sender,
		SenderType:   ev.SenderType,
		MessageText:  ev.MessageText,
		FileInfo:     ev.FileInfo,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToConversation(msg.EngineerDBID, &domain.ReceiveMessageEvent{
		Type:    domain.EventReceiveMessage,
		Message: *msg,
	})
	return msg, nil
}

// EditMessage rewrites a message's text within the mutation window and
// notifies the conversation room.
func (s *chatService) EditMessage(ctx context.Context, req *domain.EditMessageRequest) error {
	if err := s.messages.Edit(ctx, req.MessageID, req.NewText); err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			return ErrMessageNotFound
		case errors.Is(err, repository.ErrEditWindowExpired):
			return ErrEditWindowExpired
		}
		return err
	}

	audit.LogMessage(ctx, audit.ActionEditMessage, req.EngineerDBID, req.MessageID, "chat message edited")
	s.broadcaster.BroadcastToRoom(req.EngineerDBID, &domain.MessageEditedEvent{
		Type:         domain.EventMessageEdited,
		MessageID:    req.MessageID,
		NewText:      req.NewText,
		EngineerDBID: req.EngineerDBID,
	})
	return nil
}

// DeleteMessage removes a message within the mutation window and notifies
// the conversation room.
func (s *chatService) DeleteMessage(ctx context.Context, messageID uint) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			return ErrMessageNotFound
		case errors.Is(err, repository.ErrDeleteWindowExpired):
			return ErrDeleteWindowExpired
		}
		return err
	}

	audit.LogMessage(ctx, audit.ActionDeleteMessage, msg.EngineerDBID, messageID, "chat message deleted")
	s.broadcaster.BroadcastToRoom(msg.EngineerDBID, &domain.MessageDeletedEvent{
		Type:         domain.EventMessageDeleted,
		MessageID:    messageID,
		EngineerDBID: msg.EngineerDBID,
	})
	return nil
}

// History returns an engineer's conversation in creation order.
func (s *chatService) History(ctx context.Context, engineerDBID uint) ([]domain.ChatMessage, error) {
	return s.messages.ListByEngineer(ctx, engineerDBID)
}
