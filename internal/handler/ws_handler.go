package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ABIRENIS/Jero-CRM/internal/config"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/hub"
	"github.com/ABIRENIS/Jero-CRM/internal/service"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler owns the live channel: connection upgrade and frame dispatch.
type WSHandler struct {
	hub      *hub.Hub
	chat     service.ChatService
	presence service.PresenceService
	wsCfg    config.WebSocketConfig
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, chat service.ChatService, presence service.PresenceService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:      h,
		chat:     chat,
		presence: presence,
		wsCfg:    wsCfg,
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and starts its pumps.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleEvent, h.onClose)
}

// onClose releases the presence session bound to a dropped connection.
// It runs on the connection's read goroutine, so reading EngineerID here
// is safe.
func (h *WSHandler) onClose(client *hub.Client) {
	if client.EngineerID != 0 {
		log.L().Debug().
			Str(log.FieldConnID, client.ID).
			Uint(log.FieldEngineerID, client.EngineerID).
			Msg("engineer connection closed")
	}
	h.presence.HandleDisconnect(context.Background(), client.ID)
}

func (h *WSHandler) handleEvent(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "Invalid event format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.EventRegisterEngineer:
		var ev domain.RegisterEngineerEvent
		if err := json.Unmarshal(message, &ev); err != nil || ev.EngineerID == 0 {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "Invalid register_engineer event"))
			return
		}
		client.EngineerID = ev.EngineerID
		if err := h.presence.HandleRegister(ctx, client.ID, ev.EngineerID); err != nil {
			log.L().Error().Err(err).Str(log.FieldConnID, client.ID).Msg("engineer registration failed")
		}

	case domain.EventRegisterAdmin:
		h.hub.Observe(client)

	case domain.EventJoinChat:
		var ev domain.JoinChatEvent
		if err := json.Unmarshal(message, &ev); err != nil || ev.EngineerID == 0 {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "Invalid join_chat event"))
			return
		}
		h.hub.JoinRoom(client, ev.EngineerID)

	case domain.EventSendMessage:
		var ev domain.SendMessageEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "Invalid send_message event"))
			return
		}
		if _, err := h.chat.SendMessage(ctx, &ev); err != nil {
			if errors.Is(err, service.ErrEmptyMessage) {
				client.SendEvent(domain.NewErrorEvent(domain.ErrCodeValidation, "Message requires text or a file attachment"))
				return
			}
			// The sender must learn the message was not stored; it was
			// never broadcast.
			log.L().Error().Err(err).Str(log.FieldConnID, client.ID).Msg("failed to persist chat message")
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeInternalError, "Failed to send message"))
		}

	default:
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "Unknown event type"))
	}
}
