package domain

// WebSocket event types from client.
const (
	EventRegisterEngineer = "register_engineer"
	EventRegisterAdmin    = "register_admin"
	EventJoinChat         = "join_chat"
	EventSendMessage      = "send_message"
)

// WebSocket event types to client.
const (
	EventUpdateGroupStats = "update_group_stats"
	EventStatusChanged    = "status_changed"
	EventReceiveMessage   = "receive_message"
	EventMessageEdited    = "message_edited"
	EventMessageDeleted   = "message_deleted"
	EventError            = "error"
)

// Error codes carried in error events.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_FAILURE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseEvent is the base structure for all WebSocket frames.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type RegisterEngineerEvent struct {
	Type       string `json:"type"`
	EngineerID uint   `json:"engineer_id"`
}

type RegisterAdminEvent struct {
	Type string `json:"type"`
}

type JoinChatEvent struct {
	Type       string `json:"type"`
	EngineerID uint   `json:"engineer_id"`
}

type SendMessageEvent struct {
	Type         string     `json:"type"`
	EngineerDBID uint       `json:"engineer_db_id"`
	Sender       string     `json:"sender"`
	SenderType   SenderType `json:"sender_type"`
	MessageText  string     `json:"message_text"`
	FileInfo     *FileInfo  `json:"file_info"`
}

// Server -> Client events

type GroupStatsEvent struct {
	Type  string `json:"type"`
	Stats Stats  `json:"stats"`
}

type StatusChangedEvent struct {
	Type   string `json:"type"`
	ID     uint   `json:"id"`
	Status Status `json:"status"`
}

type ReceiveMessageEvent struct {
	Type    string      `json:"type"`
	Message ChatMessage `json:"message"`
}

type MessageEditedEvent struct {
	Type         string `json:"type"`
	MessageID    uint   `json:"message_id"`
	NewText      string `json:"new_text"`
	EngineerDBID uint   `json:"engineer_db_id"`
}

type MessageDeletedEvent struct {
	Type         string `json:"type"`
	MessageID    uint   `json:"message_id"`
	EngineerDBID uint   `json:"engineer_db_id"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorEvent builds an error frame.
func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Type:    EventError,
		Code:    code,
		Message: message,
	}
}
