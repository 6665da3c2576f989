package domain

import "time"

// SenderType distinguishes the two ends of a conversation.
type SenderType string

const (
	SenderAdmin    SenderType = "admin"
	SenderEngineer SenderType = "engineer"
)

// MutationWindow is how long after creation a message may still be edited
// or deleted.
const MutationWindow = 5 * time.Minute

// FileInfo is the metadata of a chat attachment, embedded in a message
// after the file was uploaded out-of-band.
type FileInfo struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ChatMessage is one entry of an engineer's conversation log.
type ChatMessage struct {
	ID           uint       `json:"id"`
	EngineerDBID uint       `json:"engineer_db_id"`
	Sender       string     `json:"sender"`
	SenderType   SenderType `json:"sender_type"`
	MessageText  string     `json:"message_text"`
	FileInfo     *FileInfo  `json:"file_info"`
	IsEdited     bool       `json:"is_edited"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EditMessageRequest is the payload of the message edit endpoint.
type EditMessageRequest struct {
	MessageID    uint   `json:"message_id" binding:"required"`
	NewText      string `json:"new_text" binding:"required"`
	EngineerDBID uint   `json:"engineer_db_id" binding:"required"`
}

// UploadResult is returned by the upload endpoint and mirrors FileInfo.
type UploadResult struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}
