package domain

import (
	"encoding/json"
	"time"
)

// EngineerModel is the GORM model for the engineers table.
type EngineerModel struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"type:varchar(100);not null"`
	EngineerID string `gorm:"column:engineer_id;type:varchar(20);uniqueIndex;not null"`
	GroupType  string `gorm:"type:varchar(10);index;not null"`
	Email      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password   string `gorm:"type:varchar(100);not null"`
	Phone      string `gorm:"type:varchar(30)"`
	Status     string `gorm:"type:varchar(10);not null;default:'Offline'"`
}

// TableName specifies the table name for EngineerModel.
func (EngineerModel) TableName() string {
	return "engineers"
}

// ToDomain converts EngineerModel to a domain Engineer.
func (m *EngineerModel) ToDomain() *Engineer {
	return &Engineer{
		ID:         m.ID,
		Name:       m.Name,
		EngineerID: m.EngineerID,
		GroupType:  GroupType(m.GroupType),
		Email:      m.Email,
		Password:   m.Password,
		Phone:      m.Phone,
		Status:     Status(m.Status),
	}
}

// EngineerToModel converts a domain Engineer to its GORM model.
func EngineerToModel(e *Engineer) *EngineerModel {
	return &EngineerModel{
		ID:         e.ID,
		Name:       e.Name,
		EngineerID: e.EngineerID,
		GroupType:  string(e.GroupType),
		Email:      e.Email,
		Password:   e.Password,
		Phone:      e.Phone,
		Status:     string(e.Status),
	}
}

// ChatMessageModel is the GORM model for the chat_messages table.
// FileInfo is stored as a JSON-serialized text column.
type ChatMessageModel struct {
	ID           uint      `gorm:"primaryKey"`
	EngineerDBID uint      `gorm:"column:engineer_db_id;index;not null"`
	Sender       string    `gorm:"type:varchar(100);not null"`
	SenderType   string    `gorm:"type:varchar(10);not null"`
	MessageText  string    `gorm:"type:text"`
	FileInfo     string    `gorm:"type:text"`
	IsEdited     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for ChatMessageModel.
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts ChatMessageModel to a domain ChatMessage.
func (m *ChatMessageModel) ToDomain() *ChatMessage {
	msg := &ChatMessage{
		ID:           m.ID,
		EngineerDBID: m.EngineerDBID,
		Sender:       m.Sender,
		SenderType:   SenderType(m.SenderType),
		MessageText:  m.MessageText,
		IsEdited:     m.IsEdited,
		CreatedAt:    m.CreatedAt,
	}
	if m.FileInfo != "" {
		var fi FileInfo
		if err := json.Unmarshal([]byte(m.FileInfo), &fi); err == nil {
			msg.FileInfo = &fi
		}
	}
	return msg
}

// MessageToModel converts a domain ChatMessage to its GORM model.
func MessageToModel(msg *ChatMessage) *ChatMessageModel {
	model := &ChatMessageModel{
		ID:           msg.ID,
		EngineerDBID: msg.EngineerDBID,
		Sender:       msg.Sender,
		SenderType:   string(msg.SenderType),
		MessageText:  msg.MessageText,
		IsEdited:     msg.IsEdited,
		CreatedAt:    msg.CreatedAt,
	}
	if msg.FileInfo != nil {
		if data, err := json.Marshal(msg.FileInfo); err == nil {
			model.FileInfo = string(data)
		}
	}
	return model
}
