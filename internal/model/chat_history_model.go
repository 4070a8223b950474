package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatHistory struct {
	Id          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Passcode    string    `gorm:"type:varchar(255);not null;index:idx_chat_history_passcode_timestamp,priority:1"`
	UserMessage string    `gorm:"type:text;not null"`
	BotResponse string    `gorm:"type:text;not null"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;default:CURRENT_TIMESTAMP;index:idx_chat_history_passcode_timestamp,priority:2"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

func (c *ChatHistory) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}
