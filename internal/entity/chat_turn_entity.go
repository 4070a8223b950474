package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one persisted (user message, bot response) exchange.
type ChatTurn struct {
	Id          uuid.UUID
	Passcode    string
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}
