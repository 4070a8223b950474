package dto

import "time"

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type ChatRequest struct {
	Passcode string `json:"passcode" validate:"required,notblank"`
	Message  string `json:"message" validate:"required,notblank"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// HistoryRequest takes offset and limit from the body or the query string.
type HistoryRequest struct {
	Passcode string `json:"passcode" validate:"required,notblank"`
	Offset   int    `json:"offset" query:"offset" validate:"min=0"`
	Limit    int    `json:"limit" query:"limit" validate:"min=1,max=100"`
}

type HistoryMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type HistoryResponse struct {
	History []HistoryMessage `json:"history"`
	Total   int64            `json:"total"`
}

// RefreshSummaryMessage is the payload of a queued summary refresh.
type RefreshSummaryMessage struct {
	Passcode    string    `json:"passcode"`
	RequestedAt time.Time `json:"requested_at"`
}
