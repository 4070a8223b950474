package mapper

import (
	"fubot-be/internal/entity"
	"fubot-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatTurnToEntity(h *model.ChatHistory) *entity.ChatTurn {
	if h == nil {
		return nil
	}
	return &entity.ChatTurn{
		Id:          h.Id,
		Passcode:    h.Passcode,
		UserMessage: h.UserMessage,
		BotResponse: h.BotResponse,
		Timestamp:   h.Timestamp,
	}
}

func (m *ChatMapper) ChatTurnToModel(t *entity.ChatTurn) *model.ChatHistory {
	if t == nil {
		return nil
	}
	return &model.ChatHistory{
		Id:          t.Id,
		Passcode:    t.Passcode,
		UserMessage: t.UserMessage,
		BotResponse: t.BotResponse,
		Timestamp:   t.Timestamp,
	}
}

func (m *ChatMapper) ChatTurnsToEntities(rows []*model.ChatHistory) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(rows))
	for i, r := range rows {
		entities[i] = m.ChatTurnToEntity(r)
	}
	return entities
}
