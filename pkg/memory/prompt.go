package memory

import (
	"fmt"
	"strings"

	"fubot-be/internal/constant"
	"fubot-be/internal/entity"
	"fubot-be/pkg/llm"
)

// SystemPrompt renders the persona with the user's long-term summary.
func SystemPrompt(persona, summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = constant.NoSummaryYet
	}
	return persona + fmt.Sprintf(constant.ChatMemoryPrompt, summary)
}

// BuildConversation assembles one completion request:
// system, then the window as user/assistant pairs, then the new message.
func BuildConversation(persona, summary string, window []*entity.ChatTurn, message string) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(window)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(persona, summary)})

	for _, turn := range window {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: turn.UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: turn.BotResponse},
		)
	}

	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
	return msgs
}

// BuildSummaryRequest produces the memory-maintenance request for the
// summarizer from the current summary and the recent window.
func BuildSummaryRequest(current string, window []*entity.ChatTurn, maxWords int) []llm.Message {
	current = strings.TrimSpace(current)
	if current == "" {
		current = constant.NoSummaryYet
	}

	var transcript strings.Builder
	for _, turn := range window {
		transcript.WriteString(fmt.Sprintf(constant.SummaryTranscriptLine, "User", turn.UserMessage))
		transcript.WriteString(fmt.Sprintf(constant.SummaryTranscriptLine, "Reply", turn.BotResponse))
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(constant.SummaryMaintenancePrompt, maxWords)},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.SummaryUpdateTemplate, current, transcript.String())},
	}
}
