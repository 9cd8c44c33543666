package domain

// Query backend modes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEndpoint is returned when a chat turn is attempted in a mode without an endpoint.
var ErrNoEndpoint = errors.New("invalid mode: no chat endpoint for this mode")

// Mode selects which backend strategy answers chat input.
type Mode int

const (
	ModeNoAI Mode = iota
	ModeChatbot
	ModeSqlBot
	ModeAssistant
	ModeMultiAgent
)

// AllModes lists the modes in selector order.
var AllModes = []Mode{ModeNoAI, ModeChatbot, ModeSqlBot, ModeAssistant, ModeMultiAgent}

// String returns the canonical mode name shown in labels and the footer.
func (m Mode) String() string {
	switch m {
	case ModeNoAI:
		return "NoAI"
	case ModeChatbot:
		return "Chatbot"
	case ModeSqlBot:
		return "SqlBot"
	case ModeAssistant:
		return "Assistant"
	case ModeMultiAgent:
		return "MultiAgent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Label returns the selector caption for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeNoAI:
		return "No AI"
	case ModeChatbot:
		return "Chatbot"
	case ModeSqlBot:
		return "Sqlbot"
	case ModeAssistant:
		return "Assistants API"
	case ModeMultiAgent:
		return "Multi-agent"
	default:
		return m.String()
	}
}

// Endpoint returns the chat path for the mode. NoAI has none.
func (m Mode) Endpoint() (string, bool) {
	switch m {
	case ModeChatbot:
		return "/api/chatbot", true
	case ModeSqlBot:
		return "/api/sqlbot", true
	case ModeAssistant:
		return "/api/assistants", true
	case ModeMultiAgent:
		return "/api/multiagent", true
	default:
		return "", false
	}
}

// ReturnsGrid reports whether assistant replies in this mode may carry tabular rows.
func (m Mode) ReturnsGrid() bool {
	return m == ModeSqlBot || m == ModeMultiAgent
}

// ShowsAssistantID reports whether the footer displays the assistant identity.
func (m Mode) ShowsAssistantID() bool {
	return m == ModeAssistant || m == ModeMultiAgent
}

// Next returns the following mode in selector order, wrapping around.
func (m Mode) Next() Mode {
	for i, candidate := range AllModes {
		if candidate == m {
			return AllModes[(i+1)%len(AllModes)]
		}
	}
	return ModeNoAI
}

// Help returns the sample prompts for the mode.
func (m Mode) Help() string {
	switch m {
	case ModeChatbot:
		return "Chatbot is connected to top customers and products.\nSamples:\nWrite a demand letter to the customer with the highest balance?\nWhat are the top 5 products sold?"
	case ModeSqlBot:
		return "Sqlbot is Connected to all tables.\nSamples:\nWhat customers are in the United States?\nWhat products have 'bike' in the description?"
	case ModeAssistant:
		return "Assistants is connected to top customers and products.\nSamples:\nCreate a chart of the sales by country.\nWhat are the top 5 products sold?"
	case ModeMultiAgent:
		return "Multiagent is connected to top customers, products, weather, and shipping costs."
	default:
		return "No AI mode"
	}
}

// ParseMode resolves a canonical name or selector label, case-insensitively.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "noai", "none", "off":
		return ModeNoAI, nil
	case "chatbot", "chat":
		return ModeChatbot, nil
	case "sqlbot", "sql":
		return ModeSqlBot, nil
	case "assistant", "assistants", "assistantsapi":
		return ModeAssistant, nil
	case "multiagent", "agents":
		return ModeMultiAgent, nil
	}
	return ModeNoAI, fmt.Errorf("unknown mode: %q", s)
}
