package domain

import "strings"

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleImage     Role = "image"
)

// MapRole folds a backend role onto the three roles the transcript knows.
// Unknown roles are shown as assistant output.
func MapRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleUser):
		return RoleUser
	case string(RoleImage):
		return RoleImage
	default:
		return RoleAssistant
	}
}

// ChatMessage is one transcript entry. Mode is set only on assistant entries.
// For image entries Content holds the backend-relative image path.
type ChatMessage struct {
	Role    Role
	Content *string
	Mode    *Mode
}

// Text returns the content or an empty string when absent.
func (c ChatMessage) Text() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// UserMessage builds a user entry.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: &content}
}

// AssistantMessage builds an assistant entry tagged with mode.
func AssistantMessage(mode Mode, content *string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content, Mode: &mode}
}

// ImageMessage builds an image entry from a backend-relative path.
func ImageMessage(path *string) ChatMessage {
	return ChatMessage{Role: RoleImage, Content: path}
}

// Reply is one element of a chat response. Rows is nil when the reply carries
// no table; a non-nil empty slice is an empty result set.
type Reply struct {
	Role    string   `json:"role"`
	Content *string  `json:"content"`
	Columns []Column `json:"columns,omitempty"`
	Rows    []Row    `json:"rows"`
}

// HasTable reports whether the reply carries a (possibly empty) result set.
func (r Reply) HasTable() bool {
	return r.Rows != nil
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
