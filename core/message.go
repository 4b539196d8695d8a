package core

// Role identifies the author of a conversation turn.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message is a single conversation turn. The call pipeline is text-only at
// the model boundary; audio is transcribed before it reaches a Message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-authored message.
func UserMessage(content string) Message {
	return Message{Role: User, Content: content}
}

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(content string) Message {
	return Message{Role: Assistant, Content: content}
}

// SystemMessage builds a system instruction message.
func SystemMessage(content string) Message {
	return Message{Role: System, Content: content}
}
