package types

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the sequence sent to the completion service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is what the chat widget posts. History is oldest first and
// already trimmed by the caller.
type ChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

// ContactRequest is a visitor submission from the contact section.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile,omitempty" validate:"omitempty,max=40"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}
