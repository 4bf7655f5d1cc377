// Package notify relays collected visitor information to a team Discord
// channel via an incoming webhook.
package notify

// MessageType labels why a relay payload was produced.
type MessageType string

const (
	// TypeChat is an automatic notification from the AI chat.
	TypeChat MessageType = "chat"
	// TypeForm is a form submitted through the AI assistant.
	TypeForm MessageType = "form"
	// TypeContact is the site's contact form.
	TypeContact MessageType = "contact"
)

// UserInfo carries whichever visitor fields are known. Absent fields are
// omitted from the outbound embed — no empty placeholders are emitted.
type UserInfo struct {
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Company        string `json:"company,omitempty"`
	Subject        string `json:"subject,omitempty"`
	ProjectType    string `json:"projectType,omitempty"`
	Budget         string `json:"budget,omitempty"`
	Timeline       string `json:"timeline,omitempty"`
	Description    string `json:"description,omitempty"`
	FormSubmission bool   `json:"formSubmission,omitempty"`
}

// Present reports whether any field carries a value.
func (u UserInfo) Present() bool {
	return u != UserInfo{}
}

// Payload is a relay request.
type Payload struct {
	Content     string      `json:"content"`
	UserInfo    UserInfo    `json:"userInfo"`
	MessageType MessageType `json:"messageType"`
}
