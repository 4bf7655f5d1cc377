package domain

// UserInfo holds contact details derived from conversation text. All fields
// are optional; a non-empty field means a pattern matched. UserInfo is
// recomputed from the message window each turn, never stored on its own.
type UserInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
}

// Empty reports whether no field was extracted.
func (u UserInfo) Empty() bool {
	return u.Email == "" && u.Phone == "" && u.Name == "" && u.Company == ""
}

// ProjectType categorizes the kind of project a visitor is asking about.
type ProjectType string

const (
	ProjectWebsite        ProjectType = "Website"
	ProjectMobileApp      ProjectType = "Mobile App"
	ProjectDesktopApp     ProjectType = "Desktop App"
	ProjectAISolution     ProjectType = "AI Solution"
	ProjectEcommerce      ProjectType = "E-commerce"
	ProjectBusinessSystem ProjectType = "Business System"

	// ProjectCustom is the fallback category when the conversation carries
	// generic project language but no specific category keyword.
	ProjectCustom ProjectType = "Custom Project"
)

// ProjectInfo holds project intent derived from conversation text.
type ProjectInfo struct {
	ProjectType ProjectType `json:"projectType,omitempty"`
}
