package gate

// Flags key the reply-guidance decision table. They describe the session as
// it stands after this turn's extraction has been folded in.
type Flags struct {
	IsFormSubmission bool
	ProjectRelated   bool
	HasProjectType   bool
	HasContact       bool
	HasEmail         bool // email extracted on this turn specifically
}

const basePrompt = "You are a brief, helpful AI assistant on Taher Ahmed's portfolio website. " +
	"Keep ALL responses under 20 words. Be friendly but extremely concise."

const formPrompt = "The user has submitted their contact information. " +
	"Thank them and tell them Taher will reach out soon. Keep it under 20 words."

// SystemPrompt selects the guidance instruction prepended to the completion
// call. The exact reply text comes from the provider; this only steers it.
func SystemPrompt(f Flags) string {
	if f.IsFormSubmission {
		return formPrompt
	}

	switch {
	case f.ProjectRelated && !f.HasProjectType:
		return basePrompt + " Simply ask what type of project they're interested in."
	case f.ProjectRelated && f.HasProjectType && !f.HasContact:
		return basePrompt + " Ask for their email to connect them with Taher."
	case f.HasEmail || (f.ProjectRelated && f.HasProjectType && f.HasContact):
		return basePrompt + " Thank them briefly. Tell them Taher will email them soon: hello@taherahmed.dev"
	}
	return basePrompt
}
