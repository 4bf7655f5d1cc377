package notify

import (
	"regexp"
	"time"
)

// Discord webhook wire format (the subset this relay uses).

// WebhookMessage is the body posted to the webhook URL.
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a titled rich message block.
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// Field is a single name/value entry inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Footer labels the embed's origin.
type Footer struct {
	Text string `json:"text"`
}

const (
	colorTeal = 0x00d2ff
	colorBlue = 0x3a7bd5
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// BuildMessage formats a relay payload as a Discord message. Only fields
// that carry a value are included. The format depends on the message type:
// form/contact submissions, project-related chat, plain chat info, and a
// generic default.
func BuildMessage(p Payload) WebhookMessage {
	// Highlight the email whether it arrived as structured info or only
	// inside the message text.
	email := p.UserInfo.Email
	if email == "" {
		email = emailPattern.FindString(p.Content)
	}
	ts := time.Now().UTC().Format(time.RFC3339)

	switch p.MessageType {
	case TypeForm, TypeContact:
		return formMessage(p, email, ts)
	case TypeChat:
		if p.UserInfo.ProjectType != "" || p.UserInfo.Description != "" {
			return projectInquiryMessage(p, email, ts)
		}
		return chatInfoMessage(p, email, ts)
	default:
		return genericMessage(p, email, ts)
	}
}

func formMessage(p Payload, email, ts string) WebhookMessage {
	title := "📝 Contact Form Submission"
	footer := "Portfolio Website Contact Form"
	if p.MessageType == TypeForm {
		title = "📝 AI Form Submission"
		footer = "AI Assistant Form Submission"
	}

	var fields []Field
	fields = appendField(fields, "Name", p.UserInfo.Name, true)
	fields = appendField(fields, "📧 Email", email, true)
	fields = appendField(fields, "Phone", p.UserInfo.Phone, true)
	fields = appendField(fields, "Subject", p.UserInfo.Subject, false)
	fields = appendField(fields, "Project Type", p.UserInfo.ProjectType, true)

	content := p.Content
	if content == "" {
		content = "No message content"
	}
	fields = append(fields, Field{Name: "Message", Value: content})

	return WebhookMessage{Embeds: []Embed{{
		Title:     title,
		Color:     colorTeal,
		Fields:    fields,
		Footer:    &Footer{Text: footer},
		Timestamp: ts,
	}}}
}

func projectInquiryMessage(p Payload, email, ts string) WebhookMessage {
	var fields []Field
	fields = appendField(fields, "Name", p.UserInfo.Name, true)
	fields = appendField(fields, "📧 Email", email, true)
	fields = appendField(fields, "Phone", p.UserInfo.Phone, true)
	fields = appendField(fields, "Company", p.UserInfo.Company, true)
	fields = appendField(fields, "Project Type", p.UserInfo.ProjectType, true)
	fields = appendField(fields, "Budget", p.UserInfo.Budget, true)
	fields = appendField(fields, "Timeline", p.UserInfo.Timeline, true)
	fields = appendField(fields, "Project Description", p.UserInfo.Description, false)
	fields = append(fields, Field{Name: "Latest Message", Value: p.Content})

	return WebhookMessage{Embeds: []Embed{{
		Title:       "🚀 New Project Inquiry",
		Description: "A visitor has shared project details through the AI chat.",
		Color:       colorBlue,
		Fields:      fields,
		Footer:      &Footer{Text: "AI Assistant - Project Inquiry"},
		Timestamp:   ts,
	}}}
}

func chatInfoMessage(p Payload, email, ts string) WebhookMessage {
	title := "💬 AI Assistant Chat - User Info Provided"
	description := "A visitor has shared contact information through the AI chat."
	color := colorBlue
	if email != "" {
		title = "📧 New Email Received!"
		description = "A visitor has shared their email address through the AI chat: **" + email + "**"
		color = colorTeal
	}

	var fields []Field
	fields = appendField(fields, "Name", p.UserInfo.Name, true)
	fields = appendField(fields, "📧 Email", email, true)
	fields = appendField(fields, "Phone", p.UserInfo.Phone, true)
	fields = appendField(fields, "Company", p.UserInfo.Company, true)
	fields = append(fields, Field{Name: "Latest Message", Value: p.Content})

	return WebhookMessage{Embeds: []Embed{{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
		Footer:      &Footer{Text: "AI Assistant Chat"},
		Timestamp:   ts,
	}}}
}

func genericMessage(p Payload, email, ts string) WebhookMessage {
	content := "**New Information from Portfolio Website:**\n" + p.Content
	title := "User Provided Information"
	if email != "" {
		content = "**📧 Email Detected:** " + email + "\n\n**Message:**\n" + p.Content
		title = "Email Information"
	}

	var fields []Field
	fields = appendField(fields, "Name", p.UserInfo.Name, true)
	fields = appendField(fields, "📧 Email", email, true)
	fields = appendField(fields, "Phone", p.UserInfo.Phone, true)
	fields = appendField(fields, "Project Type", p.UserInfo.ProjectType, true)
	if p.UserInfo.FormSubmission {
		fields = append(fields, Field{Name: "Form Submission", Value: "Yes", Inline: true})
	}

	return WebhookMessage{
		Content: content,
		Embeds: []Embed{{
			Title:     title,
			Color:     colorTeal,
			Fields:    fields,
			Timestamp: ts,
		}},
	}
}

func appendField(fields []Field, name, value string, inline bool) []Field {
	if value == "" {
		return fields
	}
	return append(fields, Field{Name: name, Value: value, Inline: inline})
}
