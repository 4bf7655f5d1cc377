// Package extract derives structured visitor information (contact details,
// project intent) from free-text chat messages using ordered pattern rules.
package extract

import (
	"strings"

	"github.com/taherahmed/portfolio-api/internal/domain"
)

// Default history windows. The asymmetry is deliberate: a broader window
// for factual extraction, a narrower one for intent gating so a stale topic
// does not keep a conversation classified as project-related.
const (
	DefaultInfoWindow   = 5
	DefaultIntentWindow = 3
)

// ScanMessage applies every field rule to a single message, filling only
// fields of info that are still empty. First match wins per field; repeated
// calls across a message window never overwrite an earlier result with a
// later one. ScanMessage is a pure function of its inputs and never fails.
func ScanMessage(message string, info *domain.UserInfo) {
	if info.Email == "" {
		info.Email = emailPattern.FindString(message)
	}
	if info.Phone == "" {
		info.Phone = phonePattern.FindString(message)
	}

	if info.Name == "" {
		for _, p := range namePatterns {
			m := p.FindStringSubmatch(message)
			if m == nil || m[1] == "" {
				continue
			}
			name := strings.TrimSpace(m[1])
			name = strings.TrimSpace(nameFillerPattern.ReplaceAllString(name, ""))
			if name != "" {
				info.Name = name
			}
			break
		}
	}

	if info.Company == "" {
		for _, p := range companyPatterns {
			m := p.FindStringSubmatch(message)
			if m == nil || m[1] == "" {
				continue
			}
			info.Company = strings.TrimSpace(m[1])
			break
		}
	}
}

// UserInfo scans the current message plus the visitor's turns from the last
// window entries of history and merges the results. The current message is
// scanned first, so information in it takes precedence over history.
// Returns nil when nothing was found: absence is "no update", not an error.
func UserInfo(message string, history []domain.Message, window int) *domain.UserInfo {
	var info domain.UserInfo
	ScanMessage(message, &info)

	for _, msg := range tail(history, window) {
		if msg.Role == domain.RoleUser {
			ScanMessage(msg.Content, &info)
		}
	}

	if info.Empty() {
		return nil
	}
	return &info
}

// ProjectInfo classifies project intent from the current message combined
// with the last window history turns. The first matching category rule
// wins; generic project language without a category match yields the
// Custom Project category. Returns nil when there is no project signal.
func ProjectInfo(message string, history []domain.Message, window int) *domain.ProjectInfo {
	parts := make([]string, 0, window+1)
	for _, msg := range tail(history, window) {
		parts = append(parts, msg.Content)
	}
	parts = append(parts, message)
	blob := strings.Join(parts, " ")

	for _, rule := range categoryRules {
		if rule.pattern.MatchString(blob) {
			return &domain.ProjectInfo{ProjectType: rule.project}
		}
	}

	if containsProjectKeyword(blob) {
		return &domain.ProjectInfo{ProjectType: domain.ProjectCustom}
	}
	return nil
}

// IsProjectRelated reports whether the current message or the visitor's
// turns from the last window history entries mention any generic project
// keyword.
func IsProjectRelated(message string, history []domain.Message, window int) bool {
	if containsProjectKeyword(message) {
		return true
	}
	for _, msg := range tail(history, window) {
		if msg.Role == domain.RoleUser && containsProjectKeyword(msg.Content) {
			return true
		}
	}
	return false
}

func containsProjectKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range projectKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func tail(history []domain.Message, n int) []domain.Message {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
