// Package models defines the shared data shapes for the ODIA backend:
// conversation audit rows, voice cache metadata, and the chat message
// envelope sent to completion providers.
package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// Platform identifies the inbound messaging channel.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformTelegram Platform = "telegram"
)

// ConversationRecord is one logged message exchange. Rows are append-only;
// nothing in the backend updates or deletes them.
type ConversationRecord struct {
	SessionID string   `json:"session_id"`
	Platform  Platform `json:"platform"`
	Message   string   `json:"message"`
	Response  string   `json:"response"`
	Agent     string   `json:"agent"`
	Cost      int      `json:"cost"`
}

// VoiceCacheMeta is the durable metadata written for each synthesized clip.
// The audio bytes themselves live only in the fast cache; the durable store
// keeps this row for auditing and analytics.
type VoiceCacheMeta struct {
	TextHash    string `json:"text_hash"`
	AgentType   string `json:"agent_type"`
	Storage     string `json:"storage"`
	AccessCount int    `json:"access_count"`
}

// ChatMessage is a single role/content turn in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var nigerianPhone = regexp.MustCompile(`^\+234[0-9]{10}$`)

// IsNigerianPhone reports whether phone is a full international-format
// Nigerian number (+234 followed by ten digits).
func IsNigerianPhone(phone string) bool {
	return nigerianPhone.MatchString(phone)
}

// FormatNaira renders an integer Naira amount as "₦15,000".
func FormatNaira(amount int) string {
	s := strconv.Itoa(amount)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return fmt.Sprintf("-₦%s", out)
	}
	return fmt.Sprintf("₦%s", out)
}
