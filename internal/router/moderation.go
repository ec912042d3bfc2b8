package router

import "github.com/finnbear/moderation"

// moderateChat censors profanity out of an already sanitized, truncated
// chat message, adapted from the inbound chat path in the mk48 pack
// example (server/inbound.go's moderation.Scan/Censor usage).
func moderateChat(message string) string {
	result := moderation.Scan(message)
	if result.Is(moderation.Inappropriate) {
		censored, _ := moderation.Censor(message, moderation.Inappropriate)
		return censored
	}
	return message
}
