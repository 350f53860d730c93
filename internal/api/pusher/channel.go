package pusher

import "strings"

const (
	privatePrefix   = "private-"
	encryptedPrefix = "private-encrypted-"
	presencePrefix  = "presence-"
	userPrefix      = "user-"
)

// CanUseChannel - личный канал user-<id> доступен только своему пользователю, остальные всем
func CanUseChannel(channelName, userID string) bool {
	var channel string
	switch {
	case strings.HasPrefix(channelName, encryptedPrefix):
		channel = strings.TrimPrefix(channelName, encryptedPrefix)
	case strings.HasPrefix(channelName, privatePrefix):
		channel = strings.TrimPrefix(channelName, privatePrefix)
	case strings.HasPrefix(channelName, presencePrefix):
		channel = strings.TrimPrefix(channelName, presencePrefix)
	default:
		return true
	}

	if owner, ok := strings.CutPrefix(channel, userPrefix); ok {
		return owner == userID
	}
	return true
}
