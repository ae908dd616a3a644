package notifications

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier sends notifications to a Discord channel. Send failures
// are logged and swallowed; notification delivery is best effort.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// DiscordNotifierConfig holds configuration for the Discord notifier
type DiscordNotifierConfig struct {
	Session   *discordgo.Session
	ChannelID string
}

// NewDiscordNotifier creates a Discord-backed notifier
func NewDiscordNotifier(cfg *DiscordNotifierConfig) *DiscordNotifier {
	if cfg.Session == nil {
		panic("discord session is required")
	}
	if cfg.ChannelID == "" {
		panic("channel ID is required")
	}

	return &DiscordNotifier{
		session:   cfg.Session,
		channelID: cfg.ChannelID,
	}
}

// Info sends an informational notification
func (n *DiscordNotifier) Info(_ context.Context, message string) {
	n.send("✅ " + message)
}

// Warn sends a warning notification
func (n *DiscordNotifier) Warn(_ context.Context, message string) {
	n.send("⚠️ " + message)
}

// Error sends an error notification
func (n *DiscordNotifier) Error(_ context.Context, message string) {
	n.send("❌ " + message)
}

func (n *DiscordNotifier) send(message string) {
	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		log.Printf("failed to send notification to channel %s: %v", n.channelID, err)
	}
}
