package archetype

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type ListRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Class       string
}

type ListHandler struct {
	service archetypeService.Service
}

func NewListHandler(service archetypeService.Service) *ListHandler {
	return &ListHandler{service: service}
}

func (h *ListHandler) Handle(req *ListRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	archetypes, err := h.service.ListArchetypes(context.Background(), req.Class)
	if err != nil {
		content := fmt.Sprintf("❌ Failed to list archetypes: %v", err)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	if len(archetypes) == 0 {
		content := fmt.Sprintf("📝 No archetypes found for **%s**. The content source may be offline; curated archetypes still apply by slug.", req.Class)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	var sb strings.Builder
	for _, archetype := range archetypes {
		sb.WriteString(fmt.Sprintf("**%s** — `%s`\n", archetype.Name, archetype.Slug))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 Archetypes for %s", req.Class),
		Description: sb.String(),
		Color:       0x3498db,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /archetype preview <slug> to see what an archetype changes",
		},
	}

	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}
