package archetype

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type AppliedRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	CharacterID string
}

type AppliedHandler struct {
	service archetypeService.Service
}

func NewAppliedHandler(service archetypeService.Service) *AppliedHandler {
	return &AppliedHandler{service: service}
}

func (h *AppliedHandler) Handle(req *AppliedRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	index, err := h.service.ListApplied(context.Background(), req.CharacterID)
	if err != nil {
		content := fmt.Sprintf("❌ Failed to read applied archetypes: %v", err)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	if len(index) == 0 {
		content := "📝 No archetypes applied to this character."
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	classTags := make([]string, 0, len(index))
	for classTag := range index {
		classTags = append(classTags, classTag)
	}
	sort.Strings(classTags)

	var sb strings.Builder
	for _, classTag := range classTags {
		sb.WriteString(fmt.Sprintf("**%s**: %s\n", classTag, strings.Join(index[classTag], ", ")))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🗂️ Applied Archetypes",
		Description: sb.String(),
		Color:       0x2ecc71,
	}
	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}
