package archetype

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type PreviewRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	CharacterID string
	ClassTag    string
	Slug        string
}

type PreviewHandler struct {
	service archetypeService.Service
}

func NewPreviewHandler(service archetypeService.Service) *PreviewHandler {
	return &PreviewHandler{service: service}
}

func (h *PreviewHandler) Handle(req *PreviewRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	preview, err := h.service.PreviewArchetype(context.Background(), &archetypeService.ResolveInput{
		CharacterID: req.CharacterID,
		ClassTag:    req.ClassTag,
		Slug:        req.Slug,
	})
	if err != nil {
		content := fmt.Sprintf("❌ Failed to preview archetype: %v", err)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	embed := BuildPreviewEmbed(preview)
	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}

// BuildPreviewEmbed renders a diff the way players read level tables:
// change markers first, additive entries last.
func BuildPreviewEmbed(preview *archetypeService.Preview) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🔍 %s", preview.Archetype.Name),
		Color: 0x9b59b6,
	}

	var sb strings.Builder
	for _, entry := range preview.Diff {
		switch entry.Status {
		case arch.DiffRemoved:
			sb.WriteString(fmt.Sprintf("➖ ~~%s~~ (level %d)\n", entry.Name, entry.Level))
		case arch.DiffAdded:
			sb.WriteString(fmt.Sprintf("➕ **%s** (level %d)\n", entry.Name, entry.Level))
		case arch.DiffModified:
			sb.WriteString(fmt.Sprintf("✏️ **%s** modifies %s (level %d)\n", entry.Name, entry.Original.Name, entry.Level))
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("No changes to the current progression.")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Changes",
		Value: sb.String(),
	})

	if len(preview.Conflicts) > 0 {
		var cb strings.Builder
		for _, conflict := range preview.Conflicts {
			cb.WriteString(fmt.Sprintf("⚠️ **%s** is already changed by %s\n",
				conflict.TargetName, strings.Join(conflict.ConflictingSlugs, ", ")))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Conflicts",
			Value: cb.String(),
		})
	}

	if len(preview.Unresolved) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Needs Input",
			Value: fmt.Sprintf("❓ %s", strings.Join(preview.Unresolved, ", ")),
		})
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Unresolved features block apply until a fix is submitted",
		}
	}

	return embed
}
