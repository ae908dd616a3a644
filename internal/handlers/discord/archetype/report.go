package archetype

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type ReportRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Slug        string
	Class       string
	FeatureName string
}

type ReportHandler struct {
	service archetypeService.Service
}

func NewReportHandler(service archetypeService.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Handle(req *ReportRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	err = h.service.ReportMissing(context.Background(), &archetypeService.ReportMissingInput{
		UserID:      userID(req.Interaction),
		Slug:        req.Slug,
		Class:       req.Class,
		FeatureName: req.FeatureName,
	})
	if err != nil {
		content := fmt.Sprintf("❌ Failed to file the report: %v", err)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	content := fmt.Sprintf("✅ Reported **%s** on `%s` as needing a fix. A curator will pick it up.", req.FeatureName, req.Slug)
	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}
