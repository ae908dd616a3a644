package archetype

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/pathbinder/archetype-bot/internal/errors"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type RemoveRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	CharacterID string
	ClassTag    string
	Slug        string
}

type RemoveHandler struct {
	service archetypeService.Service
}

func NewRemoveHandler(service archetypeService.Service) *RemoveHandler {
	return &RemoveHandler{service: service}
}

func (h *RemoveHandler) Handle(req *RemoveRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	err = h.service.RemoveArchetype(context.Background(), &archetypeService.RemoveInput{
		CharacterID: req.CharacterID,
		UserID:      userID(req.Interaction),
		ClassTag:    req.ClassTag,
		Slug:        req.Slug,
	})
	if err != nil {
		content := removeErrorMessage(err, req.Slug)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	content := fmt.Sprintf("✅ Removed **%s**. The original features are back in place.", req.Slug)
	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

func removeErrorMessage(err error, slug string) string {
	switch {
	case errors.IsNotFound(err):
		return fmt.Sprintf("❌ **%s** is not applied to this class.", slug)
	case errors.IsPermissionDenied(err):
		return "❌ You don't have permission to edit this character."
	case errors.IsUnavailable(err):
		return "⏳ Another change to this class is in progress. Try again in a moment."
	default:
		return fmt.Sprintf("❌ Failed to remove archetype: %v", err)
	}
}
