package archetype

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pathbinder/archetype-bot/internal/errors"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

type ApplyRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	CharacterID string
	ClassTag    string
	Slug        string
	Force       bool
}

type ApplyHandler struct {
	service archetypeService.Service
}

func NewApplyHandler(service archetypeService.Service) *ApplyHandler {
	return &ApplyHandler{service: service}
}

func (h *ApplyHandler) Handle(req *ApplyRequest) error {
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	result, err := h.service.ApplyArchetype(context.Background(), &archetypeService.ApplyInput{
		CharacterID: req.CharacterID,
		UserID:      userID(req.Interaction),
		ClassTag:    req.ClassTag,
		Slug:        req.Slug,
		Force:       req.Force,
	})
	if err != nil {
		content := applyErrorMessage(err, req.Slug)
		_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Applied **%s**.\n\n", req.Slug))
	sb.WriteString("**New progression:**\n")
	for _, assoc := range result.Progression {
		sb.WriteString(fmt.Sprintf("• %s (level %d)\n", assoc.Name, assoc.Level))
	}
	if len(result.Conflicts) > 0 {
		sb.WriteString("\n⚠️ Applied despite conflicts:\n")
		for _, conflict := range result.Conflicts {
			sb.WriteString(fmt.Sprintf("• %s vs %s\n", conflict.TargetName, strings.Join(conflict.ConflictingSlugs, ", ")))
		}
	}

	content := sb.String()
	_, err = req.Session.InteractionResponseEdit(req.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

func applyErrorMessage(err error, slug string) string {
	switch {
	case errors.IsConflict(err):
		return fmt.Sprintf("⚠️ **%s** conflicts with an archetype already applied. Re-run with `force: true` to stack them anyway.", slug)
	case errors.IsAlreadyExists(err):
		return fmt.Sprintf("❌ **%s** is already applied to this class.", slug)
	case errors.IsInvalidArgument(err):
		if features, ok := errors.GetMeta(err)["features"].([]string); ok {
			return fmt.Sprintf("❓ These features need manual resolution first: %s. Submit a fix with `/archetype fix`.", strings.Join(features, ", "))
		}
		return fmt.Sprintf("❌ %v", err)
	case errors.IsPermissionDenied(err):
		return "❌ You don't have permission to edit this character."
	case errors.IsNotFound(err):
		return fmt.Sprintf("❌ %v", err)
	case errors.IsUnavailable(err):
		return "⏳ Another change to this class is in progress. Try again in a moment."
	default:
		return fmt.Sprintf("❌ Failed to apply archetype: %v", err)
	}
}

func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
