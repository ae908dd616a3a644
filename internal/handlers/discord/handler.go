package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
	archetypeHandler "github.com/pathbinder/archetype-bot/internal/handlers/discord/archetype"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

// Handler handles all Discord interactions
type Handler struct {
	archetypeListHandler    *archetypeHandler.ListHandler
	archetypePreviewHandler *archetypeHandler.PreviewHandler
	archetypeApplyHandler   *archetypeHandler.ApplyHandler
	archetypeRemoveHandler  *archetypeHandler.RemoveHandler
	archetypeAppliedHandler *archetypeHandler.AppliedHandler
	archetypeReportHandler  *archetypeHandler.ReportHandler
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ArchetypeService archetypeService.Service
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	return &Handler{
		archetypeListHandler:    archetypeHandler.NewListHandler(cfg.ArchetypeService),
		archetypePreviewHandler: archetypeHandler.NewPreviewHandler(cfg.ArchetypeService),
		archetypeApplyHandler:   archetypeHandler.NewApplyHandler(cfg.ArchetypeService),
		archetypeRemoveHandler:  archetypeHandler.NewRemoveHandler(cfg.ArchetypeService),
		archetypeAppliedHandler: archetypeHandler.NewAppliedHandler(cfg.ArchetypeService),
		archetypeReportHandler:  archetypeHandler.NewReportHandler(cfg.ArchetypeService),
	}
}

// RegisterCommands registers the /archetype slash command
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "archetype",
			Description: "Archetype resolution and application commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "list",
					Description: "List archetypes available for a class",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "class",
							Description: "Class tag, e.g. fighter",
							Required:    true,
						},
					},
				},
				{
					Name:        "preview",
					Description: "Preview what an archetype changes without applying it",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "character",
							Description: "Character ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "class",
							Description: "Class tag the archetype modifies",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "archetype",
							Description: "Archetype slug",
							Required:    true,
						},
					},
				},
				{
					Name:        "apply",
					Description: "Apply an archetype to a character class",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "character",
							Description: "Character ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "class",
							Description: "Class tag the archetype modifies",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "archetype",
							Description: "Archetype slug",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "force",
							Description: "Apply even if it conflicts with applied archetypes",
							Required:    false,
						},
					},
				},
				{
					Name:        "remove",
					Description: "Remove an applied archetype and restore the original features",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "character",
							Description: "Character ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "class",
							Description: "Class tag the archetype was applied to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "archetype",
							Description: "Archetype slug",
							Required:    true,
						},
					},
				},
				{
					Name:        "applied",
					Description: "Show every archetype applied to a character",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "character",
							Description: "Character ID",
							Required:    true,
						},
					},
				},
				{
					Name:        "report",
					Description: "Report an archetype feature as needing a manual fix",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "archetype",
							Description: "Archetype slug",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "class",
							Description: "Class the archetype belongs to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "feature",
							Description: "Feature name needing a fix",
							Required:    true,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

// HandleInteraction routes Discord interactions to their handlers
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.handleCommand(s, i)
}

func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "archetype" || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)

	var err error
	switch sub.Name {
	case "list":
		err = h.archetypeListHandler.Handle(&archetypeHandler.ListRequest{
			Session:     s,
			Interaction: i,
			Class:       stringOption(opts, "class"),
		})
	case "preview":
		err = h.archetypePreviewHandler.Handle(&archetypeHandler.PreviewRequest{
			Session:     s,
			Interaction: i,
			CharacterID: stringOption(opts, "character"),
			ClassTag:    stringOption(opts, "class"),
			Slug:        stringOption(opts, "archetype"),
		})
	case "apply":
		err = h.archetypeApplyHandler.Handle(&archetypeHandler.ApplyRequest{
			Session:     s,
			Interaction: i,
			CharacterID: stringOption(opts, "character"),
			ClassTag:    stringOption(opts, "class"),
			Slug:        stringOption(opts, "archetype"),
			Force:       boolOption(opts, "force"),
		})
	case "remove":
		err = h.archetypeRemoveHandler.Handle(&archetypeHandler.RemoveRequest{
			Session:     s,
			Interaction: i,
			CharacterID: stringOption(opts, "character"),
			ClassTag:    stringOption(opts, "class"),
			Slug:        stringOption(opts, "archetype"),
		})
	case "applied":
		err = h.archetypeAppliedHandler.Handle(&archetypeHandler.AppliedRequest{
			Session:     s,
			Interaction: i,
			CharacterID: stringOption(opts, "character"),
		})
	case "report":
		err = h.archetypeReportHandler.Handle(&archetypeHandler.ReportRequest{
			Session:     s,
			Interaction: i,
			Slug:        stringOption(opts, "archetype"),
			Class:       stringOption(opts, "class"),
			FeatureName: stringOption(opts, "feature"),
		})
	}
	if err != nil {
		log.Printf("Error handling /archetype %s: %v", sub.Name, err)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if opt, ok := opts[name]; ok {
		return opt.BoolValue()
	}
	return false
}
