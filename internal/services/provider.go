package services

import (
	"github.com/pathbinder/archetype-bot/internal/clients/archetypes"
	"github.com/pathbinder/archetype-bot/internal/notifications"
	"github.com/pathbinder/archetype-bot/internal/repositories/characters"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
	"github.com/pathbinder/archetype-bot/internal/repositories/state"
	archetypeService "github.com/pathbinder/archetype-bot/internal/services/archetype"
)

// Provider holds all service instances
type Provider struct {
	ArchetypeService archetypeService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	ContentClient       archetypes.Client
	CharacterRepository characters.Repository
	StateRepository     state.Repository
	OverrideRepository  overrides.Repository
	Notifier            notifications.Notifier

	// Curators may write the curated and reported fix tiers.
	Curators []string
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	stateRepo := cfg.StateRepository
	if stateRepo == nil {
		stateRepo = state.NewInMemoryRepository()
	}

	overrideRepo := cfg.OverrideRepository
	if overrideRepo == nil {
		overrideRepo = overrides.NewInMemoryRepository()
	}

	archService := archetypeService.NewService(&archetypeService.ServiceConfig{
		CharacterRepository: charRepo,
		StateRepository:     stateRepo,
		OverrideRepository:  overrideRepo,
		ContentClient:       cfg.ContentClient,
		Notifier:            cfg.Notifier,
		Permissions:         archetypeService.NewOwnerPermissionChecker(cfg.Curators),
	})

	return &Provider{
		ArchetypeService: archService,
	}
}
