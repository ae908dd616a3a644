package archetype

//go:generate mockgen -destination=mock/mock_service.go -package=mockarchetype -source=service.go

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pathbinder/archetype-bot/internal/clients/archetypes"
	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/domain/character"
	"github.com/pathbinder/archetype-bot/internal/errors"
	"github.com/pathbinder/archetype-bot/internal/notifications"
	"github.com/pathbinder/archetype-bot/internal/repositories/characters"
	"github.com/pathbinder/archetype-bot/internal/repositories/overrides"
	"github.com/pathbinder/archetype-bot/internal/repositories/state"
	"github.com/pathbinder/archetype-bot/internal/uuid"
)

// TimeProvider abstracts the clock for deterministic tests
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now().UTC() }

// PermissionChecker gates mutations on characters and override tiers
type PermissionChecker interface {
	// CanEditCharacter reports whether userID may mutate this character
	CanEditCharacter(ctx context.Context, userID string, char *character.Character) bool

	// CanCurate reports whether userID may write the curated and
	// reported fix tiers
	CanCurate(ctx context.Context, userID string) bool
}

// Resolution is a user-supplied answer for a feature the classifier could
// not place: either mark it additive or point it at a concrete target.
type Resolution struct {
	Additive bool
	Type     arch.ChangeType
	Target   *arch.FeatureAssociation
}

// TargetResolver is a pluggable capability asked to disambiguate features
// that still need user input. A nil resolver, a nil resolution, or an
// error all leave the feature unresolved.
type TargetResolver interface {
	Resolve(ctx context.Context, feature *arch.ParsedFeature, candidates []arch.FeatureAssociation) (*Resolution, error)
}

// Service is the archetype resolution and application engine
type Service interface {
	// ListArchetypes returns the content source's archetypes for a class.
	// An unavailable content source yields an empty list, not an error.
	ListArchetypes(ctx context.Context, class string) ([]*arch.RawArchetype, error)

	// ResolveArchetype turns a raw archetype into a ParsedArchetype
	// against a character class's current feature progression
	ResolveArchetype(ctx context.Context, input *ResolveInput) (*arch.ParsedArchetype, error)

	// PreviewArchetype resolves, diffs, and conflict-checks an archetype
	// without mutating anything
	PreviewArchetype(ctx context.Context, input *ResolveInput) (*Preview, error)

	// ApplyArchetype applies an archetype to a character class
	ApplyArchetype(ctx context.Context, input *ApplyInput) (*ApplyResult, error)

	// RemoveArchetype reverts exactly one previously-applied archetype
	RemoveArchetype(ctx context.Context, input *RemoveInput) error

	// ListApplied returns the character's class-to-archetypes summary
	ListApplied(ctx context.Context, characterID string) (arch.ActorArchetypeIndex, error)

	// SubmitOverride writes a fix record to an override tier
	SubmitOverride(ctx context.Context, input *SubmitOverrideInput) error

	// ReportMissing records a feature stub in the reported-missing tier
	ReportMissing(ctx context.Context, input *ReportMissingInput) error
}

// ResolveInput identifies an archetype and the class to resolve it against
type ResolveInput struct {
	CharacterID string
	ClassTag    string
	Slug        string
}

// Preview is the read-only result of resolving and diffing an archetype
type Preview struct {
	Archetype *arch.ParsedArchetype
	Diff      []arch.DiffEntry
	Conflicts []arch.Conflict

	// Unresolved names the features still needing user input
	Unresolved []string
}

// ApplyInput contains data for applying an archetype
type ApplyInput struct {
	CharacterID string
	UserID      string
	ClassTag    string
	Slug        string

	// Force applies despite conflicts with already-applied archetypes
	Force bool
}

// ApplyResult reports what an apply changed
type ApplyResult struct {
	Progression []arch.FeatureAssociation
	Record      *arch.AppliedArchetypeRecord
	Conflicts   []arch.Conflict
}

// RemoveInput contains data for removing an applied archetype
type RemoveInput struct {
	CharacterID string
	UserID      string
	ClassTag    string
	Slug        string
}

// SubmitOverrideInput contains a fix record destined for one tier
type SubmitOverrideInput struct {
	UserID string
	Tier   overrides.Tier
	Slug   string
	Record *overrides.Record
}

// ReportMissingInput flags an archetype feature as missing a fix
type ReportMissingInput struct {
	UserID      string
	Slug        string
	Class       string
	FeatureName string
}

type service struct {
	characterRepo  characters.Repository
	stateRepo      state.Repository
	overrideRepo   overrides.Repository
	contentClient  archetypes.Client
	notifier       notifications.Notifier
	permissions    PermissionChecker
	targetResolver TargetResolver
	uuidGenerator  uuid.Generator
	timeProvider   TimeProvider
	inflight       *inflightGuard
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	CharacterRepository characters.Repository // Required
	StateRepository     state.Repository      // Required
	OverrideRepository  overrides.Repository  // Required
	ContentClient       archetypes.Client     // Required
	Notifier            notifications.Notifier
	Permissions         PermissionChecker
	TargetResolver      TargetResolver // Optional
	UUIDGenerator       uuid.Generator // Optional, will use default if nil
	TimeProvider        TimeProvider   // Optional, will use default if nil
}

// NewService creates a new archetype service
func NewService(cfg *ServiceConfig) Service {
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.StateRepository == nil {
		panic("state repository is required")
	}
	if cfg.OverrideRepository == nil {
		panic("override repository is required")
	}
	if cfg.ContentClient == nil {
		panic("content client is required")
	}

	svc := &service{
		characterRepo:  cfg.CharacterRepository,
		stateRepo:      cfg.StateRepository,
		overrideRepo:   cfg.OverrideRepository,
		contentClient:  cfg.ContentClient,
		notifier:       cfg.Notifier,
		permissions:    cfg.Permissions,
		targetResolver: cfg.TargetResolver,
		uuidGenerator:  cfg.UUIDGenerator,
		timeProvider:   cfg.TimeProvider,
		inflight:       newInflightGuard(),
	}
	if svc.notifier == nil {
		svc.notifier = notifications.NewLogNotifier()
	}
	if svc.permissions == nil {
		svc.permissions = NewOwnerPermissionChecker(nil)
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = realTimeProvider{}
	}

	return svc
}

// ListArchetypes tolerates content source failure: the caller gets an
// empty list and the system keeps running in override-only mode.
func (s *service) ListArchetypes(ctx context.Context, class string) ([]*arch.RawArchetype, error) {
	result, err := s.contentClient.ListArchetypes(ctx, class)
	if err != nil {
		log.Printf("content source unavailable, continuing in override-only mode: %v", err)
		return []*arch.RawArchetype{}, nil
	}
	return result, nil
}

func (s *service) ListApplied(ctx context.Context, characterID string) (arch.ActorArchetypeIndex, error) {
	index, err := s.stateRepo.GetActorIndex(ctx, characterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read applied archetypes")
	}
	if index == nil {
		index = arch.ActorArchetypeIndex{}
	}
	return index, nil
}

func (s *service) SubmitOverride(ctx context.Context, input *SubmitOverrideInput) error {
	if input == nil || input.Slug == "" || input.Record == nil {
		return errors.InvalidArgument("override submission requires a slug and a record")
	}

	if input.Tier != overrides.TierUser && !s.permissions.CanCurate(ctx, input.UserID) {
		err := errors.PermissionDeniedf("user %s may not write the %s tier", input.UserID, input.Tier)
		s.notifier.Error(ctx, err.Error())
		return err
	}

	if err := s.overrideRepo.Set(ctx, input.Tier, input.Slug, input.Record); err != nil {
		s.notifier.Error(ctx, fmt.Sprintf("failed to store override for %s: %v", input.Slug, err))
		return errors.Wrap(err, "failed to store override")
	}

	s.notifier.Info(ctx, fmt.Sprintf("Stored %s override for archetype %s", input.Tier, input.Slug))
	return nil
}

func (s *service) ReportMissing(ctx context.Context, input *ReportMissingInput) error {
	if input == nil || input.Slug == "" || input.FeatureName == "" {
		return errors.InvalidArgument("missing-feature report requires a slug and a feature name")
	}

	record, err := s.overrideRepo.Get(ctx, overrides.TierReported, input.Slug)
	if err != nil {
		return errors.Wrap(err, "failed to read reported tier")
	}
	if record == nil {
		record = &overrides.Record{
			Class:    input.Class,
			Features: make(map[string]*overrides.FeatureFix),
		}
	}
	if record.Features == nil {
		record.Features = make(map[string]*overrides.FeatureFix)
	}

	featureSlug := arch.Slugify(input.FeatureName)
	if _, reported := record.Features[featureSlug]; !reported {
		record.Features[featureSlug] = &overrides.FeatureFix{}
	}

	if err := s.overrideRepo.Set(ctx, overrides.TierReported, input.Slug, record); err != nil {
		return errors.Wrap(err, "failed to store missing-feature report")
	}

	s.notifier.Info(ctx, fmt.Sprintf("Reported %q on archetype %s as missing a fix", input.FeatureName, input.Slug))
	return nil
}

// OwnerPermissionChecker allows a character's owner to edit it and a fixed
// curator list to write the privileged fix tiers.
type OwnerPermissionChecker struct {
	curators map[string]bool
}

// NewOwnerPermissionChecker creates the default permission checker
func NewOwnerPermissionChecker(curators []string) *OwnerPermissionChecker {
	set := make(map[string]bool, len(curators))
	for _, id := range curators {
		set[id] = true
	}
	return &OwnerPermissionChecker{curators: set}
}

// CanEditCharacter allows the owner and curators
func (p *OwnerPermissionChecker) CanEditCharacter(_ context.Context, userID string, char *character.Character) bool {
	if char == nil {
		return false
	}
	return char.OwnerID == userID || p.curators[userID]
}

// CanCurate allows only the configured curator list
func (p *OwnerPermissionChecker) CanCurate(_ context.Context, userID string) bool {
	return p.curators[userID]
}
