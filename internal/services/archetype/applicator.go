package archetype

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	arch "github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/errors"
)

// inflightGuard rejects re-entrant apply/remove on the same class holder.
// The progression is mutated read-modify-write; interleaving two
// mutations would corrupt the diff, so the second caller is rejected
// immediately rather than queued. Different class holders proceed
// independently.
type inflightGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{busy: make(map[string]bool)}
}

func (g *inflightGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[key] {
		return false
	}
	g.busy[key] = true
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	delete(g.busy, key)
	g.mu.Unlock()
}

func holderKey(characterID, classTag string) string {
	return characterID + ":" + classTag
}

func (s *service) ApplyArchetype(ctx context.Context, input *ApplyInput) (*ApplyResult, error) {
	if input == nil || input.CharacterID == "" || input.ClassTag == "" || input.Slug == "" {
		return nil, errors.InvalidArgument("apply requires a character, class tag, and archetype slug")
	}

	key := holderKey(input.CharacterID, input.ClassTag)
	if !s.inflight.acquire(key) {
		return nil, s.fail(ctx, errors.Unavailable("another apply or remove is in progress for this class"))
	}
	defer s.inflight.release(key)

	char, err := s.characterRepo.Get(ctx, input.CharacterID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if !s.permissions.CanEditCharacter(ctx, input.UserID, char) {
		return nil, s.fail(ctx, errors.PermissionDeniedf("user %s may not edit character %s", input.UserID, char.Name))
	}
	class := char.Class(input.ClassTag)
	if class == nil {
		return nil, s.fail(ctx, errors.NotFoundf("character %s has no %s class", char.Name, input.ClassTag))
	}

	st, err := s.stateRepo.GetClassState(ctx, input.CharacterID, input.ClassTag)
	if err != nil {
		return nil, s.fail(ctx, errors.Wrap(err, "failed to read archetype state"))
	}
	if st.HasArchetype(input.Slug) {
		return nil, s.fail(ctx, errors.AlreadyExistsf("archetype %s is already applied to %s's %s", input.Slug, char.Name, class.Name))
	}

	parsed, err := s.resolveAgainst(ctx, input.Slug, class.Features)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if unresolved := unresolvedNames(parsed); len(unresolved) > 0 {
		err := errors.InvalidArgumentf("archetype %s has features that need manual resolution", input.Slug).
			WithMeta("features", unresolved)
		return nil, s.fail(ctx, err)
	}

	conflicts := s.conflictsWith(parsed, st)
	if len(conflicts) > 0 && !input.Force {
		err := errors.Conflictf("archetype %s contends for features already changed by %s", input.Slug, conflictSlugs(conflicts)).
			WithMeta("conflicts", conflicts)
		return nil, s.fail(ctx, err)
	}

	diff := arch.BuildDiff(class.Features, parsed)
	now := s.timeProvider.Now()
	newProgression, record := s.buildApplication(diff, class.Features, parsed.Slug, now)

	// Construct the full new state before committing anything.
	newState := nextStateAfterApply(st, class.Features, record, now)

	oldProgression := class.Features
	class.Features = newProgression
	if err := s.characterRepo.Update(ctx, char); err != nil {
		class.Features = oldProgression
		return nil, s.fail(ctx, errors.Wrap(err, "failed to persist new progression"))
	}

	if err := s.stateRepo.SetClassState(ctx, input.CharacterID, input.ClassTag, newState); err != nil {
		// Roll the progression back so no partial state is retained.
		// The character and state stores are separate, so if this
		// rollback write also fails an untracked progression can
		// persist until the next successful apply or a manual fix.
		class.Features = oldProgression
		if rbErr := s.characterRepo.Update(ctx, char); rbErr != nil {
			log.Printf("rollback of progression for %s failed: %v", key, rbErr)
		}
		return nil, s.fail(ctx, errors.Wrap(err, "failed to persist archetype state"))
	}

	if err := s.updateActorIndex(ctx, input.CharacterID, input.ClassTag, newState.Archetypes); err != nil {
		log.Printf("actor index update for %s failed: %v", key, err)
	}

	if len(conflicts) > 0 {
		s.notifier.Warn(ctx, fmt.Sprintf("Applied %s despite conflicts with %s", parsed.Name, conflictSlugs(conflicts)))
	} else {
		s.notifier.Info(ctx, fmt.Sprintf("Applied archetype %s to %s's %s", parsed.Name, char.Name, class.Name))
	}

	return &ApplyResult{
		Progression: newProgression,
		Record:      record,
		Conflicts:   conflicts,
	}, nil
}

func (s *service) RemoveArchetype(ctx context.Context, input *RemoveInput) error {
	if input == nil || input.CharacterID == "" || input.ClassTag == "" || input.Slug == "" {
		return errors.InvalidArgument("remove requires a character, class tag, and archetype slug")
	}

	key := holderKey(input.CharacterID, input.ClassTag)
	if !s.inflight.acquire(key) {
		return s.fail(ctx, errors.Unavailable("another apply or remove is in progress for this class"))
	}
	defer s.inflight.release(key)

	char, err := s.characterRepo.Get(ctx, input.CharacterID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if !s.permissions.CanEditCharacter(ctx, input.UserID, char) {
		return s.fail(ctx, errors.PermissionDeniedf("user %s may not edit character %s", input.UserID, char.Name))
	}
	class := char.Class(input.ClassTag)
	if class == nil {
		return s.fail(ctx, errors.NotFoundf("character %s has no %s class", char.Name, input.ClassTag))
	}

	st, err := s.stateRepo.GetClassState(ctx, input.CharacterID, input.ClassTag)
	if err != nil {
		return s.fail(ctx, errors.Wrap(err, "failed to read archetype state"))
	}
	if !st.HasArchetype(input.Slug) {
		return s.fail(ctx, errors.NotFoundf("archetype %s is not applied to %s's %s", input.Slug, char.Name, class.Name))
	}

	record := st.Records[input.Slug]
	if record == nil {
		return s.fail(ctx, errors.Internalf("archetype %s has no application record", input.Slug))
	}

	newProgression := invertApplication(class.Features, record)
	newState := nextStateAfterRemove(st, input.Slug)

	oldProgression := class.Features
	class.Features = newProgression
	if err := s.characterRepo.Update(ctx, char); err != nil {
		class.Features = oldProgression
		return s.fail(ctx, errors.Wrap(err, "failed to persist restored progression"))
	}

	if newState.Empty() {
		err = s.stateRepo.UnsetClassState(ctx, input.CharacterID, input.ClassTag)
	} else {
		err = s.stateRepo.SetClassState(ctx, input.CharacterID, input.ClassTag, newState)
	}
	if err != nil {
		class.Features = oldProgression
		if rbErr := s.characterRepo.Update(ctx, char); rbErr != nil {
			log.Printf("rollback of progression for %s failed: %v", key, rbErr)
		}
		return s.fail(ctx, errors.Wrap(err, "failed to persist archetype state"))
	}

	if err := s.updateActorIndex(ctx, input.CharacterID, input.ClassTag, newState.Archetypes); err != nil {
		log.Printf("actor index update for %s failed: %v", key, err)
	}

	s.notifier.Info(ctx, fmt.Sprintf("Removed archetype %s from %s's %s", input.Slug, char.Name, class.Name))
	return nil
}

// buildApplication turns a diff into the new progression and the delta
// record sufficient to invert this archetype later. Removed originals are
// recorded with their position in the pre-apply progression so removal
// can put them back in place.
func (s *service) buildApplication(diff []arch.DiffEntry, progression []arch.FeatureAssociation, slug string, now time.Time) ([]arch.FeatureAssociation, *arch.AppliedArchetypeRecord) {
	positions := make(map[string]int, len(progression))
	for i, assoc := range progression {
		positions[assoc.ID] = i
	}

	record := &arch.AppliedArchetypeRecord{
		Slug:      slug,
		AppliedAt: now,
	}

	newProgression := make([]arch.FeatureAssociation, 0, len(diff))
	for i := range diff {
		entry := &diff[i]
		switch entry.Status {
		case arch.DiffUnchanged:
			newProgression = append(newProgression, *entry.Original)

		case arch.DiffRemoved:
			record.RemovedOriginals = append(record.RemovedOriginals, arch.RemovedOriginal{
				Association: *entry.Original,
				Index:       positions[entry.Original.ID],
			})

		case arch.DiffModified:
			record.RemovedOriginals = append(record.RemovedOriginals, arch.RemovedOriginal{
				Association: *entry.Original,
				Index:       positions[entry.Original.ID],
			})
			newProgression = append(newProgression, s.mintAssociation(entry, record))

		case arch.DiffAdded:
			newProgression = append(newProgression, s.mintAssociation(entry, record))
		}
	}

	return newProgression, record
}

func (s *service) mintAssociation(entry *arch.DiffEntry, record *arch.AppliedArchetypeRecord) arch.FeatureAssociation {
	level := entry.Level
	if entry.ArchetypeFeature != nil && entry.ArchetypeFeature.Level > 0 {
		level = entry.ArchetypeFeature.Level
	}
	assoc := arch.FeatureAssociation{
		ID:    s.uuidGenerator.New(),
		Level: level,
		Name:  entry.Name,
	}
	record.AddedAssociationIDs = append(record.AddedAssociationIDs, assoc.ID)
	return assoc
}

// invertApplication undoes exactly one archetype's delta: minted
// associations go away and removed originals return to their recorded
// positions, clamped to the list when stacked archetypes shifted it.
func invertApplication(progression []arch.FeatureAssociation, record *arch.AppliedArchetypeRecord) []arch.FeatureAssociation {
	added := make(map[string]bool, len(record.AddedAssociationIDs))
	for _, id := range record.AddedAssociationIDs {
		added[id] = true
	}

	result := make([]arch.FeatureAssociation, 0, len(progression)+len(record.RemovedOriginals))
	for _, assoc := range progression {
		if !added[assoc.ID] {
			result = append(result, assoc)
		}
	}

	removed := append([]arch.RemovedOriginal(nil), record.RemovedOriginals...)
	sort.Slice(removed, func(i, j int) bool { return removed[i].Index < removed[j].Index })

	for _, original := range removed {
		at := original.Index
		if at > len(result) {
			at = len(result)
		}
		result = append(result, arch.FeatureAssociation{})
		copy(result[at+1:], result[at:])
		result[at] = original.Association
	}

	return result
}

// nextStateAfterApply produces the full post-apply tracking state. The
// original progression is snapshotted only on the first apply; stacked
// applies leave the backup untouched and refresh the timestamp.
func nextStateAfterApply(st *arch.ClassArchetypeState, progression []arch.FeatureAssociation, record *arch.AppliedArchetypeRecord, now time.Time) *arch.ClassArchetypeState {
	next := &arch.ClassArchetypeState{
		AppliedAt: &now,
		Records:   map[string]*arch.AppliedArchetypeRecord{record.Slug: record},
	}

	if st.Empty() {
		next.Archetypes = []string{record.Slug}
		next.OriginalAssociations = append([]arch.FeatureAssociation(nil), progression...)
		return next
	}

	next.Archetypes = append(append([]string(nil), st.Archetypes...), record.Slug)
	next.OriginalAssociations = st.OriginalAssociations
	for slug, existing := range st.Records {
		next.Records[slug] = existing
	}
	return next
}

// nextStateAfterRemove drops one archetype from the tracking state. When
// the last archetype goes, the whole state empties for full teardown.
func nextStateAfterRemove(st *arch.ClassArchetypeState, slug string) *arch.ClassArchetypeState {
	next := &arch.ClassArchetypeState{}

	for _, applied := range st.Archetypes {
		if applied != slug {
			next.Archetypes = append(next.Archetypes, applied)
		}
	}
	if len(next.Archetypes) == 0 {
		return next
	}

	next.OriginalAssociations = st.OriginalAssociations
	next.AppliedAt = st.AppliedAt
	next.Records = make(map[string]*arch.AppliedArchetypeRecord, len(st.Records))
	for existing, record := range st.Records {
		if existing != slug {
			next.Records[existing] = record
		}
	}
	return next
}

// PreviewArchetype resolves and diffs without mutating anything.
func (s *service) PreviewArchetype(ctx context.Context, input *ResolveInput) (*Preview, error) {
	if input == nil || input.CharacterID == "" || input.ClassTag == "" || input.Slug == "" {
		return nil, errors.InvalidArgument("preview requires a character, class tag, and archetype slug")
	}

	char, err := s.characterRepo.Get(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	class := char.Class(input.ClassTag)
	if class == nil {
		return nil, errors.NotFoundf("character %s has no %s class", char.Name, input.ClassTag)
	}

	parsed, err := s.resolveAgainst(ctx, input.Slug, class.Features)
	if err != nil {
		return nil, err
	}

	st, err := s.stateRepo.GetClassState(ctx, input.CharacterID, input.ClassTag)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read archetype state")
	}

	return &Preview{
		Archetype:  parsed,
		Diff:       arch.BuildDiff(class.Features, parsed),
		Conflicts:  s.conflictsWith(parsed, st),
		Unresolved: unresolvedNames(parsed),
	}, nil
}

// conflictsWith re-matches the candidate against the pristine
// pre-archetype progression so targets an earlier archetype already
// removed still register, keeping the check symmetric.
func (s *service) conflictsWith(parsed *arch.ParsedArchetype, st *arch.ClassArchetypeState) []arch.Conflict {
	if st.Empty() || len(st.OriginalAssociations) == 0 {
		return nil
	}

	baseline := &arch.ParsedArchetype{
		Slug:  parsed.Slug,
		Name:  parsed.Name,
		Class: parsed.Class,
	}
	for _, feature := range parsed.Features {
		rematched := feature
		if feature.Type == arch.ChangeReplacement || feature.Type == arch.ChangeModification {
			rematched.Matched = arch.MatchTarget(st.OriginalAssociations, feature.Target, feature.Level)
		}
		baseline.Features = append(baseline.Features, rematched)
	}

	diff := arch.BuildDiff(st.OriginalAssociations, baseline)
	return arch.CheckConflicts(diff, st.Records)
}

// updateActorIndex mirrors a class's applied slugs into the actor-level
// summary, dropping empty keys and the index itself when nothing is left.
func (s *service) updateActorIndex(ctx context.Context, actorID, classTag string, slugs []string) error {
	index, err := s.stateRepo.GetActorIndex(ctx, actorID)
	if err != nil {
		return err
	}
	if index == nil {
		index = arch.ActorArchetypeIndex{}
	}

	if len(slugs) == 0 {
		delete(index, classTag)
	} else {
		index[classTag] = append([]string(nil), slugs...)
	}

	if len(index) == 0 {
		return s.stateRepo.UnsetActorIndex(ctx, actorID)
	}
	return s.stateRepo.SetActorIndex(ctx, actorID, index)
}

func (s *service) fail(ctx context.Context, err error) error {
	s.notifier.Error(ctx, err.Error())
	return err
}

func conflictSlugs(conflicts []arch.Conflict) string {
	set := make(map[string]bool)
	for _, conflict := range conflicts {
		for _, slug := range conflict.ConflictingSlugs {
			set[slug] = true
		}
	}
	slugs := make([]string, 0, len(set))
	for slug := range set {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return fmt.Sprint(slugs)
}
