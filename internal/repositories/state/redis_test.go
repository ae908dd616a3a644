package state

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func testState() *archetype.ClassArchetypeState {
	appliedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &archetype.ClassArchetypeState{
		Archetypes: []string{"two-handed-fighter"},
		OriginalAssociations: []archetype.FeatureAssociation{
			{ID: "1", Level: 2, Name: "Bravery"},
		},
		AppliedAt: &appliedAt,
		Records: map[string]*archetype.AppliedArchetypeRecord{
			"two-handed-fighter": {
				Slug:                "two-handed-fighter",
				AppliedAt:           appliedAt,
				AddedAssociationIDs: []string{"new-1"},
				RemovedOriginals: []archetype.RemovedOriginal{
					{Association: archetype.FeatureAssociation{ID: "1", Level: 2, Name: "Bravery"}, Index: 0},
				},
			},
		},
	}
}

func (s *RedisRepoTestSuite) TestSetClassState() {
	st := testState()
	data, err := json.Marshal(st)
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("archetype:state:actor-1:fighter", data, 0).SetVal("OK")
	s.mock.ExpectSAdd("archetype:classes:actor-1", "fighter").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.SetClassState(context.Background(), "actor-1", "fighter", st))
}

func (s *RedisRepoTestSuite) TestGetClassState() {
	st := testState()
	data, err := json.Marshal(st)
	s.Require().NoError(err)

	s.mock.ExpectGet("archetype:state:actor-1:fighter").SetVal(string(data))

	got, err := s.repo.GetClassState(context.Background(), "actor-1", "fighter")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(st.Archetypes, got.Archetypes)
	s.Equal(st.OriginalAssociations, got.OriginalAssociations)
	s.Require().NotNil(got.AppliedAt)
	s.True(st.AppliedAt.Equal(*got.AppliedAt))
	s.Len(got.Records, 1)
}

func (s *RedisRepoTestSuite) TestGetClassStateAbsent() {
	s.mock.ExpectGet("archetype:state:actor-1:rogue").RedisNil()

	got, err := s.repo.GetClassState(context.Background(), "actor-1", "rogue")
	s.NoError(err)
	s.Nil(got)
}

func (s *RedisRepoTestSuite) TestUnsetClassState() {
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("archetype:state:actor-1:fighter").SetVal(1)
	s.mock.ExpectSRem("archetype:classes:actor-1", "fighter").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.UnsetClassState(context.Background(), "actor-1", "fighter"))
}

func (s *RedisRepoTestSuite) TestActorIndexRoundTrip() {
	index := archetype.ActorArchetypeIndex{
		"fighter": {"two-handed-fighter"},
	}
	data, err := json.Marshal(index)
	s.Require().NoError(err)

	s.mock.ExpectSet("archetype:index:actor-1", data, 0).SetVal("OK")
	s.NoError(s.repo.SetActorIndex(context.Background(), "actor-1", index))

	s.mock.ExpectGet("archetype:index:actor-1").SetVal(string(data))
	got, err := s.repo.GetActorIndex(context.Background(), "actor-1")
	s.Require().NoError(err)
	s.Equal(index, got)
}

func (s *RedisRepoTestSuite) TestGetActorIndexAbsent() {
	s.mock.ExpectGet("archetype:index:actor-2").RedisNil()

	got, err := s.repo.GetActorIndex(context.Background(), "actor-2")
	s.NoError(err)
	s.Nil(got)
}

func (s *RedisRepoTestSuite) TestUnsetActorIndex() {
	s.mock.ExpectDel("archetype:index:actor-1").SetVal(1)

	s.NoError(s.repo.UnsetActorIndex(context.Background(), "actor-1"))
}
