package characters_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/kessel-run/starwars-api/internal/entities"
	apperr "github.com/kessel-run/starwars-api/internal/errors"
	mockidentifier "github.com/kessel-run/starwars-api/internal/identifier/mocks"
	"github.com/kessel-run/starwars-api/internal/repositories/characters"
)

const testID = "aaaabbbbccccddddeeeeffff00001111"

type RedisRepoTestSuite struct {
	suite.Suite
	mock        redismock.ClientMock
	repo        characters.Repository
	mockCtrl    *gomock.Controller
	idGenerator *mockidentifier.MockGenerator
	ctx         context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	var client *redis.Client
	client, s.mock = redismock.NewClientMock()

	s.mockCtrl = gomock.NewController(s.T())
	s.idGenerator = mockidentifier.NewMockGenerator(s.mockCtrl)
	s.repo = characters.NewRedisRepository(&characters.RedisRepoConfig{
		Client:      client,
		IDGenerator: s.idGenerator,
	})
	s.ctx = context.Background()
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) storedJSON(character *entities.Character) string {
	now := time.Now().UTC()
	data, err := json.Marshal(characters.CharacterData{
		ID:        character.ID,
		Name:      character.Name,
		Planet:    character.Planet,
		Episodes:  character.Episodes,
		Friends:   character.Friends,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestCreate_HappyPath() {
	s.idGenerator.EXPECT().New().Return(testID)

	s.mock.ExpectHSetNX("characters:names", "Han Solo", testID).SetVal(true)
	s.mock.ExpectIncr("characters:seq").SetVal(1)
	s.mock.Regexp().ExpectSet("character:"+testID, `.*Han Solo.*`, 0).SetVal("OK")
	s.mock.ExpectZAdd("characters:ids", redis.Z{Score: 1, Member: testID}).SetVal(1)

	created, err := s.repo.Create(s.ctx, &entities.Character{
		Name:     "Han Solo",
		Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
		Friends:  []string{"Luke Skywalker", "Leia Organa"},
	})
	s.Require().NoError(err)
	s.Equal(testID, created.ID)
	s.Equal("Han Solo", created.Name)
}

func (s *RedisRepoTestSuite) TestCreate_NameTaken() {
	s.idGenerator.EXPECT().New().Return(testID)

	s.mock.ExpectHSetNX("characters:names", "Han Solo", testID).SetVal(false)

	_, err := s.repo.Create(s.ctx, &entities.Character{
		Name:     "Han Solo",
		Episodes: []string{"NEWHOPE"},
	})
	s.Error(err)
	s.True(apperr.IsAlreadyExists(err))
	s.Contains(err.Error(), "Han Solo")
}

func (s *RedisRepoTestSuite) TestCreate_ReleasesNameWhenSequenceFails() {
	s.idGenerator.EXPECT().New().Return(testID)

	s.mock.ExpectHSetNX("characters:names", "Han Solo", testID).SetVal(true)
	s.mock.ExpectIncr("characters:seq").SetErr(errors.New("connection reset"))
	s.mock.ExpectHDel("characters:names", "Han Solo").SetVal(1)

	_, err := s.repo.Create(s.ctx, &entities.Character{
		Name:     "Han Solo",
		Episodes: []string{"NEWHOPE"},
	})
	s.Error(err)
	s.False(apperr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestGet_HappyPath() {
	character := &entities.Character{
		ID:       testID,
		Name:     "Leia Organa",
		Planet:   "Alderaan",
		Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
		Friends:  []string{"Luke Skywalker", "Han Solo"},
	}

	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(character))

	result, err := s.repo.Get(s.ctx, testID)
	s.Require().NoError(err)
	s.Equal(character, result)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("character:" + testID).RedisNil()

	_, err := s.repo.Get(s.ctx, testID)
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestList_FetchesWindow() {
	id1 := "11111111111111111111111111111111"
	id2 := "22222222222222222222222222222222"

	// List fetches documents concurrently
	s.mock.MatchExpectationsInOrder(false)

	s.mock.ExpectZRange("characters:ids", 1, 2).SetVal([]string{id1, id2})
	s.mock.ExpectGet("character:" + id1).SetVal(s.storedJSON(&entities.Character{
		ID: id1, Name: "Leia Organa", Episodes: []string{"NEWHOPE"},
	}))
	s.mock.ExpectGet("character:" + id2).SetVal(s.storedJSON(&entities.Character{
		ID: id2, Name: "Wilhuff Tarkin", Episodes: []string{"NEWHOPE"},
	}))

	result, err := s.repo.List(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Require().Len(result, 2)
	s.Equal("Leia Organa", result[0].Name)
	s.Equal("Wilhuff Tarkin", result[1].Name)
}

func (s *RedisRepoTestSuite) TestList_SkipsConcurrentlyDeleted() {
	id1 := "11111111111111111111111111111111"
	id2 := "22222222222222222222222222222222"

	s.mock.MatchExpectationsInOrder(false)

	s.mock.ExpectZRange("characters:ids", 0, 1).SetVal([]string{id1, id2})
	s.mock.ExpectGet("character:" + id1).RedisNil()
	s.mock.ExpectGet("character:" + id2).SetVal(s.storedJSON(&entities.Character{
		ID: id2, Name: "Wilhuff Tarkin", Episodes: []string{"NEWHOPE"},
	}))

	result, err := s.repo.List(s.ctx, 0, 2)
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Equal("Wilhuff Tarkin", result[0].Name)
}

func (s *RedisRepoTestSuite) TestList_ZeroLimit() {
	result, err := s.repo.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Empty(result)
}

func (s *RedisRepoTestSuite) TestCount() {
	s.mock.ExpectZCard("characters:ids").SetVal(4)

	count, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(4, count)
}

func (s *RedisRepoTestSuite) TestUpdate_Rename() {
	existing := &entities.Character{
		ID:       testID,
		Name:     "Darth Vader",
		Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
		Friends:  []string{"Wilhuff Tarkin"},
	}

	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(existing))
	s.mock.ExpectHSetNX("characters:names", "Anakin Skywalker", testID).SetVal(true)
	s.mock.Regexp().ExpectSet("character:"+testID, `.*Anakin Skywalker.*`, 0).SetVal("OK")
	s.mock.ExpectHDel("characters:names", "Darth Vader").SetVal(1)

	renamed := existing.Clone()
	renamed.Name = "Anakin Skywalker"

	updated, err := s.repo.Update(s.ctx, renamed)
	s.Require().NoError(err)
	s.Equal("Anakin Skywalker", updated.Name)
}

func (s *RedisRepoTestSuite) TestUpdate_ReleasesNewNameWhenWriteFails() {
	existing := &entities.Character{
		ID:       testID,
		Name:     "Darth Vader",
		Episodes: []string{"NEWHOPE"},
	}

	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(existing))
	s.mock.ExpectHSetNX("characters:names", "Anakin Skywalker", testID).SetVal(true)
	s.mock.Regexp().ExpectSet("character:"+testID, `.*Anakin Skywalker.*`, 0).SetErr(errors.New("connection reset"))
	s.mock.ExpectHDel("characters:names", "Darth Vader").SetVal(1)
	s.mock.ExpectHDel("characters:names", "Anakin Skywalker").SetVal(1)

	renamed := existing.Clone()
	renamed.Name = "Anakin Skywalker"

	_, err := s.repo.Update(s.ctx, renamed)
	s.Error(err)
	s.False(apperr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestUpdate_RenameConflict() {
	existing := &entities.Character{
		ID:       testID,
		Name:     "Darth Vader",
		Episodes: []string{"NEWHOPE"},
	}

	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(existing))
	s.mock.ExpectHSetNX("characters:names", "Leia Organa", testID).SetVal(false)

	renamed := existing.Clone()
	renamed.Name = "Leia Organa"

	_, err := s.repo.Update(s.ctx, renamed)
	s.True(apperr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestUpdate_NotFound() {
	s.mock.ExpectGet("character:" + testID).RedisNil()

	_, err := s.repo.Update(s.ctx, &entities.Character{
		ID:       testID,
		Name:     "Ghost",
		Episodes: []string{"NEWHOPE"},
	})
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestDelete_HappyPath() {
	character := &entities.Character{
		ID:       testID,
		Name:     "Wilhuff Tarkin",
		Episodes: []string{"NEWHOPE"},
		Friends:  []string{"Darth Vader"},
	}

	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(character))
	s.mock.ExpectDel("character:" + testID).SetVal(1)
	s.mock.ExpectZRem("characters:ids", testID).SetVal(1)
	s.mock.ExpectHDel("characters:names", "Wilhuff Tarkin").SetVal(1)

	s.NoError(s.repo.Delete(s.ctx, testID))
}

func (s *RedisRepoTestSuite) TestDelete_NotFound() {
	s.mock.ExpectGet("character:" + testID).RedisNil()

	err := s.repo.Delete(s.ctx, testID)
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestAppendToSet_WatchedTransaction() {
	character := &entities.Character{
		ID:       testID,
		Name:     "Han Solo",
		Episodes: []string{"NEWHOPE"},
		Friends:  []string{"Luke Skywalker", "Leia Organa"},
	}

	s.mock.ExpectWatch("character:" + testID)
	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(character))
	s.mock.ExpectTxPipeline()
	s.mock.Regexp().ExpectSet("character:"+testID, `.*Lando Calrissian.*`, 0).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	updated, err := s.repo.AppendToSet(s.ctx, testID, characters.FieldFriends, []string{"Lando Calrissian"})
	s.Require().NoError(err)
	s.Equal([]string{"Luke Skywalker", "Leia Organa", "Lando Calrissian"}, updated.Friends)
}

func (s *RedisRepoTestSuite) TestRemoveAll_WatchedTransaction() {
	character := &entities.Character{
		ID:       testID,
		Name:     "Han Solo",
		Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
		Friends:  []string{"Luke Skywalker"},
	}

	s.mock.ExpectWatch("character:" + testID)
	s.mock.ExpectGet("character:" + testID).SetVal(s.storedJSON(character))
	s.mock.ExpectTxPipeline()
	s.mock.Regexp().ExpectSet("character:"+testID, `.*episodes.*`, 0).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	updated, err := s.repo.RemoveAll(s.ctx, testID, characters.FieldEpisodes, []string{"EMPIRE"})
	s.Require().NoError(err)
	s.Equal([]string{"NEWHOPE", "JEDI"}, updated.Episodes)
}

func (s *RedisRepoTestSuite) TestAppendToSet_NotFound() {
	s.mock.ExpectWatch("character:" + testID)
	s.mock.ExpectGet("character:" + testID).RedisNil()

	_, err := s.repo.AppendToSet(s.ctx, testID, characters.FieldFriends, []string{"Chewbacca"})
	s.True(apperr.IsNotFound(err))
}
