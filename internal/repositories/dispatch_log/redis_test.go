package dispatchlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-palette/internal/redis"
	dispatchlog "github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log"
	"github.com/KirkDiggler/rpg-palette/internal/testutils"
)

type RedisJournalTestSuite struct {
	suite.Suite
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	clock   *clock.Fixed
	repo    dispatchlog.Repository
	ctx     context.Context
}

func (s *RedisJournalTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedisServer(s.T())
	s.clock = &clock.Fixed{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.ctx = context.Background()

	repo, err := dispatchlog.NewRedisRepository(&dispatchlog.Config{
		Client: s.client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisJournalTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisJournalTestSuite) attempt(id string, ok bool) dispatchlog.Attempt {
	return dispatchlog.Attempt{
		AttemptID: id,
		ActionID:  "fitness",
		Receiver:  "actor",
		Method:    "rollSkill",
		Probes:    3,
		Succeeded: ok,
		At:        s.clock.Now(),
	}
}

func (s *RedisJournalTestSuite) TestNewRedisRepository() {
	_, err := dispatchlog.NewRedisRepository(nil)
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = dispatchlog.NewRedisRepository(&dispatchlog.Config{Clock: s.clock})
	s.Error(err)
	s.Contains(err.Error(), "redis client is required")

	_, err = dispatchlog.NewRedisRepository(&dispatchlog.Config{Client: s.client})
	s.Error(err)
	s.Contains(err.Error(), "clock is required")
}

func (s *RedisJournalTestSuite) TestCreateAndGet() {
	out, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{
		ActorID:  "actor-1",
		Kind:     "skill",
		Attempts: []dispatchlog.Attempt{s.attempt("a1", true)},
		TTL:      time.Hour,
	})
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(time.Hour), out.Journal.ExpiresAt)

	s.True(s.mr.Exists("dispatch_log:actor-1:skill"))
	s.Equal(time.Hour, s.mr.TTL("dispatch_log:actor-1:skill"))

	got, err := s.repo.Get(s.ctx, dispatchlog.GetInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)
	s.Require().Len(got.Journal.Attempts, 1)
	s.Equal("rollSkill", got.Journal.Attempts[0].Method)
	s.Equal(3, got.Journal.Attempts[0].Probes)
	s.True(got.Journal.Attempts[0].Succeeded)
}

func (s *RedisJournalTestSuite) TestCreateDefaultTTL() {
	_, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{ActorID: "actor-1", Kind: "ring"})
	s.Require().NoError(err)
	s.Equal(24*time.Hour, s.mr.TTL("dispatch_log:actor-1:ring"))
}

func (s *RedisJournalTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{Kind: "skill"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, dispatchlog.CreateInput{ActorID: "actor-1"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisJournalTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, dispatchlog.GetInput{ActorID: "nobody", Kind: "skill"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisJournalTestSuite) TestGetExpiredByClock() {
	_, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{ActorID: "actor-1", Kind: "skill", TTL: time.Hour})
	s.Require().NoError(err)

	s.clock.At = s.clock.At.Add(2 * time.Hour)
	_, err = s.repo.Get(s.ctx, dispatchlog.GetInput{ActorID: "actor-1", Kind: "skill"})
	s.True(errors.IsNotFound(err))
	s.False(s.mr.Exists("dispatch_log:actor-1:skill"))
}

func (s *RedisJournalTestSuite) TestUpdateKeepsRemainingTTL() {
	out, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{
		ActorID:  "actor-1",
		Kind:     "skill",
		Attempts: []dispatchlog.Attempt{s.attempt("a1", true)},
		TTL:      time.Hour,
	})
	s.Require().NoError(err)

	s.clock.At = s.clock.At.Add(20 * time.Minute)
	journal := out.Journal
	journal.Attempts = append(journal.Attempts, s.attempt("a2", false))
	s.Require().NoError(s.repo.Update(s.ctx, journal))

	s.Equal(40*time.Minute, s.mr.TTL("dispatch_log:actor-1:skill"))

	got, err := s.repo.Get(s.ctx, dispatchlog.GetInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)
	s.Require().Len(got.Journal.Attempts, 2)
	s.Equal("a2", got.Journal.Attempts[1].AttemptID)
	s.False(got.Journal.Attempts[1].Succeeded)
}

func (s *RedisJournalTestSuite) TestUpdateCapsAttempts() {
	out, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)

	journal := out.Journal
	for i := 0; i < 105; i++ {
		journal.Attempts = append(journal.Attempts, s.attempt("a", true))
	}
	journal.Attempts[len(journal.Attempts)-1].AttemptID = "last"
	s.Require().NoError(s.repo.Update(s.ctx, journal))

	got, err := s.repo.Get(s.ctx, dispatchlog.GetInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)
	s.Len(got.Journal.Attempts, 100)
	s.Equal("last", got.Journal.Attempts[99].AttemptID)
}

func (s *RedisJournalTestSuite) TestUpdateValidation() {
	s.True(errors.IsInvalidArgument(s.repo.Update(s.ctx, nil)))
	s.True(errors.IsInvalidArgument(s.repo.Update(s.ctx, &dispatchlog.Journal{Kind: "skill"})))

	expired := &dispatchlog.Journal{ActorID: "actor-1", Kind: "skill", ExpiresAt: s.clock.Now().Add(-time.Second)}
	err := s.repo.Update(s.ctx, expired)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "expired")
}

func (s *RedisJournalTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, dispatchlog.CreateInput{
		ActorID:  "actor-1",
		Kind:     "skill",
		Attempts: []dispatchlog.Attempt{s.attempt("a1", true), s.attempt("a2", true)},
	})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, dispatchlog.DeleteInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)
	s.Equal(int32(2), out.AttemptsDeleted)
	s.False(s.mr.Exists("dispatch_log:actor-1:skill"))

	out, err = s.repo.Delete(s.ctx, dispatchlog.DeleteInput{ActorID: "actor-1", Kind: "skill"})
	s.Require().NoError(err)
	s.Equal(int32(0), out.AttemptsDeleted)
}

func TestRedisJournalTestSuite(t *testing.T) {
	suite.Run(t, new(RedisJournalTestSuite))
}
