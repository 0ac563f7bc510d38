package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/notify"
	notifymock "github.com/KirkDiggler/rpg-palette/internal/notify/mock"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-palette/internal/redis"
	"github.com/KirkDiggler/rpg-palette/internal/testutils"
)

type NotifyTestSuite struct {
	suite.Suite
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	clock   *clock.Fixed
	ctx     context.Context
}

func (s *NotifyTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedisServer(s.T())
	s.clock = &clock.Fixed{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.ctx = context.Background()
}

func (s *NotifyTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *NotifyTestSuite) TestLogNotifier() {
	var buf bytes.Buffer
	n := notify.NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	s.NoError(n.Warn(s.ctx, "actor-1", "Unable to open Dice Picker Dialog"))
	s.NoError(n.Chat(s.ctx, "actor-1", "Katana"))

	s.Contains(buf.String(), "level=WARN")
	s.Contains(buf.String(), "Unable to open Dice Picker Dialog")
	s.Contains(buf.String(), "actor_id=actor-1")
	s.Contains(buf.String(), "Katana")
}

func (s *NotifyTestSuite) TestRedisPushesNewestFirst() {
	n, err := notify.NewRedis(&notify.RedisConfig{Client: s.client, Clock: s.clock})
	s.Require().NoError(err)

	s.Require().NoError(n.Warn(s.ctx, "actor-1", "first"))
	s.Require().NoError(n.Chat(s.ctx, "actor-2", "second"))

	recent, err := n.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("second", recent[0].Message)
	s.Equal(notify.LevelChat, recent[0].Level)
	s.Equal("actor-1", recent[1].ActorID)
	s.Equal(notify.LevelWarn, recent[1].Level)
	s.Equal(s.clock.Now(), recent[1].At)
}

func (s *NotifyTestSuite) TestRedisCapsList() {
	n, err := notify.NewRedis(&notify.RedisConfig{Client: s.client, Clock: s.clock, Key: "notes", Limit: 3})
	s.Require().NoError(err)

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		s.Require().NoError(n.Warn(s.ctx, "", msg))
	}

	list, err := s.mr.List("notes")
	s.Require().NoError(err)
	s.Len(list, 3)

	recent, err := n.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal("e", recent[0].Message)
	s.Equal("c", recent[2].Message)
}

func (s *NotifyTestSuite) TestNewRedisValidation() {
	_, err := notify.NewRedis(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = notify.NewRedis(&notify.RedisConfig{Clock: s.clock})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Client")
}

func (s *NotifyTestSuite) TestMultiFansOutAndKeepsFirstError() {
	ctrl := gomock.NewController(s.T())
	first := notifymock.NewMockNotifier(ctrl)
	second := notifymock.NewMockNotifier(ctrl)

	first.EXPECT().Warn(s.ctx, "actor-1", "boom").Return(errors.Internal("sink down"))
	second.EXPECT().Warn(s.ctx, "actor-1", "boom").Return(nil)

	err := notify.Multi{first, second}.Warn(s.ctx, "actor-1", "boom")
	s.Error(err)
	s.Contains(err.Error(), "sink down")

	first.EXPECT().Chat(s.ctx, "actor-1", "card").Return(nil)
	second.EXPECT().Chat(s.ctx, "actor-1", "card").Return(nil)
	s.NoError(notify.Multi{first, second}.Chat(s.ctx, "actor-1", "card"))
}

func TestNotifyTestSuite(t *testing.T) {
	suite.Run(t, new(NotifyTestSuite))
}
