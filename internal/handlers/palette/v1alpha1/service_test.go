package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/handlers/palette/v1alpha1"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	dicemock "github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice/mock"
	dispatchmock "github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch/mock"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/palette"
	palettemock "github.com/KirkDiggler/rpg-palette/internal/orchestrators/palette/mock"
	catalogmock "github.com/KirkDiggler/rpg-palette/internal/services/catalog/mock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockDice    *dicemock.MockService
	mockPalette *palettemock.MockService
	server      *grpc.Server
	conn        *grpc.ClientConn
	client      *v1alpha1.PaletteServiceClient
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockDice = dicemock.NewMockService(s.ctrl)
	s.mockPalette = palettemock.NewMockService(s.ctrl)

	world, err := host.NewWorld([]byte(`{"actors": []}`))
	s.Require().NoError(err)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Catalog:  catalogmock.NewMockService(s.ctrl),
		Palette:  s.mockPalette,
		Dispatch: dispatchmock.NewMockService(s.ctrl),
		World:    world,
	})
	s.Require().NoError(err)

	diceHandler, err := v1alpha1.NewDiceHandler(&v1alpha1.DiceHandlerConfig{DiceService: s.mockDice})
	s.Require().NoError(err)

	listener := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer()
	v1alpha1.RegisterPaletteServiceServer(s.server, &v1alpha1.Server{Handler: handler, DiceHandler: diceHandler})
	go func() {
		_ = s.server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.conn = conn
	s.client = v1alpha1.NewPaletteServiceClient(conn)
}

func (s *ServiceTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
	s.ctrl.Finish()
}

func (s *ServiceTestSuite) TestBuildPaletteRoundTrip() {
	s.mockPalette.EXPECT().
		BuildPalette(gomock.Any(), &palette.BuildPaletteInput{ActorID: "a1"}).
		Return(&palette.BuildPaletteOutput{ActorIDs: []string{"a1"}}, nil)

	req, err := structpb.NewStruct(map[string]any{"actor_id": "a1"})
	s.Require().NoError(err)

	resp, err := s.client.Invoke(context.Background(), v1alpha1.MethodBuildPalette, req)
	s.Require().NoError(err)
	s.Assert().Equal([]any{"a1"}, resp.AsMap()["actor_ids"])
}

func (s *ServiceTestSuite) TestRollPoolRoundTrip() {
	s.mockDice.EXPECT().
		RollPool(gomock.Any(), &dice.RollPoolInput{
			ActorID:     "a1",
			RingDice:    3,
			SkillDice:   2,
			Description: "fitness (water)",
		}).
		Return(&dice.RollPoolOutput{Roll: &dice.PoolRoll{
			RollID:        "roll_1",
			ActorID:       "a1",
			Successes:     2,
			Opportunities: 1,
		}}, nil)

	req, err := structpb.NewStruct(map[string]any{
		"actor_id":    "a1",
		"ring_dice":   3,
		"skill_dice":  2,
		"description": "fitness (water)",
	})
	s.Require().NoError(err)

	resp, err := s.client.Invoke(context.Background(), v1alpha1.MethodRollPool, req)
	s.Require().NoError(err)

	got := resp.AsMap()
	s.Assert().Equal("2 success, 1 opportunity, 0 strife, 0 explosive", got["summary"])
	s.Assert().Equal("roll_1", got["roll"].(map[string]any)["roll_id"])
}

func (s *ServiceTestSuite) TestRollPoolValidation() {
	req, err := structpb.NewStruct(map[string]any{"ring_dice": 1})
	s.Require().NoError(err)

	_, err = s.client.Invoke(context.Background(), v1alpha1.MethodRollPool, req)
	s.Require().Error(err)
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))

	req, err = structpb.NewStruct(map[string]any{"actor_id": "a1", "skill_dice": -1})
	s.Require().NoError(err)

	_, err = s.client.Invoke(context.Background(), v1alpha1.MethodRollPool, req)
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *ServiceTestSuite) TestUnknownMethod() {
	_, err := s.client.Invoke(context.Background(), "CastSpell", &structpb.Struct{})
	s.Assert().Equal(codes.Unimplemented, status.Code(err))
}

func (s *ServiceTestSuite) TestNewDiceHandlerValidation() {
	_, err := v1alpha1.NewDiceHandler(&v1alpha1.DiceHandlerConfig{})
	s.Assert().Error(err)

	_, err = v1alpha1.NewDiceHandler(nil)
	s.Assert().Error(err)
}
