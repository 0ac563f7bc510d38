package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/clients/host/luahost"
	"github.com/KirkDiggler/rpg-palette/internal/config"
	"github.com/KirkDiggler/rpg-palette/internal/engine"
	"github.com/KirkDiggler/rpg-palette/internal/handlers/palette/v1alpha1"
	"github.com/KirkDiggler/rpg-palette/internal/notify"
	diceorch "github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/palette"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-palette/internal/redis"
	dispatchlog "github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log"
	"github.com/KirkDiggler/rpg-palette/internal/resolver"
	"github.com/KirkDiggler/rpg-palette/internal/services/catalog"
	"github.com/KirkDiggler/rpg-palette/internal/telemetry"
)

// emptyHostScript is loaded when no host script is configured; every list
// then resolves from config or the built-in fallbacks
const emptyHostScript = "-- no host script configured\n"

var (
	grpcPort     int
	worldPath    string
	scriptPath   string
	settingsPath string
	redisAddr    string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the palette gRPC server. Flags override PALETTE_* environment variables.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&worldPath, "world", "", "world snapshot JSON file")
	serverCmd.Flags().StringVar(&scriptPath, "script", "", "host Lua script")
	serverCmd.Flags().StringVar(&settingsPath, "settings", "", "module settings ini file")
	serverCmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the dispatch journal")
}

// loadConfig reads the environment and applies any flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if flags.Changed("world") {
		cfg.WorldPath = worldPath
	}
	if flags.Changed("script") {
		cfg.ScriptPath = scriptPath
	}
	if flags.Changed("settings") {
		cfg.SettingsPath = settingsPath
	}
	if flags.Changed("redis") {
		cfg.RedisAddr = redisAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping")
		cancel()
	}()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	paletteServer, cleanup, err := buildServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	v1alpha1.RegisterPaletteServiceServer(srv, paletteServer)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// buildServer wires the host, storage and services behind the palette
// service. The returned func releases the event tally, the Lua state and
// the Redis client.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*v1alpha1.Server, func(), error) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, nil, err
	}

	world, err := host.LoadWorld(cfg.WorldPath)
	if err != nil {
		return nil, nil, err
	}

	luaCfg := &luahost.Config{ScriptPath: cfg.ScriptPath, World: world}
	if cfg.ScriptPath == "" {
		luaCfg.Source = emptyHostScript
	}
	runtime, err := luahost.New(luaCfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
		PoolSize:        10,
		MinIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      3,
	})
	if err != nil {
		runtime.Close()
		return nil, nil, err
	}
	if err := redis.Ping(ctx, redisClient); err != nil {
		slog.Warn("Dispatch journal unavailable, clicks will not be journaled",
			"redis", cfg.RedisAddr,
			"error", err)
	}

	cleanup := func() {
		runtime.Close()
		if err := redisClient.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}

	server, tally, err := wireServices(&services{
		cfg:      cfg,
		settings: settings,
		world:    world,
		runtime:  runtime,
		redis:    redisClient,
		logger:   logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closeAll := func() {
		if err := tally.Close(); err != nil {
			slog.Error("failed to close dispatch tally", "error", err)
		}
		cleanup()
	}

	slog.Info("Palette server wired",
		"world", cfg.WorldPath,
		"script", cfg.ScriptPath,
		"host_version", runtime.Version(),
		"builtin_roller", settings.BuiltinRoller,
		"display_unequipped", settings.DisplayUnequipped)

	return server, closeAll, nil
}

type services struct {
	cfg      *config.Config
	settings *config.Settings
	world    *host.World
	runtime  host.Runtime
	redis    redis.Client
	logger   *slog.Logger
}

func wireServices(in *services) (*v1alpha1.Server, engine.Engine, error) {
	clk := clock.New()

	journal, err := dispatchlog.NewRedisRepository(&dispatchlog.Config{
		Client: in.redis,
		Clock:  clk,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dispatch journal: %w", err)
	}

	redisNotifier, err := notify.NewRedis(&notify.RedisConfig{
		Client: in.redis,
		Clock:  clk,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	notifier := notify.Multi{notify.NewLog(in.logger), redisNotifier}

	res, err := resolver.New(&resolver.Config{
		Runtime:      in.runtime,
		World:        in.world,
		ProbeTimeout: in.cfg.ProbeTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	catalogService, err := catalog.New(&catalog.Config{
		Resolver:     res,
		Runtime:      in.runtime,
		World:        in.world,
		ProbeTimeout: in.cfg.ProbeTimeout,
		MaxDepth:     in.settings.MaxSkillDepth,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create catalog: %w", err)
	}

	diceService, err := diceorch.NewOrchestrator(&diceorch.Config{
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("roll"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dice service: %w", err)
	}

	eventBus := events.NewBus()
	tally, err := engine.New(&engine.Config{EventBus: eventBus, Clock: clk})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dispatch tally: %w", err)
	}

	dispatchService, err := dispatch.NewOrchestrator(&dispatch.Config{
		Runtime:       in.runtime,
		World:         in.world,
		Notifier:      notifier,
		Journal:       journal,
		EventBus:      eventBus,
		Clock:         clk,
		IDGenerator:   idgen.NewTimeOrdered("attempt"),
		Roller:        diceService,
		BuiltinRoller: in.settings.BuiltinRoller,
		ProbeTimeout:  in.cfg.ProbeTimeout,
		JournalTTL:    in.cfg.JournalTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	paletteService, err := palette.NewOrchestrator(&palette.Config{
		Catalog:           catalogService,
		World:             in.world,
		DisplayUnequipped: in.settings.DisplayUnequipped,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create palette service: %w", err)
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Catalog:  catalogService,
		Palette:  paletteService,
		Dispatch: dispatchService,
		World:    in.world,
		Stats:    tally,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create palette handler: %w", err)
	}

	diceHandler, err := v1alpha1.NewDiceHandler(&v1alpha1.DiceHandlerConfig{DiceService: diceService})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dice handler: %w", err)
	}

	return &v1alpha1.Server{Handler: handler, DiceHandler: diceHandler}, tally, nil
}

// interceptorLogger bridges grpc-middleware logging to slog
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(level), msg, fields...)
	})
}
