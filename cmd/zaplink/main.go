package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jackc/pgx/v5/pgxpool"

	migrations "github.com/zaplinkhq/zaplink/db"
	"github.com/zaplinkhq/zaplink/internal/config"
	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/conversation"
	"github.com/zaplinkhq/zaplink/internal/db"
	dbsqlc "github.com/zaplinkhq/zaplink/internal/db/sqlc"
	"github.com/zaplinkhq/zaplink/internal/handlers"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/logger"
	"github.com/zaplinkhq/zaplink/internal/message"
	"github.com/zaplinkhq/zaplink/internal/outbound"
	"github.com/zaplinkhq/zaplink/internal/provider"
	"github.com/zaplinkhq/zaplink/internal/server"
	syncpkg "github.com/zaplinkhq/zaplink/internal/sync"
	"github.com/zaplinkhq/zaplink/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,

			provideDBConn,
			provideDBQueries,

			provideNormalizer,
			identity.NewRegistry,
			identity.NewResolver,
			contacts.NewService,
			message.NewService,
			conversation.NewService,
			provideProviderClient,
			syncpkg.NewIngester,
			provideCoordinator,
			provideOutbound,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideConversationsHandler),
			provideServerHandler(handlers.NewSyncHandler),
			provideServerHandler(provideResolutionsHandler),
			provideServerHandler(handlers.NewMessagesHandler),

			provideServer,
		),
		fx.Invoke(
			startCoordinator,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func runMigrate(args []string) error {
	cfg, err := provideConfig()
	if err != nil {
		return err
	}
	log := provideLogger(cfg)
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}
	migrationsRoot, err := fs.Sub(migrations.MigrationsFS, "migrations")
	if err != nil {
		return err
	}
	return db.RunMigrate(log, cfg.Postgres, migrationsRoot, command, args)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *dbsqlc.Queries {
	return dbsqlc.New(conn)
}

func provideNormalizer(cfg config.Config) *identity.Normalizer {
	return identity.NewNormalizer(cfg.Identity)
}

func provideProviderClient(log *slog.Logger, cfg config.Config) provider.Client {
	return provider.NewHTTPClient(log, cfg.Provider)
}

func provideCoordinator(log *slog.Logger, cfg config.Config, client provider.Client, ingester *syncpkg.Ingester, queries *dbsqlc.Queries, messages *message.DBService) *syncpkg.Coordinator {
	coordinator := syncpkg.NewCoordinator(log, cfg.Sync, client, ingester, syncpkg.NewCursorStore(queries), messages)
	coordinator.SetNotifier(syncpkg.NewLogNotifier(log))
	return coordinator
}

func provideOutbound(log *slog.Logger, resolver *identity.Resolver, contactsService *contacts.Service, messages *message.DBService, client provider.Client) *outbound.Service {
	return outbound.NewService(log, resolver, contactsService, messages, client)
}

func provideConversationsHandler(log *slog.Logger, conversations *conversation.Service, contactsService *contacts.Service, coordinator *syncpkg.Coordinator) *handlers.ConversationsHandler {
	return handlers.NewConversationsHandler(log, conversations, contactsService, coordinator)
}

func provideResolutionsHandler(log *slog.Logger, registry *identity.Registry, contactsService *contacts.Service, messages *message.DBService, outboundService *outbound.Service) *handlers.ResolutionsHandler {
	return handlers.NewResolutionsHandler(log, registry, contactsService, messages, outboundService)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startCoordinator(lc fx.Lifecycle, coordinator *syncpkg.Coordinator) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return coordinator.Start()
		},
		OnStop: func(ctx context.Context) error {
			coordinator.Stop()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Zaplink %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
