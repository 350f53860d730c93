package app

import (
	"context"
	"log/slog"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pusher/pusher-http-go/v5"

	pusherAPI "spinny_backend/internal/api/pusher"
	streamAPI "spinny_backend/internal/api/stream"
	wheelAPI "spinny_backend/internal/api/wheel"
	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/config"
	"spinny_backend/internal/config/env"
	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/middleware"
	"spinny_backend/internal/repository"
	"spinny_backend/internal/repository/history_repo"
	"spinny_backend/internal/repository/participant_repo"
	"spinny_backend/internal/repository/user_repo"
	"spinny_backend/internal/repository/wheel_repo"
	"spinny_backend/internal/service"
	"spinny_backend/internal/service/wheel"
)

type ServiceProvider struct {
	log *slog.Logger

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg config.JWTConfig

	// Broadcast bits
	pusherCfg  config.PusherConfig
	journalCfg config.JournalConfig
	pusherCli  *pusher.Client
	pusherHand *pusherAPI.Handler
	hub        *broadcast.Hub
	journal    *broadcast.Journal
	publisher  broadcast.Publisher

	// Wheel bits
	spinCfg         config.SpinConfig
	wheelRepo       repository.WheelRepository
	participantRepo repository.ParticipantRepository
	historyRepo     repository.HistoryRepository
	userRepo        repository.UserRepository
	wheelServ       service.WheelService
	wheelHand       *wheelAPI.Handler
	streamHand      *streamAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) Logger() *slog.Logger {
	if sp.log == nil {
		cfg, err := env.NewLoggerConfig()
		if err != nil {
			panic("failed to get logger config: " + err.Error())
		}
		sp.log = setupLogger(cfg.Env())
		slog.SetDefault(sp.log)
	}
	return sp.log
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) PusherCfg() config.PusherConfig {
	if sp.pusherCfg == nil {
		cfg, err := env.NewPusherConfig()
		if err != nil {
			panic("failed to get pusher config: " + err.Error())
		}
		sp.pusherCfg = cfg
	}
	return sp.pusherCfg
}

func (sp *ServiceProvider) JournalCfg() config.JournalConfig {
	if sp.journalCfg == nil {
		cfg, err := env.NewJournalConfig()
		if err != nil {
			panic("failed to get journal config: " + err.Error())
		}
		sp.journalCfg = cfg
	}
	return sp.journalCfg
}

func (sp *ServiceProvider) Hub() *broadcast.Hub {
	if sp.hub == nil {
		sp.hub = broadcast.NewHub(sp.Logger().With(slog.String("component", "broadcast/hub")))
	}
	return sp.hub
}

// PusherClient - nil, если Pusher не настроен
func (sp *ServiceProvider) PusherClient() *pusher.Client {
	if sp.pusherCli == nil && sp.PusherCfg().Enabled() {
		sp.pusherCli = broadcast.NewPusherClient(sp.PusherCfg())
	}
	return sp.pusherCli
}

func (sp *ServiceProvider) PusherHandler() *pusherAPI.Handler {
	if sp.pusherHand == nil {
		deps := pusherAPI.HandlerDeps{Log: sp.Logger()}
		// Без клиента в интерфейсе остается nil, и хендлер отвечает 500
		if client := sp.PusherClient(); client != nil {
			deps.Client = client
		}
		sp.pusherHand = pusherAPI.NewHandler(deps)
	}
	return sp.pusherHand
}

// Journal - nil, если JOURNAL_DIR не задан
func (sp *ServiceProvider) Journal() *broadcast.Journal {
	if sp.journal == nil && sp.JournalCfg().Dir() != "" {
		sp.journal = broadcast.NewJournal(sp.JournalCfg().Dir())
	}
	return sp.journal
}

// Publisher - локальный хаб, а также Pusher и журнал, если они настроены. Все события проходят проверку схемы
func (sp *ServiceProvider) Publisher() broadcast.Publisher {
	if sp.publisher == nil {
		targets := broadcast.MultiPublisher{sp.Hub()}

		if client := sp.PusherClient(); client != nil {
			targets = append(targets, broadcast.NewPusherPublisher(sp.Logger(), client))
		}
		if j := sp.Journal(); j != nil {
			targets = append(targets, j)
		}

		validated, err := broadcast.NewValidatingPublisher(targets)
		if err != nil {
			panic("failed to compile event schemas: " + err.Error())
		}
		sp.publisher = validated
	}
	return sp.publisher
}

func (sp *ServiceProvider) SpinCfg() config.SpinConfig {
	if sp.spinCfg == nil {
		cfg, err := env.NewSpinConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get spin config: " + err.Error())
		}
		sp.spinCfg = cfg
	}
	return sp.spinCfg
}

func (sp *ServiceProvider) WheelRepository(ctx context.Context) repository.WheelRepository {
	if sp.wheelRepo == nil {
		sp.wheelRepo = wheel_repo.NewWheelRepository(sp.DBClient(ctx))
	}
	return sp.wheelRepo
}

func (sp *ServiceProvider) ParticipantRepository(ctx context.Context) repository.ParticipantRepository {
	if sp.participantRepo == nil {
		sp.participantRepo = participant_repo.NewParticipantRepository(sp.DBClient(ctx))
	}
	return sp.participantRepo
}

func (sp *ServiceProvider) HistoryRepository(ctx context.Context) repository.HistoryRepository {
	if sp.historyRepo == nil {
		sp.historyRepo = history_repo.NewHistoryRepository(sp.DBClient(ctx))
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) UserRepository(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) WheelService(ctx context.Context) service.WheelService {
	if sp.wheelServ == nil {
		sp.wheelServ = wheel.NewWheelService(
			sp.WheelRepository(ctx),
			sp.ParticipantRepository(ctx),
			sp.HistoryRepository(ctx),
			sp.UserRepository(ctx),
			sp.TXManager(ctx),
			sp.Publisher(),
			sp.SpinCfg(),
			sp.Logger(),
		)
	}
	return sp.wheelServ
}

func (sp *ServiceProvider) WheelHandler(ctx context.Context) *wheelAPI.Handler {
	if sp.wheelHand == nil {
		sp.wheelHand = wheelAPI.NewHandler(wheelAPI.HandlerDeps{
			Serv: sp.WheelService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.wheelHand
}

func (sp *ServiceProvider) StreamHandler() *streamAPI.Handler {
	if sp.streamHand == nil {
		sp.streamHand = streamAPI.NewHandler(streamAPI.HandlerDeps{
			Hub: sp.Hub(),
			Log: sp.Logger(),
		})
	}
	return sp.streamHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.RealIP)
		r.Use(middleware.Logger(sp.Logger()))
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Wheel endpoints
		wheelHandler := sp.WheelHandler(ctx)
		streamHandler := sp.StreamHandler()
		auth := middleware.Auth(sp.JWTCfg().AccessTokenSecretKey())
		r.Route("/wheel", func(rr chi.Router) {
			// Публичные
			rr.Get("/{publicId}", wheelHandler.Get)
			rr.Get("/{publicId}/render.gif", wheelHandler.Render)
			rr.Get("/{publicId}/ws", streamHandler.Watch)

			rr.Group(func(pr chi.Router) {
				pr.Use(auth)
				pr.Post("/", wheelHandler.Create)
				pr.Get("/mine", wheelHandler.Mine)
				pr.Get("/participating", wheelHandler.Participating)
				pr.Delete("/{publicId}", wheelHandler.Delete)
				pr.Post("/{publicId}/join", wheelHandler.Join)
				pr.Post("/{publicId}/leave", wheelHandler.Leave)
				pr.Post("/{publicId}/spin", wheelHandler.Spin)
			})
		})

		// Подпись подписок pusher-js на private-wheel-* каналы
		pusherHandler := sp.PusherHandler()
		r.Route("/pusher", func(rr chi.Router) {
			rr.Use(auth)
			rr.Post("/auth", pusherHandler.AuthorizeChannel)
			rr.Post("/user-auth", pusherHandler.AuthenticateUser)
		})

		sp.router = r
	}

	return sp.router
}

// Close освобождает пул соединений и журнал
func (sp *ServiceProvider) Close() {
	if sp.journal != nil {
		if err := sp.journal.Close(); err != nil {
			sp.Logger().Warn("failed to close journal", sl.Err(err))
		}
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
}
