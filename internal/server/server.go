package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/metrics"
	"github.com/rajivgeraev/skillswap-api/internal/seed"
	"github.com/rajivgeraev/skillswap-api/internal/services/admin"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/directory"
	"github.com/rajivgeraev/skillswap-api/internal/services/feedback"
	"github.com/rajivgeraev/skillswap-api/internal/services/media"
	"github.com/rajivgeraev/skillswap-api/internal/services/swap"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// Server собирает каталог, HTTP API и WebSocket-хаб
type Server struct {
	cfg *config.Config
	log *zap.Logger

	Ledger  *ledger.Ledger
	App     *fiber.App
	Hub     *websocket.Manager
	Metrics *metrics.Metrics

	wsServer *http.Server
}

// Option настраивает Server
type Option func(*options)

type options struct {
	bcryptCost int
	ledgerOpts []ledger.Option
}

// WithBcryptCost задаёт стоимость хеширования паролей
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// WithLedgerOptions передаёт опции в ledger.New
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(o *options) { o.ledgerOpts = append(o.ledgerOpts, opts...) }
}

// New загружает начальные данные и регистрирует все маршруты
func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	l := ledger.New(append([]ledger.Option{ledger.WithLogger(log.Named("ledger"))}, o.ledgerOpts...)...)

	fixture, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	if err := l.Import(fixture.Snapshot()); err != nil {
		return nil, fmt.Errorf("ошибка загрузки начальных данных: %w", err)
	}

	creds := auth.NewCredentialStore(o.bcryptCost)
	err = creds.Seed(fixture.Accounts, func(email string) (string, error) {
		u, err := l.FindUserByEmail(email)
		return u.ID, err
	})
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	l.Subscribe(m.Observe)

	jwtService := utils.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL)

	hub := websocket.NewManager(jwtService, l, m.WebsocketClients, log)
	l.Subscribe(hub.HandleEvent)

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Регистрируем маршруты
	auth.NewAuthService(cfg, l, creds, jwtService, m, log).SetupRoutes(app)
	directory.NewDirectoryService(l, jwtService, log).SetupRoutes(app)
	swap.NewSwapService(l, jwtService, log).SetupRoutes(app)
	feedback.NewFeedbackService(l, jwtService, log).SetupRoutes(app)
	media.NewMediaService(cfg, l, jwtService, log).SetupRoutes(app)
	admin.NewAdminService(l, jwtService, m, log).SetupRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// gorilla/websocket требует net/http, поэтому хаб слушает отдельный порт
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)

	return &Server{
		cfg:     cfg,
		log:     log,
		Ledger:  l,
		App:     app,
		Hub:     hub,
		Metrics: m,
		wsServer: &http.Server{
			Addr:              ":" + cfg.WSPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run слушает HTTP и WebSocket порты до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("HTTP API запущен", zap.String("port", s.cfg.Port))
		return s.App.Listen(":"+s.cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	})

	g.Go(func() error {
		s.log.Info("WebSocket сервер запущен", zap.String("port", s.cfg.WSPort))
		if err := s.wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("Получен сигнал завершения, начинаем graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.Hub.Shutdown()
		return errors.Join(
			s.wsServer.Shutdown(shutdownCtx),
			s.App.ShutdownWithContext(shutdownCtx),
		)
	})

	return g.Wait()
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
