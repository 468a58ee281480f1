package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "smsportal/docs"
	"smsportal/internal/config"
	"smsportal/internal/handlers"
	"smsportal/internal/logger"
	"smsportal/internal/metrics"
	"smsportal/internal/middleware"
	"smsportal/internal/pdf"
	"smsportal/internal/repositories"
	"smsportal/internal/routes"
	"smsportal/internal/services"
	"smsportal/internal/utils"
	"smsportal/internal/views"
)

// App holds the long-lived resources of one server process.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Redis    *redis.Client
	Router   *gin.Engine
	Accounts services.AccountService
}

// New connects to Postgres (running migrations) and Redis and builds the router.
func New(cfg *config.Config) (*App, error) {
	// === DB ===
	db, err := repositories.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// === Redis ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.Auth.SessionTTL)

	// === Services ===
	authService := services.NewAuthService(accountRepo, cfg.Auth.BcryptCost)
	tokenService := services.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.ConfirmTokenTTL)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Telegram is optional; nil notifier means no admin pings
	notifier, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, cfg.Server.BaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("[app] telegram notifier disabled")
		notifier = nil
	}

	accountService := services.NewAccountService(
		accountRepo,
		authService,
		tokenService,
		emailService,
		notifier,
		cfg.Server.BaseURL,
		cfg.Twilio.Region,
	)
	historyService := services.NewHistoryService(historyRepo, cfg.History.PageSize)

	twilio := utils.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.Timeout, cfg.Twilio.DryRun)
	if cfg.Twilio.BaseURL != "" {
		twilio.BaseURL = cfg.Twilio.BaseURL
	}
	if cfg.Twilio.LookupURL != "" {
		twilio.LookupURL = cfg.Twilio.LookupURL
	}
	if twilio.DryRun {
		log.Warn().Msg("[app] twilio dry-run: no SMS or calls will leave this process")
	}
	messagingService := services.NewMessagingService(twilio, historyService, cfg.Twilio.Region)

	// === Gin ===
	tmpl, err := views.Load(cfg.Server.TemplatesDir)
	if err != nil {
		_ = rdb.Close()
		_ = db.Close()
		return nil, err
	}
	middleware.SecureCookies = cfg.Server.SecureCookies

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.Flashes(middleware.NewFlashStore([]byte(cfg.Auth.SecretKey), cfg.Server.SecureCookies)))
	router.Use(middleware.SessionMiddleware(sessionRepo, accountRepo))

	routes.SetupRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(accountService, authService, sessionRepo, int(cfg.Auth.SessionTTL.Seconds())),
		Admin:     handlers.NewAdminHandler(accountService),
		Dashboard: handlers.NewDashboardHandler(accountService),
		SMS:       handlers.NewSMSHandler(messagingService, historyService),
		Reports:   handlers.NewReportHandler(historyService, pdf.NewReportGenerator(cfg.Server.PDFFontPath)),
		Health:    handlers.NewHealthHandler(db),
		Metrics:   metrics.Handler(),
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Router:   router,
		Accounts: accountService,
	}, nil
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		log.Error().Err(err).Msg("[app] redis close")
	}
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("[app] db close")
	}
}

// Serve blocks until ctx is cancelled, then shuts the HTTP server down.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_url", a.Config.Server.BaseURL).Msg("[app] server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("[app] shutting down")
	return srv.Shutdown(shutdownCtx)
}

func Run() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	a, err := New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[app] startup failed")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("[app] server error")
	}
}
