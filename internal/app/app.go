package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/firstlabs/accounts/internal/config"
	"github.com/firstlabs/accounts/internal/db"
	"github.com/firstlabs/accounts/internal/notify"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/service"
	"github.com/firstlabs/accounts/internal/storage"
	"github.com/firstlabs/accounts/internal/token"
	"github.com/firstlabs/accounts/internal/verification"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	UserRepository repository.UserRepository
	TokenIssuer    *token.Issuer
	NotifyQueue    *notify.Queue
	AuthService    *service.AuthService
	SessionService *service.SessionService
	AvatarService  *service.AvatarService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)

	// Storage
	avatarStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// One configured secret signs both session and verification tokens
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.VerificationCodeExpiry)
	codes := verification.NewService(issuer)

	// Outbound email: requests enqueue, the worker delivers
	emailSender := notify.NewEmailSender(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.FrontendURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	notifyQueue := notify.NewQueue(emailSender, cfg.NotifyQueueSize, cfg.NotifyTimeout)

	// Services
	authService := service.NewAuthService(userRepository, codes, notifyQueue)
	sessionService := service.NewSessionService(
		sessionRepository,
		issuer,
		cfg.CookieSecret,
		cfg.SessionCookieMaxAge,
		cfg.IsProduction(),
	)
	avatarService := service.NewAvatarService(userRepository, avatarStorage)

	return &App{
		Cfg:            cfg,
		DB:             database,
		UserRepository: userRepository,
		TokenIssuer:    issuer,
		NotifyQueue:    notifyQueue,
		AuthService:    authService,
		SessionService: sessionService,
		AvatarService:  avatarService,
	}, nil
}

func (a *App) Close() error {
	// Drain queued notifications before dropping the database
	if a.NotifyQueue != nil {
		a.NotifyQueue.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
