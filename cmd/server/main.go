// @title Designer Studio API
// @version 1.0
// @description Backend Telegram Mini App дизайн-студии: заказы, этапы, комментарии, портфолио.
// @BasePath /api
// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/designer-studio/internal/config"
	"github.com/ignatzorin/designer-studio/internal/db"
	httpRouter "github.com/ignatzorin/designer-studio/internal/http/router"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/infrastructure/cache"
	"github.com/ignatzorin/designer-studio/internal/infrastructure/persistence"
	"github.com/ignatzorin/designer-studio/internal/infrastructure/telegram"
	"github.com/ignatzorin/designer-studio/internal/interface/http/handler"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/realtime"
	"github.com/ignatzorin/designer-studio/internal/storage"
	"github.com/ignatzorin/designer-studio/internal/usecase/comment"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
	"github.com/ignatzorin/designer-studio/internal/usecase/order"
	"github.com/ignatzorin/designer-studio/internal/usecase/portfolio"
	"github.com/ignatzorin/designer-studio/internal/usecase/profile"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.IsProduction() {
		logger.Init("info")
	} else {
		logger.Init("debug")
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose("база", dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Лента изменений для подписок.
	feed, err := db.NewChangeFeed(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подписки на ленту изменений: %v", err)
	}
	defer safeClose("лента изменений", feed)

	broker := realtime.NewBroker()
	go feed.Run(ctx)
	go broker.Run(ctx, feed.Events())

	// Репозитории.
	profileRepo := persistence.NewProfileRepository(dbConn)
	orderRepo := persistence.NewOrderRepository(dbConn)
	commentRepo := persistence.NewCommentRepository(dbConn)
	portfolioRepo := persistence.NewPortfolioRepository(dbConn)

	// Уведомления администратору. Без токена или чата Dispatcher сразу отвечает успехом.
	var sender notify.Sender
	if cfg.Telegram.NotificationsEnabled() {
		sender = telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, cfg.Telegram.Timeout)
	} else {
		logger.Log.Warn("main: TELEGRAM_BOT_TOKEN или TELEGRAM_ADMIN_CHAT_ID не заданы, уведомления выключены")
	}
	dispatcher := notify.NewDispatcher(sender, cfg.Telegram.AdminChatID, cfg.Telegram.AdminConsoleURL)

	// Идентификация пользователя Mini App.
	if cfg.IsProduction() && cfg.Telegram.BotToken == "" {
		logger.Log.Warn("main: TELEGRAM_BOT_TOKEN не задан, вход в Mini App недоступен")
	}
	provider := identity.NewTelegramInitData(
		cfg.Telegram.BotToken,
		cfg.Telegram.InitDataTTL,
		!cfg.RequireInitData(),
	)
	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Кэш портфолио опционален.
	var portfolioCache portfolio.Cache
	pingers := map[string]handler.Pinger{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewPortfolioCache(cfg.Redis.URL)
		if err != nil {
			logger.Log.WithError(err).Warn("main: redis недоступен, портфолио без кэша")
		} else {
			defer safeClose("redis", redisCache)
			portfolioCache = redisCache
			pingers["redis"] = redisCache
		}
	}

	fileStorage, mediaRoot, err := newFileStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Сценарии.
	syncProfileUC := profile.NewSyncProfileUseCase(profileRepo)
	resolveProfileUC := profile.NewResolveProfileUseCase(profileRepo)

	getOrderUC := order.NewGetOrderUseCase(orderRepo)
	listOrdersUC := order.NewListOrdersUseCase(orderRepo)
	createOrderUC := order.NewCreateOrderUseCase(orderRepo, dispatcher)

	listCommentsUC := comment.NewListCommentsUseCase(orderRepo, commentRepo)
	postCommentUC := comment.NewPostCommentUseCase(orderRepo, commentRepo, dispatcher, cfg.Comments.OptimisticAppend)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth: handler.NewAuthHandler(syncProfileUC, tokens, cfg.RequireInitData()),
		Orders: handler.NewOrderHandler(
			createOrderUC,
			getOrderUC,
			listOrdersUC,
			order.NewUpdateOrderStatusUseCase(orderRepo),
			order.NewUpdateStageStatusUseCase(orderRepo),
		),
		Comments: handler.NewCommentHandler(
			listCommentsUC,
			postCommentUC,
			comment.NewPostInternalNoteUseCase(orderRepo, profileRepo, commentRepo),
		),
		Portfolio: handler.NewPortfolioHandler(
			portfolio.NewListPortfolioUseCase(portfolioRepo, portfolioCache, cfg.Redis.PortfolioTTL),
			portfolio.NewGetPortfolioItemUseCase(portfolioRepo),
		),
		Telegram: handler.NewTelegramHandler(dispatcher),
		Media:    handler.NewMediaHandler(fileStorage, cfg.Media.MaxUploadBytes()),
		Realtime: handler.NewRealtimeHandler(
			broker,
			tokens,
			getOrderUC,
			listOrdersUC,
			listCommentsUC,
			comment.NewWatchCommentsUseCase(commentRepo),
			cfg.AllowedOrigins,
		),
		Health: handler.NewHealthHandler(dbConn, pingers),
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, handlers, provider, resolveProfileUC, mediaRoot)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// newFileStorage выбирает хранилище вложений. Для local возвращает каталог,
// который роутер раздаёт статикой.
func newFileStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, string, error) {
	switch cfg.Media.Driver {
	case "minio":
		s, err := storage.NewMinioStorage(ctx,
			cfg.Media.MinioEndpoint,
			cfg.Media.MinioAccessKey,
			cfg.Media.MinioSecretKey,
			cfg.Media.MinioBucket,
			cfg.Media.MaxUploadBytes(),
		)
		return s, "", err
	default:
		s, err := storage.NewLocalStorage(cfg.Media.StoragePath, cfg.Media.PublicURL, cfg.Media.MaxUploadBytes())
		if err != nil {
			return nil, "", err
		}
		return s, s.Root(), nil
	}
}

// safeClose закрывает ресурс при остановке.
func safeClose(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("main: ошибка закрытия (%s): %v", name, err)
	}
}
