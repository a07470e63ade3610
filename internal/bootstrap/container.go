package bootstrap

import (
	"context"
	"log"

	"shiftdesk-be/internal/config"
	"shiftdesk-be/internal/controller"
	"shiftdesk-be/internal/handler"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/internal/pkg/mailer"
	"shiftdesk-be/internal/repository/memory"
	"shiftdesk-be/internal/repository/unitofwork"
	"shiftdesk-be/internal/service"
	"shiftdesk-be/internal/websocket"
	"shiftdesk-be/pkg/geocode"
	"shiftdesk-be/pkg/intent"
	pktNats "shiftdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController         controller.IAuthController
	OrganizationController controller.IOrganizationController
	ShiftController        controller.IShiftController
	TicketController       controller.ITicketController
	ChatController         controller.IChatController
	GeocodeController      controller.IGeocodeController
	ReportController       controller.IReportController

	// Live feed
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	// Background workers, started by Start
	AlertService service.IAlertService
	FeedService  *service.FeedService

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	pubSub  *gochannel.GoChannel
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. In-process bus for ticket alerts
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure. NATS and Redis are optional: without them events
	// are dropped and the feed stays local to this instance.
	var natsPub *pktNats.Publisher
	if pub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		natsPub = pub
	}
	var natsSub *pktNats.Subscriber
	if sub, err := pktNats.NewSubscriber(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		natsSub = sub
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	var rdb *redis.Client
	if client := redis.NewClient(opt); client.Ping(context.Background()).Err() != nil {
		log.Printf("[WARN] Redis unavailable at %s, running single-instance", opt.Addr)
		_ = client.Close()
	} else {
		rdb = client
	}

	// 4. Intent matcher registry
	intentCfg := intent.Config{
		SimilarityThreshold:    cfg.Intent.SimilarityThreshold,
		ShortPhraseMaxLen:      cfg.Intent.ShortPhraseMaxLen,
		ShortPhraseMaxDistance: cfg.Intent.ShortPhraseMaxDistance,
	}
	registry, err := intent.NewBuiltinRegistry(intentCfg, cfg.Intent.DefaultLocale)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build intent registry: %v", err)
	}
	if cfg.Intent.PhraseDir != "" {
		loaded, err := registry.LoadDir(cfg.Intent.PhraseDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load phrase tables from %s: %v", cfg.Intent.PhraseDir, err)
		}
		sysLogger.Info("Bootstrap", "Loaded phrase tables", map[string]interface{}{"locales": loaded})
	}
	matchers := service.NewMatcherProvider(registry, cfg.Intent.MatcherCacheTTL)

	// 5. Reverse geocoding
	var geoCache geocode.Cache
	if cfg.Geocode.Backend == "redis" && rdb != nil {
		geoCache = geocode.NewRedisCache(rdb, cfg.Geocode.CacheTTL)
	} else {
		geoCache = geocode.NewMemoryCache(cfg.Geocode.CacheTTL)
	}
	geoClient := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Keys.Geoapify, cfg.Geocode.Timeout)
	geoResolver := geocode.NewCachedResolver(geoClient, geoCache, cfg.Geocode.Precision).
		OnCacheError(func(op, key string, err error) {
			sysLogger.Warn("Geocode", "Address cache "+op+" failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		})
	geocodeService := service.NewGeocodeService(
		geoResolver,
		cfg.Geocode.Timeout,
		sysLogger,
	)

	// 6. Domain services. A nil *Publisher must not reach the services as a
	// non-nil interface.
	var events service.EventPublisher
	if natsPub != nil {
		events = natsPub
	}

	publisherService := service.NewPublisherService(cfg.Events.TicketAlertTopic, pubSub)
	authService := service.NewAuthService(uowFactory, cfg.App.JWTExpiry)
	organizationService := service.NewOrganizationService(uowFactory, matchers, sysLogger)
	shiftService := service.NewShiftService(uowFactory, organizationService, geocodeService, events, sysLogger)
	ticketService := service.NewTicketService(uowFactory, organizationService, events, publisherService, sysLogger)
	chatService := service.NewChatService(
		matchers,
		memory.NewSessionRepository(cfg.Intent.SessionTTL),
		organizationService,
		shiftService,
		ticketService,
		sysLogger,
	)
	reportService := service.NewReportService(uowFactory, organizationService)

	alertService := service.NewAlertService(
		pubSub,
		cfg.Events.TicketAlertTopic,
		uowFactory,
		organizationService,
		emailService,
		sysLogger,
	)

	// 7. Live feed
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	wsHub := websocket.NewHub(rdb, feedLogger)
	var feedService *service.FeedService
	if natsSub != nil {
		feedService = service.NewFeedService(natsSub, wsHub, cfg.Events.FeedDurable, feedLogger)
	}

	return &Container{
		Logger: sysLogger,

		AuthController:         controller.NewAuthController(authService),
		OrganizationController: controller.NewOrganizationController(organizationService),
		ShiftController:        controller.NewShiftController(shiftService),
		TicketController:       controller.NewTicketController(ticketService),
		ChatController:         controller.NewChatController(chatService),
		GeocodeController:      controller.NewGeocodeController(geocodeService),
		ReportController:       controller.NewReportController(reportService),

		FeedHandler:  handler.NewFeedHandler(organizationService, wsHub, feedLogger),
		WebSocketHub: wsHub,

		AlertService: alertService,
		FeedService:  feedService,

		natsPub: natsPub,
		natsSub: natsSub,
		pubSub:  pubSub,
		rdb:     rdb,
	}
}

// Start launches the hub and the background consumers. They stop when ctx
// is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.AlertService.Consume(ctx); err != nil {
		return err
	}
	if c.FeedService != nil {
		if err := c.FeedService.Start(ctx); err != nil {
			return err
		}
	} else {
		c.Logger.Warn("Bootstrap", "NATS unavailable, live feed disabled", nil)
	}
	return nil
}

// Close releases the broker connections.
func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close alert bus", map[string]interface{}{"error": err.Error()})
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
