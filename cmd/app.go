package cmd

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/config"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/kds"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/router"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
	"gorm.io/gorm"
)

// app holds every long-lived component of one process.
type app struct {
	cfg   config.Config
	db    *gorm.DB
	store *database.Store
	redis *redis.Client

	feed      services.ChangeFeed
	sink      services.EventSink
	redisFeed *services.RedisChangeFeed
	monitor   *services.ChangeMonitor

	auth          *services.AuthService
	catalog       *services.Catalog
	checkout      *services.Checkout
	board         *services.OrderBoard
	lifecycle     *services.OrderLifecycle
	kitchen       *services.KitchenDisplay
	notifications *services.NotificationFeed
	admin         *services.AdminService
	reports       *services.ReportService
	settings      *services.SettingsService
	hub           *kds.Hub
}

func openStore(cfg config.Config) (*gorm.DB, *database.Store, error) {
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, errors.Wrap(err, "migrate")
	}
	return db, database.NewStore(db, cfg.Store.Timeout), nil
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	db, store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db, store: store, hub: kds.NewHub()}
	loc := cfg.Display.Location()

	// Change feed: journal monitor publishes locally or through redis
	local := services.NewLocalFeed()
	a.feed, a.sink = local, local
	if cfg.ChangeFeed.Driver == "redis" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.redisFeed = services.NewRedisChangeFeed(a.redis, cfg.ChangeFeed.Channel)
		a.feed, a.sink = a.redisFeed, a.redisFeed
	}
	a.monitor = services.NewChangeMonitor(store, a.sink, cfg.ChangeFeed.PollInterval)

	a.auth = services.NewAuthService(store, utils.NewTokenSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), utils.NewTokenBlacklist())
	a.settings = services.NewSettingsService(store)
	a.catalog = services.NewCatalog(store)
	a.checkout = services.NewCheckout(store, a.settings)
	a.board = services.NewOrderBoard(store)
	a.lifecycle = services.NewOrderLifecycle(store)
	a.admin = services.NewAdminService(store, a.auth, loc)

	a.notifications = services.NewNotificationFeed(cfg.Notifications.Capacity)
	a.notifications.OnAdd = func(n models.Notification) { a.hub.BroadcastNotification(n) }

	a.kitchen = services.NewKitchenDisplay(store, a.lifecycle, services.KitchenOptions{
		PollInterval:        cfg.Kitchen.PollInterval,
		DelayedAfterMinutes: cfg.Kitchen.DelayedAfterMinutes,
		OnUpdate:            func(t []services.KitchenTicket) { a.hub.BroadcastKitchenUpdate(t) },
	})

	var archive services.ReportArchive
	if cfg.Reports.ArchiveBucket != "" {
		s3, err := services.NewS3Archive(ctx, cfg.Reports.ArchiveBucket, cfg.Reports.ArchiveRegion)
		if err != nil {
			return nil, err
		}
		archive = s3
	}
	a.reports = services.NewReportService(store, services.NewMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From), archive, loc)
	return a, nil
}

func (a *app) router() *router.Deps {
	return &router.Deps{
		Auth:           a.auth,
		Catalog:        a.catalog,
		Checkout:       a.checkout,
		Board:          a.board,
		Lifecycle:      a.lifecycle,
		Kitchen:        a.kitchen,
		Notifications:  a.notifications,
		Admin:          a.admin,
		Reports:        a.reports,
		Settings:       a.settings,
		Hub:            a.hub,
		CORSOrigin:     a.cfg.Server.CorsOrigin,
		TrustedProxies: a.cfg.Server.TrustedProxies,
		Health:         a.store.Ping,
	}
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

const shutdownTimeout = 10 * time.Second
