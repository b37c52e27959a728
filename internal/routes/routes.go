package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quayside-wallet/quayside/internal/assets"
	"github.com/quayside-wallet/quayside/internal/config"
	"github.com/quayside-wallet/quayside/internal/events"
	"github.com/quayside-wallet/quayside/internal/marketdata"
	"github.com/quayside-wallet/quayside/internal/middleware"
	"github.com/quayside-wallet/quayside/internal/node"
	"github.com/quayside-wallet/quayside/internal/notification"
	"github.com/quayside-wallet/quayside/internal/session"
	"github.com/quayside-wallet/quayside/internal/transfers"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Session *session.Gate
	Logger  *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	RegisterHealthRoutes(app, d)

	gate := d.Session
	if gate == nil {
		gate = session.NewGate()
		gate.Open()
	}

	var eventStore events.Store
	if d.DB != nil {
		store := events.NewPostgresStore(d.DB)
		if err := store.EnsureSchema(context.Background()); err != nil {
			return err
		}
		eventStore = store
	} else {
		eventStore = events.NewInMemory()
	}

	nodeClient := node.NewClient(d.Cfg.NodeURL)
	marketClient := marketdata.NewClient(d.Cfg.MatcherURL, d.Cfg.MarketDataURL)
	notifier := notification.NewLoggerNotifier(d.Logger)

	assetSvc := assets.NewService(nodeClient, marketClient, gate, eventStore, d.Cfg.WalletAddress, d.Logger)
	transferSvc := transfers.NewService(eventStore, assetSvc, notifier)

	assetHandler := assets.NewHandler(assetSvc)
	transferHandler := transfers.NewHandler(transferSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Only the volatile quote endpoints go through the response cache;
	// health and transfer routes must never serve stale bodies.
	var quoteCache []fiber.Handler
	if d.Cache != nil {
		quoteCache = append(quoteCache, middleware.QuoteCache(d.Cache, d.Cfg.QuoteCacheTTL, d.Logger))
	}

	RegisterAssetRoutes(api, assetHandler, quoteCache...)
	RegisterTransferRoutes(api, transferHandler)

	return nil
}
