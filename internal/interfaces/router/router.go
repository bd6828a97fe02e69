package router

import (
	propsvc "consignado-backend/internal/application/propostas"
	"consignado-backend/internal/config"
	"consignado-backend/internal/infrastructure/database"
	healthhandler "consignado-backend/internal/interfaces/handlers/health"
	prophandler "consignado-backend/internal/interfaces/handlers/propostas"
	"consignado-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires middleware, handlers and routes. The DB and Redis client
// are returned so main can verify connectivity on startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
		app.Use(middleware.HealthMarker(rdb))
	}
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/reset", hh.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		store := &propsvc.Store{DB: db}
		svc := &propsvc.Service{Store: store, TaxaPadrao: cfg.TaxaJurosPadrao}
		ph := &prophandler.Handlers{Service: svc}

		grp := app.Group("/api/propostas")
		grp.Post("/create", ph.Store)
		grp.Get("/", ph.Index)
		grp.Get("/:id", ph.Show)
		grp.Get("/:id/events", ph.Events)
		grp.Patch("/:id/update", ph.Update)
		grp.Patch("/:id/status", ph.UpdateStatus)
		grp.Delete("/:id", ph.Destroy)
	}

	return app, db, rdb, nil
}
