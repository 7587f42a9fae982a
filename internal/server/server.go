package server

import (
	"context"

	"github.com/Hardik-Kaushik/geotrackingFull/internal/config"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/identity"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/notify"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/roster"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App        *fiber.App
	Cfg        config.Config
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Dispatcher *notify.Dispatcher
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	s := &Server{
		App:        app,
		Cfg:        cfg,
		DB:         db,
		Redis:      redisClient,
		Dispatcher: notify.NewDispatcher(mailer, notify.DefaultDispatcherConfig()),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	session := identity.SessionMiddleware(s.Cfg.JWTSecret)
	identitySvc := identity.NewService(s.Cfg.JWTSecret, s.DB)
	trackingSvc := tracking.NewService(s.DB, tracking.NewStore(s.Redis), s.Dispatcher)

	identity.RegisterRoutes(s.App, identitySvc, session, func(ctx context.Context, sessionID string) {
		_ = trackingSvc.ClearSession(ctx, sessionID)
	})
	tracking.RegisterRoutes(s.App, trackingSvc, session)
	roster.RegisterRoutes(s.App.Group("/admin"), roster.NewService(s.DB),
		session, identity.RequireCapability(identity.CapViewRoster))
}
