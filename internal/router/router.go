package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"
	"go.uber.org/zap"

	"github.com/pinkpulsehealth/broadcast/internal/broadcast"
)

const welcomeText = "Welcome to the Pink Pulse broadcast server"

type Config struct {
	AllowedOrigin string
	// OperatorJWTSecret, when set, requires an HS256 bearer token on the
	// broadcast endpoints.
	OperatorJWTSecret string
}

// New builds the Fiber app with middleware and every route registered.
func New(cfg Config, broadcastHandler *broadcast.Handler, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pinkpulse-broadcast",
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigin,
		AllowMethods: "GET,POST",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(welcomeText)
	})
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	var guards []fiber.Handler
	if cfg.OperatorJWTSecret != "" {
		guards = append(guards, jwtware.New(jwtware.Config{
			SigningKey: []byte(cfg.OperatorJWTSecret),
		}))
	}
	broadcastHandler.RegisterRoutes(app, guards...)

	return app
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Info("request", fields...)
		return err
	}
}
