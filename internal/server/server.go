// Package server contains the HTTP handlers and route wiring for the
// Trailhaven web application.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"trailhaven/internal/cache"
	"trailhaven/internal/config"
	"trailhaven/internal/database"
	"trailhaven/internal/geocode"
	"trailhaven/internal/imagehost"
	"trailhaven/internal/middleware"
	"trailhaven/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	sessionCookieName  = "trailhaven_session"
	sessionUserIDKey   = "userID"
	sessionUsernameKey = "username"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	sessions       *session.Store
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	campgroundRepo repository.CampgroundRepository
	commentRepo    repository.CommentRepository
	geocoder       geocode.Geocoder
	images         imagehost.Client
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	images, err := imagehost.NewCloudinary(
		cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("image host client failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient,
		geocode.NewOpenCage(cfg.GeocoderAPIKey), images), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and the
// external clients.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, geocoder geocode.Geocoder, images imagehost.Client) *Server {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("trailhaven"),
		userRepo:       repository.NewUserRepository(db),
		campgroundRepo: repository.NewCampgroundRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		geocoder:       geocoder,
		images:         images,
	}

	sessionConfig := session.Config{
		Expiration:     7 * 24 * time.Hour,
		KeyLookup:      "cookie:" + sessionCookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if redisClient != nil {
		if storage, err := cache.NewSessionStorage(redisClient); err == nil {
			sessionConfig.Storage = storage
		}
	}
	server.sessions = session.New(sessionConfig)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// HTML forms can only GET/POST; rewrite _method overrides before routing.
	app.Use(middleware.MethodOverride())

	// Encrypt all cookies (including the session id) with a key derived from
	// the session secret.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveCookieKey(s.config.SessionSecret),
	}))

	// Resolve session identity into locals before anything logs or gates.
	app.Use(s.SessionLoader())

	// Context middleware propagates request ID and user ID into ctx for slog
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("Too many requests, please try again later.")
		},
	}))
}

// deriveCookieKey turns the configured session secret into the base64 32-byte
// key the cookie encryption middleware requires.
func deriveCookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Landing and static pages
	app.Get("/", s.Landing)
	app.Get("/about", s.About)

	// Account routes
	app.Get("/register", s.ShowRegister)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.ShowLogin)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Campground routes. Specific paths (/new, /:id/edit) are registered
	// before the generic /:id routes.
	campgrounds := app.Group("/campgrounds")
	campgrounds.Get("/", s.ListCampgrounds)
	campgrounds.Get("/new", s.RequireLogin, s.NewCampground)
	campgrounds.Post("/", s.RequireLogin, s.CreateCampground)
	campgrounds.Get("/:id/edit", s.RequireCampgroundOwner, s.EditCampground)
	campgrounds.Get("/:id", s.ShowCampground)
	campgrounds.Patch("/:id", s.RequireCampgroundOwner, s.UpdateCampground)
	campgrounds.Delete("/:id", s.RequireCampgroundOwner, s.DeleteCampground)

	// Comment routes nested under a campground
	comments := campgrounds.Group("/:id/comments")
	comments.Get("/new", s.RequireLogin, s.NewComment)
	comments.Post("/", s.RequireLogin, s.CreateComment)
	comments.Get("/:commentId/edit", s.RequireCommentOwner, s.EditComment)
	comments.Patch("/:commentId", s.RequireCommentOwner, s.UpdateComment)
	comments.Delete("/:commentId", s.RequireCommentOwner, s.DeleteComment)

	// Profile routes
	users := app.Group("/users")
	users.Get("/:id/edit", s.RequireProfileOwner, s.EditProfile)
	users.Get("/:id", s.ShowProfile)
	users.Patch("/:id", s.RequireProfileOwner, s.UpdateProfile)
	users.Delete("/:id", s.RequireProfileOwner, s.DeleteProfile)

	// Catch-all renders the generic error page
	app.Use(func(c *fiber.Ctx) error {
		return s.render(c, "error", fiber.Map{})
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"redis":  redisStatus,
		"time":   time.Now(),
	})
}

// Shutdown releases server-held resources during graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
