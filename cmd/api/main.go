package main

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/evenzo/evenzo-backend/internal/config"
	"github.com/evenzo/evenzo-backend/internal/handler"
	"github.com/evenzo/evenzo-backend/internal/middleware"
	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/database"
	"github.com/evenzo/evenzo-backend/pkg/email"
	"github.com/evenzo/evenzo-backend/pkg/logger"
	"github.com/evenzo/evenzo-backend/pkg/ratelimit"
	"github.com/evenzo/evenzo-backend/pkg/storage"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	zapLogger := logger.New()
	defer zapLogger.Sync()

	// Database (migrations and service catalog seeding run inside)
	db := database.NewDatabase(cfg.DatabaseURL)

	// Rate limiter: redis when reachable, otherwise noop
	var rateLimiter ratelimit.Limiter
	if redisClient := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password); redisClient != nil {
		rateLimiter = ratelimit.NewRedisLimiter(redisClient)
	} else {
		zapLogger.Warnw("redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr)
		rateLimiter = ratelimit.NewNoop()
	}

	// Object storage (R2)
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// Email service
	emailService := email.NewEmailService(zapLogger)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, emailService, rateLimiter, zapLogger)
	userService := service.NewUserService(userRepo, r2Storage, zapLogger)
	eventService := service.NewEventService(eventRepo, serviceRepo, reviewRepo, r2Storage, zapLogger)
	reviewService := service.NewReviewService(reviewRepo, eventRepo, rateLimiter, zapLogger)
	dashboardService := service.NewDashboardService(eventRepo, reviewRepo, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, eventService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	eventHandler := handler.NewEventHandler(eventService, userService, validator)
	reviewHandler := handler.NewReviewHandler(reviewService, userService, validator)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, userService)

	// Router
	app := fiber.New(fiber.Config{
		BodyLimit: 60 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(models.ErrorResponse(err.Error()))
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberLogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Public event routes (token optional, used for review visibility)
	api.Get("/events", eventHandler.ListEvents)
	api.Get("/events/suggestions", eventHandler.Suggestions)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Get("/events/:id/reviews", middleware.OptionalAuth(), reviewHandler.ListReviews)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		user := api.Group("/user")
		user.Get("/profile", userHandler.GetMyProfile)
		user.Put("/profile", userHandler.UpdateMyProfile)

		events := api.Group("/events")
		events.Post("/", middleware.RequireRoles(models.RoleSeller), eventHandler.CreateEvent)
		events.Put("/:id", middleware.RequireRoles(models.RoleSeller), eventHandler.UpdateEvent)
		events.Delete("/:id", middleware.RequireRoles(models.RoleSeller), eventHandler.DeleteEvent)

		events.Post("/:id/reviews", reviewHandler.CreateReview)
		events.Patch("/:id/reviews/:reviewID", reviewHandler.UpdateReview)
		events.Delete("/:id/reviews/:reviewID", reviewHandler.DeleteReview)

		api.Get("/dashboard", middleware.RequireRoles(models.RoleSeller), dashboardHandler.GetDashboard)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
