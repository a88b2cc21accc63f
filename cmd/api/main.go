package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	config "github.com/tutorlk/scheduling_backend/configs"
	"github.com/tutorlk/scheduling_backend/database"
	"github.com/tutorlk/scheduling_backend/handlers"
	"github.com/tutorlk/scheduling_backend/jobs"
	"github.com/tutorlk/scheduling_backend/repository"
	"github.com/tutorlk/scheduling_backend/routes"
	"github.com/tutorlk/scheduling_backend/services"
	"github.com/tutorlk/scheduling_backend/zoom"
)

func main() {
	db, err := database.ConnectDB(config.Config("DATABASE_URL"))
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 %v", err)
	}

	defaultLoc := loadDefaultLocation()

	availabilityRepo := repository.NewGormAvailabilityRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	attendeeRepo := repository.NewGormAttendeeRepository(db)

	zoomService := zoom.NewService(zoom.Config{
		AccountID:    config.Config("ZOOM_ACCOUNT_ID"),
		ClientID:     config.Config("ZOOM_CLIENT_ID"),
		ClientSecret: config.Config("ZOOM_CLIENT_SECRET"),
		APIBaseURL:   config.Config("ZOOM_API_BASE_URL"),
		AuthURL:      config.Config("ZOOM_AUTH_URL"),
		Timeout:      zoomTimeout(),
	})

	availabilityService := services.NewAvailabilityService(availabilityRepo, defaultLoc)
	schedulingService := services.NewSchedulingService(availabilityRepo, sessionRepo, attendeeRepo, zoomService, defaultLoc)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.NewCompletionJob(sessionRepo).Run)
	go c.Start()
	log.Println("✅ Cron job for session completion scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Tutor Scheduling",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, x-user-id, x-user-role, x-user-permissions",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AvailabilityRoutes(app, handlers.NewAvailabilityHandler(availabilityService))
	routes.SchedulingRoutes(app, handlers.NewSchedulingHandler(schedulingService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

// loadDefaultLocation resolves the zone used to interpret timestamps that
// arrive without an explicit offset. Deployments serve Sri Lanka by default.
func loadDefaultLocation() *time.Location {
	name := config.Config("DEFAULT_TIMEZONE")
	if name == "" {
		name = "Asia/Colombo"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: unknown DEFAULT_TIMEZONE %q, falling back to UTC", name)
		return time.UTC
	}
	return loc
}

func zoomTimeout() time.Duration {
	raw := config.Config("ZOOM_REQUEST_TIMEOUT_SECONDS")
	if raw == "" {
		return 30 * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}
