package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/danisikibeye/diploma_registry/configs"
	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/handlers"
	"github.com/danisikibeye/diploma_registry/jobs"
	"github.com/danisikibeye/diploma_registry/notifications"
	"github.com/danisikibeye/diploma_registry/pdfcompose"
	"github.com/danisikibeye/diploma_registry/pipeline"
	"github.com/danisikibeye/diploma_registry/routes"
	"github.com/danisikibeye/diploma_registry/storage"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	store, err := storage.New(database.DB, config.Config("CLOUDINARY_URL"))
	if err != nil {
		log.Fatalf("🔥 Failed to initialize storage: %v", err)
	}

	assetsDir := config.Config("ASSETS_DIR")
	if assetsDir == "" {
		assetsDir = "./assets"
	}
	p := pipeline.New(store, pdfcompose.NewFileLoader(assetsDir), pipeline.DefaultBranding())
	handlers.InitDiplomaHandlers(p, store)

	c := cron.New()
	c.AddFunc("0 3 * * *", func() { jobs.ReapOrphanBlobs(store.Cloudinary()) })
	go c.Start()
	log.Println("✅ Cron job for blob cleanup scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Diploma Registry",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
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
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Africa/Kinshasa",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Diploma Registry API",
		})
	})

	routes.AuthRoutes(app)
	routes.VerificationRoutes(app)
	routes.UniversityRoutes(app)
	routes.DiplomaRoutes(app)
	routes.MinistryRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
