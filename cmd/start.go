package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"course-studio/core/database"
	"course-studio/core/loader"
	"course-studio/core/logger"
	"course-studio/core/middleware/auth"
	"course-studio/core/middleware/rayid"
	"course-studio/core/storage"
	"course-studio/feature/archive"
	"course-studio/feature/courses"
	"course-studio/feature/dashboard"
	"course-studio/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "course-studio/docs/swagger"
)

// @title Course Studio API
// @version 1.0
// @description API for browsing, authoring and following video courses.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the course studio server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := loadRuntime()
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.Validate(); err != nil {
			logg.Fatal("Invalid server configuration", zap.Error(err))
		}

		// Database is optional: without it only the integrity feature is mounted.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Archive bucket is not available", zap.Error(err))
		}
		cancel()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		courseFeature := courses.NewFeature(db, logg, applyOptions(cfg), draftTTL(cfg))

		mgr := loader.NewManager()
		mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, cfg.Storage.Region, logg, db, schemaModels()...))
		mgr.Register(courseFeature)
		mgr.Register(dashboard.NewFeature(db, logg))
		mgr.Register(archive.NewFeature(store, cfg.Storage.Bucket, courseFeature.Service(), logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.Server.Origins(), ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + auth.APIKeyHeader + ", " + rayid.Header,
		}))

		// Swagger stays public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, JWTSecret: cfg.Auth.JWTSecret}))
		if cfg.Server.ApiKey == "" && cfg.Auth.JWTSecret == "" {
			logg.Warn("No API key or JWT secret configured, every request runs as the system user")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		for _, f := range mgr.Features() {
			logg.Info("Feature", zap.String("name", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
