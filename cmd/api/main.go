package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jobportal-backend/internal/cache"
	"jobportal-backend/internal/config"
	"jobportal-backend/internal/db"
	"jobportal-backend/internal/handlers"
	"jobportal-backend/internal/logger"
	"jobportal-backend/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	// cache is optional; without REDIS_ADDR the handlers hit the DB directly
	var store *cache.Cache
	if cfg.RedisAddr != "" {
		store, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer store.Close()
		log.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		Log:       log,
	}
	jobH := handlers.NewJobHandler(gdb, store, log)
	appH := handlers.NewApplicationHandler(gdb, cfg.UploadDir, cfg.PublicBaseURL, log)
	savedH := handlers.NewSavedJobHandler(gdb, log)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)

	jobs := api.Group("/jobs")
	jobs.Get("/", jobH.List)
	jobs.Get("/filters/locations", jobH.GetLocations)
	jobs.Get("/filters/skills", jobH.GetSkills)

	verifyJWT := middleware.JWTFromHeader(cfg.JWTSecret)
	attach := middleware.AttachJWTLocals()
	candidateOnly := middleware.RequireRoles("candidate")
	recruiterOnly := middleware.RequireRoles("recruiter")

	// candidate: saved jobs (static routes before /:id)
	jobs.Get("/saved", verifyJWT, attach, candidateOnly, savedH.ListSaved)
	jobs.Post("/saved/migrate", verifyJWT, attach, candidateOnly, savedH.Migrate)
	jobs.Post("/:id/save", verifyJWT, attach, candidateOnly, savedH.Save)
	jobs.Delete("/:id/save", verifyJWT, attach, candidateOnly, savedH.Unsave)

	// recruiter: posting lifecycle
	jobs.Post("/", verifyJWT, attach, recruiterOnly, jobH.Create)
	jobs.Get("/mine", verifyJWT, attach, recruiterOnly, jobH.ListMine)
	jobs.Delete("/:id", verifyJWT, attach, recruiterOnly, jobH.Delete)
	jobs.Get("/:id/applications", verifyJWT, attach, recruiterOnly, appH.ListForJob)

	// candidate: apply workflow
	jobs.Post("/:id/apply", verifyJWT, attach, candidateOnly, appH.Apply)
	jobs.Get("/:id/applied", verifyJWT, attach, candidateOnly, appH.IsApplied)

	// public detail routes after the static ones
	jobs.Get("/:id/related", jobH.Related)
	jobs.Get("/:id", jobH.GetByID)

	applications := api.Group("/applications")
	applications.Get("/", verifyJWT, attach, recruiterOnly, appH.ListForRecruiter)
	applications.Get("/me", verifyJWT, attach, candidateOnly, appH.ListMine)
	applications.Patch("/:id/status", verifyJWT, attach, recruiterOnly, appH.UpdateStatus)
	applications.Get("/:id/resume", verifyJWT, attach, recruiterOnly, appH.GetResume)

	log.Info("starting job portal API", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
