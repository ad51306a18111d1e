package main // Entry point package

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/campuskit/identity/internal/config"
	"github.com/campuskit/identity/internal/database"
	"github.com/campuskit/identity/internal/handler"
	"github.com/campuskit/identity/internal/logger"
	"github.com/campuskit/identity/internal/middleware"
	"github.com/campuskit/identity/internal/queue"
	"github.com/campuskit/identity/internal/repository"
	"github.com/campuskit/identity/internal/router"
	"github.com/campuskit/identity/internal/schema"
	"github.com/campuskit/identity/internal/service"
	"github.com/campuskit/identity/internal/session"
)

func main() {
	_ = godotenv.Load() // best effort; env vars win over .env

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	if err := users.EnsureTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure auth_users table failed")
	}
	depts := repository.NewDeptRepo(db)

	// Discover the department table shape eagerly so a misconfigured
	// deployment shows up in the boot log.  A failure here is not fatal: the
	// inspector retries on first use, so a dept table created after boot
	// still becomes usable without a restart.
	inspector := schema.NewInspector(db, cfg.DeptTable)
	if desc, err := inspector.Describe(ctx); err != nil {
		log.Warn().Err(err).Str("table", cfg.DeptTable).Msg("department schema not resolvable yet")
	} else {
		log.Info().Str("table", desc.Table).Str("id_column", desc.IDColumn).
			Str("name_column", desc.NameColumn).Bool("auto_assigned", desc.AutoAssigned).
			Msg("department schema discovered")
	}

	resolver := service.NewResolver(inspector, depts)
	svc := service.NewAuthService(users, resolver, inspector, cfg.BcryptCost, queue.NewPublisher(), log)

	// Sessions live in Redis when it is reachable; otherwise fall back to
	// the in-process store so the service still runs, single-instance.
	var sessions session.Store
	ttl := time.Duration(cfg.SessionTTLMin) * time.Minute
	if rc := config.NewRedisClient(); rc != nil {
		sessions = session.NewRedisStore(rc, ttl)
		log.Info().Msg("sessions backed by redis")
	} else {
		sessions = session.NewMemoryStore()
		log.Warn().Msg("redis unreachable; sessions held in process memory")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.LoadSession(sessions, cfg.SessionSecret))

	auth := handler.NewAuthHandler(cfg, svc, sessions, log)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth)
	router.RegisterGenerate(e, handler.NewGenerateHandler(log))
	router.RegisterStatic(e, cfg.PublicDir)

	// Optional background consumer that appends registrations to a log file.
	if v := os.Getenv("REGISTRATION_LOG_ENABLED"); strings.EqualFold(v, "true") || v == "1" {
		go func() {
			if err := queue.StartRegistrationConsumer(); err != nil {
				log.Error().Err(err).Msg("registration consumer stopped")
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
