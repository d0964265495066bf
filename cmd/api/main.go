package main

import (
	"context"
	"net/http"
	"os"

	"github.com/careplushealth/careplus-backend/api/routes"
	"github.com/careplushealth/careplus-backend/internal/appointments"
	"github.com/careplushealth/careplus-backend/internal/auth"
	"github.com/careplushealth/careplus-backend/internal/consultations"
	"github.com/careplushealth/careplus-backend/internal/doctors"
	"github.com/careplushealth/careplus-backend/internal/faq"
	"github.com/careplushealth/careplus-backend/internal/memberships"
	"github.com/careplushealth/careplus-backend/internal/rightscards"
	"github.com/careplushealth/careplus-backend/internal/users"
	"github.com/careplushealth/careplus-backend/pkg/auth/session"
	"github.com/careplushealth/careplus-backend/pkg/config"
	"github.com/careplushealth/careplus-backend/pkg/db"
	"github.com/careplushealth/careplus-backend/pkg/logger"
	"github.com/careplushealth/careplus-backend/pkg/metrics"
	"github.com/careplushealth/careplus-backend/pkg/migrate"
	"github.com/careplushealth/careplus-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	membershipsService, err := memberships.NewService(memberships.ServiceParams{
		Repo:     memberships.NewRepository(dbClient.DB()),
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	rightsCardsService, err := rightscards.NewService(rightscards.ServiceParams{
		Repo:     rightscards.NewRepository(dbClient.DB()),
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rights cards service", err)
		os.Exit(1)
	}

	appointmentsService, err := appointments.NewService(appointments.ServiceParams{
		Repo:     appointments.NewRepository(dbClient.DB()),
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create appointments service", err)
		os.Exit(1)
	}

	doctorsService, err := doctors.NewService(doctors.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create doctors service", err)
		os.Exit(1)
	}

	consultationsService, err := consultations.NewService(consultations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create consultations service", err)
		os.Exit(1)
	}

	faqService, err := faq.NewService(faq.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create faq service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Metrics:       metrics.NewHTTPMetrics(),
			Sessions:      sessionManager,
			AuthService:   authService,
			Register:      registerService,
			Memberships:   membershipsService,
			RightsCards:   rightsCardsService,
			Doctors:       doctorsService,
			Appointments:  appointmentsService,
			Consultations: consultationsService,
			FAQ:           faqService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
