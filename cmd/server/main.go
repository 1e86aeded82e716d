package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productcatalog/auth"
	"productcatalog/config"
	"productcatalog/db"
	"productcatalog/db/mongo"
	"productcatalog/db/postgres"
	"productcatalog/handlers"
	"productcatalog/logging"
	"productcatalog/repository"
	"productcatalog/routes"
	"productcatalog/service"
)

func main() {
	// Load config from .env or environment
	cfg := config.LoadConfig()
	log := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var store db.DB
	var userRepo repository.UserRepository
	var referenceRepo repository.ReferenceRepository
	var productRepo repository.ProductRepository

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(connectCtx); err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		if err := db.RunMigrations(pg.Conn, cfg.Migrations); err != nil {
			log.Fatalf("postgres migrations: %v", err)
		}
		log.Info("migrations applied")

		store = pg
		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		referenceRepo = repository.NewPostgresReferenceRepo(pg.Conn)
		productRepo = repository.NewPostgresProductRepo(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
		if err := mg.Connect(connectCtx); err != nil {
			log.Fatalf("mongo connect: %v", err)
		}

		store = mg
		database := mg.Database()
		userRepo = repository.NewMongoUserRepo(database)
		referenceRepo = repository.NewMongoReferenceRepo(database)
		productRepo = repository.NewMongoProductRepo(database)

	default:
		log.Fatalf("DB_TYPE %q not supported", cfg.DBType)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	catalog := service.NewCatalog(productRepo, referenceRepo, log, cfg.DBTimeout)
	accounts := service.NewAccounts(userRepo, tokens, log, cfg.BcryptCost, cfg.DBTimeout)

	handler := routes.SetupRoutes(routes.Deps{
		Users:      &handlers.UserHandler{Accounts: accounts, Log: log},
		Products:   &handlers.ProductHandler{Catalog: catalog, Log: log},
		Health:     &handlers.HealthHandler{DB: store, Log: log},
		Tokens:     tokens,
		Log:        log,
		CORSOrigin: cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server running on port %s (store: %s)", cfg.Port, cfg.DBType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := store.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("store disconnect")
	}
}
