package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/shamimfewd/job-provider-server/internal/app"
	"github.com/shamimfewd/job-provider-server/internal/config"
	"github.com/shamimfewd/job-provider-server/internal/database"
	apphttp "github.com/shamimfewd/job-provider-server/internal/http"
	"github.com/shamimfewd/job-provider-server/internal/http/handlers"
	httpmw "github.com/shamimfewd/job-provider-server/internal/http/middleware"
	mongorepo "github.com/shamimfewd/job-provider-server/internal/repository/mongo"
	"github.com/shamimfewd/job-provider-server/internal/security"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	})

	client := database.NewMongo(database.MongoConfig{URI: cfg.MongoURI})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Error("failed to disconnect mongo")
		}
	}()
	db := client.Database(cfg.DatabaseName)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		indexCancel()
		log.Fatalf("failed to ensure indexes: %v", err)
	}
	indexCancel()

	jobRepo := mongorepo.NewJobRepository(db)
	bidRepo := mongorepo.NewBidRepository(db)

	jobService := app.NewJobService(jobRepo)
	bidService := app.NewBidService(bidRepo)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(jwtProvider, cfg.TokenTTL, cfg.IsProduction())
	jobHandler := handlers.NewJobHandler(jobService)
	bidHandler := handlers.NewBidHandler(bidService)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:    authHandler,
		JobHandler:     jobHandler,
		BidHandler:     bidHandler,
		AuthMiddleware: middleware,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("job provider is running on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
