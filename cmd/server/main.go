package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/config"
	"github.com/Skotchmaster/bookly/internal/db"
	"github.com/Skotchmaster/bookly/internal/httpserver"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	loggingmw "github.com/Skotchmaster/bookly/internal/middleware/logging"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/search"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()

	database, err := db.Open(ctx, configuration.DatabaseDSN())
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	redisClient, err := blocklist.NewClient(ctx, configuration.REDIS_ADDR)
	if err != nil {
		log.Fatalf("redis error: %v", err)
	}

	var index *search.Index
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		index = &search.Index{ES: esClient, Name: "books"}
	} else {
		logger.Warn("ES_URL not set, book search disabled")
	}

	producer := mail.NewProducer(configuration.KAFKA_ADDRESS, configuration.MAIL_TOPIC)

	codec := tokens.NewCodec([]byte(configuration.JWT_SECRET))
	blocked := blocklist.New(redisClient, service.AccessTokenTTL)

	users := &repo.UserRepo{DB: database}
	books := &repo.BookRepo{DB: database}
	reviews := &repo.ReviewRepo{DB: database}

	mw := &httpserver.AuthMiddleware{Codec: codec, Blocklist: blocked, Users: users}

	deps := httpserver.Deps{
		Auth: &httpserver.AuthHandler{
			Svc: &service.AuthService{
				Users:     users,
				Codec:     codec,
				Blocklist: blocked,
				Mailer:    producer,
				Domain:    configuration.APP_DOMAIN,
			},
			MW: mw,
		},
		Books:   &httpserver.BookHandler{Svc: &service.BookService{Books: books, Index: index}, MW: mw},
		Reviews: &httpserver.ReviewHandler{Svc: &service.ReviewService{Reviews: reviews, Books: books, Users: users}, MW: mw},
		MW:      mw,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
