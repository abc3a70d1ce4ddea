package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/expensio/expensio/internal/config"
	"github.com/expensio/expensio/internal/es"
	"github.com/expensio/expensio/internal/events"
	"github.com/expensio/expensio/internal/httpserver"
	"github.com/expensio/expensio/internal/logging"
	mw "github.com/expensio/expensio/internal/middleware"
	"github.com/expensio/expensio/internal/repo"
	"github.com/expensio/expensio/internal/service"
)

func main() {
	cfg := config.Load()

	// Missing signing secrets are a configuration error, not something to
	// discover on the first request.
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "REFRESH_TOKEN_SECRET")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.OpenDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	}

	gormRepo := &repo.GormRepo{DB: db}
	tokenSvc := &service.TokenService{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	expenseHTTP := &httpserver.ExpenseHTTP{
		Svc: &service.ExpenseService{
			Repo:   gormRepo,
			Events: producer,
		},
	}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		expenseHTTP.ES = esClient
		expenseHTTP.ESIndex = cfg.ESIndex
		expenseHTTP.Svc.Index = &es.Indexer{ES: esClient, Index: cfg.ESIndex}
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:   gormRepo,
				Tokens: tokenSvc,
				Events: producer,
			},
		},
		Expenses: expenseHTTP,
		Guard:    mw.NewAuthGuard(tokenSvc),
	})

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
