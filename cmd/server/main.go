package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qnrlabs/order_service/internal/config"
	"github.com/qnrlabs/order_service/internal/db"
	"github.com/qnrlabs/order_service/internal/es"
	"github.com/qnrlabs/order_service/internal/httpserver"
	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/middleware"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/mykafka"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/service"
	"github.com/qnrlabs/order_service/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}, &models.Order{}, &models.BlacklistedToken{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	orderSvc := &service.OrderService{ESIndex: cfg.ESIndex}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		orderSvc.ES = esClient
	}

	gormRepo := &repo.GormRepo{DB: gormDB}
	codec := &tokens.Codec{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}
	blacklist := &service.TokenBlacklistService{Repo: gormRepo}
	orderSvc.Repo = gormRepo

	authSvc := &service.AuthService{
		Repo:      gormRepo,
		Codec:     codec,
		Blacklist: blacklist,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc, Producer: producer},
		OrderHandler: &httpserver.OrderHTTP{Svc: orderSvc, Producer: producer},
		AuthMW:       middleware.NewAuth(codec, blacklist, gormRepo),
	})

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
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
