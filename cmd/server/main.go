package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"givepay/config"
	"givepay/internal/database"
	"givepay/internal/lock"
	"givepay/internal/router"
	"givepay/pkg/gateway"
	"givepay/pkg/publisher"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var locker lock.Locker
	switch cfg.Lock.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
		})
		locker = lock.NewRedisLocker(client)
		log.Printf("[LOCK] redis backend at %s", cfg.Lock.RedisAddr)
	default:
		locker = lock.NewLocalLocker()
		log.Printf("[LOCK] local backend (single instance only)")
	}

	var pub publisher.Publisher
	if cfg.Server.Env == "production" {
		pub = publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		pub = publisher.LogPublisher{}
	}
	defer pub.Close()

	gw := gateway.NewSimulated()
	log.Printf("[GATEWAY] using %s provider", gw.Name())

	engine, relay := router.Setup(cfg, db, locker, gw, pub)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(relayCtx)
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	stopRelay()
	<-relayDone

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
