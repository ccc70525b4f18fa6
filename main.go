package main

import (
	"context"
	"errors"
	"hash/crc32"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/gateway"
	"skillswap/global"
	"skillswap/logger"
	"skillswap/module/chat/service"
	"skillswap/module/chat/store"
	"skillswap/server"
	"skillswap/storage"
	"skillswap/tools/ids"
	"skillswap/tools/security"
)

func main() {
	cfg, err := global.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}

	ids.SetNodeID(int64(crc32.ChecksumIEEE([]byte(cfg.NodeID)) % 1024))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Errorf("postgres: %v", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Errorf("schema: %v", err)
		os.Exit(1)
	}

	rdb, err := storage.Dial(ctx, storage.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Errorf("redis: %v", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Gateway plumbing first so services can push through the hub.
	reg := gateway.NewRegistry()
	fan := gateway.NewFanout(4, 1024)
	var relay *gateway.Relay
	if cfg.NatsURL != "" {
		relay, err = gateway.NewRelay(cfg.NatsURL, cfg.NodeID)
		if err != nil {
			logger.Errorf("nats: %v", err)
			os.Exit(1)
		}
		defer relay.Close()
	}
	hub := gateway.NewHub(reg, fan, relay)
	if relay != nil {
		if err := relay.Start(hub.DeliverLocal); err != nil {
			logger.Errorf("relay subscribe: %v", err)
			os.Exit(1)
		}
	}

	jwtOpts := security.DefaultOptions([]byte(cfg.JWTSecret))
	jwtOpts.TTL = cfg.JWTTTL

	identity := service.NewIdentity(jwtOpts, st)
	directory := service.NewDirectory(st, st, st)
	messages := service.NewMessages(st, st, hub)
	groups := service.NewGroups(st, st, hub)
	notifications := service.NewNotifications(st, st, hub)

	ws := gateway.NewServer(gateway.Config{}, reg, hub, identity, groups,
		storage.NewPresence(rdb),
		storage.NewConnectLimiter(rdb, cfg.ConnectLimit, cfg.ConnectWindow))

	router := server.NewRouter(server.Services{
		Identity:      identity,
		Directory:     directory,
		Messages:      messages,
		Groups:        groups,
		Notifications: notifications,
		Gateway:       ws,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s (node %s)", cfg.HTTPAddr, cfg.NodeID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	fan.Close()
}
