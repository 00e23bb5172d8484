package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gerai-be/internal/admin"
	"gerai-be/internal/admincache"
	"gerai-be/internal/cart"
	"gerai-be/internal/catalog"
	"gerai-be/internal/category"
	"gerai-be/internal/changefeed"
	"gerai-be/internal/config"
	"gerai-be/internal/db"
	"gerai-be/internal/httpapi"
	"gerai-be/internal/logger"
	"gerai-be/internal/notification"
	"gerai-be/internal/order"
	"gerai-be/internal/product"
	"gerai-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	serviceDB, err := db.NewServiceRoleDB(cfg)
	if err != nil {
		logger.L().Fatal("failed to open elevated pool", zap.Error(err))
	}
	defer serviceDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Change feed: Postgres NOTIFY -> hub -> stores and caches.
	hub := changefeed.NewHub()
	defer hub.Close()
	listener := changefeed.NewListener(db.DSN(cfg), hub)
	go listener.Run(ctx)

	pricing := cart.Pricing{
		DeliveryFee:           cfg.DeliveryFee,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
	}

	productRepo := product.NewRepository(database)
	categoryRepo := category.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)

	// Profile reads and dashboard aggregates cross row-policy
	// boundaries, so they run on the elevated pool.
	userRepo := user.NewRepository(serviceDB)
	adminRepo := admin.NewRepository(serviceDB)

	productSvc := product.NewService(productRepo)
	userSvc := user.NewService(userRepo)
	cartSvc := cart.NewService(cartRepo, productRepo, pricing)
	orderSvc := order.NewService(orderRepo, pricing)
	statsSvc := admin.NewStatsService(adminRepo, cfg.StatsQueryTimeout, cfg.StatsOverallTimeout)

	gateway := notification.NewWhatsAppGateway(cfg.WhatsAppGatewayURL, cfg.WhatsAppGatewayToken)
	notificationSvc := notification.NewService(orderRepo, userRepo, gateway)

	catalogStore := catalog.NewStore(productRepo, categoryRepo, hub)
	go catalogStore.Run(ctx)

	cache := admincache.New()
	refresher := admincache.NewRefresher(hub, cache, time.Second)
	refresher.AddRule(admincache.Rule{Prefix: "users:", Tables: []string{"profiles"}})
	refresher.AddRule(admincache.Rule{Prefix: "orders:", Tables: []string{"orders", "order_items"}})
	refresher.AddRule(admincache.Rule{Prefix: "stats:", Tables: []string{"orders", "order_items", "profiles", "products"}})
	refresher.Start(ctx)

	handlers := httpapi.Handlers{
		Profile:      httpapi.NewProfileHandler(userSvc),
		Admin:        httpapi.NewAdminHandler(userSvc, orderSvc, statsSvc, productSvc, categoryRepo, cache),
		Catalog:      httpapi.NewCatalogHandler(catalogStore),
		Cart:         httpapi.NewCartHandler(cartSvc),
		Order:        httpapi.NewOrderHandler(orderSvc),
		Notification: httpapi.NewNotificationHandler(notificationSvc),
		Share:        httpapi.NewShareHandler(catalogStore, cfg.WebDir, cfg.PublicBaseURL),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      httpapi.NewRouter(handlers, []byte(cfg.JWTSecret)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("forced shutdown", zap.Error(err))
		os.Exit(1)
	}
	logger.L().Info("server exited")
}
