package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk/auth"
	"tourdesk/bookings"
	"tourdesk/config"
	"tourdesk/db"
	"tourdesk/excursions"
	"tourdesk/groups"
	"tourdesk/livefeed"
	"tourdesk/middleware"
	"tourdesk/mq"
	"tourdesk/notify"
	"tourdesk/products"
	"tourdesk/ratelim"
	"tourdesk/rdx"
	"tourdesk/routes"
	"tourdesk/taxonomy"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	database, err := db.Connect(startCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		logger.Error("connect mongo", "err", err)
		os.Exit(1)
	}
	if err := database.EnsureIndexes(startCtx); err != nil {
		logger.Warn("ensure indexes", "err", err)
	}

	var (
		conn  *redis.Client
		cache rdx.Cache = rdx.NopCache{}
	)
	if cfg.RedisAddr != "" {
		conn, err = rdx.Connect(startCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable; catalog cache and pub/sub disabled", "err", err)
			conn = nil
		} else {
			cache = rdx.NewCache(conn)
		}
	}

	tokens := middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL)
	admins := auth.NewMongoStore(database)
	if err := auth.Bootstrap(startCtx, admins, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("bootstrap admin", "err", err)
	}
	cancel()

	// the catalog and taxonomy reference each other, so the back links are set after construction
	taxonomySvc := taxonomy.NewService(taxonomy.NewMongoStore(database), nil)
	excursionSvc := excursions.NewService(excursions.NewMongoStore(database), taxonomySvc, cache, cfg.CatalogCacheTTL)
	taxonomySvc.SetReferenceCleaner(excursionSvc)
	productSvc := products.NewService(products.NewMongoStore(database), excursionSvc)
	excursionSvc.SetProducts(productSvc)
	groupSvc := groups.NewService(groups.NewMongoStore(database), productSvc, excursionSvc)
	if cfg.ManifestFont != "" {
		ttf, err := os.ReadFile(cfg.ManifestFont)
		if err != nil {
			logger.Warn("manifest font unavailable; falling back to Arial", "path", cfg.ManifestFont, "err", err)
		} else {
			groupSvc.SetManifestFont(ttf)
		}
	}

	hub := livefeed.NewHub()
	go hub.Run()
	emitter := mq.NewEmitter(conn, hub)
	go emitter.StartWorker(ctx)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AdminNotifyEmail)
	}
	bookingSvc := bookings.NewService(bookings.NewMongoStore(database), excursionSvc, notifier, emitter)

	rateLimiter := ratelim.NewRateLimiter(cfg.BookingRatePerMin, 3)

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Auth:             tokens,
		RateLimiter:      rateLimiter,
		Hub:              hub,
		AllowedOrigins:   cfg.CORSOrigins,
		UploadDir:        cfg.UploadDir,
		AuthHandler:      auth.NewHandler(admins, tokens),
		TaxonomyHandler:  taxonomy.NewHandler(taxonomySvc),
		ExcursionHandler: excursions.NewHandler(excursionSvc, excursions.NewImageStore(cfg.UploadDir, "/static/uploads")),
		ProductHandler:   products.NewHandler(productSvc),
		GroupHandler:     groups.NewHandler(groupSvc),
		BookingHandler:   bookings.NewHandler(bookingSvc),
	})

	// CORS -> security headers -> logging -> recover -> router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(middleware.SecurityHeaders(middleware.NewSlogLogger(logger)(middleware.Recover(router))))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		logger.Info("stopping live feed hub")
		hub.Stop()
	})

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen and serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; shutting down gracefully")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	bookingSvc.Wait()
	rateLimiter.Stop()
	if conn != nil {
		_ = conn.Close()
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("close mongo", "err", err)
	}

	logger.Info("server stopped cleanly")
}
