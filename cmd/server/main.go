package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-order-service/internal/auth"
	"food-order-service/internal/config"
	"food-order-service/internal/controllers/http"
	"food-order-service/internal/infra/broadcast"
	"food-order-service/internal/infra/cache"
	"food-order-service/internal/infra/catalog"
	"food-order-service/internal/infra/events"
	mmysql "food-order-service/internal/infra/mysql"
	"food-order-service/internal/infra/paystack"
	"food-order-service/internal/infra/rabbitmq"
	mysqlrepo "food-order-service/internal/repository/mysql"
	"food-order-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mmysql.Open(cfg.MySQL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	repo := mysqlrepo.NewOrderRepository(db)
	notes := mysqlrepo.NewNotificationRepository(db)

	gateway := paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Timeout)
	if !gateway.Configured() {
		slog.Warn("PAYSTACK_SECRET_KEY not set, gateway payments will be refused")
	}

	hub := broadcast.NewHub(broadcast.DefaultBuffer)
	defer hub.Close()
	publishers := events.Fanout{hub}
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, rabbitmq.DefaultExchange)
		if err != nil {
			slog.Warn("rabbitmq unavailable, events stay in-process", "err", err)
		} else {
			defer publisher.Close()
			// The broker mirror runs off the request path.
			mirror := events.NewAsync(publisher, events.DefaultAsyncBuffer, events.DefaultAsyncTimeout)
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mirror.Close(flushCtx); err != nil {
					slog.Warn("event mirror not flushed", "err", err)
				}
			}()
			publishers = append(publishers, mirror)
		}
	}

	s := services.NewOrderService(repo, gateway, publishers, notes)
	s.SetCurrency(cfg.Currency)

	var menuCache cache.MenuCache = cache.NewLRUMenuCache(1024)
	if cfg.RedisHost != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisHost + ":6379",
			DB:           0,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis ping failed, caches degrade to misses", "err", err)
		}
		s.SetOrderCache(cache.NewRedisOrderCache(redisClient, cache.DefaultOrderTTL))
		menuCache = cache.NewRedisMenuCache(redisClient, cache.DefaultMenuTTL)
	}
	if cfg.Catalog.URL != "" {
		s.SetCatalog(catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout), menuCache)
	}

	staff, err := auth.ParseStaffAccounts(cfg.Auth.StaffAccounts)
	if err != nil {
		return err
	}
	var tokens *auth.Tokens
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	} else {
		slog.Warn("JWT_SECRET not set, every caller is anonymous")
	}
	orderLimiter := auth.NewIPRateLimiter(cfg.OrderRate.RPS, cfg.OrderRate.Burst)
	loginLimiter := auth.NewIPRateLimiter(cfg.LoginRate.RPS, cfg.LoginRate.Burst)
	attempts := auth.NewAttemptTracker(cfg.Auth.MaxAttempts, cfg.Auth.Lockout)

	handler := http.NewHandler(s, http.Options{
		Notifications: services.NewNotificationService(notes),
		Hub:           hub,
		Login:         auth.NewLoginGuard(attempts, staff),
		Tokens:        tokens,
		OrderLimiter:  orderLimiter,
		LoginLimiter:  loginLimiter,
		Ping:          sqlDB.PingContext,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting order service", "port", cfg.Port, "staff_accounts", staff.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Open streams never finish on their own.
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if len(cfg.Catalog.WarmupItems) == 0 {
			return nil
		}
		if err := s.WarmupMenuCache(gctx, cfg.Catalog.WarmupItems); err != nil {
			slog.Warn("menu cache warmup interrupted", "err", err)
		} else {
			slog.Info("menu cache warmed up", "items", len(cfg.Catalog.WarmupItems))
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				orderLimiter.Sweep(10 * time.Minute)
				loginLimiter.Sweep(10 * time.Minute)
				attempts.Sweep(cfg.Auth.Lockout)
			}
		}
	})

	return g.Wait()
}
