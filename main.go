package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/todoapp/todo-api/handlers"
	"github.com/todoapp/todo-api/internal/config"
	"github.com/todoapp/todo-api/internal/todo/handler"
	"github.com/todoapp/todo-api/internal/todo/repository"
	"github.com/todoapp/todo-api/internal/todo/service"
	"github.com/todoapp/todo-api/pkg/logger"
	"github.com/todoapp/todo-api/pkg/metrics"
	"github.com/todoapp/todo-api/pkg/middleware"
)

var startTime = time.Now()

const (
	readyTimeout    = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: store=%s redis=%v rate_limit=%v page_size=%d",
		cfg.Store.Driver, cfg.Redis.Host != "", cfg.RateLimit.Enabled, cfg.PageSize)

	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, repo, rdb)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting todo service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newRouter assembles middleware, operational endpoints and the todo
// resource. rdb may be nil when Redis is not configured.
func newRouter(cfg *config.Config, repo repository.Repository, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(cfg.CORS.AllowedOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(repo, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			api.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			if cfg.RateLimit.UseRedis {
				logger.Warn("RATE_LIMIT_USE_REDIS set without REDIS_HOST; using in-process limiter")
			}
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handler.RegisterTodoRoutes(api, service.NewService(repo, cfg.PageSize))
	return r
}

// readiness returns 200 only when the store (and Redis, when configured)
// answer a ping.
func readiness(repo repository.Repository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		ready := true
		deps := map[string]bool{"store": true}
		if p, ok := repo.(repository.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				logger.Warnf("readiness: store ping failed: %v", err)
				deps["store"] = false
				ready = false
			}
		}
		if rdb != nil {
			deps["redis"] = rdb.Ping(ctx).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).Round(time.Second).String()})
	}
}
