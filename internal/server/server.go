package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trellix/internal/auth"
	"trellix/internal/cache"
	"trellix/internal/config"
	"trellix/internal/handler"
	"trellix/internal/middleware"
	"trellix/internal/migrations"
	"trellix/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
}

// Handlers are the route targets of the API.
type Handlers struct {
	Accounts *handler.AccountHandler
	Boards   *handler.BoardHandler
	Health   gin.HandlerFunc
}

func Init(cfg *config.Config) (*Server, error) {
	ConfigureLogging(log.StandardLogger(), cfg.LogLevel, cfg.LogFormat)

	if cfg.AutoMigrate {
		if err := migrations.Up(cfg.MigrateURL()); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info("connected to database")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		log.WithField("addr", opts.Addr).Info("snapshot cache enabled")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)

	accountRepo := repository.NewAccountRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	itemRepo := repository.NewItemRepository(db)

	s := &Server{DB: db, Redis: rdb, Config: cfg}
	s.Engine = NewRouter(Handlers{
		Accounts: handler.NewAccountHandler(accountRepo, tokens, cfg.CookieSecure),
		Boards: handler.NewBoardHandler(boardRepo, columnRepo, itemRepo,
			cache.NewSnapshots(rdb, cfg.CacheTTL),
			cache.NewDeduper(rdb, cfg.IdempotencyTTL)),
		Health: s.health,
	}, tokens, log.StandardLogger())
	return s, nil
}

// NewRouter mounts the API on a fresh gin engine.
func NewRouter(h Handlers, tokens *auth.Tokens, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/signup", h.Accounts.Signup)
	r.POST("/login", h.Accounts.Login)
	r.POST("/logout", h.Accounts.Logout)

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/boards", h.Boards.List)
		authorized.POST("/boards", h.Boards.Create)
		authorized.GET("/boards/:id", h.Boards.Get)
		authorized.POST("/boards/:id", h.Boards.Action)
		authorized.DELETE("/boards/:id", h.Boards.Delete)
	}
	return r
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT ("text" or "json").
func ConfigureLogging(logger *log.Logger, level, format string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	if format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if lvl >= log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok"}
	healthy := true
	if sqlDB, err := s.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unreachable"
		healthy = false
	}
	if s.Redis != nil {
		status["cache"] = "ok"
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			// The cache is optional; report it without failing the probe.
			status["cache"] = "unreachable"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", s.Config.ServerPort).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.close()
	if err == nil {
		log.Info("server exited properly")
	}
	return err
}

func (s *Server) close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
