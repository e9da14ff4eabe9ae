package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	"shopfront/internal/events"
	custommiddleware "shopfront/internal/middleware"
	"shopfront/internal/service"
	"shopfront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	stores    *Stores
	redis     *redis.Client
	publisher events.Publisher
}

func NewServer(cfg *config.Config, logger *zap.Logger, stores *Stores, redisClient *redis.Client, publisher events.Publisher) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger,
		stores:    stores,
		redis:     redisClient,
		publisher: publisher,
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	cfg, logger := s.config, s.logger

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.IsProduction()))
	tokens := auth.NewTokens(cfg.JWT)
	if s.redis != nil {
		router.Use(custommiddleware.IdentifyMiddleware(tokens, cfg.JWT.CookieName))
		router.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "rate_limit",
		}, logger))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Welcome To E-Commerce API"))
	})
	router.Get("/health", s.health)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	userService := service.NewUserService(s.stores.Accounts, hasher, tokens, cfg.Auth.AdminEmails)
	addressService := service.NewAddressService(s.stores.Accounts)
	cartService := service.NewCartService(s.stores.Accounts, s.stores.Products)
	orderService := service.NewOrderService(s.stores.Accounts, s.stores.Orders, s.publisher, logger)
	categoryService := service.NewCategoryService(s.stores.Categories, s.stores.Products)
	productService := service.NewProductService(s.stores.Products, s.stores.Categories)

	authMiddleware := custommiddleware.AuthMiddleware(tokens, cfg.JWT.CookieName, logger)
	cookie := transport.SessionCookie{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.JWT.Expiry,
	}

	transport.NewUserHandler(userService, cookie, logger).RegisterRoutes(router, authMiddleware)
	transport.NewAddressHandler(addressService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewCartHandler(cartService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, authMiddleware)

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	report, healthy := s.stores.Health(r.Context())

	body := map[string]interface{}{"status": "ok", "database": report}
	status := http.StatusOK
	if !healthy {
		body["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			// rate limiting fails open, so redis alone does not fail the check
			body["redis"] = map[string]string{"status": "down", "error": err.Error()}
		} else {
			body["redis"] = map[string]string{"status": "up"}
		}
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

// Close releases the stores, the redis client and the event publisher
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := s.stores.Close(ctx); err != nil {
		s.logger.Error("Failed to close stores", zap.Error(err))
		errs = append(errs, err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if err := s.publisher.Close(); err != nil {
		s.logger.Error("Failed to close event publisher", zap.Error(err))
		errs = append(errs, err)
	}

	s.logger.Sync()
	return errors.Join(errs...)
}
