package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/api"
	"github.com/teesbyshelsea/storefront/internal/cart"
	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/checkout"
	"github.com/teesbyshelsea/storefront/internal/config"
	"github.com/teesbyshelsea/storefront/internal/database"
	"github.com/teesbyshelsea/storefront/internal/limiter"
	"github.com/teesbyshelsea/storefront/internal/logger"
	mw "github.com/teesbyshelsea/storefront/internal/middleware"
	"github.com/teesbyshelsea/storefront/internal/payment"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/promo"
	"github.com/teesbyshelsea/storefront/internal/repo"
	"github.com/teesbyshelsea/storefront/internal/resp"
	"github.com/teesbyshelsea/storefront/internal/service"
	"github.com/teesbyshelsea/storefront/internal/storage"
)

// AppDependencies holds the wired handler graph.
type AppDependencies struct {
	UserHandler     *api.UserHandler
	ProductHandler  *api.ProductHandler
	CartHandler     *api.CartHandler
	CheckoutHandler *api.CheckoutHandler
	OrderHandler    *api.OrderHandler
	JWTService      service.JWTService
	AuthLimiter     limiter.Limiter
}

func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initDatabase opens MySQL and applies migrations before the server
// accepts requests.
func initDatabase(cfg *config.Config, lg *zap.Logger) (*database.DB, error) {
	db, err := database.New(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	if err := db.RunMigrations(cfg.Migrations.Dir); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %v", err)
	}

	return db, nil
}

// initStorage selects the cart storage backend. A Redis connection
// failure falls back to in-memory storage so the storefront stays up.
func initStorage(cfg *config.Config, lg *zap.Logger) storage.Store {
	if cfg.Storage.Backend == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisStore, err := storage.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Sugar().Warnw("failed to connect to Redis, falling back to memory storage", "error", err)
			return storage.NewMemoryStore()
		}
		lg.Sugar().Infow("cart storage enabled", "backend", "redis", "addr", addr)
		return redisStore
	}
	lg.Sugar().Infow("cart storage enabled", "backend", "memory")
	return storage.NewMemoryStore()
}

func initDependencies(cfg *config.Config, db *database.DB, store storage.Store, lg *zap.Logger) *AppDependencies {
	userRepo := repo.NewUserRepository(db)
	userService := service.NewUserService(userRepo, lg)
	jwtService := service.NewJWTService(cfg, lg)
	userHandler := api.NewUserHandler(userService, jwtService, lg)

	productRepo := repo.NewProductRepository(db)
	provider := catalog.NewRepositoryProvider(productRepo)
	productHandler := api.NewProductHandler(provider, lg)

	rules := pricing.NewRuleset(cfg.Pricing)
	promos := promo.NewResolver(cfg.Promo)
	gateway := payment.NewSimulatedGateway(lg)
	validators := checkout.DefaultValidators()

	orderRepo := repo.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, provider, gateway, rules, promos,
		validators, cfg.Checkout.DeliveryOffset, lg)
	orderHandler := api.NewOrderHandler(orderService, lg)

	carts := cart.NewManager(store, lg)
	validator := cart.NewValidator(provider, lg)
	checkouts := checkout.NewManager(checkout.Deps{
		Carts:          carts,
		Validator:      validator,
		Gateway:        gateway,
		Submitter:      orderService,
		Rules:          rules,
		Promos:         promos,
		Validators:     validators,
		DeliveryOffset: cfg.Checkout.DeliveryOffset,
		Logger:         lg,
	})
	cartHandler := api.NewCartHandler(checkouts, provider, validator, rules, lg)
	checkoutHandler := api.NewCheckoutHandler(checkouts, lg)

	// Auth endpoints are rate limited when Redis backs the cart storage;
	// without Redis there is no shared counter and limiting is skipped.
	var authLimiter limiter.Limiter
	if cfg.RateLimit.Enabled {
		if redisStore, ok := store.(*storage.RedisStore); ok {
			authLimiter = limiter.NewTokenBucketLimiter(redisStore.Client(), &limiter.Config{
				Rate:      cfg.RateLimit.Rate,
				Window:    cfg.RateLimit.Window,
				Burst:     cfg.RateLimit.Burst,
				KeyPrefix: "limiter:auth",
			})
			lg.Sugar().Infow("auth rate limiting enabled",
				"rate", cfg.RateLimit.Rate, "window", cfg.RateLimit.Window, "burst", cfg.RateLimit.Burst)
		} else {
			lg.Sugar().Warnw("rate limiting requested but Redis is unavailable, skipping")
		}
	}

	return &AppDependencies{
		UserHandler:     userHandler,
		ProductHandler:  productHandler,
		CartHandler:     cartHandler,
		CheckoutHandler: checkoutHandler,
		OrderHandler:    orderHandler,
		JWTService:      jwtService,
		AuthLimiter:     authLimiter,
	}
}

func setupRoutes(cfg *config.Config, deps *AppDependencies, lg *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := mw.RequestIDFromContext(r.Context())
		data := map[string]any{
			"status":  "ok",
			"version": cfg.App.Version,
		}
		resp.OK(w, &data, reqID, "")
	})

	// Auth endpoints, optionally rate limited per client IP.
	registerHandler := http.Handler(http.HandlerFunc(deps.UserHandler.Register))
	loginHandler := http.Handler(http.HandlerFunc(deps.UserHandler.Login))
	if deps.AuthLimiter != nil {
		limit := limiter.Middleware(deps.AuthLimiter, cfg.RateLimit.Burst, lg)
		registerHandler = limit(registerHandler)
		loginHandler = limit(loginHandler)
	}
	mux.Handle("/api/auth/register", methodHandler(http.MethodPost, registerHandler))
	mux.Handle("/api/auth/login", methodHandler(http.MethodPost, loginHandler))

	// Public catalog.
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.ProductHandler.List(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/api/products/")
			deps.ProductHandler.Get(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Everything below requires authentication.
	auth := mw.Auth(deps.JWTService, lg)

	mux.Handle("/api/users/me", auth(methodHandler(http.MethodGet, http.HandlerFunc(deps.UserHandler.Me))))

	mux.Handle("/api/cart", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.CartHandler.Get(w, r)
		case http.MethodDelete:
			deps.CartHandler.Clear(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/cart/items", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			deps.CartHandler.AddItem(w, r)
		case http.MethodPut:
			deps.CartHandler.UpdateItem(w, r)
		case http.MethodDelete:
			deps.CartHandler.RemoveItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/cart/validate", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CartHandler.Validate))))

	mux.Handle("/api/checkout", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.CheckoutHandler.Get(w, r)
		case http.MethodDelete:
			deps.CheckoutHandler.Discard(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/checkout/start", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.Start))))
	mux.Handle("/api/checkout/shipping", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.Shipping))))
	mux.Handle("/api/checkout/payment", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.Payment))))
	mux.Handle("/api/checkout/back", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.Back))))
	mux.Handle("/api/checkout/promo", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.Promo))))
	mux.Handle("/api/checkout/place-order", auth(methodHandler(http.MethodPost, http.HandlerFunc(deps.CheckoutHandler.PlaceOrder))))

	mux.Handle("/api/orders", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.OrderHandler.List(w, r)
		case http.MethodPost:
			deps.OrderHandler.Create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/orders/", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
			deps.OrderHandler.Get(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Middleware chain, outermost first on the way in:
	// access log -> CORS -> timeout -> recovery -> request ID.
	handler := mw.RequestID(mux)
	handler = mw.Recovery(lg)(handler)
	handler = mw.Timeout(cfg.App.RequestTimeout)(handler)
	handler = mw.CORS(mw.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})(handler)
	handler = mw.AccessLog(lg)(handler)

	return handler
}

// methodHandler restricts a handler to one HTTP method.
func methodHandler(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// startServer runs the HTTP server until a shutdown signal arrives, then
// drains in-flight requests.
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

func main() {
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := initDatabase(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize database", "err", err)
	}
	defer func() { _ = db.Close() }()

	store := initStorage(cfg, lg)
	defer func() { _ = store.Close() }()

	deps := initDependencies(cfg, db, store, lg)
	handler := setupRoutes(cfg, deps, lg)
	startServer(cfg, handler, lg)
}
