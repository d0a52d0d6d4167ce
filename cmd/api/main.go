package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velora-storefront/config"
	"velora-storefront/internal/delivery/http/middleware"
	v1 "velora-storefront/internal/delivery/http/v1"
	infracache "velora-storefront/internal/infrastructure/cache"
	"velora-storefront/internal/infrastructure/catalog"
	"velora-storefront/internal/infrastructure/firebaseauth"
	infrakv "velora-storefront/internal/infrastructure/kv"
	"velora-storefront/internal/infrastructure/payment"
	"velora-storefront/internal/repository/postgres"
	"velora-storefront/internal/store"
	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/kv"
	"velora-storefront/pkg/logger"
	"velora-storefront/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	cfg.Validate()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")
	orderRepo := postgres.NewOrderRepository(pgxPool)

	// Durable state medium: Redis when reachable, in-process otherwise.
	var medium kv.Store
	redisClient, err := infrakv.Dial(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory state store")
		medium = infrakv.NewMemoryStore()
	} else {
		log.Info().Str("addr", cfg.RedisAddr).Msg("Successfully connected to Redis")
		medium = infrakv.NewRedisStore(redisClient, cfg.StateTTL)
	}
	stateStore := store.New(medium, cfg.MaxCartQuantity)

	// Initialize Cache (In-Memory)
	memCache := infracache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Identity gateway. Without credentials the auth endpoints are not mounted.
	var gateway *firebaseauth.Gateway
	if cfg.FirebaseCredentialsFile != "" {
		gateway, err = firebaseauth.New(context.Background(), cfg.FirebaseCredentialsFile, cfg.FirebaseAPIKey, cfg.FirebaseSignInURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize identity gateway")
		}
	}

	// Payment
	verifier := payment.NewVerifier(cfg.FlwBaseURL, cfg.FlwSecretKey, cfg.VerifyTimeout)
	registry := payment.NewRegistry()

	// Set up Router
	mux := http.NewServeMux()

	// Catalog Module
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	catalogUC := usecase.NewCatalogUsecase(catalogClient, memCache, cfg)
	catalogHandler := v1.NewCatalogHandler(catalogUC)

	// Auth Module
	var watchStop func()
	if gateway != nil {
		authUC := usecase.NewAuthUsecase(gateway, cfg)
		watchStop = authUC.WatchSessions()
		authHandler := v1.NewAuthHandler(authUC)

		mux.HandleFunc("POST /api/v1/auth/signup", authHandler.SignUp)
		mux.HandleFunc("POST /api/v1/auth/login", authHandler.SignIn)
		mux.HandleFunc("POST /api/v1/auth/provider", authHandler.SignInWithProvider)
		mux.HandleFunc("POST /api/v1/auth/reset-password", authHandler.ResetPassword)
		mux.Handle("POST /api/v1/auth/logout", middleware.AuthMiddleware(http.HandlerFunc(authHandler.SignOut)))
		mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))
	}

	// Cart Module
	cartUC := usecase.NewCartUsecase(stateStore, catalogUC)
	cartHandler := v1.NewCartHandler(cartUC)

	// Wishlist Module
	wishlistUC := usecase.NewWishlistUsecase(stateStore, catalogUC)
	wishlistHandler := v1.NewWishlistHandler(wishlistUC)

	// Checkout Module
	checkoutUC := usecase.NewCheckoutUsecase(stateStore, orderRepo, verifier, registry, cfg)
	checkoutHandler := v1.NewCheckoutHandler(checkoutUC, stateStore)
	paymentHandler := v1.NewPaymentHandler(checkoutUC, verifier)

	// Theme Module
	themeHandler := v1.NewThemeHandler(stateStore)

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.GetProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)
	mux.HandleFunc("GET /api/v1/categories/{id}/products", catalogHandler.GetProductsByCategory)
	mux.HandleFunc("GET /api/v1/search", catalogHandler.SearchProducts)

	// Cart (Protected)
	mux.Handle("GET /api/v1/cart", middleware.AuthMiddleware(http.HandlerFunc(cartHandler.GetMyCart)))
	mux.Handle("POST /api/v1/cart", middleware.AuthMiddleware(http.HandlerFunc(cartHandler.AddToCart)))
	mux.Handle("PUT /api/v1/cart/{lineId}", middleware.AuthMiddleware(http.HandlerFunc(cartHandler.UpdateQuantity)))
	mux.Handle("DELETE /api/v1/cart/{lineId}", middleware.AuthMiddleware(http.HandlerFunc(cartHandler.RemoveFromCart)))
	mux.Handle("DELETE /api/v1/cart", middleware.AuthMiddleware(http.HandlerFunc(cartHandler.ClearCart)))

	// Wishlist (Protected)
	mux.Handle("GET /api/v1/wishlist", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.GetMyWishlist)))
	mux.Handle("POST /api/v1/wishlist", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.AddToWishlist)))
	mux.Handle("DELETE /api/v1/wishlist/{productId}", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.RemoveFromWishlist)))
	mux.Handle("DELETE /api/v1/wishlist", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.ClearWishlist)))
	mux.Handle("POST /api/v1/wishlist/move-to-cart", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.MoveAllToCart)))

	// Checkout & Orders (Protected)
	mux.Handle("POST /api/v1/checkout", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.PlaceOrder)))
	mux.Handle("GET /api/v1/checkout/billing", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.GetSavedBilling)))
	mux.Handle("GET /api/v1/orders", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.GetMyOrders)))
	mux.Handle("GET /api/v1/orders/{id}", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.GetOrder)))

	// Payments: the callback is unauthenticated on purpose, the widget posts
	// back without our access token. The tx_ref is the capability.
	mux.HandleFunc("POST /api/v1/payments/callback", paymentHandler.Callback)
	mux.HandleFunc("POST /api/v1/payments/verify", paymentHandler.Verify)

	// Theme (Protected)
	mux.Handle("GET /api/v1/theme", middleware.AuthMiddleware(http.HandlerFunc(themeHandler.GetTheme)))
	mux.Handle("PUT /api/v1/theme", middleware.AuthMiddleware(http.HandlerFunc(themeHandler.SetTheme)))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()
	if watchStop != nil {
		watchStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Let pending state mirror writes land before the process exits.
	stateStore.Flush()
	pgxPool.Close()

	log.Info().Msg("Server exited properly")
}
