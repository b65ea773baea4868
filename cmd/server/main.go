package main

import (
	"context"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mindscope/internal/ai"
	"mindscope/internal/db"
	"mindscope/internal/handlers"
	mw "mindscope/internal/middleware"
	"mindscope/internal/services"
	"mindscope/internal/store"
	"mindscope/internal/wellness"
)

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// mustKey decodes a 32-byte key from a 64-char hex env var.
func mustKey(logger *zap.Logger, name string) []byte {
	key, err := hex.DecodeString(os.Getenv(name))
	if err != nil || len(key) != 32 {
		logger.Fatal("key must be 64 hex characters (32 bytes)", zap.String("var", name))
	}
	return key
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	encryptionKey := mustKey(logger, "ENCRYPTION_KEY")
	blindIndexKey := mustKey(logger, "BLIND_INDEX_KEY")
	port := getenv("PORT", "8080")

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	encSvc, err := services.NewEncryptionService(encryptionKey, blindIndexKey)
	if err != nil {
		logger.Fatal("failed to build encryption service", zap.Error(err))
	}
	st := store.NewPostgres(dbConn, encSvc)

	gateway := ai.NewClient(
		os.Getenv("OPENAI_BASE_URL"),
		os.Getenv("OPENAI_API_KEY"),
		getenv("OPENAI_MODEL", "gpt-4o-mini"),
		logger,
	)
	svc := wellness.NewService(st, gateway, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(st, []byte(jwtSecret))
	userHandler := handlers.NewUserHandler(st)
	moodHandler := handlers.NewMoodHandler(svc)
	chatHandler := handlers.NewChatHandler(svc)
	dashboardHandler := handlers.NewDashboardHandler(svc)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/users/me", userHandler.GetMe)
			pr.Post("/moods", moodHandler.Add)
			pr.Get("/moods", moodHandler.List)
			pr.Post("/chat/messages", chatHandler.Send)
			pr.Get("/chat/messages", chatHandler.List)
			pr.Delete("/chat/messages", chatHandler.Clear)
			pr.Post("/chat/places", chatHandler.FindPlaces)
			pr.Post("/chat/music", chatHandler.SuggestMusic)
			pr.Get("/dashboard", dashboardHandler.Get)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
