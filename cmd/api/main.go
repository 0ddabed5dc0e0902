package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/auth"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/handlers"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/httpserver"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/logging"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/store"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/tmdb"
)

type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	Env         string        `envconfig:"ENV" default:"development"`
	LogFile     string        `envconfig:"LOG_FILE"`
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer   string        `envconfig:"JWT_ISSUER" default:"movietracking"`
	JWTTTL      time.Duration `envconfig:"JWT_TTL" default:"720h"`
	JWKSURL     string        `envconfig:"JWKS_URL"`
	JWTAudience string        `envconfig:"JWT_AUDIENCE"`
	TMDBAPIKey  string        `envconfig:"TMDB_API_KEY" required:"true"`
	TMDBBaseURL string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
}

func mustLoadEnv() Config {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		log.Fatalf("env error: %v", err)
	}
	return c
}

func mustDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sqlDB, _ := db.DB()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	return db
}

func main() {
	cfg := mustLoadEnv()
	logger := logging.Init(cfg.Env, cfg.LogFile)

	db := mustDB(cfg.DatabaseURL)
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	tmdbClient := tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	issuer := &auth.TokenIssuer{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL}
	verifier := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	verifier.JWKSURL = cfg.JWKSURL
	verifier.Audience = cfg.JWTAudience

	wlHandler := handlers.NewWatchlistHandler(st)
	tmdbHandler := handlers.NewTMDBHandler(tmdbClient)
	authHandler := handlers.NewAuthHandler(st, issuer)

	mounter := func(r chi.Router) {
		// Public routes
		r.Route("/tmdb", tmdbHandler.Routes)
		r.Route("/auth", func(r chi.Router) {
			authHandler.PublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(verifier.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})
		// Authed routes
		r.Group(func(r chi.Router) {
			r.Use(verifier.Middleware)
			r.Route("/watchlists", wlHandler.Routes)
		})
	}

	srv := httpserver.NewServer(mounter)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env)
	if err := http.ListenAndServe(addr, srv.Router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
