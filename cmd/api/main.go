package main

import (
	"context"
	"log"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/personalink-ai/go-chat-backend/config"
	"github.com/personalink-ai/go-chat-backend/internal/auth"
	"github.com/personalink-ai/go-chat-backend/internal/bootstrap"
	cronjob "github.com/personalink-ai/go-chat-backend/internal/chat/cron"
	chathttp "github.com/personalink-ai/go-chat-backend/internal/chat/http"
	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
	"github.com/personalink-ai/go-chat-backend/internal/generation"
	"github.com/personalink-ai/go-chat-backend/internal/portfolio"
)

const serviceName = "go-chat-backend"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	repository.SetDefaultPromptLimit(cfg.Quota.DefaultLimit)

	store, deps, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	answerer, err := buildAnswerer(ctx, cfg)
	if err != nil {
		log.Fatalf("generation: %v", err)
	}

	loader := buildPortfolioLoader(cfg)

	var verifier auth.TokenVerifier
	if deps.authClient != nil {
		verifier = auth.NewFirebaseVerifier(deps.authClient)
	}

	chat := chathttp.New(verifier, store, answerer, loader)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		StorageBackend: cfg.Storage.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Chat:           chat,
		DB:             deps.pool,
	})

	if cfg.Quota.ResetCron != "" {
		sched := cronjob.NewScheduler(store, cfg.Quota.ResetCron)
		sched.Start()
		defer sched.Stop()
	}

	log.Printf("%s listening on :%s (storage=%s provider=%s)",
		serviceName, cfg.Server.Port, cfg.Storage.Backend, cfg.Generation.Provider)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// storeDeps carries the clients the chosen backend opened, so the rest
// of main can wire them into auth and health.
type storeDeps struct {
	authClient *firebaseauth.Client
	pool       *pgxpool.Pool
}

func buildStore(ctx context.Context, cfg *config.Config) (repository.ProfileStore, storeDeps, error) {
	switch cfg.Storage.Backend {
	case "firestore":
		authCl, fsCl, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, storeDeps{}, err
		}
		return repository.NewFirestoreStore(fsCl), storeDeps{authClient: authCl}, nil

	case "postgres":
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Storage.DSN})
		if err != nil {
			return nil, storeDeps{}, err
		}
		store := repository.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, storeDeps{}, err
		}
		deps := storeDeps{pool: pool}
		// Token verification still comes from Firebase even when
		// profiles live in Postgres.
		if cfg.Firebase.CredentialsPath != "" {
			authCl, _, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
			if err != nil {
				return nil, storeDeps{}, err
			}
			deps.authClient = authCl
		}
		return store, deps, nil

	default: // memory, for local development
		deps := storeDeps{}
		if cfg.Firebase.CredentialsPath != "" {
			authCl, _, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
			if err != nil {
				return nil, storeDeps{}, err
			}
			deps.authClient = authCl
		}
		return repository.NewMemoryStore(), deps, nil
	}
}

func buildAnswerer(ctx context.Context, cfg *config.Config) (generation.Answerer, error) {
	switch cfg.Generation.Provider {
	case "vertex":
		return generation.NewVertexAnswerer(ctx, cfg.Generation.GCPProjectID, cfg.Generation.GCPLocation, cfg.Generation.Model)
	case "openai":
		return generation.NewOpenAIAnswerer(cfg.Generation.OpenAIAPIKey, cfg.Generation.OpenAIBaseURL, cfg.Generation.Model)
	default:
		return generation.NewMockAnswerer(), nil
	}
}

func buildPortfolioLoader(cfg *config.Config) portfolio.Loader {
	loader := portfolio.NewFileLoader(cfg.Portfolio.Path)
	if cfg.Portfolio.RedisAddr == "" || cfg.Portfolio.CacheTTL <= 0 {
		return loader
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Portfolio.RedisAddr})
	ttl := time.Duration(cfg.Portfolio.CacheTTL) * time.Second
	return portfolio.NewCachedLoader(loader, client, ttl)
}
