package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/talentscope/config"
	"github.com/yoockh/talentscope/internal/api/handlers"
	"github.com/yoockh/talentscope/internal/api/middleware"
	"github.com/yoockh/talentscope/internal/api/routes"
	"github.com/yoockh/talentscope/internal/cache"
	"github.com/yoockh/talentscope/internal/logger"
	authprovider "github.com/yoockh/talentscope/internal/providers/auth"
	"github.com/yoockh/talentscope/internal/providers/llm"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/repositories/memory"
	mongorepo "github.com/yoockh/talentscope/internal/repositories/mongo"
	pgrepo "github.com/yoockh/talentscope/internal/repositories/postgres"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/storage"
	"github.com/yoockh/talentscope/internal/talent"
	"github.com/yoockh/talentscope/internal/workers"
)

type stores struct {
	shortlists repositories.ShortlistRepository
	users      repositories.UserRepository
	history    repositories.SearchHistoryRepository
	convos     repositories.ConversationRepository
	sessions   repositories.AuthSessionRepository
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	l := logger.NewWithOutput(os.Stdout, cfg.LogLevel)
	boot := logger.Component(l, "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStores(ctx, cfg, boot)

	// Init Redis
	var rdb *redis.Client
	var c cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr == "" {
		boot.Warn("REDIS_ADDR not set, using in-process cache and synchronous search history")
	} else {
		if err := config.InitRedis(ctx, cfg.RedisAddr); err != nil {
			boot.WithError(err).Fatal("Redis init error")
		}
		rdb = config.RedisClient
		c = cache.NewRedisCache(rdb, l)
		defer rdb.Close()
		boot.Info("Redis connected")
	}

	client := torre.New(cfg.TorreAPIBase, cfg.TorreSearchBase, cfg.TorreTimeout, l)
	agg := talent.NewAggregator(client, talent.AggregatorConfig{
		Terms:         cfg.TopTalentTerms,
		MinRankScore:  cfg.TopTalentMinRank,
		MinCompletion: cfg.TopTalentMinCompletion,
		OverFetch:     cfg.TopTalentOverFetch,
		TermDelay:     cfg.TopTalentTermDelay,
	}, l)
	tr := talent.NewTransformer()

	history := services.NewHistoryService(st.history, rdb)
	search := services.NewSearchService(client, agg, tr, c, cfg.TopTalentCacheTTL, history, l)
	profiles := services.NewProfileService(client, tr, l)

	var objects storage.ObjectStore
	if cfg.GCSExportBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSExportBucket)
		if err != nil {
			boot.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		objects = gcs
	} else {
		boot.Warn("GCS_EXPORT_BUCKET not set, shortlist export disabled")
	}
	shortlists := services.NewShortlistService(st.shortlists, objects, l)

	provider, err := newChatProvider(ctx, cfg, l)
	if err != nil {
		boot.WithError(err).Fatal("chat provider init error")
	}
	defer provider.Close()
	chat := services.NewChatService(provider, st.convos, l)

	var backend services.AuthBackend
	backendName := services.BackendLocal
	if cfg.LocalAuth() {
		backend = services.NewLocalAuth(st.users, cfg.JWTSecret, cfg.JWTTTL)
	} else {
		backend = authprovider.NewUpstream(cfg.AuthUpstreamURL, cfg.TorreTimeout, l)
		backendName = services.BackendUpstream
	}
	auth := services.NewAuthService(backend, backendName, st.sessions, cfg.JWTSecret, cfg.JWTTTL, l)

	if rdb != nil {
		pool := &workers.HistoryWorkerPool{
			Redis:      rdb,
			Repo:       st.history,
			NumWorkers: cfg.HistoryWorkers,
			Logger:     l,
		}
		if err := pool.Start(ctx); err != nil {
			boot.WithError(err).Fatal("history workers start error")
		}
	}

	if cfg.TopTalentWarmupSpec != "" {
		warmer := workers.NewTopTalentWarmer(search, cfg.TopTalentWarmupSpec, nil, l)
		if err := warmer.Start(ctx); err != nil {
			boot.WithError(err).Fatal("top talent warm-up error")
		}
		defer warmer.Stop()
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(l))
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:    auth,
		Auth:      handlers.NewAuthHandler(auth),
		Torre:     handlers.NewTorreHandler(search, profiles, history),
		Candidate: handlers.NewCandidateHandler(search, profiles),
		Shortlist: handlers.NewShortlistHandler(shortlists),
		Chat:      handlers.NewChatHandler(chat),
		WS:        handlers.NewWSHandler(chat, cfg.AllowedOrigins, l),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		boot.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			boot.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	boot.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		boot.WithError(err).Error("graceful shutdown failed")
	}
}

// openStores connects the configured databases. Unset ones fall back to
// in-memory repositories.
func openStores(ctx context.Context, cfg *config.Config, boot *logrus.Entry) stores {
	st := stores{
		shortlists: memory.NewShortlistRepo(),
		users:      memory.NewUserRepo(),
		history:    memory.NewSearchHistoryRepo(),
		convos:     memory.NewConversationRepo(),
		sessions:   memory.NewAuthSessionRepo(),
	}

	// Init PostgreSQL
	if cfg.PostgresURI == "" {
		boot.Warn("POSTGRES_URI not set, using in-memory shortlist, user, history and conversation stores")
	} else {
		if err := config.InitPostgres(cfg.PostgresURI); err != nil {
			boot.WithError(err).Fatal("PostgreSQL init error")
		}
		if err := config.MigratePostgres(config.PostgresDB); err != nil {
			boot.WithError(err).Fatal("PostgreSQL migration error")
		}
		db := config.PostgresDB
		st.shortlists = pgrepo.NewShortlistRepo(db)
		st.users = pgrepo.NewUserRepo(db)
		st.history = pgrepo.NewSearchHistoryRepo(db)
		st.convos = pgrepo.NewConversationRepo(db)
		boot.Info("PostgreSQL connected")
	}

	// Init MongoDB
	if cfg.MongoURI == "" {
		boot.Warn("MONGO_URI not set, using in-memory auth session store")
	} else {
		if err := config.InitMongo(ctx, cfg.MongoURI); err != nil {
			boot.WithError(err).Fatal("MongoDB init error")
		}
		if err := config.EnsureMongoIndexes(ctx, cfg.MongoDB); err != nil {
			boot.WithError(err).Warn("MongoDB index setup failed")
		}
		st.sessions = mongorepo.NewAuthSessionRepo(config.MongoClient.Database(cfg.MongoDB))
		boot.Info("MongoDB connected")
	}
	return st
}

func newChatProvider(ctx context.Context, cfg *config.Config, l *logrus.Logger) (llm.Provider, error) {
	if cfg.ChatProvider == config.ChatProviderVertex {
		v, err := llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return llm.NewOpenRouter(cfg.ChatAPIURL, cfg.ChatAPIKey, cfg.ChatDefaultModel, cfg.TorreTimeout*2, l), nil
}
