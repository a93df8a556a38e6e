package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yoockh/talentmatch/config"
	"github.com/yoockh/talentmatch/internal/api/handlers"
	"github.com/yoockh/talentmatch/internal/api/middleware"
	"github.com/yoockh/talentmatch/internal/api/routes"
	"github.com/yoockh/talentmatch/internal/cache"
	"github.com/yoockh/talentmatch/internal/logger"
	"github.com/yoockh/talentmatch/internal/queue"
	mongorepo "github.com/yoockh/talentmatch/internal/repositories/mongo"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/services"
	"github.com/yoockh/talentmatch/internal/storage"
)

func main() {
	var envFile, port string
	pflag.StringVarP(&envFile, "env-file", "e", ".env", "Path to a dotenv file (missing file is ignored)")
	pflag.StringVarP(&port, "port", "p", "", "Listen port, overrides PORT")
	pflag.Parse()

	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	if port != "" {
		cfg.Port = port
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := config.InitPostgres(cfg)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	rdb, err := config.InitRedis(cfg)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	defer rdb.Close()
	log.Info("Redis connected")

	// Init MongoDB
	mongoClient, mongoDB, err := config.InitMongo(cfg)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := config.EnsureMongoIndexes(mongoDB); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	log.Info("MongoDB connected")

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	log.WithField("driver", cfg.Storage.Driver).Info("blob store ready")

	var parseQueue queue.Publisher
	if cfg.AMQPURL != "" {
		mq, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("RabbitMQ init error: %v", err)
		}
		defer mq.Close()
		parseQueue = mq
		log.WithField("queue", cfg.ParseQueue).Info("RabbitMQ connected")
	}

	// Repositories
	positionRepo := pgrepo.NewPositionRepo(db)
	resumeRepo := pgrepo.NewResumeRepo(db)
	fileRepo := pgrepo.NewResumeFileRepo(db)
	userRepo := pgrepo.NewUserRepo(db)
	catalogRepo := pgrepo.NewCatalogRepo(db)
	sessionRepo := mongorepo.NewSessionRepo(mongoDB)
	redisCache := cache.NewRedisCache(rdb, "talentmatch:")

	// Services
	matchSvc := services.NewMatchService(positionRepo, resumeRepo, fileRepo, cfg.StoreTimeout, log)
	positionSvc := services.NewPositionService(positionRepo, log)
	resumeSvc := services.NewResumeService(resumeRepo, fileRepo, blobs, log)
	uploadSvc := services.NewUploadService(fileRepo, blobs, parseQueue, cfg.ParseQueue, log)
	catalogSvc := services.NewCatalogService(catalogRepo, redisCache, cfg.CacheTTL, log)
	authSvc := services.NewAuthService(userRepo, sessionRepo, services.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.SessionTTL,
	}, log)
	userSvc := services.NewUserService(userRepo, sessionRepo, log)
	healthSvc := services.NewHealthService(map[string]services.Pinger{
		"postgres": catalogRepo,
		"redis":    redisCache,
		"mongo": services.PingFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		}),
	}, 3*time.Second)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = 8 << 20

	routes.RegisterRoutes(r, routes.Deps{
		Auth:    authSvc,
		Health:  handlers.NewHealthHandler(healthSvc),
		Login:   handlers.NewAuthHandler(authSvc, cfg.SecureCookie),
		Match:   handlers.NewMatchHandler(matchSvc),
		Pos:     handlers.NewPositionHandler(positionSvc),
		Resume:  handlers.NewResumeHandler(resumeSvc),
		Upload:  handlers.NewUploadHandler(uploadSvc, cfg.MaxUploadBytes),
		Catalog: handlers.NewCatalogHandler(catalogSvc),
		Users:   handlers.NewUserHandler(userSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func newBlobStore(ctx context.Context, cfg *config.App) (storage.BlobStore, error) {
	st := cfg.Storage
	switch st.Driver {
	case "s3":
		u, err := storage.NewS3Uploader(storage.S3Config{
			Endpoint:      st.S3Endpoint,
			AccessKey:     st.S3AccessKey,
			SecretKey:     st.S3SecretKey,
			Region:        st.S3Region,
			UseSSL:        st.S3UseSSL,
			Bucket:        st.Bucket,
			PublicBaseURL: st.PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		if err := u.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return u, nil
	default:
		u, err := storage.NewGCSUploader(ctx, storage.GCSConfig{
			Bucket:          st.Bucket,
			CredentialsFile: st.GCSCredentialsFile,
			PublicBaseURL:   st.PublicBaseURL,
			SignerEmail:     st.GCSSignerEmail,
			SignerKeyFile:   st.GCSSignerKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}
