package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-nav/api"
	api_i "github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/beka-birhanu/vinom-nav/api/identity"
	navigationapi "github.com/beka-birhanu/vinom-nav/api/navigation"
	"github.com/beka-birhanu/vinom-nav/config"
	logger "github.com/beka-birhanu/vinom-nav/infrastruture/log"
	"github.com/beka-birhanu/vinom-nav/infrastruture/repo"
	"github.com/beka-birhanu/vinom-nav/infrastruture/routecache"
	"github.com/beka-birhanu/vinom-nav/infrastruture/token"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient          *mongo.Client
	redisClient          *redis.Client
	layoutRepo           i.LayoutRepo
	routeCache           i.RouteCache
	sessionManager       *service.NavigationSessionManager
	jwtTokenizer         i.Tokenizer
	navigationController api_i.Controller
	router               *api.Router
	appLogger            i.Logger
)

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initLayoutRepo(ctx context.Context, client *mongo.Client) {
	layoutRepo = repo.NewLayoutRepo(client, config.Envs.DBName, "layouts")
	appLogger.Info("Layout repository initialized")

	if config.Envs.LayoutDir == "" {
		return
	}
	storageLogger, err := logger.New("STORAGE", config.StorageLogColor, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating storage logger: %v", err))
		os.Exit(1)
	}
	names, err := service.ImportLayouts(ctx, layoutRepo, config.Envs.LayoutDir)
	if err != nil {
		storageLogger.Warning(fmt.Sprintf("Importing layouts: %v", err))
	}
	storageLogger.Info(fmt.Sprintf("Imported %d layouts from %s", len(names), config.Envs.LayoutDir))
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRouteCache(client *redis.Client) {
	cacheLogger, err := logger.New("ROUTE-CACHE", config.StorageLogColor, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating route cache logger: %v", err))
		os.Exit(1)
	}
	routeCache, err = routecache.NewRedisRouteCache(client, config.Envs.RouteCacheTTL, cacheLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating route cache: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Route cache initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.SessionLogColor, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}

	sessionManager, err = service.NewNavigationSessionManager(&service.Config{
		LayoutRepo:   layoutRepo,
		RouteCache:   routeCache,
		Logger:       sessionLogger,
		TickInterval: time.Duration(config.Envs.TickIntervalMS) * time.Millisecond,
		AgentSpeed:   config.Envs.AgentSpeed,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}

	appLogger.Info("Session manager initialized")
}

func initJWTTokenizer() {
	if err := token.ValidateSecret(config.Envs.JWTSecret); err != nil {
		appLogger.Error(fmt.Sprintf("JWT_SECRET: %v", err))
		os.Exit(1)
	}
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initNavigationController() {
	var err error
	navigationController, err = navigationapi.NewController(sessionManager, jwtTokenizer, time.Duration(config.Envs.TokenTTLMin)*time.Minute)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating navigation controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Navigation controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    config.Envs.GinMode,
		Controllers:             []api_i.Controller{navigationController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.AppLogColor, os.Stdout)

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initRedis(ctx)
	defer redisClient.Close()

	initLayoutRepo(ctx, mongoClient)
	initRouteCache(redisClient)
	initSessionManager()
	defer sessionManager.StopAll()

	initJWTTokenizer()
	initNavigationController()
	initRouter(jwtTokenizer)

	server := &http.Server{
		Addr:    router.Addr(),
		Handler: router.Handler(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			os.Exit(1)
		}
	}()
	appLogger.Info(fmt.Sprintf("Listening on %s", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Shutting down server: %v", err))
	}
	appLogger.Info("Server stopped")
}
