package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coderTechJordan/UserService-Backend/internal/config"
	"github.com/coderTechJordan/UserService-Backend/internal/dispatch"
	apphttp "github.com/coderTechJordan/UserService-Backend/internal/http"
	"github.com/coderTechJordan/UserService-Backend/internal/identity"
	"github.com/coderTechJordan/UserService-Backend/internal/repository/kv"
	"github.com/coderTechJordan/UserService-Backend/internal/service"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	userRepo := kv.NewUserRepository(st, cfg.Store.Table)
	userService := service.NewUserService(userRepo, identity.Generator{})
	dispatcher := dispatch.NewDispatcher(userService, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(dispatcher)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "dynamo":
		client, err := buildDynamoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using dynamodb table %s (region %s)", cfg.Store.Table, cfg.Store.Region)
		return store.NewDynamoStore(client), nil, nil

	case "sqlite":
		st, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Init(ctx, cfg.Store.Table); err != nil {
			st.Close()
			return nil, nil, err
		}
		logger.Infof("using sqlite store at %s (table %s)", cfg.Store.Path, cfg.Store.Table)
		return st, func() { st.Close() }, nil

	case "memory":
		logger.Warn("using in-memory store; records vanish on restart")
		return store.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildDynamoClient(ctx context.Context, cfg config.Config) (*dynamodb.Client, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Store.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Store.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Store.Endpoint)
		}
	})
	return client, nil
}
