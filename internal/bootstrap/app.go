package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"datalens-backend/internal/analyses"
	"datalens-backend/internal/datasets"
	"datalens-backend/internal/shared/config"
	"datalens-backend/internal/shared/server"
	"datalens-backend/internal/shared/storage/db"
	"datalens-backend/internal/shared/storage/object"
	localstore "datalens-backend/internal/shared/storage/object/local"
	s3store "datalens-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	DatasetRepo     datasets.Repo
	AnalysisRepo    analyses.Repo
	DatasetService  *datasets.Service
	AnalysisService *analyses.Service
	DatasetHandler  *datasets.Handler
	AnalysisHandler *analyses.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if app.DB != nil {
		app.DatasetRepo = &datasets.PGRepo{DB: app.DB}
		app.AnalysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		app.DatasetRepo = datasets.NewMemoryRepo()
		app.AnalysisRepo = analyses.NewMemoryRepo()
	}

	app.DatasetService = &datasets.Service{Store: app.Store, Repo: app.DatasetRepo}
	app.AnalysisService = &analyses.Service{Repo: app.AnalysisRepo, Datasets: app.DatasetService}
	app.DatasetHandler = datasets.NewHandler(app.DatasetService)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysisService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DatasetHandler:  app.DatasetHandler,
		AnalysisHandler: app.AnalysisHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
