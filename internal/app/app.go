package app

import (
	"fmt"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/db"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
	"github.com/fitai/fitai/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Metrics         *prometheus.Registry
	ProfileRepo     repository.ProfileRepository
	AuthService     *service.AuthService
	VideoService    *service.VideoService
	FavoriteService *service.FavoriteService
	ProfileService  *service.ProfileService
	ExerciseService *service.ExerciseService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	videoRepository := repository.NewVideoRepository(database)
	favoriteRepository := repository.NewFavoriteRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	exerciseRepository := repository.NewExerciseRepository(database)

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	analysisClient := service.NewAnalysisClient(cfg)
	authService := service.NewAuthService(cfg, profileRepository)
	videoService := service.NewVideoService(videoRepository, blobStorage, analysisClient, cfg.UploadMaxFiles)
	favoriteService := service.NewFavoriteService(favoriteRepository)
	profileService := service.NewProfileService(profileRepository, videoRepository)
	exerciseService := service.NewExerciseService(exerciseRepository, blobStorage)

	registry := prometheus.NewRegistry()

	return &App{
		Cfg:             cfg,
		DB:              database,
		Metrics:         registry,
		ProfileRepo:     profileRepository,
		AuthService:     authService,
		VideoService:    videoService,
		FavoriteService: favoriteService,
		ProfileService:  profileService,
		ExerciseService: exerciseService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
