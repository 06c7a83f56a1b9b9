package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Melodex/cache"
	"Melodex/config"
	"Melodex/core/cover"
	"Melodex/core/device"
	"Melodex/core/events"
	"Melodex/core/scanner"
	"Melodex/db"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"
	"Melodex/storage"

	"github.com/gorilla/mux"
)

// Start initializes every backend and runs the HTTP server until an
// interrupt arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
	})

	if cfg.PortableMode {
		model.SetPortableAppDir(cfg.AppDir)
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Directory{}, &model.Device{}); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	if cfg.MinioEndpoint != "" {
		if err := storage.InitMinio(cfg); err != nil {
			logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
		}
	}

	covers, err := cover.NewCache(cfg.CacheDir)
	if err != nil {
		logger.Fatal("Failed to create cover cache", logger.ErrorField(err))
	}
	model.SetArtCacheProbe(covers.Probe)

	songRepo := repository.NewMySQLSongRepository(db.DB)
	dirRepo := repository.NewGormDirectoryRepository(db.GormDB)
	deviceRepo := repository.NewGormDeviceRepository(db.GormDB)

	libScanner := scanner.New(songRepo, dirRepo, covers)

	// Device families are opt-in through configuration.
	if cfg.FlashMountPrefix != "" {
		device.Register(device.NewFlashMapper(cfg.FlashMountPrefix))
	}
	if cfg.MTPHost != "" {
		device.Register(device.NewMTPMapper(cfg.MTPHost))
	}
	syncer := device.NewSyncer(songRepo, deviceRepo)

	hub := events.NewHub()
	go hub.Run()
	defer hub.Stop()

	songHandler := NewSongHandler(songRepo, covers)
	scanHandler := NewScanHandler(libScanner, hub, cfg.MusicDirs)
	deviceHandler := NewDeviceHandler(syncer, songRepo)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/songs/search", songHandler.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", songHandler.GetSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}/played", songHandler.PlayedHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}/skipped", songHandler.SkippedHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}/art", songHandler.SetArtHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}/compilation", songHandler.SetCompilationHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}/cover", songHandler.CoverHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/scan", scanHandler.StartScanHandler).Methods(http.MethodPost)
	router.HandleFunc("/ws/scan", scanHandler.EventsHandler)

	router.HandleFunc("/api/devices", deviceHandler.KindsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/devices/{kind}/export", deviceHandler.ExportHandler).Methods(http.MethodPost)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
