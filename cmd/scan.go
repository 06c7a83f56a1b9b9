package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Melodex/config"
	"Melodex/core/cover"
	"Melodex/core/scanner"
	"Melodex/db"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"
	"Melodex/storage"

	"github.com/spf13/cobra"
)

var scanWatch bool

var scanCmd = &cobra.Command{
	Use:   "scan [dir...]",
	Short: "Scan music directories into the library",
	Long: `Walks the given directories (or MUSIC_DIRS when none are given),
reads tags and updates the song database. With --watch the command keeps
running and follows filesystem changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
		})

		if cfg.PortableMode {
			model.SetPortableAppDir(cfg.AppDir)
		}

		dirs := args
		if len(dirs) == 0 {
			dirs = cfg.MusicDirs
		}
		if len(dirs) == 0 {
			return cmd.Help()
		}

		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()
		if err := db.InitDB(); err != nil {
			return err
		}
		if err := db.ConnectGormDB(cfg); err != nil {
			return err
		}
		defer db.CloseGormDB()
		if err := db.AutoMigrateModels(&model.Directory{}, &model.Device{}); err != nil {
			return err
		}

		if cfg.MinioEndpoint != "" {
			if err := storage.InitMinio(cfg); err != nil {
				return err
			}
		}

		covers, err := cover.NewCache(cfg.CacheDir)
		if err != nil {
			return err
		}
		model.SetArtCacheProbe(covers.Probe)

		songRepo := repository.NewMySQLSongRepository(db.DB)
		dirRepo := repository.NewGormDirectoryRepository(db.GormDB)
		sc := scanner.New(songRepo, dirRepo, covers)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := sc.ScanAll(ctx, dirs); err != nil {
			return err
		}

		if scanWatch {
			logger.Info("Watching for changes", logger.Int("dirs", len(dirs)))
			if err := sc.Watch(ctx, dirs); err != nil && err != context.Canceled {
				return err
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "keep running and follow filesystem changes")
	rootCmd.AddCommand(scanCmd)
}
