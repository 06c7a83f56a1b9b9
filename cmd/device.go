package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"Melodex/config"
	"Melodex/core/device"
	"Melodex/db"
	"Melodex/logger"
	"Melodex/model"
	"Melodex/repository"

	"github.com/spf13/cobra"
)

var (
	deviceName string
	deviceOut  string
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Sync songs with portable devices",
}

var deviceExportCmd = &cobra.Command{
	Use:   "export <kind> <song-id...>",
	Short: "Convert library songs into a device's track records",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
		})

		if cfg.FlashMountPrefix != "" {
			device.Register(device.NewFlashMapper(cfg.FlashMountPrefix))
		}
		if cfg.MTPHost != "" {
			device.Register(device.NewMTPMapper(cfg.MTPHost))
		}

		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()
		if err := db.ConnectGormDB(cfg); err != nil {
			return err
		}
		defer db.CloseGormDB()
		if err := db.AutoMigrateModels(&model.Device{}); err != nil {
			return err
		}

		songRepo := repository.NewMySQLSongRepository(db.DB)
		deviceRepo := repository.NewGormDeviceRepository(db.GormDB)
		syncer := device.NewSyncer(songRepo, deviceRepo)

		kind := args[0]
		var songs []model.Song
		for _, idStr := range args[1:] {
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return fmt.Errorf("invalid song id %q: %w", idStr, err)
			}
			song, err := songRepo.SongByID(id)
			if err != nil {
				return err
			}
			if song == nil {
				logger.Warn("Song not found, skipping", logger.Int("songId", id))
				continue
			}
			songs = append(songs, *song)
		}

		tracks, err := syncer.Export(context.Background(), kind, deviceName, songs)
		if err != nil {
			return err
		}

		out := os.Stdout
		if deviceOut != "" {
			f, err := os.Create(deviceOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tracks)
	},
}

func init() {
	deviceExportCmd.Flags().StringVar(&deviceName, "name", "default", "device name to record the sync under")
	deviceExportCmd.Flags().StringVar(&deviceOut, "out", "", "write the track records to a file instead of stdout")
	deviceCmd.AddCommand(deviceExportCmd)
	rootCmd.AddCommand(deviceCmd)
}
