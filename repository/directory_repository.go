package repository

import (
	"fmt"
	"time"

	"Melodex/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DirectoryRepository manages the watched-directory table.
type DirectoryRepository interface {
	EnsureDirectory(path string) (*model.Directory, error)
	AllDirectories() ([]model.Directory, error)
	RemoveDirectory(id int) error
}

// DeviceRepository records synced devices.
type DeviceRepository interface {
	EnsureDevice(kind, name string) (*model.Device, error)
	TouchSync(id int) error
}

type gormDirectoryRepository struct {
	DB *gorm.DB
}

// NewGormDirectoryRepository creates a directory repository on the
// GORM connection.
func NewGormDirectoryRepository(database *gorm.DB) DirectoryRepository {
	return &gormDirectoryRepository{DB: database}
}

// EnsureDirectory returns the directory row for path, creating it on
// first sight.
func (r *gormDirectoryRepository) EnsureDirectory(path string) (*model.Directory, error) {
	dir := model.Directory{Path: path}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoNothing: true,
	}).Create(&dir).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure directory %s: %w", path, err)
	}
	if dir.ID == 0 {
		// Conflict path: fetch the existing row.
		if err := r.DB.Where("path = ?", path).First(&dir).Error; err != nil {
			return nil, fmt.Errorf("failed to load directory %s: %w", path, err)
		}
	}
	return &dir, nil
}

// AllDirectories lists every watched directory.
func (r *gormDirectoryRepository) AllDirectories() ([]model.Directory, error) {
	var dirs []model.Directory
	if err := r.DB.Order("id").Find(&dirs).Error; err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}
	return dirs, nil
}

// RemoveDirectory forgets a watched directory.
func (r *gormDirectoryRepository) RemoveDirectory(id int) error {
	if err := r.DB.Delete(&model.Directory{}, id).Error; err != nil {
		return fmt.Errorf("failed to remove directory %d: %w", id, err)
	}
	return nil
}

type gormDeviceRepository struct {
	DB *gorm.DB
}

// NewGormDeviceRepository creates a device repository on the GORM
// connection.
func NewGormDeviceRepository(database *gorm.DB) DeviceRepository {
	return &gormDeviceRepository{DB: database}
}

// EnsureDevice returns the device row for kind/name, creating it on
// first sync.
func (r *gormDeviceRepository) EnsureDevice(kind, name string) (*model.Device, error) {
	var dev model.Device
	err := r.DB.Where("kind = ? AND name = ?", kind, name).First(&dev).Error
	if err == gorm.ErrRecordNotFound {
		dev = model.Device{Kind: kind, Name: name}
		if err := r.DB.Create(&dev).Error; err != nil {
			return nil, fmt.Errorf("failed to create device %s/%s: %w", kind, name, err)
		}
		return &dev, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load device %s/%s: %w", kind, name, err)
	}
	return &dev, nil
}

// TouchSync records a completed sync.
func (r *gormDeviceRepository) TouchSync(id int) error {
	err := r.DB.Model(&model.Device{}).Where("id = ?", id).
		Update("last_sync_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch device %d: %w", id, err)
	}
	return nil
}
