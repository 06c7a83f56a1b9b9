package model

import "time"

// Directory is a watched music directory. Songs reference their
// directory through directory_id.
type Directory struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Path      string `gorm:"size:767;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Device is a portable player the library has synced with.
type Device struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	Kind       string `gorm:"size:32;index"` // adapter kind, e.g. "flash" or "mtp"
	Name       string `gorm:"size:255"`
	LastSyncAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
