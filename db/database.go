package db

import (
	"database/sql"
	"fmt"

	"Melodex/config"
	"Melodex/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return nil
}

// InitDB initializes the database schema, creating tables if they
// don't exist.
func InitDB() error {
	if err := createSongsTable(); err != nil {
		return err
	}
	if err := createSongsFtsTable(); err != nil {
		return err
	}
	logger.Info("Database initialization completed")
	return nil
}

// createSongsTable creates the main songs table. The column set and
// order mirror model.SongColumns; the effective_* columns are derived
// projections written at bind time.
func createSongsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(512),
		album VARCHAR(512),
		artist VARCHAR(512),
		albumartist VARCHAR(512),
		track INT,
		disc INT,
		year INT,
		originalyear INT,
		genre VARCHAR(255),
		compilation TINYINT NOT NULL DEFAULT 0,
		composer VARCHAR(512),
		performer VARCHAR(512),
		grouping VARCHAR(512),
		comment TEXT,
		beginning BIGINT NOT NULL DEFAULT 0,
		length BIGINT,
		bitrate INT,
		samplerate INT,
		bitdepth INT,
		directory_id INT,
		filename VARCHAR(767) NOT NULL,
		filetype INT NOT NULL DEFAULT 0,
		filesize INT,
		mtime INT,
		ctime INT,
		unavailable TINYINT NOT NULL DEFAULT 0,
		playcount INT NOT NULL DEFAULT 0,
		skipcount INT NOT NULL DEFAULT 0,
		lastplayed INT,
		compilation_detected TINYINT NOT NULL DEFAULT 0,
		compilation_on TINYINT NOT NULL DEFAULT 0,
		compilation_off TINYINT NOT NULL DEFAULT 0,
		compilation_effective TINYINT NOT NULL DEFAULT 0,
		art_automatic VARCHAR(767),
		art_manual VARCHAR(767),
		effective_albumartist VARCHAR(512),
		effective_originalyear INT,
		cue_path VARCHAR(767),
		INDEX idx_songs_directory (directory_id),
		INDEX idx_songs_album (effective_albumartist(191), album(191)),
		INDEX idx_songs_filename (filename(191))
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}
	return nil
}

// createSongsFtsTable creates the parallel full-text row, one per
// song, carrying the searchable string subset.
func createSongsFtsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs_fts (
		song_id INT PRIMARY KEY,
		ftstitle VARCHAR(512),
		ftsalbum VARCHAR(512),
		ftsartist VARCHAR(512),
		ftsalbumartist VARCHAR(512),
		ftscomposer VARCHAR(512),
		ftsperformer VARCHAR(512),
		ftsgrouping VARCHAR(512),
		ftsgenre VARCHAR(255),
		ftscomment TEXT,
		FULLTEXT KEY fts_songs (ftstitle, ftsalbum, ftsartist, ftsalbumartist, ftscomposer, ftsperformer, ftsgrouping, ftsgenre, ftscomment),
		CONSTRAINT fk_songs_fts FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs_fts table: %w", err)
	}
	return nil
}
