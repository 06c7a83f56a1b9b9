package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"Melodex/logger"
	"Melodex/model"
)

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	InsertSong(song *model.Song) (int, error)
	UpdateSong(song model.Song) error
	SongByID(id int) (*model.Song, error)
	SongByFilename(filename string) (*model.Song, error)
	SongsByDirectory(directoryID int) ([]model.Song, error)
	SearchSongs(query string, limit int) ([]model.Song, error)
	IncrementPlayCount(id int, lastPlayed int) error
	IncrementSkipCount(id int) error
	SetArtManual(id int, art model.CoverArt) error
	SetCompilationOverride(id int, on, off bool) error
	MarkUnavailable(id int, unavailable bool) error
	DeleteSong(id int) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	DB *sql.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository(database *sql.DB) SongRepository {
	return &mysqlSongRepository{DB: database}
}

// InsertSong adds a song and its full-text row in one transaction and
// returns the assigned id. The song handle gets the id as well.
func (r *mysqlSongRepository) InsertSong(song *model.Song) (int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for InsertSong: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("INSERT INTO songs (%s) VALUES (%s)", model.SongColumnSpec, model.SongBindSpec)
	res, err := tx.Exec(query, song.BindValues()...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute InsertSong: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for InsertSong: %w", err)
	}
	id := int(id64)

	ftsQuery := fmt.Sprintf("INSERT INTO songs_fts (song_id, %s) VALUES (?, %s)", model.FtsColumnSpec, model.FtsBindSpec)
	ftsArgs := append([]any{id}, song.FtsBindValues()...)
	if _, err := tx.Exec(ftsQuery, ftsArgs...); err != nil {
		return 0, fmt.Errorf("failed to insert full-text row for song %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit InsertSong: %w", err)
	}

	song.SetID(id)
	logger.Debug("Song inserted", logger.Int("id", id), logger.String("title", song.Title()))
	return id, nil
}

// UpdateSong rewrites a song row and its full-text row.
func (r *mysqlSongRepository) UpdateSong(song model.Song) error {
	if song.ID() == -1 {
		return fmt.Errorf("cannot update song without an id")
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for UpdateSong: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("UPDATE songs SET %s WHERE id = ?", model.SongUpdateSpec)
	args := append(song.BindValues(), song.ID())
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to execute UpdateSong for song %d: %w", song.ID(), err)
	}

	ftsQuery := fmt.Sprintf("UPDATE songs_fts SET %s WHERE song_id = ?", model.FtsUpdateSpec)
	ftsArgs := append(song.FtsBindValues(), song.ID())
	if _, err := tx.Exec(ftsQuery, ftsArgs...); err != nil {
		return fmt.Errorf("failed to update full-text row for song %d: %w", song.ID(), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit UpdateSong: %w", err)
	}
	return nil
}

// SongByID retrieves a song by its ID.
func (r *mysqlSongRepository) SongByID(id int) (*model.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE id = ?", model.SongSelectSpec)
	rows, err := r.DB.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query song by ID %d: %w", id, err)
	}
	defer rows.Close()

	songs, err := scanSongs(rows)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, nil // Song not found
	}
	return &songs[0], nil
}

// SongByFilename retrieves a song by its stored locator, for matching
// a file seen on disk against the library. The argument must come from
// Song.FilenameValue so portable-mode relative locators compare equal.
func (r *mysqlSongRepository) SongByFilename(filename string) (*model.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE filename = ?", model.SongSelectSpec)
	rows, err := r.DB.Query(query, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to query song by filename %s: %w", filename, err)
	}
	defer rows.Close()

	songs, err := scanSongs(rows)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, nil
	}
	return &songs[0], nil
}

// SongsByDirectory retrieves every song under a watched directory.
func (r *mysqlSongRepository) SongsByDirectory(directoryID int) ([]model.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE directory_id = ? ORDER BY album, disc, track", model.SongSelectSpec)
	rows, err := r.DB.Query(query, directoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for directory %d: %w", directoryID, err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

// SearchSongs runs a full-text search over the songs_fts projection.
func (r *mysqlSongRepository) SearchSongs(query string, limit int) ([]model.Song, error) {
	if limit <= 0 {
		limit = 100
	}
	stmt := fmt.Sprintf(`SELECT %s FROM songs s
	           JOIN songs_fts f ON f.song_id = s.id
	           WHERE MATCH(%s) AGAINST (? IN NATURAL LANGUAGE MODE)
	           LIMIT ?`, model.JoinSpec("s"), qualifyFts("f"))
	rows, err := r.DB.Query(stmt, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute song search %q: %w", query, err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

// IncrementPlayCount bumps the play counter and records the play time.
func (r *mysqlSongRepository) IncrementPlayCount(id int, lastPlayed int) error {
	query := `UPDATE songs SET playcount = playcount + 1, lastplayed = ? WHERE id = ?`
	if _, err := r.DB.Exec(query, lastPlayed, id); err != nil {
		return fmt.Errorf("failed to increment playcount for song %d: %w", id, err)
	}
	return nil
}

// IncrementSkipCount bumps the skip counter.
func (r *mysqlSongRepository) IncrementSkipCount(id int) error {
	query := `UPDATE songs SET skipcount = skipcount + 1 WHERE id = ?`
	if _, err := r.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to increment skipcount for song %d: %w", id, err)
	}
	return nil
}

// SetArtManual stores a user cover override, including the explicit
// unset marker.
func (r *mysqlSongRepository) SetArtManual(id int, art model.CoverArt) error {
	query := `UPDATE songs SET art_manual = ? WHERE id = ?`
	if _, err := r.DB.Exec(query, art.String(), id); err != nil {
		return fmt.Errorf("failed to set manual art for song %d: %w", id, err)
	}
	return nil
}

// SetCompilationOverride stores the user compilation override pair and
// refreshes the derived compilation_effective projection.
func (r *mysqlSongRepository) SetCompilationOverride(id int, on, off bool) error {
	query := `UPDATE songs SET compilation_on = ?, compilation_off = ?,
	           compilation_effective = ((compilation OR compilation_detected OR ?) AND NOT ?)
	           WHERE id = ?`
	if _, err := r.DB.Exec(query, boolInt(on), boolInt(off), boolInt(on), boolInt(off), id); err != nil {
		return fmt.Errorf("failed to set compilation override for song %d: %w", id, err)
	}
	return nil
}

// MarkUnavailable flags songs whose file disappeared from disk.
func (r *mysqlSongRepository) MarkUnavailable(id int, unavailable bool) error {
	query := `UPDATE songs SET unavailable = ? WHERE id = ?`
	if _, err := r.DB.Exec(query, boolInt(unavailable), id); err != nil {
		return fmt.Errorf("failed to mark song %d unavailable=%v: %w", id, unavailable, err)
	}
	return nil
}

// DeleteSong removes a song; the full-text row goes with it through
// the foreign key.
func (r *mysqlSongRepository) DeleteSong(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM songs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete song %d: %w", id, err)
	}
	return nil
}

// scanSongs drains a result set into songs, matching columns by name
// so schema drift surfaces as logged warnings instead of silently
// misaligned fields.
func scanSongs(rows *sql.Rows) ([]model.Song, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	songs := make([]model.Song, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, model.SongFromRow(cols, model.RowValues(vals), true))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song rows iteration: %w", err)
	}
	return songs, nil
}

// qualifyFts prefixes the fts columns with a table alias for joins.
func qualifyFts(table string) string {
	parts := make([]string, len(model.FtsColumns))
	for i, c := range model.FtsColumns {
		parts[i] = table + "." + c
	}
	return strings.Join(parts, ", ")
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
