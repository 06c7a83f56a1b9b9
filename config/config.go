package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	// Library
	MusicDirs []string // Directories scanned into the library
	CacheDir  string   // Root for the cover art cache

	// Portable deployments keep song locators relative to the binary
	// so the whole installation can move between machines.
	PortableMode bool
	AppDir       string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Optional MinIO mirror for extracted cover art. Disabled when the
	// endpoint is empty.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Device families enabled for sync. Empty disables the family.
	FlashMountPrefix string
	MTPHost          string

	ServerAddr string

	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	var musicDirs []string
	for _, dir := range strings.Split(getEnv("MUSIC_DIRS", ""), ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			musicDirs = append(musicDirs, dir)
		}
	}

	appDir := ""
	portable := getEnvBool("PORTABLE_MODE", false)
	if portable {
		if exe, err := os.Executable(); err == nil {
			appDir = filepath.Dir(exe)
		} else {
			log.Printf("Could not resolve executable path, portable mode disabled: %v", err)
			portable = false
		}
	}

	cacheDir := getEnv("CACHE_DIR", "")
	if cacheDir == "" {
		if userCache, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(userCache, "melodex")
		} else {
			cacheDir = "cache"
		}
	}

	return &Config{
		MusicDirs: musicDirs,
		CacheDir:  cacheDir,

		PortableMode: portable,
		AppDir:       appDir,

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for secrets
		DBName:     getEnv("DB_NAME", "melodex"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "melodex-covers"),
		MinioRegion:    getEnv("MINIO_REGION", ""),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		FlashMountPrefix: getEnv("DEVICE_FLASH_PREFIX", ""),
		MTPHost:          getEnv("DEVICE_MTP_HOST", ""),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
