package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// ServerConfig contains all of the server settings
type ServerConfig struct {
	ListenAddrIP         string
	ListenAddrPort       string
	DatabaseType         string
	DatabaseHost         string
	DatabasePort         string
	DatabaseUser         string
	DatabasePassword     string `json:"-"`
	DatabaseDbname       string
	DatabaseSslmode      string
	DocumentRoot         string // when set, the host bridge only reads PDFs below this directory
	RendererBackend      string // "pdfium" or "fitz"
	HostURL              string // remote backend used by the standalone pdf-service
	S3Endpoint           string // when S3Bucket is set PDFs are read from object storage instead of disk
	S3AccessKey          string
	S3SecretKey          string `json:"-"`
	S3Bucket             string
	S3Region             string
	S3UseSSL             bool
	HistoryRetentionDays int
	HistoryPruneInterval int // minutes
	FrontEndConfig
}

// FrontEndConfig stores all of the frontend settings
type FrontEndConfig struct {
	RecentDocumentCount int
	ServerAPIURL        string
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// SetupServer loads .env files, sets up logging and reads the server configuration
func SetupServer() (ServerConfig, *slog.Logger) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	serverConfig := loadServerConfig()
	fmt.Println(serverConfig.Summary())

	logger.Info("Server configuration loaded",
		"database", serverConfig.DatabaseType,
		"renderer", serverConfig.RendererBackend,
		"documentRoot", serverConfig.DocumentRoot,
		"bucket", serverConfig.S3Bucket,
		"retentionDays", serverConfig.HistoryRetentionDays)
	return serverConfig, logger
}

// loadServerConfig reads ServerConfig from the environment
func loadServerConfig() ServerConfig {
	serverConfig := ServerConfig{
		ListenAddrIP:   getEnv("SERVER_ADDR", ""),
		ListenAddrPort: getEnv("SERVER_PORT", "8000"),

		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnv("DATABASE_PORT", "5432"),
		DatabaseUser:     getEnv("DATABASE_USER", "pdfpresenter"),
		DatabasePassword: getEnv("DATABASE_PASSWORD", ""),
		DatabaseDbname:   getEnv("DATABASE_NAME", "databases/pdfpresenter.sqlite"),
		DatabaseSslmode:  getEnv("DATABASE_SSLMODE", "disable"),

		RendererBackend: getEnv("RENDERER_BACKEND", "pdfium"),
		HostURL:         getEnv("HOST_URL", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", ""),
		S3UseSSL:    getEnvBool("S3_USE_SSL", true),

		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 30),
		HistoryPruneInterval: getEnvInt("HISTORY_PRUNE_INTERVAL", 60),

		FrontEndConfig: loadFrontEndConfig(""),
	}

	// An empty root lets the bridge read any path, like a desktop viewer would
	if root := getEnv("DOCUMENT_ROOT", ""); root != "" {
		abs, err := filepath.Abs(filepath.FromSlash(root))
		if err != nil {
			Logger.Error("Failed creating absolute path for document root", "path", root, "error", err)
			abs = root
		}
		serverConfig.DocumentRoot = abs
	}
	return serverConfig
}

// Summary is the short startup banner printed to the console, full details go to the log
func (c ServerConfig) Summary() string {
	listen := c.ListenAddrIP
	if listen == "" {
		listen = "all interfaces"
	}

	source := "any readable path"
	switch {
	case c.S3Bucket != "":
		source = fmt.Sprintf("bucket %s at %s", c.S3Bucket, c.S3Endpoint)
	case c.DocumentRoot != "":
		source = c.DocumentRoot
	}

	return fmt.Sprintf("📄 pdfpresenter: port %s on %s, %s renderer, %s database, PDFs from %s",
		c.ListenAddrPort, listen, c.RendererBackend, c.DatabaseType, source)
}

// SetupFrontend loads configuration for frontend-only server
func SetupFrontend() (FrontEndConfig, *slog.Logger) {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")
	_ = godotenv.Load("frontend.env")

	logger := setupLogging()
	Logger = logger

	frontendConfig := loadFrontEndConfig("http://localhost:8000")

	logger.Info("Frontend configuration loaded",
		"apiURL", frontendConfig.ServerAPIURL,
		"recentDocumentCount", frontendConfig.RecentDocumentCount)

	return frontendConfig, logger
}

func loadFrontEndConfig(defaultAPIURL string) FrontEndConfig {
	return FrontEndConfig{
		RecentDocumentCount: getEnvInt("RECENT_DOCUMENT_COUNT", 10),
		ServerAPIURL:        getEnv("SERVER_API_URL", defaultAPIURL),
	}
}

// parseLevel maps LOG_LEVEL values onto slog levels, anything unknown is debug
func parseLevel(logLevel string) slog.Level {
	switch logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	handlerOptions := &slog.HandlerOptions{Level: parseLevel(getEnv("LOG_LEVEL", "debug"))}

	logOutput := getEnv("LOG_OUTPUT", "file")
	var logWriter io.Writer

	if logOutput == "stdout" {
		logWriter = os.Stdout
	} else {
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "pdfpresenter.log")))
		if err != nil {
			fmt.Printf("Error creating log file path: %v\n", err)
			logWriter = os.Stdout
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
				logWriter = os.Stdout
			} else {
				logWriter = logFile
				fmt.Println("Logging to file: ", logPath)
			}
		}
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}
