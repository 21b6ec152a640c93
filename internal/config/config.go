package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// DBPath is the sqlite snapshot file for the durable-local adapter.
	// DatabaseDSN, when set, selects the Postgres changefeed adapter
	// instead.
	DBPath      string `yaml:"db_path"`
	DatabaseDSN string `yaml:"database_dsn"`

	// SnapshotMaxBytes caps one encoded local snapshot; writes over the cap
	// are abandoned with a warning.
	SnapshotMaxBytes int `yaml:"snapshot_max_bytes"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	LogFile string `yaml:"log_file"`
}

// Load reads .env (if present), then env vars with defaults, then an
// optional YAML overlay named by SHOWROOM_CONFIG.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, falling back to system env vars")
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "showroom.db"),
		DatabaseDSN:      getEnv("DATABASE_DSN", ""),
		SnapshotMaxBytes: getEnvInt("SNAPSHOT_MAX_BYTES", 1<<20),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", ""),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@showroom.test"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		LogFile:          getEnv("LOG_FILE", ""),
	}

	if path := os.Getenv("SHOWROOM_CONFIG"); path != "" {
		if err := overlayYAML(path, &cfg); err != nil {
			log.Printf("[config] could not apply %s: %v", path, err)
		}
	}

	log.Printf("[config] PORT=%s DB_PATH=%s remote=%t assistant=%t",
		cfg.Port, cfg.DBPath, cfg.DatabaseDSN != "", cfg.GeminiAPIKey != "")
	return cfg
}

// Remote reports whether the Postgres changefeed adapter is selected.
func (c Config) Remote() bool { return c.DatabaseDSN != "" }

func overlayYAML(path string, cfg *Config) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(body, cfg)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
