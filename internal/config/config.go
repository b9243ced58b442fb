package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StoreSupabase = "supabase"
	StoreSQLite   = "sqlite"

	MediaCloudinary = "cloudinary"
	MediaSupabase   = "supabase"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	StoreBackend    string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseJWT     string
	SQLitePath      string

	MediaBackend        string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	SupabaseBucket      string

	AdminSecret     string
	AdminSecretHash string
	AdminTokenKey   string
	AdminTokenTTL   time.Duration

	PersonaFile string
	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string
	LLMTimeout  time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8080"),
		Environment:    getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),

		StoreBackend:    getEnvWithDefault("STORE_BACKEND", StoreMemory),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "festa"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseJWT:     os.Getenv("SUPABASE_JWT_SECRET"),
		SQLitePath:      getEnvWithDefault("SQLITE_PATH", "festa.db"),

		MediaBackend:        os.Getenv("MEDIA_BACKEND"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		SupabaseBucket:      getEnvWithDefault("SUPABASE_BUCKET", "photos"),

		AdminSecret:     os.Getenv("ADMIN_SECRET"),
		AdminSecretHash: os.Getenv("ADMIN_SECRET_HASH"),
		AdminTokenKey:   os.Getenv("ADMIN_TOKEN_KEY"),

		PersonaFile: os.Getenv("PERSONA_FILE"),
		LLMAPIKey:   os.Getenv("LLM_API_KEY"),
		LLMBaseURL:  os.Getenv("LLM_BASE_URL"),
		LLMModel:    getEnvWithDefault("LLM_MODEL", "gpt-4o-mini"),
	}

	var err error
	if cfg.AdminTokenTTL, err = getDuration("ADMIN_TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting the selected backends need is present.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StoreMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if strings.Contains(c.MongoDBURI, "<password>") && c.MongoDBPassword == "" {
			return fmt.Errorf("MONGODB_PASSWORD is required")
		}
	case StoreSupabase:
		if err := c.requireSupabase(); err != nil {
			return err
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s (expected memory, mongo, supabase, sqlite)", c.StoreBackend)
	}

	switch c.MediaBackend {
	case "":
	case MediaCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case MediaSupabase:
		if err := c.requireSupabase(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND: %s (expected cloudinary, supabase)", c.MediaBackend)
	}

	if c.AdminTokenKey == "" {
		return fmt.Errorf("ADMIN_TOKEN_KEY is required")
	}
	if c.AdminSecret == "" && c.AdminSecretHash == "" && c.SupabaseURL == "" {
		return fmt.Errorf("ADMIN_SECRET, ADMIN_SECRET_HASH or SUPABASE_URL is required to open admin sessions")
	}
	return nil
}

func (c *Config) requireSupabase() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	return nil
}

// UsesSupabase reports whether any component needs a Supabase client.
func (c *Config) UsesSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s or 12h: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
