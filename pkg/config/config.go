package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	AppEnv       string
	IsProduction bool
	Debug        bool

	Port string

	// database
	DBDriver    string
	DatabaseURL string

	// sessions
	JWTSecret         string
	SessionCookieName string
	SessionTTL        time.Duration

	// optional redis for session revocation; empty = in-process store
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TopicCacheTTL      time.Duration
	TopicCacheMaxItems int

	UploadDir     string
	UploadBaseURL string

	CORSOrigins []string
)

var envs = []string{"development", "staging", "production"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("gin_mode", "")
	v.SetDefault("port", "8000")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("database_url", "studybud.db")
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("session_cookie", "studybud_session")
	v.SetDefault("session_ttl_hours", 336)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("topic_cache_ttl_seconds", 300)
	v.SetDefault("topic_cache_max_items", 64)
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("upload_base_url", "/uploads")
	v.SetDefault("cors_origins", "http://localhost:3000")
}

// loadDotEnv loads .env outside production. A missing file is not an error.
func loadDotEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}
}

// Load populates the package variables from .env, the environment and an
// optional YAML file. configFile may be empty.
func Load(configFile string) error {
	loadDotEnv()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return apply(v)
}

func apply(v *viper.Viper) error {
	AppEnv = strings.ToLower(strings.TrimSpace(v.GetString("app_env")))
	if !slices.Contains(envs, AppEnv) {
		return fmt.Errorf("APP_ENV must be one of %s, got %q", strings.Join(envs, ", "), AppEnv)
	}
	IsProduction = AppEnv == "production"
	Debug = v.GetString("gin_mode") == "debug"

	Port = v.GetString("port")
	DBDriver = strings.ToLower(v.GetString("db_driver"))
	DatabaseURL = v.GetString("database_url")

	JWTSecret = v.GetString("jwt_secret_key")
	if JWTSecret == "" {
		if IsProduction {
			return fmt.Errorf("JWT_SECRET_KEY must be set in production")
		}
		JWTSecret = "studybud-dev-secret"
	}
	SessionCookieName = v.GetString("session_cookie")
	SessionTTL = time.Duration(atLeast(v.GetInt("session_ttl_hours"), 1)) * time.Hour

	RedisAddr = v.GetString("redis_addr")
	RedisPassword = v.GetString("redis_password")
	RedisDB = v.GetInt("redis_db")

	TopicCacheTTL = time.Duration(v.GetInt("topic_cache_ttl_seconds")) * time.Second
	TopicCacheMaxItems = v.GetInt("topic_cache_max_items")

	UploadDir = v.GetString("upload_dir")
	UploadBaseURL = strings.TrimRight(v.GetString("upload_base_url"), "/")

	CORSOrigins = nil
	for _, o := range strings.Split(v.GetString("cors_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			CORSOrigins = append(CORSOrigins, o)
		}
	}

	log.Printf("[config] AppEnv=%s IsProduction=%v Debug=%v", AppEnv, IsProduction, Debug)
	log.Printf("[config] DB driver=%s port=%s redis=%v", DBDriver, Port, RedisAddr != "")
	log.Printf("[config] session ttl=%s topic cache ttl=%s max=%d", SessionTTL, TopicCacheTTL, TopicCacheMaxItems)
	return nil
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
