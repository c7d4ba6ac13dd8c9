package config

import (
	"reflect"
	"strings"

	"course-studio/core/database"
	"course-studio/core/logger"
	"course-studio/core/server"
	"course-studio/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by course archives.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Auth holds the session token settings.
	Auth AuthConfig `mapstructure:"auth"`
	// Reconcile controls how course saves are applied.
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	// Drafts controls the lifetime of editing sessions.
	Drafts DraftsConfig `mapstructure:"drafts"`
}

// AuthConfig holds the JWT settings.
type AuthConfig struct {
	// JWTSecret signs and verifies session tokens. Bearer auth is off when empty.
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// TokenTTLMinutes is the lifetime of issued tokens.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes" default:"720"`
}

// ReconcileConfig controls the save executor.
type ReconcileConfig struct {
	// Transactional runs every save inside one database transaction.
	Transactional bool `mapstructure:"transactional" default:"true"`
}

// DraftsConfig controls the draft registry.
type DraftsConfig struct {
	// TTLMinutes is how long an idle draft is kept.
	TTLMinutes int `mapstructure:"ttl_minutes" default:"60"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine (e.g. production).
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
