package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is read once at start-up from the environment (and an optional .env
// file) and handed to whatever needs it.
type Config struct {
	Port string `mapstructure:"PORT"`

	MongoURI        string        `mapstructure:"MONGO_URI"`
	DBUser          string        `mapstructure:"DB_USER"`
	DBPassword      string        `mapstructure:"DB_PASSWORD"`
	DBCluster       string        `mapstructure:"DB_CLUSTER"`
	DBName          string        `mapstructure:"DB_NAME"`
	FoodCollection  string        `mapstructure:"FOOD_COLLECTION"`
	OrderCollection string        `mapstructure:"ORDER_COLLECTION"`
	BlogCollection  string        `mapstructure:"BLOG_COLLECTION"`
	DBTimeout       time.Duration `mapstructure:"DB_TIMEOUT"`

	TokenSecret    string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`

	RequireIndexes  bool          `mapstructure:"REQUIRE_INDEXES"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
}

var defaultOrigins = []string{
	"https://chefs-domain.web.app",
	"https://console.firebase.google.com/u/0/project/chefs-domain/overview",
	"http://localhost:5173",
}

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded .env")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_CLUSTER", "mycluster.blpor7q.mongodb.net")
	v.SetDefault("DB_NAME", "chefsDomain")
	v.SetDefault("FOOD_COLLECTION", "foodItems")
	v.SetDefault("ORDER_COLLECTION", "orderCollection")
	v.SetDefault("BLOG_COLLECTION", "blogs")
	v.SetDefault("DB_TIMEOUT", 10*time.Second)
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("ALLOWED_ORIGINS", strings.Join(defaultOrigins, ","))
	v.SetDefault("REQUIRE_INDEXES", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// validate reports settings the HTTP server cannot run without.
func (c Config) validate() error {
	if c.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// mongoURI returns MONGO_URI when set, otherwise an Atlas SRV address built
// from the credential parts.
func (c Config) mongoURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.DBCluster,
		Path:     "/",
		RawQuery: "appName=MyCluster",
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

func (c Config) origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
