package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Identity IdentityConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdentityConfig points at the hosted auth backend that owns sessions
// and user records. ServiceKey authorizes admin user-directory calls;
// JWTSecret verifies provider-issued access tokens locally.
type IdentityConfig struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	CookieName string
	Timeout    time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	identityTimeout, err := time.ParseDuration(viper.GetString("IDENTITY_TIMEOUT"))
	if err != nil {
		identityTimeout = 5 * time.Second
	}

	cookieName := viper.GetString("IDENTITY_COOKIE_NAME")
	if cookieName == "" {
		cookieName = "cw-access-token"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Identity: IdentityConfig{
			BaseURL:    viper.GetString("IDENTITY_BASE_URL"),
			AnonKey:    viper.GetString("IDENTITY_ANON_KEY"),
			ServiceKey: viper.GetString("IDENTITY_SERVICE_KEY"),
			JWTSecret:  viper.GetString("IDENTITY_JWT_SECRET"),
			CookieName: cookieName,
			Timeout:    identityTimeout,
		},
	}

	return config, nil
}
