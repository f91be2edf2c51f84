package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB_URL           string        `mapstructure:"DB_URL"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTExpiry        time.Duration `mapstructure:"JWT_EXPIRY"`
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64         `mapstructure:"ADMIN_CHAT_ID"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("JWT_EXPIRY", "24h")

	if err := viper.ReadInConfig(); err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWTSecret == "" {
		return config, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}
