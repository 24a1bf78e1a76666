package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	WSPort   string `env:"WS_PORT" env-default:"8081"`
	AppEnv   string `env:"APP_ENV" env-default:"production"`
	JWT      JWTConfig
	Telegram TelegramConfig
	Log      LogConfig
	SeedFile string `env:"SEED_FILE"` // Пустое значение - встроенные демо-данные

	CloudinaryConfig CloudinaryConfig
}

// JWTConfig содержит параметры выпуска токенов
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" env-required:"true"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
}

// TelegramConfig содержит параметры входа через Telegram Mini App
type TelegramConfig struct {
	BotToken    string        `env:"TELEGRAM_BOT_TOKEN"`
	InitDataTTL time.Duration `env:"TELEGRAM_INIT_DATA_TTL" env-default:"24h"`
}

// LogConfig содержит настройки логгера
type LogConfig struct {
	Level    string `env:"LOG_LEVEL" env-default:"info"`
	Encoding string `env:"LOG_ENCODING" env-default:"json"`
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey       string `env:"CLOUDINARY_API_KEY"`
	APISecret    string `env:"CLOUDINARY_API_SECRET"`
	UploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" env-default:"skillswap/avatars"`
}

// LoadConfig загружает переменные из .env и окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	return &cfg, nil
}

// IsDevelopment сообщает, запущен ли сервис локально
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// TelegramEnabled сообщает, настроен ли вход через Telegram
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// CloudinaryEnabled сообщает, заданы ли ключи Cloudinary
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryConfig.CloudName != "" && c.CloudinaryConfig.APIKey != "" && c.CloudinaryConfig.APISecret != ""
}
