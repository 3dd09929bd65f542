package config

import (
	"log"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	DB           PostgresConfig `mapstructure:"db"`
	ServerConfig ServerConfig   `mapstructure:"server"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
	Schema       SchemaConfig   `mapstructure:"schema"`
}

type PostgresConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Name       string `mapstructure:"name"`
	Password   string `mapstructure:"password"`
	SSL        string `mapstructure:"sslmode"`
	Migrations string `mapstructure:"migrations"`
}

type ServerConfig struct {
	Port       string `mapstructure:"port"`
	GinMode    string `mapstructure:"ginmode"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type TelegramConfig struct {
	// BotToken signs WebApp initData. Empty token disables verification
	// (permissive mode), which must never be the case in production.
	BotToken string `mapstructure:"bot_token"`
}

type SchemaConfig struct {
	Name string `mapstructure:"name"`
}

var GlobalConfig Config

// Init reads configs/config.yml, a .env file if present, and environment
// overrides carried over from the legacy deployment (EXT_PG_*, TELEGRAM_BOT_TOKEN).
func (c *Config) Init() {
	_ = gotenv.Load()

	viper.SetConfigFile("./configs/config.yml")

	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.ginmode", "release")
	viper.SetDefault("server.cors_origin", "*")
	viper.SetDefault("schema.name", "public")
	viper.SetDefault("db.sslmode", "disable")

	_ = viper.BindEnv("db.host", "EXT_PG_HOST")
	_ = viper.BindEnv("db.port", "EXT_PG_PORT")
	_ = viper.BindEnv("db.name", "EXT_PG_DB")
	_ = viper.BindEnv("db.username", "EXT_PG_USER")
	_ = viper.BindEnv("db.password", "EXT_PG_PASSWORD")
	_ = viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("server.cors_origin", "CORS_ORIGIN")
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("schema.name", "DB_SCHEMA")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("can't read config file, relying on env: %v", err)
		}
	}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
	}
}
