package config

import (
	"github.com/spf13/viper"
	"sync"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("environment", "APP_ENV")
		viper.BindEnv("api_base_url", "API_BASE_URL")
		viper.BindEnv("api_key", "API_KEY")
		viper.BindEnv("api_secret", "API_SECRET")
		viper.BindEnv("market_provider", "MARKET_PROVIDER")
		viper.BindEnv("api_pro_key", "API_PRO_KEY")
		viper.BindEnv("http_port", "HTTP_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("market_poll_interval", "MARKET_POLL_INTERVAL")
		viper.BindEnv("portfolio_poll_interval", "PORTFOLIO_POLL_INTERVAL")
		viper.BindEnv("chart_frame_interval", "CHART_FRAME_INTERVAL")
		viper.BindEnv("chart_width", "CHART_WIDTH")
		viper.BindEnv("chart_height", "CHART_HEIGHT")
		viper.BindEnv("chart_seed", "CHART_SEED")
		viper.BindEnv("chart_mapping", "CHART_MAPPING")
		viper.BindEnv("mock_fixtures_path", "MOCK_FIXTURES_PATH")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID")
		viper.BindEnv("breaker_threshold", "BREAKER_THRESHOLD")
		viper.BindEnv("breaker_reset", "BREAKER_RESET")

		viper.SetDefault("environment", EnvDevelopment)
		viper.SetDefault("api_base_url", "https://api.binance.com")
		viper.SetDefault("market_provider", "exchange")
		viper.SetDefault("http_port", 8080)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
		viper.SetDefault("db_path", "/app/data/dashboard.db")
		viper.SetDefault("market_poll_interval", 10*time.Second)
		viper.SetDefault("portfolio_poll_interval", 30*time.Second)
		viper.SetDefault("chart_frame_interval", 250*time.Millisecond)
		viper.SetDefault("chart_width", 0)
		viper.SetDefault("chart_height", 0)
		viper.SetDefault("chart_seed", 0)
		viper.SetDefault("chart_mapping", "fit")
		viper.SetDefault("breaker_threshold", 3)
		viper.SetDefault("breaker_reset", 30*time.Second)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetInt64(key string) int64 {
	InitConfig()
	return viper.GetInt64(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	InitConfig()
	return viper.GetDuration(key)
}

// IsProduction reports whether live backends may be contacted.
func IsProduction() bool {
	return GetString("environment") != EnvDevelopment
}
