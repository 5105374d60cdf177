package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("port", "PORT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")
		viper.BindEnv("check_interval", "CHECK_INTERVAL")
		viper.BindEnv("quote_refresh", "QUOTE_REFRESH")
		viper.BindEnv("market_hours_only", "MARKET_HOURS_ONLY")

		viper.SetDefault("port", 8080)
		viper.SetDefault("db_path", "data/alerts.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
		viper.SetDefault("check_interval", 60)
		viper.SetDefault("quote_refresh", 60)
		viper.SetDefault("market_hours_only", false)
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

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
