package config

import (
	"os"
	"strconv"

	"signal_bot/pkg/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatIDTelegramENV = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	bitgetKeyENV      = "BITGET_API_KEY"
	bitgetSecretENV   = "BITGET_API_SECRET"
	bitgetPassENV     = "BITGET_PASSPHRASE"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"service"`
	Bitget struct {
		APIKey     string `yaml:"api_key"`
		APISecret  string `yaml:"api_secret"`
		Passphrase string `yaml:"passphrase"`
		BaseURL    string `yaml:"base_url"`
	} `yaml:"bitget"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Risk defaults.
	// MaxLossRatio is the percent of committed balance lost when the stop
	// hits; leverage is derived from it and the stop distance.
	MaxLossRatio float64 `yaml:"max_loss_ratio"` // e.g. 15 => 15%
	MaxLeverage  int     `yaml:"max_leverage"`
	// SafetyFraction of available balance actually committed, the rest
	// stays free for fees/slippage.
	SafetyFraction float64 `yaml:"safety_fraction"` // e.g. 0.95
	MinBalance     float64 `yaml:"min_balance"`     // USDT
	MinOrderSize   float64 `yaml:"min_order_size"`

	StatsFile string `yaml:"stats_file"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := Config{
		MaxLossRatio:   15,
		MaxLeverage:    30,
		SafetyFraction: 0.95,
		MinBalance:     10,
		MinOrderSize:   0.001,
		StatsFile:      "trade_stats.json",
	}
	config.Service.Host = "0.0.0.0"
	config.Service.Port = 8080

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	if file, err := os.Open("configs/" + configFileName); err == nil {
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			_ = file.Close()
			return nil, err
		}
		_ = file.Close()
	} else {
		logger.Info("config file configs/%s not found, using env only", configFileName)
	}

	// env overrides the file, the file overrides the defaults
	overrideString(&config.Telegram.Token, tokenTelegramENV)
	if chat := os.Getenv(chatIDTelegramENV); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	overrideString(&config.DB, databaseDSN)
	overrideString(&config.Bitget.APIKey, bitgetKeyENV)
	overrideString(&config.Bitget.APISecret, bitgetSecretENV)
	overrideString(&config.Bitget.Passphrase, bitgetPassENV)
	overrideFloat(&config.MaxLossRatio, "MAX_LOSS_RATIO")
	overrideInt(&config.MaxLeverage, "MAX_LEVERAGE")
	overrideFloat(&config.SafetyFraction, "SAFETY_FRACTION")
	overrideFloat(&config.MinBalance, "MIN_BALANCE")
	overrideFloat(&config.MinOrderSize, "MIN_ORDER_SIZE")
	overrideString(&config.StatsFile, "STATS_FILE")
	overrideString(&config.Service.Host, "SERVICE_HOST")
	overrideInt(&config.Service.Port, "SERVICE_PORT")

	return &config, nil
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
