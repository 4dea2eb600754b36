package main

import (
	"strings"
	"time"

	"github.com/EternisAI/device-trust/internal/api/http"
	"github.com/EternisAI/device-trust/internal/auth"
	"github.com/EternisAI/device-trust/internal/db"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig
	Http     http.Config
	Auth     auth.Config
	User     UserConfig
	Refresh  RefreshConfig
	Verifier VerifierConfig
	Certs    CertsConfig
	Database db.Config
}

type UserConfig struct {
	// ID is the identity the device's enrollment is resolved for.
	ID string `mapstructure:"id"`
}

type RefreshConfig struct {
	// Interval between periodic background refreshes. Zero disables them;
	// the API's refresh endpoint still works.
	Interval time.Duration `mapstructure:"interval"`
}

type VerifierConfig struct {
	// BaseURL of the local endpoint-verification helper's status API.
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CertsConfig struct {
	// Dir holds the device certificates (PEM or PKCS#12).
	Dir            string `mapstructure:"dir"`
	PKCS12Password string `mapstructure:"pkcs12_password"`
}

var config Config

func InitConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/device-trust-agent")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("auth.secret", "AUTH_SECRET")
	_ = viper.BindEnv("database.url", "DATABASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)
}
